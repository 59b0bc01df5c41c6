package domain

import (
	"bytes"
	"encoding/json"
)

// ValueKind classifies a raw JSON value.
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindObject
	KindArray
	KindScalar
	KindNull
)

func (k ValueKind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindNull:
		return "null"
	default:
		return "scalar"
	}
}

// Arguments is the arguments member of a tools/call request.
//
// Accessors apply the default-on-missing policy: an absent field yields the
// caller's default and is never an error. Absent arguments behave like an
// empty object; any other non-object value makes every accessor fail.
type Arguments struct {
	kind    ValueKind
	members map[string]json.RawMessage
}

// NewArguments classifies raw. A nil raw value means the member was absent.
func NewArguments(raw json.RawMessage) Arguments {
	kind := kindOf(raw)
	args := Arguments{kind: kind}
	if kind == KindObject {
		if err := json.Unmarshal(raw, &args.members); err != nil {
			args.kind = KindScalar
		}
	}
	return args
}

func kindOf(raw json.RawMessage) ValueKind {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return KindAbsent
	}
	switch trimmed[0] {
	case '{':
		return KindObject
	case '[':
		return KindArray
	case 'n':
		return KindNull
	default:
		return KindScalar
	}
}

// Kind reports what the arguments value was.
func (a Arguments) Kind() ValueKind { return a.kind }

// Has reports whether the named field is present.
func (a Arguments) Has(name string) bool {
	_, ok := a.members[name]
	return ok
}

func (a Arguments) field(name string) (json.RawMessage, bool, error) {
	switch a.kind {
	case KindAbsent:
		return nil, false, nil
	case KindObject:
		v, ok := a.members[name]
		return v, ok, nil
	default:
		return nil, false, NewToolExecutionError("arguments must be an object, got %s", a.kind)
	}
}

// Number returns the named numeric field, or def when it is absent.
func (a Arguments) Number(name string, def Number) (Number, error) {
	raw, ok, err := a.field(name)
	if err != nil || !ok {
		return def, err
	}
	if len(raw) == 0 || !(raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		return Number{}, NewToolExecutionError("argument %q must be a number, got %s", name, string(raw))
	}
	n, err := ParseNumber(string(raw))
	if err != nil {
		return Number{}, &ToolExecutionError{Message: "argument " + name + " is not a valid number", Err: err}
	}
	return n, nil
}

// String returns the named string field, or def when it is absent.
func (a Arguments) String(name, def string) (string, error) {
	raw, ok, err := a.field(name)
	if err != nil || !ok {
		return def, err
	}
	var s string
	if len(raw) == 0 || raw[0] != '"' || json.Unmarshal(raw, &s) != nil {
		return "", NewToolExecutionError("argument %q must be a string, got %s", name, string(raw))
	}
	return s, nil
}

// Enum returns the named selector, or the first of options when it is absent.
// Values outside options are returned as given; executors report them.
func (a Arguments) Enum(name string, options []string) (string, error) {
	def := ""
	if len(options) > 0 {
		def = options[0]
	}
	return a.String(name, def)
}
