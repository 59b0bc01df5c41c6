package domain

import (
	"bytes"
	"encoding/json"
)

// InputSchema is the JSON-Schema-shaped description of a tool's arguments.
// Only the subset used by the shipped tools is modelled.
type InputSchema struct {
	Type       string     `json:"type"`               // Always "object" for tool inputs
	Properties Properties `json:"properties"`         // Declared arguments, in declaration order
	Required   []string   `json:"required,omitempty"` // Names listed in Properties
}

// Property describes a single tool argument.
type Property struct {
	Name        string   `json:"-"`
	Type        string   `json:"type"` // "string", "number", "integer", "boolean"
	Enum        []string `json:"enum,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Properties is an ordered set of properties. It serializes as a JSON object
// whose keys keep declaration order, so tools/list output is stable.
type Properties []Property

// MarshalJSON implements json.Marshaler.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, prop := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(prop.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(prop)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Lookup returns the property with the given name.
func (p Properties) Lookup(name string) (Property, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop, true
		}
	}
	return Property{}, false
}

// ObjectSchema builds an object input schema from its properties.
func ObjectSchema(required []string, props ...Property) InputSchema {
	if props == nil {
		props = Properties{}
	}
	return InputSchema{Type: "object", Properties: props, Required: required}
}
