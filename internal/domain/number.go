package domain

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Number is a JSON numeric argument. Integer literals stay integers of
// arbitrary size and everything else is a float, so results print the way
// clients expect: "2 + 3 = 5" but "6 / 3 = 2.0".
type Number struct {
	i       *big.Int // nil means 0
	f       float64
	isFloat bool
}

// IntNumber returns an integer Number.
func IntNumber(v int64) Number { return Number{i: big.NewInt(v)} }

// FloatNumber returns a floating point Number.
func FloatNumber(v float64) Number { return Number{f: v, isFloat: true} }

// ParseNumber parses a JSON number literal. Literals without a fraction or
// exponent are integers regardless of their magnitude.
func ParseNumber(s string) (Number, error) {
	if !strings.ContainsAny(s, ".eE") {
		if v, ok := new(big.Int).SetString(s, 10); ok {
			return Number{i: v}, nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !isRangeError(err) {
		return Number{}, err
	}
	return FloatNumber(v), nil
}

func isRangeError(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}

func (n Number) integer() *big.Int {
	if n.i == nil {
		return new(big.Int)
	}
	return n.i
}

// IsFloat reports whether n is a float.
func (n Number) IsFloat() bool { return n.isFloat }

// Float64 returns n as a float64, rounding integers to the nearest value.
func (n Number) Float64() float64 {
	if n.isFloat {
		return n.f
	}
	f, _ := new(big.Float).SetInt(n.integer()).Float64()
	return f
}

// IsZero reports whether n equals zero (0 or 0.0).
func (n Number) IsZero() bool {
	if n.isFloat {
		return n.f == 0
	}
	return n.integer().Sign() == 0
}

// Add returns n+m.
func (n Number) Add(m Number) Number {
	if n.isFloat || m.isFloat {
		return FloatNumber(n.Float64() + m.Float64())
	}
	return Number{i: new(big.Int).Add(n.integer(), m.integer())}
}

// Sub returns n-m.
func (n Number) Sub(m Number) Number {
	if n.isFloat || m.isFloat {
		return FloatNumber(n.Float64() - m.Float64())
	}
	return Number{i: new(big.Int).Sub(n.integer(), m.integer())}
}

// Mul returns n*m.
func (n Number) Mul(m Number) Number {
	if n.isFloat || m.isFloat {
		return FloatNumber(n.Float64() * m.Float64())
	}
	return Number{i: new(big.Int).Mul(n.integer(), m.integer())}
}

// Div returns n/m as a float. Callers check m.IsZero first.
func (n Number) Div(m Number) Number {
	return FloatNumber(n.Float64() / m.Float64())
}

// String formats n: integers in decimal, floats in shortest round-trip form
// with a trailing ".0" when integral and exponent notation outside [1e-4, 1e16).
func (n Number) String() string {
	if !n.isFloat {
		return n.integer().String()
	}
	return formatFloat(n.f)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.LastIndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
