package network

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the type held by a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindFloat
	KindInt
	KindBool
	KindString
	KindCoords
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindCoords:
		return "coords"
	default:
		return "unknown"
	}
}

// Value is one typed field of an equipment record. The zero Value is the
// absent sentinel.
type Value struct {
	kind   Kind
	f      float64
	i      int64
	b      bool
	s      string
	coords [][]float64
}

// Absent returns the explicit "no value" sentinel.
func Absent() Value { return Value{} }

// Float wraps a float64. NaN is stored as absent.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindFloat, f: f}
}

// Int wraps an int64.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Bool wraps a bool.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Coords wraps a list of coordinate pairs.
func Coords(c [][]float64) Value { return Value{kind: KindCoords, coords: c} }

// Kind returns the type held by v.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is the absent sentinel.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// AsFloat returns v as a float64 when it holds a number or a bool.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) {
	if v.kind == KindInt {
		return v.i, true
	}
	return 0, false
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	return false, false
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	if v.kind == KindString {
		return v.s, true
	}
	return "", false
}

// AsCoords returns the coordinate pairs held by v.
func (v Value) AsCoords() ([][]float64, bool) {
	if v.kind == KindCoords {
		return v.coords, true
	}
	return nil, false
}

// Text renders v for display. Integral floats print without decimals so that
// a numeric name cell reads the way it was typed.
func (v Value) Text() string {
	switch v.kind {
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.s
	case KindCoords:
		b, _ := json.Marshal(v.coords)
		return string(b)
	}
	return ""
}

// Equal reports whether both values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindFloat:
		return v.f == o.f
	case KindInt:
		return v.i == o.i
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindCoords:
		if len(v.coords) != len(o.coords) {
			return false
		}
		for i := range v.coords {
			if len(v.coords[i]) != len(o.coords[i]) {
				return false
			}
			for j := range v.coords[i] {
				if v.coords[i][j] != o.coords[i][j] {
					return false
				}
			}
		}
	}
	return true
}

// MarshalJSON encodes absent values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindFloat:
		if math.IsInf(v.f, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.f)
	case KindInt:
		return json.Marshal(v.i)
	case KindBool:
		return json.Marshal(v.b)
	case KindString:
		return json.Marshal(v.s)
	case KindCoords:
		return json.Marshal(v.coords)
	}
	return []byte("null"), nil
}

// ParseCell types a raw workbook cell: empty cells are absent, numbers become
// floats, TRUE/FALSE become booleans and anything else stays a string.
func ParseCell(raw string) Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Absent()
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Float(f)
	}
	switch strings.ToUpper(raw) {
	case "TRUE":
		return Bool(true)
	case "FALSE":
		return Bool(false)
	}
	return String(raw)
}
