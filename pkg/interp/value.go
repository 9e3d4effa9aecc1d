package interp

import (
	"fmt"
	"strconv"
)

// Kind discriminates the runtime value variants.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindBool
)

// Value is the tagged union the interpreter computes with. The zero
// Value is the integer 0, which is also what reading a never-written
// slot yields.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Str   string
	Bool  bool
}

func IntValue(i int64) Value     { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }

// Display renders the value the way PRINT and CONCAT format it:
// integers and floats in their natural textual form, booleans as
// true/false, strings verbatim.
func (v Value) Display() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return v.Str
	}
}

// AsInt coerces the value to an integer: floats truncate toward zero,
// strings parse as signed decimal, booleans become 0/1. A string that
// does not parse is an error.
func (v Value) AsInt() (int64, error) {
	switch v.Kind {
	case KindInt:
		return v.Int, nil
	case KindFloat:
		return int64(v.Float), nil
	case KindString:
		n, err := strconv.ParseInt(v.Str, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("Cannot convert %q to int", v.Str)
		}
		return n, nil
	case KindBool:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("Cannot convert to int")
}

// asIntLenient is the forgiving coercion used by the graphics opcodes:
// anything unconvertible reads as 0.
func (v Value) asIntLenient() int {
	n, err := v.AsInt()
	if err != nil {
		return 0
	}
	return int(n)
}

// asFloat widens numeric values for mixed comparisons.
func (v Value) asFloat() float64 {
	if v.Kind == KindFloat {
		return v.Float
	}
	return float64(v.Int)
}

func (v Value) isNumeric() bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}
