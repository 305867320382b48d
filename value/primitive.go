package value

import (
	"fmt"
	"strconv"
)

// NilType is the type of Nil. It is represented as a one-byte numeric type
// (rather than struct{}) so that Nil can be a package-level constant,
// mirroring the teacher's lang/machine/nil.go.
type NilType byte

// Nil is the sole value of NilType.
const Nil = NilType(0)

var _ Value = Nil

func (NilType) String() string { return "nil" }
func (NilType) Type() string   { return "NilClass" }

// Bool is the type of true/false.
type Bool bool

const (
	True  = Bool(true)
	False = Bool(false)
)

var _ Value = True

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) Type() string { return "Boolean" }

// Truth reports the truthiness of a value: everything except nil and false
// is truthy (Ruby semantics, not "zero/empty is falsy" semantics).
func Truth(v Value) bool {
	switch v := v.(type) {
	case NilType:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

// Integer is a signed 64-bit integer value (Ruby's Fixnum/Integer, modulo
// arbitrary-precision Bignum which this domain does not model).
type Integer int64

var (
	_ Value   = Integer(0)
	_ Ordered = Integer(0)
)

func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }
func (Integer) Type() string     { return "Integer" }
func (i Integer) Cmp(y Value) (int, error) {
	switch y := y.(type) {
	case Integer:
		switch {
		case i < y:
			return -1, nil
		case i > y:
			return +1, nil
		default:
			return 0, nil
		}
	case Float:
		return Float(i).Cmp(y)
	default:
		return 0, fmt.Errorf("comparison of Integer with %s failed", y.Type())
	}
}

// Float is a 64-bit floating point value.
type Float float64

var (
	_ Value   = Float(0)
	_ Ordered = Float(0)
)

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (Float) Type() string     { return "Float" }
func (f Float) Cmp(y Value) (int, error) {
	var g Float
	switch y := y.(type) {
	case Float:
		g = y
	case Integer:
		g = Float(y)
	default:
		return 0, fmt.Errorf("comparison of Float with %s failed", y.Type())
	}
	switch {
	case f < g:
		return -1, nil
	case f > g:
		return +1, nil
	default:
		return 0, nil
	}
}

// String is an immutable byte-string value.
type String string

var (
	_ Value      = String("")
	_ Ordered    = String("")
	_ Sequence   = String("")
	_ Indexable  = String("")
)

func (s String) String() string  { return string(s) }
func (String) Type() string      { return "String" }
func (s String) Len() int        { return len(s) }
func (s String) Index(i int) Value {
	return String(s[i])
}
func (s String) Iterate() Iterator { return &stringIterator{s: string(s)} }
func (s String) Cmp(y Value) (int, error) {
	t, ok := y.(String)
	if !ok {
		return 0, fmt.Errorf("comparison of String with %s failed", y.Type())
	}
	switch {
	case s < t:
		return -1, nil
	case s > t:
		return +1, nil
	default:
		return 0, nil
	}
}

type stringIterator struct{ s string }

func (it *stringIterator) Next(p *Value) bool {
	if it.s == "" {
		return false
	}
	*p = String(it.s[:1])
	it.s = it.s[1:]
	return true
}
func (it *stringIterator) Done() {}

// SymbolValue is the interned-name value kind pushed by `intern` and
// referenced by calldata method names; it wraps the shared Symbol type so
// it can live on the operand stack as a first-class Value.
type SymbolValue Symbol

var (
	_ Value   = SymbolValue("")
	_ Ordered = SymbolValue("")
)

func (s SymbolValue) String() string { return ":" + string(s) }
func (SymbolValue) Type() string     { return "Symbol" }
func (s SymbolValue) Cmp(y Value) (int, error) {
	t, ok := y.(SymbolValue)
	if !ok {
		return 0, fmt.Errorf("comparison of Symbol with %s failed", y.Type())
	}
	switch {
	case s < t:
		return -1, nil
	case s > t:
		return +1, nil
	default:
		return 0, nil
	}
}
