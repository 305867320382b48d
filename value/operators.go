package value

import (
	"fmt"
	"math"
)

// Equal reports whether x and y are equal under Ruby-like `==` semantics:
// Ordered types compare via Cmp, HasEqual types via Equals, everything else
// falls back to identity (pointer equality for reference types, value
// equality for the comparable primitive kinds).
func Equal(x, y Value) (bool, error) {
	if ox, ok := x.(Ordered); ok {
		if _, ok := y.(Ordered); ok {
			c, err := ox.Cmp(y)
			if err != nil {
				return false, err
			}
			return c == 0, nil
		}
	}
	if hx, ok := x.(HasEqual); ok {
		return hx.Equals(y)
	}
	return x == y, nil
}

// Compare implements the lt/le/gt/ge/eql/neq comparison opcodes (and their
// opt_* specializations) via the operator's method-name symbol.
func Compare(op Symbol, x, y Value) (bool, error) {
	switch op {
	case "==":
		return Equal(x, y)
	case "!=":
		eq, err := Equal(x, y)
		return !eq, err
	}
	ox, ok := x.(Ordered)
	if !ok {
		return false, fmt.Errorf("%s does not support comparison", x.Type())
	}
	c, err := ox.Cmp(y)
	if err != nil {
		return false, err
	}
	switch op {
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	case ">":
		return c > 0, nil
	case ">=":
		return c >= 0, nil
	default:
		return false, fmt.Errorf("unsupported comparison operator %q", op)
	}
}

// Binary implements the arithmetic/bitwise opt_* opcodes (plus, minus,
// mult, div, mod, and, or, ltlt) for the numeric primitive kinds, string
// concatenation for `+`, and array/hash indexing for aref/aset via the
// Indexable/Mapping/HasSetKey protocols.
func Binary(op Symbol, x, y Value) (Value, error) {
	switch op {
	case "[]":
		return getIndex(x, y)
	}
	switch a := x.(type) {
	case Integer:
		if b, ok := y.(Integer); ok {
			return integerBinary(op, a, b)
		}
		if b, ok := y.(Float); ok {
			return floatBinary(op, Float(a), b)
		}
	case Float:
		switch b := y.(type) {
		case Float:
			return floatBinary(op, a, b)
		case Integer:
			return floatBinary(op, a, Float(b))
		}
	case String:
		if op == "+" {
			if b, ok := y.(String); ok {
				return a + b, nil
			}
		}
	case *Array:
		if op == "+" {
			if b, ok := y.(*Array); ok {
				return a.Concat(b), nil
			}
		}
	}
	return nil, fmt.Errorf("undefined method %q for %s", op, x.Type())
}

func integerBinary(op Symbol, a, b Integer) (Value, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return nil, fmt.Errorf("divided by 0")
		}
		return Integer(math.Floor(float64(a) / float64(b))), nil
	case "//":
		if b == 0 {
			return nil, fmt.Errorf("divided by 0")
		}
		return Integer(math.Floor(float64(a) / float64(b))), nil
	case "%":
		if b == 0 {
			return nil, fmt.Errorf("divided by 0")
		}
		m := a % b
		if (m < 0) != (b < 0) && m != 0 {
			m += b
		}
		return m, nil
	case "&":
		return a & b, nil
	case "|":
		return a | b, nil
	case "^":
		return a ^ b, nil
	case "<<":
		return a << uint(b), nil
	case ">>":
		return a >> uint(b), nil
	default:
		return nil, fmt.Errorf("undefined method %q for Integer", op)
	}
}

func floatBinary(op Symbol, a, b Float) (Value, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		return a / b, nil
	case "%":
		return Float(math.Mod(float64(a), float64(b))), nil
	default:
		return nil, fmt.Errorf("undefined method %q for Float", op)
	}
}

// Unary implements the unary operators (+@, -@, ~, !) and the
// length/size/empty?/nil?/succ methods behind the unary opt_* opcodes.
func Unary(op Symbol, x Value) (Value, error) {
	switch op {
	case "+@":
		switch x.(type) {
		case Integer, Float:
			return x, nil
		}
	case "-@":
		switch v := x.(type) {
		case Integer:
			return -v, nil
		case Float:
			return -v, nil
		}
	case "~":
		if v, ok := x.(Integer); ok {
			return ^v, nil
		}
	case "!":
		return Bool(!Truth(x)), nil
	case "length", "size":
		if s, ok := x.(Sequence); ok {
			return Integer(s.Len()), nil
		}
		if s, ok := x.(Indexable); ok {
			return Integer(s.Len()), nil
		}
	case "empty?":
		if s, ok := x.(Sequence); ok {
			return Bool(s.Len() == 0), nil
		}
	case "nil?":
		_, isNil := x.(NilType)
		return Bool(isNil), nil
	case "succ":
		if v, ok := x.(Integer); ok {
			return v + 1, nil
		}
	}
	return nil, fmt.Errorf("undefined method %q for %s", op, x.Type())
}

func getIndex(x, i Value) (Value, error) {
	switch c := x.(type) {
	case *Array:
		idx, ok := i.(Integer)
		if !ok {
			return nil, fmt.Errorf("no implicit conversion of %s into Integer", i.Type())
		}
		n := int(idx)
		if n < 0 {
			n += c.Len()
		}
		if n < 0 || n >= c.Len() {
			return Nil, nil
		}
		return c.Index(n), nil
	case Mapping:
		v, found, err := c.Get(i)
		if err != nil {
			return nil, err
		}
		if !found {
			return Nil, nil
		}
		return v, nil
	case String:
		idx, ok := i.(Integer)
		if !ok {
			return nil, fmt.Errorf("no implicit conversion of %s into Integer", i.Type())
		}
		n := int(idx)
		if n < 0 {
			n += c.Len()
		}
		if n < 0 || n >= c.Len() {
			return Nil, nil
		}
		return c.Index(n), nil
	default:
		return nil, fmt.Errorf("undefined method \"[]\" for %s", x.Type())
	}
}

// SetIndex implements aset/opt_aset's `x[i] = v` semantics.
func SetIndex(x, i, v Value) error {
	switch c := x.(type) {
	case HasSetIndex:
		idx, ok := i.(Integer)
		if !ok {
			return fmt.Errorf("no implicit conversion of %s into Integer", i.Type())
		}
		return c.SetIndex(int(idx), v)
	case HasSetKey:
		return c.SetKey(i, v)
	default:
		return fmt.Errorf("undefined method \"[]=\" for %s", x.Type())
	}
}

// ToS implements the string-conversion used by objtostring/anytostring.
func ToS(v Value) String {
	return String(v.String())
}
