// Package value defines the run-time object universe manipulated by
// opcodes: integers, floats, strings, symbols, booleans, nil, arrays,
// hashes, ranges, regular expressions, classes/modules, methods, blocks,
// plus an opaque "any host object" escape hatch (spec.md §2.1).
package value

import "github.com/mna/yarv/calldata"

// Value is the interface implemented by every value the machine can push on
// its operand stack, store in a local, or pass as an argument.
type Value interface {
	String() string
	Type() string
}

// Symbol is re-exported from calldata so that callers working purely with
// the value domain do not need to import calldata directly.
type Symbol = calldata.Symbol

// An Ordered type supports the lt/le/gt/ge comparisons.
type Ordered interface {
	Value
	// Cmp compares the receiver to y, which must be of the same concrete
	// type. It returns negative, zero, or positive as the receiver is less
	// than, equal to, or greater than y.
	Cmp(y Value) (int, error)
}

// A HasEqual type defines custom equality (used by eql/neq when the values
// are not Ordered, e.g. arrays, hashes, ranges).
type HasEqual interface {
	Value
	Equals(y Value) (bool, error)
}

// An Iterable value may be iterated; see Iterator.
type Iterable interface {
	Value
	Iterate() Iterator
}

// A Sequence is an Iterable of known length.
type Sequence interface {
	Iterable
	Len() int
}

// An Indexable supports efficient random access by integer index.
type Indexable interface {
	Value
	Index(i int) Value
	Len() int
}

// A HasSetIndex is an Indexable whose elements may be assigned.
type HasSetIndex interface {
	Indexable
	SetIndex(i int, v Value) error
}

// Iterator yields the elements of an Iterable one at a time.
type Iterator interface {
	// Next reports whether another element is available; if so it stores it
	// in *p and advances.
	Next(p *Value) bool
	// Done releases any resource held by the iterator.
	Done()
}

// A Mapping maps keys to values, such as a Hash.
type Mapping interface {
	Value
	Get(k Value) (v Value, found bool, err error)
}

// A HasSetKey supports key assignment (x[k] = v).
type HasSetKey interface {
	Mapping
	SetKey(k, v Value) error
}

// A HasAttrs value exposes attributes reachable via getattr-like access
// (instance-variable access on Object, and host values wrapped in an
// AnyObject).
type HasAttrs interface {
	Value
	Attr(name string) (Value, error)
	AttrNames() []string
}

// A HasSetField value accepts attribute assignment.
type HasSetField interface {
	HasAttrs
	SetField(name string, v Value) error
}

// NoSuchAttrError is returned by HasAttrs.Attr/HasSetField.SetField to
// indicate the named attribute does not exist.
type NoSuchAttrError string

func (e NoSuchAttrError) Error() string { return "undefined attribute: " + string(e) }

// HasMetamap is implemented by values that support customization of
// behavior via a metamethod table (used by Class/Object for operator
// overloading).
type HasMetamap interface {
	Value
	Metamap() *Hash
	SetMetamap(*Hash)
}
