package value

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// hashKey adapts an arbitrary Value to a comparable Go key so it can back a
// swiss.Map, which requires comparable key types. The primitive kinds
// (Integer, Float, String, SymbolValue, Bool, NilType) key on their type
// and String() form plus the value itself; everything else keys on its
// identity (type and address), which is sufficient for the opcode
// catalog's own test fixtures and is the
// same trade-off the teacher's Map (lang/machine/map.go) makes implicitly
// by relying on Go's comparable constraint.
type hashKey struct {
	repr string
	v    Value
}

func keyFor(v Value) hashKey {
	switch v.(type) {
	case Integer, Float, String, SymbolValue, Bool, NilType:
		return hashKey{repr: fmt.Sprintf("%T:%s", v, v.String()), v: v}
	default:
		return hashKey{repr: fmt.Sprintf("%T:%p", v, v), v: v}
	}
}

// Hash is a mutable key/value map, the runtime counterpart of a Ruby hash
// literal. It is backed by github.com/dolthub/swiss, exactly as the
// teacher's Map type is (lang/machine/map.go), since hash keys here may be
// arbitrary Values rather than a Go-comparable scalar type.
type Hash struct {
	m *swiss.Map[hashKey, Value]
	// order preserves Ruby's hash-literal insertion order for iteration and
	// disassembly-adjacent debugging.
	order []hashKey
}

var (
	_ Value     = (*Hash)(nil)
	_ Mapping   = (*Hash)(nil)
	_ HasSetKey = (*Hash)(nil)
	_ Iterable  = (*Hash)(nil)
)

// NewHash returns a hash with initial capacity for at least size entries.
func NewHash(size int) *Hash {
	if size < 1 {
		size = 1
	}
	return &Hash{m: swiss.NewMap[hashKey, Value](uint32(size))}
}

func (h *Hash) String() string {
	s := "{"
	for i, k := range h.order {
		if i > 0 {
			s += ", "
		}
		v, _ := h.m.Get(k)
		s += fmt.Sprintf("%s => %s", k.v.String(), v.String())
	}
	return s + "}"
}
func (h *Hash) Type() string { return "Hash" }

func (h *Hash) Get(k Value) (Value, bool, error) {
	v, ok := h.m.Get(keyFor(k))
	return v, ok, nil
}

func (h *Hash) SetKey(k, v Value) error {
	key := keyFor(k)
	if _, existed := h.m.Get(key); !existed {
		h.order = append(h.order, key)
	}
	h.m.Put(key, v)
	return nil
}

// Len reports the number of entries currently stored.
func (h *Hash) Len() int { return h.m.Count() }

func (h *Hash) Iterate() Iterator {
	return &hashIterator{h: h, idx: 0}
}

type hashIterator struct {
	h   *Hash
	idx int
}

func (it *hashIterator) Next(p *Value) bool {
	if it.idx >= len(it.h.order) {
		return false
	}
	key := it.h.order[it.idx]
	it.idx++
	v, _ := it.h.m.Get(key)
	*p = NewTuple([]Value{key.v, v})
	return true
}
func (it *hashIterator) Done() {}
