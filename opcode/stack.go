package opcode

import (
	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/value"
)

// Pop discards the top of stack (spec.md §4.2).
type Pop struct{}

func (Pop) Tag() string       { return "pop" }
func (Pop) Length() int       { return 1 }
func (Pop) Pops() int         { return 1 }
func (Pop) Pushes() int       { return 0 }
func (o Pop) Canonical() Opcode { return o }
func (Pop) Call(m Machine) error {
	m.Pop()
	return nil
}
func (Pop) Disasm(f Formatter) string { return "pop" }
func (Pop) ToA(iseq.ISeq) []any       { return toA("pop") }

// Dup duplicates the top of stack (shallow).
type Dup struct{}

func (Dup) Tag() string         { return "dup" }
func (Dup) Length() int         { return 1 }
func (Dup) Pops() int           { return 1 }
func (Dup) Pushes() int         { return 2 }
func (o Dup) Canonical() Opcode { return o }
func (Dup) Call(m Machine) error {
	v := m.StackAt(0)
	m.Push(v)
	return nil
}
func (Dup) Disasm(f Formatter) string { return "dup" }
func (Dup) ToA(iseq.ISeq) []any       { return toA("dup") }

// DupN duplicates the top n elements as a block, preserving order.
type DupN struct{ N int }

func (DupN) Tag() string         { return "dupn" }
func (DupN) Length() int         { return 2 }
func (o DupN) Pops() int         { return o.N }
func (o DupN) Pushes() int       { return o.N * 2 }
func (o DupN) Canonical() Opcode { return o }
func (o DupN) Call(m Machine) error {
	vals := make([]value.Value, o.N)
	for i := 0; i < o.N; i++ {
		vals[i] = m.StackAt(o.N - 1 - i)
	}
	for _, v := range vals {
		m.Push(v)
	}
	return nil
}
func (o DupN) Disasm(f Formatter) string { return "dupn " + itoa(o.N) }
func (o DupN) ToA(iseq.ISeq) []any        { return toA("dupn", o.N) }

// Swap exchanges the top two elements.
type Swap struct{}

func (Swap) Tag() string         { return "swap" }
func (Swap) Length() int         { return 1 }
func (Swap) Pops() int           { return 2 }
func (Swap) Pushes() int         { return 2 }
func (o Swap) Canonical() Opcode { return o }
func (Swap) Call(m Machine) error {
	a := m.StackAt(1)
	b := m.StackAt(0)
	m.SetStackAt(1, b)
	m.SetStackAt(0, a)
	return nil
}
func (Swap) Disasm(f Formatter) string { return "swap" }
func (Swap) ToA(iseq.ISeq) []any       { return toA("swap") }

// TopN pushes a copy of the element n slots below TOS (TOS is index 0).
type TopN struct{ N int }

func (TopN) Tag() string         { return "topn" }
func (TopN) Length() int         { return 2 }
func (TopN) Pops() int           { return 0 }
func (TopN) Pushes() int         { return 1 }
func (o TopN) Canonical() Opcode { return o }
func (o TopN) Call(m Machine) error {
	m.Push(m.StackAt(o.N))
	return nil
}
func (o TopN) Disasm(f Formatter) string { return "topn " + itoa(o.N) }
func (o TopN) ToA(iseq.ISeq) []any        { return toA("topn", o.N) }

// SetN overwrites the element n slots below TOS with a copy of TOS; TOS
// itself is not popped.
type SetN struct{ N int }

func (SetN) Tag() string         { return "setn" }
func (SetN) Length() int         { return 2 }
func (SetN) Pops() int           { return 0 }
func (SetN) Pushes() int         { return 0 }
func (o SetN) Canonical() Opcode { return o }
func (o SetN) Call(m Machine) error {
	m.SetStackAt(o.N, m.StackAt(0))
	return nil
}
func (o SetN) Disasm(f Formatter) string { return "setn " + itoa(o.N) }
func (o SetN) ToA(iseq.ISeq) []any        { return toA("setn", o.N) }

// AdjustStack drops n elements from TOS.
type AdjustStack struct{ N int }

func (AdjustStack) Tag() string         { return "adjuststack" }
func (AdjustStack) Length() int         { return 2 }
func (o AdjustStack) Pops() int         { return o.N }
func (AdjustStack) Pushes() int         { return 0 }
func (o AdjustStack) Canonical() Opcode { return o }
func (o AdjustStack) Call(m Machine) error {
	m.PopN(o.N)
	return nil
}
func (o AdjustStack) Disasm(f Formatter) string { return "adjuststack " + itoa(o.N) }
func (o AdjustStack) ToA(iseq.ISeq) []any        { return toA("adjuststack", o.N) }
