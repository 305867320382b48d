package opcode

import (
	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/value"
)

// Jump transfers control to Target unconditionally.
type Jump struct{ Target *iseq.Label }

func (Jump) Tag() string         { return "jump" }
func (Jump) Length() int         { return 2 }
func (Jump) Pops() int           { return 0 }
func (Jump) Pushes() int         { return 0 }
func (o Jump) Canonical() Opcode { return o }
func (o Jump) Call(m Machine) error {
	m.Jump(o.Target)
	return nil
}
func (o Jump) Disasm(f Formatter) string { return "jump " + f.Label(o.Target) }
func (o Jump) ToA(iseq.ISeq) []any        { return toA("jump", o.Target) }

// BranchIf pops TOS and jumps to Target if it is truthy.
type BranchIf struct{ Target *iseq.Label }

func (BranchIf) Tag() string         { return "branchif" }
func (BranchIf) Length() int         { return 2 }
func (BranchIf) Pops() int           { return 1 }
func (BranchIf) Pushes() int         { return 0 }
func (o BranchIf) Canonical() Opcode { return o }
func (o BranchIf) Call(m Machine) error {
	v := m.Pop()
	if value.Truth(v) {
		m.Jump(o.Target)
	}
	return nil
}
func (o BranchIf) Disasm(f Formatter) string { return "branchif " + f.Label(o.Target) }
func (o BranchIf) ToA(iseq.ISeq) []any        { return toA("branchif", o.Target) }

// BranchUnless pops TOS and jumps to Target if it is falsy.
type BranchUnless struct{ Target *iseq.Label }

func (BranchUnless) Tag() string         { return "branchunless" }
func (BranchUnless) Length() int         { return 2 }
func (BranchUnless) Pops() int           { return 1 }
func (BranchUnless) Pushes() int         { return 0 }
func (o BranchUnless) Canonical() Opcode { return o }
func (o BranchUnless) Call(m Machine) error {
	v := m.Pop()
	if !value.Truth(v) {
		m.Jump(o.Target)
	}
	return nil
}
func (o BranchUnless) Disasm(f Formatter) string { return "branchunless " + f.Label(o.Target) }
func (o BranchUnless) ToA(iseq.ISeq) []any        { return toA("branchunless", o.Target) }

// BranchNil pops TOS and jumps to Target if it is nil (used for `&.`
// safe-navigation lowering).
type BranchNil struct{ Target *iseq.Label }

func (BranchNil) Tag() string         { return "branchnil" }
func (BranchNil) Length() int         { return 2 }
func (BranchNil) Pops() int           { return 1 }
func (BranchNil) Pushes() int         { return 0 }
func (o BranchNil) Canonical() Opcode { return o }
func (o BranchNil) Call(m Machine) error {
	v := m.Pop()
	if _, isNil := v.(value.NilType); isNil {
		m.Jump(o.Target)
	}
	return nil
}
func (o BranchNil) Disasm(f Formatter) string { return "branchnil " + f.Label(o.Target) }
func (o BranchNil) ToA(iseq.ISeq) []any        { return toA("branchnil", o.Target) }

// OptCaseDispatch pops TOS and jumps directly to the label associated with
// its value in Table, jumping to Else when no entry matches (or falling
// through to the next instruction when Else is nil); it fuses what would
// otherwise be a chain of checkmatch
// + branchif pairs for a `case`/`when` over literal values.
type OptCaseDispatch struct {
	Table map[string]*iseq.Label
	Else  *iseq.Label
}

func (OptCaseDispatch) Tag() string         { return "opt_case_dispatch" }
func (OptCaseDispatch) Length() int         { return 3 }
func (OptCaseDispatch) Pops() int           { return 1 }
func (OptCaseDispatch) Pushes() int         { return 0 }
func (o OptCaseDispatch) Canonical() Opcode { return o }
func (o OptCaseDispatch) Call(m Machine) error {
	v := m.Pop()
	if l, ok := o.Table[v.String()]; ok {
		m.Jump(l)
		return nil
	}
	if o.Else != nil {
		m.Jump(o.Else)
	}
	return nil
}
func (o OptCaseDispatch) Disasm(f Formatter) string {
	s := "opt_case_dispatch {"
	first := true
	for k, l := range o.Table {
		if !first {
			s += ", "
		}
		first = false
		s += k + "=>" + f.Label(l)
	}
	s += "}, " + f.Label(o.Else)
	return s
}
func (o OptCaseDispatch) ToA(iseq.ISeq) []any {
	tbl := make(map[string]any, len(o.Table))
	for k, l := range o.Table {
		tbl[k] = l
	}
	return toA("opt_case_dispatch", tbl, o.Else)
}

// Leave unwinds the current frame, returning TOS as its value. Per spec.md
// §6/§9's documented anomaly, Pushes reports 0 even though it semantically
// removes TOS from visibility by ending the frame (no successor instruction
// ever observes the stack again).
type Leave struct{}

func (Leave) Tag() string         { return "leave" }
func (Leave) Length() int         { return 1 }
func (Leave) Pops() int           { return 1 }
func (Leave) Pushes() int         { return 0 }
func (o Leave) Canonical() Opcode { return o }
func (Leave) Call(m Machine) error {
	m.Leave(m.Pop())
	return nil
}
func (Leave) Disasm(f Formatter) string { return "leave" }
func (Leave) ToA(iseq.ISeq) []any       { return toA("leave") }

// Nop does nothing; emitted by the compiler as a jump target placeholder.
type Nop struct{}

func (Nop) Tag() string         { return "nop" }
func (Nop) Length() int         { return 1 }
func (Nop) Pops() int           { return 0 }
func (Nop) Pushes() int         { return 0 }
func (o Nop) Canonical() Opcode { return o }
func (Nop) Call(m Machine) error { return nil }
func (Nop) Disasm(f Formatter) string { return "nop" }
func (Nop) ToA(iseq.ISeq) []any       { return toA("nop") }

// Throw pops TOS and initiates non-local control transfer of kind Kind
// (return/break/next/redo/retry) with the popped value as payload.
type Throw struct{ Kind string }

func (Throw) Tag() string         { return "throw" }
func (Throw) Length() int         { return 2 }
func (Throw) Pops() int           { return 1 }
func (Throw) Pushes() int         { return 1 }
func (o Throw) Canonical() Opcode { return o }
func (o Throw) Call(m Machine) error {
	return m.Throw(o.Kind, m.Pop())
}
func (o Throw) Disasm(f Formatter) string { return "throw " + o.Kind }
func (o Throw) ToA(iseq.ISeq) []any        { return toA("throw", o.Kind) }
