// Package opcode implements the ~100-variant YARV-compatible opcode
// catalog: every opcode is a value object exposing the uniform contract of
// spec.md §3/§4.1 (operand accessors, Disasm, ToA, Length, Pops, Pushes,
// Canonical and Call).
package opcode

import (
	"github.com/mna/yarv/calldata"
	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/value"
)

// Opcode is the uniform contract every instruction variant implements.
type Opcode interface {
	// Tag is the opcode's lowercase mnemonic, the first element of its ToA
	// serialization and the mnemonic printed by Disasm.
	Tag() string
	// Length is the instruction's width in the encoded stream: the opcode
	// itself plus one slot per operand (spec.md §3).
	Length() int
	// Pops is the number of stack slots this instruction consumes. It must
	// be a pure function of the instruction's own operands (and, for
	// call-like opcodes, of the embedded CallData) — never of runtime
	// stack contents.
	Pops() int
	// Pushes is the number of stack slots this instruction produces. Usually
	// 0 or 1; the stack shufflers (dup, dupn, swap) and expandarray report
	// more, and checktype/leave carry the two documented anomalies (see
	// spec.md §6/§9).
	Pushes() int
	// Canonical returns the opcode value of equivalent observable effect
	// this instruction rewrites to: itself for primitive opcodes, or a
	// primitive composition for specialized/legacy ones. The relation is
	// idempotent and converges in one step (spec.md §4.11).
	Canonical() Opcode
	// Call executes the instruction against a VM runtime.
	Call(m Machine) error
	// Disasm renders one human-readable disassembly line via f.
	Disasm(f Formatter) string
	// ToA produces this instruction's serialized form, rooted at its
	// lowercase tag, in the fixed operand order spec.md §6 describes. iq is
	// the owning iseq, needed to translate local indices to bottom-of-table
	// offsets.
	ToA(iq iseq.ISeq) []any
}

// Formatter is the textual-layout collaborator an opcode's Disasm method
// renders against: label/calldata/object/inline-cache pretty-printing, plus
// a hook to register a child iseq (embedded by defineclass/definemethod/
// definesmethod/once) for the disassembler to emit after its parent.
type Formatter interface {
	Label(l *iseq.Label) string
	CallData(cd *calldata.CallData) string
	Object(v value.Value) string
	Enqueue(child iseq.ISeq)
}

// Machine is the VM runtime interface spec.md §3 requires of the
// collaborator every opcode's Call method operates against. It is declared
// here (at the point of use, per spec.md §9's call for an interface
// abstraction) rather than in package vm, so that package vm may depend on
// package opcode without creating an import cycle; *vm.Thread implements
// this interface.
type Machine interface {
	// Push pushes v onto the current frame's operand stack.
	Push(v value.Value)
	// Pop pops and returns the top of the current frame's operand stack.
	Pop() value.Value
	// PopN pops and returns the top n elements, in original (bottom-to-top)
	// order.
	PopN(n int) []value.Value
	// StackLen reports the current operand stack depth.
	StackLen() int
	// StackAt returns the value n slots below the top (0 = TOS) without
	// popping, used by dupn/topn.
	StackAt(n int) value.Value
	// SetStackAt overwrites the value n slots below the top without
	// changing stack depth, used by setn.
	SetStackAt(n int, v value.Value)

	// LocalGet/LocalSet resolve a local slot in the frame `level` levels up
	// the lexical nesting (0 = current frame).
	LocalGet(index, level int) value.Value
	LocalSet(index, level int, v value.Value)

	// Self is the current frame's `self` receiver.
	Self() value.Value
	// CurrentISeq is the iseq of the current frame.
	CurrentISeq() iseq.ISeq
	// CurrentBlock is the block passed to the nearest enclosing method
	// frame (frame_yield in spec.md §3), or nil if none.
	CurrentBlock() *value.Proc
	// ConstBase is the lexical constant-nesting base used by getconstant/
	// setconstant/opt_getconstant_path.
	ConstBase() *value.Class
	// FrozenCore is the sentinel receiver used by alias/undef lowerings via
	// putspecialobject.
	FrozenCore() value.Value

	// Global/SetGlobal access the first-class global-variable table
	// (spec.md §9's recommended re-architecture of getglobal/setglobal).
	Global(name value.Symbol) value.Value
	SetGlobal(name value.Symbol, v value.Value)

	// SVar/SetSVar access the special-variable slots (flip-flop state and
	// pattern-match backrefs).
	SVar(key int) value.Value
	SetSVar(key int, v value.Value)

	// Jump transfers control to l; it takes effect after the current
	// instruction's Call returns.
	Jump(l *iseq.Label)
	// Leave unwinds the current frame with result v as its return value.
	Leave(v value.Value)
	// Throw initiates non-local control transfer with the given tag kind
	// and payload, to be caught by the nearest enclosing catch-table entry.
	Throw(tag string, v value.Value) error

	// Dispatch resolves and invokes method name on self with the given
	// positional args, keyword args and block, re-entering the interpreter
	// on a child frame when self resolves to a user-defined method.
	Dispatch(self value.Value, method value.Symbol, args []value.Value, kwArg map[value.Symbol]value.Value, block *value.Proc) (value.Value, error)
	// DispatchSuper is like Dispatch, but resolution starts from the
	// superclass of the method that owns the current frame.
	DispatchSuper(method value.Symbol, args []value.Value, kwArg map[value.Symbol]value.Value, block *value.Proc) (value.Value, error)

	// RunClassFrame executes body as a class-body frame with self bound to
	// the class/module being defined, returning the body's value.
	RunClassFrame(self value.Value, class *value.Class, body iseq.ISeq) (value.Value, error)

	// RunBlockFrame invokes p by re-entering the interpreter on p's own
	// iseq, with self bound to p.CapturedSelf (invokeblock/Proc#call).
	RunBlockFrame(p *value.Proc, args []value.Value, kwArg map[value.Symbol]value.Value) (value.Value, error)

	// MakeBlock materializes a literal block iseq attached to a call site
	// (send/invokesuper's embedded Block) into a Proc closing over the
	// current frame's self and lexical context.
	MakeBlock(body iseq.ISeq) *value.Proc

	// OnceCache looks up the memoized result for the once opcode at cache
	// slot, scoped to the once body iseq (two different bodies may both use
	// slot 0).
	OnceCache(body iseq.ISeq, cache int) (value.Value, bool)
	// SetOnceCache populates the memo slot OnceCache reads.
	SetOnceCache(body iseq.ISeq, cache int, v value.Value)

	// Load invokes the thread's module loader; no opcode in this catalog
	// calls it.
	Load(module string) (value.Value, error)
}
