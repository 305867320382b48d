package vm

import (
	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/value"
)

// Frame is one activation record: the operand stack and locals of a single
// iseq run, plus the lexical links (parent frame, self, block, constant
// base) opcodes consult through the Machine interface. It is the
// array-based-VM counterpart of the teacher's lang/machine/frame.go Frame,
// generalized from a single callable/pc pair to carry everything getlocal/
// getblockparam/getconstant need to resolve across lexical levels without a
// separate cell-boxing pass.
type Frame struct {
	iq        iseq.ISeq
	self      value.Value
	constBase *value.Class
	block     *value.Proc

	// parent is the lexically enclosing frame: the frame active when a
	// block literal was instantiated (for block frames), or nil for
	// top-level/method/class frames, which do not close over locals.
	parent *Frame

	locals []value.Value
	stack  []value.Value

	pc int

	jumpPC  int
	jumping bool

	leaving bool
	result  value.Value
}

func newFrame(iq iseq.ISeq, self value.Value, constBase *value.Class, block *value.Proc, parent *Frame) *Frame {
	return &Frame{
		iq:        iq,
		self:      self,
		constBase: constBase,
		block:     block,
		parent:    parent,
		locals:    make([]value.Value, len(iq.LocalTable().Locals)),
	}
}

// atLevel walks level frames up the lexical parent chain (0 = fr itself),
// the frame whose locals getlocal/setlocal/getblockparam at that level
// address.
func (fr *Frame) atLevel(level int) *Frame {
	f := fr
	for ; level > 0 && f.parent != nil; level-- {
		f = f.parent
	}
	return f
}

func (fr *Frame) push(v value.Value) { fr.stack = append(fr.stack, v) }

func (fr *Frame) pop() value.Value {
	n := len(fr.stack) - 1
	v := fr.stack[n]
	fr.stack = fr.stack[:n]
	return v
}

func (fr *Frame) popN(n int) []value.Value {
	if n == 0 {
		return nil
	}
	start := len(fr.stack) - n
	out := make([]value.Value, n)
	copy(out, fr.stack[start:])
	fr.stack = fr.stack[:start]
	return out
}

func (fr *Frame) stackAt(n int) value.Value {
	return fr.stack[len(fr.stack)-1-n]
}

func (fr *Frame) setStackAt(n int, v value.Value) {
	fr.stack[len(fr.stack)-1-n] = v
}
