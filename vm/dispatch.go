package vm

import (
	"github.com/mna/yarv/internal/yerr"
	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/value"
)

var comparisonOps = map[value.Symbol]bool{
	"<": true, "<=": true, ">": true, ">=": true, "==": true, "!=": true,
}

var unaryOps = map[value.Symbol]bool{
	"+@": true, "-@": true, "~": true, "!": true,
	"length": true, "size": true, "empty?": true, "nil?": true, "succ": true,
}

// classOf returns the class whose method table governs calls on recv: an
// Object's own class, or a Class's singleton (so that calls on the class
// object itself resolve definesmethod-defined "class methods").
func classOf(recv value.Value) *value.Class {
	switch v := recv.(type) {
	case *value.Object:
		return v.Class
	case *value.Class:
		return v.Singleton()
	}
	return nil
}

// Dispatch implements opcode.Machine: user-defined methods take precedence
// over the primitive operator fallback, mirroring the reference engine's
// rule that reopening a core class's method overrides the builtin.
func (th *Thread) Dispatch(self value.Value, method value.Symbol, args []value.Value, kwArg map[value.Symbol]value.Value, block *value.Proc) (value.Value, error) {
	if c := classOf(self); c != nil {
		if m, owner := c.LookupMethod(method); m != nil {
			return th.RunMethodFrame(self, owner, m, args, kwArg, block)
		}
	}
	if p, ok := self.(*value.Proc); ok && method == "call" {
		return th.RunBlockFrame(p, args, kwArg)
	}
	return th.dispatchPrimitive(self, method, args)
}

// DispatchSuper resolves method (the name the call site passes in) one
// step up the MRO from the class that owns the current frame's method.
func (th *Thread) DispatchSuper(method value.Symbol, args []value.Value, kwArg map[value.Symbol]value.Value, block *value.Proc) (value.Value, error) {
	fr := th.current()
	owner := fr.constBase
	if owner == nil || owner.Super == nil {
		return nil, &yerr.NameNotFoundError{Kind: "super method", Name: string(method)}
	}
	m, foundOn := owner.Super.LookupMethod(method)
	if m == nil {
		return nil, &yerr.NameNotFoundError{Kind: "super method", Name: string(method)}
	}
	return th.RunMethodFrame(fr.self, foundOn, m, args, kwArg, block)
}

func (th *Thread) dispatchPrimitive(self value.Value, method value.Symbol, args []value.Value) (value.Value, error) {
	switch {
	case method == "[]=" && len(args) == 2:
		if err := value.SetIndex(self, args[0], args[1]); err != nil {
			return nil, err
		}
		return args[1], nil
	case comparisonOps[method] && len(args) == 1:
		ok, err := value.Compare(method, self, args[0])
		if err != nil {
			return nil, err
		}
		return value.Bool(ok), nil
	case unaryOps[method] && len(args) == 0:
		return value.Unary(method, self)
	case len(args) == 1:
		return value.Binary(method, self, args[0])
	}
	return nil, &yerr.NameNotFoundError{Kind: "method", Name: string(method)}
}

// RunMethodFrame invokes m (defined on owner) against self with args bound
// positionally to m.ISeq's local table, in declaration order; kwArg values
// are bound by matching local name. This is a deliberate simplification of
// the reference engine's full parameter-specification decoding (optional/
// rest/keyword/block params with defaults), which belongs to a compiler
// emitting parameter-checking opcodes ahead of the method body, not to the
// frame runner itself.
func (th *Thread) RunMethodFrame(self value.Value, owner *value.Class, m *value.Method, args []value.Value, kwArg map[value.Symbol]value.Value, block *value.Proc) (value.Value, error) {
	fr := newFrame(m.ISeq, self, owner, block, nil)
	bindParams(fr, m.ISeq, args, kwArg)
	return th.runFrame(fr)
}

// RunBlockFrame implements opcode.Machine: it re-enters the interpreter on
// p's own iseq, with self bound to p.CapturedSelf and the lexical parent
// set to p's captured frame so getlocal/getblockparam can reach outer
// locals and the enclosing method's block (nested yield).
func (th *Thread) RunBlockFrame(p *value.Proc, args []value.Value, kwArg map[value.Symbol]value.Value) (value.Value, error) {
	parent, _ := p.CapturedFrame.(*Frame)
	constBase := th.root
	var enclosingBlock *value.Proc
	if parent != nil {
		constBase = parent.constBase
		enclosingBlock = parent.block
	}
	fr := newFrame(p.ISeq, p.CapturedSelf, constBase, enclosingBlock, parent)
	bindParams(fr, p.ISeq, args, kwArg)
	return th.runFrame(fr)
}

// RunClassFrame implements opcode.Machine: it executes body with self bound
// to the class/module being defined and class as the constant-nesting
// base, returning the body's leave value.
func (th *Thread) RunClassFrame(self value.Value, class *value.Class, body iseq.ISeq) (value.Value, error) {
	fr := newFrame(body, self, class, nil, nil)
	return th.runFrame(fr)
}

// MakeBlock implements opcode.Machine: it closes body over the current
// frame's self and the frame itself (so the Proc's nested getblockparam/
// invokeblock/getlocal can reach outer locals and the enclosing block).
func (th *Thread) MakeBlock(body iseq.ISeq) *value.Proc {
	fr := th.current()
	return value.NewProc(body, fr.self, fr, false)
}

// bindParams binds a call's positional arguments to iq's locals in
// declaration order, then overlays kwArg values onto any local whose name
// matches a keyword-argument key.
func bindParams(fr *Frame, iq iseq.ISeq, args []value.Value, kwArg map[value.Symbol]value.Value) {
	locals := iq.LocalTable().Locals
	for i := 0; i < len(args) && i < len(locals); i++ {
		fr.locals[i] = args[i]
	}
	if len(kwArg) == 0 {
		return
	}
	for i, l := range locals {
		if v, ok := kwArg[value.Symbol(l.Name)]; ok {
			fr.locals[i] = v
		}
	}
}
