package opcode

import (
	"github.com/mna/yarv/calldata"
	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/value"
)

// argCount returns how many argument slots a call site occupies on the
// stack: cd.Argc, which by convention here already includes the
// len(cd.KwArg) keyword-argument value slots.
func argCount(cd *calldata.CallData) int { return int(cd.Argc) }

// popCallArgs pops a call site's positional args, optional kwarg values,
// and optional block argument off the stack, in the order the reference
// engine pushes them: receiver (if not FCall/VCall), positional args,
// kwarg values, block.
func popCallArgs(m Machine, cd *calldata.CallData) (args []value.Value, kwArg map[value.Symbol]value.Value, block *value.Proc) {
	var blockVal value.Value
	if cd.Has(calldata.FlagBlockArg) {
		blockVal = m.Pop()
	}
	if len(cd.KwArg) > 0 {
		kwVals := m.PopN(len(cd.KwArg))
		kwArg = make(map[value.Symbol]value.Value, len(kwVals))
		for i, name := range cd.KwArg {
			kwArg[name] = kwVals[i]
		}
	}
	posN := argCount(cd) - len(cd.KwArg)
	if posN < 0 {
		posN = 0
	}
	args = m.PopN(posN)
	if blockVal != nil {
		if p, ok := blockVal.(*value.Proc); ok {
			block = p
		}
	}
	return args, kwArg, block
}

// Send is the primitive, fully-general method-call instruction every other
// call-like opcode (opt_send_without_block, the opt_* arithmetic
// specializations, objtostring) canonicalizes to.
type Send struct {
	CallData *calldata.CallData
	Block    iseq.ISeq // non-nil when the call site carries a literal block iseq
}

func (Send) Tag() string { return "send" }
func (Send) Length() int { return 3 }
func (o Send) Pops() int {
	n := argCount(o.CallData) + 1 // +1 for the receiver
	if o.CallData.Has(calldata.FlagBlockArg) {
		n++
	}
	return n
}
func (Send) Pushes() int         { return 1 }
func (o Send) Canonical() Opcode { return o }
func (o Send) Call(m Machine) error {
	args, kwArg, block := popCallArgs(m, o.CallData)
	if block == nil && o.Block != nil {
		block = m.MakeBlock(o.Block)
	}
	recv := m.Pop()
	r, err := m.Dispatch(recv, o.CallData.Method, args, kwArg, block)
	if err != nil {
		return err
	}
	m.Push(r)
	return nil
}
func (o Send) Disasm(f Formatter) string {
	s := "send " + f.CallData(o.CallData)
	if o.Block != nil {
		s += ", block"
		f.Enqueue(o.Block)
	}
	return s
}
func (o Send) ToA(iq iseq.ISeq) []any {
	if o.Block != nil {
		return toA("send", callDataOperand(o.CallData), o.Block.ToA())
	}
	return toA("send", callDataOperand(o.CallData), nil)
}

// OptSendWithoutBlock is Send's specialization for the common case of a
// call site that provably carries no block; it canonicalizes to Send.
type OptSendWithoutBlock struct {
	CallData *calldata.CallData
}

func (OptSendWithoutBlock) Tag() string { return "opt_send_without_block" }
func (OptSendWithoutBlock) Length() int { return 2 }
func (o OptSendWithoutBlock) Pops() int { return argCount(o.CallData) + 1 }
func (OptSendWithoutBlock) Pushes() int { return 1 }
func (o OptSendWithoutBlock) Canonical() Opcode {
	return Send{CallData: o.CallData}
}
func (o OptSendWithoutBlock) Call(m Machine) error { return o.Canonical().Call(m) }
func (o OptSendWithoutBlock) Disasm(f Formatter) string {
	return "opt_send_without_block " + f.CallData(o.CallData)
}
func (o OptSendWithoutBlock) ToA(iseq.ISeq) []any {
	return toA("opt_send_without_block", callDataOperand(o.CallData))
}

// InvokeBlock invokes the block passed to the current method frame
// (frame_yield) with CallData's positional arguments.
type InvokeBlock struct {
	CallData *calldata.CallData
}

func (InvokeBlock) Tag() string { return "invokeblock" }
func (InvokeBlock) Length() int { return 2 }
func (o InvokeBlock) Pops() int { return argCount(o.CallData) }
func (InvokeBlock) Pushes() int { return 1 }
func (o InvokeBlock) Canonical() Opcode { return o }
func (o InvokeBlock) Call(m Machine) error {
	args, kwArg, _ := popCallArgs(m, o.CallData)
	block := m.CurrentBlock()
	if block == nil {
		return &wrongTypeError{op: "invokeblock", want: "block", got: "nil"}
	}
	r, err := m.RunBlockFrame(block, args, kwArg)
	if err != nil {
		return err
	}
	m.Push(r)
	return nil
}
func (o InvokeBlock) Disasm(f Formatter) string { return "invokeblock " + f.CallData(o.CallData) }
func (o InvokeBlock) ToA(iseq.ISeq) []any        { return toA("invokeblock", callDataOperand(o.CallData)) }

// InvokeSuper calls the method one step up the MRO from the method that
// owns the current frame, optionally with an explicit block iseq (nil
// means the current frame's own block is forwarded, per bare `super`
// semantics).
type InvokeSuper struct {
	CallData *calldata.CallData
	Block    iseq.ISeq
}

func (InvokeSuper) Tag() string { return "invokesuper" }
func (InvokeSuper) Length() int { return 3 }
func (o InvokeSuper) Pops() int {
	n := argCount(o.CallData) + 1
	if o.CallData.Has(calldata.FlagBlockArg) {
		n++
	}
	return n
}
func (InvokeSuper) Pushes() int         { return 1 }
func (o InvokeSuper) Canonical() Opcode { return o }
func (o InvokeSuper) Call(m Machine) error {
	args, kwArg, block := popCallArgs(m, o.CallData)
	m.Pop() // receiver: ignored, DispatchSuper resolves against the current self
	switch {
	case block != nil:
		// explicit block arg already popped
	case o.Block != nil:
		block = m.MakeBlock(o.Block)
	default:
		block = m.CurrentBlock()
	}
	r, err := m.DispatchSuper(o.CallData.Method, args, kwArg, block)
	if err != nil {
		return err
	}
	m.Push(r)
	return nil
}
func (o InvokeSuper) Disasm(f Formatter) string {
	s := "invokesuper " + f.CallData(o.CallData)
	if o.Block != nil {
		s += ", block"
		f.Enqueue(o.Block)
	}
	return s
}
func (o InvokeSuper) ToA(iq iseq.ISeq) []any {
	if o.Block != nil {
		return toA("invokesuper", callDataOperand(o.CallData), o.Block.ToA())
	}
	return toA("invokesuper", callDataOperand(o.CallData), nil)
}

// DefineClass pops a superclass (or nil) and a lexical base, executes Body
// as a class-body frame against a newly created (or reopened) class/module
// named Name, and pushes the body's value.
type DefineClass struct {
	Name     string
	Body     iseq.ISeq
	IsModule bool
}

func (DefineClass) Tag() string         { return "defineclass" }
func (DefineClass) Length() int         { return 4 }
func (DefineClass) Pops() int           { return 2 }
func (DefineClass) Pushes() int         { return 1 }
func (o DefineClass) Canonical() Opcode { return o }
func (o DefineClass) Call(m Machine) error {
	superVal := m.Pop()
	base := m.Pop()
	baseClass, ok := base.(*value.Class)
	if !ok {
		baseClass = m.ConstBase()
	}
	var super *value.Class
	if s, ok := superVal.(*value.Class); ok {
		super = s
	}
	class, existing := baseClass.Constants[o.Name].(*value.Class)
	if !existing {
		class = value.NewClass(o.Name, super)
		class.IsModule = o.IsModule
		baseClass.Constants[o.Name] = class
	}
	result, err := m.RunClassFrame(class, class, o.Body)
	if err != nil {
		return err
	}
	m.Push(result)
	return nil
}
func (o DefineClass) Disasm(f Formatter) string {
	f.Enqueue(o.Body)
	return "defineclass " + o.Name
}
func (o DefineClass) ToA(iseq.ISeq) []any {
	isModule := 0
	if o.IsModule {
		isModule = 1
	}
	return toA("defineclass", o.Name, o.Body.ToA(), isModule)
}

// DefineMethod binds Name to Body as an instance method on the class
// currently executing (the frame's self, expected to be a *value.Class
// during a class-body frame).
type DefineMethod struct {
	Name value.Symbol
	Body iseq.ISeq
}

func (DefineMethod) Tag() string         { return "definemethod" }
func (DefineMethod) Length() int         { return 3 }
func (DefineMethod) Pops() int           { return 0 }
func (DefineMethod) Pushes() int         { return 0 }
func (o DefineMethod) Canonical() Opcode { return o }
func (o DefineMethod) Call(m Machine) error {
	class, ok := m.Self().(*value.Class)
	if !ok {
		return &wrongTypeError{op: "definemethod", want: "Class", got: m.Self().Type()}
	}
	class.Methods[o.Name] = value.NewMethod(string(o.Name), o.Body, class)
	return nil
}
func (o DefineMethod) Disasm(f Formatter) string {
	f.Enqueue(o.Body)
	return "definemethod :" + string(o.Name)
}
func (o DefineMethod) ToA(iseq.ISeq) []any {
	return toA("definemethod", string(o.Name), o.Body.ToA())
}

// DefineSMethod is DefineMethod's singleton-method counterpart (`def
// self.foo`): it binds Name on the current self's singleton class.
type DefineSMethod struct {
	Name value.Symbol
	Body iseq.ISeq
}

func (DefineSMethod) Tag() string         { return "definesmethod" }
func (DefineSMethod) Length() int         { return 3 }
func (DefineSMethod) Pops() int           { return 0 }
func (DefineSMethod) Pushes() int         { return 0 }
func (o DefineSMethod) Canonical() Opcode { return o }
func (o DefineSMethod) Call(m Machine) error {
	class, ok := m.Self().(*value.Class)
	if !ok {
		return &wrongTypeError{op: "definesmethod", want: "Class", got: m.Self().Type()}
	}
	sc := class.Singleton()
	sc.Methods[o.Name] = value.NewMethod(string(o.Name), o.Body, sc)
	return nil
}
func (o DefineSMethod) Disasm(f Formatter) string {
	f.Enqueue(o.Body)
	return "definesmethod :" + string(o.Name)
}
func (o DefineSMethod) ToA(iseq.ISeq) []any {
	return toA("definesmethod", string(o.Name), o.Body.ToA())
}

// Once executes Body at most once across however many times this
// instruction site is reached (e.g. a regexp literal with no
// interpolation, or a memoized constant default), caching and replaying
// its result on subsequent visits. Cache identifies the memo slot.
type Once struct {
	Body  iseq.ISeq
	Cache int
}

func (Once) Tag() string         { return "once" }
func (Once) Length() int         { return 3 }
func (Once) Pops() int           { return 0 }
func (Once) Pushes() int         { return 1 }
func (o Once) Canonical() Opcode { return o }
func (o Once) Call(m Machine) error {
	if v, ok := m.OnceCache(o.Body, o.Cache); ok {
		m.Push(v)
		return nil
	}
	result, err := m.RunClassFrame(m.Self(), m.ConstBase(), o.Body)
	if err != nil {
		return err
	}
	m.SetOnceCache(o.Body, o.Cache, result)
	m.Push(result)
	return nil
}
func (o Once) Disasm(f Formatter) string {
	f.Enqueue(o.Body)
	return "once " + itoa(o.Cache)
}
func (o Once) ToA(iseq.ISeq) []any { return toA("once", o.Body.ToA(), o.Cache) }
