package value

import "github.com/mna/yarv/iseq"

// Method is a tagged value binding a name to an iseq, per DESIGN.md's
// resolution of spec.md §9's open question: user-defined methods are
// represented as data ({iseq, name}) rather than as a host-language
// closure over the VM, so that method lookup can dispatch on this variant
// without the value package depending on the interpreter.
type Method struct {
	NameV string
	ISeq  iseq.ISeq
	// Owner is the class the method is defined on, recorded for invokesuper
	// resolution (the super-method is looked up starting from Owner.Super).
	Owner *Class
}

var _ Value = (*Method)(nil)

func NewMethod(name string, body iseq.ISeq, owner *Class) *Method {
	return &Method{NameV: name, ISeq: body, Owner: owner}
}

func (m *Method) String() string { return "#<Method: " + m.NameV + ">" }
func (m *Method) Type() string   { return "Method" }
func (m *Method) Name() string   { return m.NameV }

// Proc is a block or lambda: an iseq closed over the self and lexical
// frame active at the point of its creation (made from a block literal
// by Machine.MakeBlock), grounded on the teacher's
// lang/machine/function.go Function type (Funcode + captured Module/
// Freevars).
type Proc struct {
	ISeq         iseq.ISeq
	CapturedSelf Value
	// CapturedFrame is opaque here (it is a *vm.Frame) to avoid value
	// depending on vm; the vm package type-asserts it back when it resolves
	// getblockparam/invokeblock.
	CapturedFrame any
	IsLambda      bool
}

var _ Value = (*Proc)(nil)

func NewProc(body iseq.ISeq, self Value, frame any, lambda bool) *Proc {
	return &Proc{ISeq: body, CapturedSelf: self, CapturedFrame: frame, IsLambda: lambda}
}

func (p *Proc) String() string {
	if p.IsLambda {
		return "#<Proc (lambda)>"
	}
	return "#<Proc>"
}
func (p *Proc) Type() string { return "Proc" }

// BlockParamProxy is the thin wrapper pushed by getblockparamproxy: it is
// usable as a call argument without forcing the underlying block to be
// materialized into a full Proc until it is actually invoked or passed to
// a method expecting a Proc.
type BlockParamProxy struct {
	Proc *Proc
}

var _ Value = (*BlockParamProxy)(nil)

func (b *BlockParamProxy) String() string { return "#<BlockParamProxy>" }
func (b *BlockParamProxy) Type() string   { return "Proc" }
