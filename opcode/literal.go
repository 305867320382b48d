package opcode

import (
	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/value"
)

// PutNil pushes nil. It canonicalizes to PutObject{V: value.Nil}.
type PutNil struct{}

func (PutNil) Tag() string   { return "putnil" }
func (PutNil) Length() int   { return 1 }
func (PutNil) Pops() int     { return 0 }
func (PutNil) Pushes() int   { return 1 }
func (PutNil) Canonical() Opcode { return PutObject{V: value.Nil} }
func (o PutNil) Call(m Machine) error { return o.Canonical().Call(m) }
func (PutNil) Disasm(f Formatter) string { return "putnil" }
func (PutNil) ToA(iseq.ISeq) []any       { return toA("putnil") }

// PutSelf pushes the current self.
type PutSelf struct{}

func (PutSelf) Tag() string         { return "putself" }
func (PutSelf) Length() int         { return 1 }
func (PutSelf) Pops() int           { return 0 }
func (PutSelf) Pushes() int         { return 1 }
func (o PutSelf) Canonical() Opcode { return o }
func (PutSelf) Call(m Machine) error {
	m.Push(m.Self())
	return nil
}
func (PutSelf) Disasm(f Formatter) string { return "putself" }
func (PutSelf) ToA(iseq.ISeq) []any       { return toA("putself") }

// PutObject pushes a literal value embedded in the instruction.
type PutObject struct{ V value.Value }

func (PutObject) Tag() string         { return "putobject" }
func (PutObject) Length() int         { return 2 }
func (PutObject) Pops() int           { return 0 }
func (PutObject) Pushes() int         { return 1 }
func (o PutObject) Canonical() Opcode { return o }
func (o PutObject) Call(m Machine) error {
	m.Push(o.V)
	return nil
}
func (o PutObject) Disasm(f Formatter) string { return "putobject " + f.Object(o.V) }
func (o PutObject) ToA(iseq.ISeq) []any        { return toA("putobject", o.V) }

// PutObjectFix0 and PutObjectFix1 are the reference engine's
// putobject_INT2FIX_0_/putobject_INT2FIX_1_ specializations: they
// canonicalize to PutObject{0}/PutObject{1}.
type PutObjectFix0 struct{}

func (PutObjectFix0) Tag() string         { return "putobject_INT2FIX_0_" }
func (PutObjectFix0) Length() int         { return 1 }
func (PutObjectFix0) Pops() int           { return 0 }
func (PutObjectFix0) Pushes() int         { return 1 }
func (PutObjectFix0) Canonical() Opcode   { return PutObject{V: value.Integer(0)} }
func (o PutObjectFix0) Call(m Machine) error { return o.Canonical().Call(m) }
func (PutObjectFix0) Disasm(f Formatter) string { return "putobject_INT2FIX_0_" }
func (PutObjectFix0) ToA(iseq.ISeq) []any        { return toA("putobject_INT2FIX_0_") }

type PutObjectFix1 struct{}

func (PutObjectFix1) Tag() string         { return "putobject_INT2FIX_1_" }
func (PutObjectFix1) Length() int         { return 1 }
func (PutObjectFix1) Pops() int           { return 0 }
func (PutObjectFix1) Pushes() int         { return 1 }
func (PutObjectFix1) Canonical() Opcode   { return PutObject{V: value.Integer(1)} }
func (o PutObjectFix1) Call(m Machine) error { return o.Canonical().Call(m) }
func (PutObjectFix1) Disasm(f Formatter) string { return "putobject_INT2FIX_1_" }
func (PutObjectFix1) ToA(iseq.ISeq) []any        { return toA("putobject_INT2FIX_1_") }

// PutString pushes a literal string.
type PutString struct{ S string }

func (PutString) Tag() string         { return "putstring" }
func (PutString) Length() int         { return 2 }
func (PutString) Pops() int           { return 0 }
func (PutString) Pushes() int         { return 1 }
func (o PutString) Canonical() Opcode { return o }
func (o PutString) Call(m Machine) error {
	m.Push(value.String(o.S))
	return nil
}
func (o PutString) Disasm(f Formatter) string { return "putstring " + f.Object(value.String(o.S)) }
func (o PutString) ToA(iseq.ISeq) []any        { return toA("putstring", o.S) }

// DupArray pushes a shallow copy of a literal array.
type DupArray struct{ A *value.Array }

func (DupArray) Tag() string         { return "duparray" }
func (DupArray) Length() int         { return 2 }
func (DupArray) Pops() int           { return 0 }
func (DupArray) Pushes() int         { return 1 }
func (o DupArray) Canonical() Opcode { return o }
func (o DupArray) Call(m Machine) error {
	m.Push(value.NewArrayCopy(o.A.Elems()))
	return nil
}
func (o DupArray) Disasm(f Formatter) string { return "duparray " + f.Object(o.A) }
func (o DupArray) ToA(iseq.ISeq) []any        { return toA("duparray", o.A) }

// DupHash pushes a shallow copy of a literal hash.
type DupHash struct{ H *value.Hash }

func (DupHash) Tag() string         { return "duphash" }
func (DupHash) Length() int         { return 2 }
func (DupHash) Pops() int           { return 0 }
func (DupHash) Pushes() int         { return 1 }
func (o DupHash) Canonical() Opcode { return o }
func (o DupHash) Call(m Machine) error {
	cp := value.NewHash(o.H.Len())
	it := o.H.Iterate()
	var kv value.Value
	for it.Next(&kv) {
		pair := kv.(*value.Tuple)
		_ = cp.SetKey(pair.Index(0), pair.Index(1))
	}
	it.Done()
	m.Push(cp)
	return nil
}
func (o DupHash) Disasm(f Formatter) string { return "duphash " + f.Object(o.H) }
func (o DupHash) ToA(iseq.ISeq) []any        { return toA("duphash", o.H) }

// SpecialObjectKind selects which ambient reference putspecialobject
// pushes.
type SpecialObjectKind int

const (
	SpecialObjectVMCore SpecialObjectKind = iota + 1
	SpecialObjectCBase
	SpecialObjectConstBase
)

// PutSpecialObject pushes one of the three ambient references used by
// alias/undef/const lowerings.
type PutSpecialObject struct{ Kind SpecialObjectKind }

func (PutSpecialObject) Tag() string         { return "putspecialobject" }
func (PutSpecialObject) Length() int         { return 2 }
func (PutSpecialObject) Pops() int           { return 0 }
func (PutSpecialObject) Pushes() int         { return 1 }
func (o PutSpecialObject) Canonical() Opcode { return o }
func (o PutSpecialObject) Call(m Machine) error {
	switch o.Kind {
	case SpecialObjectVMCore:
		m.Push(m.FrozenCore())
	case SpecialObjectCBase:
		m.Push(m.Self())
	case SpecialObjectConstBase:
		m.Push(m.ConstBase())
	}
	return nil
}
func (o PutSpecialObject) Disasm(f Formatter) string { return "putspecialobject " + itoa(int(o.Kind)) }
func (o PutSpecialObject) ToA(iseq.ISeq) []any        { return toA("putspecialobject", int(o.Kind)) }
