package opcode

import (
	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/value"
)

// CheckMatchOp selects the case-equality flavor checkmatch applies.
type CheckMatchOp int

const (
	// CheckMatchWhen implements `when` clause case-equality: pattern === x.
	CheckMatchWhen CheckMatchOp = iota
	// CheckMatchRescue implements `rescue ExceptionClass` matching: x is_a? pattern.
	CheckMatchRescue
	// CheckMatchCase implements `case ... in` deconstruction matching:
	// pattern === x.deconstruct.
	CheckMatchCase
)

// CheckMatch pops a target and a pattern and pushes whether Op reports a
// match (used by `case`/`when` and `rescue` clause dispatch). Callers that
// re-test the same target against several patterns are responsible for
// re-pushing it (typically via Dup) before each CheckMatch.
type CheckMatch struct{ Op CheckMatchOp }

func (CheckMatch) Tag() string         { return "checkmatch" }
func (CheckMatch) Length() int         { return 2 }
func (CheckMatch) Pops() int           { return 2 }
func (CheckMatch) Pushes() int         { return 1 }
func (o CheckMatch) Canonical() Opcode { return o }
func (o CheckMatch) Call(m Machine) error {
	pattern := m.Pop()
	target := m.Pop()
	switch o.Op {
	case CheckMatchWhen:
		m.Push(value.Bool(caseEq(pattern, target)))
	case CheckMatchRescue:
		m.Push(value.Bool(isA(target, pattern)))
	case CheckMatchCase:
		deconstructed, err := m.Dispatch(target, "deconstruct", nil, nil, nil)
		if err != nil {
			return err
		}
		m.Push(value.Bool(caseEq(pattern, deconstructed)))
	default:
		return &wrongTypeError{op: "checkmatch", want: "when/rescue/case op", got: itoa(int(o.Op))}
	}
	return nil
}
func (o CheckMatch) Disasm(f Formatter) string { return "checkmatch " + itoa(int(o.Op)) }
func (o CheckMatch) ToA(iseq.ISeq) []any        { return toA("checkmatch", int(o.Op)) }

// caseEq implements `pattern === target`: a Regexp matches via Match, a
// Range via membership, a Class via is_a?, everything else via Equal.
func caseEq(pattern, target value.Value) bool {
	switch p := pattern.(type) {
	case *value.Regexp:
		if s, ok := target.(value.String); ok {
			m, err := p.Match(string(s))
			return err == nil && m
		}
		return false
	case *value.Range:
		lo, err1 := value.Compare(">=", target, p.Low)
		op := "<="
		if p.Exclusive {
			op = "<"
		}
		hi, err2 := value.Compare(op, target, p.High)
		return err1 == nil && err2 == nil && lo && hi
	case *value.Class:
		return isA(target, p)
	default:
		eq, err := value.Equal(pattern, target)
		return err == nil && eq
	}
}

func isA(v value.Value, class value.Value) bool {
	c, ok := class.(*value.Class)
	if !ok {
		return false
	}
	obj, ok := v.(*value.Object)
	if !ok {
		return false
	}
	for k := obj.Class; k != nil; k = k.Super {
		if k == c {
			return true
		}
	}
	return false
}

// CheckType reports whether TOS matches a built-in type tag (used by
// pattern-matching deconstruction guards). Per spec.md §6/§9's documented
// anomaly, Pushes reports 2 though only one value is ever actually pushed;
// the reported figure is preserved verbatim for reference-engine
// compatibility.
type CheckType struct{ Want string }

func (CheckType) Tag() string         { return "checktype" }
func (CheckType) Length() int         { return 2 }
func (CheckType) Pops() int           { return 1 }
func (CheckType) Pushes() int         { return 2 }
func (o CheckType) Canonical() Opcode { return o }
func (o CheckType) Call(m Machine) error {
	v := m.Pop()
	m.Push(value.Bool(v.Type() == o.Want))
	return nil
}
func (o CheckType) Disasm(f Formatter) string { return "checktype " + o.Want }
func (o CheckType) ToA(iseq.ISeq) []any        { return toA("checktype", o.Want) }

// CheckKeyword reports whether the caller supplied a given optional
// keyword argument, consulting the flag word stored at FlagIndex among the
// locals.
type CheckKeyword struct {
	FlagIndex int
	BitIndex  int
}

func (CheckKeyword) Tag() string         { return "checkkeyword" }
func (CheckKeyword) Length() int         { return 3 }
func (CheckKeyword) Pops() int           { return 0 }
func (CheckKeyword) Pushes() int         { return 1 }
func (o CheckKeyword) Canonical() Opcode { return o }
func (o CheckKeyword) Call(m Machine) error {
	flags, ok := m.LocalGet(o.FlagIndex, 0).(value.Integer)
	if !ok {
		m.Push(value.False)
		return nil
	}
	m.Push(value.Bool(flags&(1<<uint(o.BitIndex)) != 0))
	return nil
}
func (o CheckKeyword) Disasm(f Formatter) string {
	return "checkkeyword " + itoa(o.FlagIndex) + ", " + itoa(o.BitIndex)
}
func (o CheckKeyword) ToA(iq iseq.ISeq) []any {
	return toA("checkkeyword", localOperand(iq, o.FlagIndex), o.BitIndex)
}

// DefinedKind selects what `defined?` probes.
type DefinedKind int

const (
	DefinedNil DefinedKind = iota
	DefinedLocal
	DefinedIVar
	DefinedGVar
	DefinedCVar
	DefinedConst
	DefinedMethod
	DefinedYield
	DefinedZSuper
	DefinedExpr
	DefinedRef
	DefinedFuncall
	DefinedConstFrom
)

// Defined pops a value (the probe target, or a dummy for kinds that don't
// need one) and pushes a descriptive String if Kind is defined, else nil.
type Defined struct {
	Kind    DefinedKind
	Name    value.Symbol
	Message string
}

func (Defined) Tag() string         { return "defined" }
func (Defined) Length() int         { return 4 }
func (Defined) Pops() int           { return 1 }
func (Defined) Pushes() int         { return 1 }
func (o Defined) Canonical() Opcode { return o }
func (o Defined) Call(m Machine) error {
	v := m.Pop()
	var ok bool
	switch o.Kind {
	case DefinedLocal:
		ok = true // presence of a getlocal for this name already implies it is declared
	case DefinedIVar:
		if obj, isObj := m.Self().(*value.Object); isObj {
			_, ok = obj.IVars[o.Name]
		}
	case DefinedGVar:
		_, notNil := m.Global(o.Name).(value.NilType)
		ok = !notNil
	case DefinedCVar:
		_, ok = m.ConstBase().LookupClassVar(o.Name)
	case DefinedConst:
		_, ok = m.ConstBase().Constants[string(o.Name)]
	case DefinedMethod:
		recv := v
		if _, isNil := recv.(value.NilType); isNil {
			recv = m.Self()
		}
		if obj, isObj := recv.(*value.Object); isObj {
			_, owner := obj.Class.LookupMethod(o.Name)
			ok = owner != nil
		}
	case DefinedExpr, DefinedRef, DefinedFuncall, DefinedYield, DefinedZSuper, DefinedConstFrom:
		ok = true
	default:
		ok = false
	}
	if !ok {
		m.Push(value.Nil)
		return nil
	}
	m.Push(value.String(o.Message))
	return nil
}
func (o Defined) Disasm(f Formatter) string {
	return "defined " + itoa(int(o.Kind)) + ", :" + string(o.Name) + ", " + o.Message
}
func (o Defined) ToA(iseq.ISeq) []any {
	return toA("defined", int(o.Kind), string(o.Name), o.Message)
}
