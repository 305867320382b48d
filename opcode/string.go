package opcode

import (
	"strings"

	"github.com/mna/yarv/calldata"
	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/value"
)

// ConcatStrings pops n values and pushes their string-concatenation; it
// backs string-interpolation lowering (spec.md §4.5).
type ConcatStrings struct{ N int }

func (ConcatStrings) Tag() string         { return "concatstrings" }
func (ConcatStrings) Length() int         { return 2 }
func (o ConcatStrings) Pops() int         { return o.N }
func (ConcatStrings) Pushes() int         { return 1 }
func (o ConcatStrings) Canonical() Opcode { return o }
func (o ConcatStrings) Call(m Machine) error {
	vals := m.PopN(o.N)
	var b strings.Builder
	for _, v := range vals {
		s, ok := v.(value.String)
		if !ok {
			return &wrongTypeError{op: "concatstrings", want: "String", got: v.Type()}
		}
		b.WriteString(string(s))
	}
	m.Push(value.String(b.String()))
	return nil
}
func (o ConcatStrings) Disasm(f Formatter) string { return "concatstrings " + itoa(o.N) }
func (o ConcatStrings) ToA(iseq.ISeq) []any        { return toA("concatstrings", o.N) }

// AnyToString converts TOS to its string form via `to_s`-equivalent
// semantics without consulting a user-overridden method, used for
// interpolation segments whose static type is already known to be cheap.
type AnyToString struct{}

func (AnyToString) Tag() string         { return "anytostring" }
func (AnyToString) Length() int         { return 1 }
func (AnyToString) Pops() int           { return 1 }
func (AnyToString) Pushes() int         { return 1 }
func (o AnyToString) Canonical() Opcode { return o }
func (AnyToString) Call(m Machine) error {
	v := m.Pop()
	m.Push(value.ToS(v))
	return nil
}
func (AnyToString) Disasm(f Formatter) string { return "anytostring" }
func (AnyToString) ToA(iseq.ISeq) []any       { return toA("anytostring") }

// ObjToString dispatches `to_s` through the method-resolution order,
// honoring a user-defined override, unlike AnyToString.
type ObjToString struct{ CD *calldata.CallData }

func (ObjToString) Tag() string         { return "objtostring" }
func (ObjToString) Length() int         { return 2 }
func (ObjToString) Pops() int           { return 1 }
func (ObjToString) Pushes() int         { return 1 }
func (o ObjToString) Canonical() Opcode { return Send{CallData: o.CD} }
func (o ObjToString) Call(m Machine) error {
	v := m.Pop()
	r, err := m.Dispatch(v, "to_s", nil, nil, nil)
	if err != nil {
		return err
	}
	m.Push(r)
	return nil
}
func (o ObjToString) Disasm(f Formatter) string { return "objtostring " + f.CallData(o.CD) }
func (o ObjToString) ToA(iseq.ISeq) []any        { return toA("objtostring", callDataOperand(o.CD)) }

// Intern converts a popped String into its interned Symbol form.
type Intern struct{}

func (Intern) Tag() string         { return "intern" }
func (Intern) Length() int         { return 1 }
func (Intern) Pops() int           { return 1 }
func (Intern) Pushes() int         { return 1 }
func (o Intern) Canonical() Opcode { return o }
func (Intern) Call(m Machine) error {
	v := m.Pop()
	s, ok := v.(value.String)
	if !ok {
		return &wrongTypeError{op: "intern", want: "String", got: v.Type()}
	}
	m.Push(value.SymbolValue(s))
	return nil
}
func (Intern) Disasm(f Formatter) string { return "intern" }
func (Intern) ToA(iseq.ISeq) []any       { return toA("intern") }

// ToRegexp pops n string fragments, compiles their concatenation with the
// Opt option bits carried as an operand, and pushes the compiled Regexp.
type ToRegexp struct {
	Opt value.RegexpOpt
	N   int
}

func (ToRegexp) Tag() string         { return "toregexp" }
func (ToRegexp) Length() int         { return 3 }
func (o ToRegexp) Pops() int         { return o.N }
func (ToRegexp) Pushes() int         { return 1 }
func (o ToRegexp) Canonical() Opcode { return o }
func (o ToRegexp) Call(m Machine) error {
	vals := m.PopN(o.N)
	var b strings.Builder
	for _, v := range vals {
		s, ok := v.(value.String)
		if !ok {
			return &wrongTypeError{op: "toregexp", want: "String", got: v.Type()}
		}
		b.WriteString(string(s))
	}
	re, err := value.NewRegexp(b.String(), o.Opt)
	if err != nil {
		return err
	}
	m.Push(re)
	return nil
}
func (o ToRegexp) Disasm(f Formatter) string {
	return "toregexp " + itoa(int(o.Opt)) + ", " + itoa(o.N)
}
func (o ToRegexp) ToA(iseq.ISeq) []any { return toA("toregexp", int(o.Opt), o.N) }

// NewRange pops low and high bounds and pushes a Range.
type NewRange struct{ Exclusive bool }

func (NewRange) Tag() string         { return "newrange" }
func (NewRange) Length() int         { return 2 }
func (NewRange) Pops() int           { return 2 }
func (NewRange) Pushes() int         { return 1 }
func (o NewRange) Canonical() Opcode { return o }
func (o NewRange) Call(m Machine) error {
	high := m.Pop()
	low := m.Pop()
	m.Push(&value.Range{Low: low, High: high, Exclusive: o.Exclusive})
	return nil
}
func (o NewRange) Disasm(f Formatter) string {
	flag := 0
	if o.Exclusive {
		flag = 1
	}
	return "newrange " + itoa(flag)
}
func (o NewRange) ToA(iseq.ISeq) []any {
	flag := 0
	if o.Exclusive {
		flag = 1
	}
	return toA("newrange", flag)
}

// wrongTypeError reports a primitive operation applied to a value of the
// wrong runtime type, used by the opcodes in this file that operate on a
// fixed expected type rather than dispatching through the method protocol.
type wrongTypeError struct {
	op, want, got string
}

func (e *wrongTypeError) Error() string {
	return e.op + ": expected " + e.want + ", got " + e.got
}
