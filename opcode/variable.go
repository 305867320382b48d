package opcode

import (
	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/internal/yerr"
	"github.com/mna/yarv/value"
)

// GetLocal pushes the local variable at Index, Level levels up the lexical
// nesting (0 = current frame). GetLocalWC0/GetLocalWC1 are the
// "with current = 0/1" specializations the reference engine emits for the
// overwhelmingly common cases of a current-frame or one-level-up access;
// both canonicalize to GetLocal.
type GetLocal struct {
	Index, Level int
}

func (GetLocal) Tag() string         { return "getlocal" }
func (GetLocal) Length() int         { return 3 }
func (GetLocal) Pops() int           { return 0 }
func (GetLocal) Pushes() int         { return 1 }
func (o GetLocal) Canonical() Opcode { return o }
func (o GetLocal) Call(m Machine) error {
	m.Push(m.LocalGet(o.Index, o.Level))
	return nil
}
func (o GetLocal) Disasm(f Formatter) string {
	return "getlocal " + itoa(o.Index) + ", " + itoa(o.Level)
}
func (o GetLocal) ToA(iq iseq.ISeq) []any {
	return toA("getlocal", localOperand(iq, o.Index), o.Level)
}

type GetLocalWC0 struct{ Index int }

func (GetLocalWC0) Tag() string           { return "getlocal_WC_0" }
func (GetLocalWC0) Length() int           { return 2 }
func (GetLocalWC0) Pops() int             { return 0 }
func (GetLocalWC0) Pushes() int           { return 1 }
func (o GetLocalWC0) Canonical() Opcode   { return GetLocal{Index: o.Index, Level: 0} }
func (o GetLocalWC0) Call(m Machine) error { return o.Canonical().Call(m) }
func (o GetLocalWC0) Disasm(f Formatter) string { return "getlocal_WC_0 " + itoa(o.Index) }
func (o GetLocalWC0) ToA(iq iseq.ISeq) []any {
	return toA("getlocal_WC_0", localOperand(iq, o.Index))
}

type GetLocalWC1 struct{ Index int }

func (GetLocalWC1) Tag() string           { return "getlocal_WC_1" }
func (GetLocalWC1) Length() int           { return 2 }
func (GetLocalWC1) Pops() int             { return 0 }
func (GetLocalWC1) Pushes() int           { return 1 }
func (o GetLocalWC1) Canonical() Opcode   { return GetLocal{Index: o.Index, Level: 1} }
func (o GetLocalWC1) Call(m Machine) error { return o.Canonical().Call(m) }
func (o GetLocalWC1) Disasm(f Formatter) string { return "getlocal_WC_1 " + itoa(o.Index) }
func (o GetLocalWC1) ToA(iq iseq.ISeq) []any {
	return toA("getlocal_WC_1", localOperand(iq, o.Index))
}

// SetLocal pops TOS and stores it in the local variable at Index, Level
// levels up. SetLocalWC0/SetLocalWC1 are its specializations, mirroring
// GetLocal's.
type SetLocal struct {
	Index, Level int
}

func (SetLocal) Tag() string         { return "setlocal" }
func (SetLocal) Length() int         { return 3 }
func (SetLocal) Pops() int           { return 1 }
func (SetLocal) Pushes() int         { return 0 }
func (o SetLocal) Canonical() Opcode { return o }
func (o SetLocal) Call(m Machine) error {
	m.LocalSet(o.Index, o.Level, m.Pop())
	return nil
}
func (o SetLocal) Disasm(f Formatter) string {
	return "setlocal " + itoa(o.Index) + ", " + itoa(o.Level)
}
func (o SetLocal) ToA(iq iseq.ISeq) []any {
	return toA("setlocal", localOperand(iq, o.Index), o.Level)
}

type SetLocalWC0 struct{ Index int }

func (SetLocalWC0) Tag() string           { return "setlocal_WC_0" }
func (SetLocalWC0) Length() int           { return 2 }
func (SetLocalWC0) Pops() int             { return 1 }
func (SetLocalWC0) Pushes() int           { return 0 }
func (o SetLocalWC0) Canonical() Opcode   { return SetLocal{Index: o.Index, Level: 0} }
func (o SetLocalWC0) Call(m Machine) error { return o.Canonical().Call(m) }
func (o SetLocalWC0) Disasm(f Formatter) string { return "setlocal_WC_0 " + itoa(o.Index) }
func (o SetLocalWC0) ToA(iq iseq.ISeq) []any {
	return toA("setlocal_WC_0", localOperand(iq, o.Index))
}

type SetLocalWC1 struct{ Index int }

func (SetLocalWC1) Tag() string           { return "setlocal_WC_1" }
func (SetLocalWC1) Length() int           { return 2 }
func (SetLocalWC1) Pops() int             { return 1 }
func (SetLocalWC1) Pushes() int           { return 0 }
func (o SetLocalWC1) Canonical() Opcode   { return SetLocal{Index: o.Index, Level: 1} }
func (o SetLocalWC1) Call(m Machine) error { return o.Canonical().Call(m) }
func (o SetLocalWC1) Disasm(f Formatter) string { return "setlocal_WC_1 " + itoa(o.Index) }
func (o SetLocalWC1) ToA(iq iseq.ISeq) []any {
	return toA("setlocal_WC_1", localOperand(iq, o.Index))
}

// GetBlockParam pushes the block passed to the enclosing method frame,
// materialized as a Proc, reading/writing the same local slot a bare
// `&block` parameter occupies.
type GetBlockParam struct{ Index, Level int }

func (GetBlockParam) Tag() string         { return "getblockparam" }
func (GetBlockParam) Length() int         { return 3 }
func (GetBlockParam) Pops() int           { return 0 }
func (GetBlockParam) Pushes() int         { return 1 }
func (o GetBlockParam) Canonical() Opcode { return o }
func (o GetBlockParam) Call(m Machine) error {
	if v := m.LocalGet(o.Index, o.Level); v != nil {
		if p, ok := v.(*value.Proc); ok {
			m.Push(p)
			return nil
		}
	}
	block := m.CurrentBlock()
	if block == nil {
		m.Push(value.Nil)
		return nil
	}
	m.LocalSet(o.Index, o.Level, block)
	m.Push(block)
	return nil
}
func (o GetBlockParam) Disasm(f Formatter) string {
	return "getblockparam " + itoa(o.Index) + ", " + itoa(o.Level)
}
func (o GetBlockParam) ToA(iq iseq.ISeq) []any {
	return toA("getblockparam", localOperand(iq, o.Index), o.Level)
}

// GetBlockParamProxy is like GetBlockParam but wraps the result in a
// BlockParamProxy, avoiding forcing a Proc allocation when the block is
// merely being forwarded to another call.
type GetBlockParamProxy struct{ Index, Level int }

func (GetBlockParamProxy) Tag() string         { return "getblockparamproxy" }
func (GetBlockParamProxy) Length() int         { return 3 }
func (GetBlockParamProxy) Pops() int           { return 0 }
func (GetBlockParamProxy) Pushes() int         { return 1 }
func (o GetBlockParamProxy) Canonical() Opcode { return o }
func (o GetBlockParamProxy) Call(m Machine) error {
	block := m.CurrentBlock()
	if block == nil {
		m.Push(value.Nil)
		return nil
	}
	m.Push(&value.BlockParamProxy{Proc: block})
	return nil
}
func (o GetBlockParamProxy) Disasm(f Formatter) string {
	return "getblockparamproxy " + itoa(o.Index) + ", " + itoa(o.Level)
}
func (o GetBlockParamProxy) ToA(iq iseq.ISeq) []any {
	return toA("getblockparamproxy", localOperand(iq, o.Index), o.Level)
}

// SetBlockParam pops TOS (expected to be a Proc or nil) and stores it in
// the block-parameter local slot.
type SetBlockParam struct{ Index, Level int }

func (SetBlockParam) Tag() string         { return "setblockparam" }
func (SetBlockParam) Length() int         { return 3 }
func (SetBlockParam) Pops() int           { return 1 }
func (SetBlockParam) Pushes() int         { return 0 }
func (o SetBlockParam) Canonical() Opcode { return o }
func (o SetBlockParam) Call(m Machine) error {
	m.LocalSet(o.Index, o.Level, m.Pop())
	return nil
}
func (o SetBlockParam) Disasm(f Formatter) string {
	return "setblockparam " + itoa(o.Index) + ", " + itoa(o.Level)
}
func (o SetBlockParam) ToA(iq iseq.ISeq) []any {
	return toA("setblockparam", localOperand(iq, o.Index), o.Level)
}

// GetInstanceVariable pushes an ivar of self, reading it directly (no
// attribute-protocol dispatch, unlike `attr`).
type GetInstanceVariable struct{ Name value.Symbol }

func (GetInstanceVariable) Tag() string         { return "getinstancevariable" }
func (GetInstanceVariable) Length() int         { return 2 }
func (GetInstanceVariable) Pops() int           { return 0 }
func (GetInstanceVariable) Pushes() int         { return 1 }
func (o GetInstanceVariable) Canonical() Opcode { return o }
func (o GetInstanceVariable) Call(m Machine) error {
	obj, ok := m.Self().(*value.Object)
	if !ok {
		m.Push(value.Nil)
		return nil
	}
	m.Push(obj.GetIVar(o.Name))
	return nil
}
func (o GetInstanceVariable) Disasm(f Formatter) string {
	return "getinstancevariable :" + string(o.Name)
}
func (o GetInstanceVariable) ToA(iseq.ISeq) []any {
	return toA("getinstancevariable", string(o.Name))
}

// SetInstanceVariable pops TOS and stores it as an ivar of self.
type SetInstanceVariable struct{ Name value.Symbol }

func (SetInstanceVariable) Tag() string         { return "setinstancevariable" }
func (SetInstanceVariable) Length() int         { return 2 }
func (SetInstanceVariable) Pops() int           { return 1 }
func (SetInstanceVariable) Pushes() int         { return 0 }
func (o SetInstanceVariable) Canonical() Opcode { return o }
func (o SetInstanceVariable) Call(m Machine) error {
	v := m.Pop()
	obj, ok := m.Self().(*value.Object)
	if !ok {
		return &wrongTypeError{op: "setinstancevariable", want: "Object", got: m.Self().Type()}
	}
	obj.SetIVar(o.Name, v)
	return nil
}
func (o SetInstanceVariable) Disasm(f Formatter) string {
	return "setinstancevariable :" + string(o.Name)
}
func (o SetInstanceVariable) ToA(iseq.ISeq) []any {
	return toA("setinstancevariable", string(o.Name))
}

// GetClassVariable resolves a class variable by walking the superclass
// chain of the current lexical class base. GetClassVariableCached is the
// legacy cache-carrying variant (spec.md notes the inline cache is a pure
// performance device); both canonicalize to the same lookup.
type GetClassVariable struct{ Name value.Symbol }

func (GetClassVariable) Tag() string         { return "getclassvariable" }
func (GetClassVariable) Length() int         { return 2 }
func (GetClassVariable) Pops() int           { return 0 }
func (GetClassVariable) Pushes() int         { return 1 }
func (o GetClassVariable) Canonical() Opcode { return o }
func (o GetClassVariable) Call(m Machine) error {
	v, found := m.ConstBase().LookupClassVar(o.Name)
	if !found {
		return &yerr.NameNotFoundError{Kind: "class variable", Name: string(o.Name)}
	}
	m.Push(v)
	return nil
}
func (o GetClassVariable) Disasm(f Formatter) string { return "getclassvariable :" + string(o.Name) }
func (o GetClassVariable) ToA(iseq.ISeq) []any        { return toA("getclassvariable", string(o.Name)) }

// GetClassVariableCached is the legacy two-operand form carrying an inline
// cache reference alongside the name; it canonicalizes to GetClassVariable,
// dropping the cache.
type GetClassVariableCached struct {
	Name  value.Symbol
	Cache int
}

func (GetClassVariableCached) Tag() string { return "getclassvariable_cached" }
func (GetClassVariableCached) Length() int { return 3 }
func (GetClassVariableCached) Pops() int   { return 0 }
func (GetClassVariableCached) Pushes() int { return 1 }
func (o GetClassVariableCached) Canonical() Opcode {
	return GetClassVariable{Name: o.Name}
}
func (o GetClassVariableCached) Call(m Machine) error { return o.Canonical().Call(m) }
func (o GetClassVariableCached) Disasm(f Formatter) string {
	return "getclassvariable_cached :" + string(o.Name) + ", " + itoa(o.Cache)
}
func (o GetClassVariableCached) ToA(iseq.ISeq) []any {
	return toA("getclassvariable_cached", string(o.Name), o.Cache)
}

// SetClassVariable pops TOS and stores it as a class variable on the
// current lexical class base.
type SetClassVariable struct{ Name value.Symbol }

func (SetClassVariable) Tag() string         { return "setclassvariable" }
func (SetClassVariable) Length() int         { return 2 }
func (SetClassVariable) Pops() int           { return 1 }
func (SetClassVariable) Pushes() int         { return 0 }
func (o SetClassVariable) Canonical() Opcode { return o }
func (o SetClassVariable) Call(m Machine) error {
	v := m.Pop()
	m.ConstBase().ClassVars[o.Name] = v
	return nil
}
func (o SetClassVariable) Disasm(f Formatter) string { return "setclassvariable :" + string(o.Name) }
func (o SetClassVariable) ToA(iseq.ISeq) []any        { return toA("setclassvariable", string(o.Name)) }

// SetClassVariableCached is the legacy cached SetClassVariable form.
type SetClassVariableCached struct {
	Name  value.Symbol
	Cache int
}

func (SetClassVariableCached) Tag() string { return "setclassvariable_cached" }
func (SetClassVariableCached) Length() int { return 3 }
func (SetClassVariableCached) Pops() int   { return 1 }
func (SetClassVariableCached) Pushes() int { return 0 }
func (o SetClassVariableCached) Canonical() Opcode {
	return SetClassVariable{Name: o.Name}
}
func (o SetClassVariableCached) Call(m Machine) error { return o.Canonical().Call(m) }
func (o SetClassVariableCached) Disasm(f Formatter) string {
	return "setclassvariable_cached :" + string(o.Name) + ", " + itoa(o.Cache)
}
func (o SetClassVariableCached) ToA(iseq.ISeq) []any {
	return toA("setclassvariable_cached", string(o.Name), o.Cache)
}

// GetGlobal pushes the named entry of the first-class global table
// (spec.md §9's recommended re-architecture).
type GetGlobal struct{ Name value.Symbol }

func (GetGlobal) Tag() string         { return "getglobal" }
func (GetGlobal) Length() int         { return 2 }
func (GetGlobal) Pops() int           { return 0 }
func (GetGlobal) Pushes() int         { return 1 }
func (o GetGlobal) Canonical() Opcode { return o }
func (o GetGlobal) Call(m Machine) error {
	m.Push(m.Global(o.Name))
	return nil
}
func (o GetGlobal) Disasm(f Formatter) string { return "getglobal $" + string(o.Name) }
func (o GetGlobal) ToA(iseq.ISeq) []any        { return toA("getglobal", string(o.Name)) }

// SetGlobal pops TOS and stores it in the global table.
type SetGlobal struct{ Name value.Symbol }

func (SetGlobal) Tag() string         { return "setglobal" }
func (SetGlobal) Length() int         { return 2 }
func (SetGlobal) Pops() int           { return 1 }
func (SetGlobal) Pushes() int         { return 0 }
func (o SetGlobal) Canonical() Opcode { return o }
func (o SetGlobal) Call(m Machine) error {
	m.SetGlobal(o.Name, m.Pop())
	return nil
}
func (o SetGlobal) Disasm(f Formatter) string { return "setglobal $" + string(o.Name) }
func (o SetGlobal) ToA(iseq.ISeq) []any        { return toA("setglobal", string(o.Name)) }

// GetConstant resolves Name on the popped namespace (or, when that is not
// a Class, on the lexical constant-nesting base ConstBase), walking that
// class's superclass chain; enclosing lexical scopes are not searched.
type GetConstant struct{ Name string }

func (GetConstant) Tag() string         { return "getconstant" }
func (GetConstant) Length() int         { return 2 }
func (GetConstant) Pops() int           { return 1 }
func (GetConstant) Pushes() int         { return 1 }
func (o GetConstant) Canonical() Opcode { return o }
func (o GetConstant) Call(m Machine) error {
	base := m.Pop()
	class, _ := base.(*value.Class)
	if class == nil {
		class = m.ConstBase()
	}
	for c := class; c != nil; c = c.Super {
		if v, ok := c.Constants[o.Name]; ok {
			m.Push(v)
			return nil
		}
	}
	return &yerr.NameNotFoundError{Kind: "constant", Name: o.Name}
}
func (o GetConstant) Disasm(f Formatter) string { return "getconstant " + o.Name }
func (o GetConstant) ToA(iseq.ISeq) []any        { return toA("getconstant", o.Name) }

// SetConstant pops TOS and an optional namespace base and defines Name on
// it (or on ConstBase if the popped base is nil).
type SetConstant struct{ Name string }

func (SetConstant) Tag() string         { return "setconstant" }
func (SetConstant) Length() int         { return 2 }
func (SetConstant) Pops() int           { return 2 }
func (SetConstant) Pushes() int         { return 0 }
func (o SetConstant) Canonical() Opcode { return o }
func (o SetConstant) Call(m Machine) error {
	v := m.Pop()
	base := m.Pop()
	class, _ := base.(*value.Class)
	if class == nil {
		class = m.ConstBase()
	}
	class.Constants[o.Name] = v
	return nil
}
func (o SetConstant) Disasm(f Formatter) string { return "setconstant " + o.Name }
func (o SetConstant) ToA(iseq.ISeq) []any        { return toA("setconstant", o.Name) }

// OptGetConstantPath fuses a chain of getconstant lookups (e.g. A::B::C)
// into one instruction carrying the full segment path, resolving each
// segment against the namespace the previous one produced, starting from
// ConstBase. It carries no inline cache and is its own canonical form.
type OptGetConstantPath struct{ Segments []string }

func (OptGetConstantPath) Tag() string { return "opt_getconstant_path" }
func (OptGetConstantPath) Length() int { return 2 }
func (OptGetConstantPath) Pops() int   { return 0 }
func (OptGetConstantPath) Pushes() int { return 1 }
func (o OptGetConstantPath) Canonical() Opcode {
	return o
}
func (o OptGetConstantPath) Call(m Machine) error {
	class := m.ConstBase()
	var result value.Value = class
	for _, seg := range o.Segments {
		c, ok := result.(*value.Class)
		if !ok {
			return &wrongTypeError{op: "opt_getconstant_path", want: "Class", got: result.Type()}
		}
		var found bool
		for k := c; k != nil; k = k.Super {
			if v, ok := k.Constants[seg]; ok {
				result = v
				found = true
				break
			}
		}
		if !found {
			return &yerr.NameNotFoundError{Kind: "constant", Name: seg}
		}
	}
	m.Push(result)
	return nil
}
func (o OptGetConstantPath) Disasm(f Formatter) string {
	s := "opt_getconstant_path "
	for i, seg := range o.Segments {
		if i > 0 {
			s += "::"
		}
		s += seg
	}
	return s
}
func (o OptGetConstantPath) ToA(iseq.ISeq) []any {
	segs := make([]any, len(o.Segments))
	for i, s := range o.Segments {
		segs[i] = s
	}
	return toA("opt_getconstant_path", segs)
}

// Special-variable keys, per spec.md §4.7: 0 selects `$_` (the last input
// line), 1 selects `$~` (the last match-data backref register); keys >= 2
// address flip-flop operator state, left unimplemented (DESIGN.md open
// question #5).
const (
	SVarLastLine = 0
	SVarBackref  = 1
)

// GetSpecial pushes the special variable slot Key.
type GetSpecial struct{ Key int }

func (GetSpecial) Tag() string         { return "getspecial" }
func (GetSpecial) Length() int         { return 2 }
func (GetSpecial) Pops() int           { return 0 }
func (GetSpecial) Pushes() int         { return 1 }
func (o GetSpecial) Canonical() Opcode { return o }
func (o GetSpecial) Call(m Machine) error {
	if o.Key >= 2 {
		return &yerr.NotImplementedError{What: "flip-flop special-variable slots"}
	}
	m.Push(m.SVar(o.Key))
	return nil
}
func (o GetSpecial) Disasm(f Formatter) string { return "getspecial " + itoa(o.Key) }
func (o GetSpecial) ToA(iseq.ISeq) []any        { return toA("getspecial", o.Key) }

// SetSpecial pops TOS and stores it in special variable slot Key.
type SetSpecial struct{ Key int }

func (SetSpecial) Tag() string         { return "setspecial" }
func (SetSpecial) Length() int         { return 2 }
func (SetSpecial) Pops() int           { return 1 }
func (SetSpecial) Pushes() int         { return 0 }
func (o SetSpecial) Canonical() Opcode { return o }
func (o SetSpecial) Call(m Machine) error {
	v := m.Pop()
	if o.Key >= 2 {
		return &yerr.NotImplementedError{What: "flip-flop special-variable slots"}
	}
	m.SetSVar(o.Key, v)
	return nil
}
func (o SetSpecial) Disasm(f Formatter) string { return "setspecial " + itoa(o.Key) }
func (o SetSpecial) ToA(iseq.ISeq) []any        { return toA("setspecial", o.Key) }
