// Package calldata describes the immutable call-site descriptor shared by
// every call-like opcode (send, invokeblock, invokesuper and their
// specialized/optimized variants).
package calldata

// Flag is a single bit in a CallData's flag set. The bit positions match
// the reference YARV encoding named in spec.md §3.
type Flag uint16

const (
	FlagArgsSplat  Flag = 1 << 0 // splat argument, e.g. f(*a)
	FlagBlockArg   Flag = 1 << 1 // explicit block argument, e.g. f(&b)
	FlagFCall      Flag = 1 << 2 // function-style call (no explicit receiver)
	FlagVCall      Flag = 1 << 3 // bare-identifier call (no args, no parens)
	FlagArgsSimple Flag = 1 << 4 // no kwargs, no splat, no block pass
	FlagBlockISeq  Flag = 1 << 5 // call carries a literal block iseq
	FlagKwArg      Flag = 1 << 6 // call site supplies keyword arguments
	FlagKwSplat    Flag = 1 << 7 // call site supplies a keyword splat (**kw)
	FlagTailCall   Flag = 1 << 8 // call occupies tail position
	FlagSuper      Flag = 1 << 9 // explicit super(...)
	FlagZSuper     Flag = 1 << 10 // bare super, implicit args
	FlagOptSend    Flag = 1 << 11 // dispatched via an opt_* specialization
	FlagKwSplatMut Flag = 1 << 12 // kwarg splat hash may be mutated in place
)

// CallData is the immutable descriptor of a call site. It is created once
// by the compiler or by the asm package's loader and is never mutated afterwards; call-like
// opcodes only ever read from it.
type CallData struct {
	Method Symbol
	Argc   uint16
	Flags  Flag
	KwArg  []Symbol // nil unless Flags&FlagKwArg != 0
}

// Symbol is a lightweight interned-name type; it is defined here (rather
// than imported from package value) so that calldata has no dependency on
// the runtime value domain, matching spec.md's description of CallData as a
// value object independent of the VM.
type Symbol string

// Has reports whether all bits of f are set on the CallData's Flags.
func (cd *CallData) Has(f Flag) bool { return cd.Flags&f == f }

// New builds a CallData for a plain positional call with no keyword
// arguments, the common case exercised by opt_* specializations.
func New(method Symbol, argc uint16, flags Flag) *CallData {
	return &CallData{Method: method, Argc: argc, Flags: flags}
}

// NewKw builds a CallData for a call site that supplies keyword arguments.
func NewKw(method Symbol, argc uint16, flags Flag, kwArg []Symbol) *CallData {
	return &CallData{Method: method, Argc: argc, Flags: flags | FlagKwArg, KwArg: kwArg}
}

// Equal reports whether two CallData values describe the same call site,
// used by canonicalization idempotence and serialization round-trip checks.
func (cd *CallData) Equal(other *CallData) bool {
	if cd == other {
		return true
	}
	if cd == nil || other == nil {
		return false
	}
	if cd.Method != other.Method || cd.Argc != other.Argc || cd.Flags != other.Flags {
		return false
	}
	if len(cd.KwArg) != len(other.KwArg) {
		return false
	}
	for i, s := range cd.KwArg {
		if s != other.KwArg[i] {
			return false
		}
	}
	return true
}
