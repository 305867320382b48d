// Package vm implements the concrete runtime the opcode package's Machine
// interface abstracts over: a frame stack, an operand stack and locals per
// frame, the globals/special-variable tables, and method/block/class-frame
// dispatch. It is the array-based-VM counterpart of the teacher's
// lang/machine package (Thread/Frame/run), generalized from a byte-decoded
// instruction stream to the opcode package's pre-decoded, canonicalized
// Opcode values.
package vm

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"golang.org/x/exp/maps"

	"github.com/mna/yarv/asm"
	"github.com/mna/yarv/internal/yerr"
	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/opcode"
	"github.com/mna/yarv/value"
)

// coreSentinel is the opaque receiver putspecialobject pushes for
// VM_CORE-flavored lowerings (alias/undef); it carries no state and is
// never dispatched to.
type coreSentinel struct{}

func (coreSentinel) String() string { return "VM_CORE" }
func (coreSentinel) Type() string   { return "VMCore" }

// onceKey scopes a once opcode's memo slot to its body iseq, since two
// different bodies may each number their own cache slots from 0.
type onceKey struct {
	body  iseq.ISeq
	cache int
}

// Thread is a single, non-reentrant execution context: one frame stack, one
// globals table, one special-variable table. It implements opcode.Machine.
type Thread struct {
	// Name optionally identifies the thread for debugging, mirroring the
	// teacher's lang/machine/thread.go Thread.Name.
	Name string

	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// MaxSteps bounds the number of opcode dispatches before the thread is
	// cancelled; <= 0 means unlimited.
	MaxSteps int

	// MaxCallStackDepth bounds frame nesting (method/block/class frames);
	// <= 0 means unlimited.
	MaxCallStackDepth int

	// LoadModule backs Thread.Load; nil means Load always errors.
	LoadModule func(*Thread, string) (value.Value, error)

	root *value.Class

	globals map[value.Symbol]value.Value
	svars   map[int]value.Value

	frames []*Frame

	decoded map[iseq.ISeq][]opcode.Opcode
	once    map[onceKey]value.Value

	ctx       context.Context
	ctxCancel context.CancelFunc
	cancelled atomic.Bool
	steps     uint64
	maxSteps  uint64

	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
}

// NewThread returns an initialized Thread with a fresh root (Object-
// equivalent) class and an empty globals/special-variable table.
func NewThread(name string) *Thread {
	return &Thread{
		Name:    name,
		root:    value.NewClass("Object", nil),
		globals: make(map[value.Symbol]value.Value),
		svars:   make(map[int]value.Value),
		decoded: make(map[iseq.ISeq][]opcode.Opcode),
		once:    make(map[onceKey]value.Value),
	}
}

// RootClass returns the thread's Object-equivalent root class, the default
// ConstBase for the top-level frame.
func (th *Thread) RootClass() *value.Class { return th.root }

// GlobalNames lists the currently-bound global-variable names, for
// debugging/dump tooling.
func (th *Thread) GlobalNames() []value.Symbol { return maps.Keys(th.globals) }

func (th *Thread) init(ctx context.Context) {
	if th.MaxSteps <= 0 {
		th.maxSteps--
	} else {
		th.maxSteps = uint64(th.MaxSteps)
	}
	if th.Stdout != nil {
		th.stdout = th.Stdout
	} else {
		th.stdout = os.Stdout
	}
	if th.Stderr != nil {
		th.stderr = th.Stderr
	} else {
		th.stderr = os.Stderr
	}
	if th.Stdin != nil {
		th.stdin = th.Stdin
	} else {
		th.stdin = os.Stdin
	}
	th.ctx, th.ctxCancel = context.WithCancel(ctx)
	go func() {
		<-th.ctx.Done()
		th.cancelled.Store(true)
	}()
}

// Run executes body as the top-level frame, self bound to a fresh instance
// of the thread's root class, and returns its leave value.
func (th *Thread) Run(ctx context.Context, body iseq.ISeq) (value.Value, error) {
	th.init(ctx)
	defer th.ctxCancel()
	self := value.NewObject(th.root)
	fr := newFrame(body, self, th.root, nil, nil)
	return th.runFrame(fr)
}

func (th *Thread) decode(iq iseq.ISeq) ([]opcode.Opcode, error) {
	if ops, ok := th.decoded[iq]; ok {
		return ops, nil
	}
	insns := iq.Code()
	ops := make([]opcode.Opcode, len(insns))
	for i, insn := range insns {
		op, err := asm.DecodeInsn(iq, insn)
		if err != nil {
			return nil, fmt.Errorf("vm: decoding %s at %d: %w", iq.Name(), i, err)
		}
		ops[i] = op
	}
	th.decoded[iq] = ops
	return ops, nil
}

func (th *Thread) runFrame(fr *Frame) (value.Value, error) {
	if th.MaxCallStackDepth > 0 && len(th.frames) >= th.MaxCallStackDepth {
		return nil, fmt.Errorf("vm: stack level too deep")
	}
	ops, err := th.decode(fr.iq)
	if err != nil {
		return nil, err
	}
	th.frames = append(th.frames, fr)
	defer func() {
		th.frames = th.frames[:len(th.frames)-1]
	}()

	for fr.pc < len(ops) {
		th.steps++
		if th.steps >= th.maxSteps {
			th.ctxCancel()
			return nil, fmt.Errorf("vm: thread cancelled: %w", context.Cause(th.ctx))
		}
		if th.cancelled.Load() {
			return nil, fmt.Errorf("vm: thread cancelled: %w", context.Cause(th.ctx))
		}

		op := ops[fr.pc]
		if err := op.Call(th); err != nil {
			return nil, err
		}
		if fr.leaving {
			return fr.result, nil
		}
		if fr.jumping {
			fr.pc = fr.jumpPC
			fr.jumping = false
			continue
		}
		fr.pc++
	}
	return value.Nil, nil
}

func (th *Thread) current() *Frame { return th.frames[len(th.frames)-1] }

// Push implements opcode.Machine.
func (th *Thread) Push(v value.Value) { th.current().push(v) }

// Pop implements opcode.Machine.
func (th *Thread) Pop() value.Value { return th.current().pop() }

// PopN implements opcode.Machine.
func (th *Thread) PopN(n int) []value.Value { return th.current().popN(n) }

// StackLen implements opcode.Machine.
func (th *Thread) StackLen() int { return len(th.current().stack) }

// StackAt implements opcode.Machine.
func (th *Thread) StackAt(n int) value.Value { return th.current().stackAt(n) }

// SetStackAt implements opcode.Machine.
func (th *Thread) SetStackAt(n int, v value.Value) { th.current().setStackAt(n, v) }

// LocalGet implements opcode.Machine.
func (th *Thread) LocalGet(index, level int) value.Value {
	return th.current().atLevel(level).locals[index]
}

// LocalSet implements opcode.Machine.
func (th *Thread) LocalSet(index, level int, v value.Value) {
	th.current().atLevel(level).locals[index] = v
}

// Self implements opcode.Machine.
func (th *Thread) Self() value.Value { return th.current().self }

// CurrentISeq implements opcode.Machine.
func (th *Thread) CurrentISeq() iseq.ISeq { return th.current().iq }

// CurrentBlock implements opcode.Machine.
func (th *Thread) CurrentBlock() *value.Proc { return th.current().block }

// ConstBase implements opcode.Machine.
func (th *Thread) ConstBase() *value.Class { return th.current().constBase }

// FrozenCore implements opcode.Machine.
func (th *Thread) FrozenCore() value.Value { return coreSentinel{} }

// Global implements opcode.Machine.
func (th *Thread) Global(name value.Symbol) value.Value {
	if v, ok := th.globals[name]; ok {
		return v
	}
	return value.Nil
}

// SetGlobal implements opcode.Machine.
func (th *Thread) SetGlobal(name value.Symbol, v value.Value) { th.globals[name] = v }

// SVar implements opcode.Machine.
func (th *Thread) SVar(key int) value.Value {
	if v, ok := th.svars[key]; ok {
		return v
	}
	return value.Nil
}

// SetSVar implements opcode.Machine.
func (th *Thread) SetSVar(key int, v value.Value) { th.svars[key] = v }

// OnceCache implements opcode.Machine.
func (th *Thread) OnceCache(body iseq.ISeq, cache int) (value.Value, bool) {
	v, ok := th.once[onceKey{body: body, cache: cache}]
	return v, ok
}

// SetOnceCache implements opcode.Machine.
func (th *Thread) SetOnceCache(body iseq.ISeq, cache int, v value.Value) {
	th.once[onceKey{body: body, cache: cache}] = v
}

// Jump implements opcode.Machine.
func (th *Thread) Jump(l *iseq.Label) {
	fr := th.current()
	fr.jumping = true
	fr.jumpPC = l.PC
}

// Leave implements opcode.Machine.
func (th *Thread) Leave(v value.Value) {
	fr := th.current()
	fr.leaving = true
	fr.result = v
}

// Throw implements opcode.Machine. Catch-table dispatch is not modeled by
// this iseq representation (no per-iseq catch table is carried), so, per
// the documented open question on unimplemented opcodes, this surfaces an
// explicit not-implemented error rather than silently dropping the throw.
func (th *Thread) Throw(tag string, v value.Value) error {
	return &yerr.NotImplementedError{What: "throw(" + tag + ")"}
}

// Load implements opcode.Machine.
func (th *Thread) Load(module string) (value.Value, error) {
	if th.LoadModule == nil {
		return nil, fmt.Errorf("vm: no module loader configured")
	}
	return th.LoadModule(th, module)
}
