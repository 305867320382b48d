package opcode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/yarv/asm"
	"github.com/mna/yarv/calldata"
	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/opcode"
	"github.com/mna/yarv/value"
)

// fakeISeq is the minimal iseq.ISeq a local-table-aware opcode's ToA needs:
// enough locals for localOperand's bottom-of-table translation to resolve.
func fakeISeq(numLocals int) *iseq.Compiled {
	locals := make([]iseq.Local, numLocals)
	for i := range locals {
		locals[i] = iseq.Local{Name: "l"}
	}
	return &iseq.Compiled{NameV: "<test>", TypeV: iseq.Top, Locals: iseq.LocalTable{Locals: locals}}
}

func plusCD() *calldata.CallData { return calldata.New("+", 1, calldata.FlagArgsSimple) }

// catalog is a representative sample spanning every opcode family: stack
// shuffling, literals, opt_* arithmetic, strings, collections, locals,
// control flow and pattern-matching guards.
func catalog() []opcode.Opcode {
	return []opcode.Opcode{
		opcode.Pop{},
		opcode.Dup{},
		opcode.DupN{N: 2},
		opcode.Swap{},
		opcode.TopN{N: 1},
		opcode.SetN{N: 1},
		opcode.AdjustStack{N: 3},

		opcode.PutNil{},
		opcode.PutSelf{},
		opcode.PutObject{V: value.Integer(42)},
		opcode.PutObjectFix0{},
		opcode.PutObjectFix1{},
		opcode.PutString{S: "hi"},

		opcode.NewOptPlus(),
		opcode.NewOptMinus(),
		opcode.NewOptLt(),
		opcode.OptNeq{EqCD: calldata.New("==", 1, calldata.FlagArgsSimple), NeqCD: calldata.New("!=", 1, calldata.FlagArgsSimple)},
		opcode.OptNewArrayMax{N: 3},
		opcode.NewOptAnd(),
		opcode.NewOptOr(),
		opcode.NewOptLtlt(),
		opcode.NewOptSucc(),
		opcode.NewOptNot(),
		opcode.NewOptLength(),
		opcode.NewOptSize(),
		opcode.NewOptEmptyP(),
		opcode.NewOptNilP(),
		opcode.NewOptRegexpMatch2(),
		opcode.NewOptAref(),
		opcode.NewOptAset(),

		opcode.ConcatStrings{N: 2},
		opcode.AnyToString{},
		opcode.Intern{},

		opcode.NewArray{N: 2},
		opcode.ConcatArray{},
		opcode.SplatArray{CopyFlag: true},

		opcode.GetLocal{Index: 0, Level: 0},
		opcode.SetLocal{Index: 0, Level: 0},
		opcode.GetLocalWC0{Index: 0},
		opcode.SetLocalWC0{Index: 0},

		opcode.Jump{Target: iseq.NewLabel("L0")},
		opcode.Leave{},
		opcode.Nop{},

		opcode.CheckType{Want: "Integer"},
		opcode.CheckMatch{Op: opcode.CheckMatchWhen},
		opcode.CheckMatch{Op: opcode.CheckMatchRescue},
		opcode.CheckMatch{Op: opcode.CheckMatchCase},

		opcode.Send{CallData: plusCD()},
		opcode.OptSendWithoutBlock{CallData: plusCD()},
	}
}

// TestStackEffectDiscipline checks Pops/Pushes are non-negative and that
// Pushes is 0 or 1 for every opcode except the stack shufflers (dup and
// swap push 2, dupn pushes 2*N) and the two documented anomalies:
// checktype (reports 2, though it only ever pushes 1) and leave (reports 0,
// though it semantically consumes the frame's top-of-stack return value).
func TestStackEffectDiscipline(t *testing.T) {
	for _, op := range catalog() {
		t.Run(op.Tag(), func(t *testing.T) {
			assert.GreaterOrEqual(t, op.Pops(), 0, "Pops must never be negative")
			switch op.Tag() {
			case "checktype":
				assert.Equal(t, 2, op.Pushes())
			case "leave":
				assert.Equal(t, 0, op.Pushes())
				assert.Equal(t, 1, op.Pops())
			case "dup", "swap":
				assert.Equal(t, 2, op.Pushes())
			case "dupn":
				assert.Equal(t, 2*op.(opcode.DupN).N, op.Pushes())
			default:
				assert.Contains(t, []int{0, 1}, op.Pushes(), "Pushes must be 0 or 1")
			}
		})
	}
}

// TestCanonicalIdempotent checks that canonicalization converges in one
// step: rewriting an already-canonical opcode must return it unchanged.
func TestCanonicalIdempotent(t *testing.T) {
	for _, op := range catalog() {
		t.Run(op.Tag(), func(t *testing.T) {
			once := op.Canonical()
			twice := once.Canonical()
			assert.Equal(t, once, twice)
		})
	}
}

// TestDecodeInsnRoundTrip exercises ToA -> asm.DecodeInsn for a
// representative opcode from each family, confirming the decoded,
// canonicalized result matches the original's own canonicalization.
func TestDecodeInsnRoundTrip(t *testing.T) {
	iq := fakeISeq(2)
	for _, op := range catalog() {
		t.Run(op.Tag(), func(t *testing.T) {
			row := op.ToA(iq)
			require.NotEmpty(t, row)
			tag, ok := row[0].(string)
			require.True(t, ok)
			assert.Equal(t, op.Tag(), tag)

			insn := iseq.Insn{Tag: tag, Operands: row[1:]}
			decoded, err := asm.DecodeInsn(iq, insn)
			require.NoError(t, err)
			assert.Equal(t, op.Canonical(), decoded)
		})
	}
}

// TestTagMatchesDecodeSwitch is a smoke test that every opcode's own Tag()
// is the exact case label asm.DecodeInsn's switch (and spec.md's mixed-case
// mnemonics, e.g. getlocal_WC_0) expects — a mismatch here means Tag()
// drifted from ToA/Disasm without the decode path noticing.
func TestTagMatchesDecodeSwitch(t *testing.T) {
	for _, op := range catalog() {
		row := op.ToA(fakeISeq(2))
		tag, _ := row[0].(string)
		assert.Equal(t, op.Tag(), tag, "Tag() must match the literal ToA emits")
	}
}
