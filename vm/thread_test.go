package vm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/value"
	"github.com/mna/yarv/vm"
)

// insn is a small literal-construction helper so each scenario below reads
// as a flat instruction list instead of a wall of iseq.Insn{...} literals.
func insn(tag string, operands ...any) iseq.Insn {
	return iseq.Insn{Tag: tag, Operands: operands}
}

func compiled(locals []string, code ...iseq.Insn) *iseq.Compiled {
	lt := make([]iseq.Local, len(locals))
	for i, n := range locals {
		lt[i] = iseq.Local{Name: n}
	}
	return &iseq.Compiled{
		NameV:  "<main>",
		TypeV:  iseq.Main,
		Locals: iseq.LocalTable{Locals: lt},
		CodeV:  code,
	}
}

func run(t *testing.T, iq *iseq.Compiled) (value.Value, error) {
	t.Helper()
	th := vm.NewThread("test")
	return th.Run(context.Background(), iq)
}

func plusCallData() map[string]any {
	return map[string]any{"mid": "+", "orig_argc": uint16(1), "flag": uint16(1 << 4)}
}

func cmpCallData(mid string) map[string]any {
	return map[string]any{"mid": mid, "orig_argc": uint16(1), "flag": uint16(1 << 4)}
}

func TestRunLiteral(t *testing.T) {
	iq := compiled(nil,
		insn("putobject", value.Integer(0)),
		insn("leave"),
	)
	got, err := run(t, iq)
	require.NoError(t, err)
	assert.Equal(t, value.Integer(0), got)
}

func TestRunOptPlus(t *testing.T) {
	iq := compiled(nil,
		insn("putobject", value.Integer(1)),
		insn("putobject", value.Integer(2)),
		insn("opt_plus", plusCallData()),
		insn("leave"),
	)
	got, err := run(t, iq)
	require.NoError(t, err)
	assert.Equal(t, value.Integer(3), got)
}

func TestRunOptNeq(t *testing.T) {
	iq := compiled(nil,
		insn("putobject", value.Integer(1)),
		insn("putobject", value.Integer(2)),
		insn("opt_neq", cmpCallData("=="), cmpCallData("!=")),
		insn("leave"),
	)
	got, err := run(t, iq)
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), got)
}

func TestRunLocalRoundTrip(t *testing.T) {
	// a = 1; a
	iq := compiled([]string{"a"},
		insn("putobject", value.Integer(1)),
		insn("setlocal_WC_0", 1),
		insn("getlocal_WC_0", 1),
		insn("leave"),
	)
	got, err := run(t, iq)
	require.NoError(t, err)
	assert.Equal(t, value.Integer(1), got)
}

func TestRunStringInterpolation(t *testing.T) {
	// "x" + "y" spliced together the way interpolation lowers: two pushed
	// segments joined by a single concatstrings.
	iq := compiled(nil,
		insn("putstring", "x"),
		insn("putstring", "y"),
		insn("concatstrings", 2),
		insn("leave"),
	)
	got, err := run(t, iq)
	require.NoError(t, err)
	assert.Equal(t, value.String("xy"), got)
}

func TestRunOnceMemoizesAcrossInvocations(t *testing.T) {
	// Body increments and returns the "count" global; two once sites
	// sharing the same body and cache slot must only run it once.
	body := compiled(nil,
		insn("getglobal", "count"),
		insn("putobject", value.Integer(1)),
		insn("opt_plus", plusCallData()),
		insn("dup"),
		insn("setglobal", "count"),
		insn("leave"),
	)
	main := compiled(nil,
		insn("putobject", value.Integer(0)),
		insn("setglobal", "count"),
		insn("once", body, 0),
		insn("once", body, 0),
		insn("leave"),
	)

	th := vm.NewThread("test")
	got, err := th.Run(context.Background(), main)
	require.NoError(t, err)
	assert.Equal(t, value.Integer(1), got)
	assert.Equal(t, value.Integer(1), th.Global("count"))
}

func TestRunOptNewArrayMax(t *testing.T) {
	// [a, b, c].max lowered to the fused reduction, bypassing array
	// construction entirely.
	iq := compiled(nil,
		insn("putobject", value.Integer(1)),
		insn("putobject", value.Integer(3)),
		insn("putobject", value.Integer(2)),
		insn("opt_newarray_max", 3),
		insn("leave"),
	)
	got, err := run(t, iq)
	require.NoError(t, err)
	assert.Equal(t, value.Integer(3), got)
}
