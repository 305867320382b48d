package asm_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/yarv/asm"
	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/opcode"
	"github.com/mna/yarv/value"
)

func sample() *iseq.Compiled {
	return &iseq.Compiled{
		NameV:  "<main>",
		TypeV:  iseq.Main,
		Locals: iseq.LocalTable{Locals: []iseq.Local{{Name: "a"}}},
		CodeV: []iseq.Insn{
			{Tag: "putobject", Operands: []any{value.Integer(1)}},
			{Tag: "setlocal_WC_0", Operands: []any{1}},
			{Tag: "getlocal_WC_0", Operands: []any{1}},
			{Tag: "leave"},
		},
	}
}

func TestDumpLoadRoundTrip(t *testing.T) {
	iq := sample()
	arr := asm.Dump(iq)
	got, err := asm.Load(arr)
	require.NoError(t, err)

	assert.Equal(t, iq.Name(), got.Name())
	assert.Equal(t, iq.Type(), got.Type())
	if diff := cmp.Diff(iq.Code(), got.Code(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("code mismatch (-want +got):\n%s", diff)
	}
}

func TestDisassemble(t *testing.T) {
	iq := sample()
	out, err := asm.Disassemble(iq)
	require.NoError(t, err)
	assert.Contains(t, out, "iseq: <main> main")
	assert.Contains(t, out, "locals:")
	assert.Contains(t, out, "putobject 1")
	assert.Contains(t, out, "setlocal_WC_0 0")
	assert.Contains(t, out, "getlocal_WC_0 0")
	assert.Contains(t, out, "leave")
}

func TestDisassembleEnqueuesChildISeq(t *testing.T) {
	body := &iseq.Compiled{
		NameV: "foo",
		TypeV: iseq.Method,
		CodeV: []iseq.Insn{{Tag: "putnil"}, {Tag: "leave"}},
	}
	iq := &iseq.Compiled{
		NameV: "<main>",
		TypeV: iseq.Main,
		CodeV: []iseq.Insn{
			{Tag: "definemethod", Operands: []any{"foo", body.ToA()}},
			{Tag: "leave"},
		},
	}
	out, err := asm.Disassemble(iq)
	require.NoError(t, err)
	assert.Contains(t, out, "definemethod :foo")
	assert.Contains(t, out, "iseq: foo method")
	assert.Contains(t, out, "putnil")
}

func TestDecodeInsnReconstructsChildISeq(t *testing.T) {
	body := &iseq.Compiled{NameV: "foo", TypeV: iseq.Method, CodeV: []iseq.Insn{{Tag: "putnil"}, {Tag: "leave"}}}
	dm := opcode.DefineMethod{Name: "foo", Body: body}
	iq := sample()
	row := dm.ToA(iq)
	insn := iseq.Insn{Tag: row[0].(string), Operands: row[1:]}

	decoded, err := asm.DecodeInsn(iq, insn)
	require.NoError(t, err)
	got, ok := decoded.(opcode.DefineMethod)
	require.True(t, ok)
	assert.Equal(t, "foo", got.Body.Name())
	assert.Equal(t, value.Symbol("foo"), got.Name)
}

func TestLoadRejectsMalformed(t *testing.T) {
	_, err := asm.Load([]any{"not-iseq"})
	assert.Error(t, err)

	_, err = asm.Load([]any{"iseq", "n", "top", []any{}, []any{"nonsense"}})
	assert.Error(t, err)
}
