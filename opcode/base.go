package opcode

import (
	"github.com/mna/yarv/calldata"
	"github.com/mna/yarv/iseq"
)

// toA is a small helper building the []any serialization spec.md §6
// describes: tag first, followed by operands in declaration order.
func toA(tag string, operands ...any) []any {
	out := make([]any, 0, len(operands)+1)
	out = append(out, tag)
	out = append(out, operands...)
	return out
}

// localOperand serializes a local reference as local_table.offset(index),
// per spec.md §6.
func localOperand(iq iseq.ISeq, index int) int {
	return iq.LocalTable().Offset(index)
}

// callDataOperand serializes a CallData as the mid/flag/orig_argc/kw_arg
// mapping spec.md §6 describes.
func callDataOperand(cd *calldata.CallData) map[string]any {
	m := map[string]any{
		"mid":       string(cd.Method),
		"flag":      uint16(cd.Flags),
		"orig_argc": cd.Argc,
	}
	if cd.KwArg != nil {
		kw := make([]string, len(cd.KwArg))
		for i, s := range cd.KwArg {
			kw[i] = string(s)
		}
		m["kw_arg"] = kw
	}
	return m
}
