package asm

import (
	"fmt"

	"github.com/mna/yarv/calldata"
)

// decodeCallData is the inverse of the opcode package's internal
// callDataOperand helper: it reconstructs a *calldata.CallData from the
// mid/flag/orig_argc/kw_arg mapping spec.md §6 describes.
func decodeCallData(v any) (*calldata.CallData, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("asm: expected calldata mapping, got %T", v)
	}
	mid, _ := m["mid"].(string)
	var argc uint16
	switch a := m["orig_argc"].(type) {
	case uint16:
		argc = a
	case int:
		argc = uint16(a)
	}
	var flags calldata.Flag
	switch f := m["flag"].(type) {
	case uint16:
		flags = calldata.Flag(f)
	case int:
		flags = calldata.Flag(f)
	}
	cd := &calldata.CallData{Method: calldata.Symbol(mid), Argc: argc, Flags: flags}
	switch raw := m["kw_arg"].(type) {
	case []string:
		kw := make([]calldata.Symbol, len(raw))
		for i, s := range raw {
			kw[i] = calldata.Symbol(s)
		}
		cd.KwArg = kw
	case []any:
		kw := make([]calldata.Symbol, len(raw))
		for i, s := range raw {
			name, _ := s.(string)
			kw[i] = calldata.Symbol(name)
		}
		cd.KwArg = kw
	}
	return cd, nil
}
