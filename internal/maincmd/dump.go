package maincmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/yarv/asm"
	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/value"
)

func (c *Cmd) Dump(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return DumpFiles(stdio, args...)
}

// DumpFiles loads each file as an iseq and re-serializes it to stdout as
// indented JSON, the inverse of loadISeqFile. Round-tripping a hand-written
// iseq file through dump is a quick way to confirm it decodes the way its
// author intended, since the output reflects the decoded/canonicalized
// instruction stream rather than an echo of the input bytes.
func DumpFiles(stdio mainer.Stdio, files ...string) error {
	var firstErr error
	for _, f := range files {
		iq, err := loadISeqFile(f)
		if err != nil {
			printError(stdio, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		canon, err := canonicalizeCode(iq)
		if err != nil {
			printError(stdio, fmt.Errorf("%s: %w", f, err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		node, err := toJSONNode(asm.Dump(canon))
		if err != nil {
			printError(stdio, fmt.Errorf("%s: %w", f, err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		enc := json.NewEncoder(stdio.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(node); err != nil {
			printError(stdio, fmt.Errorf("%s: %w", f, err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
	}
	return firstErr
}

// canonicalizeCode decodes every instruction in iq (resolving it to its
// canonical opcode, per opcode.Canonicalize) and re-serializes it via the
// canonical opcode's own ToA, so dump's output reflects the rewritten form
// rather than echoing the input verbatim — e.g. an opt_send_without_block
// comes back out as a plain send. Only iq's own instructions are
// rewritten: child iseqs embedded in an instruction's operands
// (definemethod/defineclass/once bodies) are emitted through their own
// ToA with their instructions as loaded, not canonicalized.
func canonicalizeCode(iq *iseq.Compiled) (*iseq.Compiled, error) {
	insns := iq.Code()
	out := make([]iseq.Insn, len(insns))
	for i, insn := range insns {
		op, err := asm.DecodeInsn(iq, insn)
		if err != nil {
			return nil, fmt.Errorf("decoding instruction %d: %w", i, err)
		}
		row := op.ToA(iq)
		tag, _ := row[0].(string)
		out[i] = iseq.Insn{Tag: tag, Operands: row[1:]}
	}
	cp := *iq
	cp.CodeV = out
	return &cp, nil
}

// toJSONNode is the inverse of fromJSONNode: it maps a decoded iseq array's
// Go-native values (value.Value literals, *iseq.Label control-flow targets)
// back onto the "$type"-tagged JSON shape loadISeqFile accepts. CallData
// operands need no conversion: the opcode package already serializes them
// as a plain mid/flag/orig_argc/kw_arg map.
func toJSONNode(v any) (any, error) {
	switch vv := v.(type) {
	case nil, string, bool, int:
		return vv, nil
	case uint16:
		return int(vv), nil
	case []string:
		out := make([]any, len(vv))
		for i, s := range vv {
			out[i] = s
		}
		return out, nil
	case []any:
		out := make([]any, len(vv))
		for i, e := range vv {
			c, err := toJSONNode(e)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, e := range vv {
			c, err := toJSONNode(e)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	case *iseq.Label:
		return map[string]any{"$type": "label", "name": vv.Name, "pc": vv.PC}, nil
	case value.Integer:
		return map[string]any{"$type": "integer", "value": int64(vv)}, nil
	case value.Float:
		return map[string]any{"$type": "float", "value": float64(vv)}, nil
	case value.String:
		return map[string]any{"$type": "string", "value": string(vv)}, nil
	case value.Symbol:
		return map[string]any{"$type": "symbol", "value": string(vv)}, nil
	case value.Bool:
		return map[string]any{"$type": "bool", "value": bool(vv)}, nil
	case value.NilType:
		return map[string]any{"$type": "nil"}, nil
	default:
		return nil, fmt.Errorf("cannot serialize operand of type %T to JSON", v)
	}
}
