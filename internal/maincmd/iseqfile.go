package maincmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mna/yarv/asm"
	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/value"
)

// loadISeqFile reads path as the JSON-encoded counterpart of
// (*iseq.Compiled).ToA's nested array: plain JSON arrays/strings/numbers
// map directly to asm.Load's expected []any shape, and a "$type"-tagged
// object marks a node that must decode to something JSON has no native
// representation for (a value.Value literal or a jump target label).
func loadISeqFile(path string) (*iseq.Compiled, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	converted, err := fromJSONNode(raw, map[string]*iseq.Label{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	arr, ok := converted.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a top-level JSON array", path)
	}
	return asm.Load(arr)
}

func fromJSONNode(v any, labels map[string]*iseq.Label) (any, error) {
	switch vv := v.(type) {
	case nil, string, bool:
		return vv, nil
	case json.Number:
		if i, err := vv.Int64(); err == nil {
			return int(i), nil
		}
		return vv.Float64()
	case []any:
		out := make([]any, len(vv))
		for i, e := range vv {
			c, err := fromJSONNode(e, labels)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case map[string]any:
		if t, ok := vv["$type"].(string); ok {
			return fromJSONTypedLiteral(t, vv, labels)
		}
		out := make(map[string]any, len(vv))
		for k, e := range vv {
			c, err := fromJSONNode(e, labels)
			if err != nil {
				return nil, err
			}
			out[k] = c
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported JSON node type %T", v)
	}
}

func fromJSONTypedLiteral(t string, m map[string]any, labels map[string]*iseq.Label) (any, error) {
	switch t {
	case "integer":
		n, _ := m["value"].(json.Number)
		i, err := n.Int64()
		return value.Integer(i), err
	case "float":
		n, _ := m["value"].(json.Number)
		f, err := n.Float64()
		return value.Float(f), err
	case "string":
		s, _ := m["value"].(string)
		return value.String(s), nil
	case "symbol":
		s, _ := m["value"].(string)
		return value.Symbol(s), nil
	case "bool":
		b, _ := m["value"].(bool)
		if b {
			return value.True, nil
		}
		return value.False, nil
	case "nil":
		return value.Nil, nil
	case "label":
		name, _ := m["name"].(string)
		pcNum, _ := m["pc"].(json.Number)
		pc, _ := pcNum.Int64()
		l, ok := labels[name]
		if !ok {
			l = &iseq.Label{Name: name, PC: int(pc)}
			labels[name] = l
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown literal type %q", t)
	}
}
