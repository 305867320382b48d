// Package asm implements the array-based assembler/disassembler layer:
// Load reconstructs an iseq.ISeq (keeping each instruction's raw tag and
// operands) from the nested []any produced by ISeq.ToA, DecodeInsn turns
// one such instruction into its canonical, executable opcode, and Disassemble
// renders one human-readable line per instruction, grounded on the
// teacher's lang/compiler/asm.go textual assembler/disassembler.
package asm

import (
	"fmt"

	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/opcode"
	"github.com/mna/yarv/value"
)

// Load reconstructs a *iseq.Compiled from arr, the nested array form
// produced by (*iseq.Compiled).ToA: ["iseq", name, type, locals, code].
// It is the load half of the from_array(to_array(iseq)) round trip spec.md
// §1 requires of the serialization layer.
func Load(arr []any) (*iseq.Compiled, error) {
	if len(arr) < 5 {
		return nil, fmt.Errorf("asm: malformed iseq array (want 5 elements, got %d)", len(arr))
	}
	tag, _ := arr[0].(string)
	if tag != "iseq" {
		return nil, fmt.Errorf("asm: expected leading tag %q, got %q", "iseq", tag)
	}
	name, _ := arr[1].(string)
	typeName, _ := arr[2].(string)

	localsArr, _ := arr[3].([]any)
	locals := make([]iseq.Local, len(localsArr))
	for i, l := range localsArr {
		n, _ := l.(string)
		locals[i] = iseq.Local{Name: n}
	}

	c := &iseq.Compiled{
		NameV:  name,
		TypeV:  parseType(typeName),
		Locals: iseq.LocalTable{Locals: locals},
	}

	codeArr, _ := arr[4].([]any)
	insns := make([]iseq.Insn, len(codeArr))
	for i, entry := range codeArr {
		row, ok := entry.([]any)
		if !ok || len(row) == 0 {
			return nil, fmt.Errorf("asm: malformed instruction at index %d", i)
		}
		tag, _ := row[0].(string)
		insns[i] = iseq.Insn{Tag: tag, Operands: row[1:]}
	}
	c.CodeV = insns
	return c, nil
}

func parseType(s string) iseq.Type {
	switch s {
	case "method":
		return iseq.Method
	case "block":
		return iseq.Block
	case "class":
		return iseq.Class
	case "rescue":
		return iseq.Rescue
	case "ensure":
		return iseq.Ensure
	case "eval":
		return iseq.Eval
	case "main":
		return iseq.Main
	default:
		return iseq.Top
	}
}

// childISeq resolves an operand that may carry an embedded iseq: either
// already a concrete iseq.ISeq (built directly by a compiler targeting
// this package, never round-tripped through arrays), a nested []any (the
// serialized form produced by ToA, requiring recursive Load), or nil.
func childISeq(v any) (iseq.ISeq, error) {
	if v == nil {
		return nil, nil
	}
	if iq, ok := v.(iseq.ISeq); ok {
		return iq, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("asm: expected embedded iseq array, got %T", v)
	}
	return Load(arr)
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint16:
		return int(n), nil
	default:
		return 0, fmt.Errorf("asm: expected integer operand, got %T", v)
	}
}

func asString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("asm: expected string operand, got %T", v)
	}
	return s, nil
}

func asLabel(v any) (*iseq.Label, error) {
	l, ok := v.(*iseq.Label)
	if !ok {
		return nil, fmt.Errorf("asm: expected label operand, got %T", v)
	}
	return l, nil
}

func asValue(v any) (value.Value, error) {
	val, ok := v.(value.Value)
	if !ok {
		return nil, fmt.Errorf("asm: expected value operand, got %T", v)
	}
	return val, nil
}

// DecodeInsn translates one generic Insn into a concrete, canonicalized
// Opcode, resolving local-variable offsets against iq's local table. This
// is the symmetric inverse of Opcode.ToA/the opcode package's toA helper.
func DecodeInsn(iq iseq.ISeq, insn iseq.Insn) (opcode.Opcode, error) {
	op, err := decode(iq, insn)
	if err != nil {
		return nil, err
	}
	return opcode.Canonicalize(op), nil
}

func localIndex(iq iseq.ISeq, offset int) int {
	return iq.LocalTable().IndexFromOffset(offset)
}

func decode(iq iseq.ISeq, insn iseq.Insn) (opcode.Opcode, error) {
	ops := insn.Operands
	switch insn.Tag {
	case "pop":
		return opcode.Pop{}, nil
	case "dup":
		return opcode.Dup{}, nil
	case "dupn":
		n, err := asInt(ops[0])
		return opcode.DupN{N: n}, err
	case "swap":
		return opcode.Swap{}, nil
	case "topn":
		n, err := asInt(ops[0])
		return opcode.TopN{N: n}, err
	case "setn":
		n, err := asInt(ops[0])
		return opcode.SetN{N: n}, err
	case "adjuststack":
		n, err := asInt(ops[0])
		return opcode.AdjustStack{N: n}, err

	case "putnil":
		return opcode.PutNil{}, nil
	case "putself":
		return opcode.PutSelf{}, nil
	case "putobject":
		v, err := asValue(ops[0])
		return opcode.PutObject{V: v}, err
	case "putobject_INT2FIX_0_":
		return opcode.PutObjectFix0{}, nil
	case "putobject_INT2FIX_1_":
		return opcode.PutObjectFix1{}, nil
	case "putstring":
		s, err := asString(ops[0])
		return opcode.PutString{S: s}, err
	case "duparray":
		a, ok := ops[0].(*value.Array)
		if !ok {
			return nil, fmt.Errorf("asm: duparray: expected *value.Array operand")
		}
		return opcode.DupArray{A: a}, nil
	case "duphash":
		h, ok := ops[0].(*value.Hash)
		if !ok {
			return nil, fmt.Errorf("asm: duphash: expected *value.Hash operand")
		}
		return opcode.DupHash{H: h}, nil
	case "putspecialobject":
		n, err := asInt(ops[0])
		return opcode.PutSpecialObject{Kind: opcode.SpecialObjectKind(n)}, err

	case "opt_plus":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptPlus(cd), err
	case "opt_minus":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptMinus(cd), err
	case "opt_mult":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptMult(cd), err
	case "opt_div":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptDiv(cd), err
	case "opt_mod":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptMod(cd), err
	case "opt_lt":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptLt(cd), err
	case "opt_le":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptLe(cd), err
	case "opt_gt":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptGt(cd), err
	case "opt_ge":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptGe(cd), err
	case "opt_eq":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptEq(cd), err
	case "opt_neq":
		eqcd, err := decodeCallData(ops[0])
		if err != nil {
			return nil, err
		}
		neqcd, err := decodeCallData(ops[1])
		return opcode.OptNeq{EqCD: eqcd, NeqCD: neqcd}, err
	case "opt_and":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptAnd(cd), err
	case "opt_or":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptOr(cd), err
	case "opt_ltlt":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptLtlt(cd), err
	case "opt_succ":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptSucc(cd), err
	case "opt_not":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptNot(cd), err
	case "opt_length":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptLength(cd), err
	case "opt_size":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptSize(cd), err
	case "opt_empty_p":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptEmptyP(cd), err
	case "opt_nil_p":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptNilP(cd), err
	case "opt_regexpmatch2":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptRegexpMatch2(cd), err
	case "opt_aref":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptAref(cd), err
	case "opt_aset":
		cd, err := decodeCallData(ops[0])
		return opcode.DecodeOptAset(cd), err
	case "opt_newarray_max":
		n, err := asInt(ops[0])
		return opcode.OptNewArrayMax{N: n}, err
	case "opt_newarray_min":
		n, err := asInt(ops[0])
		return opcode.OptNewArrayMin{N: n}, err
	case "opt_aref_with":
		key, err := asString(ops[0])
		if err != nil {
			return nil, err
		}
		cd, err := decodeCallData(ops[1])
		return opcode.OptArefWith{Key: key, CD: cd}, err
	case "opt_aset_with":
		key, err := asString(ops[0])
		if err != nil {
			return nil, err
		}
		cd, err := decodeCallData(ops[1])
		return opcode.OptAsetWith{Key: key, CD: cd}, err
	case "opt_str_freeze":
		s, err := asString(ops[0])
		if err != nil {
			return nil, err
		}
		cd, err := decodeCallData(ops[1])
		return opcode.OptStrFreeze{S: s, CD: cd}, err
	case "opt_str_uminus":
		s, err := asString(ops[0])
		if err != nil {
			return nil, err
		}
		cd, err := decodeCallData(ops[1])
		return opcode.OptStrUminus{S: s, CD: cd}, err

	case "concatstrings":
		n, err := asInt(ops[0])
		return opcode.ConcatStrings{N: n}, err
	case "anytostring":
		return opcode.AnyToString{}, nil
	case "objtostring":
		cd, err := decodeCallData(ops[0])
		return opcode.ObjToString{CD: cd}, err
	case "intern":
		return opcode.Intern{}, nil
	case "toregexp":
		opt, err := asInt(ops[0])
		if err != nil {
			return nil, err
		}
		n, err := asInt(ops[1])
		return opcode.ToRegexp{Opt: value.RegexpOpt(opt), N: n}, err
	case "newrange":
		flag, err := asInt(ops[0])
		return opcode.NewRange{Exclusive: flag != 0}, err

	case "newarray":
		n, err := asInt(ops[0])
		return opcode.NewArray{N: n}, err
	case "newarraykwsplat":
		n, err := asInt(ops[0])
		return opcode.NewArrayKwSplat{N: n}, err
	case "newhash":
		n, err := asInt(ops[0])
		return opcode.NewHash{N: n / 2}, err
	case "concatarray":
		return opcode.ConcatArray{}, nil
	case "splatarray":
		flag, err := asInt(ops[0])
		return opcode.SplatArray{CopyFlag: flag != 0}, err
	case "expandarray":
		num, err := asInt(ops[0])
		if err != nil {
			return nil, err
		}
		flags, err := asInt(ops[1])
		return opcode.ExpandArray{
			Num:       num,
			SplatRest: flags&1 != 0,
			FromRight: flags&2 != 0,
			PostSplat: flags&4 != 0,
		}, err

	case "getlocal":
		off, err := asInt(ops[0])
		if err != nil {
			return nil, err
		}
		level, err := asInt(ops[1])
		return opcode.GetLocal{Index: localIndex(iq, off), Level: level}, err
	case "getlocal_WC_0":
		off, err := asInt(ops[0])
		return opcode.GetLocalWC0{Index: localIndex(iq, off)}, err
	case "getlocal_WC_1":
		off, err := asInt(ops[0])
		return opcode.GetLocalWC1{Index: localIndex(iq, off)}, err
	case "setlocal":
		off, err := asInt(ops[0])
		if err != nil {
			return nil, err
		}
		level, err := asInt(ops[1])
		return opcode.SetLocal{Index: localIndex(iq, off), Level: level}, err
	case "setlocal_WC_0":
		off, err := asInt(ops[0])
		return opcode.SetLocalWC0{Index: localIndex(iq, off)}, err
	case "setlocal_WC_1":
		off, err := asInt(ops[0])
		return opcode.SetLocalWC1{Index: localIndex(iq, off)}, err
	case "getblockparam":
		off, err := asInt(ops[0])
		if err != nil {
			return nil, err
		}
		level, err := asInt(ops[1])
		return opcode.GetBlockParam{Index: localIndex(iq, off), Level: level}, err
	case "getblockparamproxy":
		off, err := asInt(ops[0])
		if err != nil {
			return nil, err
		}
		level, err := asInt(ops[1])
		return opcode.GetBlockParamProxy{Index: localIndex(iq, off), Level: level}, err
	case "setblockparam":
		off, err := asInt(ops[0])
		if err != nil {
			return nil, err
		}
		level, err := asInt(ops[1])
		return opcode.SetBlockParam{Index: localIndex(iq, off), Level: level}, err

	case "getinstancevariable":
		n, err := asString(ops[0])
		return opcode.GetInstanceVariable{Name: value.Symbol(n)}, err
	case "setinstancevariable":
		n, err := asString(ops[0])
		return opcode.SetInstanceVariable{Name: value.Symbol(n)}, err
	case "getclassvariable":
		n, err := asString(ops[0])
		return opcode.GetClassVariable{Name: value.Symbol(n)}, err
	case "getclassvariable_cached":
		n, err := asString(ops[0])
		if err != nil {
			return nil, err
		}
		c, err := asInt(ops[1])
		return opcode.GetClassVariableCached{Name: value.Symbol(n), Cache: c}, err
	case "setclassvariable":
		n, err := asString(ops[0])
		return opcode.SetClassVariable{Name: value.Symbol(n)}, err
	case "setclassvariable_cached":
		n, err := asString(ops[0])
		if err != nil {
			return nil, err
		}
		c, err := asInt(ops[1])
		return opcode.SetClassVariableCached{Name: value.Symbol(n), Cache: c}, err
	case "getglobal":
		n, err := asString(ops[0])
		return opcode.GetGlobal{Name: value.Symbol(n)}, err
	case "setglobal":
		n, err := asString(ops[0])
		return opcode.SetGlobal{Name: value.Symbol(n)}, err
	case "getconstant":
		n, err := asString(ops[0])
		return opcode.GetConstant{Name: n}, err
	case "setconstant":
		n, err := asString(ops[0])
		return opcode.SetConstant{Name: n}, err
	case "opt_getconstant_path":
		segsAny, ok := ops[0].([]any)
		if !ok {
			return nil, fmt.Errorf("asm: opt_getconstant_path: expected segment array")
		}
		segs := make([]string, len(segsAny))
		for i, s := range segsAny {
			segs[i], _ = s.(string)
		}
		return opcode.OptGetConstantPath{Segments: segs}, nil
	case "getspecial":
		k, err := asInt(ops[0])
		return opcode.GetSpecial{Key: k}, err
	case "setspecial":
		k, err := asInt(ops[0])
		return opcode.SetSpecial{Key: k}, err

	case "jump":
		l, err := asLabel(ops[0])
		return opcode.Jump{Target: l}, err
	case "branchif":
		l, err := asLabel(ops[0])
		return opcode.BranchIf{Target: l}, err
	case "branchunless":
		l, err := asLabel(ops[0])
		return opcode.BranchUnless{Target: l}, err
	case "branchnil":
		l, err := asLabel(ops[0])
		return opcode.BranchNil{Target: l}, err
	case "opt_case_dispatch":
		tbl, ok := ops[0].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("asm: opt_case_dispatch: expected dispatch table")
		}
		labels := make(map[string]*iseq.Label, len(tbl))
		for k, v := range tbl {
			l, err := asLabel(v)
			if err != nil {
				return nil, err
			}
			labels[k] = l
		}
		var elseLabel *iseq.Label
		if ops[1] != nil {
			l, err := asLabel(ops[1])
			if err != nil {
				return nil, err
			}
			elseLabel = l
		}
		return opcode.OptCaseDispatch{Table: labels, Else: elseLabel}, nil
	case "leave":
		return opcode.Leave{}, nil
	case "nop":
		return opcode.Nop{}, nil
	case "throw":
		k, err := asString(ops[0])
		return opcode.Throw{Kind: k}, err

	case "checkmatch":
		n, err := asInt(ops[0])
		return opcode.CheckMatch{Op: opcode.CheckMatchOp(n)}, err
	case "checktype":
		s, err := asString(ops[0])
		return opcode.CheckType{Want: s}, err
	case "checkkeyword":
		off, err := asInt(ops[0])
		if err != nil {
			return nil, err
		}
		bit, err := asInt(ops[1])
		return opcode.CheckKeyword{FlagIndex: localIndex(iq, off), BitIndex: bit}, err
	case "defined":
		kind, err := asInt(ops[0])
		if err != nil {
			return nil, err
		}
		name, err := asString(ops[1])
		if err != nil {
			return nil, err
		}
		msg, err := asString(ops[2])
		return opcode.Defined{Kind: opcode.DefinedKind(kind), Name: value.Symbol(name), Message: msg}, err

	case "send":
		cd, err := decodeCallData(ops[0])
		if err != nil {
			return nil, err
		}
		block, err := childISeq(ops[1])
		return opcode.Send{CallData: cd, Block: block}, err
	case "opt_send_without_block":
		cd, err := decodeCallData(ops[0])
		return opcode.OptSendWithoutBlock{CallData: cd}, err
	case "invokeblock":
		cd, err := decodeCallData(ops[0])
		return opcode.InvokeBlock{CallData: cd}, err
	case "invokesuper":
		cd, err := decodeCallData(ops[0])
		if err != nil {
			return nil, err
		}
		block, err := childISeq(ops[1])
		return opcode.InvokeSuper{CallData: cd, Block: block}, err
	case "defineclass":
		name, err := asString(ops[0])
		if err != nil {
			return nil, err
		}
		body, err := childISeq(ops[1])
		if err != nil {
			return nil, err
		}
		var isModule bool
		if len(ops) > 2 {
			n, err := asInt(ops[2])
			if err != nil {
				return nil, err
			}
			isModule = n != 0
		}
		return opcode.DefineClass{Name: name, Body: body, IsModule: isModule}, nil
	case "definemethod":
		name, err := asString(ops[0])
		if err != nil {
			return nil, err
		}
		body, err := childISeq(ops[1])
		return opcode.DefineMethod{Name: value.Symbol(name), Body: body}, err
	case "definesmethod":
		name, err := asString(ops[0])
		if err != nil {
			return nil, err
		}
		body, err := childISeq(ops[1])
		return opcode.DefineSMethod{Name: value.Symbol(name), Body: body}, err
	case "once":
		body, err := childISeq(ops[0])
		if err != nil {
			return nil, err
		}
		cache, err := asInt(ops[1])
		return opcode.Once{Body: body, Cache: cache}, err

	default:
		return nil, fmt.Errorf("asm: unknown opcode tag %q", insn.Tag)
	}
}
