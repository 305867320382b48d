package asm

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/mna/yarv/calldata"
	"github.com/mna/yarv/iseq"
	"github.com/mna/yarv/value"
)

// Disassemble renders iq, and every iseq it (transitively) embeds via
// defineclass/definemethod/definesmethod/once, as human-readable text: one
// "iseq:" header per unit, a "locals:" section, and one numbered line per
// instruction, grounded on the teacher's lang/compiler/asm.go dasm struct
// (same write/writef accumulator, same trailing "# %03d" index comment),
// generalized from a program/function split to this module's iseq-per-unit
// shape and queuing child iseqs (via Formatter.Enqueue) instead of walking
// a flat Program.Functions slice.
func Disassemble(iq iseq.ISeq) (string, error) {
	d := &disasm{buf: new(bytes.Buffer)}
	d.iseq(iq)
	for len(d.queue) > 0 && d.err == nil {
		child := d.queue[0]
		d.queue = d.queue[1:]
		d.write("\n")
		d.iseq(child)
	}
	return d.buf.String(), d.err
}

type disasm struct {
	buf   *bytes.Buffer
	err   error
	queue []iseq.ISeq
}

func (d *disasm) iseq(iq iseq.ISeq) {
	if d.err != nil {
		return
	}
	d.writef("iseq: %s %s\n", iq.Name(), iq.Type())

	locals := iq.LocalTable().Locals
	if len(locals) > 0 {
		d.write("\tlocals:\n")
		for i, l := range locals {
			d.writef("\t\t%s\t# %03d\n", l.Name, i)
		}
	}

	insns := iq.Code()
	if len(insns) == 0 {
		return
	}
	d.write("\tcode:\n")
	for i, insn := range insns {
		op, err := decode(iq, insn)
		if err != nil {
			d.err = err
			return
		}
		d.writef("\t\t%s\t# %03d\n", op.Disasm(d), i)
	}
}

func (d *disasm) writef(s string, args ...any) { d.write(fmt.Sprintf(s, args...)) }

func (d *disasm) write(s string) {
	if d.err == nil {
		d.buf.WriteString(s)
	}
}

// Label implements opcode.Formatter.
func (d *disasm) Label(l *iseq.Label) string {
	return l.Name + "@" + strconv.Itoa(l.PC)
}

// CallData implements opcode.Formatter.
func (d *disasm) CallData(cd *calldata.CallData) string {
	s := "<callinfo!mid:" + string(cd.Method) + ", argc:" + strconv.Itoa(int(cd.Argc))
	for _, kw := range cd.KwArg {
		s += ", kw:" + string(kw)
	}
	return s + ">"
}

// Object implements opcode.Formatter.
func (d *disasm) Object(v value.Value) string {
	if s, ok := v.(value.String); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}

// Enqueue implements opcode.Formatter.
func (d *disasm) Enqueue(child iseq.ISeq) { d.queue = append(d.queue, child) }
