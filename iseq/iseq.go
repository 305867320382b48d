// Package iseq defines the shape opcodes require of the compiled unit they
// live in: a local variable table with bottom-of-table offset mapping, a
// parent-iseq link for lexical-level local lookups, a label table for
// control flow, a type tag, a human name, and a self-serialization hook.
//
// The compiler that produces an ISeq (by lowering a parsed AST) is, per
// spec.md §1, an external collaborator: this package only describes the
// contract opcodes and the asm/disassembly layer consume.
package iseq

// Type tags the kind of iseq, mirroring the reference disassembler's
// iseq#type.
type Type uint8

const (
	Top Type = iota
	Method
	Block
	Class
	Rescue
	Ensure
	Eval
	Main
)

func (t Type) String() string {
	switch t {
	case Top:
		return "top"
	case Method:
		return "method"
	case Block:
		return "block"
	case Class:
		return "class"
	case Rescue:
		return "rescue"
	case Ensure:
		return "ensure"
	case Eval:
		return "eval"
	case Main:
		return "main"
	default:
		return "unknown"
	}
}

// Local describes one entry of a local table.
type Local struct {
	Name string
	// IsCell marks a local captured by an inner block/method. It is only
	// recorded: no opcode or vm code reads it, and vm.Frame accesses every
	// local directly.
	IsCell bool
}

// LocalTable maps an internal slot index to the externally-visible,
// bottom-of-table offset used by getlocal/setlocal serialization (spec.md
// §6: "positive integers index from the bottom of the table rather than the
// internal slot numbering").
type LocalTable struct {
	Locals []Local
}

// Offset converts an internal slot index into the bottom-of-table offset
// used in disassembly and serialization.
func (lt *LocalTable) Offset(index int) int {
	return len(lt.Locals) - index
}

// IndexFromOffset is the inverse of Offset, used by the assembler/loader
// when reconstructing an instruction stream from its serialized form.
func (lt *LocalTable) IndexFromOffset(offset int) int {
	return len(lt.Locals) - offset
}

// Label is an opaque control-flow target. The compiler creates them; the VM
// resolves them at jump time to a program counter.
type Label struct {
	Name string
	// PC is resolved by the assembler/compiler once the instruction stream
	// has been laid out; it is -1 until resolved.
	PC int
}

func NewLabel(name string) *Label { return &Label{Name: name, PC: -1} }

func (l *Label) String() string { return l.Name }

// Insn is the minimal shape an ISeq's code stream is made of: an opcode
// identity token plus the raw operand words the opcode package decodes
// into a concrete opcode value. It exists so this package (which opcode
// depends on) never needs to import opcode itself.
type Insn struct {
	// Tag is the opcode's lowercase mnemonic, e.g. "putobject", "send".
	Tag string
	// Operands holds the decoded operand values in declaration order,
	// exactly as they would appear in ToA (minus the leading tag).
	Operands []any
}

// ISeq is what opcodes require of the compiled unit they live in.
type ISeq interface {
	// Name is the human name of the iseq (method/block/class name, or a
	// synthetic name for top-level/eval iseqs).
	Name() string
	// Type reports the iseq's kind.
	Type() Type
	// LocalTable returns the local variable table of this iseq.
	LocalTable() *LocalTable
	// ParentISeq returns the lexically enclosing iseq, or nil for a
	// top-level iseq.
	ParentISeq() ISeq
	// Labels returns every label declared within this iseq, in declaration
	// order.
	Labels() []*Label
	// Code returns the linear instruction stream of this iseq.
	Code() []Insn
	// ToA produces this iseq's self-serialization, recursively serializing
	// any embedded child iseq (class/method/block/once bodies).
	ToA() []any
}

// Compiled is the concrete ISeq implementation produced by asm.Load (and by
// any external compiler targeting this module).
type Compiled struct {
	NameV   string
	TypeV   Type
	Locals  LocalTable
	Parent  ISeq
	LabelsV []*Label
	CodeV   []Insn

	// Children holds the iseqs embedded in this one (e.g. a defineclass's
	// class body, a definemethod's method body, or a block literal),
	// indexed in the order their owning opcodes were emitted. ToA does not
	// read this field; an embedded body is serialized only through the
	// operand list of the instruction that carries it.
	Children []*Compiled
}

var _ ISeq = (*Compiled)(nil)

func (c *Compiled) Name() string           { return c.NameV }
func (c *Compiled) Type() Type             { return c.TypeV }
func (c *Compiled) LocalTable() *LocalTable { return &c.Locals }
func (c *Compiled) ParentISeq() ISeq {
	if c.Parent == nil {
		return nil
	}
	return c.Parent
}
func (c *Compiled) Labels() []*Label { return c.LabelsV }
func (c *Compiled) Code() []Insn     { return c.CodeV }

func (c *Compiled) ToA() []any {
	locals := make([]any, len(c.Locals.Locals))
	for i, l := range c.Locals.Locals {
		locals[i] = l.Name
	}
	code := make([]any, len(c.CodeV))
	for i, insn := range c.CodeV {
		entry := make([]any, 0, len(insn.Operands)+1)
		entry = append(entry, insn.Tag)
		entry = append(entry, insn.Operands...)
		code[i] = entry
	}
	return []any{
		"iseq",
		c.NameV,
		c.TypeV.String(),
		locals,
		code,
	}
}
