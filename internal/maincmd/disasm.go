package maincmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mna/mainer"

	"github.com/mna/yarv/asm"
)

func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return DisasmFiles(stdio, c.Color, args...)
}

// DisasmFiles loads each file as an iseq and prints its disassembly. It
// keeps going after a per-file error (mirroring the teacher's ParseFiles/
// TokenizeFiles behavior of reporting every file's errors rather than
// stopping at the first one) and returns the first error encountered.
func DisasmFiles(stdio mainer.Stdio, colorize bool, files ...string) error {
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
		out, err := asm.Disassemble(iq)
		if err != nil {
			printError(stdio, fmt.Errorf("%s: %w", f, err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if colorize {
			out = colorizeMnemonics(out)
		}
		fmt.Fprint(stdio.Stdout, out)
	}
	return firstErr
}

// mnemonicColor picks a color family per the opcode groupings spec.md §4
// organizes the catalog into: stack/literal shuffling in one color, the
// opt_* fused specializations in another, call-like opcodes in another,
// control flow in another. Anything else is left uncolored.
func mnemonicColor(mnemonic string) *color.Color {
	switch {
	case strings.HasPrefix(mnemonic, "opt_"):
		return color.New(color.FgYellow)
	case mnemonic == "send" || mnemonic == "invokeblock" || mnemonic == "invokesuper" ||
		strings.HasPrefix(mnemonic, "define"):
		return color.New(color.FgCyan)
	case mnemonic == "jump" || strings.HasPrefix(mnemonic, "branch") ||
		mnemonic == "leave" || mnemonic == "throw":
		return color.New(color.FgMagenta)
	case strings.HasPrefix(mnemonic, "put") || strings.HasPrefix(mnemonic, "dup") ||
		strings.HasPrefix(mnemonic, "new"):
		return color.New(color.FgGreen)
	default:
		return nil
	}
}

// colorizeMnemonics walks asm.Disassemble's output line by line and
// colorizes the leading mnemonic of each "code:" line, leaving "iseq:"/
// "locals:" header lines and indentation untouched.
func colorizeMnemonics(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, "\t")
		indent := line[:len(line)-len(trimmed)]

		// Each code line is "<disasm text>\t# NNN"; isolate the disasm text
		// before picking out its leading mnemonic.
		codePart, comment, hasComment := strings.Cut(trimmed, "\t")
		mnemonic, rest, hasArgs := strings.Cut(codePart, " ")
		if !hasArgs {
			mnemonic = codePart
		}
		col := mnemonicColor(mnemonic)
		if col == nil || mnemonic == "" {
			continue
		}
		out := col.Sprint(mnemonic)
		if hasArgs {
			out += " " + rest
		}
		if hasComment {
			out += "\t" + comment
		}
		lines[i] = indent + out
	}
	return strings.Join(lines, "\n")
}
