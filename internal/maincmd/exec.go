package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/yarv/value"
	"github.com/mna/yarv/vm"
)

func (c *Cmd) Exec(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ExecFiles(ctx, stdio, args...)
}

// ExecFiles loads each file as a top-level iseq and runs it to completion
// on a fresh Thread, printing its leave value (or reporting the error) to
// stdout/stderr.
func ExecFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
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

		th := vm.NewThread(f)
		th.Stdout, th.Stderr, th.Stdin = stdio.Stdout, stdio.Stderr, stdio.Stdin

		result, err := th.Run(ctx, iq)
		if err != nil {
			printError(stdio, fmt.Errorf("%s: %w", f, err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fmt.Fprintln(stdio.Stdout, toDisplayString(result))
	}
	return firstErr
}

func toDisplayString(v value.Value) string {
	if v == nil {
		return "nil"
	}
	return v.String()
}
