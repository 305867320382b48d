// Package yerr collects the small set of structured error kinds the
// opcode/vm packages need to distinguish programmatically (as opposed to
// the plain fmt.Errorf strings used everywhere else, matching the
// teacher's own style in lang/machine/machine.go).
package yerr

import "fmt"

// NameNotFoundError reports that a local, constant, global, class variable
// or method name could not be resolved.
type NameNotFoundError struct {
	Kind string // "local", "constant", "global", "class variable", "method"
	Name string
}

func (e *NameNotFoundError) Error() string {
	return fmt.Sprintf("undefined %s: %s", e.Kind, e.Name)
}

// NotImplementedError reports a documented but deliberately unimplemented
// corner, e.g. flip-flop special-variable slots (getspecial key >= 2).
type NotImplementedError struct {
	What string
}

func (e *NotImplementedError) Error() string {
	return e.What + " is not implemented"
}

// HostError wraps an error surfaced by a host collaborator (the module
// loader behind Machine.Load, a Dispatch call into native code) so
// callers can tell it apart from an error raised by the bytecode itself.
type HostError struct {
	Err error
}

func (e *HostError) Error() string { return e.Err.Error() }
func (e *HostError) Unwrap() error { return e.Err }
