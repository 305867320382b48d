package opcode

// Canonicalize applies o.Canonical() once. The relation spec.md §4.11
// describes is idempotent and converges in a single step, so repeated
// application is never required — callers that canonicalize eagerly at
// decode time (asm.DecodeInsn, and any compiler targeting this package)
// call this exactly once per instruction and cache the result for Call,
// while ToA/Disasm keep using the original value.
func Canonicalize(o Opcode) Opcode { return o.Canonical() }
