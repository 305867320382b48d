package asm

import "github.com/mna/yarv/iseq"

// Dump is the save half of the round trip Load implements: it returns iq's
// array-based self-serialization, unchanged from iq.ToA(). It exists so
// callers that only know about this package (and not the concrete
// iseq.Compiled type) have a single entry point symmetric with Load.
func Dump(iq iseq.ISeq) []any { return iq.ToA() }
