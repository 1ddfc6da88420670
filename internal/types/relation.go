package types

import (
	"decaf/internal/source"
)

// SameType reports structural equality: primitives by kind, named types by
// spelling, arrays by element. The error sentinel equals anything.
func (in *Interner) SameType(a, b TypeID) bool {
	if a == b {
		return true
	}
	ta, okA := in.Lookup(a)
	tb, okB := in.Lookup(b)
	if !okA || !okB {
		return false
	}
	if ta.Kind == KindError || tb.Kind == KindError {
		return true
	}
	if ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case KindNamed:
		return ta.Name == tb.Name
	case KindArray:
		return in.SameType(ta.Elem, tb.Elem)
	default:
		// primitives of one kind are interned once, so a != b means a mismatch
		return false
	}
}

// Signature is the comparable shape of a function declaration.
type Signature struct {
	Name   source.StringID
	Result TypeID
	Params []TypeID
}

// SameSignature reports whether f1 and f2 agree on name, result type and
// parameter types. Parameter names are irrelevant.
func (in *Interner) SameSignature(f1, f2 Signature) bool {
	if f1.Name != f2.Name {
		return false
	}
	if !in.SameType(f1.Result, f2.Result) {
		return false
	}
	if len(f1.Params) != len(f2.Params) {
		return false
	}
	for i := range f1.Params {
		if !in.SameType(f1.Params[i], f2.Params[i]) {
			return false
		}
	}
	return true
}
