package types

import (
	"strings"
)

// Label renders a type the way it is written in source: int, Animal, int[][].
func (in *Interner) Label(id TypeID) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch t.Kind {
	case KindNamed:
		s, _ := in.Strings.Lookup(t.Name)
		return s
	case KindArray:
		return in.Label(t.Elem) + "[]"
	default:
		return t.Kind.String()
	}
}

// SignatureLabel renders "void speak(bool)".
func (in *Interner) SignatureLabel(sig Signature) string {
	var b strings.Builder
	b.WriteString(in.Label(sig.Result))
	b.WriteByte(' ')
	name, _ := in.Strings.Lookup(sig.Name)
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range sig.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(in.Label(p))
	}
	b.WriteByte(')')
	return b.String()
}
