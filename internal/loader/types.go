package loader

import (
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"decaf/internal/ast"
	"decaf/internal/diag"
	"decaf/internal/source"
)

// typeOf builds the syntactic type spelled by node: a primitive keyword or
// an identifier followed by any number of "[]". Malformed spellings are
// reported and replaced by the error type.
func (l *loader) typeOf(node *yaml.Node, what string, owner source.Span) ast.TypeID {
	if node == nil || node.Kind != yaml.ScalarNode || strings.TrimSpace(node.Value) == "" {
		l.report(diag.SynBadTypeSyntax, owner, "%s has no type", what)
		return l.b.Types.NewPrimitive(ast.PrimError, owner)
	}
	sp := l.span(node)
	text := strings.TrimSpace(node.Value)

	depth := 0
	for strings.HasSuffix(text, "[]") {
		text = strings.TrimSpace(strings.TrimSuffix(text, "[]"))
		depth++
	}
	baseSpan := sp
	if n := uint32(len(text)); baseSpan.Start+n <= baseSpan.End { // #nosec G115 -- scalar length
		baseSpan.End = baseSpan.Start + n
	}

	var id ast.TypeID
	switch prim, ok := ast.LookupPrim(text); {
	case ok:
		id = l.b.Types.NewPrimitive(prim, baseSpan)
	case isIdent(text):
		id = l.b.Types.NewNamed(l.b.Ident(text, baseSpan))
	default:
		l.report(diag.SynBadTypeSyntax, sp, "malformed type %q for %s", node.Value, what)
		return l.b.Types.NewPrimitive(ast.PrimError, sp)
	}
	for i := 0; i < depth; i++ {
		id = l.b.Types.NewArray(id, sp)
	}
	return id
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
