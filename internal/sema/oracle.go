package sema

import (
	"decaf/internal/ast"
	"decaf/internal/source"
	"decaf/internal/symbols"
	"decaf/internal/types"
)

// Oracle answers subtype and type-equality queries once declarations are
// resolved. Later checking phases hold on to it through Result.
type Oracle struct {
	decls    *ast.Decls
	registry symbols.Registry
	low      *lowering
}

// IsCompatibleWith reports whether class may be used where target is
// expected. A class matches when some class on its extends chain names
// target as its base; an interface matches when some class on the chain
// lists it in implements. Identity is not a match, and any other kind of
// target never matches.
func (o *Oracle) IsCompatibleWith(class, target ast.DeclID) bool {
	goal := o.decls.Get(target)
	if goal == nil || (goal.Kind != ast.DeclClass && goal.Kind != ast.DeclInterface) {
		return false
	}
	visited := make(map[ast.DeclID]struct{})
	for cur := class; ; {
		cls, ok := o.decls.Class(cur)
		if !ok {
			return false
		}
		if _, seen := visited[cur]; seen {
			return false
		}
		visited[cur] = struct{}{}

		if goal.Kind == ast.DeclInterface {
			for _, implemented := range cls.Implements {
				if o.names(implemented, goal.Name.Name) {
					return true
				}
			}
		}
		if !cls.Extends.IsValid() {
			return false
		}
		if goal.Kind == ast.DeclClass && o.names(cls.Extends, goal.Name.Name) {
			return true
		}
		base, found := o.lookupNamed(cls.Extends)
		if !found {
			return false
		}
		cur = base
	}
}

func (o *Oracle) names(id ast.TypeID, name source.StringID) bool {
	ident, ok := o.low.builder.Types.Named(id)
	return ok && ident.Name == name
}

func (o *Oracle) lookupNamed(id ast.TypeID) (ast.DeclID, bool) {
	ident, ok := o.low.builder.Types.Named(id)
	if !ok {
		return ast.NoDeclID, false
	}
	return o.registry.Lookup(ident.Name)
}

// TypeOf lowers a syntactic type to its interned form.
func (o *Oracle) TypeOf(id ast.TypeID) types.TypeID {
	return o.low.lowerType(id)
}

func (o *Oracle) SameType(a, b types.TypeID) bool {
	return o.low.types.SameType(a, b)
}

// SameSignature reports whether fnA and fnB are functions with equal names,
// equal result types and pairwise equal formal types.
func (o *Oracle) SameSignature(fnA, fnB ast.DeclID) bool {
	return o.low.sameSignature(fnA, fnB)
}

// Signature returns the lowered signature of fn.
func (o *Oracle) Signature(fn ast.DeclID) (types.Signature, bool) {
	return o.low.signature(fn)
}
