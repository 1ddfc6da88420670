package ast

import (
	"decaf/internal/source"
)

type TypeExprKind uint8

const (
	TypeExprPrimitive TypeExprKind = iota
	TypeExprNamed
	TypeExprArray
)

// PrimKind enumerates the built-in types of the language.
type PrimKind uint8

const (
	PrimInt PrimKind = iota
	PrimDouble
	PrimBool
	PrimVoid
	PrimNull
	PrimString
	// PrimError is produced by error recovery; it matches every other type.
	PrimError
)

var primNames = [...]string{
	PrimInt:    "int",
	PrimDouble: "double",
	PrimBool:   "bool",
	PrimVoid:   "void",
	PrimNull:   "null",
	PrimString: "string",
	PrimError:  "error",
}

func (p PrimKind) String() string {
	if int(p) < len(primNames) {
		return primNames[p]
	}
	return "prim?"
}

// LookupPrim maps a keyword to its primitive kind. The error sentinel has
// no spelling in source and is not returned here.
func LookupPrim(keyword string) (PrimKind, bool) {
	for k, name := range primNames {
		if PrimKind(k) == PrimError {
			continue
		}
		if name == keyword {
			return PrimKind(k), true
		}
	}
	return 0, false
}

// TypeExpr is a syntactic type. Named types carry only the identifier;
// they are resolved on demand through the global registry.
type TypeExpr struct {
	Kind TypeExprKind
	Span source.Span
	Prim PrimKind // TypeExprPrimitive
	Name Ident    // TypeExprNamed
	Elem TypeID   // TypeExprArray
}

type TypeExprs struct {
	Arena *Arena[TypeExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	return &TypeExprs{
		Arena: NewArena[TypeExpr](capHint),
	}
}

func (t *TypeExprs) NewPrimitive(prim PrimKind, span source.Span) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{
		Kind: TypeExprPrimitive,
		Span: span,
		Prim: prim,
	}))
}

func (t *TypeExprs) NewNamed(name Ident) TypeID {
	return TypeID(t.Arena.Allocate(TypeExpr{
		Kind: TypeExprNamed,
		Span: name.Span,
		Name: name,
	}))
}

func (t *TypeExprs) NewArray(elem TypeID, span source.Span) TypeID {
	if !elem.IsValid() {
		panic("array type without element type")
	}
	return TypeID(t.Arena.Allocate(TypeExpr{
		Kind: TypeExprArray,
		Span: span,
		Elem: elem,
	}))
}

func (t *TypeExprs) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}

// Named returns the identifier of a named type.
func (t *TypeExprs) Named(id TypeID) (Ident, bool) {
	te := t.Get(id)
	if te == nil || te.Kind != TypeExprNamed {
		return Ident{}, false
	}
	return te.Name, true
}
