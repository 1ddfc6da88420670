package ast

import (
	"decaf/internal/source"
)

type Hints struct{ Files, Decls, Types, Stmts uint }

// Builder owns every arena of one program and the string table its
// identifiers point into.
type Builder struct {
	Strings *source.Interner
	Files   *Files
	Decls   *Decls
	Types   *TypeExprs
	Stmts   *Stmts
}

func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 2
	}
	if hints.Decls == 0 {
		hints.Decls = 1 << 7
	}
	if hints.Types == 0 {
		hints.Types = 1 << 7
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 6
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Strings: strings,
		Files:   NewFiles(hints.Files),
		Decls:   NewDecls(hints.Decls),
		Types:   NewTypeExprs(hints.Types),
		Stmts:   NewStmts(hints.Stmts),
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

// PushDecl appends a top-level declaration to file.
func (b *Builder) PushDecl(file FileID, decl DeclID) {
	f := b.Files.Get(file)
	f.Decls = append(f.Decls, decl)
}

// Ident interns name and pairs it with span.
func (b *Builder) Ident(name string, span source.Span) Ident {
	return Ident{Name: b.Strings.InternIdent(name), Span: span}
}

// Name returns the text of decl's identifier.
func (b *Builder) Name(decl DeclID) string {
	d := b.Decls.Get(decl)
	if d == nil {
		return ""
	}
	s, _ := b.Strings.Lookup(d.Name.Name)
	return s
}

// TypeLabel renders a syntactic type the way it is spelled in source.
func (b *Builder) TypeLabel(id TypeID) string {
	te := b.Types.Get(id)
	if te == nil {
		return "<none>"
	}
	switch te.Kind {
	case TypeExprPrimitive:
		return te.Prim.String()
	case TypeExprNamed:
		s, _ := b.Strings.Lookup(te.Name.Name)
		return s
	case TypeExprArray:
		return b.TypeLabel(te.Elem) + "[]"
	default:
		return "<bad type>"
	}
}
