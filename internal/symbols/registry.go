package symbols

import (
	"fmt"

	"decaf/internal/ast"
	"decaf/internal/diag"
	"decaf/internal/source"
)

// Registry is the program-wide lookup of top-level names. It is complete
// before declaration analysis starts, which makes forward references work.
type Registry interface {
	Lookup(name source.StringID) (ast.DeclID, bool)
}

// Globals is the map-backed Registry; the first declaration of a name wins.
type Globals struct {
	byName map[source.StringID]ast.DeclID
	order  []ast.DeclID
}

func NewGlobals() *Globals {
	return &Globals{byName: make(map[source.StringID]ast.DeclID)}
}

// Declare registers decl under name. It returns the prior declaration and
// false when the name is taken.
func (g *Globals) Declare(name source.StringID, decl ast.DeclID) (ast.DeclID, bool) {
	if prev, ok := g.byName[name]; ok {
		return prev, false
	}
	g.byName[name] = decl
	g.order = append(g.order, decl)
	return decl, true
}

func (g *Globals) Lookup(name source.StringID) (ast.DeclID, bool) {
	decl, ok := g.byName[name]
	return decl, ok
}

// Decls lists registered declarations in registration order.
func (g *Globals) Decls() []ast.DeclID {
	return g.order
}

// CollectGlobals registers every top-level declaration of file in source
// order and reports a conflict for each repeated name.
func CollectGlobals(b *ast.Builder, file ast.FileID, reporter diag.Reporter) *Globals {
	g := NewGlobals()
	f := b.Files.Get(file)
	if f == nil {
		return g
	}
	for _, id := range f.Decls {
		decl := b.Decls.Get(id)
		prev, ok := g.Declare(decl.Name.Name, id)
		if ok {
			continue
		}
		if reporter == nil {
			continue
		}
		prior := b.Decls.Get(prev)
		diag.ReportError(reporter, diag.SemaDeclConflict, decl.Name.Span,
			fmt.Sprintf("declaration of '%s' conflicts with previous %s declaration", b.Name(id), prior.Kind)).
			WithNote(prior.Name.Span, "previous declaration here").
			Emit()
	}
	return g
}

// Resolve looks name up in scope, then in its enclosing scopes, then in
// globals. It is the lookup statement checking uses.
func (t *Table) Resolve(scope ScopeID, name source.StringID, globals Registry) (ast.DeclID, bool) {
	for cur := scope; cur.IsValid(); {
		s := t.Scopes.Get(cur)
		if s == nil {
			break
		}
		if decl, ok := s.Lookup(name); ok {
			return decl, true
		}
		cur = s.Parent
	}
	if globals == nil {
		return ast.NoDeclID, false
	}
	return globals.Lookup(name)
}
