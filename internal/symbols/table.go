package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"decaf/internal/ast"
)

// Hints provide optional capacity suggestions for the table.
type Hints struct{ Scopes uint }

// Table owns one scope per class, interface and function of a program.
// Scopes are allocated empty up front and filled once by declaration analysis.
type Table struct {
	Scopes  *Scopes
	byOwner map[ast.DeclID]ScopeID
}

// NewTable allocates an empty scope for every scope-owning declaration in b,
// in construction order.
func NewTable(h Hints, b *ast.Builder) *Table {
	if b == nil {
		panic("symbols: nil builder")
	}
	if h.Scopes == 0 {
		h.Scopes = uint(b.Decls.Len())
	}
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	t := &Table{
		Scopes:  NewScopes(scopeCap),
		byOwner: make(map[ast.DeclID]ScopeID),
	}
	// Parents are allocated after their children (bottom-up construction),
	// so link parents in a second pass.
	for id := ast.DeclID(1); uint32(id) <= b.Decls.Len(); id++ {
		decl := b.Decls.Get(id)
		var kind ScopeKind
		switch decl.Kind {
		case ast.DeclClass:
			kind = ScopeClass
		case ast.DeclInterface:
			kind = ScopeInterface
		case ast.DeclFn:
			kind = ScopeFunction
		case ast.DeclVar:
			continue
		}
		t.byOwner[id] = t.Scopes.New(kind, id, NoScopeID, decl.Span)
	}
	for owner, scopeID := range t.byOwner {
		parent := b.Decls.Get(owner).Parent
		if !parent.IsValid() {
			continue
		}
		t.Scopes.Get(scopeID).Parent = t.byOwner[parent]
	}
	return t
}

// ScopeOf returns the scope owned by decl.
func (t *Table) ScopeOf(decl ast.DeclID) (*Scope, bool) {
	id, ok := t.byOwner[decl]
	if !ok {
		return nil, false
	}
	return t.Scopes.Get(id), true
}

// ScopeIDOf returns the scope ID owned by decl, or NoScopeID.
func (t *Table) ScopeIDOf(decl ast.DeclID) ScopeID {
	return t.byOwner[decl]
}

// Begin hands out decl's scope for population. Each scope may be
// populated only once.
func (t *Table) Begin(decl ast.DeclID) *Scope {
	scope, ok := t.ScopeOf(decl)
	if !ok {
		panic(fmt.Errorf("symbols: decl %d owns no scope", decl))
	}
	if scope.filled {
		panic(fmt.Errorf("symbols: scope of decl %d populated twice", decl))
	}
	scope.filled = true
	return scope
}
