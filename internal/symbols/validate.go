package symbols

import (
	"errors"
	"fmt"

	"decaf/internal/ast"
)

// Validate checks structural invariants of the table against b. It returns
// nil if everything is consistent; otherwise it aggregates every issue.
func (t *Table) Validate(b *ast.Builder) error {
	var errs []error

	for idx := 1; idx < len(t.Scopes.data); idx++ {
		scopeID := ScopeID(idx) // #nosec G115 -- arena bounded by safecast in New
		scope := &t.Scopes.data[idx]
		if scope.Kind == ScopeInvalid {
			errs = append(errs, fmt.Errorf("scope %d has invalid kind", scopeID))
		}
		owner := b.Decls.Get(scope.Owner)
		if owner == nil {
			errs = append(errs, fmt.Errorf("scope %d has unknown owner %d", scopeID, scope.Owner))
			continue
		}
		if want := kindFor(owner.Kind); want != scope.Kind {
			errs = append(errs, fmt.Errorf("scope %d is %s but owner %d is a %s", scopeID, scope.Kind, scope.Owner, owner.Kind))
		}
		if t.byOwner[scope.Owner] != scopeID {
			errs = append(errs, fmt.Errorf("scope %d owner %d missing backlink", scopeID, scope.Owner))
		}
		if scope.Parent.IsValid() {
			parent := t.Scopes.Get(scope.Parent)
			if parent == nil || parent.Owner != owner.Parent {
				errs = append(errs, fmt.Errorf("scope %d parent %d does not belong to decl %d", scopeID, scope.Parent, owner.Parent))
			}
		}

		if len(scope.entries) != len(scope.names) {
			errs = append(errs, fmt.Errorf("scope %d: %d entries but %d names", scopeID, len(scope.entries), len(scope.names)))
		}
		for _, e := range scope.entries {
			if got, ok := scope.names[e.Name]; !ok || got != e.Decl {
				errs = append(errs, fmt.Errorf("scope %d: entry %d for name %d not indexed", scopeID, e.Decl, e.Name))
			}
			if b.Decls.Get(e.Decl) == nil {
				errs = append(errs, fmt.Errorf("scope %d: entry points to unknown decl %d", scopeID, e.Decl))
			}
		}
	}

	return errors.Join(errs...)
}

func kindFor(k ast.DeclKind) ScopeKind {
	switch k {
	case ast.DeclClass:
		return ScopeClass
	case ast.DeclInterface:
		return ScopeInterface
	case ast.DeclFn:
		return ScopeFunction
	case ast.DeclVar:
		return ScopeInvalid
	default:
		return ScopeInvalid
	}
}
