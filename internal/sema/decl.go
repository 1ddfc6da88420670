package sema

import (
	"fmt"

	"decaf/internal/ast"
	"decaf/internal/diag"
	"decaf/internal/symbols"
)

func (tc *typeChecker) checkVar(id ast.DeclID) {
	v, _ := tc.decls.Var(id)
	tc.validateType(v.Type)
}

// checkFn enters each formal into the function scope and validates it right
// away, then passes the body on. Only complete functions may be analyzed.
func (tc *typeChecker) checkFn(id ast.DeclID) {
	fn, _ := tc.decls.Fn(id)
	if fn.State != ast.FnComplete {
		panic(fmt.Errorf("sema: function %q analyzed in state %s", tc.name(id), fn.State))
	}
	scope := tc.table.Begin(id)
	for _, formal := range fn.Formals {
		name := tc.decls.Get(formal).Name.Name
		if !scope.Enter(name, formal) {
			prev, _ := scope.Lookup(name)
			tc.reportConflict(formal, prev)
			continue
		}
		tc.analyze(formal)
	}
	tc.validateType(fn.Result)
	if fn.Body.IsValid() && tc.bodies != nil {
		tc.bodies.CheckBody(id, fn.Body, scope)
	}
}

// checkInterface enters the prototypes; they own scopes of their own but
// are not analyzed further.
func (tc *typeChecker) checkInterface(id ast.DeclID) {
	iface, _ := tc.decls.Interface(id)
	scope := tc.table.Begin(id)
	for _, member := range iface.Members {
		tc.enter(scope, member)
	}
}

func (tc *typeChecker) checkClass(id ast.DeclID) {
	cls, _ := tc.decls.Class(id)
	scope := tc.table.Begin(id)

	// the class resolves its own name first, so a member that repeats it
	// conflicts with the class itself
	scope.Enter(tc.decls.Get(id).Name.Name, id)
	for _, member := range cls.Members {
		tc.enter(scope, member)
	}
	tc.inherit(id, cls, scope)
	for _, implemented := range cls.Implements {
		tc.conform(id, implemented, scope)
	}
	for _, member := range cls.Members {
		tc.analyze(member)
	}
}

// inherit climbs the extends chain and merges every ancestor's own members
// into scope. Earlier entries always shadow later ones.
func (tc *typeChecker) inherit(id ast.DeclID, cls *ast.ClassDecl, scope *symbols.Scope) {
	visited := map[ast.DeclID]struct{}{id: {}}
	ext := cls.Extends
	for ext.IsValid() {
		ident, ok := tc.builder.Types.Named(ext)
		if !ok {
			return
		}
		baseID, found := tc.registry.Lookup(ident.Name)
		if !found {
			tc.reportNotDeclared(ident, diag.LookingForClass)
			return
		}
		base, isClass := tc.decls.Class(baseID)
		if !isClass {
			tc.point("extends_stop", "not a class: "+tc.name(baseID))
			return
		}
		if _, seen := visited[baseID]; seen {
			tc.point("extends_stop", "cycle at "+tc.name(baseID))
			return
		}
		visited[baseID] = struct{}{}

		queued := make([]ast.DeclID, 0, len(base.Members))
		for _, member := range base.Members {
			entry, exists := scope.Lookup(tc.decls.Get(member).Name.Name)
			if !exists {
				queued = append(queued, member)
				continue
			}
			tc.checkInherited(entry, member)
		}
		for _, member := range queued {
			scope.Enter(tc.decls.Get(member).Name.Name, member)
		}
		ext = base.Extends
	}
}

// checkInherited compares the table entry with the ancestor member it
// shadows. Only a function may override a function.
func (tc *typeChecker) checkInherited(entry, inherited ast.DeclID) {
	entryKind := tc.decls.Get(entry).Kind
	inheritedKind := tc.decls.Get(inherited).Kind
	if inheritedKind == ast.DeclVar || entryKind != inheritedKind {
		tc.reportConflict(entry, inherited)
		return
	}
	if !tc.low.sameSignature(entry, inherited) {
		tc.reportOverride(entry, inherited)
	}
}

// conform checks that scope provides every method of the implemented
// interface with a matching signature.
func (tc *typeChecker) conform(class ast.DeclID, implemented ast.TypeID, scope *symbols.Scope) {
	ident, ok := tc.builder.Types.Named(implemented)
	if !ok {
		return
	}
	target, found := tc.registry.Lookup(ident.Name)
	iface, isIface := tc.decls.Interface(target)
	if !found || !isIface {
		tc.reportNotDeclared(ident, diag.LookingForInterface)
		return
	}
	for _, method := range iface.Members {
		entry, exists := scope.Lookup(tc.decls.Get(method).Name.Name)
		switch {
		case !exists:
			tc.reportNotImplemented(class, ident, method)
		case tc.decls.Get(entry).Kind != ast.DeclFn:
			tc.reportConflict(method, entry)
		case !tc.low.sameSignature(entry, method):
			tc.reportOverride(entry, method)
		}
	}
}
