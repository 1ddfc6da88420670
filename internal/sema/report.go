package sema

import (
	"fmt"

	"decaf/internal/ast"
	"decaf/internal/diag"
	"decaf/internal/source"
)

func (tc *typeChecker) report(code diag.Code, span source.Span, format string, args ...interface{}) {
	if tc.reporter == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if b := diag.ReportError(tc.reporter, code, span, msg); b != nil {
		b.Emit()
	}
}

// reportConflict reports that decl collides with prev, which was seen first.
func (tc *typeChecker) reportConflict(decl, prev ast.DeclID) {
	cur := tc.decls.Get(decl)
	old := tc.decls.Get(prev)
	msg := fmt.Sprintf("declaration of '%s' conflicts with previous %s declaration", tc.name(decl), old.Kind)
	if b := diag.ReportError(tc.reporter, diag.SemaDeclConflict, cur.Name.Span, msg); b != nil {
		b.WithNote(old.Name.Span, "previous declaration here").Emit()
	}
}

// reportOverride reports that fn disagrees with the signature of the
// inherited or required declaration base.
func (tc *typeChecker) reportOverride(fn, base ast.DeclID) {
	cur := tc.decls.Get(fn)
	msg := fmt.Sprintf("method '%s' must match inherited type signature", tc.name(fn))
	b := diag.ReportError(tc.reporter, diag.SemaOverrideMismatch, cur.Name.Span, msg)
	if b == nil {
		return
	}
	if want, ok := tc.low.signature(base); ok {
		b.WithNote(tc.decls.Get(base).Name.Span, "overridden declaration here: "+tc.types.SignatureLabel(want))
	}
	b.Emit()
}

func (tc *typeChecker) reportNotDeclared(ident ast.Ident, kind diag.LookupKind) {
	tc.report(diag.SemaIdentifierNotDeclared, ident.Span, "no declaration found for %s '%s'", kind, tc.lookupString(ident.Name))
}

// reportNotImplemented names one interface method the class is missing.
func (tc *typeChecker) reportNotImplemented(class ast.DeclID, iface ast.Ident, method ast.DeclID) {
	msg := fmt.Sprintf("class '%s' does not implement entire interface '%s': missing '%s'",
		tc.name(class), tc.lookupString(iface.Name), tc.name(method))
	if b := diag.ReportError(tc.reporter, diag.SemaInterfaceNotImplemented, iface.Span, msg); b != nil {
		b.WithNote(tc.decls.Get(method).Name.Span, "required method declared here").Emit()
	}
}
