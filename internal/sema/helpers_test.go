package sema

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"decaf/internal/ast"
	"decaf/internal/diag"
	"decaf/internal/source"
)

// fixture builds declaration trees the way a bottom-up parser would. Every
// identifier gets a span of its own so diagnostics can be told apart.
type fixture struct {
	t    *testing.T
	b    *ast.Builder
	file ast.FileID
	pos  uint32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := ast.NewBuilder(ast.Hints{}, nil)
	return &fixture{t: t, b: b, file: b.NewFile(source.Span{})}
}

func (f *fixture) span() source.Span {
	start := f.pos
	f.pos += 10
	return source.Span{Start: start, End: start + 5}
}

func (f *fixture) ident(name string) ast.Ident {
	return f.b.Ident(name, f.span())
}

func (f *fixture) prim(p ast.PrimKind) ast.TypeID {
	return f.b.Types.NewPrimitive(p, f.span())
}

func (f *fixture) named(name string) ast.TypeID {
	return f.b.Types.NewNamed(f.ident(name))
}

func (f *fixture) array(elem ast.TypeID) ast.TypeID {
	return f.b.Types.NewArray(elem, f.span())
}

func (f *fixture) field(name string, typ ast.TypeID) ast.DeclID {
	return f.b.Decls.NewVar(f.ident(name), typ, f.span())
}

// method declares a function with an attached body.
func (f *fixture) method(name string, result ast.TypeID, formals ...ast.DeclID) ast.DeclID {
	fn := f.b.Decls.NewFn(f.ident(name), result, formals, f.span())
	f.b.Decls.AttachBody(fn, f.b.Stmts.NewBlock(f.span(), nil))
	return fn
}

func (f *fixture) proto(name string, result ast.TypeID, formals ...ast.DeclID) ast.DeclID {
	return f.b.Decls.NewPrototype(f.ident(name), result, formals, f.span())
}

// class declares a top-level class; extends may be empty.
func (f *fixture) class(name, extends string, implements []string, members ...ast.DeclID) ast.DeclID {
	ext := ast.NoTypeID
	if extends != "" {
		ext = f.named(extends)
	}
	impls := make([]ast.TypeID, 0, len(implements))
	for _, iface := range implements {
		impls = append(impls, f.named(iface))
	}
	id := f.b.Decls.NewClass(f.ident(name), ext, impls, members, f.span())
	f.b.PushDecl(f.file, id)
	return id
}

func (f *fixture) iface(name string, members ...ast.DeclID) ast.DeclID {
	id := f.b.Decls.NewInterface(f.ident(name), members, f.span())
	f.b.PushDecl(f.file, id)
	return id
}

func (f *fixture) top(decl ast.DeclID) ast.DeclID {
	f.b.PushDecl(f.file, decl)
	return decl
}

func (f *fixture) check(opts Options) (Result, *diag.Bag) {
	f.t.Helper()
	bag := diag.NewBag(0)
	if opts.Reporter == nil {
		opts.Reporter = diag.BagReporter{Bag: bag}
	}
	res := Check(context.Background(), f.b, f.file, opts)
	return res, bag
}

// scopeNames lists the names entered into decl's scope in insertion order.
func (f *fixture) scopeNames(res Result, decl ast.DeclID) []string {
	f.t.Helper()
	scope, ok := res.Scopes.ScopeOf(decl)
	if !ok {
		f.t.Fatalf("decl %d owns no scope", decl)
	}
	names := make([]string, 0, scope.Len())
	for _, e := range scope.Entries() {
		names = append(names, f.b.Strings.MustLookup(e.Name))
	}
	return names
}

func (f *fixture) lookup(res Result, owner ast.DeclID, name string) ast.DeclID {
	f.t.Helper()
	scope, _ := res.Scopes.ScopeOf(owner)
	id, ok := scope.Lookup(f.b.Strings.Intern(name))
	if !ok {
		f.t.Fatalf("%q not found in scope of %s", name, f.b.Name(owner))
	}
	return id
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	return bag.Count(code) > 0
}

func countCode(bag *diag.Bag, code diag.Code) int {
	return bag.Count(code)
}

func diagnosticsSummary(bag *diag.Bag) string {
	var sb strings.Builder
	for _, d := range bag.Items() {
		fmt.Fprintf(&sb, "%s@%d: %s\n", d.Code.ID(), d.Primary.Start, d.Message)
	}
	return sb.String()
}
