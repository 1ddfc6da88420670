package sema

import (
	"reflect"
	"testing"

	"decaf/internal/ast"
	"decaf/internal/diag"
	"decaf/internal/symbols"
)

type recordingBodies struct {
	calls map[ast.DeclID][]string
	names func(*symbols.Scope) []string
}

func (r *recordingBodies) CheckBody(fn ast.DeclID, body ast.StmtID, scope *symbols.Scope) {
	if !body.IsValid() {
		panic("body checker called without a body")
	}
	r.calls[fn] = r.names(scope)
}

func TestFormalsEnteredInOrder(t *testing.T) {
	f := newFixture(t)
	fn := f.top(f.method("feed", f.prim(ast.PrimVoid),
		f.field("food", f.prim(ast.PrimString)),
		f.field("times", f.prim(ast.PrimInt)),
	))

	res, bag := f.check(Options{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", diagnosticsSummary(bag))
	}
	if got := f.scopeNames(res, fn); !reflect.DeepEqual(got, []string{"food", "times"}) {
		t.Fatalf("formals = %v", got)
	}
}

func TestDuplicateFormalNotEntered(t *testing.T) {
	f := newFixture(t)
	first := f.field("x", f.prim(ast.PrimInt))
	// the duplicate carries an undeclared type; it is never validated
	dup := f.field("x", f.named("Missing"))
	fn := f.top(f.method("g", f.prim(ast.PrimVoid), first, dup))

	res, bag := f.check(Options{})
	if countCode(bag, diag.SemaDeclConflict) != 1 || bag.Len() != 1 {
		t.Fatalf("expected only the conflict:\n%s", diagnosticsSummary(bag))
	}
	if bag.Items()[0].Primary != f.b.Decls.Get(dup).Name.Span {
		t.Fatalf("conflict must point at the later formal")
	}
	if got := f.lookup(res, fn, "x"); got != first {
		t.Fatalf("first formal must win, got %d", got)
	}
}

func TestFormalDiagnosticsInParameterOrder(t *testing.T) {
	f := newFixture(t)
	bad := f.field("a", f.named("Missing"))
	b1 := f.field("b", f.prim(ast.PrimInt))
	b2 := f.field("b", f.prim(ast.PrimInt))
	f.top(f.method("g", f.prim(ast.PrimVoid), bad, b1, b2))

	_, bag := f.check(Options{})
	var got []diag.Code
	for _, d := range bag.Items() {
		got = append(got, d.Code)
	}
	want := []diag.Code{diag.SemaIdentifierNotDeclared, diag.SemaDeclConflict}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("codes = %v, want %v\n%s", got, want, diagnosticsSummary(bag))
	}
}

func TestFormalOfUndeclaredType(t *testing.T) {
	f := newFixture(t)
	f.top(f.method("adopt", f.prim(ast.PrimVoid), f.field("pet", f.named("Pet"))))

	_, bag := f.check(Options{})
	if countCode(bag, diag.SemaIdentifierNotDeclared) != 1 {
		t.Fatalf("expected an undeclared type:\n%s", diagnosticsSummary(bag))
	}
}

func TestResultTypeValidated(t *testing.T) {
	f := newFixture(t)
	f.top(f.method("make", f.array(f.named("Widget"))))

	_, bag := f.check(Options{})
	if countCode(bag, diag.SemaIdentifierNotDeclared) != 1 {
		t.Fatalf("expected an undeclared result type:\n%s", diagnosticsSummary(bag))
	}
}

func TestNamedTypeMustDenoteClassOrInterface(t *testing.T) {
	f := newFixture(t)
	f.top(f.field("counter", f.prim(ast.PrimInt)))
	f.top(f.field("bad", f.named("counter")))

	_, bag := f.check(Options{})
	if countCode(bag, diag.SemaIdentifierNotDeclared) != 1 {
		t.Fatalf("a variable is not a type:\n%s", diagnosticsSummary(bag))
	}
}

func TestBodiesHandedOverWithFormalScope(t *testing.T) {
	f := newFixture(t)
	bodies := &recordingBodies{calls: make(map[ast.DeclID][]string)}
	bodies.names = func(s *symbols.Scope) []string {
		names := make([]string, 0, s.Len())
		for _, e := range s.Entries() {
			names = append(names, f.b.Strings.MustLookup(e.Name))
		}
		return names
	}
	speak := f.method("speak", f.prim(ast.PrimVoid), f.field("loud", f.prim(ast.PrimBool)))
	f.class("Animal", "", nil, speak)
	f.iface("Pet", f.proto("play", f.prim(ast.PrimVoid)))
	main := f.top(f.method("main", f.prim(ast.PrimVoid)))

	_, bag := f.check(Options{Bodies: bodies})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", diagnosticsSummary(bag))
	}
	if len(bodies.calls) != 2 {
		t.Fatalf("expected two bodies, got %v", bodies.calls)
	}
	if got := bodies.calls[speak]; !reflect.DeepEqual(got, []string{"loud"}) {
		t.Fatalf("speak scope = %v", got)
	}
	if got, ok := bodies.calls[main]; !ok || len(got) != 0 {
		t.Fatalf("main scope = %v, %v", got, ok)
	}
}

func TestSignatureOnlyFunctionPanics(t *testing.T) {
	f := newFixture(t)
	f.top(f.b.Decls.NewFn(f.ident("pending"), f.prim(ast.PrimVoid), nil, f.span()))

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for a function without its body")
		}
	}()
	f.check(Options{})
}

func TestPrototypeAtTopLevelIsComplete(t *testing.T) {
	f := newFixture(t)
	fn := f.top(f.proto("extern", f.prim(ast.PrimInt), f.field("n", f.prim(ast.PrimInt))))

	res, bag := f.check(Options{})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", diagnosticsSummary(bag))
	}
	if got := f.scopeNames(res, fn); !reflect.DeepEqual(got, []string{"n"}) {
		t.Fatalf("formals = %v", got)
	}
}
