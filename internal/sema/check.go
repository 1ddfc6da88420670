package sema

import (
	"context"
	"fmt"

	"decaf/internal/ast"
	"decaf/internal/diag"
	"decaf/internal/source"
	"decaf/internal/symbols"
	"decaf/internal/trace"
	"decaf/internal/types"
)

// BodyChecker analyzes function bodies. Declaration analysis hands every
// attached body over together with the scope holding the formals.
type BodyChecker interface {
	CheckBody(fn ast.DeclID, body ast.StmtID, scope *symbols.Scope)
}

// Options configure a semantic pass over a file.
type Options struct {
	Reporter diag.Reporter
	// Registry resolves top-level names. When nil, Check collects the
	// file's globals itself and reports top-level conflicts.
	Registry symbols.Registry
	Types    *types.Interner
	Bodies   BodyChecker
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	Scopes   *symbols.Table
	Types    *types.Interner
	Oracle   *Oracle
	Registry symbols.Registry
}

// Check resolves the declarations of fileID: it populates one scope table
// per class, interface and function and reports conflicts, override
// mismatches, unimplemented interfaces and undeclared names.
func Check(ctx context.Context, builder *ast.Builder, fileID ast.FileID, opts Options) Result {
	if builder == nil {
		panic(fmt.Errorf("sema: nil builder"))
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	res := Result{Types: opts.Types, Registry: opts.Registry}
	if res.Types == nil {
		res.Types = types.NewInterner(builder.Strings)
	}
	if res.Registry == nil {
		res.Registry = symbols.CollectGlobals(builder, fileID, reporter)
	}
	res.Scopes = symbols.NewTable(symbols.Hints{}, builder)

	low := newLowering(builder, res.Types)
	res.Oracle = &Oracle{decls: builder.Decls, registry: res.Registry, low: low}

	file := builder.Files.Get(fileID)
	if file == nil {
		return res
	}

	span, ctx := trace.StartSpan(ctx, trace.ScopePass, "sema")
	defer span.End("")

	tc := typeChecker{
		builder:  builder,
		decls:    builder.Decls,
		reporter: reporter,
		registry: res.Registry,
		table:    res.Scopes,
		types:    res.Types,
		low:      low,
		bodies:   opts.Bodies,
		tracer:   trace.FromContext(ctx),
		parent:   span.ID(),
	}
	for _, id := range file.Decls {
		if ctx.Err() != nil {
			break
		}
		tc.analyze(id)
	}
	span.WithExtra("decls", fmt.Sprint(len(file.Decls)))
	return res
}

type typeChecker struct {
	builder  *ast.Builder
	decls    *ast.Decls
	reporter diag.Reporter
	registry symbols.Registry
	table    *symbols.Table
	types    *types.Interner
	low      *lowering
	bodies   BodyChecker

	tracer trace.Tracer
	parent uint64
}

// analyze dispatches on the declaration kind.
func (tc *typeChecker) analyze(id ast.DeclID) {
	decl := tc.decls.Get(id)
	if decl == nil {
		panic(fmt.Errorf("sema: unknown decl %d", id))
	}

	span := trace.Begin(tc.tracer, trace.ScopeNode, decl.Kind.String()+" "+tc.name(id), tc.parent)
	saved := tc.parent
	tc.parent = span.ID()
	defer func() {
		tc.parent = saved
		span.End("")
	}()

	switch decl.Kind {
	case ast.DeclVar:
		tc.checkVar(id)
	case ast.DeclFn:
		tc.checkFn(id)
	case ast.DeclInterface:
		tc.checkInterface(id)
	case ast.DeclClass:
		tc.checkClass(id)
	default:
		panic(fmt.Errorf("sema: unexpected decl kind %s", decl.Kind))
	}
}

// enter inserts member into scope or reports it against the earlier
// entry of the same name.
func (tc *typeChecker) enter(scope *symbols.Scope, member ast.DeclID) {
	name := tc.decls.Get(member).Name.Name
	if scope.Enter(name, member) {
		return
	}
	prev, _ := scope.Lookup(name)
	tc.reportConflict(member, prev)
}

func (tc *typeChecker) name(id ast.DeclID) string {
	return tc.builder.Name(id)
}

func (tc *typeChecker) lookupString(id source.StringID) string {
	s, _ := tc.builder.Strings.Lookup(id)
	return s
}

func (tc *typeChecker) point(name, detail string) {
	trace.Point(tc.tracer, trace.ScopeNode, name, detail, tc.parent)
}
