package sema

import (
	"fmt"

	"decaf/internal/ast"
	"decaf/internal/diag"
	"decaf/internal/types"
)

// lowering maps syntactic types onto interned semantic types and caches
// function signatures. It is shared by the checker and the Oracle.
type lowering struct {
	builder *ast.Builder
	types   *types.Interner
	lowered map[ast.TypeID]types.TypeID
	sigs    map[ast.DeclID]types.Signature
}

func newLowering(builder *ast.Builder, in *types.Interner) *lowering {
	return &lowering{
		builder: builder,
		types:   in,
		lowered: make(map[ast.TypeID]types.TypeID),
		sigs:    make(map[ast.DeclID]types.Signature),
	}
}

// lowerType interns the semantic form of id. A missing type lowers to the
// error sentinel so that it compares equal to everything.
func (l *lowering) lowerType(id ast.TypeID) types.TypeID {
	if got, ok := l.lowered[id]; ok {
		return got
	}
	builtins := l.types.Builtins()
	out := builtins.Error
	if expr := l.builder.Types.Get(id); expr != nil {
		switch expr.Kind {
		case ast.TypeExprPrimitive:
			out = primType(builtins, expr.Prim)
		case ast.TypeExprNamed:
			out = l.types.Named(expr.Name.Name)
		case ast.TypeExprArray:
			out = l.types.Array(l.lowerType(expr.Elem))
		default:
			panic(fmt.Errorf("sema: unexpected type expr kind %d", expr.Kind))
		}
	}
	l.lowered[id] = out
	return out
}

func primType(b types.Builtins, p ast.PrimKind) types.TypeID {
	switch p {
	case ast.PrimInt:
		return b.Int
	case ast.PrimDouble:
		return b.Double
	case ast.PrimBool:
		return b.Bool
	case ast.PrimVoid:
		return b.Void
	case ast.PrimNull:
		return b.Null
	case ast.PrimString:
		return b.String
	default:
		return b.Error
	}
}

// signature returns the comparable shape of fn; ok is false when fn is not
// a function.
func (l *lowering) signature(fn ast.DeclID) (types.Signature, bool) {
	if sig, ok := l.sigs[fn]; ok {
		return sig, true
	}
	payload, ok := l.builder.Decls.Fn(fn)
	if !ok {
		return types.Signature{}, false
	}
	sig := types.Signature{
		Name:   l.builder.Decls.Get(fn).Name.Name,
		Result: l.lowerType(payload.Result),
		Params: make([]types.TypeID, 0, len(payload.Formals)),
	}
	for _, formal := range payload.Formals {
		v, _ := l.builder.Decls.Var(formal)
		sig.Params = append(sig.Params, l.lowerType(v.Type))
	}
	l.sigs[fn] = sig
	return sig, true
}

// sameSignature reports whether a and b are both functions with matching
// signatures.
func (l *lowering) sameSignature(a, b ast.DeclID) bool {
	sa, okA := l.signature(a)
	sb, okB := l.signature(b)
	return okA && okB && l.types.SameSignature(sa, sb)
}

// validateType reports named types that do not resolve to a class or an
// interface. Array types are checked through their element.
func (tc *typeChecker) validateType(id ast.TypeID) {
	expr := tc.builder.Types.Get(id)
	if expr == nil {
		return
	}
	switch expr.Kind {
	case ast.TypeExprArray:
		tc.validateType(expr.Elem)
	case ast.TypeExprNamed:
		target, ok := tc.registry.Lookup(expr.Name.Name)
		if ok {
			kind := tc.decls.Get(target).Kind
			if kind == ast.DeclClass || kind == ast.DeclInterface {
				return
			}
		}
		tc.reportNotDeclared(expr.Name, diag.LookingForType)
	}
}
