package testkit

import (
	"strings"
	"testing"

	"decaf/internal/ast"
	"decaf/internal/source"
)

func TestCheckTreeInvariants(t *testing.T) {
	fs := source.NewFileSet()
	fid := fs.AddVirtual("t.yaml", []byte("class: Dog\n  fn: bark\n"))
	sf := fs.Get(fid)
	sp := func(start, end uint32) source.Span { return source.Span{File: fid, Start: start, End: end} }

	b := ast.NewBuilder(ast.Hints{}, nil)
	file := b.NewFile(sp(0, 22))
	void := b.Types.NewPrimitive(ast.PrimVoid, sp(13, 17))
	bark := b.Decls.NewFn(b.Ident("bark", sp(17, 21)), void, nil, sp(13, 21))
	b.Decls.AttachBody(bark, b.Stmts.NewBlock(sp(13, 21), nil))
	dog := b.Decls.NewClass(b.Ident("Dog", sp(7, 10)), ast.NoTypeID, nil, []ast.DeclID{bark}, sp(0, 21))
	b.PushDecl(file, dog)

	if err := CheckTreeInvariants(b, file, sf); err != nil {
		t.Fatalf("valid tree rejected: %v", err)
	}

	pending := b.Decls.NewFn(b.Ident("later", sp(0, 5)), void, nil, sp(0, 5))
	b.PushDecl(file, pending)
	err := CheckTreeInvariants(b, file, sf)
	if err == nil || !strings.Contains(err.Error(), "signature-only") {
		t.Fatalf("expected signature-only fn to be rejected, got %v", err)
	}
}

func TestCheckTreeInvariantsRejectsForeignSpans(t *testing.T) {
	fs := source.NewFileSet()
	fid := fs.AddVirtual("t.yaml", []byte("var: x\n"))
	b := ast.NewBuilder(ast.Hints{}, nil)
	file := b.NewFile(source.Span{File: fid, Start: 0, End: 7})
	intT := b.Types.NewPrimitive(ast.PrimInt, source.Span{File: fid})
	x := b.Decls.NewVar(b.Ident("x", source.Span{File: fid + 1, Start: 5, End: 6}), intT, source.Span{File: fid + 1, Start: 0, End: 6})
	b.PushDecl(file, x)

	if err := CheckTreeInvariants(b, file, fs.Get(fid)); err == nil {
		t.Fatalf("expected span file mismatch")
	}
}
