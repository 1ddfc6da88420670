package ast

import (
	"fmt"

	"decaf/internal/source"
)

// FnState tracks two-phase construction: the signature exists before the
// body has been parsed.
type FnState uint8

const (
	FnSignatureOnly FnState = iota
	FnComplete
)

func (s FnState) String() string {
	switch s {
	case FnSignatureOnly:
		return "signature-only"
	case FnComplete:
		return "complete"
	default:
		return fmt.Sprintf("FnState(%d)", uint8(s))
	}
}

type FnDecl struct {
	Result    TypeID
	Formals   []DeclID
	Body      StmtID
	State     FnState
	Prototype bool // declared without a body, e.g. an interface member
}

// NewFn creates a function whose body is attached later with AttachBody.
func (d *Decls) NewFn(name Ident, result TypeID, formals []DeclID, span source.Span) DeclID {
	return d.newFn(name, result, formals, span, FnSignatureOnly, false)
}

// NewPrototype creates a bodiless function that is complete on construction.
func (d *Decls) NewPrototype(name Ident, result TypeID, formals []DeclID, span source.Span) DeclID {
	return d.newFn(name, result, formals, span, FnComplete, true)
}

func (d *Decls) newFn(name Ident, result TypeID, formals []DeclID, span source.Span, state FnState, proto bool) DeclID {
	if !result.IsValid() {
		panic("function declaration without result type")
	}
	for _, f := range formals {
		if formal := d.Get(f); formal == nil || formal.Kind != DeclVar {
			panic(fmt.Errorf("formal %d is not a variable declaration", f))
		}
	}
	payload := PayloadID(d.Fns.Allocate(FnDecl{
		Result:    result,
		Formals:   formals,
		State:     state,
		Prototype: proto,
	}))
	id := d.new(DeclFn, name, span, payload)
	d.adopt(id, formals)
	return id
}

// AttachBody moves a function from FnSignatureOnly to FnComplete. It is the
// only transition of the state machine; any other use panics.
func (d *Decls) AttachBody(id DeclID, body StmtID) {
	fn, ok := d.Fn(id)
	if !ok {
		panic(fmt.Errorf("attach body: decl %d is not a function", id))
	}
	if fn.State != FnSignatureOnly {
		panic(fmt.Errorf("attach body: function %d is already %s", id, fn.State))
	}
	if !body.IsValid() {
		panic(fmt.Errorf("attach body: function %d got an empty body", id))
	}
	fn.Body = body
	fn.State = FnComplete
}

func (d *Decls) Fn(id DeclID) (*FnDecl, bool) {
	decl := d.Get(id)
	if decl == nil || decl.Kind != DeclFn {
		return nil, false
	}
	return d.Fns.Get(uint32(decl.Payload)), true
}
