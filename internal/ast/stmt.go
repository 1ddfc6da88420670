package ast

import (
	"decaf/internal/source"
)

type StmtKind uint8

const (
	StmtBlock StmtKind = iota
)

// Stmt is an opaque statement node. Statement contents are checked by a
// later phase; declaration analysis only needs to know a body exists.
type Stmt struct {
	Kind     StmtKind
	Span     source.Span
	Children []StmtID
}

type Stmts struct {
	Arena *Arena[Stmt]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{
		Arena: NewArena[Stmt](capHint),
	}
}

func (s *Stmts) NewBlock(span source.Span, children []StmtID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:     StmtBlock,
		Span:     span,
		Children: children,
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}
