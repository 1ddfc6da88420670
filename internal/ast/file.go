package ast

import (
	"decaf/internal/source"
)

// File is the root of one program: its top-level declarations in source order.
type File struct {
	Span  source.Span
	Decls []DeclID
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{
		Arena: NewArena[File](capHint),
	}
}

func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{
		Span:  sp,
		Decls: make([]DeclID, 0),
	}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
