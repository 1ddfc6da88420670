package ast

import (
	"fmt"

	"decaf/internal/source"
)

// DeclKind is the closed set of declaration variants.
type DeclKind uint8

const (
	DeclVar DeclKind = iota
	DeclClass
	DeclInterface
	DeclFn
)

func (k DeclKind) String() string {
	switch k {
	case DeclVar:
		return "variable"
	case DeclClass:
		return "class"
	case DeclInterface:
		return "interface"
	case DeclFn:
		return "function"
	default:
		return fmt.Sprintf("DeclKind(%d)", uint8(k))
	}
}

// Ident is a name with its location. Decl is a non-owning link to the
// declaration the name resolves to; declaration analysis leaves it unset.
type Ident struct {
	Name source.StringID
	Span source.Span
	Decl DeclID
}

// Decl is the common header of every declaration. Payload indexes the
// arena selected by Kind.
type Decl struct {
	Kind    DeclKind
	Name    Ident
	Span    source.Span
	Parent  DeclID
	Payload PayloadID
}

type VarDecl struct {
	Type TypeID
}

type ClassDecl struct {
	Extends    TypeID // NoTypeID for a hierarchy root
	Implements []TypeID
	Members    []DeclID
}

type InterfaceDecl struct {
	Members []DeclID // function prototypes only
}

type Decls struct {
	Arena      *Arena[Decl]
	Vars       *Arena[VarDecl]
	Classes    *Arena[ClassDecl]
	Interfaces *Arena[InterfaceDecl]
	Fns        *Arena[FnDecl]
}

func NewDecls(capHint uint) *Decls {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Decls{
		Arena:      NewArena[Decl](capHint),
		Vars:       NewArena[VarDecl](capHint),
		Classes:    NewArena[ClassDecl](capHint >> 2),
		Interfaces: NewArena[InterfaceDecl](capHint >> 3),
		Fns:        NewArena[FnDecl](capHint >> 1),
	}
}

func (d *Decls) Get(id DeclID) *Decl {
	return d.Arena.Get(uint32(id))
}

// Len returns the number of allocated declarations; valid ids are 1..Len.
func (d *Decls) Len() uint32 {
	return d.Arena.Len()
}

func (d *Decls) new(kind DeclKind, name Ident, span source.Span, payload PayloadID) DeclID {
	return DeclID(d.Arena.Allocate(Decl{
		Kind:    kind,
		Name:    name,
		Span:    span,
		Payload: payload,
	}))
}

// adopt links children to parent. A node may be adopted only once.
func (d *Decls) adopt(parent DeclID, children []DeclID) {
	for _, child := range children {
		node := d.Get(child)
		if node == nil {
			panic(fmt.Errorf("decl %d: unknown child %d", parent, child))
		}
		if node.Parent.IsValid() {
			panic(fmt.Errorf("decl %d already owned by %d", child, node.Parent))
		}
		node.Parent = parent
	}
}

func (d *Decls) NewVar(name Ident, typ TypeID, span source.Span) DeclID {
	if !typ.IsValid() {
		panic("variable declaration without type")
	}
	payload := PayloadID(d.Vars.Allocate(VarDecl{Type: typ}))
	return d.new(DeclVar, name, span, payload)
}

func (d *Decls) NewClass(name Ident, extends TypeID, implements []TypeID, members []DeclID, span source.Span) DeclID {
	payload := PayloadID(d.Classes.Allocate(ClassDecl{
		Extends:    extends,
		Implements: implements,
		Members:    members,
	}))
	id := d.new(DeclClass, name, span, payload)
	d.adopt(id, members)
	return id
}

// NewInterface panics if a member is not a function prototype.
func (d *Decls) NewInterface(name Ident, members []DeclID, span source.Span) DeclID {
	for _, m := range members {
		fn, ok := d.Fn(m)
		if !ok || !fn.Prototype {
			panic(fmt.Errorf("interface member %d is not a function prototype", m))
		}
	}
	payload := PayloadID(d.Interfaces.Allocate(InterfaceDecl{Members: members}))
	id := d.new(DeclInterface, name, span, payload)
	d.adopt(id, members)
	return id
}

func (d *Decls) Var(id DeclID) (*VarDecl, bool) {
	decl := d.Get(id)
	if decl == nil || decl.Kind != DeclVar {
		return nil, false
	}
	return d.Vars.Get(uint32(decl.Payload)), true
}

func (d *Decls) Class(id DeclID) (*ClassDecl, bool) {
	decl := d.Get(id)
	if decl == nil || decl.Kind != DeclClass {
		return nil, false
	}
	return d.Classes.Get(uint32(decl.Payload)), true
}

func (d *Decls) Interface(id DeclID) (*InterfaceDecl, bool) {
	decl := d.Get(id)
	if decl == nil || decl.Kind != DeclInterface {
		return nil, false
	}
	return d.Interfaces.Get(uint32(decl.Payload)), true
}

// Children returns the declarations owned by id: class and interface
// members, or function formals.
func (d *Decls) Children(id DeclID) []DeclID {
	decl := d.Get(id)
	if decl == nil {
		return nil
	}
	switch decl.Kind {
	case DeclClass:
		return d.Classes.Get(uint32(decl.Payload)).Members
	case DeclInterface:
		return d.Interfaces.Get(uint32(decl.Payload)).Members
	case DeclFn:
		return d.Fns.Get(uint32(decl.Payload)).Formals
	case DeclVar:
		return nil
	default:
		return nil
	}
}
