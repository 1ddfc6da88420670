package types

import (
	"fmt"

	"decaf/internal/source"
)

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the semantic type variants.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindDouble
	KindBool
	KindVoid
	KindNull
	KindString
	// KindError is the sentinel produced after a reported error; it is
	// equal to every type so one mistake does not cascade.
	KindError
	KindNamed
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindBool:
		return "bool"
	case KindVoid:
		return "void"
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindError:
		return "error"
	case KindNamed:
		return "named"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsPrimitive reports whether k is one of the built-in scalar kinds.
func (k Kind) IsPrimitive() bool {
	return k >= KindInt && k <= KindError
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind Kind
	Elem TypeID          // KindArray
	Name source.StringID // KindNamed
}

// MakeArray describes T[].
func MakeArray(elem TypeID) Type {
	return Type{Kind: KindArray, Elem: elem}
}

// MakeNamed describes a class or interface type by name only.
func MakeNamed(name source.StringID) Type {
	return Type{Kind: KindNamed, Name: name}
}
