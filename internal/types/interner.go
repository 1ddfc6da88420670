package types

import (
	"fmt"

	"fortio.org/safecast"

	"decaf/internal/source"
)

// Builtins stores TypeIDs for the primitive types.
type Builtins struct {
	Int    TypeID
	Double TypeID
	Bool   TypeID
	Void   TypeID
	Null   TypeID
	String TypeID
	Error  TypeID
}

// Interner provides stable TypeIDs for structurally identical descriptors,
// so two spellings of int[] or two mentions of Animal share one ID.
type Interner struct {
	Strings  *source.Interner
	types    []Type
	index    map[Type]TypeID
	builtins Builtins
}

// NewInterner constructs an interner seeded with the primitives. Names are
// rendered through strings; nil allocates a private string table.
func NewInterner(strings *source.Interner) *Interner {
	if strings == nil {
		strings = source.NewInterner()
	}
	in := &Interner{
		Strings: strings,
		types:   []Type{{Kind: KindInvalid}}, // reserve NoTypeID
		index:   make(map[Type]TypeID, 32),
	}
	in.builtins = Builtins{
		Int:    in.Intern(Type{Kind: KindInt}),
		Double: in.Intern(Type{Kind: KindDouble}),
		Bool:   in.Intern(Type{Kind: KindBool}),
		Void:   in.Intern(Type{Kind: KindVoid}),
		Null:   in.Intern(Type{Kind: KindNull}),
		String: in.Intern(Type{Kind: KindString}),
		Error:  in.Intern(Type{Kind: KindError}),
	}
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	if id, ok := in.index[t]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Array interns elem[].
func (in *Interner) Array(elem TypeID) TypeID {
	if elem == NoTypeID {
		panic("types: array of invalid type")
	}
	return in.Intern(MakeArray(elem))
}

// Named interns the named type spelled name.
func (in *Interner) Named(name source.StringID) TypeID {
	return in.Intern(MakeNamed(name))
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Len counts interned types including the NoTypeID slot.
func (in *Interner) Len() int {
	return len(in.types)
}
