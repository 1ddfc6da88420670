package types

import (
	"testing"

	"decaf/internal/source"
)

func TestSameTypeTable(t *testing.T) {
	strs := source.NewInterner()
	in := NewInterner(strs)
	b := in.Builtins()
	a := in.Named(strs.Intern("A"))
	bb := in.Named(strs.Intern("B"))

	tests := []struct {
		name string
		x, y TypeID
		want bool
	}{
		{"int[] vs int[]", in.Array(b.Int), in.Array(b.Int), true},
		{"int[] vs double[]", in.Array(b.Int), in.Array(b.Double), false},
		{"A vs B", a, bb, false},
		{"A vs A", a, in.Named(strs.Intern("A")), true},
		{"int vs int", b.Int, b.Int, true},
		{"int vs double", b.Int, b.Double, false},
		{"named vs array", a, in.Array(a), false},
		{"array vs primitive", in.Array(b.Int), b.Int, false},
		{"null vs A", b.Null, a, false},
		{"error vs int", b.Error, b.Int, true},
		{"A vs error", a, b.Error, true},
		{"error vs int[][]", b.Error, in.Array(in.Array(b.Int)), true},
		{"error[] vs string[]", in.Array(b.Error), in.Array(b.String), true},
		{"int[][] vs int[]", in.Array(in.Array(b.Int)), in.Array(b.Int), false},
		{"invalid vs int", NoTypeID, b.Int, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := in.SameType(tt.x, tt.y); got != tt.want {
				t.Fatalf("SameType(%s, %s) = %v, want %v", in.Label(tt.x), in.Label(tt.y), got, tt.want)
			}
			if got := in.SameType(tt.y, tt.x); got != tt.want {
				t.Fatalf("SameType must be symmetric for %s", tt.name)
			}
		})
	}
}

func TestSameSignature(t *testing.T) {
	strs := source.NewInterner()
	in := NewInterner(strs)
	b := in.Builtins()
	speak := strs.Intern("speak")

	base := Signature{Name: speak, Result: b.Void, Params: []TypeID{b.Bool}}
	tests := []struct {
		name  string
		other Signature
		want  bool
	}{
		{"identical", Signature{Name: speak, Result: b.Void, Params: []TypeID{b.Bool}}, true},
		{"other name", Signature{Name: strs.Intern("bark"), Result: b.Void, Params: []TypeID{b.Bool}}, false},
		{"other result", Signature{Name: speak, Result: b.Int, Params: []TypeID{b.Bool}}, false},
		{"other arity", Signature{Name: speak, Result: b.Void}, false},
		{"other param", Signature{Name: speak, Result: b.Void, Params: []TypeID{b.Int}}, false},
		{"error param", Signature{Name: speak, Result: b.Void, Params: []TypeID{b.Error}}, true},
	}
	for _, tt := range tests {
		if got := in.SameSignature(base, tt.other); got != tt.want {
			t.Errorf("%s: SameSignature = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestInternDeduplicates(t *testing.T) {
	strs := source.NewInterner()
	in := NewInterner(strs)
	before := in.Len()
	x := in.Array(in.Named(strs.Intern("Dog")))
	y := in.Array(in.Named(strs.Intern("Dog")))
	if x != y {
		t.Fatalf("structurally equal types must share an id")
	}
	if in.Len() != before+2 {
		t.Fatalf("expected two new types, got %d", in.Len()-before)
	}
	if in.Intern(Type{Kind: KindInvalid}) != NoTypeID {
		t.Fatalf("invalid descriptors map to NoTypeID")
	}
}

func TestLabels(t *testing.T) {
	strs := source.NewInterner()
	in := NewInterner(strs)
	b := in.Builtins()
	dogs := in.Array(in.Array(in.Named(strs.Intern("Dog"))))
	if got := in.Label(dogs); got != "Dog[][]" {
		t.Fatalf("Label = %q", got)
	}
	sig := Signature{Name: strs.Intern("feed"), Result: b.Void, Params: []TypeID{b.Int, dogs}}
	if got := in.SignatureLabel(sig); got != "void feed(int, Dog[][])" {
		t.Fatalf("SignatureLabel = %q", got)
	}
}
