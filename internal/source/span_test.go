package source

import "testing"

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name  string
		a, b  Span
		want  Span
	}{
		{"disjoint", Span{File: 1, Start: 2, End: 4}, Span{File: 1, Start: 8, End: 10}, Span{File: 1, Start: 2, End: 10}},
		{"nested", Span{File: 1, Start: 0, End: 10}, Span{File: 1, Start: 3, End: 4}, Span{File: 1, Start: 0, End: 10}},
		{"other file", Span{File: 1, Start: 2, End: 4}, Span{File: 2, Start: 0, End: 9}, Span{File: 1, Start: 2, End: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.want {
				t.Errorf("Cover() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSpanLenAndEmpty(t *testing.T) {
	s := Span{Start: 5, End: 9}
	if s.Len() != 4 || s.Empty() {
		t.Fatalf("unexpected len/empty for %v", s)
	}
	if !(Span{Start: 3, End: 3}).Empty() {
		t.Fatalf("zero-length span must be empty")
	}
	if (Span{Start: 7, End: 3}).Len() != 0 {
		t.Fatalf("inverted span must have zero length")
	}
}

func TestSpanContains(t *testing.T) {
	outer := Span{File: 0, Start: 0, End: 20}
	if !outer.Contains(Span{File: 0, Start: 4, End: 20}) {
		t.Fatalf("expected containment")
	}
	if outer.Contains(Span{File: 1, Start: 4, End: 5}) {
		t.Fatalf("spans from different files must not contain each other")
	}
}
