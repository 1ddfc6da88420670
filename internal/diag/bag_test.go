package diag

import (
	"testing"

	"decaf/internal/source"
)

func TestBagLimitAndDropped(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}
	for i := uint32(0); i < 4; i++ {
		r.Report(SemaDeclConflict, SevError, source.Span{Start: i, End: i + 1}, "dup", nil)
	}
	if bag.Len() != 2 || bag.Dropped() != 2 {
		t.Fatalf("len=%d dropped=%d", bag.Len(), bag.Dropped())
	}
	if !bag.HasErrors() {
		t.Fatalf("expected errors")
	}
}

func TestBagUnbounded(t *testing.T) {
	bag := NewBag(0)
	for i := 0; i < 300; i++ {
		bag.Add(NewError(SemaError, source.Span{}, "x"))
	}
	if bag.Len() != 300 {
		t.Fatalf("zero limit must not cap the bag, got %d", bag.Len())
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewError(SemaOverrideMismatch, source.Span{Start: 9, End: 10}, "b"))
	bag.Add(New(SevWarning, SemaError, source.Span{Start: 1, End: 2}, "w"))
	bag.Add(NewError(SemaDeclConflict, source.Span{Start: 1, End: 2}, "a"))
	bag.Add(NewError(SemaDeclConflict, source.Span{Start: 1, End: 2}, "a again"))
	bag.Sort()
	bag.Dedup()

	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items after dedup, got %d", len(items))
	}
	if items[0].Code != SemaDeclConflict || items[1].Severity != SevWarning || items[2].Code != SemaOverrideMismatch {
		t.Fatalf("unexpected order: %+v", items)
	}
	if bag.Count(SemaDeclConflict) != 1 {
		t.Fatalf("Count = %d", bag.Count(SemaDeclConflict))
	}
}

func TestDedupReporterForwardsOnce(t *testing.T) {
	bag := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: bag})
	span := source.Span{Start: 3, End: 4}
	ReportError(r, SemaDeclConflict, span, "x").WithNote(source.Span{}, "prev").Emit()
	ReportError(r, SemaDeclConflict, span, "x").Emit()
	ReportError(r, SemaDeclConflict, span, "y").Emit()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 forwarded diagnostics, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("notes lost in forwarding")
	}
	if r.Suppressed() != 1 {
		t.Fatalf("suppressed = %d, want 1", r.Suppressed())
	}
}

func TestSeverityLabels(t *testing.T) {
	tests := []struct {
		in    string
		want  Severity
		label string
	}{
		{"error", SevError, "error"},
		{"WARNING", SevWarning, "warning"},
		{" info ", SevInfo, "info"},
	}
	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if err != nil || got != tt.want {
			t.Fatalf("ParseSeverity(%q) = %v, %v", tt.in, got, err)
		}
		if got.Label() != tt.label {
			t.Fatalf("Label() = %q, want %q", got.Label(), tt.label)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Fatalf("expected error for unknown severity")
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportError(BagReporter{Bag: bag}, SemaError, source.Span{}, "once")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("Emit must be idempotent, got %d", bag.Len())
	}
}

func TestBagMerge(t *testing.T) {
	a, b := NewBag(1), NewBag(0)
	a.Add(NewError(SemaError, source.Span{}, "a"))
	b.Add(NewError(SemaError, source.Span{}, "b"))
	b.Add(NewError(SemaError, source.Span{}, "c"))
	a.Merge(b)
	if a.Len() != 3 || a.Cap() != 3 {
		t.Fatalf("merge len=%d cap=%d", a.Len(), a.Cap())
	}
}
