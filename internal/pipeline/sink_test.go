package pipeline

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestDisplayFiles(t *testing.T) {
	base := t.TempDir()
	files := []string{
		filepath.Join(base, "b.yaml"),
		filepath.Join(base, "a", "z.yaml"),
		filepath.Join(base, "b.yaml"),
		"",
	}
	got := DisplayFiles(files, base)
	want := []string{"a/z.yaml", "b.yaml"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DisplayFiles = %v, want %v", got, want)
	}
}

func TestRecordingSinkAndQueued(t *testing.T) {
	var sink RecordingSink
	EmitQueued(&sink, []string{"a.yaml", "b.yaml"})
	Emit(nil, Event{File: "ignored"})
	events := sink.Events()
	if len(events) != 2 || events[1].File != "b.yaml" || events[0].Status != StatusQueued {
		t.Fatalf("events = %+v", events)
	}
}

func TestTimingsAccumulate(t *testing.T) {
	var tm Timings
	tm.Add(StageSema, time.Millisecond)
	tm.Add(StageSema, 2*time.Millisecond)
	tm.Add(StageLoad, time.Millisecond)
	if !tm.Has(StageSema) || tm.Has(StageCache) {
		t.Fatalf("Has mismatch")
	}
	if got := tm.Sum(Stages...); got != 4*time.Millisecond {
		t.Fatalf("Sum = %v", got)
	}
}

func TestMultiSinkAndTimingSink(t *testing.T) {
	var rec RecordingSink
	var timing TimingSink
	sink := MultiSink{&rec, nil, &timing}

	sink.OnEvent(Event{File: "a.yaml", Stage: StageLoad, Status: StatusWorking})
	sink.OnEvent(Event{File: "a.yaml", Stage: StageLoad, Status: StatusDone, Elapsed: 2 * time.Millisecond})
	sink.OnEvent(Event{File: "b.yaml", Stage: StageLoad, Status: StatusDone, Elapsed: 3 * time.Millisecond})
	sink.OnEvent(Event{File: "a.yaml", Stage: StageSema, Status: StatusError, Elapsed: time.Millisecond})
	sink.OnEvent(Event{File: "a.yaml", Status: StatusDone, Elapsed: time.Second})

	if len(rec.Events()) != 5 {
		t.Fatalf("recording sink missed events: %d", len(rec.Events()))
	}
	tm := timing.Timings()
	if tm.Duration(StageLoad) != 5*time.Millisecond || tm.Duration(StageSema) != time.Millisecond {
		t.Fatalf("timings = load %v, sema %v", tm.Duration(StageLoad), tm.Duration(StageSema))
	}
	if tm.Has("") {
		t.Fatalf("file-level events must not be timed")
	}
}
