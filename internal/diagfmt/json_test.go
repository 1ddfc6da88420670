package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"decaf/internal/diag"
	"decaf/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("dog.yaml", []byte(sample))

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	}
	if err := JSON(&buf, sampleBag(fileID), fs, opts, nil); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	// Парсим JSON чтобы убедиться что он валидный
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %+v", output)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "SEM3005" || d.Title != "Identifier not declared" {
		t.Errorf("unexpected header: %+v", d)
	}
	loc := d.Location
	if loc.File != "dog.yaml" || loc.StartByte != 35 || loc.EndByte != 41 {
		t.Errorf("unexpected location: %+v", loc)
	}
	if loc.StartLine != 3 || loc.StartCol != 14 || loc.EndLine != 3 || loc.EndCol != 20 {
		t.Errorf("unexpected positions: %+v", loc)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartLine != 2 {
		t.Errorf("unexpected notes: %+v", d.Notes)
	}
	if output.Scopes != nil {
		t.Errorf("scopes must be omitted by default")
	}
}

func TestJSONWithoutPositionsOrNotes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("dog.yaml", []byte(sample))

	output := BuildDiagnosticsOutput(sampleBag(fileID), fs, JSONOpts{PathMode: PathModeBasename}, nil)
	d := output.Diagnostics[0]
	if d.Location.StartLine != 0 || d.Location.StartCol != 0 {
		t.Errorf("positions must be omitted: %+v", d.Location)
	}
	if d.Notes != nil {
		t.Errorf("notes must be omitted: %+v", d.Notes)
	}

	var buf bytes.Buffer
	if err := JSON(&buf, sampleBag(fileID), fs, JSONOpts{}, nil); err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(buf.Bytes(), []byte("start_line")) {
		t.Errorf("start_line must be omitted:\n%s", buf.String())
	}
}

// TestJSONMaxLimit проверяет ограничение количества диагностик
func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("dog.yaml", []byte(sample))

	bag := diag.NewBag(10)
	for i := 0; i < 5; i++ {
		start := uint32(i) // #nosec G115
		bag.Add(diag.New(diag.SevWarning, diag.SynManifestDecode, source.Span{File: fileID, Start: start, End: start + 1}, "warning"))
	}

	output := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 3}, nil)
	if output.Count != 3 || len(output.Diagnostics) != 3 {
		t.Fatalf("Expected 3 diagnostics, got %d", output.Count)
	}
}

func TestJSONTimingNotesAlwaysIncluded(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("dog.yaml", []byte(sample))

	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{File: fileID}, "timings").
		WithNote(source.Span{File: fileID}, `{"kind":"file"}`))

	output := BuildDiagnosticsOutput(bag, fs, JSONOpts{}, nil)
	if len(output.Diagnostics[0].Notes) != 1 {
		t.Fatalf("timing payload must survive without IncludeNotes")
	}
}
