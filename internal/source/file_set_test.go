package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()
	id1 := fs.Add("zoo.yaml", []byte("a"), 0)
	id2 := fs.Add("zoo.yaml", []byte("b"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	latest, ok := fs.GetLatest("zoo.yaml")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d", latest, ok, id2)
	}
	if string(fs.Get(id1).Content) != "a" {
		t.Fatalf("older version must stay reachable")
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.yaml", []byte("a\nb\n"))
	file := fs.Get(id)
	want := []uint32{1, 3}
	if len(file.LineIdx) != len(want) {
		t.Fatalf("LineIdx = %v, want %v", file.LineIdx, want)
	}
	for i := range want {
		if file.LineIdx[i] != want[i] {
			t.Fatalf("LineIdx = %v, want %v", file.LineIdx, want)
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Fatalf("expected FileVirtual flag")
	}
}

func TestResolveMultiline(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("m.yaml", []byte("ab\ncd\n\nef"))
	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // the newline itself belongs to line 1
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{9, LineCol{4, 3}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("m.yaml", []byte("class: Dog\n  extends: Animal\n"))
	f := fs.Get(id)
	for off := uint32(0); off < uint32(len(f.Content)); off++ {
		pos := toLineCol(f.LineIdx, off)
		if got := f.Offset(pos); got != off {
			t.Fatalf("offset %d -> %+v -> %d", off, pos, got)
		}
	}
	if got := f.Offset(LineCol{Line: 99, Col: 1}); got != uint32(len(f.Content)) {
		t.Fatalf("past-the-end line should clamp to file size, got %d", got)
	}
	if got := f.Offset(LineCol{Line: 1, Col: 80}); got != 10 {
		t.Fatalf("past-the-end column should clamp to line end, got %d", got)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("l.yaml", []byte("first\nsecond\nthird"))
	f := fs.Get(id)
	for n, want := range map[uint32]string{0: "", 1: "first", 2: "second", 3: "third", 4: ""} {
		if got := f.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.yaml")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
