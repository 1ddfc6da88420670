package main

import "testing"

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, " ON ": uiModeOn, "off": uiModeOff, "auto": uiModeAuto} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("fancy"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestWantsProgress(t *testing.T) {
	pretty := checkSettings{format: formatPretty, ui: uiModeAuto}
	tests := []struct {
		name    string
		s       checkSettings
		dirMode bool
		files   int
		tty     bool
		want    bool
	}{
		{"auto on terminal", pretty, true, 3, true, true},
		{"auto piped", pretty, true, 3, false, false},
		{"single file", pretty, false, 1, true, false},
		{"empty dir", pretty, true, 0, true, false},
		{"forced on", checkSettings{format: formatPretty, ui: uiModeOn}, true, 2, false, true},
		{"forced off", checkSettings{format: formatPretty, ui: uiModeOff}, true, 2, true, false},
		{"json output", checkSettings{format: formatJSON, ui: uiModeOn}, true, 2, true, false},
		{"quiet", checkSettings{format: formatPretty, ui: uiModeOn, quiet: true}, true, 2, true, false},
	}
	for _, tt := range tests {
		if got := wantsProgress(tt.s, tt.dirMode, tt.files, tt.tty); got != tt.want {
			t.Errorf("%s: wantsProgress = %v, want %v", tt.name, got, tt.want)
		}
	}
}
