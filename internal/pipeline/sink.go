package pipeline

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// RecordingSink keeps every event; tests and the short formatter use it.
type RecordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *RecordingSink) OnEvent(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

// Events returns a copy of the recorded events.
func (s *RecordingSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// MultiSink fans every event out to each of its non-nil sinks in order.
type MultiSink []ProgressSink

func (s MultiSink) OnEvent(evt Event) {
	for _, sink := range s {
		if sink != nil {
			sink.OnEvent(evt)
		}
	}
}

// TimingSink accumulates the elapsed time of finished stages.
type TimingSink struct {
	mu      sync.Mutex
	timings Timings
}

func (s *TimingSink) OnEvent(evt Event) {
	if evt.Stage == "" || evt.Status != StatusDone && evt.Status != StatusError {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timings.Add(evt.Stage, evt.Elapsed)
}

// Timings returns a snapshot of the accumulated durations.
func (s *TimingSink) Timings() Timings {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out Timings
	for stage, d := range s.timings.stages {
		out.Add(stage, d)
	}
	return out
}

// Emit sends evt to sink when one is set.
func Emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// EmitQueued announces every file as queued for loading.
func EmitQueued(sink ProgressSink, files []string) {
	for _, file := range files {
		Emit(sink, Event{File: file, Stage: StageLoad, Status: StatusQueued})
	}
}

// DisplayFiles normalizes paths for progress output: relative to baseDir
// when they lie under it, slash-separated, deduplicated and sorted.
func DisplayFiles(files []string, baseDir string) []string {
	if len(files) == 0 {
		return files
	}
	normalized := make([]string, 0, len(files))
	seen := make(map[string]struct{}, len(files))

	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}

	for _, file := range files {
		if file == "" {
			continue
		}
		path := DisplayPath(file, base)
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		normalized = append(normalized, path)
	}
	sort.Strings(normalized)
	return normalized
}

// DisplayPath is the single-file form of DisplayFiles; base must already
// be absolute or empty.
func DisplayPath(file, base string) string {
	path := filepath.Clean(file)
	if base != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if rel, err := filepath.Rel(base, path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}
