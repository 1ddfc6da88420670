package driver

import (
	"time"

	"decaf/internal/pipeline"
)

// PhaseStatus marks which side of a stage boundary a PhaseEvent is on.
type PhaseStatus int

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent is one stage boundary of one manifest. Note and Err are only
// set on PhaseEnd; Note is the same detail the trace span ends with.
type PhaseEvent struct {
	File    string
	Stage   pipeline.Stage
	Status  PhaseStatus
	Elapsed time.Duration
	Note    string
	Err     error
}

// PhaseObserver is called synchronously from the goroutine that checks the
// file, so observers shared by CheckDir must be goroutine-safe.
type PhaseObserver func(PhaseEvent)
