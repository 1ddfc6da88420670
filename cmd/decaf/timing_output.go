package main

import (
	"fmt"
	"io"
	"time"

	"decaf/internal/pipeline"
)

func printStageTimings(out io.Writer, timings pipeline.Timings) {
	if out == nil {
		return
	}
	if timings.Has(pipeline.StageLoad) {
		fmt.Fprintf(out, "loaded %.1f ms\n", toMillis(timings.Duration(pipeline.StageLoad)))
	}
	if timings.Has(pipeline.StageSema) {
		fmt.Fprintf(out, "resolved %.1f ms\n", toMillis(timings.Duration(pipeline.StageSema)))
	}
	fmt.Fprintf(out, "total %.1f ms\n", toMillis(timings.Sum(pipeline.Stages...)))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
