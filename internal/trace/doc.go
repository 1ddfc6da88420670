// Package trace is the structured logging layer of the checker.
//
// Spans and point events are emitted at four scopes (driver, pass, module,
// node) and filtered by a Level:
//
//	off     nothing
//	error   nothing until a crash dump is requested
//	phase   driver and pass boundaries
//	detail  per-file events
//	debug   everything, including one span per analyzed declaration
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.StartSpan(ctx, trace.ScopePass, "sema")
//	defer span.End("")
//
// StreamTracer writes immediately (text or NDJSON), RingTracer keeps the
// last N events for post-mortem dumps, MultiTracer fans out to both.
package trace
