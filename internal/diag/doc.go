// Package diag defines the diagnostic model shared by the loader, the
// declaration analyzer and the driver.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string ID (SYN/SEM/IO/OBS prefixes), a short Message, the Primary span and
// optional Notes pointing at related declarations ("previous declaration
// here"). Notes should add context, not repeat the message.
//
// Phases emit through a Reporter. ReportBuilder chains notes before Emit;
// BagReporter stores into a Bag, DedupReporter filters repeats. The package
// does no I/O; rendering lives in internal/diagfmt.
//
// Records are plain data and msgpack-tagged so the driver can cache them.
package diag
