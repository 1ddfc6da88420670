package diag

import (
	"fmt"
	"strings"
)

// Severity orders diagnostics from informational to fatal for the file.
type Severity uint8

const (
	// SevInfo carries observations such as phase timings.
	SevInfo Severity = iota
	SevWarning
	// SevError gates later phases and fails the check.
	SevError
)

// String is the upper-case form used in headers of pretty output.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lower-case form used by golden and short output.
func (s Severity) Label() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

// ParseSeverity accepts either form, case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return SevInfo, nil
	case "warning", "warn":
		return SevWarning, nil
	case "error":
		return SevError, nil
	}
	return SevInfo, fmt.Errorf("unknown severity %q", s)
}
