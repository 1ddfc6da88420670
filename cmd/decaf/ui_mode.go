package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode selects the progress view of directory checks.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch mode := uiMode(strings.TrimSpace(strings.ToLower(value))); mode {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// wantsProgress decides whether check shows the progress view. It only
// accompanies pretty output of a directory; auto additionally requires
// stderr, where the view is drawn, to be a terminal.
func wantsProgress(s checkSettings, dirMode bool, files int, stderrTTY bool) bool {
	if !dirMode || files == 0 || s.quiet || s.format != formatPretty {
		return false
	}
	switch s.ui {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return stderrTTY
	}
}

func stderrIsTerminal() bool {
	return isTerminal(os.Stderr)
}
