package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"decaf/internal/diag"
	"decaf/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note *color.Color
	code, gutter, caret   *color.Color
	path                  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		path:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.code, p.gutter, p.caret, p.path} {
		// глобальный color.NoColor смотрит на stdout, а писать можем куда угодно
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	items := bag.Items()
	for i := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeDiagnostic(w, &items[i], fs, opts, p)
	}
}

func writeDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprint(location(fs, d.Primary, opts.PathMode)),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message,
	)
	writeSnippet(w, fs, d.Primary, int(opts.Context), p)

	// тайминги без заметки бессмысленны
	if !opts.ShowNotes && d.Code != diag.ObsTimings {
		return
	}
	for _, note := range d.Notes {
		fmt.Fprintf(w, "  %s %s: %s\n",
			p.note.Sprint("note:"),
			location(fs, note.Span, opts.PathMode),
			note.Msg,
		)
		if d.Code != diag.ObsTimings {
			writeSnippet(w, fs, note.Span, 0, p)
		}
	}
}

func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	path := formatPath(fs, span.File, mode)
	if int(span.File) >= fs.Len() {
		return path
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

// writeSnippet prints the line holding span.Start, up to context lines
// above it, and an underline below the spanned columns.
func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, context int, p palette) {
	if int(span.File) >= fs.Len() {
		return
	}
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)
	if start.Line == 0 {
		return
	}
	first := max(int(start.Line)-context, 1)
	gutter := len(fmt.Sprint(start.Line))

	for ln := first; ln <= int(start.Line); ln++ {
		text := expandTabs(f.GetLine(uint32(ln))) // #nosec G115 -- bounded by start.Line
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutter, ln), text)
	}

	line := f.GetLine(start.Line)
	from := clampCol(start.Col, line)
	to := len(line)
	if end.Line == start.Line {
		to = clampCol(end.Col, line)
	}
	pad := runewidth.StringWidth(expandTabs(line[:from]))
	width := max(runewidth.StringWidth(expandTabs(line[from:max(to, from)])), 1)
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutter, ""), strings.Repeat(" ", pad), p.caret.Sprint(marker))
}

// clampCol turns a 1-based byte column into an index into line.
func clampCol(col uint32, line string) int {
	idx := int(col) - 1
	if idx < 0 {
		return 0
	}
	if idx > len(line) {
		return len(line)
	}
	return idx
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
