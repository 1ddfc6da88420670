package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"decaf/internal/diag"
	"decaf/internal/diagfmt"
	"decaf/internal/driver"
	"decaf/internal/pipeline"
)

type outputFormat string

const (
	formatPretty outputFormat = "pretty"
	formatJSON   outputFormat = "json"
	formatShort  outputFormat = "short"
)

func readFormat(value string) (outputFormat, error) {
	switch f := outputFormat(strings.TrimSpace(strings.ToLower(value))); f {
	case formatPretty, formatJSON, formatShort:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected pretty|json|short)", value)
	}
}

// errChecksFailed is returned after diagnostics were printed; main only
// turns it into the exit status.
var errChecksFailed = errors.New("declaration errors found")

var checkCmd = &cobra.Command{
	Use:   "check [flags] <manifest.yaml|directory>",
	Short: "Resolve the declarations of a manifest or of every manifest in a directory",
	Long: `Resolve class, interface and function declarations and report conflicts,
override mismatches, unimplemented interfaces and undeclared names.
Directories are searched recursively for *.yaml and *.yml manifests.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", string(formatPretty), "output format (pretty|json|short)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().Bool("dedup", false, "drop repeated diagnostics with the same code, location and message")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("with-scopes", false, "include resolved scope tables in JSON output")
	checkCmd.Flags().String("ui", string(uiModeAuto), "progress UI (auto|on|off)")
	checkCmd.Flags().Bool("disk-cache", false, "reuse diagnostics of unchanged manifests across runs")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

// checkSettings is the merged view of flags and decaf.toml.
type checkSettings struct {
	format         outputFormat
	maxDiagnostics int
	dedup          bool
	jobs           int
	withNotes      bool
	withScopes     bool
	ui             uiMode
	diskCache      bool
	cacheDir       string
	fullPath       bool
	timings        bool
	quiet          bool
}

func resolveCheckSettings(cmd *cobra.Command, target string) (checkSettings, error) {
	var s checkSettings
	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	formatStr, err := flags.GetString("format")
	if err != nil {
		return s, fmt.Errorf("failed to get format flag: %w", err)
	}
	if s.maxDiagnostics, err = root.GetInt("max-diagnostics"); err != nil {
		return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if s.dedup, err = flags.GetBool("dedup"); err != nil {
		return s, fmt.Errorf("failed to get dedup flag: %w", err)
	}
	if s.jobs, err = flags.GetInt("jobs"); err != nil {
		return s, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if s.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return s, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if s.withScopes, err = flags.GetBool("with-scopes"); err != nil {
		return s, fmt.Errorf("failed to get with-scopes flag: %w", err)
	}
	uiStr, err := flags.GetString("ui")
	if err != nil {
		return s, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.diskCache, err = flags.GetBool("disk-cache"); err != nil {
		return s, fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	if s.fullPath, err = flags.GetBool("fullpath"); err != nil {
		return s, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return s, fmt.Errorf("failed to get quiet flag: %w", err)
	}

	manifest, found, err := loadProjectManifest(target)
	if err != nil {
		return s, err
	}
	if found {
		cfg := manifest.Config
		// флаги из командной строки важнее конфига
		if cfg.Check.Format != nil && !flags.Changed("format") {
			formatStr = *cfg.Check.Format
		}
		if cfg.Check.MaxDiagnostics != nil && !root.Changed("max-diagnostics") {
			s.maxDiagnostics = *cfg.Check.MaxDiagnostics
		}
		if cfg.Check.Dedup != nil && !flags.Changed("dedup") {
			s.dedup = *cfg.Check.Dedup
		}
		if cfg.Check.Jobs != nil && !flags.Changed("jobs") {
			s.jobs = *cfg.Check.Jobs
		}
		if cfg.Cache.Enabled != nil && !flags.Changed("disk-cache") {
			s.diskCache = *cfg.Cache.Enabled
		}
		s.cacheDir = manifest.cacheDir()
	}

	if s.format, err = readFormat(formatStr); err != nil {
		return s, err
	}
	if s.ui, err = readUIMode(uiStr); err != nil {
		return s, err
	}
	if s.jobs < 0 {
		return s, fmt.Errorf("--jobs must not be negative")
	}
	return s, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	target := args[0]
	settings, err := resolveCheckSettings(cmd, target)
	if err != nil {
		return err
	}

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	files := []string{target}
	baseDir := filepath.Dir(target)
	if st.IsDir() {
		if files, err = driver.ListManifests(target); err != nil {
			return err
		}
		baseDir = target
	}
	if abs, absErr := filepath.Abs(baseDir); absErr == nil {
		baseDir = abs
	}

	var timing pipeline.TimingSink
	opts := driver.Options{
		MaxDiagnostics: settings.maxDiagnostics,
		Dedup:          settings.dedup,
		Jobs:           settings.jobs,
		EnableTimings:  settings.timings,
		BaseDir:        baseDir,
		Progress:       &timing,
	}
	if settings.diskCache {
		if settings.cacheDir != "" {
			opts.Cache, err = driver.NewDiskCache(settings.cacheDir)
		} else {
			opts.Cache, err = driver.OpenDiskCache("decaf")
		}
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
	}

	var results []*driver.FileResult
	if wantsProgress(settings, st.IsDir(), len(files), stderrIsTerminal()) {
		results, err = runCheckWithUI(cmd.Context(), "checking "+filepath.Base(target), files, opts)
	} else {
		results, err = driver.CheckFiles(cmd.Context(), files, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	if err := renderResults(out, results, settings, color, st.IsDir()); err != nil {
		return err
	}
	if settings.timings && !settings.quiet {
		printStageTimings(cmd.ErrOrStderr(), timing.Timings())
	}

	for _, r := range results {
		if r.HasErrors() {
			// Suppress cobra usage output on diagnostic errors
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return errChecksFailed
		}
	}
	return nil
}

func renderResults(out io.Writer, results []*driver.FileResult, s checkSettings, color, dirMode bool) error {
	pathMode := diagfmt.PathModeAuto
	if dirMode {
		pathMode = diagfmt.PathModeRelative
	}
	if s.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch s.format {
	case formatShort:
		for _, r := range results {
			if output := diag.FormatShortDiagnostics(r.Bag.Pointers(), r.FileSet, s.withNotes); output != "" {
				fmt.Fprintln(out, output)
			}
		}
	case formatJSON:
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     s.withNotes,
			IncludeScopes:    s.withScopes,
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if !dirMode && len(results) == 1 {
			r := results[0]
			return diagfmt.JSON(out, r.Bag, r.FileSet, jsonOpts, scopesInput(r))
		}
		output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		for _, r := range results {
			output[displayPath(r, pathMode)] = diagfmt.BuildDiagnosticsOutput(r.Bag, r.FileSet, jsonOpts, scopesInput(r))
		}
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
	case formatPretty:
		prettyOpts := diagfmt.PrettyOpts{
			Color:     color,
			Context:   2,
			PathMode:  pathMode,
			ShowNotes: s.withNotes,
		}
		printed := false
		for _, r := range results {
			if r.Bag.Len() == 0 {
				continue
			}
			if printed {
				fmt.Fprintln(out)
			}
			printed = true
			if dirMode {
				fmt.Fprintf(out, "== %s ==\n", displayPath(r, pathMode))
			}
			diagfmt.Pretty(out, r.Bag, r.FileSet, prettyOpts)
		}
		if !s.quiet {
			fmt.Fprintln(out, summaryLine(results))
		}
	}
	return nil
}

func displayPath(r *driver.FileResult, mode diagfmt.PathMode) string {
	file := r.FileSet.Get(r.FileID)
	switch mode {
	case diagfmt.PathModeAbsolute:
		return file.FormatPath("absolute", "")
	case diagfmt.PathModeRelative:
		return file.FormatPath("relative", r.FileSet.BaseDir())
	default:
		return file.FormatPath("auto", "")
	}
}

// scopesInput is nil for results answered from the cache or that failed to
// decode; they carry no scope table.
func scopesInput(r *driver.FileResult) *diagfmt.ScopesInput {
	if r.Program == nil || r.Sema == nil {
		return nil
	}
	return &diagfmt.ScopesInput{Builder: r.Program.Builder, Result: r.Sema}
}

func summaryLine(results []*driver.FileResult) string {
	var errs, warns, cached int
	for _, r := range results {
		if r.Cached {
			cached++
		}
		for _, d := range r.Bag.Items() {
			switch d.Severity {
			case diag.SevError:
				errs++
			case diag.SevWarning:
				warns++
			}
		}
	}
	line := fmt.Sprintf("checked %d %s: %d %s, %d %s",
		len(results), plural(len(results), "manifest"),
		errs, plural(errs, "error"),
		warns, plural(warns, "warning"))
	if cached > 0 {
		line += fmt.Sprintf(" (%d cached)", cached)
	}
	return line
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
