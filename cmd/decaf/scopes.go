package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"decaf/internal/diagfmt"
	"decaf/internal/driver"
)

var scopesCmd = &cobra.Command{
	Use:   "scopes [flags] <manifest.yaml>",
	Short: "Print the resolved scope table of every class, interface and function",
	Args:  cobra.ExactArgs(1),
	RunE:  runScopes,
}

func init() {
	scopesCmd.Flags().Bool("inherited", true, "include members received from ancestor classes")
	scopesCmd.Flags().Bool("json", false, "print scopes as JSON")
}

func runScopes(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	inherited, err := cmd.Flags().GetBool("inherited")
	if err != nil {
		return fmt.Errorf("failed to get inherited flag: %w", err)
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	res, err := driver.CheckFile(cmd.Context(), args[0], driver.Options{MaxDiagnostics: maxDiagnostics})
	if err != nil {
		return err
	}
	in := scopesInput(res)
	if in == nil {
		cmd.SilenceUsage = true
		return fmt.Errorf("%s: manifest could not be decoded", args[0])
	}

	out := cmd.OutOrStdout()
	if asJSON {
		output := diagfmt.BuildDiagnosticsOutput(res.Bag, res.FileSet, diagfmt.JSONOpts{IncludePositions: true, IncludeScopes: true}, in)
		return encodeJSON(out, output)
	}

	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	if err := diagfmt.Scopes(out, in, diagfmt.ScopesOpts{Color: color, Inherited: inherited}); err != nil {
		return err
	}
	// таблица строится и при ошибках, но о них стоит сказать
	if res.HasErrors() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s has declaration errors; run decaf check for details\n", args[0])
	}
	return nil
}
