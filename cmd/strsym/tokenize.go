package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"strsym/internal/diagfmt"
	"strsym/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file|->",
	Short: "Dump the region tokens of a source file",
	Long:  `Tokenize splits a source file into comments, directives, string literals and single bytes, the way transform sees it`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	addConfigFlags(tokenizeCmd)
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

// analyze runs the classifier with the command's configuration and prints
// diagnostics to stderr. Error diagnostics are returned as ErrDiagnostics
// after the caller had a chance to print its output.
func analyze(cmd *cobra.Command, path string) (*driver.Result, error) {
	cfg, err := loadConfig(cmd, path)
	if err != nil {
		return nil, err
	}
	report, err := readReportOptions(cmd, os.Stderr, "")
	if err != nil {
		return nil, err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	opts := driver.DefaultOptions()
	opts.Config = cfg
	opts.MaxDiagnostics = maxDiagnostics

	result, err := driver.Tokenize(cmd.Context(), path, opts)
	if err != nil {
		return nil, fmt.Errorf("tokenization failed: %w", err)
	}
	if err := printDiagnostics(os.Stderr, result.Bag, result.FileSet, report); err != nil {
		return nil, err
	}
	return result, nil
}

func diagnosticsError(result *driver.Result) error {
	if result.Bag.HasErrors() {
		return fmt.Errorf("%s: %w", result.File.Path, driver.ErrDiagnostics)
	}
	return nil
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	result, err := analyze(cmd, args[0])
	if err != nil {
		return err
	}

	switch format {
	case "json":
		err = diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	default:
		err = diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	}
	if err != nil {
		return err
	}
	return diagnosticsError(result)
}
