package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"strsym/internal/diagfmt"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols [flags] <file|->",
	Short: "Print the label table a transform would define",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbols,
}

func init() {
	addConfigFlags(symbolsCmd)
	symbolsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	symbolsCmd.Flags().String("path-mode", "auto", "first-use paths (auto|absolute|relative|basename)")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	pathFlag, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathFlag)
	if !ok {
		return fmt.Errorf("invalid --path-mode value %q", pathFlag)
	}

	result, err := analyze(cmd, args[0])
	if err != nil {
		return err
	}

	switch format {
	case "pretty":
		err = diagfmt.FormatSymbolsPretty(os.Stdout, result.Table, result.FileSet, pathMode)
	case "json":
		err = diagfmt.FormatSymbolsJSON(os.Stdout, result.Table, result.FileSet, pathMode)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	return diagnosticsError(result)
}
