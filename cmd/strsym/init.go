package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"strsym/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default strsym.toml",
	Long: `Init writes a strsym.toml with the default settings into [path], or into the
current directory when [path] is omitted. A missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing strsym.toml")
}

// runInit refuses to replace an existing manifest unless --force is given.
func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}

	// Ensure directory exists
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, config.FileName)
	if _, err := os.Stat(manifestPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", manifestPath)
	}

	cfg := config.Default()
	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, buf.Bytes(), 0o644); err != nil { // #nosec G306 -- manifest is meant to be shared
		return fmt.Errorf("failed to write %s: %w", manifestPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", manifestPath)
	return nil
}
