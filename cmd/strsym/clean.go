package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"strsym/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the strsym result cache",
	Long:  "Remove every cached transform result. The cache lives under $XDG_CACHE_HOME/strsym (or ~/.cache/strsym).",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	cache, err := driver.OpenDiskCache("strsym")
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to remove %q: %w", cache.Dir(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
	return nil
}
