package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"strsym/internal/config"
)

// addConfigFlags registers the flags that override strsym.toml values.
func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("min-length", 0, "minimum decoded literal length to intern")
	f.String("prefix", "", "label prefix")
	f.String("collision", "", "label collision policy (suffix|overwrite|error)")
	f.String("order", "", "definition order (insertion|label)")
	f.Bool("fold-unicode", false, "fold accented letters before deriving labels")
	f.String("literal-mode", "", "malformed literal handling (strict|lenient)")
	f.StringSlice("extra-directive", nil, "additional directive keyword (repeatable)")
}

// loadConfig resolves the manifest for input: --config wins, otherwise the
// nearest strsym.toml above the input is used. Changed flags are applied on
// top and the result is validated.
func loadConfig(cmd *cobra.Command, input string) (config.Config, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	var cfg config.Config
	if explicit != "" {
		cfg, err = config.Load(explicit)
	} else {
		cfg, err = config.Discover(anchorDir(input))
	}
	if err != nil {
		return config.Config{}, err
	}

	if err := applyConfigFlags(cmd, &cfg); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func anchorDir(input string) string {
	if input == "" || input == "-" {
		return "."
	}
	if isDir(input) {
		return input
	}
	return filepath.Dir(input)
}

func applyConfigFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	var err error
	if f.Changed("min-length") {
		if cfg.Symbols.MinLength, err = f.GetInt("min-length"); err != nil {
			return err
		}
	}
	if f.Changed("prefix") {
		if cfg.Symbols.Prefix, err = f.GetString("prefix"); err != nil {
			return err
		}
	}
	if f.Changed("collision") {
		if cfg.Symbols.Collision, err = f.GetString("collision"); err != nil {
			return err
		}
	}
	if f.Changed("order") {
		if cfg.Symbols.Order, err = f.GetString("order"); err != nil {
			return err
		}
	}
	if f.Changed("fold-unicode") {
		if cfg.Symbols.FoldUnicode, err = f.GetBool("fold-unicode"); err != nil {
			return err
		}
	}
	if f.Changed("literal-mode") {
		if cfg.Scan.LiteralMode, err = f.GetString("literal-mode"); err != nil {
			return err
		}
	}
	if f.Changed("extra-directive") {
		extra, err := f.GetStringSlice("extra-directive")
		if err != nil {
			return err
		}
		cfg.Scan.ExtraDirectives = append(cfg.Scan.ExtraDirectives, extra...)
	}
	// --header есть только у transform
	if f.Lookup("header") != nil && f.Changed("header") {
		if cfg.Output.Header, err = f.GetBool("header"); err != nil {
			return err
		}
	}
	return nil
}
