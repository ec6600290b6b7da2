package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"strsym/internal/diag"
	"strsym/internal/driver"
)

var transformCmd = &cobra.Command{
	Use:   "transform [flags] <file|dir|->",
	Short: "Replace string literals with generated #define labels",
	Long: `Transform interns every string literal that is long enough into a label,
prepends the label definitions and writes the result. A directory argument
transforms every matching file in parallel; without --out-dir it only checks them.`,
	Args: cobra.ExactArgs(1),
	RunE: runTransform,
}

func init() {
	addConfigFlags(transformCmd)
	f := transformCmd.Flags()
	f.Bool("header", false, "start the output with a generated-by comment")
	f.StringP("output", "o", "", "write the result to this file instead of stdout")
	f.String("out-dir", "", "batch mode: mirror transformed files under this directory")
	f.Int("jobs", 0, "batch mode: parallel units (0 = GOMAXPROCS)")
	f.String("ui", "auto", "batch mode progress UI (auto|on|off)")
	f.String("format", "pretty", "diagnostics format (pretty|short|json)")
	f.String("path-mode", "auto", "diagnostic paths (auto|absolute|relative|basename)")
	f.Bool("no-cache", false, "do not read or fill the result cache")
}

func runTransform(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg, err := loadConfig(cmd, input)
	if err != nil {
		return err
	}
	report, err := readReportOptions(cmd, os.Stderr, "format")
	if err != nil {
		return err
	}

	opts := driver.DefaultOptions()
	opts.Config = cfg
	if opts.MaxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.EnableTimings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.OutDir, err = cmd.Flags().GetString("out-dir"); err != nil {
		return fmt.Errorf("failed to get out-dir flag: %w", err)
	}
	if opts.Heartbeat, err = cmd.Root().PersistentFlags().GetDuration("trace-heartbeat"); err != nil {
		return fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if !noCache {
		cache, cacheErr := driver.OpenDiskCache("strsym")
		if cacheErr != nil && !report.quiet {
			fmt.Fprintf(os.Stderr, "warning: result cache disabled: %v\n", cacheErr)
		}
		opts.Cache = cache
	}

	if input != "-" && isDir(input) {
		if output != "" {
			return errors.New("-o/--output is for single files; use --out-dir with a directory")
		}
		return runTransformBatch(cmd, input, opts, report)
	}
	if opts.OutDir != "" {
		return errors.New("--out-dir requires a directory argument")
	}
	return runTransformUnit(cmd, input, output, opts, report)
}

func runTransformUnit(cmd *cobra.Command, input, output string, opts driver.Options, report reportOptions) error {
	res, err := driver.Transform(cmd.Context(), input, opts)
	if res != nil {
		if perr := printDiagnostics(os.Stderr, res.Bag, res.FileSet, report); perr != nil {
			return perr
		}
		if opts.EnableTimings {
			printTimingReport(os.Stderr, res.File.Path, res.Timing)
		}
	}
	if err != nil {
		return err
	}

	if output == "" || output == "-" {
		_, err = os.Stdout.Write(res.Output)
		return err
	}
	if err := driver.WriteOutput(output, res.Output); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	if !report.quiet {
		fmt.Fprintf(os.Stderr, "wrote %s (%d symbols)\n", output, res.Table.Len())
	}
	return nil
}

func runTransformBatch(cmd *cobra.Command, dir string, opts driver.Options, report reportOptions) error {
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	var batch *driver.BatchResult
	if shouldUseTUI(mode) && !report.quiet {
		files, listErr := driver.ListSourceFiles(dir, &opts.Config)
		if listErr != nil {
			return fmt.Errorf("%w: %w", driver.ErrInputUnavailable, listErr)
		}
		batch, err = runBatchWithUI(cmd.Context(), "strsym "+dir, dir, files, opts)
	} else {
		batch, err = driver.TransformDir(cmd.Context(), dir, opts)
	}
	if batch == nil {
		return err
	}

	all := diag.NewBag(0)
	for i := range batch.Units {
		if res := batch.Units[i].Result; res != nil {
			all.Merge(res.Bag)
		}
	}
	if perr := printDiagnostics(os.Stderr, all, batch.FileSet, report); perr != nil {
		return perr
	}
	if opts.EnableTimings {
		printTimerSummary(os.Stderr, batch.Timer)
	}
	if err != nil {
		return err
	}

	failed := batch.Failed()
	if !report.quiet {
		verb := "checked"
		if opts.OutDir != "" {
			verb = "transformed"
		}
		fmt.Fprintf(os.Stderr, "%s %d of %d files\n", verb, len(batch.Units)-failed, len(batch.Units))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed: %w", failed, len(batch.Units), driver.ErrDiagnostics)
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
