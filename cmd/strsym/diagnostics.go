package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"strsym/internal/diag"
	"strsym/internal/diagfmt"
	"strsym/internal/source"
)

type reportOptions struct {
	format   string // pretty|short|json
	color    bool
	quiet    bool
	pathMode diagfmt.PathMode
}

// readReportOptions reads the color and quiet flags; diagFlag names the
// command's diagnostics format flag, empty for pretty only.
func readReportOptions(cmd *cobra.Command, out *os.File, diagFlag string) (reportOptions, error) {
	root := cmd.Root().PersistentFlags()
	colorFlag, err := root.GetString("color")
	if err != nil {
		return reportOptions{}, fmt.Errorf("failed to get color flag: %w", err)
	}
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return reportOptions{}, fmt.Errorf("failed to get quiet flag: %w", err)
	}

	opts := reportOptions{format: "pretty", quiet: quiet}
	switch colorFlag {
	case "on":
		opts.color = true
	case "off":
		opts.color = false
	case "auto", "":
		opts.color = isTerminal(out)
	default:
		return reportOptions{}, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}

	if f := cmd.Flags().Lookup(diagFlag); diagFlag != "" && f != nil {
		opts.format = strings.ToLower(f.Value.String())
	}
	if f := cmd.Flags().Lookup("path-mode"); f != nil {
		mode, ok := diagfmt.ParsePathMode(f.Value.String())
		if !ok {
			return reportOptions{}, fmt.Errorf("invalid --path-mode value %q", f.Value.String())
		}
		opts.pathMode = mode
	}
	switch opts.format {
	case "pretty", "short", "json":
	default:
		return reportOptions{}, fmt.Errorf("unknown diagnostics format: %s", opts.format)
	}
	return opts, nil
}

// visible copies what should be shown: quiet keeps errors only, the
// human-readable formats leave timings to printTimings.
func visible(bag *diag.Bag, opts reportOptions) *diag.Bag {
	out := diag.NewBag(0)
	if bag == nil {
		return out
	}
	for _, d := range bag.Items() {
		if opts.quiet && d.Severity < diag.SevError {
			continue
		}
		if opts.format != "json" && d.Code == diag.ObsTimings {
			continue
		}
		out.Add(d)
	}
	out.Dedup()
	out.Sort()
	return out
}

func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts reportOptions) error {
	shown := visible(bag, opts)
	if opts.format != "json" && shown.Len() == 0 {
		return nil
	}
	switch opts.format {
	case "json":
		return diagfmt.JSON(w, shown, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.pathMode,
			IncludeNotes:     true,
		})
	case "short":
		_, err := fmt.Fprintln(w, diag.FormatShort(shown.Items(), fs, true))
		return err
	default:
		diagfmt.Pretty(w, shown, fs, diagfmt.PrettyOpts{
			Color:     opts.color,
			Context:   1,
			PathMode:  opts.pathMode,
			ShowNotes: true,
		})
		if dropped := bag.Dropped(); dropped > 0 {
			fmt.Fprintf(w, "... %d more diagnostics not shown (raise --max-diagnostics)\n", dropped)
		}
		return nil
	}
}
