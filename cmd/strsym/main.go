package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"strsym/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "strsym",
	Short:        "Intern C string literals into #define symbols",
	Long:         `strsym replaces string literals of C-like sources with generated labels and prepends their #define definitions`,
	SilenceUsage: true,
}

// cleanups run after the command, in reverse order of registration.
var cleanups []func()

func runCleanups() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

// init registers subcommands and persistent flags.
func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("config", "", "path to strsym.toml (default: nearest one above the input)")

	rootCmd.PersistentFlags().String("trace", "", "trace output file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "ring buffer capacity for ring mode")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "heartbeat interval (0 disables)")

	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to this file")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopProfiling)
		stopTracing, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopTracing)
		return nil
	}
}

// main executes the root command. If command execution returns an error,
// the process exits with status code 1.
func main() {
	err := rootCmd.Execute()
	runCleanups()
	if err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
