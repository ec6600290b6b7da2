package main

import (
	"fmt"
	"io"

	"strsym/internal/observ"
)

func printTimingReport(out io.Writer, title string, report *observ.Report) {
	if out == nil || report == nil || len(report.Phases) == 0 {
		return
	}
	fmt.Fprintf(out, "timings %s:\n", title)
	for _, p := range report.Phases {
		fmt.Fprintf(out, "  %-10s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			fmt.Fprintf(out, "  (%s)", p.Note)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "  %-10s %7.2f ms\n", "total", report.TotalMS)
}

func printTimerSummary(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil || len(timer.Phases()) == 0 {
		return
	}
	fmt.Fprint(out, timer.Summary())
}
