package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"strsym/internal/driver"
	"strsym/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on", "true":
		return uiModeOn, nil
	case "off", "false":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI: прогресс рисуется в stderr, stdout остаётся под вывод.
func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stderr)
	}
}

type batchOutcome struct {
	result *driver.BatchResult
	err    error
}

// runBatchWithUI drives TransformDir in the background while a Bubble Tea
// program renders its progress events.
func runBatchWithUI(ctx context.Context, title, dir string, files []string, opts driver.Options) (*driver.BatchResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.TransformDir(ctx, dir, optsCopy)
		outcomeCh <- batchOutcome{result: res, err: err}
		close(events)
	}()

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = driver.UnitPath(dir, f)
	}
	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// без UI события никто не читает, дренируем канал
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
