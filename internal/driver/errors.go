package driver

import "errors"

var (
	// ErrInputUnavailable wraps every failure to read an input unit.
	ErrInputUnavailable = errors.New("input unavailable")
	// ErrDiagnostics reports that a unit produced error diagnostics and
	// therefore has no output.
	ErrDiagnostics = errors.New("transformation reported errors")
)
