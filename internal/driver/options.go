package driver

import (
	"time"

	"strsym/internal/config"
)

// Options controls one driver call.
type Options struct {
	Config         config.Config
	MaxDiagnostics int
	EnableTimings  bool

	// Cache, when set, short-circuits units whose content and configuration
	// were already transformed successfully.
	Cache *DiskCache

	// Jobs bounds batch parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// OutDir, when set, makes TransformDir write every successful unit
	// under the same relative path.
	OutDir   string
	Progress ProgressSink
	// Heartbeat is the interval of batch progress events in the trace;
	// zero disables them.
	Heartbeat time.Duration
}

// DefaultOptions returns options with the default configuration.
func DefaultOptions() Options {
	return Options{
		Config:         config.Default(),
		MaxDiagnostics: 100,
	}
}
