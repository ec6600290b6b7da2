package driver

import "time"

// Stage describes a phase of one unit.
type Stage string

const (
	StageLoad     Stage = "load"
	StageScan     Stage = "scan"
	StageAssemble Stage = "assemble"
	StageWrite    Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusCached  Status = "cached"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	// Symbols is the size of the unit's label table on StatusDone and
	// StatusCached.
	Symbols int
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use: batch workers report from their own goroutines.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func notify(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
