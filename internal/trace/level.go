package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // error diagnostics and failed unit ends only
	LevelPhase               // run and pass spans, every diagnostic
	LevelDetail              // plus one span per unit of a batch
	LevelDebug               // plus one event per interned literal
)

var levelNames = []string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a flag value to a Level.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames, "|"))
}

// maxScope is the finest scope whose spans the level keeps.
func (l Level) maxScope() Scope {
	switch l {
	case LevelPhase:
		return ScopePass
	case LevelDetail:
		return ScopeUnit
	case LevelDebug:
		return ScopeLiteral
	}
	return 0
}

// Allows reports whether ev passes the level.
func (l Level) Allows(ev *Event) bool {
	switch {
	case l == LevelOff:
		return false
	case ev.Failed():
		return true
	case l == LevelError:
		return false
	case ev.Kind == KindDiagnostic, ev.Kind == KindHeartbeat:
		return true
	}
	return ev.Scope <= l.maxScope()
}
