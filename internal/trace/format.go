package trace

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Format represents the output format for trace events.
type Format uint8

const (
	FormatAuto   Format = iota // pick by output path
	FormatText                 // human-readable text
	FormatNDJSON               // newline-delimited JSON
)

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	default:
		return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
	}
}

// ForPath turns FormatAuto into NDJSON for .ndjson/.json paths and text
// otherwise.
func (f Format) ForPath(path string) Format {
	if f != FormatAuto {
		return f
	}
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".json") {
		return FormatNDJSON
	}
	return FormatText
}

var processStart = time.Now()

// FormatEvent renders ev as one line in format.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return formatNDJSON(ev)
	}
	return formatText(ev)
}

type jsonEvent struct {
	Time     string `json:"time"`
	Seq      uint64 `json:"seq"`
	Kind     string `json:"kind"`
	Scope    string `json:"scope"`
	SpanID   uint64 `json:"span_id,omitempty"`
	ParentID uint64 `json:"parent_id,omitempty"`
	Name     string `json:"name"`
	Unit     string `json:"unit,omitempty"`
	Detail   string `json:"detail,omitempty"`
	ElapsedU int64  `json:"elapsed_us,omitempty"`
	Stats    *Stats `json:"stats,omitempty"`
	Label    string `json:"label,omitempty"`
	Code     string `json:"code,omitempty"`
	Severity string `json:"severity,omitempty"`
	Pos      *Pos   `json:"pos,omitempty"`
}

func formatNDJSON(ev *Event) []byte {
	out := jsonEvent{
		Time:     ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Name:     ev.Name,
		Unit:     ev.Unit,
		Detail:   ev.Detail,
		ElapsedU: ev.Elapsed.Microseconds(),
		Stats:    ev.Stats,
		Label:    ev.Label,
		Code:     ev.Code,
		Severity: ev.Severity,
	}
	if ev.Pos.Line > 0 {
		pos := ev.Pos
		out.Pos = &pos
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Appendf(nil, "{\"kind\":\"error\",\"detail\":%q}\n", err.Error())
	}
	return append(data, '\n')
}

// formatText: [elapsed] indent marker name [unit:line:col] payload
func formatText(ev *Event) []byte {
	var sb strings.Builder

	since := ev.Time.Sub(processStart)
	if ev.Time.IsZero() || since < 0 {
		since = 0
	}
	fmt.Fprintf(&sb, "[%9.3fms] ", float64(since.Microseconds())/1000)
	if ev.Scope > ScopeRun {
		sb.WriteString(strings.Repeat("  ", int(ev.Scope-ScopeRun)))
	}

	switch ev.Kind {
	case KindBegin:
		sb.WriteString("→ " + ev.Name)
	case KindEnd:
		fmt.Fprintf(&sb, "← %s %.3fms", ev.Name, float64(ev.Elapsed.Microseconds())/1000)
	case KindLiteral:
		fmt.Fprintf(&sb, "• %s", ev.Label)
	case KindDiagnostic:
		fmt.Fprintf(&sb, "! %s %s", ev.Severity, ev.Code)
	case KindHeartbeat:
		sb.WriteString("♡ " + ev.Name)
	}

	if ev.Unit != "" && (ev.Unit != ev.Name || ev.Pos.Line > 0) {
		sb.WriteString(" " + ev.Unit)
		if ev.Pos.Line > 0 {
			fmt.Fprintf(&sb, ":%d:%d", ev.Pos.Line, ev.Pos.Col)
		}
	}
	if ev.Detail != "" {
		sb.WriteString(" (" + ev.Detail + ")")
	}
	if st := ev.Stats; st != nil {
		fmt.Fprintf(&sb, " {tokens=%d literals=%d interned=%d symbols=%d errors=%d",
			st.Tokens, st.Literals, st.Interned, st.Symbols, st.Errors)
		if st.Bytes > 0 {
			fmt.Fprintf(&sb, " bytes=%d", st.Bytes)
		}
		if st.Cached {
			sb.WriteString(" cached")
		}
		sb.WriteString("}")
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
