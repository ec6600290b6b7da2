package driver

import (
	"encoding/json"
	"fmt"

	"strsym/internal/diag"
	"strsym/internal/observ"
	"strsym/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic records the phase report as an informational
// diagnostic whose single note carries the JSON payload.
func appendTimingDiagnostic(bag *diag.Bag, at source.Span, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	// лимит bag не должен прятать тайминги
	entry := diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  msg,
		Primary:  at,
		Notes:    []diag.Note{{Span: at, Msg: string(data)}},
	}
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(0)
	overflow.Add(entry)
	bag.Merge(overflow)
}
