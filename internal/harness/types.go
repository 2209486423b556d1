package harness

import (
	"github.com/roach88/wadcompat/internal/engine"
	"github.com/roach88/wadcompat/internal/ir"
)

// TraceEvent records one ApplyCompatibility call and the flag state it
// left behind.
type TraceEvent struct {
	Seq       int              `json:"seq"`
	ID        string           `json:"id"`
	Digest    ir.Digest        `json:"digest"`
	On        []ir.FlagName    `json:"on"`  // flags forced on, table order
	Off       []ir.FlagName    `json:"off"` // flags forced off, table order
	Discarded []engine.Discard `json:"discarded"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every step expectation and assertion matched.
	Pass bool `json:"pass"`

	// Stats are the ingestion counters for all loaded sections.
	Stats engine.IngestStats `json:"stats"`

	// Trace holds one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	Errors []string `json:"errors,omitempty"`

	// State is the final flag state: full flag name to "on" or "off".
	// Unset flags are absent.
	State map[string]string `json:"state"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		State:  make(map[string]string),
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddApplyTrace records a report and the state it produced.
func (r *Result) AddApplyTrace(report *engine.Report, state *engine.FlagState) TraceEvent {
	on, off := splitState(state)
	event := TraceEvent{
		Seq:       len(r.Trace) + 1,
		ID:        report.ID,
		Digest:    report.Digest,
		On:        on,
		Off:       off,
		Discarded: report.Discarded,
	}
	r.Trace = append(r.Trace, event)
	return event
}

// splitState lists the active flags by forced value.
func splitState(state *engine.FlagState) (on, off []ir.FlagName) {
	on, off = []ir.FlagName{}, []ir.FlagName{}
	for _, f := range state.ActiveFlags() {
		if state.Enabled(f) {
			on = append(on, f.Name())
		} else {
			off = append(off, f.Name())
		}
	}
	return on, off
}
