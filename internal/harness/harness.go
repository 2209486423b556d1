package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/wadcompat/internal/compiler"
	"github.com/roach88/wadcompat/internal/engine"
	"github.com/roach88/wadcompat/internal/ir"
	"github.com/roach88/wadcompat/internal/testutil"
)

// Harness is the scenario execution engine.
// Each run owns a fresh Compatibility and FlagState.
type Harness struct {
	compat *engine.Compatibility
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Load sections from spec files, then inline sections
// 2. Ingest them into a fresh Compatibility
// 3. Apply each step's digest and check its expectation
// 4. Evaluate assertions against the final state
//
// An error is returned only when the scenario cannot run at all; failed
// expectations are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	sections, err := loadSections(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to load sections: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	h := &Harness{
		compat: engine.New(nil,
			engine.WithLogger(logger),
			engine.WithIDGenerator(testutil.NewCountingIDGenerator(scenario.ReportPrefix)),
		),
		logger: logger,
	}

	result := NewResult()
	result.Stats = h.compat.ProcessCompatibilities(sections)

	for i, step := range scenario.Steps {
		h.executeStep(i, step, result)
	}

	state := h.compat.State()
	for _, f := range state.ActiveFlags() {
		result.State[f.Name()] = stateName(state, f)
	}

	actx := &AssertionContext{Compat: h.compat, Stats: result.Stats}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// loadSections reads every spec file in order, then appends the inline
// sections.
func loadSections(scenario *Scenario) ([]ir.Section, error) {
	var sections []ir.Section
	for _, path := range scenario.Specs {
		loaded, err := compiler.LoadFile(path)
		if err != nil {
			return nil, err
		}
		sections = append(sections, loaded...)
	}
	return append(sections, scenario.Sections...), nil
}

// executeStep applies one digest, records the trace and checks the
// step's expectation.
func (h *Harness) executeStep(index int, step Step, result *Result) {
	report := h.compat.ApplyCompatibility(step.Digest)
	event := result.AddApplyTrace(report, h.compat.State())

	h.logger.Debug("step applied",
		"step", index,
		"digest", step.Digest,
		"on", len(event.On),
		"off", len(event.Off),
	)

	if step.Expect == nil {
		return
	}

	discarded := make([]ir.FlagName, len(event.Discarded))
	for i, d := range event.Discarded {
		discarded[i] = d.Name
	}

	checks := []struct {
		what      string
		want, got []ir.FlagName
	}{
		{"on", step.Expect.On, event.On},
		{"off", step.Expect.Off, event.Off},
		{"discarded", step.Expect.Discarded, discarded},
	}
	for _, c := range checks {
		if c.want != nil && !equalNames(c.want, c.got) {
			result.AddError(fmt.Sprintf("steps[%d] %s: expected %s %v, got %v",
				index, step.Digest, c.what, c.want, c.got))
		}
	}
}

// equalNames compares two name lists in order, case-insensitively.
func equalNames(want, got []ir.FlagName) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if !ir.EqualNames(want[i], got[i]) {
			return false
		}
	}
	return true
}

func stateName(state *engine.FlagState, f engine.Flag) string {
	switch {
	case !state.IsActive(f):
		return StateUnset
	case state.Enabled(f):
		return StateOn
	default:
		return StateOff
	}
}
