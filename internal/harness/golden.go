package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/wadcompat/internal/ir"
)

// GoldenDir is where golden snapshots live, relative to the test's package.
const GoldenDir = "testdata/golden"

// Snapshot renders a scenario result as canonical JSON for golden
// comparison. Report IDs are included; they are deterministic in harness
// runs.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	trace := make([]any, len(result.Trace))
	for i, event := range result.Trace {
		discarded := make([]any, len(event.Discarded))
		for j, d := range event.Discarded {
			discarded[j] = map[string]any{
				"name":   d.Name,
				"intent": d.Intent,
				"reason": string(d.Reason),
			}
		}
		trace[i] = map[string]any{
			"seq":       event.Seq,
			"id":        event.ID,
			"digest":    event.Digest,
			"on":        event.On,
			"off":       event.Off,
			"discarded": discarded,
		}
	}

	state := make(map[string]any, len(result.State))
	for name, value := range result.State {
		state[name] = value
	}

	return ir.MarshalCanonical(map[string]any{
		"scenario_name": scenarioName,
		"stats": map[string]any{
			"sections":   result.Stats.Sections,
			"skipped":    result.Stats.Skipped,
			"added":      result.Stats.Added,
			"duplicates": result.Stats.Duplicates,
		},
		"trace": trace,
		"state": state,
	})
}

// RunWithGolden executes a scenario and compares the snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
