package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wadcompat/internal/engine"
	"github.com/roach88/wadcompat/internal/ir"
)

func inlineScenario(sections []ir.Section, steps ...Step) *Scenario {
	return &Scenario{
		Name:        "inline",
		Description: "inline scenario",
		Sections:    sections,
		Steps:       steps,
	}
}

func TestRun_AppliesStepsInOrder(t *testing.T) {
	scenario := inlineScenario(
		[]ir.Section{{Hashes: []string{"ABC123"}, On: []string{"comp_jump"}}},
		Step{Digest: "ABC123"},
		Step{Digest: "OTHER"},
	)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	require.Len(t, result.Trace, 2)
	assert.Equal(t, TraceEvent{
		Seq:       1,
		ID:        "report-1",
		Digest:    "ABC123",
		On:        []string{"comp_aircontrol"},
		Off:       []string{},
		Discarded: []engine.Discard{},
	}, result.Trace[0])
	assert.Equal(t, "report-2", result.Trace[1].ID)
	assert.Empty(t, result.Trace[1].On)

	// The second apply reset the state.
	assert.Empty(t, result.State)
	assert.Equal(t, engine.IngestStats{Sections: 1, Added: 1}, result.Stats)
}

func TestRun_ReportPrefix(t *testing.T) {
	scenario := inlineScenario([]ir.Section{{Hashes: []string{"D1"}, Off: []string{"comp_god"}}}, Step{Digest: "D1"})
	scenario.ReportPrefix = "god"

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.Equal(t, "god-1", result.Trace[0].ID)
	assert.Equal(t, map[string]string{"comp_god": StateOff}, result.State)
}

func TestRun_ExpectationMismatch(t *testing.T) {
	scenario := inlineScenario(
		[]ir.Section{{Hashes: []string{"D1"}, On: []string{"comp_vile", "vile"}}},
		Step{Digest: "D1", Expect: &Expectation{
			On:        []string{"comp_pain"},
			Off:       []string{},
			Discarded: []string{"VILE"},
		}},
	)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1, "off and discarded match; only on differs")
	assert.Contains(t, result.Errors[0], "steps[0] D1: expected on [comp_pain], got [comp_vile]")
}

func TestRun_NilExpectationListsAreNotChecked(t *testing.T) {
	scenario := inlineScenario(
		[]ir.Section{{Hashes: []string{"D1"}, On: []string{"comp_vile"}, Off: []string{"comp_pain"}}},
		Step{Digest: "D1", Expect: &Expectation{Off: []string{"Comp_Pain"}}},
	)

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_AssertionFailuresAreCollected(t *testing.T) {
	scenario := inlineScenario(
		[]ir.Section{{Hashes: []string{"D1"}, On: []string{"comp_vile"}}},
		Step{Digest: "D1"},
	)
	scenario.Assertions = []Assertion{
		{Type: AssertFlagState, Flag: "comp_vile", State: StateOff},
		{Type: AssertDiscardCount, Count: 3},
		{Type: AssertFlagState, Flag: "comp_vile", State: StateOn},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "assertion 0 (flag_state)")
	assert.Contains(t, result.Errors[1], "assertion 1 (discard_count)")
}

func TestRun_LoadsSpecFiles(t *testing.T) {
	dir := t.TempDir()
	cuePath := filepath.Join(dir, "a.cue")
	yamlPath := filepath.Join(dir, "b.yaml")
	require.NoError(t, os.WriteFile(cuePath, []byte(`compatibility: one: {hashes: ["D1"], on: ["comp_floors"]}`), 0644))
	require.NoError(t, os.WriteFile(yamlPath, []byte("compatibility:\n  - hashes: [D1]\n    on: [COMP_FLOORS, comp_ninja]\n"), 0644))

	scenario := &Scenario{
		Name:        "files",
		Description: "spec files then inline sections",
		Specs:       []string{cuePath, yamlPath},
		Sections:    []ir.Section{{Hashes: []string{"D1"}, Off: []string{"comp_ninja"}}},
		Steps:       []Step{{Digest: "D1"}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.Equal(t, engine.IngestStats{Sections: 3, Added: 3, Duplicates: 1}, result.Stats)
	assert.Equal(t, []string{"comp_floors"}, result.Trace[0].On)
	assert.Equal(t, []string{"comp_ninja"}, result.Trace[0].Off)
}

func TestRun_BadSpecFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.cue")
	require.NoError(t, os.WriteFile(path, []byte(`compatibility: one: {hashes: [1]}`), 0644))

	_, err := Run(&Scenario{Name: "bad", Specs: []string{path}, Steps: []Step{{Digest: "D1"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load sections")
}

func TestRun_Deterministic(t *testing.T) {
	scenario := inlineScenario(
		[]ir.Section{{Hashes: []string{"D1"}, On: []string{"comp_jump", "bogus"}, Off: []string{"comp_jump"}}},
		Step{Digest: "D1"},
		Step{Digest: "D1"},
	)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	a, err := Snapshot(scenario.Name, first)
	require.NoError(t, err)
	b, err := Snapshot(scenario.Name, second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestEqualNames(t *testing.T) {
	assert.True(t, equalNames([]string{"comp_A", "comp_b"}, []string{"COMP_a", "comp_B"}))
	assert.False(t, equalNames([]string{"comp_a", "comp_b"}, []string{"comp_b", "comp_a"}))
	assert.False(t, equalNames([]string{"comp_a"}, []string{}))
	assert.True(t, equalNames([]string{}, nil))
}
