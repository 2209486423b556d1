package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileValidSpecs(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"a.cue": sampleCUE})

	out, err := execute(NewCompileCommand(&RootOptions{Format: "text", NoColor: true}), dir)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Compiled 2 section(s) into 2 digest(s)")
	assert.Contains(t, out, "ABC123\n  on:  comp_jump, comp_telefrag\n")
	assert.Contains(t, out, "XYZ\n  on:  comp_zombie\n  off: comp_telefrag, bogus\n")
}

func TestCompileMergesCUEAndYAML(t *testing.T) {
	dir := writeSpecs(t, map[string]string{
		"a.cue":  sampleCUE,
		"b.yaml": sampleYAML,
	})

	out, err := execute(NewCompileCommand(&RootOptions{Format: "text", NoColor: true}), dir)
	require.NoError(t, err)

	// Comp_Zombie duplicates comp_zombie under XYZ and is dropped.
	assert.Contains(t, out, "Compiled 3 section(s) into 2 digest(s)")
	assert.Contains(t, out, "  on:  comp_zombie, comp_stairs\n")
	assert.Contains(t, out, "dropped 1 duplicate name(s)")
}

func TestCompileSkipsEmptySections(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"a.cue": `
package test

compatibility: [
	{hashes: [], on: ["comp_jump"]},
	{hashes: ["D1"]},
]
`})

	out, err := execute(NewCompileCommand(&RootOptions{Format: "text", NoColor: true}), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Compiled 2 section(s) into 0 digest(s)")
	assert.Contains(t, out, "Skipped 2 empty section(s)")
}

func TestCompileValidSpecsJSON(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"a.cue": sampleCUE})

	out, err := execute(NewCompileCommand(&RootOptions{Format: "json"}), dir)
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		Data   CompilationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Stats.Sections)
	assert.Equal(t, 5, resp.Data.Stats.Added)
	require.Len(t, resp.Data.Digests, 2)
	assert.Equal(t, "ABC123", resp.Data.Digests[0].Digest)
	assert.Equal(t, []string{"comp_jump", "comp_telefrag"}, resp.Data.Digests[0].On)
	assert.Equal(t, []string{}, resp.Data.Digests[0].Off)
}

func TestCompileOutputToFile(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"a.yaml": `
compatibility:
  - hashes: [D1]
    on: [comp_vile]
    off: [comp_pain]
`})
	outputFile := filepath.Join(t.TempDir(), "registry.json")

	out, err := execute(NewCompileCommand(&RootOptions{Format: "text", NoColor: true}), dir, "--output", outputFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote registry to "+outputFile)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Equal(t, `{"digests":[{"digest":"D1","off":["comp_pain"],"on":["comp_vile"]}]}`, string(data))
}

func TestCompileMissingDirectory(t *testing.T) {
	_, err := execute(NewCompileCommand(&RootOptions{Format: "text"}), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeNotFound)
}

func TestCompileNoFiles(t *testing.T) {
	_, err := execute(NewCompileCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeNoFiles)
}

func TestCompileCollectsAllErrors(t *testing.T) {
	dir := writeSpecs(t, map[string]string{
		"a.cue": `
package test

compatibility: {
	one: {hashes: "D1", on: [1]}
	two: {hashes: ["D2"], off: {x: 1}}
}
`,
		"b.yaml": "compatibility: [{hashes: [D3], bogus: 1}]\n",
	})

	out, err := execute(NewCompileCommand(&RootOptions{Format: "text", NoColor: true}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "loading failed with 3 error(s)")
	assert.Contains(t, out, "✗ Loading failed")
	assert.Contains(t, out, ErrCodeInvalidSection)
	assert.Contains(t, out, ErrCodeYAMLFailed)
}
