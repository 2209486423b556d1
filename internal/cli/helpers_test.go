package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const sampleCUE = `
package test

compatibility: {
	map07: {
		hashes: ["ABC123"]
		on: ["comp_jump", "comp_telefrag"]
	}
	plutonia: {
		hashes: ["XYZ"]
		on: ["comp_zombie"]
		off: ["comp_telefrag", "bogus"]
	}
}
`

const sampleYAML = `
compatibility:
  - name: evilution
    hashes: [XYZ]
    on: [Comp_Zombie, comp_stairs]
`

// writeSpecs creates a specs directory holding the given files.
func writeSpecs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

// execute runs cmd with args and returns its stdout.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
