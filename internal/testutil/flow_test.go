package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/wadcompat/internal/engine"
)

var _ engine.IDGenerator = (*CountingIDGenerator)(nil)

func TestCountingIDGenerator(t *testing.T) {
	gen := NewCountingIDGenerator("map07")

	assert.Equal(t, "map07-1", gen.Generate())
	assert.Equal(t, "map07-2", gen.Generate())
	assert.Equal(t, "map07-3", gen.Generate())
}

func TestCountingIDGenerator_DefaultPrefix(t *testing.T) {
	gen := NewCountingIDGenerator("")
	assert.Equal(t, "report-1", gen.Generate())
}

func TestCountingIDGenerator_Independent(t *testing.T) {
	a := NewCountingIDGenerator("a")
	b := NewCountingIDGenerator("a")

	a.Generate()
	a.Generate()
	assert.Equal(t, "a-1", b.Generate(), "generators must not share a counter")
}

func TestCountingIDGenerator_DrivesEngine(t *testing.T) {
	compat := engine.New(nil, engine.WithIDGenerator(NewCountingIDGenerator("run")))

	assert.Equal(t, "run-1", compat.ApplyCompatibility("D1").ID)
	assert.Equal(t, "run-2", compat.ApplyCompatibility("D1").ID)
}
