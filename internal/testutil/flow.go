package testutil

import "fmt"

// CountingIDGenerator hands out "<prefix>-1", "<prefix>-2", ... forever.
//
// Unlike engine.FixedGenerator, which replays a fixed list and panics when
// it runs out, this generator never exhausts. Scenario runs use it so the
// same scenario always yields the same report IDs.
//
// Not safe for concurrent use.
type CountingIDGenerator struct {
	prefix string
	n      int
}

// NewCountingIDGenerator creates a generator for the given prefix.
//
// The prefix is typically set in the scenario YAML:
//
//	report_prefix: "map07"
//
// If prefix is empty, IDs are "report-1", "report-2", ...
func NewCountingIDGenerator(prefix string) *CountingIDGenerator {
	if prefix == "" {
		prefix = "report"
	}
	return &CountingIDGenerator{prefix: prefix}
}

// Generate returns the next ID.
//
// Implements engine.IDGenerator.
func (g *CountingIDGenerator) Generate() string {
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
