package engine

import (
	"log/slog"

	"github.com/roach88/wadcompat/internal/ir"
	"github.com/roach88/wadcompat/internal/registry"
)

// IDGenerator generates report IDs for log correlation.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// Compatibility owns the enable and disable registries for one session and
// writes resolved overrides into the engine's FlagState.
//
// The registries live as long as the Compatibility value; there is no way
// to remove an entry once loaded.
type Compatibility struct {
	on     *registry.Registry
	off    *registry.Registry
	state  *FlagState
	logger *slog.Logger
	ids    IDGenerator
}

// Option configures a Compatibility.
type Option func(*Compatibility)

// WithLogger sets the logger used for discarded names and apply summaries.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compatibility) {
		c.logger = logger
	}
}

// WithIDGenerator sets the report ID generator.
// Default: UUIDv7Generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(c *Compatibility) {
		c.ids = gen
	}
}

// New creates a Compatibility that writes into state.
// A nil state gets a private FlagState, reachable through State().
func New(state *FlagState, opts ...Option) *Compatibility {
	if state == nil {
		state = &FlagState{}
	}
	c := &Compatibility{
		on:     registry.New(),
		off:    registry.New(),
		state:  state,
		logger: slog.Default(),
		ids:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the FlagState this Compatibility writes into.
func (c *Compatibility) State() *FlagState {
	return c.state
}

// Registry returns the registry for the given intent.
func (c *Compatibility) Registry(intent ir.Intent) *registry.Registry {
	if intent == ir.IntentDisable {
		return c.off
	}
	return c.on
}

// IngestStats summarizes one ProcessCompatibilities call.
type IngestStats struct {
	Sections   int `json:"sections"`
	Skipped    int `json:"skipped"`
	Added      int `json:"added"`
	Duplicates int `json:"duplicates"`
}

// ProcessCompatibilities ingests parsed sections into the registries.
//
// For every digest of a section, every "on" name goes to the enable
// registry and every "off" name to the disable registry, skipping names
// already present under that digest. A section with no digests, or with
// neither on nor off names, is skipped.
//
// Repeated calls accumulate into the same registries.
func (c *Compatibility) ProcessCompatibilities(sections []ir.Section) IngestStats {
	stats := IngestStats{Sections: len(sections)}

	for _, section := range sections {
		if section.Empty() {
			stats.Skipped++
			c.logger.Debug("compatibility section skipped",
				"section", section.Name,
				"hashes", len(section.Hashes),
			)
			continue
		}

		for _, digest := range section.Hashes {
			for _, intent := range []ir.Intent{ir.IntentEnable, ir.IntentDisable} {
				reg := c.Registry(intent)
				for _, name := range section.Names(intent) {
					if reg.AddIfAbsent(digest, name) {
						stats.Added++
					} else {
						stats.Duplicates++
					}
				}
			}
		}
	}

	return stats
}

// RestoreCompatibilities clears every override. Idempotent.
func (c *Compatibility) RestoreCompatibilities() {
	c.state.Reset()
}

// Resolution records one flag written by ApplyCompatibility.
type Resolution struct {
	Name  ir.FlagName `json:"name"`
	Flag  Flag        `json:"flag"`
	Value bool        `json:"value"`
}

// Discard records one name ApplyCompatibility could not resolve.
type Discard struct {
	Name   ir.FlagName   `json:"name"`
	Intent ir.Intent     `json:"intent"`
	Reason DiscardReason `json:"reason"`
}

// Report describes what ApplyCompatibility did. It is diagnostic only; the
// FlagState is the authoritative result.
type Report struct {
	ID        string       `json:"id"`
	Digest    ir.Digest    `json:"digest"`
	Applied   []Resolution `json:"applied"`
	Discarded []Discard    `json:"discarded"`
}

// ApplyCompatibility resets the FlagState and applies every override
// recorded for digest: enable entries first, then disable entries, so
// disable wins when a name appears in both.
//
// Unresolvable names are skipped. ApplyCompatibility never fails.
func (c *Compatibility) ApplyCompatibility(digest ir.Digest) *Report {
	c.RestoreCompatibilities()

	report := &Report{
		ID:        c.ids.Generate(),
		Digest:    digest,
		Applied:   []Resolution{},
		Discarded: []Discard{},
	}

	c.applyIntent(report, ir.IntentEnable, true)
	c.applyIntent(report, ir.IntentDisable, false)

	if len(report.Applied) > 0 {
		c.logger.Info("compatibility applied",
			"id", report.ID,
			"digest", digest,
			"applied", len(report.Applied),
			"discarded", len(report.Discarded),
		)
	}
	return report
}

func (c *Compatibility) applyIntent(report *Report, intent ir.Intent, value bool) {
	for name := range c.Registry(intent).All(report.Digest) {
		c.setItem(report, intent, name, value)
	}
}

// setItem resolves one name and writes it into the FlagState.
func (c *Compatibility) setItem(report *Report, intent ir.Intent, name ir.FlagName, value bool) {
	flag, reason, ok := Resolve(name)
	if !ok {
		c.logger.Debug("compatibility flag discarded",
			"id", report.ID,
			"digest", report.Digest,
			"name", name,
			"reason", string(reason),
		)
		report.Discarded = append(report.Discarded, Discard{Name: name, Intent: intent, Reason: reason})
		return
	}

	c.state.Set(flag, value)
	report.Applied = append(report.Applied, Resolution{Name: name, Flag: flag, Value: value})
}
