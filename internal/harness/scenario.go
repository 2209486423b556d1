package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/wadcompat/internal/engine"
	"github.com/roach88/wadcompat/internal/ir"
)

// Scenario defines a compatibility test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. Also names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs lists .cue or .yaml files holding compatibility sections.
	// Relative paths are resolved against the scenario's base path.
	Specs []string `yaml:"specs,omitempty"`

	// Sections are inline compatibility sections, ingested after Specs.
	Sections []ir.Section `yaml:"sections,omitempty"`

	// ReportPrefix seeds deterministic report IDs ("<prefix>-1", ...).
	// Defaults to "report".
	ReportPrefix string `yaml:"report_prefix,omitempty"`

	// Steps are applied in order against the same registries.
	Steps []Step `yaml:"steps"`

	// Assertions are checked after the last step.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step applies the overrides for one digest.
type Step struct {
	Digest ir.Digest `yaml:"digest"`

	// Expect is compared with the state after this step.
	// If nil, nothing is checked.
	Expect *Expectation `yaml:"expect,omitempty"`
}

// Expectation lists the flag state expected after a step.
// A nil list is not checked; an empty list means "none".
// Names compare case-insensitively.
type Expectation struct {
	// On lists the flags forced on, by full flag name, in table order.
	On []ir.FlagName `yaml:"on"`

	// Off lists the flags forced off, by full flag name, in table order.
	Off []ir.FlagName `yaml:"off"`

	// Discarded lists the configured names that were ignored, in the
	// order they were applied.
	Discarded []ir.FlagName `yaml:"discarded"`
}

// Assertion validates the final state of a run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "flag_state": Flag is in State ("on", "off" or "unset")
	// - "registry_entries": Digest has exactly Names under Intent
	// - "discard_count": Count names were discarded in total
	// - "ingest_stats": ingestion returned Stats
	Type string `yaml:"type"`

	// Flag is a configured flag name, alias included (used by flag_state).
	Flag ir.FlagName `yaml:"flag,omitempty"`

	// State is "on", "off" or "unset" (used by flag_state).
	State string `yaml:"state,omitempty"`

	// Digest and Intent select a registry list (used by registry_entries).
	Digest ir.Digest `yaml:"digest,omitempty"`
	Intent ir.Intent `yaml:"intent,omitempty"`

	// Names is the expected list, exact spelling and order (used by registry_entries).
	Names []ir.FlagName `yaml:"names,omitempty"`

	// Count is the expected number of discards (used by discard_count).
	Count int `yaml:"count,omitempty"`

	// Stats are the expected ingestion counters (used by ingest_stats).
	Stats *engine.IngestStats `yaml:"stats,omitempty"`
}

// Assertion type constants.
const (
	AssertFlagState       = "flag_state"
	AssertRegistryEntries = "registry_entries"
	AssertDiscardCount    = "discard_count"
	AssertIngestStats     = "ingest_stats"
)

// Flag states used by flag_state.
const (
	StateOn    = "on"
	StateOff   = "off"
	StateUnset = "unset"
)

// LoadScenario reads and parses a scenario YAML file. Relative spec paths
// are resolved against the scenario file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving spec paths relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "step:" vs "steps:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve spec paths relative to base path BEFORE validation
	for i, specPath := range scenario.Specs {
		if !filepath.IsAbs(specPath) && basePath != "" {
			scenario.Specs[i] = filepath.Join(basePath, specPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Specs) == 0 && len(s.Sections) == 0 {
		return fmt.Errorf("specs or sections is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for _, specPath := range s.Specs {
		if _, err := os.Stat(specPath); os.IsNotExist(err) {
			return fmt.Errorf("spec file not found: %s", specPath)
		}
	}

	for i, step := range s.Steps {
		if step.Digest == "" {
			return fmt.Errorf("steps[%d]: digest is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertFlagState:
		if a.Flag == "" {
			return fmt.Errorf("assertions[%d]: flag is required for flag_state", index)
		}
		if _, _, ok := engine.Resolve(a.Flag); !ok {
			return fmt.Errorf("assertions[%d]: %q is not a known flag", index, a.Flag)
		}
		switch a.State {
		case StateOn, StateOff, StateUnset:
		default:
			return fmt.Errorf("assertions[%d]: state must be on, off or unset for flag_state", index)
		}
	case AssertRegistryEntries:
		if a.Digest == "" {
			return fmt.Errorf("assertions[%d]: digest is required for registry_entries", index)
		}
		if a.Intent != ir.IntentEnable && a.Intent != ir.IntentDisable {
			return fmt.Errorf("assertions[%d]: intent must be on or off for registry_entries", index)
		}
	case AssertDiscardCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for discard_count", index)
		}
	case AssertIngestStats:
		if a.Stats == nil {
			return fmt.Errorf("assertions[%d]: stats is required for ingest_stats", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
