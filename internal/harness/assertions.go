package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/wadcompat/internal/engine"
)

// AssertionContext gives assertions access to the engine after the run.
type AssertionContext struct {
	Compat *engine.Compatibility
	Stats  engine.IngestStats
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s on=%v off=%v\n", event.Seq, event.Digest, event.On, event.Off)
	}

	return buf.String()
}

// assertFlagState checks the final state of one flag.
func assertFlagState(trace []TraceEvent, assertion Assertion, actx *AssertionContext) error {
	flag, _, ok := engine.Resolve(assertion.Flag)
	if !ok {
		return &AssertionError{
			Type:     AssertFlagState,
			Expected: fmt.Sprintf("known flag %q", assertion.Flag),
			Actual:   "name does not resolve",
			Trace:    trace,
		}
	}

	actual := stateName(actx.Compat.State(), flag)
	if actual != assertion.State {
		return &AssertionError{
			Type:     AssertFlagState,
			Expected: fmt.Sprintf("%s is %s", flag.Name(), assertion.State),
			Actual:   fmt.Sprintf("%s is %s", flag.Name(), actual),
			Trace:    trace,
		}
	}
	return nil
}

// assertRegistryEntries checks the stored names for one digest and intent.
// Spelling and order must match exactly.
func assertRegistryEntries(trace []TraceEvent, assertion Assertion, actx *AssertionContext) error {
	actual := actx.Compat.Registry(assertion.Intent).Entries(assertion.Digest)
	if !slices.Equal(actual, assertion.Names) {
		return &AssertionError{
			Type:     AssertRegistryEntries,
			Expected: fmt.Sprintf("%s %s entries %v", assertion.Digest, assertion.Intent, assertion.Names),
			Actual:   fmt.Sprintf("%v", actual),
			Trace:    trace,
		}
	}
	return nil
}

// assertDiscardCount checks the total number of discarded names.
func assertDiscardCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		count += len(event.Discarded)
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertDiscardCount,
			Expected: fmt.Sprintf("%d discarded name(s)", assertion.Count),
			Actual:   fmt.Sprintf("%d discarded name(s)", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertIngestStats checks the ingestion counters.
func assertIngestStats(trace []TraceEvent, assertion Assertion, actx *AssertionContext) error {
	if *assertion.Stats != actx.Stats {
		return &AssertionError{
			Type:     AssertIngestStats,
			Expected: fmt.Sprintf("%+v", *assertion.Stats),
			Actual:   fmt.Sprintf("%+v", actx.Stats),
			Trace:    trace,
		}
	}
	return nil
}

// EvaluateAssertions runs every assertion and returns the failure
// messages. All assertions are evaluated (no fail-fast).
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error
		switch assertion.Type {
		case AssertFlagState:
			err = assertFlagState(result.Trace, assertion, actx)
		case AssertRegistryEntries:
			err = assertRegistryEntries(result.Trace, assertion, actx)
		case AssertDiscardCount:
			err = assertDiscardCount(result.Trace, assertion)
		case AssertIngestStats:
			if assertion.Stats == nil {
				err = fmt.Errorf("stats is required")
			} else {
				err = assertIngestStats(result.Trace, assertion, actx)
			}
		default:
			err = fmt.Errorf("unknown assertion type %q", assertion.Type)
		}

		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, assertion.Type, err))
		}
	}

	return errs
}
