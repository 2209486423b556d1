package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/wadcompat/internal/engine"
	"github.com/roach88/wadcompat/internal/ir"
)

// Validation codes (E100-E199).
//
// Validation is advisory. Ingestion accepts every section exactly as
// written and drops whatever does not resolve; these codes explain what
// will be dropped or overridden.
const (
	ErrNoHashes       = "E101" // section lists no digests, skipped
	ErrNoSettings     = "E102" // section has neither on nor off, skipped
	ErrMissingPrefix  = "E103" // name lacks the comp_ prefix
	ErrUnknownFlag    = "E104" // name matches no known flag or alias
	ErrDuplicateName  = "E105" // name repeats within the same list
	ErrConflictingSet = "E106" // same flag forced on and off; off wins
	ErrEmptyDigest    = "E107" // blank digest string
)

// ValidationError represents a lint finding for one section.
type ValidationError struct {
	Section string `json:"section,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	field := e.Field
	if e.Section != "" {
		field = e.Section + "." + field
	}
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, field, e.Message)
}

// Validate checks a section against the known-flag table.
// Returns all findings (does not fail-fast).
func Validate(section *ir.Section) []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{
			Section: section.Name,
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Code:    code,
		})
	}

	if len(section.Hashes) == 0 {
		add(FieldHashes, ErrNoHashes, "no hashes listed; section has no effect")
	}
	if len(section.On) == 0 && len(section.Off) == 0 {
		add(FieldOn, ErrNoSettings, "neither on nor off lists a flag; section has no effect")
	}

	for i, digest := range section.Hashes {
		if strings.TrimSpace(digest) == "" {
			add(fmt.Sprintf("%s[%d]", FieldHashes, i), ErrEmptyDigest, "digest is empty")
		}
	}

	enabled := make(map[engine.Flag]string)
	for _, intent := range []ir.Intent{ir.IntentEnable, ir.IntentDisable} {
		seen := make(map[string]bool)
		for i, name := range section.Names(intent) {
			field := fmt.Sprintf("%s[%d]", intent, i)

			folded := ir.FoldName(name)
			if seen[folded] {
				add(field, ErrDuplicateName, "duplicate name %q", name)
				continue
			}
			seen[folded] = true

			flag, reason, ok := engine.Resolve(name)
			if !ok {
				switch reason {
				case engine.ReasonMissingPrefix:
					add(field, ErrMissingPrefix, "%q does not start with %q and will be ignored", name, ir.FlagPrefix)
				default:
					add(field, ErrUnknownFlag, "%q is not a known compatibility flag and will be ignored", name)
				}
				continue
			}

			if intent == ir.IntentEnable {
				enabled[flag] = name
			} else if onName, both := enabled[flag]; both {
				add(field, ErrConflictingSet, "%q is also enabled as %q; disable wins", name, onName)
			}
		}
	}

	return errs
}
