package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/wadcompat/internal/ir"
)

// SectionsField is the top-level field holding compatibility sections.
const SectionsField = "compatibility"

// WalkSections compiles every section under v, which must be a struct of
// named sections or a list of sections. fn is called once per section with
// either the compiled section or its CompileError; returning false stops
// the walk.
//
// The returned error covers v itself (wrong kind, unreadable fields), never
// an individual section.
func WalkSections(v cue.Value, fn func(label string, section *ir.Section, err error) bool) error {
	switch v.IncompleteKind() {
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return fmt.Errorf("iterating sections: %w", err)
		}
		for iter.Next() {
			section, err := CompileSection(iter.Value())
			if !fn(iter.Label(), section, err) {
				return nil
			}
		}
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return fmt.Errorf("iterating sections: %w", err)
		}
		for i := 0; iter.Next(); i++ {
			section, err := CompileSection(iter.Value())
			if !fn(fmt.Sprintf("%d", i), section, err) {
				return nil
			}
		}
	default:
		return fmt.Errorf("%s must be a struct or list of sections", SectionsField)
	}
	return nil
}

// LoadFile reads the sections of a single .cue, .yaml or .yml file.
// Stops at the first invalid section.
func LoadFile(path string) ([]ir.Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return DecodeYAMLSections(data)
	case ".cue":
	default:
		return nil, fmt.Errorf("%s: unsupported file type", path)
	}

	value := cuecontext.New().CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	sectionsVal := value.LookupPath(cue.ParsePath(SectionsField))
	if !sectionsVal.Exists() {
		return nil, nil
	}

	var (
		sections []ir.Section
		firstErr error
	)
	walkErr := WalkSections(sectionsVal, func(label string, section *ir.Section, err error) bool {
		if err != nil {
			firstErr = fmt.Errorf("%s.%s: %w", SectionsField, label, err)
			return false
		}
		sections = append(sections, *section)
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return sections, nil
}
