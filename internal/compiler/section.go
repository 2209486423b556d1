package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/wadcompat/internal/ir"
)

// Section field names in configuration.
const (
	FieldHashes = "hashes"
	FieldOn     = "on"
	FieldOff    = "off"
)

// CompileSection parses a CUE value into a Section.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The value should be the section struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`compatibility: doom2_map07: { hashes: ["..."], on: ["comp_zombie"] }`)
//	section, err := CompileSection(v.LookupPath(cue.ParsePath("compatibility.doom2_map07")))
//
// All three lists are optional. Each may also be given as a single string.
func CompileSection(v cue.Value) (*ir.Section, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if v.IncompleteKind() != cue.StructKind {
		return nil, &CompileError{
			Field:   "compatibility",
			Message: fmt.Sprintf("section must be a struct, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}

	section := &ir.Section{}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		section.Name = selectorName(labels[len(labels)-1])
	}

	var err error
	if section.Hashes, err = parseStringList(v, FieldHashes); err != nil {
		return nil, err
	}
	if section.On, err = parseStringList(v, FieldOn); err != nil {
		return nil, err
	}
	if section.Off, err = parseStringList(v, FieldOff); err != nil {
		return nil, err
	}

	return section, nil
}

// selectorName returns a label without CUE quoting, so "doom2-map07"
// names the section doom2-map07.
func selectorName(sel cue.Selector) string {
	if sel.LabelType() == cue.StringLabel {
		return sel.Unquoted()
	}
	return sel.String()
}

// parseStringList reads an optional list-of-strings field.
// A single string is accepted as a one-element list.
func parseStringList(v cue.Value, field string) ([]string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return nil, nil
	}

	if s, err := fieldVal.String(); err == nil {
		return []string{s}, nil
	}

	if fieldVal.IncompleteKind() != cue.ListKind {
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("%s must be a list of strings", field),
			Pos:     fieldVal.Pos(),
		}
	}

	iter, err := fieldVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []string
	for i := 0; iter.Next(); i++ {
		s, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: "must be a string",
				Pos:     iter.Value().Pos(),
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
