package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/wadcompat/internal/compiler"
	"github.com/roach88/wadcompat/internal/ir"
)

// SectionPath is the top-level CUE field holding compatibility sections.
const SectionPath = compiler.SectionsField

// LoadMode controls how errors are handled during spec loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the sections loaded from a specs directory.
// CUE sections come first, then YAML sections in file order.
type LoadResult struct {
	Sections  []ir.Section
	CUEFiles  []string
	YAMLFiles []string
}

// FileCount returns the number of spec files found.
func (r *LoadResult) FileCount() int {
	return len(r.CUEFiles) + len(r.YAMLFiles)
}

// LoadError represents an error that occurred during spec loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSpecs loads compatibility sections from the .cue and .yaml files in dir.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
//
// A nil result means the directory itself could not be used.
func LoadSpecs(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, yamlFiles, err := FindSpecFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 && len(yamlFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE or YAML files found in %s", dir)}}
	}

	result := &LoadResult{CUEFiles: cueFiles, YAMLFiles: yamlFiles}
	var errs []error

	if len(cueFiles) > 0 {
		sections, cueErrs := loadCUESections(dir, mode)
		result.Sections = append(result.Sections, sections...)
		errs = append(errs, cueErrs...)
		if len(errs) > 0 && mode == LoadModeFailFast {
			return result, errs
		}
	}

	for _, path := range yamlFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("reading %s: %v", path, err)})
		} else if sections, err := compiler.DecodeYAMLSections(data); err != nil {
			errs = append(errs, &LoadError{Code: ErrCodeYAMLFailed, Message: fmt.Sprintf("%s: %v", path, err)})
		} else {
			result.Sections = append(result.Sections, sections...)
			continue
		}
		if mode == LoadModeFailFast {
			return result, errs
		}
	}

	return result, errs
}

// loadCUESections builds the CUE package in dir and compiles every
// section under the top-level "compatibility" field. The field may be a
// struct of named sections or a list of sections.
func loadCUESections(dir string, mode LoadMode) ([]ir.Section, []error) {
	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	sectionsVal := value.LookupPath(cue.ParsePath(SectionPath))
	if !sectionsVal.Exists() {
		return nil, nil
	}

	var (
		sections []ir.Section
		errs     []error
	)
	walkErr := compiler.WalkSections(sectionsVal, func(label string, section *ir.Section, err error) bool {
		if err != nil {
			errs = append(errs, convertCompileError(err, SectionPath+"."+label))
			return mode != LoadModeFailFast
		}
		sections = append(sections, *section)
		return true
	})
	if walkErr != nil {
		return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: walkErr.Error(), Pos: sectionsVal.Pos()}}
	}

	return sections, errs
}

// FindSpecFiles returns the .cue and .yaml/.yml paths directly inside dir.
// Subdirectories are not searched; the CUE package is built from dir alone.
func FindSpecFiles(dir string) (cueFiles, yamlFiles []string, err error) {
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(path) {
		case ".cue":
			cueFiles = append(cueFiles, path)
		case ".yaml", ".yml":
			yamlFiles = append(yamlFiles, path)
		}
		return nil
	})
	return cueFiles, yamlFiles, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeInvalidSection,
			Message: fmt.Sprintf("%s: %s: %s", context, compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric        = "E001" // Generic/unknown error
	ErrCodeScanError      = "E002" // Directory scan error
	ErrCodeNoFiles        = "E003" // No CUE or YAML files found
	ErrCodeLoadFailed     = "E004" // CUE load failed
	ErrCodeNotFound       = "E005" // Path not found
	ErrCodeBuildFailed    = "E006" // CUE build failed
	ErrCodeWriteFailed    = "E007" // File write error
	ErrCodeYAMLFailed     = "E008" // YAML parse failed
	ErrCodeDigestFailed   = "E009" // Content digest failed
	ErrCodeInvalidSection = "E010" // Section fields have the wrong shape
)
