package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"github.com/roach88/wadcompat/internal/compiler"
	"github.com/roach88/wadcompat/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Sections int                        `json:"sections"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [specs-dir]",
		Short: "Lint compatibility sections",
		Long: `Lint compatibility sections without applying them.

Reports sections that will be skipped, names the engine will ignore
(missing comp_ prefix or unknown flag), duplicate names, and flags that
are forced both on and off. The engine itself accepts all of these
silently; validate exists so authors can see what will have no effect.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, rootOpts.specsDir(args), cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specsDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loadResult, loadErrors := LoadSpecs(specsDir, LoadModeCollectAll)
	if loadResult == nil && len(loadErrors) > 0 {
		code, message := parseLoadError(loadErrors[0])
		return outputCommandError(formatter, code, message)
	}

	formatter.VerboseLog("Found %d spec file(s) in %s", loadResult.FileCount(), specsDir)

	validationErrors := validateSections(loadResult.Sections, formatter)

	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			validationErrors = append(validationErrors, compiler.ValidationError{
				Field:   "load",
				Message: loadErr.Message,
				Code:    loadErr.Code,
				Line:    getLineFromCuePos(loadErr.Pos),
			})
		}
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, len(loadResult.Sections), validationErrors)
	}

	return outputValidateSuccess(formatter, len(loadResult.Sections))
}

// validateSections lints every section in order.
func validateSections(sections []ir.Section, formatter *OutputFormatter) []compiler.ValidationError {
	var allErrors []compiler.ValidationError
	for i := range sections {
		section := &sections[i]
		if section.Name == "" {
			section.Name = fmt.Sprintf("section[%d]", i)
		}
		formatter.VerboseLog("Validating section: %s", section.Name)
		allErrors = append(allErrors, compiler.Validate(section)...)
	}
	return allErrors
}

// getLineFromCuePos extracts line number from a token.Pos.
func getLineFromCuePos(pos token.Pos) int {
	if pos.IsValid() {
		return pos.Line()
	}
	return 0
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, sections int) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Sections: sections})
	}

	fmt.Fprintf(formatter.Writer, "%s All %d section(s) valid\n", formatter.Pass(), sections)
	return nil
}

// outputValidationErrors outputs validation findings (exit code 1).
func outputValidationErrors(formatter *OutputFormatter, sections int, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:    false,
				Sections: sections,
				Errors:   errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintf(formatter.Writer, "%s Validation failed\n\n", formatter.Fail())
	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s\n", err.Error())
	}
	fmt.Fprintln(formatter.Writer)

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
