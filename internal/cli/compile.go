package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/wadcompat/internal/engine"
	"github.com/roach88/wadcompat/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// DigestEntry lists the overrides registered for one digest.
type DigestEntry struct {
	Digest ir.Digest     `json:"digest"`
	On     []ir.FlagName `json:"on"`
	Off    []ir.FlagName `json:"off"`
}

// CompilationResult is the registry contents after ingestion.
type CompilationResult struct {
	Stats   engine.IngestStats `json:"stats"`
	Digests []DigestEntry      `json:"digests"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [specs-dir]",
		Short: "Compile compatibility sections into the per-digest registry",
		Long: `Load every compatibility section from the specs directory and show the
resulting registry: for each digest, the flag names forced on and off.

Duplicate names under the same digest are dropped, and sections without
digests or without settings are skipped, exactly as at engine load time.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, opts.specsDir(args), cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the registry as canonical JSON to this file")

	return cmd
}

func runCompile(opts *CompileOptions, specsDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	compat, loadResult, stats, err := loadCompatibility(opts.RootOptions, specsDir, LoadModeCollectAll, formatter, cmd)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Found %d spec file(s) in %s", loadResult.FileCount(), specsDir)

	result := &CompilationResult{
		Stats:   stats,
		Digests: registryEntries(compat),
	}

	if opts.Output != "" {
		if err := writeRegistryToFile(result, opts.Output); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputCompileSuccess(formatter, result, opts.Output)
}

// loadCompatibility loads sections from specsDir and ingests them into a
// fresh Compatibility. Load errors are reported through the formatter and
// returned as an ExitError.
func loadCompatibility(opts *RootOptions, specsDir string, mode LoadMode, formatter *OutputFormatter, cmd *cobra.Command) (*engine.Compatibility, *LoadResult, engine.IngestStats, error) {
	loadResult, loadErrors := LoadSpecs(specsDir, mode)
	if len(loadErrors) > 0 {
		return nil, loadResult, engine.IngestStats{}, outputLoadErrors(formatter, loadErrors)
	}

	compat := engine.New(nil, engine.WithLogger(opts.logger(cmd.ErrOrStderr())))
	stats := compat.ProcessCompatibilities(loadResult.Sections)
	formatter.VerboseLog("Ingested %d section(s): %d added, %d duplicate(s), %d skipped",
		stats.Sections, stats.Added, stats.Duplicates, stats.Skipped)

	return compat, loadResult, stats, nil
}

// registryEntries lists every digest known to either registry, enable
// digests first, each in first-insertion order.
func registryEntries(compat *engine.Compatibility) []DigestEntry {
	on := compat.Registry(ir.IntentEnable)
	off := compat.Registry(ir.IntentDisable)

	var digests []ir.Digest
	seen := make(map[ir.Digest]bool)
	for _, d := range append(on.Digests(), off.Digests()...) {
		if !seen[d] {
			seen[d] = true
			digests = append(digests, d)
		}
	}

	entries := make([]DigestEntry, 0, len(digests))
	for _, d := range digests {
		entries = append(entries, DigestEntry{
			Digest: d,
			On:     nonNil(on.Entries(d)),
			Off:    nonNil(off.Entries(d)),
		})
	}
	return entries
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// outputCompileSuccess outputs the compiled registry.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s Compiled %d section(s) into %d digest(s)\n\n",
		formatter.Pass(), result.Stats.Sections, len(result.Digests))

	for _, entry := range result.Digests {
		fmt.Fprintln(w, entry.Digest)
		if len(entry.On) > 0 {
			fmt.Fprintf(w, "  %s:  %s\n", formatter.OnOff(true), strings.Join(entry.On, ", "))
		}
		if len(entry.Off) > 0 {
			fmt.Fprintf(w, "  %s: %s\n", formatter.OnOff(false), strings.Join(entry.Off, ", "))
		}
	}
	if len(result.Digests) > 0 {
		fmt.Fprintln(w)
	}

	if result.Stats.Skipped > 0 || result.Stats.Duplicates > 0 {
		fmt.Fprintf(w, "Skipped %d empty section(s), dropped %d duplicate name(s)\n",
			result.Stats.Skipped, result.Stats.Duplicates)
	}
	if outputFile != "" {
		fmt.Fprintf(w, "Wrote registry to %s\n", outputFile)
	}

	return nil
}

// outputCommandError outputs a single command-level error (exit code 2).
func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputLoadErrors outputs every load error (exit code 2).
func outputLoadErrors(formatter *OutputFormatter, errs []error) error {
	if len(errs) == 1 {
		code, message := parseLoadError(errs[0])
		return outputCommandError(formatter, code, message)
	}

	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseLoadError(err)
			cliErrors[i] = CLIError{Code: code, Message: message}
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors,
		}); err != nil {
			return err
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("loading failed with %d error(s)", len(errs)))
	}

	fmt.Fprintf(formatter.Writer, "%s Loading failed\n\n", formatter.Fail())
	for _, err := range errs {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
		}
		code, message := parseLoadError(err)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("loading failed with %d error(s)", len(errs)))
}

// parseLoadError extracts error code and message from an error.
func parseLoadError(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// writeRegistryToFile writes the registry as canonical JSON.
func writeRegistryToFile(result *CompilationResult, filename string) error {
	digests := make([]any, len(result.Digests))
	for i, entry := range result.Digests {
		digests[i] = map[string]any{
			"digest": entry.Digest,
			"on":     entry.On,
			"off":    entry.Off,
		}
	}

	data, err := ir.MarshalCanonical(map[string]any{"digests": digests})
	if err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
