package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wadcompat/internal/engine"
	"github.com/roach88/wadcompat/internal/ir"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Digest    string
	File      string
	Algorithm string
}

// FlagResult is one active flag after applying.
type FlagResult struct {
	Flag  string `json:"flag"`
	Name  string `json:"name"`
	Index int    `json:"index"`
	Value bool   `json:"value"`
}

// ApplyResult is the flag state after ApplyCompatibility.
type ApplyResult struct {
	ID        string           `json:"id"`
	Digest    ir.Digest        `json:"digest"`
	Flags     []FlagResult     `json:"flags"`
	Discarded []engine.Discard `json:"discarded"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply [specs-dir] (--digest <digest> | --file <path>)",
		Short: "Show the flag overrides a content package receives",
		Long: `Load the compatibility sections, apply them for one content digest and
print the resulting flag state: every flag forced on or off, and every
configured name that was ignored.

Use --file to hash a content package instead of passing its digest.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, opts.specsDir(args), cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Digest, "digest", "d", "", "content digest to apply")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "content package to hash and apply")
	cmd.Flags().StringVar(&opts.Algorithm, "algorithm", "", "digest algorithm for --file (md5|sha1|sha256, default from config)")
	cmd.MarkFlagsMutuallyExclusive("digest", "file")
	cmd.MarkFlagsOneRequired("digest", "file")

	return cmd
}

func runApply(opts *ApplyOptions, specsDir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	digest := opts.Digest
	if opts.File != "" {
		alg := opts.Algorithm
		if alg == "" {
			alg = opts.config().DigestAlgorithm
		}
		d, err := ir.DigestFile(alg, opts.File)
		if err != nil {
			return outputCommandError(formatter, ErrCodeDigestFailed, err.Error())
		}
		formatter.VerboseLog("%s digest of %s: %s", alg, opts.File, d)
		digest = d
	}

	compat, _, _, err := loadCompatibility(opts.RootOptions, specsDir, LoadModeFailFast, formatter, cmd)
	if err != nil {
		return err
	}

	report := compat.ApplyCompatibility(digest)
	result := buildApplyResult(compat.State(), report)

	return outputApplySuccess(formatter, result)
}

// buildApplyResult reads the active flags back out of the state.
func buildApplyResult(state *engine.FlagState, report *engine.Report) *ApplyResult {
	result := &ApplyResult{
		ID:        report.ID,
		Digest:    report.Digest,
		Flags:     []FlagResult{},
		Discarded: report.Discarded,
	}
	for _, f := range state.ActiveFlags() {
		result.Flags = append(result.Flags, FlagResult{
			Flag:  f.String(),
			Name:  f.Name(),
			Index: int(f),
			Value: state.Enabled(f),
		})
	}
	return result
}

// outputApplySuccess outputs the applied flag state.
func outputApplySuccess(formatter *OutputFormatter, result *ApplyResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if len(result.Flags) == 0 {
		fmt.Fprintf(w, "No compatibility overrides for %s\n", result.Digest)
	} else {
		fmt.Fprintf(w, "%s Applied %d override(s) for %s\n\n", formatter.Pass(), len(result.Flags), result.Digest)
		for _, f := range result.Flags {
			fmt.Fprintf(w, "  %-18s %s\n", f.Name, formatter.OnOff(f.Value))
		}
	}

	if len(result.Discarded) > 0 {
		fmt.Fprintf(w, "\nIgnored %d name(s):\n", len(result.Discarded))
		for _, d := range result.Discarded {
			fmt.Fprintf(w, "  %s (%s, %s)\n", d.Name, d.Intent, d.Reason)
		}
	}

	return nil
}
