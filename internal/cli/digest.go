package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/wadcompat/internal/ir"
)

// FileDigest pairs a file with its content digest.
type FileDigest struct {
	Path      string    `json:"path"`
	Algorithm string    `json:"algorithm"`
	Digest    ir.Digest `json:"digest"`
}

// NewDigestCommand creates the digest command.
func NewDigestCommand(rootOpts *RootOptions) *cobra.Command {
	var algorithm string

	cmd := &cobra.Command{
		Use:   "digest <file>...",
		Short: "Print the content digest of packages",
		Long: `Print the content digest of each file, the key compatibility sections
list under "hashes".`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			alg := algorithm
			if alg == "" {
				alg = rootOpts.config().DigestAlgorithm
			}
			return runDigest(rootOpts, alg, args, cmd)
		},
	}

	cmd.Flags().StringVar(&algorithm, "algorithm", "", "digest algorithm (md5|sha1|sha256, default from config)")

	return cmd
}

func runDigest(opts *RootOptions, alg string, paths []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	digests := make([]FileDigest, 0, len(paths))
	for _, path := range paths {
		d, err := ir.DigestFile(alg, path)
		if err != nil {
			return outputCommandError(formatter, ErrCodeDigestFailed, err.Error())
		}
		digests = append(digests, FileDigest{Path: path, Algorithm: alg, Digest: d})
	}

	if formatter.Format == "json" {
		return formatter.Success(digests)
	}
	for _, d := range digests {
		fmt.Fprintf(formatter.Writer, "%s  %s\n", d.Digest, d.Path)
	}
	return nil
}
