package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/corecall/internal/version"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	versionCheck bool
	// releaseClient is replaced in tests.
	releaseClient = version.NewClient()
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the corecall version",
	Long: `Print the version, commit and build date. With --check the latest
release is looked up on GitHub.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	versionCmd.GroupID = "config"
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionCheck, "check", false, "check GitHub for a newer release")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	info := version.Current()
	result := struct {
		version.BuildInfo
		Update *version.Check `json:"update,omitempty"`
	}{BuildInfo: info}

	if versionCheck {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		check, err := releaseClient.CheckLatest(ctx, info.Version)
		if err != nil {
			return err
		}
		result.Update = check
	}

	return formatter.Render(cmd.OutOrStdout(), result, func(w io.Writer) error {
		out(w, "corecall %s\n", info)
		if u := result.Update; u != nil {
			if u.IsNewer {
				formatter.Infof(w, "Version %s is available", u.Latest)
			} else {
				formatter.Successf(w, "Up to date")
			}
		}
		return nil
	})
}
