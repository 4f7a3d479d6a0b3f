package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pkg2rpm",
		Short: "Export installed store packages as native RPM packages",
		Long: `Pkg2rpm takes a pre-built artifact installed under a package store
(laid out as <store>/<origin>/<name>/<version>/<release>/) and repackages
it as a native Linux RPM: it derives the package metadata from the store
manifest, stages the files into an rpmbuild build root, renders a spec
file and invokes rpmbuild, optionally signing the result.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	rootCmd.AddCommand(NewExportCmd())

	return rootCmd
}
