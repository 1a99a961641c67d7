// Package commands implements the itam command line.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vsinha/itam/pkg/interfaces/cli/output"
)

var (
	configPath string
	format     string
	outputDir  string
	dataDir    string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "itam",
	Short: "IT asset management service",
	Long: `itam tracks data center and back office assets, software licences and
support contracts.

Run "itam serve" for the REST API, or use the reporting commands to inspect
rack layouts and deprecated hardware directly against the configured store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command selected by the process arguments
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "text", "Report format: text, json or csv")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Directory to write reports to instead of stdout")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Directory of CSV files to seed the memory store with")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func outputConfig(cmd *cobra.Command) output.Config {
	return output.Config{
		Format:    format,
		OutputDir: outputDir,
		Verbose:   verbose,
		Stdout:    cmd.OutOrStdout(),
	}
}
