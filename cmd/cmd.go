// Package cmd defines the command-line interface for qualitygate.
package cmd

import (
	"github.com/huangsam/qualitygate/internal/contract"
	"github.com/huangsam/qualitygate/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeoutStr, "Time budget per check (e.g. 90s or '2 minutes')")
	rootCmd.PersistentFlags().String("output", string(schema.MarkdownOut), "Output format: markdown or text or json or csv or html or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Bool("progress", false, "Show a spinner per check on interactive terminals")
	rootCmd.PersistentFlags().Int("max-issue-codes", schema.DefaultMaxIssueCodes, "Maximum distinct issue codes listed per check")
	rootCmd.PersistentFlags().String("help-link", schema.DefaultHelpLink, "Rule reference linked from the report")
	rootCmd.PersistentFlags().StringSlice("fix-commands", schema.DefaultFixCommands, "Commands listed in the report's how-to-fix block")
	rootCmd.PersistentFlags().Bool("comment", false, "Post the report as a pull request comment")
	rootCmd.PersistentFlags().String("comment-repo", "", "Repository to comment on as owner/name (defaults to $GITHUB_REPOSITORY)")
	rootCmd.PersistentFlags().Int("comment-pr", 0, "Pull request number (defaults to the number in $GITHUB_REF)")
	rootCmd.PersistentFlags().String("comment-api-url", contract.DefaultGitHubAPIURL, "GitHub API base URL")
	rootCmd.PersistentFlags().Bool("comment-update", false, "Edit the previous report comment instead of adding a new one")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// initCmd flags are read directly and never reach the shared config
	initCmd.Flags().BoolP("force", "f", false, "Overwrite existing config file")
	initCmd.Flags().BoolP("interactive", "i", false, "Interactive setup wizard")
	initCmd.Flags().String("path", contract.DefaultConfigName+"."+contract.DefaultConfigFileExt, "Output path for the config file")

	versionCmd.Flags().Bool("short", false, "Print only the release version")
}
