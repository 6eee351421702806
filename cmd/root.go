package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/qualitygate/internal/contract"
	"github.com/huangsam/qualitygate/schema"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// exitFunc ends the process with the gate's exit code. Tests replace it.
var exitFunc = os.Exit

// rootCmd is the command-line entrypoint. Without a subcommand it runs the checks.
var rootCmd = &cobra.Command{
	Use:   "qualitygate [dir]",
	Short: "Gate documentation changes on format and lint checks.",
	Long: `Quality gate runs the Markdown format and lint checks, renders one
Markdown report and exits 0 when every check passed or 1 otherwise.`,
	Version:            version,
	Args:               cobra.MaximumNArgs(1),
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	PreRunE:            sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		runQualityGate()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A .env file is optional and never overrides the real environment
	_ = godotenv.Load()

	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(contract.DefaultConfigName)    // Name of config file (without extension)
		viper.SetConfigType(contract.DefaultConfigFileExt) // We'll use YAML format
		viper.AddConfigPath(".")                           // Look in the current directory
		viper.AddConfigPath("$HOME")                       // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("QUALITYGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// GitHub Actions provides these without our prefix
	bindEnvFallback("comment-token", "QUALITYGATE_COMMENT_TOKEN", "GITHUB_TOKEN")
	bindEnvFallback("comment-repo", "QUALITYGATE_COMMENT_REPO", "GITHUB_REPOSITORY")
	bindEnvFallback("comment-api-url", "QUALITYGATE_COMMENT_API_URL", "GITHUB_API_URL")
	bindEnvFallback("github-ref", "GITHUB_REF")

	// Set defaults in Viper
	viper.SetDefault("timeout", contract.DefaultTimeoutStr)
	viper.SetDefault("output", schema.MarkdownOut)
	viper.SetDefault("color", "yes")
	viper.SetDefault("max-issue-codes", schema.DefaultMaxIssueCodes)
	viper.SetDefault("comment-api-url", contract.DefaultGitHubAPIURL)
}

// bindEnvFallback binds key to the first of envs that is set.
func bindEnvFallback(key string, envs ...string) {
	if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
		contract.LogWarn("Error binding environment for "+key, err)
	}
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.DirStr = args[0]
	} else {
		input.DirStr = "."
	}

	// 4. Run all validation and complex parsing.
	// This function populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	color.NoColor = color.NoColor || !cfg.UseColors
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
