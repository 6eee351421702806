package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/qualitygate/internal/contract"
	"github.com/huangsam/qualitygate/schema"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// initCmd writes a documented config file with the built-in defaults.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a qualitygate configuration file",
	Long: `Generate a YAML configuration file holding the built-in checks and defaults,
ready to be edited.

Examples:
  # Create .qualitygate.yaml in the current directory
  qualitygate init

  # Custom output path, overwriting an existing file
  qualitygate init --path ci/qualitygate.yaml --force

  # Interactive setup wizard
  qualitygate init -i`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("path")
	force, _ := cmd.Flags().GetBool("force")
	interactive, _ := cmd.Flags().GetBool("interactive")

	fc := contract.DefaultFileConfig()
	if interactive {
		var err error
		if fc, configPath, err = runInteractiveSetup(fc, configPath); err != nil {
			return err
		}
	}

	return writeConfigFile(cmd.OutOrStdout(), fc, configPath, force)
}

// writeConfigFile renders fc to configPath unless a file is already there.
func writeConfigFile(out io.Writer, fc contract.FileConfig, configPath string, force bool) error {
	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	content, err := contract.MarshalConfigTemplate(fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	_, _ = fmt.Fprintf(out, "Created %s\n", displayPath)
	_, _ = fmt.Fprintln(out, "\nRun 'qualitygate check' to gate your documentation.")
	return nil
}

func runInteractiveSetup(fc contract.FileConfig, defaultConfigPath string) (contract.FileConfig, string, error) {
	fmt.Println()
	fmt.Println("Quality Gate Configuration Setup")
	fmt.Println("================================")
	fmt.Println()

	outputModes := []struct {
		Label string
		Value schema.OutputMode
	}{
		{"Markdown (the report CI posts)", schema.MarkdownOut},
		{"Text table", schema.TextOut},
		{"JSON", schema.JSONOut},
		{"HTML page", schema.HTMLOut},
	}

	outputTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "\U0001F449 {{ .Label | cyan }}",
		Inactive: "   {{ .Label | white }}",
		Selected: "\U00002705 {{ .Label | green }}",
	}

	outputPrompt := promptui.Select{
		Label:     "Which output format should runs print?",
		Items:     outputModes,
		Templates: outputTemplates,
	}
	outputIdx, _, err := outputPrompt.Run()
	if err != nil {
		return fc, "", fmt.Errorf("output selection cancelled: %w", err)
	}
	fc.Output = string(outputModes[outputIdx].Value)

	fmt.Println()

	timeoutPrompt := promptui.Prompt{
		Label:   "Time budget per check",
		Default: fc.Timeout,
		Validate: func(s string) error {
			_, err := contract.ParseTimeout(s)
			return err
		},
	}
	timeout, err := timeoutPrompt.Run()
	if err != nil {
		return fc, "", fmt.Errorf("timeout input cancelled: %w", err)
	}
	fc.Timeout = strings.TrimSpace(timeout)

	fmt.Println()

	commentPrompt := promptui.Select{
		Label: "Post the report as a pull request comment in CI?",
		Items: []string{"Yes, and keep one comment up to date", "Yes, a new comment per run", "No"},
	}
	commentIdx, _, err := commentPrompt.Run()
	if err != nil {
		return fc, "", fmt.Errorf("comment selection cancelled: %w", err)
	}
	fc.Comment = commentIdx < 2
	fc.CommentUpdate = commentIdx == 0

	fmt.Println()

	pathPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}
	configPath, err := pathPrompt.Run()
	if err != nil {
		return fc, "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if configPath == "" {
		configPath = defaultConfigPath
	}

	fmt.Println()
	return fc, configPath, nil
}
