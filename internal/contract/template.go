package contract

import (
	"bytes"
	"fmt"

	"github.com/huangsam/qualitygate/schema"
	"gopkg.in/yaml.v3"
)

// FileConfig is the shape of the YAML config file written by init.
// Its keys match the ones viper reads back into ConfigRawInput.
type FileConfig struct {
	Timeout       string          `yaml:"timeout"`
	Output        string          `yaml:"output"`
	MaxIssueCodes int             `yaml:"max-issue-codes"`
	Progress      bool            `yaml:"progress"`
	HelpLink      string          `yaml:"help-link"`
	FixCommands   []string        `yaml:"fix-commands"`
	Comment       bool            `yaml:"comment"`
	CommentUpdate bool            `yaml:"comment-update"`
	Checks        []CheckRawInput `yaml:"checks"`
}

const templateHeader = `# Quality gate configuration.
# Every key can also be set with a flag (--timeout) or an environment
# variable (QUALITYGATE_TIMEOUT). Flags win over the environment, which
# wins over this file.
#
# Entries under checks named format or lint override the built-in checks.
# Any other name adds a new check that runs after them.
`

// DefaultFileConfig returns a config file that reproduces the built-in defaults.
func DefaultFileConfig() FileConfig {
	help := schema.DefaultHelp()
	fc := FileConfig{
		Timeout:       DefaultTimeoutStr,
		Output:        string(schema.MarkdownOut),
		MaxIssueCodes: schema.DefaultMaxIssueCodes,
		HelpLink:      help.Link,
		FixCommands:   help.Commands,
	}
	for _, spec := range schema.DefaultChecks() {
		fc.Checks = append(fc.Checks, CheckRawInput{
			Name:         string(spec.Name),
			Title:        spec.Title,
			Command:      spec.Command,
			IssuePattern: spec.IssuePattern,
			PassDetail:   spec.PassDetail,
			IssuesDetail: spec.IssuesDetail,
			FailDetail:   spec.FailDetail,
		})
	}
	return fc
}

// MarshalConfigTemplate renders fc as a commented YAML document.
func MarshalConfigTemplate(fc FileConfig) ([]byte, error) {
	if _, ok := schema.ValidOutputModes[schema.OutputMode(fc.Output)]; !ok {
		return nil, fmt.Errorf("invalid output format '%s'", fc.Output)
	}

	var buf bytes.Buffer
	buf.WriteString(templateHeader)
	buf.WriteString("\n")

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(fc); err != nil {
		return nil, fmt.Errorf("failed to encode config template: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config template: %w", err)
	}
	return buf.Bytes(), nil
}
