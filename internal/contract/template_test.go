package contract

import (
	"strings"
	"testing"

	"github.com/huangsam/qualitygate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMarshalConfigTemplate_Defaults(t *testing.T) {
	data, err := MarshalConfigTemplate(DefaultFileConfig())
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "# Quality gate configuration."))
	assert.Contains(t, text, "timeout: 60s")
	assert.Contains(t, text, "max-issue-codes: 5")
	assert.Contains(t, text, "issue-pattern:")

	var decoded FileConfig
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, DefaultFileConfig(), decoded)
}

func TestMarshalConfigTemplate_FeedsProcessAndValidate(t *testing.T) {
	fc := DefaultFileConfig()
	fc.Output = string(schema.JSONOut)
	fc.Checks[1].Command = "markdownlint-cli2 docs/**/*.md"

	data, err := MarshalConfigTemplate(fc)
	require.NoError(t, err)

	var decoded FileConfig
	require.NoError(t, yaml.Unmarshal(data, &decoded))

	input := validInput(t.TempDir())
	input.Output = decoded.Output
	input.FixCommands = decoded.FixCommands
	input.HelpLink = decoded.HelpLink
	input.Checks = decoded.Checks

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.JSONOut, cfg.Output)
	lint, ok := cfg.CheckByName(schema.LintCheck)
	require.True(t, ok)
	assert.Equal(t, "markdownlint-cli2 docs/**/*.md", lint.Command)
	assert.Len(t, cfg.Checks, 2)
}

func TestMarshalConfigTemplate_InvalidOutput(t *testing.T) {
	fc := DefaultFileConfig()
	fc.Output = "pdf"

	_, err := MarshalConfigTemplate(fc)
	assert.Error(t, err)
}
