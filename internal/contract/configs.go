package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/huangsam/qualitygate/schema"
)

// Default values for configuration.
const (
	DefaultTimeoutStr    = "60s"
	DefaultGitHubAPIURL  = "https://api.github.com"
	MaxIssueCodesLimit   = 100
	DefaultConfigName    = ".qualitygate"
	DefaultConfigFileExt = "yaml"
)

// pullRequestRefRe matches the ref GitHub Actions checks out for pull requests.
var pullRequestRefRe = regexp.MustCompile(`^refs/pull/(\d+)/(?:merge|head)$`)

// repoSlugRe matches an owner/name repository slug.
var repoSlugRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// CommentConfig holds the settings for posting the report on a pull request.
type CommentConfig struct {
	Enabled bool
	Target  CommentTarget
	APIURL  string `validate:"omitempty,url"`
	Token   string // Please use env var as this is plaintext
	Update  bool   // Edit the previous report comment instead of adding a new one
}

// Config holds the runtime configuration for a quality gate run.
// This struct is the "final, validated" config.
type Config struct {
	Dir           string             `validate:"required"`
	Timeout       time.Duration      `validate:"gt=0"`
	Output        schema.OutputMode  `validate:"required"`
	OutputFile    string
	UseColors     bool
	Progress      bool
	MaxIssueCodes int                `validate:"gte=0,lte=100"`
	Checks        []schema.CheckSpec `validate:"dive"`
	Help          schema.HelpBlock
	Comment       CommentConfig
}

// CheckRawInput holds one check definition from the YAML config file.
type CheckRawInput struct {
	Name         string `mapstructure:"name" yaml:"name"`
	Title        string `mapstructure:"title" yaml:"title,omitempty"`
	Command      string `mapstructure:"command" yaml:"command,omitempty"`
	IssuePattern string `mapstructure:"issue-pattern" yaml:"issue-pattern,omitempty"`
	PassDetail   string `mapstructure:"pass-detail" yaml:"pass-detail,omitempty"`
	IssuesDetail string `mapstructure:"issues-detail" yaml:"issues-detail,omitempty"`
	FailDetail   string `mapstructure:"fail-detail" yaml:"fail-detail,omitempty"`
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DirStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Timeout       string   `mapstructure:"timeout"`
	Output        string   `mapstructure:"output"`
	OutputFile    string   `mapstructure:"output-file"`
	Color         string   `mapstructure:"color"`
	Progress      bool     `mapstructure:"progress"`
	MaxIssueCodes int      `mapstructure:"max-issue-codes"`
	HelpLink      string   `mapstructure:"help-link"`
	FixCommands   []string `mapstructure:"fix-commands"`

	// --- Comment settings (flags and env, with GitHub Actions fallbacks) ---
	Comment       bool   `mapstructure:"comment"`
	CommentRepo   string `mapstructure:"comment-repo"`
	CommentPR     int    `mapstructure:"comment-pr"`
	CommentAPIURL string `mapstructure:"comment-api-url"`
	CommentToken  string `mapstructure:"comment-token"`
	CommentUpdate bool   `mapstructure:"comment-update"`
	GitHubRef     string `mapstructure:"github-ref"`

	// --- Check overrides from config file ---
	Checks []CheckRawInput `mapstructure:"checks"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Checks = slices.Clone(c.Checks)
	clone.Help.Commands = slices.Clone(c.Help.Commands)
	return &clone
}

// CheckByName returns the configured check with the given name.
func (c *Config) CheckByName(name schema.CheckName) (schema.CheckSpec, bool) {
	for _, spec := range c.Checks {
		if spec.Name == name {
			return spec, true
		}
	}
	return schema.CheckSpec{}, false
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return WrapConfigError(err)
	}
	if err := processChecks(cfg, input); err != nil {
		return WrapConfigError(err)
	}
	processHelp(cfg, input)
	processComment(cfg, input)
	if err := resolveDir(cfg, input); err != nil {
		return WrapConfigError(err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return WrapConfigError(err)
	}
	return nil
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Progress = input.Progress

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	timeoutStr := input.Timeout
	if timeoutStr == "" {
		timeoutStr = DefaultTimeoutStr
	}
	timeout, err := ParseTimeout(timeoutStr)
	if err != nil {
		return fmt.Errorf("invalid --timeout value: %w", err)
	}
	cfg.Timeout = timeout

	if input.MaxIssueCodes < 0 || input.MaxIssueCodes > MaxIssueCodesLimit {
		return fmt.Errorf("max-issue-codes must be between 0 and %d (received %d)", MaxIssueCodesLimit, input.MaxIssueCodes)
	}
	cfg.MaxIssueCodes = input.MaxIssueCodes

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.MarkdownOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be markdown, text, json, csv, html, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	return nil
}

// processChecks merges config file overrides onto the built-in checks.
// Entries named after a built-in check override its non-empty fields and keep
// its position; other entries are appended in file order.
func processChecks(cfg *Config, input *ConfigRawInput) error {
	checks := schema.DefaultChecks()
	seen := make(map[schema.CheckName]bool)

	for i, raw := range input.Checks {
		name := schema.CheckName(strings.ToLower(strings.TrimSpace(raw.Name)))
		if name == "" {
			return fmt.Errorf("checks[%d] is missing a name", i)
		}
		if seen[name] {
			return fmt.Errorf("check '%s' is defined more than once", name)
		}
		seen[name] = true

		override := schema.CheckSpec{
			Name:         name,
			Title:        raw.Title,
			Command:      strings.TrimSpace(raw.Command),
			IssuePattern: raw.IssuePattern,
			PassDetail:   raw.PassDetail,
			IssuesDetail: raw.IssuesDetail,
			FailDetail:   raw.FailDetail,
		}

		idx := slices.IndexFunc(checks, func(s schema.CheckSpec) bool { return s.Name == name })
		if idx >= 0 {
			checks[idx] = schema.MergeCheckSpec(checks[idx], override)
			continue
		}

		if override.Command == "" {
			return fmt.Errorf("check '%s' needs a command", name)
		}
		if override.PassDetail == "" {
			override.PassDetail = "Check passed"
		}
		if override.FailDetail == "" {
			override.FailDetail = schema.GenericFailDetail
		}
		if override.IssuesDetail == "" {
			override.IssuesDetail = "Found " + schema.CountPlaceholder + " issue(s) that need manual fixes"
		}
		checks = append(checks, override)
	}

	for _, spec := range checks {
		if spec.IssuePattern == "" {
			continue
		}
		if _, err := regexp.Compile(spec.IssuePattern); err != nil {
			return fmt.Errorf("invalid issue-pattern for check '%s': %w", spec.Name, err)
		}
	}

	cfg.Checks = checks
	return nil
}

// processHelp fills the help block from the configured commands and link.
func processHelp(cfg *Config, input *ConfigRawInput) {
	cfg.Help = schema.DefaultHelp()
	if commands := nonEmpty(input.FixCommands); len(commands) > 0 {
		cfg.Help.Commands = commands
	}
	if link := strings.TrimSpace(input.HelpLink); link != "" {
		cfg.Help.Link = link
	}
}

// processComment copies the comment settings. Completeness is checked later by
// ResolveCommentTarget so that a broken comment setup never blocks the report.
func processComment(cfg *Config, input *ConfigRawInput) {
	cfg.Comment = CommentConfig{
		Enabled: input.Comment,
		Target: CommentTarget{
			Repo:   strings.TrimSpace(input.CommentRepo),
			Number: input.CommentPR,
		},
		APIURL: strings.TrimRight(strings.TrimSpace(input.CommentAPIURL), "/"),
		Token:  strings.TrimSpace(input.CommentToken),
		Update: input.CommentUpdate,
	}
	if cfg.Comment.APIURL == "" {
		cfg.Comment.APIURL = DefaultGitHubAPIURL
	}
	if cfg.Comment.Target.Number == 0 {
		cfg.Comment.Target.Number = ParsePullRequestRef(input.GitHubRef)
	}
}

// resolveDir resolves the directory the checks run in.
func resolveDir(cfg *Config, input *ConfigRawInput) error {
	searchPath := input.DirStr
	if searchPath == "" {
		searchPath = "."
	}
	absPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("cannot access directory %q: %w", searchPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", searchPath)
	}
	cfg.Dir = filepath.Clean(absPath)
	return nil
}

// ResolveCommentTarget verifies that everything needed to post a comment is present.
func ResolveCommentTarget(c CommentConfig) (CommentTarget, error) {
	if !repoSlugRe.MatchString(c.Target.Repo) {
		return CommentTarget{}, fmt.Errorf("comment repository must look like owner/name (received %q)", c.Target.Repo)
	}
	if c.Target.Number <= 0 {
		return CommentTarget{}, fmt.Errorf("comment pull request number is missing; set --comment-pr or run on a pull_request event")
	}
	if c.Token == "" {
		return CommentTarget{}, fmt.Errorf("comment token is missing; set QUALITYGATE_COMMENT_TOKEN or GITHUB_TOKEN")
	}
	return c.Target, nil
}

// ParsePullRequestRef extracts the pull request number from refs/pull/<n>/merge.
// It returns 0 when ref does not point at a pull request.
func ParsePullRequestRef(ref string) int {
	matches := pullRequestRefRe.FindStringSubmatch(strings.TrimSpace(ref))
	if len(matches) == 0 {
		return 0
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0
	}
	return n
}

// nonEmpty trims every entry and drops the blank ones.
func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// RevalidateRun applies per-call overrides to an already validated config.
// Empty values keep the current setting. checks selects a subset of the
// configured checks by name, keeping their configured order.
func RevalidateRun(cfg *Config, dir, timeout string, checks []string) error {
	if dir != "" {
		if err := resolveDir(cfg, &ConfigRawInput{DirStr: dir}); err != nil {
			return WrapConfigError(err)
		}
	}

	if timeout != "" {
		parsed, err := ParseTimeout(timeout)
		if err != nil {
			return WrapConfigError(fmt.Errorf("invalid timeout: %w", err))
		}
		cfg.Timeout = parsed
	}

	if names := nonEmpty(checks); len(names) > 0 {
		wanted := make(map[schema.CheckName]bool, len(names))
		for _, n := range names {
			name := schema.CheckName(strings.ToLower(n))
			if _, ok := cfg.CheckByName(name); !ok {
				return WrapConfigError(fmt.Errorf("unknown check '%s'", n))
			}
			wanted[name] = true
		}
		cfg.Checks = slices.DeleteFunc(slices.Clone(cfg.Checks), func(s schema.CheckSpec) bool {
			return !wanted[s.Name]
		})
	}
	return nil
}
