package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/c12i/scaffolding/core/file_tree"
	"github.com/c12i/scaffolding/core/logger"
	"github.com/c12i/scaffolding/core/merge"
)

const (
	FileName  = "scaffold.yaml"
	envPrefix = "SCAFFOLD"

	DefaultTemplate = "go"
)

var ErrConfigExists = errors.New("config file already exists")

type Config struct {
	// Template is a built-in template name, a local directory or a remote
	// locator such as github:owner/repo.
	Template string `mapstructure:"template" yaml:"template"`
	// TemplateName selects a set inside a remote repository holding several.
	TemplateName string   `mapstructure:"template_name" yaml:"template_name,omitempty"`
	Exclude      []string `mapstructure:"exclude" yaml:"exclude"`
	Merge        Merge    `mapstructure:"merge" yaml:"merge"`
	Logging      Logging  `mapstructure:"logging" yaml:"logging"`
}

// Merge lists path globs whose existing files may be rewritten inside their
// scaffold markers. Everything else is left alone and a differing render is
// a conflict.
type Merge struct {
	Splice []string `mapstructure:"splice" yaml:"splice"`
	Append []string `mapstructure:"append" yaml:"append"`
}

type Logging struct {
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`
}

func Default() *Config {
	return &Config{
		Template: DefaultTemplate,
		Exclude:  append([]string(nil), file_tree.DefaultExclude...),
		Merge: Merge{
			Splice: []string{},
			Append: []string{"**/entry_types.go", "**/link_types.go"},
		},
	}
}

// Load reads FileName from dir, falling back to defaults when it is absent.
// SCAFFOLD_-prefixed environment variables override both, e.g.
// SCAFFOLD_TEMPLATE or SCAFFOLD_MERGE_APPEND.
func Load(fsys afero.Fs, dir string) (*Config, error) {
	def := Default()

	v := viper.New()
	v.SetFs(fsys)
	v.SetDefault("template", def.Template)
	v.SetDefault("template_name", "")
	v.SetDefault("exclude", def.Exclude)
	v.SetDefault("merge.splice", def.Merge.Splice)
	v.SetDefault("merge.append", def.Merge.Append)
	v.SetDefault("logging.verbose", false)

	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		logger.Debug("No config file found, using default config")
	} else {
		logger.Debug("Config file found: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Template == "" {
		cfg.Template = DefaultTemplate
	}
	logger.Debug("Config: %+v", cfg)
	return &cfg, nil
}

// Policies builds the merge policy set. Splice globs are consulted before
// append globs.
func (c *Config) Policies() (merge.PolicySet, error) {
	var rules []merge.Rule
	for _, p := range c.Merge.Splice {
		rules = append(rules, merge.Rule{Pattern: p, Policy: merge.PolicySplice})
	}
	for _, p := range c.Merge.Append {
		rules = append(rules, merge.Rule{Pattern: p, Policy: merge.PolicyAppend})
	}
	policies, err := merge.NewPolicySet(rules...)
	if err != nil {
		return merge.PolicySet{}, fmt.Errorf("invalid merge config: %w", err)
	}
	return policies, nil
}

// Write saves cfg as FileName in dir. An existing file is only replaced
// when force is set.
func Write(fsys afero.Fs, dir string, cfg *Config, force bool) (string, error) {
	p := filepath.Join(dir, FileName)
	exists, err := afero.Exists(fsys, p)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", p, err)
	}
	if exists && !force {
		return "", fmt.Errorf("%w: %s", ErrConfigExists, p)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	if err := afero.WriteFile(fsys, p, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", p, err)
	}
	return p, nil
}
