package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/ionlit/internal/errors"
	"github.com/mcncl/ionlit/internal/models"
	"github.com/mcncl/ionlit/internal/parser"
)

// Output formats and key styles accepted in the output section.
var (
	Formats   = []string{"text", "json", "yaml", "cbor"}
	KeyStyles = []string{"snake", "camel", "kebab"}
)

// Config represents the complete configuration for ionlit
type Config struct {
	Parse  ParseConfig  `yaml:"parse"`
	Output OutputConfig `yaml:"output"`
	Equiv  EquivConfig  `yaml:"equiv"`
	Dev    DevConfig    `yaml:"dev"`
}

// ParseConfig controls dispatch
type ParseConfig struct {
	Strict          bool   `yaml:"strict"`
	PromoteDecimals bool   `yaml:"promote_decimals"`
	Kind            string `yaml:"kind"`
}

// OutputConfig controls how decoded values are written
type OutputConfig struct {
	Format     string `yaml:"format"`
	KeyStyle   string `yaml:"key_style"`
	ShowLexeme bool   `yaml:"show_lexeme"`
}

// EquivConfig extends the fixture name to kind table
type EquivConfig struct {
	Kinds map[string]string `yaml:"kinds"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug   bool `yaml:"debug"`
	Verbose int  `yaml:"verbose"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Parse: ParseConfig{
			Kind: "auto",
		},
		Output: OutputConfig{
			Format:   "text",
			KeyStyle: "snake",
		},
		Equiv: EquivConfig{
			Kinds: make(map[string]string),
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".ionlit.yml", ".ionlit.yaml", "ionlit.yml", "ionlit.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

func oneOf(s string, allowed []string) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

// Validate checks every enumerated setting.
func (c *Config) Validate() error {
	if !oneOf(c.Output.Format, Formats) {
		return errors.NewConfigError(fmt.Sprintf("output.format %q is not one of %v", c.Output.Format, Formats), errors.ErrUnknownFormat)
	}
	if !oneOf(c.Output.KeyStyle, KeyStyles) {
		return errors.NewConfigError(fmt.Sprintf("output.key_style %q is not one of %v", c.Output.KeyStyle, KeyStyles), nil)
	}
	if _, ok := models.ParseKind(c.Parse.Kind); !ok {
		return errors.NewConfigError(fmt.Sprintf("parse.kind %q is not a known kind", c.Parse.Kind), errors.ErrUnknownKind)
	}

	names := make([]string, 0, len(c.Equiv.Kinds))
	for name := range c.Equiv.Kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		kind, ok := models.ParseKind(c.Equiv.Kinds[name])
		if !ok || kind == models.KindInvalid {
			return errors.NewConfigError(fmt.Sprintf("equiv.kinds[%s] %q is not a literal kind", name, c.Equiv.Kinds[name]), errors.ErrUnknownKind)
		}
	}
	if c.Dev.Verbose < 0 {
		return errors.NewConfigError("dev.verbose must not be negative", nil)
	}
	return nil
}

// ParserOptions returns the dispatch options.
func (c *Config) ParserOptions() parser.Options {
	return parser.Options{
		Strict:          c.Parse.Strict,
		PromoteDecimals: c.Parse.PromoteDecimals,
	}
}

// Kind returns the configured entry point; KindInvalid means full dispatch.
func (c *Config) Kind() models.Kind {
	kind, _ := models.ParseKind(c.Parse.Kind)
	return kind
}

// FixtureKinds returns the extra fixture name mappings as kinds.
func (c *Config) FixtureKinds() map[string]models.Kind {
	out := make(map[string]models.Kind, len(c.Equiv.Kinds))
	for name, k := range c.Equiv.Kinds {
		if kind, ok := models.ParseKind(k); ok && kind != models.KindInvalid {
			out[name] = kind
		}
	}
	return out
}

// KeyName renders a record field name in the configured key style.
func (c *Config) KeyName(field string) string {
	switch c.Output.KeyStyle {
	case "camel":
		return strcase.ToLowerCamel(field)
	case "kebab":
		return strcase.ToKebab(field)
	}
	return strcase.ToSnake(field)
}

// Overrides holds the values given on the command line. Empty strings
// and false booleans mean the flag was not given.
type Overrides struct {
	Strict          bool
	PromoteDecimals bool
	Kind            string
	Format          string
	ShowLexeme      bool
	Debug           bool
	Verbose         int
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// CLI > config file > defaults.
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if o.Strict {
		cfg.Parse.Strict = true
	}
	if o.PromoteDecimals {
		cfg.Parse.PromoteDecimals = true
	}
	if o.Kind != "" {
		cfg.Parse.Kind = o.Kind
	}
	if o.Format != "" {
		cfg.Output.Format = o.Format
	}
	if o.ShowLexeme {
		cfg.Output.ShowLexeme = true
	}
	if o.Debug {
		cfg.Dev.Debug = true
	}
	cfg.Dev.Verbose += o.Verbose

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
