package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/ionlit/internal/errors"
	"github.com/mcncl/ionlit/internal/models"
	"github.com/mcncl/ionlit/internal/parser"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ionlit.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	assert.False(t, cfg.Parse.Strict)
	assert.False(t, cfg.Parse.PromoteDecimals)
	assert.Equal(t, "auto", cfg.Parse.Kind)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "snake", cfg.Output.KeyStyle)
	assert.False(t, cfg.Output.ShowLexeme)
	assert.Empty(t, cfg.Equiv.Kinds)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, models.KindInvalid, cfg.Kind())
}

func TestConfig_LoadFromYAML(t *testing.T) {
	path := writeConfig(t, `
parse:
  strict: true
  promote_decimals: true
  kind: decimal
output:
  format: json
  key_style: camel
  show_lexeme: true
equiv:
  kinds:
    moreInts: int
    prices: decimal
dev:
  verbose: 2
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, parser.Options{Strict: true, PromoteDecimals: true}, cfg.ParserOptions())
	assert.Equal(t, models.KindDecimal, cfg.Kind())
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "camel", cfg.Output.KeyStyle)
	assert.True(t, cfg.Output.ShowLexeme)
	assert.Equal(t, 2, cfg.Dev.Verbose)
	assert.Equal(t, map[string]models.Kind{
		"moreInts": models.KindInt,
		"prices":   models.KindDecimal,
	}, cfg.FixtureKinds())
}

func TestConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "parse:\n  strict: true\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Parse.Strict)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "snake", cfg.Output.KeyStyle)
}

func TestConfig_LoadNonExistentFile(t *testing.T) {
	_, err := LoadConfig("/non/existent/config.yml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no such file or directory")
}

func TestConfig_LoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, `
parse:
  kind: [unclosed array
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, errors.ErrUnknownFormat},
		{"bad key style", func(c *Config) { c.Output.KeyStyle = "shouty" }, nil},
		{"bad kind", func(c *Config) { c.Parse.Kind = "symbol" }, errors.ErrUnknownKind},
		{"auto fixture kind", func(c *Config) { c.Equiv.Kinds["x"] = "auto" }, errors.ErrUnknownKind},
		{"negative verbosity", func(c *Config) { c.Dev.Verbose = -1 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeConfig})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestConfig_LoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "output:\n  format: toml\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknownFormat)
}

func TestConfig_FindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	nestedDir := filepath.Join(tmpDir, "project", "subdir")
	require.NoError(t, os.MkdirAll(nestedDir, 0o755))

	configPath := filepath.Join(tmpDir, "project", ".ionlit.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("parse:\n  kind: int\n"), 0o644))

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()
	require.NoError(t, os.Chdir(nestedDir))

	// Should find it in the parent directory
	foundPath := FindConfigFile()
	require.NotEmpty(t, foundPath, "Should find config file")

	foundContent, err := os.ReadFile(foundPath)
	require.NoError(t, err)
	assert.Contains(t, string(foundContent), "kind: int")
}

func TestConfig_FindConfigFileNotFound(t *testing.T) {
	tmpDir := t.TempDir()

	originalWd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(originalWd) }()
	require.NoError(t, os.Chdir(tmpDir))

	assert.Empty(t, FindConfigFile())
}

func TestConfig_KeyName(t *testing.T) {
	tests := []struct {
		style string
		field string
		want  string
	}{
		{"snake", "InputText", "input_text"},
		{"snake", "Value", "value"},
		{"camel", "InputText", "inputText"},
		{"camel", "Kind", "kind"},
		{"kebab", "InputText", "input-text"},
	}

	for _, tt := range tests {
		t.Run(tt.style+"/"+tt.field, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Output.KeyStyle = tt.style
			assert.Equal(t, tt.want, cfg.KeyName(tt.field))
		})
	}
}

func TestLoadConfigWithPrecedence(t *testing.T) {
	path := writeConfig(t, `
parse:
  kind: int
output:
  format: yaml
  show_lexeme: true
dev:
  verbose: 1
`)

	cfg, err := LoadConfigWithCLI(path, Overrides{
		Strict:  true,
		Kind:    "float",
		Format:  "cbor",
		Verbose: 1,
	})
	require.NoError(t, err)

	// CLI > config file > defaults
	assert.True(t, cfg.Parse.Strict)           // From CLI
	assert.Equal(t, "float", cfg.Parse.Kind)   // From CLI
	assert.Equal(t, "cbor", cfg.Output.Format) // From CLI
	assert.True(t, cfg.Output.ShowLexeme)      // From config file
	assert.Equal(t, 2, cfg.Dev.Verbose)        // Both add up
	assert.False(t, cfg.Parse.PromoteDecimals) // Default value
}

func TestLoadConfigWithPrecedence_NoOverrides(t *testing.T) {
	path := writeConfig(t, "parse:\n  promote_decimals: true\n")

	cfg, err := LoadConfigWithCLI(path, Overrides{})
	require.NoError(t, err)

	assert.True(t, cfg.Parse.PromoteDecimals)
	assert.Equal(t, "auto", cfg.Parse.Kind)
	assert.Equal(t, "text", cfg.Output.Format)
}

func TestLoadConfigWithCLI_InvalidOverride(t *testing.T) {
	_, err := LoadConfigWithCLI("", Overrides{Format: "xml"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknownFormat)
}
