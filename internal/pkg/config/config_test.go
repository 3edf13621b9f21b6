package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullYAML представляет конфигурацию со всеми разделами.
const fullYAML = `
chat:
  title: "Night Shift"
  footer: "fin."
  cast:
    - id: "alex"
      name: "Alex"
      side: "other"
    - id: "me"
      name: "Riley"
      side: "self"
      avatar: "riley.png"
export:
  output_dir: "out"
  base_name: "episode-1"
  formats: ["html", "png", "xlsx"]
  png:
    scale: 3
    width: 414
  console_width: 100
logging:
  level: "debug"
  format: "json"
  file: "ficchat.log"
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
	return path
}

func TestLoadFromYAML(t *testing.T) {
	t.Run("success with full config", func(t *testing.T) {
		path := createTempConfigFile(t, fullYAML)
		cfg := defaultConfig()
		err := loadFromYAML(path, cfg)
		require.NoError(t, err)

		assert.Equal(t, "Night Shift", cfg.Chat.Title)
		assert.Equal(t, "fin.", cfg.Chat.Footer)
		require.Len(t, cfg.Chat.Cast, 2)
		assert.Equal(t, "me", cfg.Chat.Cast[1].ID)
		assert.Equal(t, "self", cfg.Chat.Cast[1].Side)
		assert.Equal(t, "riley.png", cfg.Chat.Cast[1].Avatar)

		assert.Equal(t, "out", cfg.Export.OutputDir)
		assert.Equal(t, "episode-1", cfg.Export.BaseName)
		assert.Equal(t, []string{"html", "png", "xlsx"}, cfg.Export.Formats)
		assert.Equal(t, 3, cfg.Export.PNG.Scale)
		assert.Equal(t, 414, cfg.Export.PNG.Width)
		assert.Equal(t, 100, cfg.Export.ConsoleWidth)

		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, "ficchat.log", cfg.Logging.File)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		path := createTempConfigFile(t, "chat:\n  title: \"Only title\"\n")
		cfg := defaultConfig()
		require.NoError(t, loadFromYAML(path, cfg))

		assert.Equal(t, "Only title", cfg.Chat.Title)
		assert.Equal(t, []string{DefaultFormat}, cfg.Export.Formats)
		assert.Equal(t, DefaultPNGScale, cfg.Export.PNG.Scale)
		assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	})

	t.Run("file not found is not an error", func(t *testing.T) {
		cfg := defaultConfig()
		err := loadFromYAML("non_existent_file.yml", cfg)
		assert.NoError(t, err)
		assert.Equal(t, DefaultTitle, cfg.Chat.Title)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := createTempConfigFile(t, "invalid yaml: {")
		cfg := defaultConfig()
		err := loadFromYAML(path, cfg)
		assert.Error(t, err)
	})
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	testChdir(t, t.TempDir())
	path := createTempConfigFile(t, fullYAML)

	t.Setenv("FICCHAT_TITLE", "From env")
	t.Setenv("FICCHAT_FORMATS", " PNG , console ,")
	t.Setenv("FICCHAT_PNG_SCALE", "1")
	t.Setenv("FICCHAT_LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "From env", cfg.Chat.Title)
	assert.Equal(t, []string{"png", "console"}, cfg.Export.Formats)
	assert.Equal(t, 1, cfg.Export.PNG.Scale)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfigInvalidScaleEnv(t *testing.T) {
	testChdir(t, t.TempDir())
	t.Setenv("FICCHAT_PNG_SCALE", "big")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

func TestSplitFormats(t *testing.T) {
	assert.Equal(t, []string{"html", "pdf"}, SplitFormats("HTML, pdf"))
	assert.Nil(t, SplitFormats(" , "))
}

func TestValidate(t *testing.T) {
	validConfig := func(t *testing.T) *Config {
		cfg := defaultConfig()
		err := loadFromYAML(createTempConfigFile(t, fullYAML), cfg)
		require.NoError(t, err)
		return cfg
	}

	testCases := []struct {
		name    string
		mutator func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"defaults are valid", func(c *Config) { *c = *defaultConfig() }, false},
		{"empty cast name", func(c *Config) { c.Chat.Cast[0].Name = " " }, true},
		{"invalid cast side", func(c *Config) { c.Chat.Cast[0].Side = "up" }, true},
		{"duplicate cast id", func(c *Config) { c.Chat.Cast[1].ID = "alex" }, true},
		{"no formats", func(c *Config) { c.Export.Formats = nil }, true},
		{"unknown format", func(c *Config) { c.Export.Formats = []string{"gif"} }, true},
		{"empty base name", func(c *Config) { c.Export.BaseName = "" }, true},
		{"invalid png scale", func(c *Config) { c.Export.PNG.Scale = 0 }, true},
		{"png scale too large", func(c *Config) { c.Export.PNG.Scale = 8 }, true},
		{"png width too small", func(c *Config) { c.Export.PNG.Width = 100 }, true},
		{"negative console width", func(c *Config) { c.Export.ConsoleWidth = -1 }, true},
		{"invalid logging level", func(c *Config) { c.Logging.Level = "wrong" }, true},
		{"invalid logging format", func(c *Config) { c.Logging.Format = "xml" }, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig(t)
			tc.mutator(cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// testChdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains:
// it changes the working directory and restores it on cleanup.
func testChdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
