// Package config предоставляет управление конфигурацией приложения
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"ficchat/internal/domain"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// CastMember описывает участника стартового состава
type CastMember struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Side   string `json:"side" yaml:"side"`     // self или other
	Avatar string `json:"avatar" yaml:"avatar"` // путь к файлу изображения, необязательно
}

// Chat содержит настройки переписки
type Chat struct {
	Title  string       `json:"title" yaml:"title"`
	Footer string       `json:"footer" yaml:"footer"`
	Cast   []CastMember `json:"cast" yaml:"cast"`
}

// PNG содержит настройки растрового экспорта
type PNG struct {
	Scale int `json:"scale" yaml:"scale"`
	Width int `json:"width" yaml:"width"` // ширина экрана в логических пикселях
}

// Export содержит настройки экспорта
type Export struct {
	OutputDir    string   `json:"output_dir" yaml:"output_dir"`
	BaseName     string   `json:"base_name" yaml:"base_name"`
	Formats      []string `json:"formats" yaml:"formats"`
	PNG          PNG      `json:"png" yaml:"png"`
	ConsoleWidth int      `json:"console_width" yaml:"console_width"` // 0 - ширина терминала
}

// Logging содержит конфигурацию логирования
type Logging struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // text, json
	File   string `json:"file" yaml:"file"`     // необязательный файл с ротацией
}

// Config содержит конфигурацию приложения
type Config struct {
	Chat    Chat    `json:"chat" yaml:"chat"`
	Export  Export  `json:"export" yaml:"export"`
	Logging Logging `json:"logging" yaml:"logging"`
}

// defaultConfig возвращает конфигурацию со значениями по умолчанию
func defaultConfig() *Config {
	return &Config{
		Chat: Chat{
			Title: DefaultTitle,
		},
		Export: Export{
			OutputDir: DefaultOutputDir,
			BaseName:  DefaultBaseName,
			Formats:   []string{DefaultFormat},
			PNG: PNG{
				Scale: DefaultPNGScale,
				Width: DefaultPNGWidth,
			},
		},
		Logging: Logging{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// LoadConfig загружает конфигурацию из .env файла, YAML-файла и переменных окружения.
// Отсутствие .env или YAML-файла не является ошибкой.
func LoadConfig(path string) (*Config, error) {
	// Если .env файла не существует, это нормально
	_ = godotenv.Load()

	cfg := defaultConfig()
	if err := loadFromYAML(path, cfg); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию из env: %w", err)
	}

	return cfg, nil
}

// loadFromYAML накладывает значения из YAML-файла поверх cfg
func loadFromYAML(filename string, cfg *Config) error {
	if filename == "" {
		return nil
	}

	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("не удалось прочитать файл конфигурации %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("не удалось разобрать YAML конфигурацию: %w", err)
	}

	return nil
}

// applyEnv переопределяет значения из переменных окружения
func applyEnv(cfg *Config) error {
	if v := os.Getenv("FICCHAT_TITLE"); v != "" {
		cfg.Chat.Title = v
	}
	if v := os.Getenv("FICCHAT_OUTPUT_DIR"); v != "" {
		cfg.Export.OutputDir = v
	}
	if v := os.Getenv("FICCHAT_FORMATS"); v != "" {
		cfg.Export.Formats = SplitFormats(v)
	}
	if v := os.Getenv("FICCHAT_PNG_SCALE"); v != "" {
		scale, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("недопустимый FICCHAT_PNG_SCALE: %w", err)
		}
		cfg.Export.PNG.Scale = scale
	}
	cfg.Logging.Level = getEnv("FICCHAT_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("FICCHAT_LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.File = getEnv("FICCHAT_LOG_FILE", cfg.Logging.File)
	return nil
}

// SplitFormats разбирает список форматов через запятую
func SplitFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// Validate проверяет, являются ли значения конфигурации допустимыми
func (c *Config) Validate() error {
	ids := make(map[string]bool, len(c.Chat.Cast))
	for i, m := range c.Chat.Cast {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("chat.cast[%d].name не может быть пустым", i)
		}
		if _, ok := domain.ParseSide(m.Side); !ok {
			return fmt.Errorf("chat.cast[%d].side должен быть self или other", i)
		}
		if m.ID != "" {
			if ids[m.ID] {
				return fmt.Errorf("chat.cast[%d].id %q повторяется", i, m.ID)
			}
			ids[m.ID] = true
		}
	}

	if len(c.Export.Formats) == 0 {
		return fmt.Errorf("export.formats не может быть пустым")
	}
	for _, f := range c.Export.Formats {
		if !slices.Contains(SupportedFormats, f) {
			return fmt.Errorf("export.formats: неизвестный формат %q (допустимы: %s)", f, strings.Join(SupportedFormats, ", "))
		}
	}

	if c.Export.BaseName == "" {
		return fmt.Errorf("export.base_name не может быть пустым")
	}

	if c.Export.PNG.Scale < 1 || c.Export.PNG.Scale > 4 {
		return fmt.Errorf("export.png.scale должен быть от 1 до 4")
	}

	if c.Export.PNG.Width < 200 {
		return fmt.Errorf("export.png.width должен быть не меньше 200")
	}

	if c.Export.ConsoleWidth < 0 {
		return fmt.Errorf("export.console_width должно быть неотрицательным (0 - ширина терминала)")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// all good
	default:
		return fmt.Errorf("logging.level должен быть одним из: debug, info, warn, error")
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format должен быть text или json")
	}

	return nil
}

// getEnv извлекает значение переменной окружения или возвращает значение по умолчанию, если она не установлена
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
