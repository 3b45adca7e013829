// Package config loads CineScope settings from defaults, an optional YAML file
// and the environment, in that order of precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"github.com/nikogura/cinescope/pkg/assistant"
	"github.com/nikogura/cinescope/pkg/logging"
	"github.com/nikogura/cinescope/pkg/recommend"
)

// PathEnvVar names a config file to use when none is passed explicitly.
const PathEnvVar = "CINESCOPE_CONFIG"

// Config represents the application configuration.
type Config struct {
	Catalog   CatalogConfig    `koanf:"catalog" yaml:"catalog"`
	Server    ServerConfig     `koanf:"server" yaml:"server"`
	Assistant AssistantConfig  `koanf:"assistant" yaml:"assistant"`
	Logging   LoggingConfig    `koanf:"logging" yaml:"logging"`
	Moods     []recommend.Mood `koanf:"moods" yaml:"moods,omitempty"`
}

// CatalogConfig locates the movie catalog.
type CatalogConfig struct {
	// Location is a file path or an http(s) URL.
	Location string `koanf:"location" yaml:"location"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host" yaml:"host"`
	Port            int           `koanf:"port" yaml:"port"`
	StaticDir       string        `koanf:"static_dir" yaml:"static_dir"`
	CORSOrigins     []string      `koanf:"cors_origins" yaml:"cors_origins"`
	RateLimit       int           `koanf:"rate_limit" yaml:"rate_limit"`
	ReadTimeout     time.Duration `koanf:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// AssistantConfig holds hosted model settings.
type AssistantConfig struct {
	APIKey          string        `koanf:"api_key" yaml:"api_key"`
	Model           string        `koanf:"model" yaml:"model"`
	Endpoint        string        `koanf:"endpoint" yaml:"endpoint"`
	MaxTokens       int           `koanf:"max_tokens" yaml:"max_tokens"`
	Temperature     float64       `koanf:"temperature" yaml:"temperature"`
	Timeout         time.Duration `koanf:"timeout" yaml:"timeout"`
	ContextSize     int           `koanf:"context_size" yaml:"context_size"`
	BreakerFailures uint32        `koanf:"breaker_failures" yaml:"breaker_failures"`
	BreakerCooldown time.Duration `koanf:"breaker_cooldown" yaml:"breaker_cooldown"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
	Caller bool   `koanf:"caller" yaml:"caller"`
}

// Default returns the built-in configuration.
func Default() (cfg Config) {
	cfg = Config{
		Catalog: CatalogConfig{
			Location: "movies.json",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			CORSOrigins:     []string{"*"},
			RateLimit:       120,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Assistant: AssistantConfig{
			Model:           assistant.ClaudeModel,
			Endpoint:        assistant.ClaudeAPIEndpoint,
			MaxTokens:       assistant.DefaultMaxTokens,
			Temperature:     assistant.DefaultTemperature,
			Timeout:         assistant.DefaultTimeout,
			ContextSize:     assistant.DefaultContextSize,
			BreakerFailures: assistant.DefaultBreakerFailures,
			BreakerCooldown: assistant.DefaultBreakerCooldown,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
	return cfg
}

// DefaultPath is where init writes and load looks when nothing else is named.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".cinescope", "config.yaml")
	return path, err
}

// Load builds the configuration. An explicit configPath must exist; otherwise
// $CINESCOPE_CONFIG and then the default path are tried and skipped if absent.
// A .env file in the working directory is applied to the environment first.
func Load(configPath string) (cfg Config, err error) {
	err = godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		err = errors.Wrap(err, "failed to read .env file")
		return cfg, err
	}

	k := koanf.New(".")

	err = k.Load(structs.Provider(Default(), "koanf"), nil)
	if err != nil {
		err = errors.Wrap(err, "failed to load defaults")
		return cfg, err
	}

	var path string
	path, err = resolvePath(configPath)
	if err != nil {
		return cfg, err
	}

	if path != "" {
		err = k.Load(file.Provider(path), yaml.Parser())
		if err != nil {
			err = errors.Wrapf(err, "failed to parse config file: %s", path)
			return cfg, err
		}
	}

	err = k.Load(env.Provider("", ".", envTransformFunc), nil)
	if err != nil {
		err = errors.Wrap(err, "failed to load environment variables")
		return cfg, err
	}

	err = processSliceFields(k)
	if err != nil {
		return cfg, err
	}

	err = k.Unmarshal("", &cfg)
	if err != nil {
		err = errors.Wrap(err, "failed to unmarshal configuration")
		return cfg, err
	}

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

func resolvePath(configPath string) (path string, err error) {
	if configPath != "" {
		_, err = os.Stat(configPath)
		if err != nil {
			if os.IsNotExist(err) {
				err = errors.Errorf("config file not found: %s (run 'cinescope init' to create)", configPath)
				return path, err
			}
			err = errors.Wrapf(err, "failed to stat config file: %s", configPath)
			return path, err
		}
		path = configPath
		return path, err
	}

	candidates := []string{os.Getenv(PathEnvVar)}
	if def, defErr := DefaultPath(); defErr == nil {
		candidates = append(candidates, def)
	}

	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, statErr := os.Stat(c); statErr == nil {
			path = c
			return path, err
		}
	}

	return path, err
}

// sliceConfigPaths are split on commas when they arrive as strings.
//
//nolint:gochecknoglobals // fixed lookup
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) (err error) {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		trimmed := []string{}
		for _, p := range strings.Split(strVal, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}

		err = k.Set(path, trimmed)
		if err != nil {
			err = errors.Wrapf(err, "failed to set %s", path)
			return err
		}
	}
	return err
}

// envMappings maps environment variables (lowercased) to config paths.
//
//nolint:gochecknoglobals // fixed lookup
var envMappings = map[string]string{
	"cinescope_catalog":           "catalog.location",
	"cinescope_host":              "server.host",
	"cinescope_port":              "server.port",
	"cinescope_static_dir":        "server.static_dir",
	"cinescope_cors_origins":      "server.cors_origins",
	"cinescope_rate_limit":        "server.rate_limit",
	"cinescope_shutdown_timeout":  "server.shutdown_timeout",
	"cinescope_model":             "assistant.model",
	"cinescope_assistant_url":     "assistant.endpoint",
	"cinescope_assistant_timeout": "assistant.timeout",
	"cinescope_context_size":      "assistant.context_size",
	"anthropic_api_key":           "assistant.api_key",
	"cinescope_log_level":         "logging.level",
	"cinescope_log_format":        "logging.format",
	"cinescope_log_caller":        "logging.caller",
}

// envTransformFunc maps known variables and drops everything else.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// Validate checks that the configuration is usable. A missing API key is not
// an error; the assistant reports itself unavailable instead.
func (c *Config) Validate() (err error) {
	if strings.TrimSpace(c.Catalog.Location) == "" {
		err = errors.New("catalog.location is required in config")
		return err
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		err = errors.Errorf("server.port %d is out of range", c.Server.Port)
		return err
	}

	if c.Server.RateLimit < 0 {
		err = errors.New("server.rate_limit cannot be negative")
		return err
	}

	if c.Server.StaticDir != "" {
		var info os.FileInfo
		info, err = os.Stat(c.Server.StaticDir)
		if err != nil || !info.IsDir() {
			err = errors.Errorf("server.static_dir is not a directory: %s", c.Server.StaticDir)
			return err
		}
	}

	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		err = errors.New("server timeouts must be positive")
		return err
	}

	if c.Assistant.MaxTokens <= 0 {
		err = errors.New("assistant.max_tokens must be positive")
		return err
	}

	if c.Assistant.Temperature < 0 || c.Assistant.Temperature > 1 {
		err = errors.Errorf("assistant.temperature %.2f must be between 0 and 1", c.Assistant.Temperature)
		return err
	}

	if c.Assistant.Timeout <= 0 {
		err = errors.New("assistant.timeout must be positive")
		return err
	}

	if c.Assistant.ContextSize <= 0 {
		err = errors.New("assistant.context_size must be positive")
		return err
	}

	if !logging.ValidLevel(c.Logging.Level) {
		err = errors.Errorf("logging.level %q is not a valid level", c.Logging.Level)
		return err
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		err = errors.Errorf("logging.format %q must be json or console", c.Logging.Format)
		return err
	}

	_, err = c.MoodTable()
	if err != nil {
		err = errors.Wrap(err, "invalid moods")
		return err
	}

	return err
}

// MoodTable returns the configured moods, or the built-in table when none are set.
func (c *Config) MoodTable() (table recommend.Table, err error) {
	if len(c.Moods) == 0 {
		table = recommend.DefaultTable()
		return table, err
	}
	table, err = recommend.NewTable(c.Moods...)
	return table, err
}

// AssistantSettings converts the assistant section for the assistant package.
func (c *Config) AssistantSettings() (settings assistant.Config) {
	settings = assistant.Config{
		APIKey:          c.Assistant.APIKey,
		Model:           c.Assistant.Model,
		Endpoint:        c.Assistant.Endpoint,
		MaxTokens:       c.Assistant.MaxTokens,
		Temperature:     c.Assistant.Temperature,
		Timeout:         c.Assistant.Timeout,
		ContextSize:     c.Assistant.ContextSize,
		BreakerFailures: c.Assistant.BreakerFailures,
		BreakerCooldown: c.Assistant.BreakerCooldown,
	}
	return settings
}

// LoggingSettings converts the logging section for the logging package.
func (c *Config) LoggingSettings() (settings logging.Config) {
	settings = logging.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		Caller: c.Logging.Caller,
	}
	return settings
}
