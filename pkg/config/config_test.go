package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nikogura/cinescope/pkg/recommend"
)

// clearEnv unsets every mapped variable for the duration of a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for key := range envMappings {
		name := strings.ToUpper(key)
		if old, ok := os.LookupEnv(name); ok {
			t.Cleanup(func() { _ = os.Setenv(name, old) })
			_ = os.Unsetenv(name)
		}
	}
	t.Setenv(PathEnvVar, "")
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func writeFile(t *testing.T, name, content string) (path string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(content), 0600)
	if err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Expected port 5000, got %d", cfg.Server.Port)
	}
	if cfg.Catalog.Location != "movies.json" {
		t.Errorf("Expected movies.json, got %s", cfg.Catalog.Location)
	}
	if cfg.Assistant.Timeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", cfg.Assistant.Timeout)
	}
	if cfg.Assistant.APIKey != "" {
		t.Error("Expected no API key by default")
	}

	table, err := cfg.MoodTable()
	if err != nil || table.Len() != 6 {
		t.Errorf("Expected the built-in mood table, got %d moods (%v)", table.Len(), err)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "config.yaml", `
catalog:
  location: /data/films.json
server:
  port: 8080
  cors_origins: ["https://a.example", "https://b.example"]
  shutdown_timeout: 3s
assistant:
  model: claude-test
  temperature: 0.2
logging:
  level: debug
  format: console
moods:
  - name: cozy
    genres: [Animation, Family]
    min_rating: 6.5
    description: Warm blanket films
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Catalog.Location != "/data/films.json" {
		t.Errorf("Expected /data/films.json, got %s", cfg.Catalog.Location)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %v", cfg.Server.CORSOrigins)
	}
	if cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Errorf("Expected 3s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("Expected default read timeout to survive, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Assistant.Model != "claude-test" || cfg.Assistant.Temperature != 0.2 {
		t.Errorf("Unexpected assistant config %+v", cfg.Assistant)
	}

	table, err := cfg.MoodTable()
	if err != nil {
		t.Fatalf("Unexpected mood error: %v", err)
	}
	mood, ok := table.Lookup("cozy")
	if !ok || mood.MinRating != 6.5 || len(mood.Genres) != 2 {
		t.Errorf("Expected cozy mood from file, got %+v (%v)", mood, ok)
	}
	if _, ok := table.Lookup("happy"); ok {
		t.Error("Expected configured moods to replace the built-in table")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "config.yaml", "server:\n  port: 8080\n")

	t.Setenv("CINESCOPE_PORT", "9090")
	t.Setenv("CINESCOPE_CORS_ORIGINS", "https://x.example, https://y.example")
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	t.Setenv("CINESCOPE_ASSISTANT_TIMEOUT", "5s")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected env port 9090, got %d", cfg.Server.Port)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://y.example" {
		t.Errorf("Expected split CORS origins, got %v", cfg.Server.CORSOrigins)
	}
	if cfg.Assistant.APIKey != "env-key" {
		t.Errorf("Expected API key from env, got %q", cfg.Assistant.APIKey)
	}
	if cfg.Assistant.Timeout != 5*time.Second {
		t.Errorf("Expected 5s, got %v", cfg.Assistant.Timeout)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	t.Chdir(dir)
	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CINESCOPE_LOG_LEVEL=warn\n"), 0600)
	if err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("CINESCOPE_LOG_LEVEL") })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected level from .env, got %s", cfg.Logging.Level)
	}
}

func TestLoadNonexistent(t *testing.T) {
	clearEnv(t)

	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Expected error loading nonexistent config, got nil")
	}
}

func TestLoadMalformed(t *testing.T) {
	clearEnv(t)

	path := writeFile(t, "config.yaml", "server: [port")
	_, err := Load(path)
	if err == nil {
		t.Error("Expected error loading malformed config, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "missing catalog", mutate: func(c *Config) { c.Catalog.Location = " " }, wantErr: true},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "negative rate limit", mutate: func(c *Config) { c.Server.RateLimit = -1 }, wantErr: true},
		{name: "missing static dir", mutate: func(c *Config) { c.Server.StaticDir = "/nonexistent/static" }, wantErr: true},
		{name: "zero shutdown", mutate: func(c *Config) { c.Server.ShutdownTimeout = 0 }, wantErr: true},
		{name: "zero max tokens", mutate: func(c *Config) { c.Assistant.MaxTokens = 0 }, wantErr: true},
		{name: "temperature too high", mutate: func(c *Config) { c.Assistant.Temperature = 1.5 }, wantErr: true},
		{name: "zero context", mutate: func(c *Config) { c.Assistant.ContextSize = 0 }, wantErr: true},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: true},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: true},
		{name: "invalid mood", mutate: func(c *Config) { c.Moods = []recommend.Mood{{Name: "Loud"}} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestAssistantSettings(t *testing.T) {
	cfg := Default()
	cfg.Assistant.APIKey = "k"

	settings := cfg.AssistantSettings()
	if settings.APIKey != "k" || settings.MaxTokens != 300 || settings.ContextSize != 20 {
		t.Errorf("Unexpected settings %+v", settings)
	}
}

func TestInitConfig(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	written, err := InitConfig(path)
	if err != nil {
		t.Fatalf("Failed to init config: %v", err)
	}
	if written != path {
		t.Errorf("Expected %s, got %s", path, written)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Starter config does not load: %v", err)
	}
	if cfg.Server.Port != 5000 || cfg.Assistant.Timeout != 30*time.Second {
		t.Errorf("Unexpected round-tripped config %+v", cfg.Server)
	}
	if len(cfg.Moods) != 6 {
		t.Errorf("Expected 6 moods in starter file, got %d", len(cfg.Moods))
	}

	_, err = InitConfig(path)
	if err == nil {
		t.Error("Expected error when config already exists")
	}
}
