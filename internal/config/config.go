// Package config loads logos settings from defaults, an optional .env file,
// an optional TOML file and LOGOS_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/abhisek/logos/internal/llm"
	"github.com/abhisek/logos/internal/selector"
	"github.com/abhisek/logos/internal/session"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "logos.toml"

// Config holds the full application configuration.
type Config struct {
	// DatabaseURL is a SQLite DSN or a postgres:// URL. Empty means the
	// per-user data directory.
	DatabaseURL    string `toml:"database_url"`
	CurriculumPath string `toml:"curriculum_path"`
	LogLevel       string `toml:"log_level"`
	LogFormat      string `toml:"log_format"`

	Session  session.Counts  `toml:"session"`
	Selector selector.Config `toml:"selector"`
	Sweep    SweepConfig     `toml:"sweep"`
	LLM      LLMConfig       `toml:"llm"`
}

// SweepConfig schedules the nightly maintenance run.
type SweepConfig struct {
	At string `toml:"at"` // HH:MM, UTC
}

// LLMConfig is the file form of llm.Config.
type LLMConfig struct {
	Provider    string   `toml:"provider"`
	Model       string   `toml:"model"`
	BaseURL     string   `toml:"base_url"`
	APIKey      string   `toml:"api_key"`
	MaxAttempts int      `toml:"max_attempts"`
	Timeout     Duration `toml:"timeout"`
}

// Duration decodes a TOML string holding either a Go duration ("45s") or
// a whole number of seconds ("45").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if n, err := strconv.Atoi(s); err == nil {
		d.Duration = time.Duration(n) * time.Second
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		CurriculumPath: "curriculum",
		LogLevel:       "info",
		LogFormat:      "json",
		Session:        session.DefaultCounts(),
		Selector:       selector.DefaultConfig(),
		Sweep:          SweepConfig{At: "03:00"},
	}
}

// Load builds the configuration. A missing .env or TOML file is not an
// error; an unreadable or malformed one is. An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if path == "" {
		path = DefaultPath
	}
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	overrideString(&c.DatabaseURL, "LOGOS_DATABASE_URL")
	overrideString(&c.CurriculumPath, "LOGOS_CURRICULUM_PATH")
	overrideString(&c.LogLevel, "LOGOS_LOG_LEVEL")
	overrideString(&c.LogFormat, "LOGOS_LOG_FORMAT")
	overrideString(&c.Sweep.At, "LOGOS_SWEEP_AT")
	overrideInt(&c.Session.Practice, "LOGOS_PRACTICE_COUNT")
	overrideInt(&c.Session.Lesson, "LOGOS_LESSON_COUNT")
	overrideInt(&c.Session.Evaluation, "LOGOS_EVALUATION_COUNT")
	overrideFloat(&c.Selector.WeakThreshold, "LOGOS_WEAK_THRESHOLD")
	overrideFloat(&c.Selector.StrongThreshold, "LOGOS_STRONG_THRESHOLD")
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Selector.WeakThreshold < 0 || c.Selector.StrongThreshold > 1 ||
		c.Selector.WeakThreshold >= c.Selector.StrongThreshold {
		return fmt.Errorf("selector thresholds must satisfy 0 <= weak < strong <= 1, got %.2f/%.2f",
			c.Selector.WeakThreshold, c.Selector.StrongThreshold)
	}
	if c.Session.Practice < 0 || c.Session.Lesson < 0 || c.Session.Evaluation < 0 {
		return errors.New("session counts must not be negative")
	}
	if _, err := time.Parse("15:04", c.Sweep.At); err != nil {
		return fmt.Errorf("sweep.at %q: want HH:MM", c.Sweep.At)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("log_format %q: want json or text", c.LogFormat)
	}
	return nil
}

// LLMSettings resolves the llm.Config: file values first, then LOGOS_*
// variables. When neither names a provider, standard API key variables are
// probed before falling back to the mock provider.
func (c *Config) LLMSettings() llm.Config {
	cfg := llm.DefaultConfig()
	if c.LLM.Provider == "" && os.Getenv("LOGOS_LLM_PROVIDER") == "" {
		if found, ok := llm.DiscoverConfig(); ok {
			cfg = found
		}
	}

	f := c.LLM
	if f.Provider != "" {
		cfg.Provider = f.Provider
	}
	switch cfg.Provider {
	case llm.ProviderAnthropic:
		setIf(&cfg.Anthropic.Model, f.Model)
		setIf(&cfg.Anthropic.APIKey, f.APIKey)
		setIf(&cfg.Anthropic.BaseURL, f.BaseURL)
	case llm.ProviderOpenAI:
		setIf(&cfg.OpenAI.Model, f.Model)
		setIf(&cfg.OpenAI.APIKey, f.APIKey)
		setIf(&cfg.OpenAI.BaseURL, f.BaseURL)
	case llm.ProviderGemini:
		setIf(&cfg.Gemini.Model, f.Model)
		setIf(&cfg.Gemini.APIKey, f.APIKey)
	}
	if f.MaxAttempts > 0 {
		cfg.Retry.MaxAttempts = f.MaxAttempts
	}
	if f.Timeout.Duration > 0 {
		cfg.Timeout = f.Timeout.Duration
	}
	return llm.ApplyEnv(cfg)
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func overrideString(dest *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dest = val
	}
}

func overrideInt(dest *int, key string) {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			*dest = parsed
		}
	}
}

func overrideFloat(dest *float64, key string) {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			*dest = parsed
		}
	}
}
