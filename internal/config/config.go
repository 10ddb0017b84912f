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
	"gopkg.in/yaml.v3"
)

type Config struct {
	PollInterval time.Duration `yaml:"-"`
	RawInterval  string        `yaml:"poll_interval"`
	LogFile      string        `yaml:"log_file"`
	Log          LogConfig     `yaml:"log"`
	Source       SourceConfig  `yaml:"source"`
	TUI          TUIConfig     `yaml:"tui"`
	Ingest       IngestConfig  `yaml:"ingest"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// SourceConfig lists where the performance document is read from, in
// preference order: url, gist, file.
type SourceConfig struct {
	URL        string        `yaml:"url"`
	Gist       GistConfig    `yaml:"gist"`
	File       string        `yaml:"file"`
	Watch      bool          `yaml:"watch"`
	Timeout    time.Duration `yaml:"-"`
	RawTimeout string        `yaml:"timeout"`
}

// GistConfig reads a public gist over HTTPS when User is set, otherwise
// through the gh CLI.
type GistConfig struct {
	ID       string `yaml:"id"`
	Filename string `yaml:"filename"`
	User     string `yaml:"user"`
}

type TUIConfig struct {
	Enabled           bool          `yaml:"-"`
	SearchDebounce    time.Duration `yaml:"-"`
	RawSearchDebounce string        `yaml:"search_debounce"`
	LeaderboardSize   int           `yaml:"leaderboard_size"`
	TopPerformers     int           `yaml:"top_performers"`
}

type IngestConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	DataFile string `yaml:"data_file"`
	WebDir   string `yaml:"web_dir"`
}

func (c IngestConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads the yaml file at path, then applies .env and environment
// overrides. A missing file is not an error; defaults and the environment
// are enough to run.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.setDefaults(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PERFDASH_SOURCE_URL"); v != "" {
		c.Source.URL = v
	}
	if v := os.Getenv("PERFDASH_SOURCE_FILE"); v != "" {
		c.Source.File = v
	}
	if v := os.Getenv("PERFDASH_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HOST"); v != "" {
		c.Ingest.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse PORT %q: %w", v, err)
		}
		c.Ingest.Port = port
	}
	c.TUI.Enabled = os.Getenv("PERFDASH_TUI") != "0"
	return nil
}

func (c *Config) setDefaults() error {
	if c.RawInterval == "" {
		c.RawInterval = "30s"
	}
	d, err := time.ParseDuration(c.RawInterval)
	if err != nil {
		return fmt.Errorf("parse poll_interval %q: %w", c.RawInterval, err)
	}
	c.PollInterval = d

	if c.LogFile == "" {
		c.LogFile = "logs/perfdash.log"
	}
	// Stored in the spelling logging.ParseLevel expects.
	switch c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level)); c.Log.Level {
	case "":
		c.Log.Level = "info"
	case "warning":
		c.Log.Level = "warn"
	}

	if c.Source.File == "" && c.Source.URL == "" && c.Source.Gist.ID == "" {
		c.Source.File = "web/data/performance-data.json"
	}
	if c.Source.Gist.ID != "" && c.Source.Gist.Filename == "" {
		c.Source.Gist.Filename = "performance-data.json"
	}
	if c.Source.RawTimeout == "" {
		c.Source.RawTimeout = "10s"
	}
	timeout, err := time.ParseDuration(c.Source.RawTimeout)
	if err != nil {
		return fmt.Errorf("parse source.timeout %q: %w", c.Source.RawTimeout, err)
	}
	c.Source.Timeout = timeout

	if c.TUI.RawSearchDebounce == "" {
		c.TUI.RawSearchDebounce = "300ms"
	}
	debounce, err := time.ParseDuration(c.TUI.RawSearchDebounce)
	if err != nil {
		return fmt.Errorf("parse tui.search_debounce %q: %w", c.TUI.RawSearchDebounce, err)
	}
	c.TUI.SearchDebounce = debounce
	if c.TUI.LeaderboardSize == 0 {
		c.TUI.LeaderboardSize = 3
	}
	if c.TUI.TopPerformers == 0 {
		c.TUI.TopPerformers = 5
	}

	if c.Ingest.Host == "" {
		c.Ingest.Host = "0.0.0.0"
	}
	if c.Ingest.Port == 0 {
		c.Ingest.Port = 8080
	}
	if c.Ingest.DataFile == "" {
		c.Ingest.DataFile = "web/data/performance-data.json"
	}
	if c.Ingest.WebDir == "" {
		c.Ingest.WebDir = "web"
	}

	return nil
}

func (c *Config) validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.RawInterval)
	}
	if c.Source.Timeout <= 0 {
		return fmt.Errorf("source.timeout must be positive, got %s", c.Source.RawTimeout)
	}
	if c.TUI.SearchDebounce < 0 {
		return fmt.Errorf("tui.search_debounce must not be negative, got %s", c.TUI.RawSearchDebounce)
	}
	if c.TUI.LeaderboardSize < 0 || c.TUI.TopPerformers < 0 {
		return fmt.Errorf("tui leaderboard sizes must not be negative")
	}
	if c.Ingest.Port < 1 || c.Ingest.Port > 65535 {
		return fmt.Errorf("ingest.port out of range: %d", c.Ingest.Port)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log.level %q (debug|info|warn|error)", c.Log.Level)
	}
	return nil
}
