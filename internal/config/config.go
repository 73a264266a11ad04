// Package config loads DocDesk settings from a TOML file under the user's
// config directory, with environment variable overrides for the values that
// change between machines.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config carries every tunable the client reads at startup.
type Config struct {
	// BackendURL is the base URL of the ingestion backend.
	BackendURL string `toml:"backend_url"`
	// TopK is the number of passages requested per search.
	TopK int `toml:"top_k"`
	// PollIntervalMS is the document status poll period in milliseconds.
	PollIntervalMS int `toml:"poll_interval_ms"`
	// JumpDelayMS is how long the viewer waits before honoring a citation
	// jump, in milliseconds. A newer jump within the window wins.
	JumpDelayMS int `toml:"jump_delay_ms"`
	// InboxDir, when set, is watched for dropped PDFs to upload.
	InboxDir string `toml:"inbox_dir"`
	// SessionFile is where the last selection is persisted.
	SessionFile string `toml:"session_file"`
	// StrictCitations makes malformed citation locations surface as errors
	// instead of being logged and dropped.
	StrictCitations bool `toml:"strict_citations"`
	// Verbose enables debug logging to stderr.
	Verbose bool `toml:"verbose"`
}

const (
	defaultBackendURL = "http://localhost:8000"
	defaultTopK       = 8
	defaultPollMS     = 2000
	defaultJumpMS     = 300
)

// Default returns the built-in configuration. Paths are anchored under
// dir, normally the result of Dir().
func Default(dir string) Config {
	return Config{
		BackendURL:     defaultBackendURL,
		TopK:           defaultTopK,
		PollIntervalMS: defaultPollMS,
		JumpDelayMS:    defaultJumpMS,
		SessionFile:    filepath.Join(dir, "session"),
	}
}

// Dir returns the DocDesk config directory, creating it if needed.
// DOCDESK_CONFIG_DIR overrides the default ~/.docdesk.
func Dir() (string, error) {
	dir := os.Getenv("DOCDESK_CONFIG_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".docdesk")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// Load reads config.toml from dir, layering file values over Default and
// environment overrides over both. A missing file is not an error.
func Load(dir string) (Config, error) {
	cfg := Default(dir)

	path := filepath.Join(dir, "config.toml")
	data, err := os.ReadFile(path)
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, err
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to config.toml in dir with restricted permissions.
func Save(dir string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.toml"), data, 0o600)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DOCDESK_BACKEND_URL"); v != "" {
		cfg.BackendURL = v
	}
	if v := os.Getenv("DOCDESK_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TopK = n
		}
	}
	if v := os.Getenv("DOCDESK_INBOX_DIR"); v != "" {
		cfg.InboxDir = v
	}
	if v := os.Getenv("DOCDESK_VERBOSE"); v != "" {
		cfg.Verbose = v != "0" && v != "false"
	}
}

func (c Config) validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend_url must not be empty")
	}
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1, got %d", c.TopK)
	}
	if c.PollIntervalMS < 100 {
		return fmt.Errorf("poll_interval_ms must be at least 100, got %d", c.PollIntervalMS)
	}
	if c.JumpDelayMS < 0 {
		return fmt.Errorf("jump_delay_ms must not be negative, got %d", c.JumpDelayMS)
	}
	return nil
}

// PollInterval returns the poll period as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// JumpDelay returns the citation jump settle window as a duration.
func (c Config) JumpDelay() time.Duration {
	return time.Duration(c.JumpDelayMS) * time.Millisecond
}

// HistoryFile is where chat threads are persisted, next to the session file.
// Empty when session persistence is disabled.
func (c Config) HistoryFile() string {
	if c.SessionFile == "" {
		return ""
	}
	return c.SessionFile + ".history"
}
