package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Admin    AdminConfig    `toml:"admin"`
	Radio    RadioConfig    `toml:"radio"`
	Player   PlayerConfig   `toml:"player"`
	Database DatabaseConfig `toml:"database"`
}

// AdminConfig contains settings for the admin (download) service.
type AdminConfig struct {
	BaseURL    string `toml:"base_url"`
	EventsPath string `toml:"events_path"`
}

// EventsURL returns the absolute URL of the SSE progress stream.
func (a AdminConfig) EventsURL() string {
	return a.BaseURL + a.EventsPath
}

// RadioConfig contains settings for the Icecast stream and its helper APIs.
type RadioConfig struct {
	IcecastURL      string `toml:"icecast_url"`
	StreamMount     string `toml:"stream_mount"`
	StreamURL       string `toml:"stream_url"`
	PollIntervalMS  int    `toml:"poll_interval_ms"`
	CoverAPIURL     string `toml:"cover_api_url"`
	DefaultCoverURL string `toml:"default_cover_url"`
	HistoryLimit    int    `toml:"history_limit"`
}

// PollInterval returns the metadata poll interval as a [time.Duration].
func (r RadioConfig) PollInterval() time.Duration {
	if r.PollIntervalMS <= 0 {
		return 5 * time.Second
	}
	return time.Duration(r.PollIntervalMS) * time.Millisecond
}

// PlayerConfig contains settings for the external audio player process.
type PlayerConfig struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
