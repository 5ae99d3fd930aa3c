package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Fallbacks   FallbacksConfig   `toml:"fallbacks"`
}

// CredentialsConfig contains platform-specific credentials.
type CredentialsConfig struct {
	Spotify    SpotifyConfig    `toml:"spotify"`
	Apple      AppleConfig      `toml:"apple"`
	SoundCloud SoundCloudConfig `toml:"soundcloud"`
	YouTube    YouTubeConfig    `toml:"youtube"`
}

// SpotifyConfig contains Spotify Web API credentials.
type SpotifyConfig struct {
	Token  string `toml:"token"`
	UserID string `toml:"user_id"`
}

// AppleConfig contains Apple Music API credentials.
//
// The developer token authorizes catalog reads; the user token is required
// for library playlist writes. Storefront defaults to "us".
type AppleConfig struct {
	DeveloperToken string `toml:"developer_token"`
	UserToken      string `toml:"user_token"`
	Storefront     string `toml:"storefront"`
}

// SoundCloudConfig contains SoundCloud API credentials.
//
// Profile is the account slug used when building public set links.
type SoundCloudConfig struct {
	ClientID string `toml:"client_id"`
	Token    string `toml:"token"`
	Profile  string `toml:"profile"`
}

// YouTubeConfig contains the YouTube Data API key.
type YouTubeConfig struct {
	APIKey string `toml:"api_key"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// FallbacksConfig lists team and role names served when storage is unavailable.
type FallbacksConfig struct {
	Teams []string `toml:"teams"`
	Roles []string `toml:"roles"`
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
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
