// Package config loads and saves the powerlytics TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all powerlytics configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Parsing    ParsingConfig    `toml:"parsing"`
	Logging    LoggingConfig    `toml:"logging"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
	Influx     InfluxConfig     `toml:"influx"`
	Tariff     TariffConfig     `toml:"tariff"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataPaths []string `toml:"data_paths,omitempty"`
	NoCache   bool     `toml:"no_cache"`
}

// ParsingConfig describes the layout of the meter export.
type ParsingConfig struct {
	SkipRows   int    `toml:"skip_rows"`
	DateLayout string `toml:"date_layout"`
	TimeLayout string `toml:"time_layout"`
	Comma      string `toml:"comma"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// InfluxConfig holds InfluxDB export settings.
type InfluxConfig struct {
	URL    string `toml:"url,omitempty"`
	Org    string `toml:"org,omitempty"`
	Bucket string `toml:"bucket,omitempty"`
	Token  string `toml:"token,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Parsing: ParsingConfig{
			SkipRows:   12,
			DateLayout: "02/01/2006",
			TimeLayout: "15:04",
			Comma:      ",",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8788",
		},
		Tariff: TariffConfig{
			Currency: "₪",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "powerlytics")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "powerlytics")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Tariff.validate(); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// InfluxToken returns the InfluxDB token from env var or config, in that order.
func InfluxToken(cfg Config) string {
	if tok := os.Getenv("INFLUX_TOKEN"); tok != "" {
		return tok
	}
	return cfg.Influx.Token
}

// CommaRune returns the configured field separator as a rune, defaulting to ','.
func (p ParsingConfig) CommaRune() rune {
	for _, r := range p.Comma {
		return r
	}
	return ','
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
