// File: config.go
// Title: Configuration Loading
// Description: Typed udyr configuration decoded from TOML or YAML, with
//              defaults, path expansion, environment overrides and
//              validation.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2026-10-19 v0.2.0: Typed sections for log, parser, server and history

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/udyr/foundation/core/error"
	mdwlog "github.com/msto63/udyr/foundation/core/log"
)

// Environment variables consulted by LoadFromEnv
const (
	EnvConfig     = "UDYR_CONFIG"
	EnvLogLevel   = "UDYR_LOG_LEVEL"
	EnvServerPort = "UDYR_SERVER_PORT"
)

// Default values
const (
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"
	DefaultMaxDepth        = 256
	DefaultMaxSourceLength = 1 << 20
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 9480
	DefaultCacheSize       = 1024
	DefaultHistoryPath     = "~/.udyr/history.db"
)

// Format represents the configuration file format
type Format int

const (
	// FormatTOML represents TOML format (default)
	FormatTOML Format = iota

	// FormatYAML represents YAML format
	FormatYAML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Config is the complete udyr configuration
type Config struct {
	Log     LogConfig     `toml:"log" yaml:"log"`
	Parser  ParserConfig  `toml:"parser" yaml:"parser"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	History HistoryConfig `toml:"history" yaml:"history"`

	// Path of the file the configuration was read from, empty for defaults
	Source string `toml:"-" yaml:"-"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// ParserConfig holds front end limits
type ParserConfig struct {
	MaxDepth        int `toml:"max_depth" yaml:"max_depth"`
	MaxSourceLength int `toml:"max_source_length" yaml:"max_source_length"`
}

// ServerConfig holds gRPC server configuration
type ServerConfig struct {
	Host       string `toml:"host" yaml:"host"`
	Port       int    `toml:"port" yaml:"port"`
	Reflection bool   `toml:"reflection" yaml:"reflection"`

	// CacheSize bounds the result cache; 0 disables it
	CacheSize int `toml:"cache_size" yaml:"cache_size"`
}

// HistoryConfig holds REPL history configuration
type HistoryConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled"`
	Path    string `toml:"path" yaml:"path"`
}

// Address returns the host:port listen address
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := defaults()
	cfg.expandPaths()
	return cfg
}

func defaults() *Config {
	return &Config{
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Parser: ParserConfig{
			MaxDepth:        DefaultMaxDepth,
			MaxSourceLength: DefaultMaxSourceLength,
		},
		Server: ServerConfig{
			Host:       DefaultHost,
			Port:       DefaultPort,
			Reflection: true,
			CacheSize:  DefaultCacheSize,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    DefaultHistoryPath,
		},
	}
}

// Load reads the configuration file at path
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		code := mdwerror.CodeConfigError
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return nil, mdwerror.Wrap(err, "failed to read config file").
			WithCode(code).
			WithOperation("config.Load").
			WithDetail("filePath", path)
	}

	cfg, err := Parse(content, detectFormat(path))
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config file").
			WithOperation("config.Load").
			WithDetail("filePath", path)
	}
	cfg.Source = path
	return cfg, nil
}

// Parse decodes configuration content on top of the defaults
func Parse(content []byte, format Format) (*Config, error) {
	cfg := defaults()

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(content, cfg); err != nil {
			return nil, mdwerror.Wrap(err, "YAML parse error").
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.Parse")
		}
	default:
		if _, err := toml.Decode(string(content), cfg); err != nil {
			return nil, mdwerror.Wrap(err, "TOML parse error").
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.Parse")
		}
	}

	cfg.applyDefaults()
	cfg.expandPaths()
	return cfg, nil
}

// LoadFromEnv resolves and loads the configuration file, then applies
// environment overrides. An explicit path that does not exist is an error;
// when no file is found by lookup the defaults are used.
func LoadFromEnv(explicitPath string) (*Config, error) {
	path := explicitPath
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	var cfg *Config
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if found := discover(); found != "" {
		loaded, err := Load(found)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = Default()
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all values are usable
func (c *Config) Validate() error {
	if _, err := mdwlog.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", c.Log.Level, err)
	}
	if _, err := mdwlog.ParseFormat(c.Log.Format); err != nil {
		return invalid("log.format", c.Log.Format, err)
	}
	if c.Parser.MaxDepth < 1 {
		return invalid("parser.max_depth", c.Parser.MaxDepth, nil)
	}
	if c.Parser.MaxSourceLength < 1 {
		return invalid("parser.max_source_length", c.Parser.MaxSourceLength, nil)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return invalid("server.port", c.Server.Port, nil)
	}
	if c.Server.CacheSize < 0 {
		return invalid("server.cache_size", c.Server.CacheSize, nil)
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return invalid("history.path", c.History.Path, nil)
	}
	return nil
}

func invalid(key string, value interface{}, cause error) error {
	msg := fmt.Sprintf("invalid value for %s: %v", key, value)
	var err *mdwerror.Error
	if cause != nil {
		err = mdwerror.Wrap(cause, msg)
	} else {
		err = mdwerror.New(msg)
	}
	return err.WithCode(mdwerror.CodeInvalidConfig).
		WithOperation("config.Validate").
		WithDetail("key", key)
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Parser.MaxDepth == 0 {
		c.Parser.MaxDepth = DefaultMaxDepth
	}
	if c.Parser.MaxSourceLength == 0 {
		c.Parser.MaxSourceLength = DefaultMaxSourceLength
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath
	}
}

func (c *Config) applyEnvOverrides() error {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
	if port := os.Getenv(EnvServerPort); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return mdwerror.Wrap(err, "invalid "+EnvServerPort).
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.LoadFromEnv").
				WithDetail("value", port)
		}
		c.Server.Port = n
	}
	return nil
}

func (c *Config) expandPaths() {
	c.History.Path = expandPath(c.History.Path)
}

// expandPath expands environment variables and a leading "~/"
func expandPath(path string) string {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func discover() string {
	candidates := []string{"./udyr.toml", "./udyr.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "udyr", "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// detectFormat determines the configuration format from file extension
func detectFormat(filePath string) Format {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}
