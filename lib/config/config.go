// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/JerwuQu/alines-multi/protocol"
)

// EnvVar names the configuration file when --config is not given.
const EnvVar = "ALINES_CONFIG"

// Config is the server configuration. It is built once at startup and
// never modified afterwards.
type Config struct {
	// Port is the TCP port UIs connect to.
	// Default: 64937
	Port int `yaml:"port" json:"port"`

	// Password UIs must present. Empty means UIs send an empty string.
	Password string `yaml:"password" json:"password"`

	// Program is the argv spawned once per UI session. Command-line
	// program arguments replace it entirely.
	Program []string `yaml:"program" json:"program"`

	// SocketDir holds per-session menuer sockets. Empty means the
	// system temporary directory. Socket paths must fit in 108 bytes,
	// so keep this short.
	SocketDir string `yaml:"socket_dir" json:"socket_dir"`

	// PollInterval bounds how long a dead program goes unnoticed.
	// Default: 100ms
	PollInterval Duration `yaml:"poll_interval" json:"poll_interval"`

	// LogLevel is one of debug, info, warn, error.
	// Default: info
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// Duration is a time.Duration written as a Go duration string
// ("100ms", "1s") in configuration files.
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return fmt.Errorf("line %d: duration must be a string like \"100ms\": %w", node.Line, err)
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// UnmarshalJSON parses a duration string.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("duration must be a string like \"100ms\": %w", err)
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration in its string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the configuration used before any file or flag is
// applied. Program is empty: it has no sensible default.
func Default() *Config {
	return &Config{
		Port:         protocol.DefaultPort,
		PollInterval: Duration(100 * time.Millisecond),
		LogLevel:     "info",
	}
}

// ResolvePath returns the configuration file to load: flagValue if
// set, else $ALINES_CONFIG, else "" (no file).
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(EnvVar)
}

// LoadFile loads path over Default. Keys absent from the file keep
// their defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

// Load loads the file ResolvePath picks, or returns Default when there
// is none.
func Load(flagValue string) (*Config, error) {
	path := ResolvePath(flagValue)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// loadFile decodes one file into c, leaving fields the file does not
// mention untouched.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// Strip comments and trailing commas so that the standard
		// JSON decoder accepts the file.
		return json.Unmarshal(jsonc.ToJSON(data), c)
	default:
		return yaml.Unmarshal(data, c)
	}
}

func (c *Config) expandVariables() {
	c.SocketDir = expandVars(c.SocketDir)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks the configuration for errors, reporting all of them
// at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d", c.Port))
	}

	if len(c.Program) == 0 || c.Program[0] == "" {
		errs = append(errs, errors.New("no program to run"))
	} else if _, err := exec.LookPath(c.Program[0]); err != nil {
		errs = append(errs, fmt.Errorf("program: %w", err))
	}

	if c.SocketDir != "" {
		info, err := os.Stat(c.SocketDir)
		if err != nil {
			errs = append(errs, fmt.Errorf("socket_dir: %w", err))
		} else if !info.IsDir() {
			errs = append(errs, fmt.Errorf("socket_dir %s is not a directory", c.SocketDir))
		}
	}

	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll_interval must be positive, got %s", time.Duration(c.PollInterval)))
	}

	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q must be one of debug, info, warn, error", c.LogLevel)
	}
	return level, nil
}
