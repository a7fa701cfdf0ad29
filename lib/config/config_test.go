// Copyright 2026 The alines Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Port != 64937 {
		t.Errorf("expected port=64937, got %d", cfg.Port)
	}
	if time.Duration(cfg.PollInterval) != 100*time.Millisecond {
		t.Errorf("expected poll_interval=100ms, got %s", time.Duration(cfg.PollInterval))
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log_level=info, got %s", cfg.LogLevel)
	}
	if cfg.Password != "" || len(cfg.Program) != 0 {
		t.Errorf("expected no password and no program, got %q %v", cfg.Password, cfg.Program)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := writeConfig(t, "alines.yaml", `
port: 4000
password: hunter2
program: [/bin/sh, -c, "exec my-launcher"]
poll_interval: 250ms
log_level: debug
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}

	if cfg.Port != 4000 {
		t.Errorf("expected port=4000, got %d", cfg.Port)
	}
	if cfg.Password != "hunter2" {
		t.Errorf("expected password=hunter2, got %q", cfg.Password)
	}
	if !reflect.DeepEqual(cfg.Program, []string{"/bin/sh", "-c", "exec my-launcher"}) {
		t.Errorf("unexpected program %v", cfg.Program)
	}
	if time.Duration(cfg.PollInterval) != 250*time.Millisecond {
		t.Errorf("expected poll_interval=250ms, got %s", time.Duration(cfg.PollInterval))
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log_level=debug, got %s", cfg.LogLevel)
	}
}

func TestLoadFileJSONC(t *testing.T) {
	path := writeConfig(t, "alines.jsonc", `{
	// UI password.
	"password": "from-jsonc",
	"program": ["/bin/true"], /* trailing comma below */
	"poll_interval": "50ms",
}`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}

	if cfg.Password != "from-jsonc" {
		t.Errorf("expected password=from-jsonc, got %q", cfg.Password)
	}
	if !reflect.DeepEqual(cfg.Program, []string{"/bin/true"}) {
		t.Errorf("unexpected program %v", cfg.Program)
	}
	if time.Duration(cfg.PollInterval) != 50*time.Millisecond {
		t.Errorf("expected poll_interval=50ms, got %s", time.Duration(cfg.PollInterval))
	}
	// Absent keys keep their defaults.
	if cfg.Port != 64937 {
		t.Errorf("expected default port, got %d", cfg.Port)
	}
}

func TestLoadFileBadDuration(t *testing.T) {
	path := writeConfig(t, "alines.yaml", "poll_interval: soon\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for an unparseable duration")
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for a missing file")
	}
	if !strings.Contains(err.Error(), "missing.yaml") {
		t.Errorf("error should name the file, got %v", err)
	}
}

func TestLoadFileExpandsSocketDir(t *testing.T) {
	t.Setenv("ALINES_TEST_RUNTIME", "/run/user/1000")
	path := writeConfig(t, "alines.yaml", `socket_dir: "${ALINES_TEST_RUNTIME}/alines"
password: "${ALINES_TEST_RUNTIME}"
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.SocketDir != "/run/user/1000/alines" {
		t.Errorf("expected expanded socket_dir, got %s", cfg.SocketDir)
	}
	if cfg.Password != "${ALINES_TEST_RUNTIME}" {
		t.Errorf("password must not be expanded, got %s", cfg.Password)
	}
}

func TestExpandVarsDefault(t *testing.T) {
	os.Unsetenv("ALINES_TEST_UNSET")
	if got := expandVars("${ALINES_TEST_UNSET:-/tmp}/x"); got != "/tmp/x" {
		t.Errorf("expected /tmp/x, got %s", got)
	}
	if got := expandVars("${ALINES_TEST_UNSET}/x"); got != "/x" {
		t.Errorf("expected /x, got %s", got)
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvVar, "/from/env.yaml")
	if got := ResolvePath("/from/flag.yaml"); got != "/from/flag.yaml" {
		t.Errorf("flag should win, got %s", got)
	}
	if got := ResolvePath(""); got != "/from/env.yaml" {
		t.Errorf("expected env path, got %s", got)
	}
	t.Setenv(EnvVar, "")
	if got := ResolvePath(""); got != "" {
		t.Errorf("expected no path, got %s", got)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv(EnvVar, "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "alines.yml", "port: 5000\n")
	t.Setenv(EnvVar, path)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Port != 5000 {
		t.Errorf("expected port=5000, got %d", cfg.Port)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Program = []string{"/bin/sh"}
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port zero", func(c *Config) { c.Port = 0 }, "invalid port"},
		{"port too large", func(c *Config) { c.Port = 70000 }, "invalid port"},
		{"no program", func(c *Config) { c.Program = nil }, "no program"},
		{"missing program", func(c *Config) { c.Program = []string{"/nonexistent/alines-program"} }, "program"},
		{"socket dir missing", func(c *Config) { c.SocketDir = "/nonexistent/alines" }, "socket_dir"},
		{"poll interval", func(c *Config) { c.PollInterval = 0 }, "poll_interval"},
		{"log level", func(c *Config) { c.LogLevel = "chatty" }, "log_level"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := valid()
			test.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("expected error containing %q, got %v", test.want, err)
			}
		})
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Port = 0
	cfg.LogLevel = "chatty"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"invalid port", "no program", "log_level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warn"
	level, err := cfg.Level()
	if err != nil {
		t.Fatalf("Level() failed: %v", err)
	}
	if level != slog.LevelWarn {
		t.Errorf("expected warn, got %v", level)
	}
}
