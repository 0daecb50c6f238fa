// Package config resolves process configuration once at startup. Values come
// from environment variables (with .env support loaded by the callers) and
// are passed into each component as immutable structs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config aggregates the settings for the whole process.
type Config struct {
	Daemon   DaemonConfig
	Provider ProviderConfig
}

// DaemonConfig describes the local daemon socket and the client timeouts
// used when talking to it.
type DaemonConfig struct {
	SocketPath     string
	ChatTimeout    time.Duration
	HealthTimeout  time.Duration
	LaunchAttempts int
	LaunchInterval time.Duration
}

// ProviderConfig describes how external provider CLIs are invoked.
type ProviderConfig struct {
	Timeout      time.Duration
	ProbeTimeout time.Duration
	ClaudeModel  string
	Preferred    string
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	daemon, err := loadDaemonConfig()
	if err != nil {
		return nil, err
	}

	provider, err := loadProviderConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Daemon: daemon, Provider: provider}, nil
}

func loadDaemonConfig() (DaemonConfig, error) {
	socketPath := strings.TrimSpace(os.Getenv("MYDUCKD_SOCKET"))
	if socketPath == "" {
		socketPath = filepath.Join(os.TempDir(), "myduckd.sock")
	}

	chatTimeout, err := parsePositiveMillisEnv("MYDUCK_BACKEND_TIMEOUT_MS", 190*time.Second)
	if err != nil {
		return DaemonConfig{}, err
	}

	return DaemonConfig{
		SocketPath:     socketPath,
		ChatTimeout:    chatTimeout,
		HealthTimeout:  800 * time.Millisecond,
		LaunchAttempts: 25,
		LaunchInterval: 100 * time.Millisecond,
	}, nil
}

func loadProviderConfig() (ProviderConfig, error) {
	timeout, err := parsePositiveMillisEnv("MYDUCK_PROVIDER_TIMEOUT_MS", 180*time.Second)
	if err != nil {
		return ProviderConfig{}, err
	}

	model := strings.TrimSpace(os.Getenv("MYDUCK_CLAUDE_MODEL"))
	if model == "" {
		model = "haiku"
	}

	return ProviderConfig{
		Timeout:      timeout,
		ProbeTimeout: 5 * time.Second,
		ClaudeModel:  model,
		Preferred:    strings.TrimSpace(os.Getenv("MYDUCK_CLI_PROVIDER")),
	}, nil
}

// HomeDir returns the base directory for the .myduck preferences directory.
// MYDUCK_HOME overrides the user home.
func HomeDir() string {
	if base := strings.TrimSpace(os.Getenv("MYDUCK_HOME")); base != "" {
		return base
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return home
}

func parsePositiveMillisEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val <= 0 {
		return defaultValue, nil
	}
	return time.Duration(val) * time.Millisecond, nil
}
