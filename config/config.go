package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up when no explicit path is given.
const FileName = "vfssim.toml"

// Config represents the simulator configuration
type Config struct {
	Session  SessionConfig  `toml:"session"`
	Terminal TerminalConfig `toml:"terminal"`
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
}

// SessionConfig controls how each new tree is created
type SessionConfig struct {
	RootName string `toml:"root_name"`
}

// TerminalConfig contains REPL rendering settings
type TerminalConfig struct {
	Color bool `toml:"color"`
}

// LogConfig mirrors logging.Config
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Output string `toml:"output"`
}

// ServerConfig contains browser terminal settings
type ServerConfig struct {
	ListenAddr         string `toml:"listen_addr"`
	MaxSessions        int    `toml:"max_sessions"`
	IdleTimeoutMinutes int    `toml:"idle_timeout_minutes"`
	Metrics            bool   `toml:"metrics"`
}

// IdleTimeout is how long a browser session may go without a command.
func (s ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMinutes) * time.Minute
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Session:  SessionConfig{RootName: "root"},
		Terminal: TerminalConfig{Color: true},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
			Output: "stderr",
		},
		Server: ServerConfig{
			ListenAddr:         ":8080",
			MaxSessions:        1000,
			IdleTimeoutMinutes: 30,
			Metrics:            true,
		},
	}
}

// Load reads the config at path. An empty path searches the working
// directory and the executable's directory; if nothing is found the
// defaults are returned. Values missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = find()
	}

	config := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func find() string {
	configPaths := []string{FileName}
	if execDir, err := filepath.Abs(filepath.Dir(os.Args[0])); err == nil {
		configPaths = append(configPaths,
			filepath.Join(execDir, FileName),
			filepath.Join(filepath.Dir(execDir), FileName),
		)
	}

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate rejects settings the simulator cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch name := c.Session.RootName; {
	case name == "":
		errs = append(errs, errors.New("session.root_name must not be empty"))
	case strings.ContainsAny(name, "/ "):
		errs = append(errs, fmt.Errorf("session.root_name %q must not contain '/' or spaces", name))
	}
	if c.Server.MaxSessions <= 0 {
		errs = append(errs, fmt.Errorf("server.max_sessions must be positive, got %d", c.Server.MaxSessions))
	}
	if c.Server.IdleTimeoutMinutes <= 0 {
		errs = append(errs, fmt.Errorf("server.idle_timeout_minutes must be positive, got %d", c.Server.IdleTimeoutMinutes))
	}
	return errors.Join(errs...)
}
