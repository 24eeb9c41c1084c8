package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// HomeEnv overrides the directory holding shell configuration and history.
const HomeEnv = "FFLING_HOME"

const (
	configFileName  = "config.yml"
	historyFileName = "history"
)

// Config holds interactive shell preferences stored in config.yml.
type Config struct {
	Path         string
	Prompt       string
	Continuation string
	HistoryLimit int
	PackagesDir  string
	Scoping      string
}

// DefaultConfig returns the settings used when no config.yml exists.
func DefaultConfig() *Config {
	return &Config{
		Prompt:       "FFling > ",
		Continuation: "... ",
		HistoryLimit: 1000,
		PackagesDir:  "packages",
		Scoping:      "dynamic",
	}
}

// ResolveHome returns FFLING_HOME, or ~/.ffling when it is unset.
func ResolveHome() (string, error) {
	if env := strings.TrimSpace(os.Getenv(HomeEnv)); env != "" {
		return filepath.Abs(env)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".ffling"), nil
}

// ConfigPath returns the config.yml location under home.
func ConfigPath(home string) string {
	return filepath.Join(home, configFileName)
}

// HistoryPath returns the shell history location under home.
func HistoryPath(home string) string {
	return filepath.Join(home, historyFileName)
}

// LoadConfig reads path, falling back to defaults when the file is absent.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Path = path
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	for key, value := range raw.values() {
		if err := cfg.Set(key, value); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Save writes the config back to its path.
func (c *Config) Save() error {
	if c.Path == "" {
		return fmt.Errorf("config: missing path")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(configFile{
		Prompt:       c.Prompt,
		Continuation: c.Continuation,
		HistoryLimit: c.HistoryLimit,
		PackagesDir:  c.PackagesDir,
		Scoping:      c.Scoping,
	}); err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("config: encoder close: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	if err := os.WriteFile(c.Path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", c.Path, err)
	}
	return nil
}

// ConfigKeys lists the settable keys.
func ConfigKeys() []string {
	keys := []string{"prompt", "continuation", "history_limit", "packages_dir", "scoping"}
	sort.Strings(keys)
	return keys
}

// Get returns the string form of key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "prompt":
		return c.Prompt, nil
	case "continuation":
		return c.Continuation, nil
	case "history_limit":
		return strconv.Itoa(c.HistoryLimit), nil
	case "packages_dir":
		return c.PackagesDir, nil
	case "scoping":
		return c.Scoping, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set validates and assigns key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "prompt":
		c.Prompt = value
	case "continuation":
		c.Continuation = value
	case "history_limit":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return fmt.Errorf("history_limit must be a non-negative integer, got %q", value)
		}
		c.HistoryLimit = n
	case "packages_dir":
		value = strings.TrimSpace(value)
		if value == "" {
			return fmt.Errorf("packages_dir must not be empty")
		}
		c.PackagesDir = value
	case "scoping":
		value = strings.ToLower(strings.TrimSpace(value))
		if value != "dynamic" && value != "lexical" {
			return fmt.Errorf("scoping must be dynamic or lexical, got %q", value)
		}
		c.Scoping = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

type configFile struct {
	Prompt       string `yaml:"prompt,omitempty"`
	Continuation string `yaml:"continuation,omitempty"`
	HistoryLimit int    `yaml:"history_limit,omitempty"`
	PackagesDir  string `yaml:"packages_dir,omitempty"`
	Scoping      string `yaml:"scoping,omitempty"`
}

func (f configFile) values() map[string]string {
	out := make(map[string]string)
	if f.Prompt != "" {
		out["prompt"] = f.Prompt
	}
	if f.Continuation != "" {
		out["continuation"] = f.Continuation
	}
	if f.HistoryLimit != 0 {
		out["history_limit"] = strconv.Itoa(f.HistoryLimit)
	}
	if f.PackagesDir != "" {
		out["packages_dir"] = f.PackagesDir
	}
	if f.Scoping != "" {
		out["scoping"] = f.Scoping
	}
	return out
}
