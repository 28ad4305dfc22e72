package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration. Precedence: flags > env > file > defaults.
type Config struct {
	LogLevel         string      `yaml:"log_level" env:"FOLDERTXT_LOG_LEVEL"`
	Extension        string      `yaml:"extension" env:"FOLDERTXT_EXTENSION"`
	ConsolidatedName string      `yaml:"consolidated_name" env:"FOLDERTXT_CONSOLIDATED_NAME"`
	IgnorePatterns   []string    `yaml:"ignore_patterns" env:"FOLDERTXT_IGNORE_PATTERNS" env-separator:","`
	HistoryFile      string      `yaml:"history_file" env:"FOLDERTXT_HISTORY_FILE"`
	Watch            WatchConfig `yaml:"watch"`
}

type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" env:"FOLDERTXT_DEBOUNCE_MS"`
	MaxWaitMs  int `yaml:"max_wait_ms" env:"FOLDERTXT_MAX_WAIT_MS"`
}

// DefaultConfig returns the baseline configuration
func DefaultConfig() Config {
	return Config{
		LogLevel:  "info",
		Extension: ".dart",
		Watch: WatchConfig{
			DebounceMs: 500,
			MaxWaitMs:  5000,
		},
	}
}

// LoadConfig reads a YAML config file and applies environment overrides.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		default:
			if err := ValidateConfig(data); err != nil {
				return nil, fmt.Errorf("config: %q: %w", path, err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("config: parse %q: %w", path, err)
			}
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	if err := validateConsolidatedName(cfg.ConsolidatedName); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	// defaults for zeroed values
	if cfg.Watch.DebounceMs <= 0 {
		cfg.Watch.DebounceMs = 500
	}
	if cfg.Watch.MaxWaitMs <= 0 {
		cfg.Watch.MaxWaitMs = 5000
	}
	return &cfg, nil
}

// ErrConsolidatedName is returned when the consolidated file name would
// place the file outside the root
var ErrConsolidatedName = errors.New("consolidated_name must be a plain file name")

// validateConsolidatedName applies the schema's consolidated_name rule to
// values that bypass the schema (env and flags). Empty means the default.
func validateConsolidatedName(name string) error {
	if name == "" {
		return nil
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrConsolidatedName, name)
	}
	return nil
}

// MergeGitignore appends the patterns of <dir>/.gitignore not already present
func (c *Config) MergeGitignore(dir string) error {
	patterns, err := LoadGitignore(dir)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.IgnorePatterns))
	for _, p := range c.IgnorePatterns {
		seen[p] = true
	}
	for _, p := range patterns {
		if !seen[p] {
			c.IgnorePatterns = append(c.IgnorePatterns, p)
			seen[p] = true
		}
	}
	return nil
}

// LoadGitignore reads <dir>/.gitignore into simple ignore patterns.
// Comments and negations are dropped, leading and trailing slashes trimmed.
// A missing file yields no patterns.
func LoadGitignore(dir string) ([]string, error) {
	f, err := os.Open(filepath.Join(dir, ".gitignore"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		line = strings.Trim(line, "/")
		if line != "" {
			patterns = append(patterns, line)
		}
	}
	return patterns, scanner.Err()
}

// PrettyYAML renders the configuration as YAML for diagnostics
func (c Config) PrettyYAML() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%+v", c)
	}
	return string(out)
}
