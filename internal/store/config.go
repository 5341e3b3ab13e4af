package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// Config is the user configuration stored in ~/.rowlist/config.yaml.
type Config struct {
	// DefaultList is opened when no list is named on the command line.
	DefaultList string `yaml:"defaultList,omitempty"`
	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string `yaml:"logLevel,omitempty"`

	TUI TUIConfig `yaml:"tui,omitempty"`
}

type TUIConfig struct {
	// MacKeys requires the command modifier (alt in terminals) for
	// backspace to remove the active row.
	MacKeys bool `yaml:"macKeys,omitempty"`
	// RowHeight is the fallback row height in lines.
	RowHeight float64      `yaml:"rowHeight,omitempty"`
	Spring    SpringConfig `yaml:"spring,omitempty"`
	// Preview shows the active row's notes beside the list.
	Preview bool `yaml:"preview,omitempty"`
}

type SpringConfig struct {
	Frequency float64 `yaml:"frequency,omitempty"`
	Damping   float64 `yaml:"damping,omitempty"`
}

func ConfigDir() (string, error) {
	// Keeps unit tests from touching ~/.rowlist.
	if v := strings.TrimSpace(os.Getenv("ROWLIST_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".rowlist"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// DefaultDir is the store directory used when neither --dir nor ROWLIST_DIR
// is set.
func DefaultDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "default"), nil
}

// LoadConfig reads path, or the default config path when path is empty. A
// missing file yields an empty config.
func LoadConfig(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

// SaveConfig writes cfg to path (or the default config path) atomically.
func SaveConfig(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return atomicWriteFile(dir, configFileName+".*.tmp", path, b, 0o600)
}
