// Package config loads rubik settings from YAML.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/rubik.yaml
var defaultYAML []byte

// Config is the full application configuration.
type Config struct {
	Cube      CubeConfig      `yaml:"cube"`
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
	SmartCube SmartCubeConfig `yaml:"smartcube"`
}

// CubeConfig holds executor settings.
type CubeConfig struct {
	ScrambleLength  int   `yaml:"scramble_length"`
	Seed            int64 `yaml:"seed"`
	AnimationHoldMs int   `yaml:"animation_hold_ms"`
}

// AnimationHold returns the hold duration; zero disables the hold.
func (c CubeConfig) AnimationHold() time.Duration {
	return time.Duration(c.AnimationHoldMs) * time.Millisecond
}

// StorageConfig holds persistence paths.
type StorageConfig struct {
	DBPath     string `yaml:"db_path"`
	JournalDir string `yaml:"journal_dir"`
}

// ServerConfig holds network listener settings.
type ServerConfig struct {
	WSAddr      string        `yaml:"ws_addr"`
	SSHAddr     string        `yaml:"ssh_addr"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// SmartCubeConfig holds Bluetooth settings.
type SmartCubeConfig struct {
	ScanTimeout time.Duration `yaml:"scan_timeout"`
	NamePrefix  string        `yaml:"name_prefix"`
}

// Default returns the embedded configuration.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded default is invalid: %v", err))
	}
	return cfg
}

// Load reads the configuration.
// Search order: customPath -> ~/.rubik/config.yaml -> ./rubik.yaml -> embedded default.
// A found file is layered over the embedded default, so it only needs the
// keys it changes.
func Load(customPath string) (Config, error) {
	cfg := Default()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	for _, path := range []string{userConfigPath("config.yaml"), "rubik.yaml"} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		return cfg, cfg.Validate()
	}

	return cfg, nil
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	if c.Cube.ScrambleLength < 0 {
		return fmt.Errorf("config: scramble_length must not be negative, got %d", c.Cube.ScrambleLength)
	}
	if c.Cube.AnimationHoldMs < 0 {
		return fmt.Errorf("config: animation_hold_ms must not be negative, got %d", c.Cube.AnimationHoldMs)
	}
	return nil
}

// userConfigPath returns the path to a user config file, or empty if home
// is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rubik", filename)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
