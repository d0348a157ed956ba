package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// Config represents the reviewhook configuration.
type Config struct {
	Provider           string `json:"provider"`
	Model              string `json:"model"`
	ListenAddr         string `json:"listenAddr"`
	MaxConcurrent      int    `json:"maxConcurrent"`
	FileTimeoutSeconds int    `json:"fileTimeoutSeconds"`
	MaxFiles           int    `json:"maxFiles"`
	MaxFileBytes       int    `json:"maxFileBytes"`
	RulesFile          string `json:"rulesFile,omitempty"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider:           "anthropic",
		Model:              "claude-sonnet-4-20250514",
		ListenAddr:         ":8080",
		MaxConcurrent:      4,
		FileTimeoutSeconds: 120,
		MaxFiles:           50,
		MaxFileBytes:       100 * 1024,
	}
}

// ConfigDir returns the platform-appropriate config directory for reviewhook.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "reviewhook"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "reviewhook"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "reviewhook"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "reviewhook"), nil
	default:
		return filepath.Join(home, ".config", "reviewhook"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.ListenAddr != "" {
		dst.ListenAddr = src.ListenAddr
	}
	if src.MaxConcurrent > 0 {
		dst.MaxConcurrent = src.MaxConcurrent
	}
	if src.FileTimeoutSeconds > 0 {
		dst.FileTimeoutSeconds = src.FileTimeoutSeconds
	}
	if src.MaxFiles > 0 {
		dst.MaxFiles = src.MaxFiles
	}
	if src.MaxFileBytes > 0 {
		dst.MaxFileBytes = src.MaxFileBytes
	}
	if src.RulesFile != "" {
		dst.RulesFile = src.RulesFile
	}
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("REVIEWHOOK_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("REVIEWHOOK_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("REVIEWHOOK_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("REVIEWHOOK_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxConcurrent = n
		}
	}
	if v := os.Getenv("REVIEWHOOK_FILE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FileTimeoutSeconds = n
		}
	}
	if v := os.Getenv("REVIEWHOOK_MAX_FILES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxFiles = n
		}
	}
	if v := os.Getenv("REVIEWHOOK_MAX_FILE_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxFileBytes = n
		}
	}
	if v := os.Getenv("REVIEWHOOK_RULES_FILE"); v != "" {
		cfg.RulesFile = v
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["provider"]; ok && v != "" {
		cfg.Provider = v
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := overrides["listenAddr"]; ok && v != "" {
		cfg.ListenAddr = v
	}
	if v, ok := overrides["maxConcurrent"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxConcurrent = n
		}
	}
	if v, ok := overrides["fileTimeoutSeconds"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FileTimeoutSeconds = n
		}
	}
	if v, ok := overrides["maxFiles"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxFiles = n
		}
	}
	if v, ok := overrides["maxFileBytes"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxFileBytes = n
		}
	}
	if v, ok := overrides["rulesFile"]; ok && v != "" {
		cfg.RulesFile = v
	}
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "listenAddr":
		cfg.ListenAddr = value
	case "maxConcurrent":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxConcurrent must be an integer: %w", err)
		}
		cfg.MaxConcurrent = n
	case "fileTimeoutSeconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("fileTimeoutSeconds must be an integer: %w", err)
		}
		cfg.FileTimeoutSeconds = n
	case "maxFiles":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxFiles must be an integer: %w", err)
		}
		cfg.MaxFiles = n
	case "maxFileBytes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxFileBytes must be an integer: %w", err)
		}
		cfg.MaxFileBytes = n
	case "rulesFile":
		cfg.RulesFile = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
