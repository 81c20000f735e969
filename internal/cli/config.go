package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Resolve modes a walk can run in.
const (
	ResolveModeLocal  = "local"
	ResolveModeRemote = "remote"
)

const defaultResolveTimeoutMS = 5000

// Config is the CLI configuration file.
type Config struct {
	DefaultEnv   string               `yaml:"default_env"`
	Environments map[string]EnvConfig `yaml:"environments"`
}

// EnvConfig holds the settings for one named environment: the server
// connection plus the walk defaults (where steps resolve and the per-step
// timeout).
type EnvConfig struct {
	BaseURL          string `yaml:"base_url"`
	APIKey           string `yaml:"api_key"`
	ResolveMode      string `yaml:"resolve_mode,omitempty"`
	ResolveTimeoutMS int    `yaml:"resolve_timeout_ms,omitempty"`
}

// Remote reports whether walks against this environment resolve each step
// on the server unless overridden on the command line.
func (e EnvConfig) Remote() bool {
	return e.ResolveMode == ResolveModeRemote
}

// Timeout is the per-step resolution timeout for remote walks.
func (e EnvConfig) Timeout() time.Duration {
	ms := e.ResolveTimeoutMS
	if ms <= 0 {
		ms = defaultResolveTimeoutMS
	}
	return time.Duration(ms) * time.Millisecond
}

// ConfigPath returns the config file location: $FORMFLOW_CONFIG when set,
// otherwise ~/.formflow/config.yaml.
func ConfigPath() (string, error) {
	if p := os.Getenv("FORMFLOW_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".formflow", "config.yaml"), nil
}

// LoadConfig reads the config file. A missing file is not an error; it
// yields an empty config with "prod" as the default environment.
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{
			DefaultEnv:   "prod",
			Environments: make(map[string]EnvConfig),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// SaveConfig writes the config file, creating its directory when needed.
// The file is private: it carries API keys.
func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetEnvConfig resolves the effective settings for one environment by
// layering, highest priority first: command flags, FORMFLOW_* environment
// variables, the config file. An empty envName falls back to the file's
// default environment. Returns the settings and the effective environment
// name.
func GetEnvConfig(envName, baseURLFlag, apiKeyFlag string) (*EnvConfig, string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, "", err
	}
	if envName == "" {
		envName = cfg.DefaultEnv
	}

	envCfg, found := cfg.Environments[envName]
	envCfg.BaseURL = firstNonEmpty(baseURLFlag, os.Getenv("FORMFLOW_BASE_URL"), envCfg.BaseURL)
	envCfg.APIKey = firstNonEmpty(apiKeyFlag, os.Getenv("FORMFLOW_API_KEY"), envCfg.APIKey)

	if envCfg.BaseURL == "" || envCfg.APIKey == "" {
		if !found {
			return nil, "", fmt.Errorf("environment '%s' not found in config", envName)
		}
		return nil, "", fmt.Errorf("base_url and api_key must be configured for environment '%s'", envName)
	}

	switch envCfg.ResolveMode {
	case "", ResolveModeLocal, ResolveModeRemote:
	default:
		return nil, "", fmt.Errorf("environment '%s': resolve_mode must be %q or %q, got %q",
			envName, ResolveModeLocal, ResolveModeRemote, envCfg.ResolveMode)
	}

	return &envCfg, envName, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// InitConfig creates a starter config file.
func InitConfig() error {
	cfg := &Config{
		DefaultEnv: "prod",
		Environments: map[string]EnvConfig{
			"dev": {
				BaseURL:     "http://localhost:8080",
				APIKey:      "dev-key-123",
				ResolveMode: ResolveModeLocal,
			},
			"staging": {
				BaseURL:     "https://staging.example.com",
				APIKey:      "staging-key-456",
				ResolveMode: ResolveModeRemote,
			},
			"prod": {
				BaseURL:          "https://formflow.example.com",
				APIKey:           "prod-key-789",
				ResolveMode:      ResolveModeRemote,
				ResolveTimeoutMS: 3000,
			},
		},
	}
	return SaveConfig(cfg)
}
