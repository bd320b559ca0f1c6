// Package config loads toolchat settings from an optional YAML file,
// TOOLCHAT_* environment variables and built-in defaults, in that order of
// precedence from last to first.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, with dots in keys
// replaced by underscores: retry.attempts -> TOOLCHAT_RETRY_ATTEMPTS.
const EnvPrefix = "TOOLCHAT"

type Config struct {
	Model     string          `mapstructure:"model"`
	System    string          `mapstructure:"system"`
	MaxTokens int64           `mapstructure:"max_tokens"`
	APIKey    string          `mapstructure:"api_key"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Sandbox   SandboxConfig   `mapstructure:"sandbox"`
	Log       LogConfig       `mapstructure:"log"`
	Memory    MemoryConfig    `mapstructure:"memory"`
}

type RetryConfig struct {
	Attempts int           `mapstructure:"attempts"`
	Backoff  time.Duration `mapstructure:"backoff"`
}

type TelemetryConfig struct {
	Observe      bool   `mapstructure:"observe"`
	ArtifactsDir string `mapstructure:"artifacts_dir"`
}

// SandboxConfig bounds the file and shell tools. Empty roots mean the
// working directory; an empty write root follows the read root.
type SandboxConfig struct {
	ReadRoot  string `mapstructure:"read_root"`
	WriteRoot string `mapstructure:"write_root"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type MemoryConfig struct {
	Path string `mapstructure:"path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model", "claude-3-opus-20240229")
	v.SetDefault("system", "")
	v.SetDefault("max_tokens", 4096)
	v.SetDefault("api_key", "")
	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.backoff", "200ms")
	v.SetDefault("telemetry.observe", false)
	v.SetDefault("telemetry.artifacts_dir", ".agent")
	v.SetDefault("sandbox.read_root", "")
	v.SetDefault("sandbox.write_root", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("memory.path", ".agent/conversation.json")
}

// Load reads configuration. path may be empty, in which case only the
// environment and defaults apply.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The SDK's own variable works as a fallback for the key.
	if err := v.BindEnv("api_key", EnvPrefix+"_API_KEY", "ANTHROPIC_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the chat loop cannot run with.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Model) == "":
		return fmt.Errorf("config: model must not be empty")
	case c.MaxTokens <= 0:
		return fmt.Errorf("config: max_tokens must be positive, got %d", c.MaxTokens)
	case c.Retry.Attempts <= 0:
		return fmt.Errorf("config: retry.attempts must be positive, got %d", c.Retry.Attempts)
	case c.Retry.Backoff <= 0:
		return fmt.Errorf("config: retry.backoff must be positive, got %s", c.Retry.Backoff)
	}
	return nil
}
