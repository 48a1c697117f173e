package daemon

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds daemon settings.
type Config struct {
	Interval   time.Duration `mapstructure:"interval"`
	Profile    string        `mapstructure:"profile"`
	ConfigPath string        `mapstructure:"config_path"`
	Format     string        `mapstructure:"format"`
	OutputDir  string        `mapstructure:"output_dir"`
	StatePath  string        `mapstructure:"state_path"`
}

// LoadConfig reads daemon configuration from an optional YAML file with
// environment overrides (EAI_SECURITY_CHECK_INTERVAL and friends).
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("interval", "24h")
	v.SetDefault("profile", "default")
	v.SetDefault("format", "plain")
	v.SetDefault("output_dir", "./reports")
	v.SetDefault("state_path", "./daemon-state.json")

	v.SetEnvPrefix("EAI_SECURITY_CHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read daemon config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse daemon config: %w", err)
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("daemon interval must be positive, got %v", cfg.Interval)
	}
	return &cfg, nil
}
