package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config represents the spindle CLI configuration.
// Use mapstructure tags for Viper unmarshaling.
type Config struct {
	Cache    CacheConfig    `mapstructure:"cache"`
	Registry RegistryConfig `mapstructure:"registry"`
}

// CacheConfig holds cache-related settings.
type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

// RegistryConfig holds registry-related settings.
type RegistryConfig struct {
	Insecure  bool   `mapstructure:"insecure"`
	UserAgent string `mapstructure:"user_agent"`
}

// Load reads the CLI configuration from the config directory.
// A missing config file yields the zero Config.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return Config{}, nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
