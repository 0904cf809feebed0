package main

import (
	"runtime"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envVarPrefix = "BCRYPT"

type config struct {
	// The cost used by hash when --cost is not given.
	Cost int `mapstructure:"cost"`
	// One of logrus's level names.
	LogLevel string `mapstructure:"log_level"`
	// The number of computations bench runs at once.
	MaxConcurrent int64 `mapstructure:"max_concurrent"`
}

// loadConfig reads bcrypt.yaml from dir, if it exists, with BCRYPT_* environment variables taking
// precedence over it.
func loadConfig(dir string) (*config, error) {
	v := viper.New()

	v.SetDefault("cost", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("max_concurrent", runtime.NumCPU())

	v.AddConfigPath(dir)
	v.SetConfigName("bcrypt")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envVarPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok { //nolint:errorlint // viper returns it unwrapped
			return nil, errors.Wrapf(err, "reading config from %s", dir)
		}
	}

	cfg := &config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}

	if cfg.MaxConcurrent < 1 {
		return nil, errors.Errorf("max_concurrent must be positive, got %d", cfg.MaxConcurrent)
	}

	return cfg, nil
}
