// Package config loads the graft command line configuration.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. GRAFT_LOG_LEVEL.
	EnvPrefix = "GRAFT"
	// FileName is the config file looked up in the working directory.
	FileName = "graft"
)

// Config is the effective configuration of the graft binary.
type Config struct {
	LogLevel    string        `mapstructure:"log_level"`
	ModulePaths []string      `mapstructure:"module_paths"`
	ExpandEnv   bool          `mapstructure:"expand_env"`
	Commands    string        `mapstructure:"commands"`
	Redact      []string      `mapstructure:"redact"`
	Secrets     SecretsConfig `mapstructure:"secrets"`
	Vault       VaultConfig   `mapstructure:"vault"`
	Redis       RedisConfig   `mapstructure:"redis"`
	HTTP        HTTPConfig    `mapstructure:"http"`
}

// VaultConfig enables the loam document host when Dir is set.
type VaultConfig struct {
	Dir string `mapstructure:"dir"`
}

// RedisConfig enables the redis host when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// SecretsConfig enables decryption of "enc:" values when Key is set.
// Keys are base64 encoded AES-256 keys.
type SecretsConfig struct {
	Key          string   `mapstructure:"key"`
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		LogLevel: "info",
		Redis:    RedisConfig{Prefix: "graft:module:"},
		HTTP:     HTTPConfig{Port: 8080},
	}
}

// Load reads the configuration.
// An explicit path must exist; otherwise graft.{yaml,json,toml} in the
// working directory is used when present. Environment variables win over
// the file.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("expand_env", defaults.ExpandEnv)
	v.SetDefault("commands", defaults.Commands)
	v.SetDefault("vault.dir", defaults.Vault.Dir)
	v.SetDefault("redis.addr", defaults.Redis.Addr)
	v.SetDefault("redis.password", defaults.Redis.Password)
	v.SetDefault("redis.db", defaults.Redis.DB)
	v.SetDefault("redis.prefix", defaults.Redis.Prefix)
	v.SetDefault("http.port", defaults.HTTP.Port)
	v.SetDefault("secrets.key", defaults.Secrets.Key)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
