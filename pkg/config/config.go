// Package config provides a reusable loader for explorerd's ambient
// configuration: settings that shape how the process runs but never
// influence indexing semantics, which come only from the genesis block
// (see explorer.BlockchainConfig).
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/synnergy-chain/explorer/pkg/utils"
)

// Config is the unified ambient configuration for explorerd.
type Config struct {
	HTTP struct {
		BindAddr string `mapstructure:"bind_addr" json:"bind_addr"`
	} `mapstructure:"http" json:"http"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
	} `mapstructure:"logging" json:"logging"`

	Multiverse struct {
		RetentionDepth int `mapstructure:"retention_depth" json:"retention_depth"`
	} `mapstructure:"multiverse" json:"multiverse"`

	Explorer struct {
		AddressBech32Prefix string `mapstructure:"address_bech32_prefix" json:"address_bech32_prefix"`
		HeadTag             string `mapstructure:"head_tag" json:"head_tag"`
	} `mapstructure:"explorer" json:"explorer"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.bind_addr", ":8081")
	v.SetDefault("logging.level", "info")
	v.SetDefault("multiverse.retention_depth", 64)
	v.SetDefault("explorer.address_bech32_prefix", "ca")
	v.SetDefault("explorer.head_tag", "HEAD")
}

// Load reads config/default.yaml and merges an environment-specific
// override (config/<env>.yaml) if env is non-empty, then applies any
// EXPLORER_-prefixed environment variable overrides. The resulting
// configuration is stored in AppConfig and returned.
func Load(env string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("default")
	v.AddConfigPath("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, utils.Wrap(err, "load config")
		}
	}

	if env != "" {
		v.SetConfigName(env)
		if err := v.MergeInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
			}
		}
	}

	v.SetEnvPrefix("EXPLORER")
	v.AutomaticEnv()

	if err := v.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the EXPLORER_ENV environment
// variable to select the override file.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("EXPLORER_ENV", ""))
}
