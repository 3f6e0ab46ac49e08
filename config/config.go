package config

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     Server
	Bun        BunConfig
	JWT        JWT
	LoggerMode LoggerMode
	Limits     Limits
	Encryption Encryption
	Channels   Channels
}

type Server struct {
	Port        string
	Environment string
}

// BunConfig selects the persistent backend. An empty DSN keeps every
// store in memory.
type BunConfig struct {
	DSN string
}

type LoggerMode struct {
	Development bool
	Prod        bool
	Level       string
}

// JWT holds the identity provider's signing secret. Tokens are verified,
// never issued, by this service.
type JWT struct {
	Secret string
	Issuer string
}

type Limits struct {
	MaxUsernameLength    int
	MaxChannelNameLength int
	MaxContentBytes      int
	MaxAttachmentBytes   int64
	MaxSharedWith        int
	DefaultPageSize      int
	MaxPageSize          int
}

type Encryption struct {
	MasterKey       string // hex, 32 bytes
	MessageTTL      time.Duration
	CleanupInterval time.Duration
}

type Channels struct {
	RequirePaymentForEncrypted bool
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()

	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	v.AddConfigPath("config")

	v.SetEnvPrefix("chatz")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	err := v.Unmarshal(&c)
	if err != nil {
		slog.Error("Unable to unmarshal config", "err", err)
		return nil, err
	}
	c.applyDefaults()
	return &c, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.LoggerMode.Level == "" {
		c.LoggerMode.Level = "info"
	}

	l := &c.Limits
	if l.MaxUsernameLength <= 0 {
		l.MaxUsernameLength = 50
	}
	if l.MaxChannelNameLength <= 0 {
		l.MaxChannelNameLength = 100
	}
	if l.MaxContentBytes <= 0 {
		l.MaxContentBytes = 2000
	}
	if l.MaxAttachmentBytes <= 0 {
		l.MaxAttachmentBytes = 10_000_000
	}
	if l.MaxSharedWith <= 0 {
		l.MaxSharedWith = 50
	}
	if l.DefaultPageSize <= 0 {
		l.DefaultPageSize = 50
	}
	if l.MaxPageSize <= 0 {
		l.MaxPageSize = 100
	}

	if c.Encryption.MessageTTL <= 0 {
		c.Encryption.MessageTTL = 24 * time.Hour
	}
	if c.Encryption.CleanupInterval <= 0 {
		c.Encryption.CleanupInterval = time.Hour
	}
}
