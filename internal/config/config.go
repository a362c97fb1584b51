package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode string `mapstructure:"mode"`
	Port int    `mapstructure:"port"`

	// AllowedOrigins lists origins permitted on the HTTP API and the
	// websocket upgrade. "*" disables the check.
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`

	// SweepInterval drives the idle-room reaper; RoomTTL is how long
	// an empty room survives before the sweep discards it.
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	RoomTTL       time.Duration `mapstructure:"room_ttl"`

	MediaTokenSecret string        `mapstructure:"media_token_secret"`
	MediaTokenTTL    time.Duration `mapstructure:"media_token_ttl"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("sweep_interval", "5m")
	v.SetDefault("room_ttl", "1h")
	v.SetDefault("media_token_secret", "")
	v.SetDefault("media_token_ttl", "1h")

	v.SetEnvPrefix("callbridge")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// OriginAllowed applies the allowed-origins policy to one origin.
func (c *Config) OriginAllowed(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
