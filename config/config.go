package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DBType          string        `mapstructure:"DB_TYPE"` // sqlite, postgres, mysql
	DSN             string        `mapstructure:"DSN"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	Port            int           `mapstructure:"PORT"`
	FrontendOrigin  string        `mapstructure:"FRONTEND_ORIGIN"`
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	TokenTTL        time.Duration `mapstructure:"TOKEN_TTL"`
	BcryptCost      int           `mapstructure:"BCRYPT_COST"`
	RateLimitWindow time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
	RateLimitMax    int           `mapstructure:"RATE_LIMIT_MAX"`
}

// ErrMissingSecret makes a missing JWT_SECRET fatal at startup rather than a
// per-request failure.
var ErrMissingSecret = errors.New("config: JWT_SECRET must be set")

func LoadConfig() (*Config, error) {
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("DB_TYPE", "sqlite")
	viper.SetDefault("DSN", "secureauth.db")
	viper.SetDefault("FRONTEND_ORIGIN", "http://localhost:5173")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("TOKEN_TTL", time.Hour)
	viper.SetDefault("BCRYPT_COST", 12)
	viper.SetDefault("RATE_LIMIT_WINDOW", 15*time.Minute)
	viper.SetDefault("RATE_LIMIT_MAX", 5)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}

	return &cfg, nil
}
