package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/gflcollect/boxes-backend-go/internal/timeutil"
)

// Config holds application configuration, read from an optional yaml file
// and environment variables.
type Config struct {
	Port        string
	DBPath      string
	CatalogPath string
	Timezone    string
	JWTSecret   string

	RateLimit       int
	RateLimitWindow time.Duration
}

// Load reads configuration with viper. Environment variables (BOXES_PORT,
// BOXES_DB_PATH, ...) override the config file; built-in defaults apply
// last.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("port", ":8080")
	v.SetDefault("db_path", "./data/boxes.db")
	v.SetDefault("catalog_path", "./data/ml_boxes_ready.csv")
	v.SetDefault("timezone", timeutil.DefaultTimezone)
	v.SetDefault("jwt_secret", "")
	v.SetDefault("rate_limit", 100)
	v.SetDefault("rate_limit_window", "1m")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("boxes")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("BOXES")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Running on defaults and environment alone is fine.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{
		Port:            v.GetString("port"),
		DBPath:          v.GetString("db_path"),
		CatalogPath:     v.GetString("catalog_path"),
		Timezone:        v.GetString("timezone"),
		JWTSecret:       v.GetString("jwt_secret"),
		RateLimit:       v.GetInt("rate_limit"),
		RateLimitWindow: v.GetDuration("rate_limit_window"),
	}, nil
}
