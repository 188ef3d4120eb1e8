package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the admissions API.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabaseURL     string
	RedisURL        string
	NATSURL         string
	JWTSecret       string
	CORSOrigins     string
	CohortStatsTTL  time.Duration
	MessageSubject  string
	ImportMaxRows   int
	ShutdownTimeout time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ADMIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Admissions API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cors.origins", "*")
	v.SetDefault("cohort.stats_ttl", "2m")
	v.SetDefault("message.subject", "admissions.messages.queued")
	v.SetDefault("import.max_rows", 2000)
	v.SetDefault("shutdown.timeout", "5s")

	ttl, err := time.ParseDuration(v.GetString("cohort.stats_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid cohort stats ttl: %w", err)
	}

	shutdownTimeout, err := time.ParseDuration(v.GetString("shutdown.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		NATSURL:         v.GetString("nats.url"),
		JWTSecret:       v.GetString("jwt.secret"),
		CORSOrigins:     v.GetString("cors.origins"),
		CohortStatsTTL:  ttl,
		MessageSubject:  v.GetString("message.subject"),
		ImportMaxRows:   v.GetInt("import.max_rows"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.ImportMaxRows <= 0 {
		cfg.ImportMaxRows = 2000
	}

	return cfg, nil
}
