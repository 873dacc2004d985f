package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration. Values come from config.yaml when
// present, overridden by environment variables.
type Config struct {
	Addr string

	// DBDSN empty means in-memory storage.
	DBDSN string

	PassportBaseURL string
	PassportAPIKey  string

	TiersBaseURL string
	TiersAPIKey  string

	UpstreamTimeout time.Duration
}

func defaults() Config {
	return Config{
		Addr:            ":8080",
		UpstreamTimeout: 5 * time.Second,
	}
}

// Load reads config.yaml from configPath (optional) and applies env
// overrides: PORT, DB_DSN, PASSPORT_BASE_URL, PASSPORT_API_KEY,
// TIERS_BASE_URL, TIERS_API_KEY, UPSTREAM_TIMEOUT.
func Load(configPath string) (Config, error) {
	cfg := defaults()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.BindEnv("server.port", "PORT")
	v.BindEnv("database.dsn", "DB_DSN")
	v.BindEnv("passport.base_url", "PASSPORT_BASE_URL")
	v.BindEnv("passport.api_key", "PASSPORT_API_KEY")
	v.BindEnv("tiers.base_url", "TIERS_BASE_URL")
	v.BindEnv("tiers.api_key", "TIERS_API_KEY")
	v.BindEnv("upstream.timeout", "UPSTREAM_TIMEOUT")

	// Config file is optional: defaults + env are enough for dev.
	_ = v.ReadInConfig()

	if v.IsSet("server.port") {
		if p := v.GetString("server.port"); p != "" {
			cfg.Addr = ":" + p
		}
	}
	if v.IsSet("database.dsn") {
		cfg.DBDSN = v.GetString("database.dsn")
	}
	if v.IsSet("passport.base_url") {
		cfg.PassportBaseURL = v.GetString("passport.base_url")
	}
	if v.IsSet("passport.api_key") {
		cfg.PassportAPIKey = v.GetString("passport.api_key")
	}
	if v.IsSet("tiers.base_url") {
		cfg.TiersBaseURL = v.GetString("tiers.base_url")
	}
	if v.IsSet("tiers.api_key") {
		cfg.TiersAPIKey = v.GetString("tiers.api_key")
	}
	if v.IsSet("upstream.timeout") {
		if d := v.GetDuration("upstream.timeout"); d > 0 {
			cfg.UpstreamTimeout = d
		}
	}

	return cfg, nil
}
