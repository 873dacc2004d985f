package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"plan-timeline/internal/adapters/auth/passport"
	"plan-timeline/internal/adapters/capabilities/tiers"
	pg "plan-timeline/internal/adapters/storage/postgres"
	"plan-timeline/internal/config"
	"plan-timeline/internal/platform/logger"
	"plan-timeline/internal/ports/auth"
	"plan-timeline/internal/ports/capabilities"
	"plan-timeline/internal/router"
)

// @title Plan Timeline API
// @version 1.0
// @description Change tracking, versioning and revert for financial plans.
// @BasePath /
func main() {
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	cfg, err := config.Load(".")
	if err != nil {
		log.Error("config load failed", map[string]any{"err": err.Error()})
		os.Exit(1)
	}

	var verifier auth.AuthVerifier
	if cfg.PassportBaseURL != "" {
		client, err := passport.NewClient(passport.Config{
			BaseURL: cfg.PassportBaseURL,
			APIKey:  cfg.PassportAPIKey,
			Timeout: cfg.UpstreamTimeout,
		})
		if err != nil {
			log.Error("passport client init failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		verifier = passport.NewVerifier(client)
		log.Info("auth: passport verifier enabled", nil)
	} else {
		log.Warn("auth: dev mode, X-Debug-User-ID accepted", nil)
	}

	var caps capabilities.Resolver
	if cfg.TiersBaseURL != "" {
		client, err := tiers.NewClient(tiers.Config{
			BaseURL: cfg.TiersBaseURL,
			APIKey:  cfg.TiersAPIKey,
			Timeout: cfg.UpstreamTimeout,
		})
		if err != nil {
			log.Error("tiers client init failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		caps = tiers.NewResolver(client)
	}

	var db *sql.DB
	if cfg.DBDSN != "" {
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			log.Error("postgres open failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		log.Info("storage: postgres", nil)
	} else {
		log.Info("storage: in-memory", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		DB:           db,
		Capabilities: caps,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": cfg.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
