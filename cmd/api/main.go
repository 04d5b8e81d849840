package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/providers/heygen"
	"server/internal/registry"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if !cfg.APIKeyConfigured() {
		logger.Warn().Msg("HEYGEN_API_KEY environment variable not set; generation endpoints will report not configured")
	}

	// Optional GeoIP country resolver for access-log enrichment.
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		defer func() {
			if closer, ok := resolver.(*geoip.Resolver); ok {
				_ = closer.Close()
			}
		}()
		lookup = resolver.CountryCode
	}

	// Provider client is constructed once at startup from validated
	// configuration and injected into the handlers.
	videos, err := heygen.NewClient(heygen.Options{
		APIKey:          cfg.HeyGenAPIKey,
		BaseURL:         cfg.HeyGenBaseURL,
		TemplateID:      cfg.TemplateID,
		GenerateTimeout: cfg.GenerateTimeout,
		StatusTimeout:   cfg.StatusTimeout,
		Logger:          &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to construct provider client")
	}

	app := handlers.NewApp(logger, registry.New(), videos, cfg.TemplateID)
	router := httpapi.NewRouter(app, logger, cfg, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
