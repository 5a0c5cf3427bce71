package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/EuricoCruz/shodan_enrichment/internal/adapter/http/handler"
	"github.com/EuricoCruz/shodan_enrichment/internal/infrastructure/config"
	"github.com/EuricoCruz/shodan_enrichment/internal/infrastructure/logger"
	"github.com/EuricoCruz/shodan_enrichment/internal/integration"
)

func main() {
	// 1. Setup logger
	log := logger.New("info")
	log.Info("Starting Shodan enrichment service")

	// 2. Carrega configuração
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Error("Failed to load config")
		os.Exit(1)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	log.WithFields(logrus.Fields{
		"port":              cfg.ServerPort,
		"shodan":            cfg.ShodanBaseURL,
		"limiter_min_time":  cfg.LimiterMinTime.String(),
		"limiter_highwater": cfg.LimiterHighWater,
		"limiter_max_keys":  cfg.LimiterMaxKeys,
		"redis":             cfg.RedisEnabled,
	}).Info("Configuration loaded")

	// 3. Monta camadas (Dependency Injection)
	shodanIntegration, err := integration.Startup(cfg, log)
	if err != nil {
		log.WithError(err).Error("Failed to start integration")
		os.Exit(1)
	}
	log.Info("Integration initialized")

	// 4. Setup HTTP Router
	router := handler.NewRouter(shodanIntegration, log)

	// 5. HTTP Server
	// WriteTimeout covers a full batch: 15 queued lookups at ~1s spacing plus the request itself
	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 16*cfg.LimiterMinTime + cfg.Request.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// 6. Start server em goroutine
	go func() {
		log.WithField("port", cfg.ServerPort).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error")
			os.Exit(1)
		}
	}()

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	if err := shodanIntegration.Close(); err != nil {
		log.WithError(err).Error("Failed to release limiter resources")
	}

	log.Info("Shodan enrichment service stopped")
}
