// Command autograded is the autograde HTTP service.
// It serves the grading API and a health check.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/autograde/autograde/internal/api"
	"github.com/autograde/autograde/internal/logging"
	"github.com/autograde/autograde/internal/source"
	"github.com/autograde/autograde/pkg/config"
)

type serverConfig struct {
	Port       string
	ConfigPath string
	Debug      bool
}

func loadServerConfig() serverConfig {
	return serverConfig{
		Port:       envOrDefault("PORT", "8080"),
		ConfigPath: os.Getenv("AUTOGRADE_CONFIG"),
		Debug:      os.Getenv("AUTOGRADE_DEBUG") != "",
	}
}

func main() {
	if err := run(loadServerConfig()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(sc serverConfig) error {
	cfg := config.DefaultConfig()
	if sc.ConfigPath != "" {
		loaded, err := config.Load(sc.ConfigPath)
		if err != nil {
			return fmt.Errorf("loading %s: %w", sc.ConfigPath, err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	log, err := newLogger(sc, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	s3cfg := source.S3Config{
		Region:    cfg.Source.S3.Region,
		Endpoint:  cfg.Source.S3.Endpoint,
		AccessKey: cfg.Source.S3.AccessKey,
		SecretKey: cfg.Source.S3.SecretKey,
	}
	handler := api.NewHandler(log, &cfg.Grading, s3cfg, nil)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              ":" + sc.Port,
		Handler:           api.CORS(api.RequestLog(log)(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infow("starting autograded", "port", sc.Port, "categories", cfg.Grading.Configured())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newLogger(sc serverConfig, cfg *config.Config) (*zap.SugaredLogger, error) {
	return logging.New(sc.Debug || cfg.Log.Debug, logging.ServiceLevel)
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
