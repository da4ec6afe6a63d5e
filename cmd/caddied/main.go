// Command caddied is the hosted insight service.
// It serves the round insight API and a health check.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/caddie/caddie/internal/api"
	"github.com/caddie/caddie/internal/archive"
	"github.com/caddie/caddie/internal/events"
	"github.com/caddie/caddie/internal/platform"
	"github.com/caddie/caddie/internal/service"
	"github.com/caddie/caddie/internal/store"
	"github.com/caddie/caddie/pkg/config"
	"github.com/caddie/caddie/pkg/insights"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "caddied: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	path := os.Getenv("CADDIE_CONFIG")
	if path == "" {
		wd, _ := os.Getwd()
		path = config.FindConfigFile(wd)
	}
	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if pg, ok := st.(*store.PostgresStore); ok {
		if err := platform.AutoMigrate(pg.DB()); err != nil {
			return err
		}
		log.Info("schema up to date")
	}

	arch, err := archive.New(ctx, cfg.Archive)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	if c, ok := arch.(io.Closer); ok {
		defer c.Close()
	}

	pub, err := events.NewPublisher(cfg.Events, log)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	defer pub.Close()

	engine := insights.NewEngine(
		insights.WithThresholds(cfg.Thresholds()),
		insights.WithCopyGuard(cfg.NewCopyGuard()),
	)
	opts := []service.Option{service.WithLogger(log), service.WithPublisher(pub)}
	if arch != nil {
		opts = append(opts, service.WithArchive(arch))
	}
	svc := service.New(st, engine, opts...)

	handler := api.NewHandler(svc, st.Ping, nil, log)
	apiMux := http.NewServeMux()
	handler.RegisterRoutes(apiMux)

	// Writes require the API key; reads and the health check do not.
	auth := api.APIKeyAuth(cfg.Server.APIKey)
	root := http.NewServeMux()
	root.Handle("POST /api/", auth(apiMux))
	root.Handle("/", apiMux)

	var h http.Handler = api.CORS(root)
	h = api.Recover(log)(h)
	h = api.AccessLog(os.Stdout)(h)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting caddied",
			zap.String("port", cfg.Server.Port),
			zap.String("store", cfg.Store.Driver),
			zap.Bool("events", pub.Enabled()),
			zap.Bool("archive", arch != nil))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown error", zap.Error(err))
	}
	return nil
}
