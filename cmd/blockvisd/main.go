package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haukened/block-visibility/internal/blocks/common/clock"
	"github.com/haukened/block-visibility/internal/blocks/common/log"
	"github.com/haukened/block-visibility/internal/blocks/config"
	"github.com/haukened/block-visibility/internal/blocks/domain"
	"github.com/haukened/block-visibility/internal/blocks/gateways/httpapi"
	"github.com/haukened/block-visibility/internal/blocks/repos/registry"
	"github.com/haukened/block-visibility/internal/blocks/repos/settings"
	"github.com/haukened/block-visibility/internal/blocks/repos/settings/bolt"
	"github.com/haukened/block-visibility/internal/blocks/repos/settings/lru"
	"github.com/haukened/block-visibility/internal/blocks/services/visibility"
)

const (
	version = "0.1.0-dev"
	appName = "blockvisd"

	defaultShutdownTimeout = 10 * time.Second
)

// Application holds all the components of the block visibility service.
type Application struct {
	config    *config.AppConfig
	store     settings.Store
	registry  *registry.Registry
	service   *visibility.Service
	transport *httpapi.Transport
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"app":              appName,
		"version":          version,
		"env":              cfg.Env,
		"log_level":        cfg.LogLevel,
		"port":             cfg.Port,
		"db_path":          cfg.DBPath,
		"option":           cfg.OptionName,
		"manifest_dir":     cfg.ManifestDir,
		"fixed_exclusions": cfg.FixedExclusions,
	}, "Starting block visibility service")

	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Server failed")
	}

	log.Info(nil, "Block visibility service stopped gracefully")
}

// buildApplication constructs all components and wires them together.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()

	store, accessor, err := buildSettings(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build settings: %w", err)
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to build registry: %w", err)
	}

	svc, err := visibility.New(visibility.Options{
		Settings: accessor,
		Registry: reg,
		Logger:   logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to build visibility service: %w", err)
	}

	handler, err := httpapi.Router(httpapi.Options{
		Service:    svc,
		OptionName: cfg.OptionName,
		BaseURL:    cfg.BaseURL,
		StoreStats: store.Stats,
		Logger:     logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to build HTTP router: %w", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	return &Application{
		config:    cfg,
		store:     store,
		registry:  reg,
		service:   svc,
		transport: httpapi.NewTransport(addr, handler, logger),
	}, nil
}

// buildSettings opens the option store and wraps it in a cached accessor.
func buildSettings(cfg *config.AppConfig, logger log.Logger) (settings.Store, *settings.Accessor, error) {
	store, err := bolt.New(cfg.DBPath, clock.RealClock{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open settings database %s: %w", cfg.DBPath, err)
	}

	if cfg.CacheSize > uint(^uint(0)>>1) {
		_ = store.Close()
		return nil, nil, fmt.Errorf("cache size too large: %d (max %d)", cfg.CacheSize, ^uint(0)>>1)
	}
	cache, err := lru.New(int(cfg.CacheSize))
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to create settings cache: %w", err)
	}

	accessor, err := settings.NewAccessor(settings.AccessorOptions{
		Store:  store,
		Cache:  cache,
		Option: cfg.OptionName,
		Fixed:  domain.Identifiers(cfg.FixedExclusions...),
		Logger: logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	st := store.Stats()
	log.Info(map[string]any{
		"db_path":    cfg.DBPath,
		"options":    st.Options,
		"revision":   st.Revision,
		"cache_size": cfg.CacheSize,
	}, "Settings store opened")
	return store, accessor, nil
}

// buildRegistry seeds the block registry from the manifest directory, if any.
func buildRegistry(cfg *config.AppConfig) (*registry.Registry, error) {
	reg := registry.New()
	if cfg.ManifestDir == "" {
		log.Warn(nil, "No manifest directory configured, registry starts empty")
		return reg, nil
	}

	n, err := registry.LoadInto(reg, cfg.ManifestDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load block manifests: %w", err)
	}

	log.Info(map[string]any{
		"manifest_dir": cfg.ManifestDir,
		"blocks":       n,
	}, "Block registry initialized")
	return reg, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	defer func() {
		if err := app.store.Close(); err != nil {
			log.Warn(map[string]any{"error": err}, "Error closing settings store")
		}
	}()

	if err := app.transport.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP transport: %w", err)
	}

	log.Info(map[string]any{
		"address":    app.transport.Address(),
		"transport":  "HTTP",
		"registered": app.service.RegisteredCount(),
	}, "Block visibility service started")

	<-ctx.Done()

	log.Info(nil, "Shutdown initiated")

	done := make(chan error, 1)
	go func() { done <- app.transport.Stop() }()

	select {
	case err := <-done:
		if err != nil {
			log.Warn(map[string]any{"error": err}, "Error during transport shutdown")
		}
		log.Info(nil, "Graceful shutdown completed")
		return nil
	case <-time.After(defaultShutdownTimeout):
		log.Warn(map[string]any{"timeout": defaultShutdownTimeout}, "Shutdown timeout exceeded")
		return fmt.Errorf("shutdown timeout")
	}
}
