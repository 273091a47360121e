package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/use-agent/minhash/api"
	"github.com/use-agent/minhash/api/handler"
	"github.com/use-agent/minhash/cache"
	"github.com/use-agent/minhash/config"
	"github.com/use-agent/minhash/minhash"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("minhash starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"hashBit", cfg.MinHash.HashBit,
		"seed", cfg.MinHash.Seed,
		"numFuncs", cfg.MinHash.NumFuncs,
	)

	// ── 3. Validate default signature parameters ────────────────────
	// Fail at startup rather than on the first request.
	if _, err := minhash.NewWhitespaceSigner(cfg.MinHash.HashBit, cfg.MinHash.Seed, cfg.MinHash.NumFuncs); err != nil {
		slog.Error("invalid default signature parameters", "error", err)
		os.Exit(1)
	}
	if cfg.Auth.Enabled && len(cfg.Auth.APIKeys) == 0 {
		slog.Warn("auth enabled but MINHASH_API_KEYS is empty; API is open")
	}

	// ── 4. Initialise cache ─────────────────────────────────────────
	var cc *cache.Cache
	if cfg.Cache.MaxEntries > 0 {
		cc = cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL)
		defer cc.Close()
	}

	// ── 5. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(cfg, cc, startTime)

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("minhash stopped")
}

// initLogger configures the default slog logger from LogConfig. Unknown
// levels fall back to info.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(h).With("service", "minhash", "version", handler.Version))
}
