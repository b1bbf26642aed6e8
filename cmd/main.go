// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/clock"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/config"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/database"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/handler"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/repository"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/service"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/snapshot"
	"github.com/spf13/pflag"
)

func main() {
	logger := log.New(os.Stderr, "greenwave: ", log.LstdFlags)

	envFile := pflag.String("env-file", ".env", "environment file loaded before reading configuration")
	addr := pflag.String("addr", "", "listen address (overrides GREENWAVE_ADDR)")
	dataDir := pflag.String("data-dir", "", "snapshot directory (overrides GREENWAVE_DATA_DIR)")
	backend := pflag.String("backend", "", "snapshot backend: file, postgres or memory (overrides GREENWAVE_SNAPSHOT_BACKEND)")
	pflag.Parse()

	// ── 1. Configuration ──────────────────────────────────────────────────
	loaded, err := config.LoadDotEnv(*envFile)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if loaded {
		logger.Printf("loaded environment from %s", *envFile)
	}
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *backend != "" {
		cfg.SnapshotBackend = *backend
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 2. Snapshot store ─────────────────────────────────────────────────
	snapshots, closeStore, err := openSnapshots(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("snapshots: %v", err)
	}
	defer closeStore()

	pricing, err := seedPricing(cfg)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	// ── 3. Wire up layers ─────────────────────────────────────────────────
	clk := clock.NewSystem()
	store := repository.Open(ctx, snapshots,
		repository.WithLogger(logger),
		repository.WithDefaultPricing(pricing),
	)

	if !cfg.AdminEnabled() {
		logger.Printf("no admin credential configured, admin login is disabled")
	}
	accounts := service.NewAccountService(store, service.NewSessions(clk, cfg.SessionTTL),
		service.WithAdmin(service.AdminCredential{
			Email:        cfg.AdminEmail,
			Password:     cfg.AdminPassword,
			PasswordHash: cfg.AdminPasswordHash,
		}),
		service.WithHashCost(cfg.BcryptCost),
		service.WithAccountLogger(logger),
	)

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		logger.Printf("GREENWAVE_SESSION_SECRET is not set, using a random secret; tokens will not survive a restart")
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			logger.Fatalf("session secret: %v", err)
		}
	}

	h := handler.New(handler.Services{
		Accounts:     accounts,
		Tickets:      service.NewTicketService(store, clk, logger),
		Reservations: service.NewReservationService(store),
		Catalog:      service.NewCatalogService(store),
		Reports:      service.NewReportService(store),
	}, handler.NewTokens(secret, clk), logger)

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      h.Router(logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Printf("listening on http://%s (%s snapshots)", cfg.Addr, cfg.SnapshotBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	logger.Println("shutting down server…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	}
	logger.Println("server stopped")
}

func openSnapshots(ctx context.Context, cfg config.Config, logger *log.Logger) (snapshot.Store, func(), error) {
	codec, err := snapshot.CodecByName(cfg.SnapshotCodec)
	if err != nil {
		return nil, nil, err
	}

	switch cfg.SnapshotBackend {
	case config.BackendMemory:
		logger.Printf("using in-memory snapshots, nothing will be kept after exit")
		return snapshot.NewMemory(), func() {}, nil
	case config.BackendPostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Println("connected to PostgreSQL")
		store, err := database.NewSnapshotStore(ctx, pool, codec)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	default:
		store, err := snapshot.NewFileStore(cfg.DataDir, codec)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}

func seedPricing(cfg config.Config) (model.Pricing, error) {
	var p model.Pricing
	for _, f := range []struct {
		name string
		raw  string
		dst  *model.Money
	}{
		{"GREENWAVE_PRICE_STANDARD", cfg.PriceStandard, &p.Standard},
		{"GREENWAVE_PRICE_ALL_ACCESS", cfg.PriceAllAccess, &p.AllAccess},
		{"GREENWAVE_PRICE_ADD_EXHIBITION", cfg.PriceAddExhibition, &p.AddExhibition},
	} {
		m, err := model.ParseMoney(f.raw)
		if err != nil {
			return model.Pricing{}, fmt.Errorf("%s: %w", f.name, err)
		}
		if m < 0 {
			return model.Pricing{}, fmt.Errorf("%s: price cannot be negative", f.name)
		}
		*f.dst = m
	}
	return p, nil
}
