// Command server runs the voter verification and ballot service. main wires
// dependencies and the server lifecycle; business logic lives in the internal
// service packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"verivote/internal/admin"
	"verivote/internal/biometric"
	"verivote/internal/capture"
	"verivote/internal/enrollment"
	"verivote/internal/ledger"
	"verivote/internal/platform/config"
	"verivote/internal/platform/httpserver"
	"verivote/internal/platform/logger"
	"verivote/internal/platform/metrics"
	"verivote/internal/roster"
	"verivote/internal/session"
	"verivote/internal/tally"
	"verivote/internal/token"
	httptransport "verivote/internal/transport/http"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	templates, votes, cleanup, err := buildStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	accounts, err := roster.Load(cfg.RosterPath)
	if err != nil {
		return err
	}
	if cfg.AdminPassword != "" {
		accounts.SeedAdmin(cfg.AdminUser, cfg.AdminPassword)
	}
	log.Info("roster loaded",
		zap.String("path", cfg.RosterPath),
		zap.Int("voters", accounts.Voters()))

	bioCfg := biometric.Config{
		FaceMetric:      biometric.Metric(cfg.FaceMetric),
		FaceThreshold:   cfg.FaceThreshold,
		IrisThreshold:   cfg.IrisThreshold,
		IrisMaxDistance: cfg.IrisMaxDistance,
		FaceWeight:      cfg.FaceWeight,
		IrisWeight:      cfg.IrisWeight,
		AcceptThreshold: cfg.AcceptThreshold,
	}

	m := metrics.New()
	camera := capture.NewGuard()
	handler := httptransport.NewHandler(httptransport.Config{
		Accounts:    accounts,
		Tokens:      token.NewService(cfg.JWTSigningKey, "verivote", cfg.TokenTTL),
		Sessions:    session.NewService(bioCfg, cfg.MaxCaptureAttempts, templates, votes, camera, log, m),
		Enrollments: enrollment.NewService(templates, camera, cfg.MaxCaptureAttempts, log, m),
		Results:     tally.NewService(votes),
		Admin:       admin.NewService(templates, votes, log),
		Votes:       votes,
		Choices:     cfg.Choices,
		Logger:      log,
	})

	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))
	log.Info("starting verivote", zap.String("config", cfg.String()))

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

// buildStores selects the persistence backend: Postgres when DATABASE_URL is
// set, otherwise the on-disk file and bbolt stores under DATA_DIR.
func buildStores(ctx context.Context, cfg config.Config, log *zap.Logger) (enrollment.Store, ledger.Ledger, func(), error) {
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, fmt.Errorf("ping database: %w", err)
		}

		templates := enrollment.NewPostgresStore(db)
		votes := ledger.NewPostgresLedger(db)
		if err := templates.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		if err := votes.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		log.Info("using postgres stores")
		return templates, votes, func() { _ = db.Close() }, nil
	}

	templates, err := enrollment.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, nil, nil, err
	}
	votes, err := ledger.NewBoltLedger(filepath.Join(cfg.DataDir, "votes.db"), log)
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info("using file stores", zap.String("data_dir", cfg.DataDir))
	return templates, votes, func() { _ = votes.Close() }, nil
}
