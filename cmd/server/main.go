// Command gv-server starts the goph-vault HTTP server.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/goph-vault/internal/config"
	pkgcrypto "github.com/and161185/goph-vault/internal/crypto"
	"github.com/and161185/goph-vault/internal/crypto/vaultcrypto"
	"github.com/and161185/goph-vault/internal/migrate"
	"github.com/and161185/goph-vault/internal/observability"
	"github.com/and161185/goph-vault/internal/passgen"
	"github.com/and161185/goph-vault/internal/repository"
	"github.com/and161185/goph-vault/internal/repository/memory"
	"github.com/and161185/goph-vault/internal/repository/postgres"
	"github.com/and161185/goph-vault/internal/server/httpserver"
	"github.com/and161185/goph-vault/internal/service"
	"github.com/and161185/goph-vault/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, and serves the HTTP API until
// SIGINT or SIGTERM.
func main() {
	envFile := flag.String("env-file", ".env", "dotenv file (optional)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		// no logger yet
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(2)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
		zap.Bool("tls", cfg.TLS()),
		zap.Duration("session", cfg.SessionTTL()),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Repositories
	var (
		repo repository.RecordRepository
		ping httpserver.Pinger
	)
	if cfg.DatabaseDSN != "" {
		if cfg.RunMigrations {
			if err := migrate.Up(ctx, cfg.DatabaseDSN, logger); err != nil {
				logger.Fatal("migrate up", zap.Error(err))
			}
		}
		db, err := postgres.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			logger.Fatal("postgres", zap.Error(err))
		}
		defer db.Close()
		repo, ping = postgres.NewRecordRepo(db), db
	} else {
		logger.Warn("DATABASE_DSN is empty; records are kept in memory only")
		repo = memory.NewRecordRepo()
	}

	// Crypto
	master, err := pkgcrypto.NewMasterKey(cfg.Secrets.MasterPassword)
	if err != nil {
		logger.Fatal("master key", zap.Error(err))
	}
	tokens, err := token.New([]byte(cfg.Secrets.JWTSecret))
	if err != nil {
		logger.Fatal("token service", zap.Error(err))
	}
	cipher, err := vaultcrypto.New(cfg.Secrets.EncryptionKey)
	if err != nil {
		logger.Fatal("cipher", zap.Error(err))
	}

	// Services
	authSvc, err := service.NewAuthService(master, tokens, cfg.SessionTTL())
	if err != nil {
		logger.Fatal("auth service", zap.Error(err))
	}
	recordSvc := service.NewRecordService(repo, cipher)

	app, err := httpserver.New(httpserver.Deps{
		Auth:           authSvc,
		Records:        recordSvc,
		Generator:      passgen.New(),
		DB:             ping,
		Log:            logger,
		Metrics:        observability.NewMetrics(),
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		logger.Fatal("http app", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		if cfg.TLS() {
			logger.Info("listening (TLS)", zap.String("addr", cfg.Addr))
			errCh <- app.ListenTLS(cfg.Addr, cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- app.Listen(cfg.Addr)
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
