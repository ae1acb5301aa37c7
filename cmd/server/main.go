package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/splitapp/backend/internal/auth"
	"github.com/splitapp/backend/internal/config"
	"github.com/splitapp/backend/internal/dispatch"
	"github.com/splitapp/backend/internal/email"
	"github.com/splitapp/backend/internal/handler"
	"github.com/splitapp/backend/internal/keepalive"
	"github.com/splitapp/backend/internal/service"
	"github.com/splitapp/backend/internal/storage/sqlite"
	"github.com/splitapp/backend/pkg/logging"
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		logging.Setup("info").Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("storage initialized", "database", cfg.DBPath)

	var mailer email.Mailer
	if cfg.SMTPConfigured() {
		smtp, err := email.NewSMTPMailer(email.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
		if err != nil {
			logger.Error("failed to initialize mailer", "error", err)
			os.Exit(1)
		}
		mailer = smtp
		logger.Info("SMTP mailer configured", "host", cfg.SMTPHost)
	} else {
		mailer = email.NoopMailer{}
		logger.Warn("SMTP not configured, mail goes to the log")
	}

	dispatcher := dispatch.New(cfg.DispatchWorkers, 256, 30*time.Second, logger)
	defer dispatcher.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	h := handler.New(
		service.NewAuthService(store, mailer, jwtManager, cfg.OTPTTL, logger),
		service.NewGroupService(store, mailer, dispatcher, logger),
		service.NewExpenseService(store, mailer, dispatcher, cfg.Threshold(), logger),
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go keepalive.New(cfg.SelfPingURL, cfg.SelfPingInterval, logger).Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.NewRouter(h, jwtManager),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}
}
