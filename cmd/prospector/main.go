// cmd/prospector/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"prospector/internal/api"
	"prospector/internal/common/config"
	aiclient "prospector/internal/common/genai"
	"prospector/internal/common/logger"
	"prospector/internal/common/observability"
	"prospector/internal/mailbox"
	"prospector/internal/outreach"
	"prospector/internal/prospecting"
	"prospector/internal/repository"
	"prospector/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting prospector",
		zap.String("environment", cfg.App.Environment),
		zap.String("store", cfg.Store.Backend),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	st, err := buildStore(ctx, cfg)
	if err != nil {
		zapLog.Fatal("store init failed", zap.Error(err))
	}
	defer st.Close()

	if err := st.Ping(ctx); err != nil {
		zapLog.Fatal("store unreachable", zap.Error(err))
	}

	gen, err := aiclient.NewGeminiClient(ctx, cfg.GenAI.APIKey, cfg.GenAI.Model)
	if err != nil {
		zapLog.Fatal("genai client init failed", zap.Error(err))
	}

	drafts, err := buildMailbox(ctx, cfg)
	if err != nil {
		zapLog.Fatal("mailbox init failed", zap.Error(err))
	}

	repo := repository.New(st, log)

	searchHandler := prospecting.NewHandler(&prospecting.Config{
		ResultTarget:   cfg.Prospecting.ResultTarget,
		MinProbability: cfg.Prospecting.MinProbability,
		Timeout:        time.Duration(cfg.Prospecting.Timeout) * time.Millisecond,
	}, gen, log)

	outreachHandler := outreach.NewHandler(&outreach.Config{
		Timeout:     time.Duration(cfg.Outreach.Timeout) * time.Millisecond,
		Concurrency: cfg.Outreach.Concurrency,
	}, gen, repo, drafts, log)

	server := api.NewServer(repo, searchHandler, outreachHandler, st, log).
		WithObservability(obs)

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: server.Router(cfg.Server.AllowedOrigins),
	}

	go func() {
		zapLog.Info("http server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	zapLog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx,
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "redis":
		return store.NewRedisStore(cfg.Store.Redis), nil
	case "postgres":
		pg, err := store.NewPostgresStore(cfg.Store.Postgres)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return store.NewFileStore(cfg.Store.File.Dir)
	}
}

func buildMailbox(ctx context.Context, cfg *config.Config) (mailbox.DraftCreator, error) {
	switch cfg.Mailbox.Provider {
	case "gmail":
		return mailbox.NewGmailClient(cfg.Mailbox.Gmail.AccessToken, cfg.Mailbox.Gmail.BaseURL), nil
	case "ses":
		return mailbox.NewSESSender(ctx, cfg.Mailbox.SES.Region, cfg.Mailbox.SES.FromEmail)
	case "smtp":
		smtp := cfg.Mailbox.SMTP
		return mailbox.NewSMTPSender(smtp.Host, smtp.Port, smtp.Username, smtp.Password, smtp.DefaultFrom), nil
	default:
		// No mailbox connected: drafts are stored locally only.
		return nil, nil
	}
}
