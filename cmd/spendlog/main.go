package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"spendlog/internal/cli"
	apphttp "spendlog/internal/http"
	"spendlog/internal/log"
	"spendlog/internal/session"
	"spendlog/internal/store"
)

func main() {
	cfg, logger := cli.Bootstrap()

	st := store.New()
	categories := store.LoadCategories(cfg.DataDir)
	sess := session.New(st, logger)

	srv, err := apphttp.NewServer(cfg, sess, categories, logger)
	if err != nil {
		logger.Error("Failed to build server",
			log.FieldOperation, log.OpStartup,
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeInternal)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting spendlog server",
			log.FieldOperation, log.OpStartup,
			"addr", cfg.Addr(),
			"categories", len(categories))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error",
			log.FieldOperation, log.OpShutdown,
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeInternal)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully", log.FieldOperation, log.OpShutdown)
}
