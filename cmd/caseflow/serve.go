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

	"github.com/spf13/cobra"

	"github.com/suasdigital/caseflow/internal/api"
	"github.com/suasdigital/caseflow/internal/config"
	"github.com/suasdigital/caseflow/internal/domain/casefile"
	"github.com/suasdigital/caseflow/internal/domain/referral"
	"github.com/suasdigital/caseflow/internal/domain/workflow"
	"github.com/suasdigital/caseflow/internal/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the caseflow HTTP server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log.Level)

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	store := sqlite.NewStore(db, logger)
	caseRepo := sqlite.NewCaseRepository(store)
	workflowRepo := sqlite.NewWorkflowRepository(store)
	referralRepo := sqlite.NewReferralRepository(store)

	workflowSvc := workflow.NewService(workflowRepo, logger)
	caseSvc := casefile.NewService(caseRepo, workflowSvc, nil, logger)
	referralSvc := referral.NewService(referralRepo, nil, logNotifier{logger}, logger)

	handler := api.NewHandler(api.Deps{
		Cases:     caseSvc,
		Workflows: workflowSvc,
		Referrals: referralSvc,
		Weights:   cfg.Queue,
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// logNotifier surfaces navigation hints in the log; the real UI collaborator
// subscribes over the API response instead.
type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) ReferralCreated(hint referral.NavigationHint) {
	n.logger.Info("navigate", "view", hint.View, "referral", hint.ReferralID)
}
