package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suasdigital/caseflow/internal/config"
	"github.com/suasdigital/caseflow/internal/domain/casefile"
	"github.com/suasdigital/caseflow/internal/domain/referral"
	"github.com/suasdigital/caseflow/internal/domain/workflow"
	"github.com/suasdigital/caseflow/internal/seed"
	"github.com/suasdigital/caseflow/internal/sqlite"
)

var seedScope string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate a scope with demonstration data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd.Context(), seedScope)
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedScope, "scope", "creas-norte_paefi", "organizational scope to seed")
}

func runSeed(ctx context.Context, scope string) error {
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
	workflowSvc := workflow.NewService(sqlite.NewWorkflowRepository(store), logger)

	seeder := &seed.Seeder{
		Cases:     casefile.NewService(caseRepo, workflowSvc, nil, logger),
		Referrals: referral.NewService(sqlite.NewReferralRepository(store), nil, nil, logger),
		Flags:     caseRepo,
		Logger:    logger,
	}
	return seeder.Run(ctx, scope)
}
