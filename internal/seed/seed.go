// Package seed populates a scope with demonstration data so a fresh
// installation has something to show. Seeding is recorded in the persisted
// seed flag and never runs twice for the same scope.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/suasdigital/caseflow/internal/domain/casefile"
	"github.com/suasdigital/caseflow/internal/domain/identity"
	"github.com/suasdigital/caseflow/internal/domain/referral"
)

// FlagStore persists the per-scope seed flag.
type FlagStore interface {
	SeedMode(ctx context.Context, scope string) (bool, error)
	SetSeedMode(ctx context.Context, scope string, on bool) error
}

// Seeder writes demonstration data through the regular services, so seeded
// state is indistinguishable from real usage.
type Seeder struct {
	Cases     *casefile.Service
	Referrals *referral.Service
	Flags     FlagStore
	Logger    *slog.Logger
}

var seedActor = identity.Actor{ID: "seed-coord", Name: "Coordenação (demo)", Role: "coordenador"}

// Run seeds the scope unless it was already seeded.
func (s *Seeder) Run(ctx context.Context, scope string) error {
	seeded, err := s.Flags.SeedMode(ctx, scope)
	if err != nil {
		return fmt.Errorf("reading seed flag: %w", err)
	}
	if seeded {
		s.Logger.Info("scope already seeded", "scope", scope)
		return nil
	}

	overdue := time.Now().AddDate(0, 0, -4)
	soon := time.Now().AddDate(0, 0, 3)

	demos := []casefile.CreateRequest{
		{PersonID: "demo-familia-1", RiskLevel: casefile.RiskHigh,
			Topic: "violencia", Subtopic: "fisica", Channel: "disque100",
			NextAction: "Visita domiciliar urgente", NextActionDue: &overdue},
		{PersonID: "demo-familia-2", RiskLevel: casefile.RiskMedium,
			Topic: "negligencia", Channel: "demanda_espontanea",
			NextAction: "Agendar atendimento psicossocial", NextActionDue: &soon},
		{PersonID: "demo-familia-3", RiskLevel: casefile.RiskLow,
			Topic: "beneficios", Channel: "rede"},
	}

	var firstID int64
	for _, req := range demos {
		c, err := s.Cases.Create(ctx, scope, seedActor, req)
		if err != nil {
			return fmt.Errorf("seeding case: %w", err)
		}
		if firstID == 0 {
			firstID = c.ID
		}
	}

	// The high-risk case arrives via an inter-agency handoff.
	if _, err := s.Referrals.Create(ctx, seedActor, referral.CreateRequest{
		CaseID:          firstID,
		PersonID:        "demo-familia-1",
		OriginUnit:      scope,
		DestinationUnit: "creas-centro_paefi",
		Subject:         "Acompanhamento conjunto",
		Reason:          "Família em situação de violência com rede no território vizinho",
		Priority:        referral.PriorityHigh,
	}); err != nil {
		return fmt.Errorf("seeding referral: %w", err)
	}

	if err := s.Flags.SetSeedMode(ctx, scope, true); err != nil {
		return fmt.Errorf("writing seed flag: %w", err)
	}
	s.Logger.Info("scope seeded", "scope", scope, "cases", len(demos))
	return nil
}
