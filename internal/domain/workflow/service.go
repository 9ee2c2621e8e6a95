package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/suasdigital/caseflow/internal/domain/identity"
	"github.com/suasdigital/caseflow/internal/repository"
)

// Service manages per-scope workflow configurations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new workflow service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Get returns the scope's active configuration, falling back to the
// built-in default when none was ever saved.
func (s *Service) Get(ctx context.Context, scope string) (*Configuration, error) {
	cfg, err := s.repo.Load(ctx, scope)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Default(), nil
		}
		return nil, fmt.Errorf("loading workflow configuration: %w", err)
	}
	return cfg, nil
}

// Save validates and persists a configuration. On validation failure the
// previously active configuration stays in effect.
func (s *Service) Save(ctx context.Context, scope string, actor identity.Actor, cfg *Configuration) error {
	if err := identity.Require(identity.CanEditWorkflow(actor)); err != nil {
		return err
	}
	if err := Validate(cfg); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, scope, cfg); err != nil {
		return fmt.Errorf("saving workflow configuration: %w", err)
	}
	s.logger.Info("workflow configuration saved", "scope", scope, "stages", len(cfg.Stages))
	return nil
}

// Reset removes the scope's saved configuration so the default applies
// again. Existing cases keep their current stage codes untouched.
func (s *Service) Reset(ctx context.Context, scope string, actor identity.Actor) error {
	if err := identity.Require(identity.CanEditWorkflow(actor)); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, scope); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("resetting workflow configuration: %w", err)
	}
	return nil
}
