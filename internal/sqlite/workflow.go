package sqlite

import (
	"context"

	"github.com/suasdigital/caseflow/internal/domain/workflow"
)

// WorkflowRepository stores one workflow configuration per scope.
type WorkflowRepository struct {
	store *Store
}

// NewWorkflowRepository creates a new WorkflowRepository.
func NewWorkflowRepository(store *Store) *WorkflowRepository {
	return &WorkflowRepository{store: store}
}

// Load returns the scope's saved configuration, or repository.ErrNotFound
// when none was saved.
func (r *WorkflowRepository) Load(ctx context.Context, scope string) (*workflow.Configuration, error) {
	var cfg workflow.Configuration
	if err := r.store.Get(ctx, scope, KeyWorkflow, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save persists the configuration.
func (r *WorkflowRepository) Save(ctx context.Context, scope string, cfg *workflow.Configuration) error {
	return r.store.Put(ctx, scope, KeyWorkflow, cfg)
}

// Delete removes the saved configuration so the default applies again.
func (r *WorkflowRepository) Delete(ctx context.Context, scope string) error {
	return r.store.Delete(ctx, scope, KeyWorkflow)
}
