package casefile

import (
	"context"

	"github.com/suasdigital/caseflow/internal/domain/workflow"
)

// Repository persists the full case collection of a scope as one blob.
// Mutations read the collection, change an in-memory copy, then write once,
// so no operation can be observed half-applied.
type Repository interface {
	Load(ctx context.Context, scope string) ([]*Case, error)
	Save(ctx context.Context, scope string, cases []*Case) error
	SelectedCase(ctx context.Context, scope string) (int64, error)
	SetSelectedCase(ctx context.Context, scope string, id int64) error
}

// WorkflowProvider supplies the scope's active workflow configuration.
type WorkflowProvider interface {
	Get(ctx context.Context, scope string) (*workflow.Configuration, error)
}

// PersonDirectory is the external person/family record collaborator. The
// engine only guarantees a basic record exists; it does not own the schema.
type PersonDirectory interface {
	EnsureRecord(ctx context.Context, personID string) error
}
