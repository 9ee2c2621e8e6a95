package workflow

import "context"

// Repository persists one workflow configuration per scope.
type Repository interface {
	Load(ctx context.Context, scope string) (*Configuration, error)
	Save(ctx context.Context, scope string, cfg *Configuration) error
	Delete(ctx context.Context, scope string) error
}
