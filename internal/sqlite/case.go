package sqlite

import (
	"context"
	"errors"

	"github.com/suasdigital/caseflow/internal/domain/casefile"
	"github.com/suasdigital/caseflow/internal/repository"
)

// CaseRepository stores a scope's whole case collection as one blob.
type CaseRepository struct {
	store *Store
}

// NewCaseRepository creates a new CaseRepository.
func NewCaseRepository(store *Store) *CaseRepository {
	return &CaseRepository{store: store}
}

// Load returns the scope's cases. A missing or corrupt blob reads as an
// empty collection.
func (r *CaseRepository) Load(ctx context.Context, scope string) ([]*casefile.Case, error) {
	var cases []*casefile.Case
	err := r.store.Get(ctx, scope, KeyCases, &cases)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cases, nil
}

// Save writes the whole collection in one statement.
func (r *CaseRepository) Save(ctx context.Context, scope string, cases []*casefile.Case) error {
	return r.store.Put(ctx, scope, KeyCases, cases)
}

// SelectedCase returns the scope's selected-case pointer.
func (r *CaseRepository) SelectedCase(ctx context.Context, scope string) (int64, error) {
	var id int64
	if err := r.store.Get(ctx, scope, KeySelectedCase, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// SetSelectedCase stores the scope's selected-case pointer.
func (r *CaseRepository) SetSelectedCase(ctx context.Context, scope string, id int64) error {
	return r.store.Put(ctx, scope, KeySelectedCase, id)
}

// SeedMode reads the scope's seed flag; missing reads as false.
func (r *CaseRepository) SeedMode(ctx context.Context, scope string) (bool, error) {
	var on bool
	if err := r.store.Get(ctx, scope, KeySeedMode, &on); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return on, nil
}

// SetSeedMode stores the scope's seed flag.
func (r *CaseRepository) SetSeedMode(ctx context.Context, scope string, on bool) error {
	return r.store.Put(ctx, scope, KeySeedMode, on)
}
