package sqlite

import (
	"context"
	"errors"

	"github.com/suasdigital/caseflow/internal/domain/referral"
	"github.com/suasdigital/caseflow/internal/repository"
)

// NetworkScope is the shared pseudo-scope the referral collection lives in.
// Referrals cross organizational units, so they cannot be keyed by a single
// unit's scope.
const NetworkScope = "network"

// ReferralRepository stores the shared inter-agency referral collection.
type ReferralRepository struct {
	store *Store
}

// NewReferralRepository creates a new ReferralRepository.
func NewReferralRepository(store *Store) *ReferralRepository {
	return &ReferralRepository{store: store}
}

// Load returns every referral. A missing or corrupt blob reads as empty.
func (r *ReferralRepository) Load(ctx context.Context) ([]*referral.Referral, error) {
	var refs []*referral.Referral
	err := r.store.Get(ctx, NetworkScope, KeyReferrals, &refs)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return refs, nil
}

// Save writes the whole collection in one statement.
func (r *ReferralRepository) Save(ctx context.Context, refs []*referral.Referral) error {
	return r.store.Put(ctx, NetworkScope, KeyReferrals, refs)
}
