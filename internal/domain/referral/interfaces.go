package referral

import "context"

// Repository persists the shared referral collection. Referrals cross
// organizational scopes, so the collection is global and filtered by unit
// on read.
type Repository interface {
	Load(ctx context.Context) ([]*Referral, error)
	Save(ctx context.Context, refs []*Referral) error
}

// Notifier receives UI hints from the engine. Implementations navigate the
// interface; the engine keeps no queue of its own.
type Notifier interface {
	ReferralCreated(hint NavigationHint)
}

// NavigationHint asks the UI to show the sender's outbox scrolled to the
// new referral.
type NavigationHint struct {
	View       string `json:"view"`
	ReferralID string `json:"referral_id"`
}

// PersonDirectory ensures a basic person record exists for the referral's
// subject.
type PersonDirectory interface {
	EnsureRecord(ctx context.Context, personID string) error
}
