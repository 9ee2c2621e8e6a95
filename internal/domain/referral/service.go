package referral

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/suasdigital/caseflow/internal/domain/identity"
)

// Service runs the inter-agency referral state machine. The collection is
// shared across scopes, so a single mutex serializes writers.
type Service struct {
	repo     Repository
	persons  PersonDirectory
	notifier Notifier
	logger   *slog.Logger

	mu sync.Mutex
}

// NewService creates a new referral service. persons and notifier may be
// nil.
func NewService(repo Repository, persons PersonDirectory, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, persons: persons, notifier: notifier, logger: logger}
}

// CreateRequest describes a new inter-agency referral.
type CreateRequest struct {
	CaseID          int64
	PersonID        string
	OriginUnit      string
	DestinationUnit string
	Subject         string
	Reason          string
	Priority        Priority
	DueDate         *time.Time
}

// Create opens a referral in the sent state and signals the UI to show the
// sender's outbox.
func (s *Service) Create(ctx context.Context, actor identity.Actor, req CreateRequest) (*Referral, error) {
	if err := identity.Require(identity.CanCreateReferral(actor)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.PersonID) == "" ||
		strings.TrimSpace(req.OriginUnit) == "" ||
		strings.TrimSpace(req.DestinationUnit) == "" ||
		strings.TrimSpace(req.Subject) == "" {
		return nil, ErrInvalidInput
	}
	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	if s.persons != nil {
		if err := s.persons.EnsureRecord(ctx, req.PersonID); err != nil {
			return nil, fmt.Errorf("ensuring person record: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	refs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading referrals: %w", err)
	}

	now := time.Now()
	r := &Referral{
		ID:              uuid.NewString(),
		CaseID:          req.CaseID,
		PersonID:        req.PersonID,
		OriginUnit:      req.OriginUnit,
		DestinationUnit: req.DestinationUnit,
		Subject:         req.Subject,
		Reason:          req.Reason,
		Priority:        priority,
		DueDate:         req.DueDate,
		Status:          StatusSent,
		CreatedAt:       now,
		UpdatedAt:       now,
		Timeline: []Event{{
			Status:    StatusSent,
			Note:      "Encaminhamento enviado",
			ActorID:   actor.ID,
			ActorName: actor.Name,
			UnitID:    req.OriginUnit,
			CreatedAt: now,
		}},
	}

	refs = append(refs, r)
	if err := s.repo.Save(ctx, refs); err != nil {
		return nil, fmt.Errorf("saving referrals: %w", err)
	}

	if s.notifier != nil {
		s.notifier.ReferralCreated(NavigationHint{View: "outbox", ReferralID: r.ID})
	}
	s.logger.Info("referral created", "referral", r.ID,
		"origin", r.OriginUnit, "destination", r.DestinationUnit)
	return r, nil
}

// TransitionRequest describes a status change on a referral.
type TransitionRequest struct {
	ID         string
	To         Status
	Note       string
	ActingUnit string
	Devolution *Devolution
}

// Transition advances the referral's status. Returning requires a complete
// devolution payload; every transition appends an audit event.
func (s *Service) Transition(ctx context.Context, actor identity.Actor, req TransitionRequest) (*Referral, error) {
	if err := identity.Require(identity.CanMutate(actor)); err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	refs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading referrals: %w", err)
	}
	var target *Referral
	for _, r := range refs {
		if r.ID == req.ID {
			target = r
			break
		}
	}
	if target == nil {
		return nil, ErrReferralNotFound
	}

	if err := ValidateTransition(target.Status, req.To); err != nil {
		return nil, err
	}
	note := req.Note
	if req.To == StatusReturned {
		if req.Devolution == nil || !req.Devolution.Complete() {
			return nil, ErrIncompleteDevolution
		}
		target.Devolution = req.Devolution
		// The returned hop reads as the devolution itself unless the
		// destination wrote its own note.
		if note == "" {
			note = req.Devolution.Summary()
		}
	}

	now := time.Now()
	target.Status = req.To
	target.UpdatedAt = now
	target.Timeline = append([]Event{{
		Status:    req.To,
		Note:      note,
		ActorID:   actor.ID,
		ActorName: actor.Name,
		UnitID:    req.ActingUnit,
		CreatedAt: now,
	}}, target.Timeline...)

	if err := s.repo.Save(ctx, refs); err != nil {
		return nil, fmt.Errorf("saving referrals: %w", err)
	}
	s.logger.Info("referral transitioned", "referral", target.ID, "status", target.Status)
	return target, nil
}

// Get returns one referral by id.
func (s *Service) Get(ctx context.Context, id string) (*Referral, error) {
	refs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading referrals: %w", err)
	}
	for _, r := range refs {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, ErrReferralNotFound
}

// ListOptions filters ListForUnit.
type ListOptions struct {
	Box         string // "inbox", "outbox" or "" for both
	OnlyPending bool
}

// ListForUnit returns the referrals visible to a unit: its inbox (handoffs
// sent to it) and its outbox (handoffs it sent).
func (s *Service) ListForUnit(ctx context.Context, unit string, opts ListOptions) ([]*Referral, error) {
	refs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading referrals: %w", err)
	}
	out := make([]*Referral, 0, len(refs))
	for _, r := range refs {
		inbox := r.DestinationUnit == unit
		outbox := r.OriginUnit == unit
		switch opts.Box {
		case "inbox":
			if !inbox {
				continue
			}
		case "outbox":
			if !outbox {
				continue
			}
		default:
			if !inbox && !outbox {
				continue
			}
		}
		if opts.OnlyPending && r.Status.Terminal() {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// NextActionFor returns the single action the unit should take now.
func (s *Service) NextActionFor(ctx context.Context, id, actingUnit string) (NextAction, error) {
	r, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return InferNextAction(r, actingUnit, r.Overdue(time.Now())), nil
}
