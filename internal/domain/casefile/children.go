package casefile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/suasdigital/caseflow/internal/domain/identity"
)

// ActivityInput describes a visit or attendance record.
type ActivityInput struct {
	Kind       string
	Summary    string
	OccurredAt time.Time
}

// AddActivity records a visit/attendance on the case and mirrors it in the
// timeline. Activities count as substantive activity for idle tracking.
func (s *Service) AddActivity(ctx context.Context, scope string, actor identity.Actor, id int64, in ActivityInput) (*Case, error) {
	if err := identity.Require(identity.CanMutate(actor)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Summary) == "" {
		return nil, ErrInvalidInput
	}
	if in.Kind == "" {
		in.Kind = "atendimento"
	}
	return s.mutate(ctx, scope, id, func(c *Case) error {
		if c.Status == StatusClosed {
			return ErrCaseClosed
		}
		now := time.Now()
		occurred := in.OccurredAt
		if occurred.IsZero() {
			occurred = now
		}
		act := Activity{
			ID:         uuid.NewString(),
			Kind:       in.Kind,
			Summary:    in.Summary,
			ActorID:    actor.ID,
			ActorName:  actor.Name,
			OccurredAt: occurred,
		}
		c.Activities = append(c.Activities, act)
		c.Timeline = append([]TimelineEntry{{
			ID:        uuid.NewString(),
			Kind:      TimelineActivity,
			Text:      fmt.Sprintf("%s: %s", in.Kind, in.Summary),
			ActorID:   actor.ID,
			ActorName: actor.Name,
			CreatedAt: now,
		}}, c.Timeline...)
		c.LastActivityAt = now
		c.UpdatedAt = now
		return nil
	})
}

// AddNetworkReferral records a free-text handoff to the external service
// network, awaiting a counter-referral until the due date.
func (s *Service) AddNetworkReferral(ctx context.Context, scope string, actor identity.Actor, id int64, service, note string, due *time.Time) (*Case, error) {
	if err := identity.Require(identity.CanMutate(actor)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(service) == "" {
		return nil, ErrInvalidInput
	}
	return s.mutate(ctx, scope, id, func(c *Case) error {
		if c.Status == StatusClosed {
			return ErrCaseClosed
		}
		now := time.Now()
		ref := NetworkReferral{
			ID:        uuid.NewString(),
			Service:   service,
			Note:      note,
			DueDate:   due,
			Status:    NetworkAwaiting,
			CreatedAt: now,
		}
		c.NetworkReferrals = append(c.NetworkReferrals, ref)
		c.Timeline = append([]TimelineEntry{{
			ID:        uuid.NewString(),
			Kind:      TimelineReferral,
			Text:      fmt.Sprintf("Encaminhado para a rede: %s", service),
			ActorID:   actor.ID,
			ActorName: actor.Name,
			CreatedAt: now,
		}}, c.Timeline...)
		c.LastActivityAt = now
		c.UpdatedAt = now
		return nil
	})
}

// ReturnNetworkReferral marks a network referral as returned.
func (s *Service) ReturnNetworkReferral(ctx context.Context, scope string, actor identity.Actor, id int64, referralID string) (*Case, error) {
	if err := identity.Require(identity.CanMutate(actor)); err != nil {
		return nil, err
	}
	return s.mutate(ctx, scope, id, func(c *Case) error {
		for i := range c.NetworkReferrals {
			if c.NetworkReferrals[i].ID != referralID {
				continue
			}
			now := time.Now()
			c.NetworkReferrals[i].Status = NetworkReturned
			c.NetworkReferrals[i].ReturnedAt = &now
			c.Timeline = append([]TimelineEntry{{
				ID:        uuid.NewString(),
				Kind:      TimelineReferral,
				Text:      fmt.Sprintf("Contrarreferência recebida: %s", c.NetworkReferrals[i].Service),
				ActorID:   actor.ID,
				ActorName: actor.Name,
				CreatedAt: now,
			}}, c.Timeline...)
			c.LastActivityAt = now
			c.UpdatedAt = now
			return nil
		}
		return ErrReferralNotFound
	})
}
