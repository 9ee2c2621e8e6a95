package casefile

// The closure of a case is a two-actor sub-workflow nested inside the case:
// a technician requests closure, a second actor approves or rejects. It is
// modeled separately from Status because rejection must return the case to
// exactly where it was in the workflow.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/suasdigital/caseflow/internal/domain/identity"
)

// RequestClosure opens a closure request. Valid only when no request is
// pending; a previously rejected request may be re-opened.
func (s *Service) RequestClosure(ctx context.Context, scope string, actor identity.Actor, id int64, reason, summary string) (*Case, error) {
	if err := identity.Require(identity.CanRequestClosure(actor)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ErrInvalidInput
	}
	return s.mutate(ctx, scope, id, func(c *Case) error {
		if c.Status == StatusClosed {
			return ErrCaseClosed
		}
		if c.Closure.Status != ClosureNone && c.Closure.Status != ClosureRejected {
			return ErrInvalidClosureState
		}
		now := time.Now()
		c.Closure = Closure{
			Status:        ClosureRequested,
			RequestedBy:   &Assignee{ID: actor.ID, Name: actor.Name},
			RequestedAt:   &now,
			Reason:        reason,
			Summary:       summary,
			PreviousStage: c.CurrentStage,
		}
		c.Timeline = append([]TimelineEntry{{
			ID:        uuid.NewString(),
			Kind:      TimelineClosure,
			Text:      fmt.Sprintf("Encerramento solicitado: %s", reason),
			ActorID:   actor.ID,
			ActorName: actor.Name,
			CreatedAt: now,
		}}, c.Timeline...)
		c.LastActivityAt = now
		c.UpdatedAt = now
		return nil
	})
}

// ApproveClosure closes the case. Valid only while a request is pending.
// The quality checklist snapshot and any documented exception are stored
// with the closure record; next_action_due is cleared so a closed case can
// never read as overdue.
func (s *Service) ApproveClosure(ctx context.Context, scope string, actor identity.Actor, id int64, checklist []string, exception string) (*Case, error) {
	if err := identity.Require(identity.CanApproveClosure(actor)); err != nil {
		return nil, err
	}
	return s.mutate(ctx, scope, id, func(c *Case) error {
		if c.Closure.Status != ClosureRequested {
			return ErrInvalidClosureState
		}
		now := time.Now()
		c.Closure.Status = ClosureApproved
		c.Closure.ApprovedBy = &Assignee{ID: actor.ID, Name: actor.Name}
		c.Closure.ApprovedAt = &now
		c.Closure.Checklist = checklist
		c.Closure.Exception = exception
		c.Status = StatusClosed
		c.CurrentStage = StageClosed
		c.NextActionDue = nil
		c.Timeline = append([]TimelineEntry{{
			ID:        uuid.NewString(),
			Kind:      TimelineClosure,
			Text:      "Encerramento aprovado",
			ActorID:   actor.ID,
			ActorName: actor.Name,
			CreatedAt: now,
		}}, c.Timeline...)
		c.LastActivityAt = now
		c.UpdatedAt = now
		return nil
	})
}

// RejectClosure returns the case to the stage it held before the request.
// The rejection is resumable: a subsequent RequestClosure succeeds.
func (s *Service) RejectClosure(ctx context.Context, scope string, actor identity.Actor, id int64, reason string) (*Case, error) {
	if err := identity.Require(identity.CanApproveClosure(actor)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ErrInvalidInput
	}
	return s.mutate(ctx, scope, id, func(c *Case) error {
		if c.Closure.Status != ClosureRequested {
			return ErrInvalidClosureState
		}
		now := time.Now()
		c.CurrentStage = c.Closure.PreviousStage
		c.Closure = Closure{
			Status:       ClosureRejected,
			RejectedBy:   &Assignee{ID: actor.ID, Name: actor.Name},
			RejectedAt:   &now,
			RejectReason: reason,
		}
		c.Timeline = append([]TimelineEntry{{
			ID:        uuid.NewString(),
			Kind:      TimelineClosure,
			Text:      fmt.Sprintf("Encerramento recusado: %s", reason),
			ActorID:   actor.ID,
			ActorName: actor.Name,
			CreatedAt: now,
		}}, c.Timeline...)
		c.LastActivityAt = now
		c.UpdatedAt = now
		return nil
	})
}
