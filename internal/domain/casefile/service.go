package casefile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/suasdigital/caseflow/internal/domain/identity"
	"github.com/suasdigital/caseflow/internal/repository"
)

// Service owns every mutation of the case collection. All writes go through
// mutate, which serializes writers per scope and persists the whole
// collection in a single save.
type Service struct {
	repo     Repository
	workflow WorkflowProvider
	persons  PersonDirectory
	logger   *slog.Logger

	mu     sync.Mutex
	scopes map[string]*sync.Mutex
}

// NewService creates a new case service. persons may be nil when no person
// directory collaborator is wired.
func NewService(repo Repository, wf WorkflowProvider, persons PersonDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		workflow: wf,
		persons:  persons,
		logger:   logger,
		scopes:   make(map[string]*sync.Mutex),
	}
}

func (s *Service) scopeLock(scope string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.scopes[scope]
	if !ok {
		lock = &sync.Mutex{}
		s.scopes[scope] = lock
	}
	return lock
}

// mutate runs fn against the scope's case with the given id and saves the
// whole collection if fn succeeds. Different scopes never contend.
func (s *Service) mutate(ctx context.Context, scope string, id int64, fn func(c *Case) error) (*Case, error) {
	lock := s.scopeLock(scope)
	lock.Lock()
	defer lock.Unlock()

	cases, err := s.repo.Load(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("loading cases: %w", err)
	}
	var target *Case
	for _, c := range cases {
		if c.ID == id {
			target = c
			break
		}
	}
	if target == nil {
		return nil, ErrCaseNotFound
	}
	if err := fn(target); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, scope, cases); err != nil {
		return nil, fmt.Errorf("saving cases: %w", err)
	}
	return target, nil
}

// CreateRequest describes a case creation request.
type CreateRequest struct {
	PersonID      string
	RiskLevel     RiskLevel
	Topic         string
	Subtopic      string
	Channel       string
	NextAction    string
	NextActionDue *time.Time
}

// Create opens a new active case in the first configured workflow stage.
// When the creator holds staff capability the case is auto-assigned to them;
// front-desk intake always creates unassigned cases.
func (s *Service) Create(ctx context.Context, scope string, actor identity.Actor, req CreateRequest) (*Case, error) {
	if err := identity.Require(identity.CanMutate(actor)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.PersonID) == "" {
		return nil, ErrInvalidInput
	}
	risk := req.RiskLevel
	if risk == "" {
		risk = RiskLow
	}

	if s.persons != nil {
		if err := s.persons.EnsureRecord(ctx, req.PersonID); err != nil {
			return nil, fmt.Errorf("ensuring person record: %w", err)
		}
	}

	cfg, err := s.workflow.Get(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("loading workflow: %w", err)
	}
	firstStage := cfg.FirstStage()

	lock := s.scopeLock(scope)
	lock.Lock()
	defer lock.Unlock()

	cases, err := s.repo.Load(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("loading cases: %w", err)
	}

	var nextID int64 = 1
	for _, c := range cases {
		if c.ID >= nextID {
			nextID = c.ID + 1
		}
	}

	now := time.Now()
	c := &Case{
		ID:             nextID,
		PersonID:       req.PersonID,
		RiskLevel:      risk,
		Topic:          req.Topic,
		Subtopic:       req.Subtopic,
		Channel:        req.Channel,
		Status:         StatusActive,
		CurrentStage:   firstStage,
		NextAction:     req.NextAction,
		NextActionDue:  req.NextActionDue,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastActivityAt: now,
		StageHistory:   make(map[string][]StageTouch),
	}
	if identity.IsStaff(actor) {
		c.Assignee = &Assignee{ID: actor.ID, Name: actor.Name}
	}
	c.Timeline = []TimelineEntry{{
		ID:        uuid.NewString(),
		Kind:      TimelineCreated,
		Text:      "Caso criado",
		ActorID:   actor.ID,
		ActorName: actor.Name,
		CreatedAt: now,
	}}
	if firstStage != "" {
		c.StageHistory[firstStage] = []StageTouch{{
			ActorID:   actor.ID,
			ActorName: actor.Name,
			Timestamp: now,
			Note:      "Entrada no fluxo",
		}}
	}

	cases = append(cases, c)
	if err := s.repo.Save(ctx, scope, cases); err != nil {
		return nil, fmt.Errorf("saving cases: %w", err)
	}
	s.logger.Info("case created", "scope", scope, "case", c.ID, "assigned", !c.Unassigned())
	return c, nil
}

// Patch describes a partial case update. Nil fields are left untouched.
// Patching refreshes updated_at but never last_activity_at; metadata edits
// are not substantive activity.
type Patch struct {
	RiskLevel     *RiskLevel
	Topic         *string
	Subtopic      *string
	Channel       *string
	NextAction    *string
	NextActionDue *time.Time
	ClearDue      bool
}

// Update merges a patch into a case.
func (s *Service) Update(ctx context.Context, scope string, actor identity.Actor, id int64, patch Patch) (*Case, error) {
	if err := identity.Require(identity.CanMutate(actor)); err != nil {
		return nil, err
	}
	return s.mutate(ctx, scope, id, func(c *Case) error {
		if patch.RiskLevel != nil {
			c.RiskLevel = *patch.RiskLevel
		}
		if patch.Topic != nil {
			c.Topic = *patch.Topic
		}
		if patch.Subtopic != nil {
			c.Subtopic = *patch.Subtopic
		}
		if patch.Channel != nil {
			c.Channel = *patch.Channel
		}
		if patch.NextAction != nil {
			c.NextAction = *patch.NextAction
		}
		if patch.NextActionDue != nil {
			c.NextActionDue = patch.NextActionDue
		} else if patch.ClearDue {
			c.NextActionDue = nil
		}
		c.UpdatedAt = time.Now()
		return nil
	})
}

// AppendTimeline prepends an audit entry and advances last_activity_at.
// This is the only path for anything a human must later find in the trail.
func (s *Service) AppendTimeline(ctx context.Context, scope string, actor identity.Actor, id int64, kind, text string) (*Case, error) {
	if err := identity.Require(identity.CanMutate(actor)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}
	if kind == "" {
		kind = TimelineNote
	}
	return s.mutate(ctx, scope, id, func(c *Case) error {
		now := time.Now()
		c.Timeline = append([]TimelineEntry{{
			ID:        uuid.NewString(),
			Kind:      kind,
			Text:      text,
			ActorID:   actor.ID,
			ActorName: actor.Name,
			CreatedAt: now,
		}}, c.Timeline...)
		c.LastActivityAt = now
		c.UpdatedAt = now
		return nil
	})
}

// TouchInput describes one stage track-record entry.
type TouchInput struct {
	Note              string
	ActivityID        string
	LinkedReferralIDs []string
}

// RecordStageTouch appends to a stage's track record without changing the
// case's current stage. The first touch of a stage fixes its SLA anchor
// permanently.
func (s *Service) RecordStageTouch(ctx context.Context, scope string, actor identity.Actor, id int64, stageCode string, touch TouchInput) (*Case, error) {
	if err := identity.Require(identity.CanMutate(actor)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(stageCode) == "" {
		return nil, ErrInvalidInput
	}
	return s.mutate(ctx, scope, id, func(c *Case) error {
		if c.StageHistory == nil {
			c.StageHistory = make(map[string][]StageTouch)
		}
		now := time.Now()
		c.StageHistory[stageCode] = append(c.StageHistory[stageCode], StageTouch{
			ActorID:           actor.ID,
			ActorName:         actor.Name,
			Timestamp:         now,
			Note:              touch.Note,
			ActivityID:        touch.ActivityID,
			LinkedReferralIDs: touch.LinkedReferralIDs,
		})
		c.UpdatedAt = now
		return nil
	})
}

// Advance moves a case to another workflow stage, recording both the
// timeline event and the stage touch.
func (s *Service) Advance(ctx context.Context, scope string, actor identity.Actor, id int64, stageCode, note string) (*Case, error) {
	if err := identity.Require(identity.IsStaff(actor)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(stageCode) == "" {
		return nil, ErrInvalidInput
	}
	return s.mutate(ctx, scope, id, func(c *Case) error {
		if c.Status == StatusClosed {
			return ErrCaseClosed
		}
		now := time.Now()
		from := c.CurrentStage
		c.CurrentStage = stageCode
		if c.StageHistory == nil {
			c.StageHistory = make(map[string][]StageTouch)
		}
		c.StageHistory[stageCode] = append(c.StageHistory[stageCode], StageTouch{
			ActorID:   actor.ID,
			ActorName: actor.Name,
			Timestamp: now,
			Note:      note,
		})
		text := fmt.Sprintf("Etapa alterada: %s → %s", from, stageCode)
		if from == "" {
			text = fmt.Sprintf("Etapa definida: %s", stageCode)
		}
		c.Timeline = append([]TimelineEntry{{
			ID:        uuid.NewString(),
			Kind:      TimelineStageChange,
			Text:      text,
			ActorID:   actor.ID,
			ActorName: actor.Name,
			CreatedAt: now,
		}}, c.Timeline...)
		c.LastActivityAt = now
		c.UpdatedAt = now
		return nil
	})
}

// Assign sets the responsible staff member. Only staff capability may take
// or hand over ownership.
func (s *Service) Assign(ctx context.Context, scope string, actor identity.Actor, id int64, to Assignee) (*Case, error) {
	if err := identity.Require(identity.CanAssign(actor)); err != nil {
		return nil, err
	}
	if to.ID == "" {
		return nil, ErrInvalidInput
	}
	return s.mutate(ctx, scope, id, func(c *Case) error {
		if c.Status == StatusClosed {
			return ErrCaseClosed
		}
		now := time.Now()
		c.Assignee = &Assignee{ID: to.ID, Name: to.Name}
		c.Timeline = append([]TimelineEntry{{
			ID:        uuid.NewString(),
			Kind:      TimelineAssignment,
			Text:      fmt.Sprintf("Caso atribuído para %s", to.Name),
			ActorID:   actor.ID,
			ActorName: actor.Name,
			CreatedAt: now,
		}}, c.Timeline...)
		c.LastActivityAt = now
		c.UpdatedAt = now
		return nil
	})
}

// Get returns one case by id.
func (s *Service) Get(ctx context.Context, scope string, id int64) (*Case, error) {
	cases, err := s.repo.Load(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("loading cases: %w", err)
	}
	for _, c := range cases {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, ErrCaseNotFound
}

// List returns every case of the scope.
func (s *Service) List(ctx context.Context, scope string) ([]*Case, error) {
	return s.repo.Load(ctx, scope)
}

// Select remembers the scope's currently selected case.
func (s *Service) Select(ctx context.Context, scope string, id int64) error {
	if _, err := s.Get(ctx, scope, id); err != nil {
		return err
	}
	return s.repo.SetSelectedCase(ctx, scope, id)
}

// Selected returns the scope's currently selected case id, or 0 when no
// case was ever selected.
func (s *Service) Selected(ctx context.Context, scope string) (int64, error) {
	id, err := s.repo.SelectedCase(ctx, scope)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("loading selected case: %w", err)
	}
	return id, nil
}
