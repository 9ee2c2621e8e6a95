package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/suasdigital/caseflow/internal/domain/casefile"
	"github.com/suasdigital/caseflow/internal/domain/referral"
	"github.com/suasdigital/caseflow/internal/domain/workflow"
)

// CaseRepository is a mock for casefile.Repository.
type CaseRepository struct {
	mock.Mock
}

func (m *CaseRepository) Load(ctx context.Context, scope string) ([]*casefile.Case, error) {
	args := m.Called(ctx, scope)
	if cases, ok := args.Get(0).([]*casefile.Case); ok {
		return cases, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CaseRepository) Save(ctx context.Context, scope string, cases []*casefile.Case) error {
	args := m.Called(ctx, scope, cases)
	return args.Error(0)
}

func (m *CaseRepository) SelectedCase(ctx context.Context, scope string) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CaseRepository) SetSelectedCase(ctx context.Context, scope string, id int64) error {
	args := m.Called(ctx, scope, id)
	return args.Error(0)
}

// WorkflowRepository is a mock for workflow.Repository.
type WorkflowRepository struct {
	mock.Mock
}

func (m *WorkflowRepository) Load(ctx context.Context, scope string) (*workflow.Configuration, error) {
	args := m.Called(ctx, scope)
	if cfg, ok := args.Get(0).(*workflow.Configuration); ok {
		return cfg, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WorkflowRepository) Save(ctx context.Context, scope string, cfg *workflow.Configuration) error {
	args := m.Called(ctx, scope, cfg)
	return args.Error(0)
}

func (m *WorkflowRepository) Delete(ctx context.Context, scope string) error {
	args := m.Called(ctx, scope)
	return args.Error(0)
}

// ReferralRepository is a mock for referral.Repository.
type ReferralRepository struct {
	mock.Mock
}

func (m *ReferralRepository) Load(ctx context.Context) ([]*referral.Referral, error) {
	args := m.Called(ctx)
	if refs, ok := args.Get(0).([]*referral.Referral); ok {
		return refs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReferralRepository) Save(ctx context.Context, refs []*referral.Referral) error {
	args := m.Called(ctx, refs)
	return args.Error(0)
}

// PersonDirectory is a mock for the external person-record collaborator.
type PersonDirectory struct {
	mock.Mock
}

func (m *PersonDirectory) EnsureRecord(ctx context.Context, personID string) error {
	args := m.Called(ctx, personID)
	return args.Error(0)
}

// Notifier records navigation hints emitted by the referral engine.
type Notifier struct {
	Hints []referral.NavigationHint
}

func (n *Notifier) ReferralCreated(hint referral.NavigationHint) {
	n.Hints = append(n.Hints, hint)
}
