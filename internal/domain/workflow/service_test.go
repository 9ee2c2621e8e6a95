package workflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/suasdigital/caseflow/internal/domain/identity"
	"github.com/suasdigital/caseflow/internal/domain/workflow"
	"github.com/suasdigital/caseflow/internal/repository"
	"github.com/suasdigital/caseflow/internal/repository/mocks"
	"github.com/suasdigital/caseflow/internal/testutil"
)

var coordenador = identity.Actor{ID: "c1", Name: "Bruno", Role: "coordenador"}

func TestWorkflowService_Get_FallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.WorkflowRepository{}
	repo.On("Load", ctx, "creas-norte_paefi").Return(nil, repository.ErrNotFound)

	svc := workflow.NewService(repo, testutil.Logger())
	cfg, err := svc.Get(ctx, "creas-norte_paefi")
	require.NoError(t, err)
	require.Equal(t, workflow.Default(), cfg)
}

func TestWorkflowService_Save_RejectsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.WorkflowRepository{}
	saved := &workflow.Configuration{Stages: []workflow.Stage{{Code: "acolhida", Name: "Acolhida"}}}
	repo.On("Load", ctx, "creas-norte_paefi").Return(saved, nil)

	svc := workflow.NewService(repo, testutil.Logger())
	err := svc.Save(ctx, "creas-norte_paefi", coordenador, &workflow.Configuration{})
	require.ErrorIs(t, err, workflow.ErrEmptyConfiguration)

	// The previously active configuration stays in effect.
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	cfg, err := svc.Get(ctx, "creas-norte_paefi")
	require.NoError(t, err)
	require.Equal(t, saved, cfg)
}

func TestWorkflowService_Save_RejectsDuplicateCodes(t *testing.T) {
	ctx := context.Background()
	svc := workflow.NewService(&mocks.WorkflowRepository{}, testutil.Logger())

	err := svc.Save(ctx, "creas-norte_paefi", coordenador, &workflow.Configuration{
		Stages: []workflow.Stage{{Code: "a", Name: "A"}, {Code: "a", Name: "A again"}},
	})
	require.ErrorIs(t, err, workflow.ErrDuplicateStageCode)
}

func TestWorkflowService_Save_RequiresSupervisor(t *testing.T) {
	ctx := context.Background()
	svc := workflow.NewService(&mocks.WorkflowRepository{}, testutil.Logger())

	err := svc.Save(ctx, "creas-norte_paefi", identity.Actor{ID: "t1", Role: "tecnico"},
		&workflow.Configuration{Stages: []workflow.Stage{{Code: "a", Name: "A"}}})
	require.ErrorIs(t, err, identity.ErrUnauthorized)
}

func TestWorkflowService_Save_Persists(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.WorkflowRepository{}
	cfg := &workflow.Configuration{Stages: []workflow.Stage{{Code: "triagem", Name: "Triagem", SLADays: 2}}}
	repo.On("Save", ctx, "creas-norte_paefi", cfg).Return(nil)

	svc := workflow.NewService(repo, testutil.Logger())
	require.NoError(t, svc.Save(ctx, "creas-norte_paefi", coordenador, cfg))
	repo.AssertCalled(t, "Save", ctx, "creas-norte_paefi", cfg)
}

func TestConfiguration_EffectiveStages_ToleratesRemovedStage(t *testing.T) {
	cfg := &workflow.Configuration{Stages: []workflow.Stage{{Code: "a", Name: "A"}}}

	stages := cfg.EffectiveStages([]string{"a", "ghost", "", "ghost"})
	require.Len(t, stages, 2)
	require.Equal(t, "ghost", stages[1].Code, "removed stage survives as a trailing extra")
}

func TestConfiguration_FirstStage(t *testing.T) {
	require.Equal(t, "acolhida", workflow.Default().FirstStage())
	require.Empty(t, (&workflow.Configuration{}).FirstStage())
}
