package casefile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suasdigital/caseflow/internal/domain/casefile"
	"github.com/suasdigital/caseflow/internal/domain/identity"
)

func activeCase(id int64, stage string) *casefile.Case {
	return &casefile.Case{
		ID:           id,
		PersonID:     "fam-1",
		Status:       casefile.StatusActive,
		CurrentStage: stage,
		StageHistory: map[string][]casefile.StageTouch{},
	}
}

func TestClosure_RequestApprove(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCaseService(t, []*casefile.Case{activeCase(1, "acompanhamento")})

	c, err := svc.RequestClosure(ctx, "creas-norte_paefi", tecnico, 1, "objetivos alcançados", "família autônoma")
	require.NoError(t, err)
	require.Equal(t, casefile.ClosureRequested, c.Closure.Status)
	require.Equal(t, "acompanhamento", c.Closure.PreviousStage)
	require.Equal(t, casefile.StatusActive, c.Status)

	c, err = svc.ApproveClosure(ctx, "creas-norte_paefi", coordenador, 1,
		[]string{"plano concluído", "rede informada"}, "")
	require.NoError(t, err)
	require.Equal(t, casefile.StatusClosed, c.Status)
	require.Equal(t, casefile.StageClosed, c.CurrentStage)
	require.Equal(t, casefile.ClosureApproved, c.Closure.Status)
	require.Nil(t, c.NextActionDue)
	require.Len(t, c.Closure.Checklist, 2)
	require.Equal(t, "c1", c.Closure.ApprovedBy.ID)
}

func TestClosure_RejectRestoresStage(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCaseService(t, []*casefile.Case{activeCase(1, "avaliacao")})

	_, err := svc.RequestClosure(ctx, "creas-norte_paefi", tecnico, 1, "fim do acompanhamento", "")
	require.NoError(t, err)

	c, err := svc.RejectClosure(ctx, "creas-norte_paefi", coordenador, 1, "faltou registro de visita")
	require.NoError(t, err)
	require.Equal(t, "avaliacao", c.CurrentStage, "rejection resumes exactly where the case was")
	require.Equal(t, casefile.ClosureRejected, c.Closure.Status)
	require.Equal(t, casefile.StatusActive, c.Status)

	// A rejected closure is resumable: a new request must succeed.
	c, err = svc.RequestClosure(ctx, "creas-norte_paefi", tecnico, 1, "pendência resolvida", "")
	require.NoError(t, err)
	require.Equal(t, casefile.ClosureRequested, c.Closure.Status)
}

func TestClosure_ApproveWithoutRequestIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCaseService(t, []*casefile.Case{activeCase(1, "acolhida")})

	_, err := svc.ApproveClosure(ctx, "creas-norte_paefi", coordenador, 1, nil, "")
	require.ErrorIs(t, err, casefile.ErrInvalidClosureState)

	c, err := svc.Get(ctx, "creas-norte_paefi", 1)
	require.NoError(t, err)
	require.Equal(t, casefile.StatusActive, c.Status, "case must stay active")
}

func TestClosure_DoubleRequestRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCaseService(t, []*casefile.Case{activeCase(1, "plano")})

	_, err := svc.RequestClosure(ctx, "creas-norte_paefi", tecnico, 1, "motivo", "")
	require.NoError(t, err)
	_, err = svc.RequestClosure(ctx, "creas-norte_paefi", tecnico, 1, "outro motivo", "")
	require.ErrorIs(t, err, casefile.ErrInvalidClosureState)
}

func TestClosure_FrontDeskCannotRequest(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCaseService(t, []*casefile.Case{activeCase(1, "plano")})

	_, err := svc.RequestClosure(ctx, "creas-norte_paefi", recepcao, 1, "motivo", "")
	require.ErrorIs(t, err, identity.ErrUnauthorized)
}
