package referral_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/suasdigital/caseflow/internal/domain/identity"
	"github.com/suasdigital/caseflow/internal/domain/referral"
	"github.com/suasdigital/caseflow/internal/repository/mocks"
	"github.com/suasdigital/caseflow/internal/testutil"
)

var tecnico = identity.Actor{ID: "t1", Name: "Ana", Role: "tecnico"}

func newReferralService(existing []*referral.Referral, notifier *mocks.Notifier) *referral.Service {
	repo := &mocks.ReferralRepository{}
	repo.On("Load", mock.Anything).Return(existing, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	var n referral.Notifier
	if notifier != nil {
		n = notifier
	}
	return referral.NewService(repo, nil, n, testutil.Logger())
}

func pendingReferral(id string, status referral.Status) *referral.Referral {
	return &referral.Referral{
		ID:              id,
		PersonID:        "fam-1",
		OriginUnit:      "creas-norte_paefi",
		DestinationUnit: "creas-centro_paefi",
		Subject:         "Acompanhamento conjunto",
		Priority:        referral.PriorityMedium,
		Status:          status,
	}
}

func TestReferralService_Create(t *testing.T) {
	ctx := context.Background()
	notifier := &mocks.Notifier{}
	svc := newReferralService(nil, notifier)

	r, err := svc.Create(ctx, tecnico, referral.CreateRequest{
		PersonID:        "fam-1",
		OriginUnit:      "creas-norte_paefi",
		DestinationUnit: "creas-centro_paefi",
		Subject:         "Acompanhamento conjunto",
	})
	require.NoError(t, err)
	require.Equal(t, referral.StatusSent, r.Status)
	require.Equal(t, referral.PriorityMedium, r.Priority)
	require.Len(t, r.Timeline, 1)

	// Creation signals the UI to open the sender's outbox at this item.
	require.Len(t, notifier.Hints, 1)
	require.Equal(t, "outbox", notifier.Hints[0].View)
	require.Equal(t, r.ID, notifier.Hints[0].ReferralID)
}

func TestReferralService_Create_FrontDeskRejected(t *testing.T) {
	ctx := context.Background()
	svc := newReferralService(nil, nil)

	_, err := svc.Create(ctx, identity.Actor{ID: "r1", Role: "recepcao"}, referral.CreateRequest{
		PersonID:        "fam-1",
		OriginUnit:      "a",
		DestinationUnit: "b",
		Subject:         "x",
	})
	require.ErrorIs(t, err, identity.ErrUnauthorized)
}

func TestReferralService_Transition_ForwardOnly(t *testing.T) {
	ctx := context.Background()
	svc := newReferralService([]*referral.Referral{pendingReferral("r1", referral.StatusSent)}, nil)

	// Skipping received is not allowed.
	_, err := svc.Transition(ctx, tecnico, referral.TransitionRequest{ID: "r1", To: referral.StatusInProgress})
	require.ErrorIs(t, err, referral.ErrInvalidTransition)

	r, err := svc.Transition(ctx, tecnico, referral.TransitionRequest{
		ID: "r1", To: referral.StatusReceived, ActingUnit: "creas-centro_paefi",
	})
	require.NoError(t, err)
	require.Equal(t, referral.StatusReceived, r.Status)
	require.Equal(t, referral.StatusReceived, r.Timeline[0].Status)
}

func TestReferralService_Return_RequiresDevolution(t *testing.T) {
	ctx := context.Background()
	svc := newReferralService([]*referral.Referral{pendingReferral("r1", referral.StatusInProgress)}, nil)

	_, err := svc.Transition(ctx, tecnico, referral.TransitionRequest{ID: "r1", To: referral.StatusReturned})
	require.ErrorIs(t, err, referral.ErrIncompleteDevolution)

	_, err = svc.Transition(ctx, tecnico, referral.TransitionRequest{
		ID: "r1", To: referral.StatusReturned,
		Devolution: &referral.Devolution{WhatWasDone: "visitas"},
	})
	require.ErrorIs(t, err, referral.ErrIncompleteDevolution)

	r, err := svc.Transition(ctx, tecnico, referral.TransitionRequest{
		ID: "r1", To: referral.StatusReturned,
		Devolution: &referral.Devolution{
			WhatWasDone:         "três visitas domiciliares",
			CurrentSituation:    "família estabilizada",
			WhatOriginMustDoNow: "retomar acompanhamento local",
		},
	})
	require.NoError(t, err)
	require.Equal(t, referral.StatusReturned, r.Status)
	require.NotNil(t, r.Devolution)

	// Without an explicit note, the returned hop carries the devolution
	// summary so the origin reads it straight off the timeline.
	require.Equal(t, r.Devolution.Summary(), r.Timeline[0].Note)
}

func TestReferralService_Return_ExplicitNoteWins(t *testing.T) {
	ctx := context.Background()
	svc := newReferralService([]*referral.Referral{pendingReferral("r1", referral.StatusInProgress)}, nil)

	r, err := svc.Transition(ctx, tecnico, referral.TransitionRequest{
		ID: "r1", To: referral.StatusReturned,
		Note: "devolvido em reunião de rede",
		Devolution: &referral.Devolution{
			WhatWasDone:         "três visitas domiciliares",
			CurrentSituation:    "família estabilizada",
			WhatOriginMustDoNow: "retomar acompanhamento local",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "devolvido em reunião de rede", r.Timeline[0].Note)
}

func TestReferralService_CancelFromNonTerminalOnly(t *testing.T) {
	ctx := context.Background()
	svc := newReferralService([]*referral.Referral{
		pendingReferral("r1", referral.StatusReceived),
		pendingReferral("r2", referral.StatusConcluded),
	}, nil)

	r, err := svc.Transition(ctx, tecnico, referral.TransitionRequest{ID: "r1", To: referral.StatusCancelled})
	require.NoError(t, err)
	require.Equal(t, referral.StatusCancelled, r.Status)

	_, err = svc.Transition(ctx, tecnico, referral.TransitionRequest{ID: "r2", To: referral.StatusCancelled})
	require.ErrorIs(t, err, referral.ErrInvalidTransition)
}

func TestReferralService_ListForUnit(t *testing.T) {
	ctx := context.Background()
	inbound := pendingReferral("in", referral.StatusSent)
	outbound := pendingReferral("out", referral.StatusSent)
	outbound.OriginUnit = "creas-centro_paefi"
	outbound.DestinationUnit = "creas-sul_paefi"
	unrelated := pendingReferral("other", referral.StatusSent)
	unrelated.OriginUnit = "creas-sul_paefi"
	unrelated.DestinationUnit = "creas-norte_paefi"

	svc := newReferralService([]*referral.Referral{inbound, outbound, unrelated}, nil)

	refs, err := svc.ListForUnit(ctx, "creas-centro_paefi", referral.ListOptions{Box: "inbox"})
	require.NoError(t, err)
	require.Len(t, refs, 1)
	require.Equal(t, "in", refs[0].ID)

	refs, err = svc.ListForUnit(ctx, "creas-centro_paefi", referral.ListOptions{})
	require.NoError(t, err)
	require.Len(t, refs, 2)
}

func TestReferral_Overdue(t *testing.T) {
	now := time.Now()
	yesterday := now.AddDate(0, 0, -1)

	r := pendingReferral("r1", referral.StatusSent)
	r.DueDate = &yesterday
	require.True(t, r.Overdue(now))

	r.Status = referral.StatusConcluded
	require.False(t, r.Overdue(now), "terminal referrals are never overdue")

	r.Status = referral.StatusSent
	r.DueDate = nil
	require.False(t, r.Overdue(now))

	// Date-only comparison: due later today is not overdue yet.
	today := now
	r.DueDate = &today
	require.False(t, r.Overdue(now))
}

func TestDevolution_DerivedTextsDeterministic(t *testing.T) {
	d := referral.Devolution{
		WhatWasDone:         "atendimentos",
		CurrentSituation:    "estável",
		WhatOriginMustDoNow: "monitorar",
		Notes:               "ver relatório",
	}
	require.Equal(t, d.Summary(), d.Summary())
	require.Equal(t, d.Narrative(), d.Narrative())
	require.Contains(t, d.Narrative(), "O que a origem deve fazer agora: monitorar")
}

func TestInferNextAction(t *testing.T) {
	origin, dest := "creas-norte_paefi", "creas-centro_paefi"

	tests := []struct {
		name    string
		status  referral.Status
		unit    string
		overdue bool
		want    referral.NextAction
	}{
		{"destination receives new handoff", referral.StatusSent, dest, false, referral.ActionReceive},
		{"destination gives feedback once received", referral.StatusReceived, dest, false, referral.ActionGiveFeedback},
		{"destination keeps working in progress", referral.StatusInProgress, dest, false, referral.ActionGiveFeedback},
		{"origin waits while on time", referral.StatusReceived, origin, false, referral.ActionMonitor},
		{"origin chases when overdue", referral.StatusReceived, origin, true, referral.ActionChase},
		{"origin concludes after return", referral.StatusReturned, origin, false, referral.ActionConclude},
		{"destination monitors after return", referral.StatusReturned, dest, false, referral.ActionMonitor},
		{"everyone monitors terminal", referral.StatusConcluded, origin, false, referral.ActionMonitor},
		{"third party monitors", referral.StatusSent, "creas-sul_paefi", false, referral.ActionMonitor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := pendingReferral("r1", tt.status)
			require.Equal(t, tt.want, referral.InferNextAction(r, tt.unit, tt.overdue))
		})
	}
}
