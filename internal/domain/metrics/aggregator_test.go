package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/suasdigital/caseflow/internal/domain/casefile"
	"github.com/suasdigital/caseflow/internal/domain/metrics"
	"github.com/suasdigital/caseflow/internal/domain/workflow"
)

func caseInStage(id int64, stage string, enteredDaysAgo int, now time.Time) *casefile.Case {
	entered := now.AddDate(0, 0, -enteredDaysAgo)
	return &casefile.Case{
		ID:             id,
		PersonID:       "fam",
		Status:         casefile.StatusActive,
		CurrentStage:   stage,
		LastActivityAt: now,
		StageHistory: map[string][]casefile.StageTouch{
			stage: {{Timestamp: entered}},
		},
	}
}

func testConfig() *workflow.Configuration {
	return &workflow.Configuration{Stages: []workflow.Stage{
		{Code: "acolhida", Name: "Acolhida", SLADays: 5},
		{Code: "plano", Name: "Plano"},
	}}
}

func TestBuild_StageStats(t *testing.T) {
	now := time.Now()
	cases := []*casefile.Case{
		caseInStage(1, "acolhida", 2, now),
		caseInStage(2, "acolhida", 10, now),
		caseInStage(3, "plano", 30, now),
	}

	report := metrics.Build(cases, testConfig(), 7, 14, now)
	require.Equal(t, 3, report.ActiveCases)
	require.Len(t, report.Stages, 2)

	acolhida := report.Stages[0]
	require.Equal(t, 2, acolhida.Count)
	require.Equal(t, 1, acolhida.OverSLA)
	require.InDelta(t, 50.0, acolhida.OverSLAPercent, 0.01)
	require.InDelta(t, 6.0, acolhida.MeanDays, 0.1)

	plano := report.Stages[1]
	require.Equal(t, 1, plano.Count)
	require.Zero(t, plano.OverSLA, "stages without SLA never count as over")
}

func TestBuild_IgnoresClosedCases(t *testing.T) {
	now := time.Now()
	closed := caseInStage(1, "acolhida", 30, now)
	closed.Status = casefile.StatusClosed

	report := metrics.Build([]*casefile.Case{closed}, testConfig(), 7, 14, now)
	require.Zero(t, report.ActiveCases)
	require.Zero(t, report.Stages[0].Count)
}

func TestBuild_RemovedStageStillCounted(t *testing.T) {
	now := time.Now()
	ghost := caseInStage(1, "etapa_antiga", 3, now)

	report := metrics.Build([]*casefile.Case{ghost}, testConfig(), 7, 14, now)
	last := report.Stages[len(report.Stages)-1]
	require.Equal(t, "etapa_antiga", last.Code)
	require.Equal(t, 1, last.Count)
}

func TestBuild_AssigneeRanking(t *testing.T) {
	now := time.Now()
	overdue := now.AddDate(0, 0, -1)

	busy := caseInStage(1, "acolhida", 1, now)
	busy.Assignee = &casefile.Assignee{ID: "t1", Name: "Ana"}
	busy.RiskLevel = casefile.RiskHigh
	busy.NextActionDue = &overdue

	idle := caseInStage(2, "plano", 1, now)
	idle.Assignee = &casefile.Assignee{ID: "t1", Name: "Ana"}
	idle.LastActivityAt = now.AddDate(0, 0, -20)

	quiet := caseInStage(3, "plano", 1, now)
	quiet.Assignee = &casefile.Assignee{ID: "t2", Name: "Eva"}

	unowned := caseInStage(4, "acolhida", 1, now)

	report := metrics.Build([]*casefile.Case{busy, idle, quiet, unowned}, testConfig(), 7, 14, now)

	byID := map[string]metrics.AssigneeStats{}
	for _, st := range report.Assignees {
		byID[st.ID] = st
	}

	ana := byID["t1"]
	require.Equal(t, 2, ana.Total)
	require.Equal(t, 1, ana.HighRisk)
	require.Equal(t, 1, ana.OverdueNextAction)
	require.Equal(t, 1, ana.Idle)
	// total + high_risk*2 + idle*2 + overdue*3
	require.Equal(t, 2+2+2+3, ana.Score)

	require.Contains(t, byID, metrics.UnassignedBucket)
	require.Equal(t, 1, byID[metrics.UnassignedBucket].Total)

	// Heaviest workload ranks first.
	require.Equal(t, "t1", report.Assignees[0].ID)
}

func TestBuild_UnassignedBucketAlwaysPresent(t *testing.T) {
	report := metrics.Build(nil, testConfig(), 7, 14, time.Now())
	require.Len(t, report.Assignees, 1)
	require.Equal(t, metrics.UnassignedBucket, report.Assignees[0].ID)
}

func TestBuild_Bottlenecks(t *testing.T) {
	now := time.Now()
	cfg := &workflow.Configuration{Stages: []workflow.Stage{
		{Code: "a", Name: "A", SLADays: 5},
		{Code: "b", Name: "B", SLADays: 5},
		{Code: "c", Name: "C"}, // no SLA, never a bottleneck
	}}

	cases := []*casefile.Case{
		// Stage a: 2 cases, both over SLA (100%).
		caseInStage(1, "a", 10, now),
		caseInStage(2, "a", 12, now),
		// Stage b: 2 cases, one over SLA (50%).
		caseInStage(3, "b", 10, now),
		caseInStage(4, "b", 1, now),
		// Stage c: many cases but no SLA.
		caseInStage(5, "c", 90, now),
		caseInStage(6, "c", 90, now),
	}

	report := metrics.Build(cases, cfg, 7, 14, now)
	require.Len(t, report.Bottlenecks, 2)
	require.Equal(t, "a", report.Bottlenecks[0].Code)
	require.Equal(t, "b", report.Bottlenecks[1].Code)
}

func TestBuild_Rederivable(t *testing.T) {
	now := time.Now()
	cases := []*casefile.Case{
		caseInStage(1, "acolhida", 10, now),
		caseInStage(2, "plano", 3, now),
	}

	first := metrics.Build(cases, testConfig(), 7, 14, now)
	second := metrics.Build(cases, testConfig(), 7, 14, now)
	require.Equal(t, first, second)
}
