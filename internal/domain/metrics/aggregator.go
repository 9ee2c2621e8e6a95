// Package metrics is a read-only reducer over the case snapshot. Every
// number it emits is re-derivable from the same snapshot at any time; there
// are no incremental counters that can drift.
package metrics

import (
	"sort"
	"time"

	"github.com/suasdigital/caseflow/internal/domain/casefile"
	"github.com/suasdigital/caseflow/internal/domain/workflow"
)

// UnassignedBucket is the assignee id used for cases without a responsible
// staff member. Unassigned work is surfaced, never hidden.
const UnassignedBucket = "unassigned"

// StageStats aggregates the active cases sitting in one workflow stage.
type StageStats struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Count          int     `json:"count"`
	SLADays        int     `json:"sla_days,omitempty"`
	OverSLA        int     `json:"over_sla"`
	OverSLAPercent float64 `json:"over_sla_percent"`
	MeanDays       float64 `json:"mean_days"`
}

// AssigneeStats aggregates one staff member's active caseload.
type AssigneeStats struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Total             int    `json:"total"`
	HighRisk          int    `json:"high_risk"`
	OverdueNextAction int    `json:"overdue_next_action"`
	Idle              int    `json:"idle"`
	// Score ranks workloads for the supervisor view only; it is not a
	// per-case priority.
	Score int `json:"score"`
}

// Report is the management overview for one scope.
type Report struct {
	Stages      []StageStats    `json:"stages"`
	Assignees   []AssigneeStats `json:"assignees"`
	Bottlenecks []StageStats    `json:"bottlenecks"`
	ActiveCases int             `json:"active_cases"`
}

// Build reduces the case snapshot into the management report. Idle uses the
// same risk-dependent thresholds as the priority scorer.
func Build(cases []*casefile.Case, cfg *workflow.Configuration, idleHighRisk, idleDefault int, now time.Time) Report {
	var active []*casefile.Case
	for _, c := range cases {
		if c.Status != casefile.StatusActive {
			continue
		}
		active = append(active, c)
	}

	stages := buildStageStats(active, cfg, now)
	assignees := buildAssigneeStats(active, idleHighRisk, idleDefault, now)

	return Report{
		Stages:      stages,
		Assignees:   assignees,
		Bottlenecks: bottlenecks(stages),
		ActiveCases: len(active),
	}
}

func buildStageStats(active []*casefile.Case, cfg *workflow.Configuration, now time.Time) []StageStats {
	var extra []string
	for _, c := range active {
		extra = append(extra, c.CurrentStage)
	}
	stageList := cfg.EffectiveStages(extra)

	stats := make([]StageStats, 0, len(stageList))
	for _, stage := range stageList {
		st := StageStats{Code: stage.Code, Name: stage.Name, SLADays: stage.SLADays}
		var totalDays float64
		for _, c := range active {
			if c.CurrentStage != stage.Code {
				continue
			}
			st.Count++
			entered, ok := c.StageEnteredAt(stage.Code)
			if !ok {
				continue
			}
			days := now.Sub(entered).Hours() / 24
			totalDays += days
			if stage.SLADays > 0 && int(days) > stage.SLADays {
				st.OverSLA++
			}
		}
		if st.Count > 0 {
			st.MeanDays = totalDays / float64(st.Count)
			st.OverSLAPercent = float64(st.OverSLA) / float64(st.Count) * 100
		}
		stats = append(stats, st)
	}
	return stats
}

func buildAssigneeStats(active []*casefile.Case, idleHighRisk, idleDefault int, now time.Time) []AssigneeStats {
	byID := make(map[string]*AssigneeStats)
	order := []string{}

	bucket := func(id, name string) *AssigneeStats {
		if st, ok := byID[id]; ok {
			return st
		}
		st := &AssigneeStats{ID: id, Name: name}
		byID[id] = st
		order = append(order, id)
		return st
	}
	// The unassigned bucket always exists, even when empty.
	bucket(UnassignedBucket, "Sem técnico")

	for _, c := range active {
		var st *AssigneeStats
		if c.Unassigned() {
			st = byID[UnassignedBucket]
		} else {
			st = bucket(c.Assignee.ID, c.Assignee.Name)
		}
		st.Total++
		if c.RiskLevel == casefile.RiskHigh {
			st.HighRisk++
		}
		if c.NextActionDue != nil && now.After(*c.NextActionDue) {
			st.OverdueNextAction++
		}
		threshold := idleDefault
		if c.RiskLevel == casefile.RiskHigh {
			threshold = idleHighRisk
		}
		if int(now.Sub(c.LastActivityAt).Hours()/24) >= threshold {
			st.Idle++
		}
	}

	out := make([]AssigneeStats, 0, len(order))
	for _, id := range order {
		st := byID[id]
		st.Score = st.Total + st.HighRisk*2 + st.Idle*2 + st.OverdueNextAction*3
		out = append(out, *st)
	}
	// Rank by workload score; id breaks exact ties deterministically.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// bottlenecks selects stages with a configured SLA and at least two cases,
// worst percentage over SLA first, volume as tie-break.
func bottlenecks(stages []StageStats) []StageStats {
	var out []StageStats
	for _, st := range stages {
		if st.SLADays > 0 && st.Count >= 2 {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OverSLAPercent != out[j].OverSLAPercent {
			return out[i].OverSLAPercent > out[j].OverSLAPercent
		}
		return out[i].Count > out[j].Count
	})
	return out
}
