package queue

import (
	"fmt"
	"sort"
	"time"

	"github.com/suasdigital/caseflow/internal/domain/casefile"
	"github.com/suasdigital/caseflow/internal/domain/referral"
	"github.com/suasdigital/caseflow/internal/domain/workflow"
)

// Kind distinguishes queue items.
const (
	KindCase     = "case"
	KindReferral = "referral"
)

// Item is an ephemeral, derived queue entry. Items are rebuilt from the
// current snapshot on every query and are never persisted.
type Item struct {
	SubjectID string   `json:"subject_id"`
	Kind      string   `json:"kind"`
	Score     int      `json:"score"`
	Reasons   []string `json:"reasons"`
	Tags      []string `json:"tags,omitempty"`

	lastActivity time.Time
}

// Options control scoring context.
type Options struct {
	// SupervisorView adds the closure-requested signal, which only matters
	// for whoever can approve closures.
	SupervisorView bool
}

// Result is the transparent score breakdown for one case.
type Result struct {
	Score   int
	Reasons []string
	Tags    []string
}

// Score computes a case's priority from the weighted signals, in a fixed
// evaluation order so identical snapshots always produce identical reason
// lists. Every signal is additive; nothing ever subtracts.
func Score(c *casefile.Case, cfg *workflow.Configuration, w Weights, opts Options, now time.Time) Result {
	var res Result

	add := func(points int, reason, tag string) {
		res.Score += points
		res.Reasons = append(res.Reasons, fmt.Sprintf("%s (+%d)", reason, points))
		if tag != "" {
			res.Tags = append(res.Tags, tag)
		}
	}

	switch c.RiskLevel {
	case casefile.RiskHigh:
		add(w.RiskHigh, "risco alto", "risco-alto")
	case casefile.RiskMedium:
		add(w.RiskMedium, "risco médio", "")
	}

	if c.Unassigned() {
		add(w.Unassigned, "sem técnico responsável", "sem-tecnico")
	}

	if opts.SupervisorView && c.Closure.Status == casefile.ClosureRequested {
		add(w.ClosureRequested, "encerramento aguardando aprovação", "encerramento")
	}

	if c.NextActionDue != nil && now.After(*c.NextActionDue) {
		days := daysOverdue(*c.NextActionDue, now)
		extra := capped(days*w.NextActionOverduePerDay, w.NextActionOverdueCap)
		add(w.NextActionOverdue+extra,
			fmt.Sprintf("próxima ação atrasada há %dd", days), "acao-atrasada")
	}

	threshold := w.IdleThresholdDefault
	if c.RiskLevel == casefile.RiskHigh {
		threshold = w.IdleThresholdHighRisk
	}
	idle := daysBetween(c.LastActivityAt, now)
	if idle >= threshold {
		extra := capped((idle-threshold)*w.InactivityPerDay, w.InactivityCap)
		add(w.Inactivity+extra,
			fmt.Sprintf("sem atividade há %dd", idle), "sem-atividade")
	}

	if days := worstNetworkOverdue(c, now); days > 0 {
		extra := capped(days*w.NetworkOverduePerDay, w.NetworkOverdueCap)
		add(w.NetworkOverdue+extra,
			fmt.Sprintf("contrarreferência da rede atrasada há %dd", days), "rede-atrasada")
	}

	if over := stageDaysOverSLA(c, cfg, now); over > 0 {
		extra := capped(over*w.StageOverSLAPerDay, w.StageOverSLACap)
		add(w.StageOverSLA+extra,
			fmt.Sprintf("etapa além do prazo há %dd", over), "sla-estourado")
	}

	// Idle-time nudge: among otherwise-equal cases, the one untouched
	// longest rises first.
	if nudge := min(10, idle/7); nudge > 0 {
		add(nudge, "tempo parado", "")
	}

	return res
}

// Build scores every case and pending referral and returns the full ordered
// queue. Pagination is a presentation concern.
func Build(cases []*casefile.Case, refs []*referral.Referral, cfg *workflow.Configuration, w Weights, opts Options, now time.Time) []Item {
	items := make([]Item, 0, len(cases)+len(refs))

	for _, c := range cases {
		if c.Status == casefile.StatusClosed {
			continue
		}
		res := Score(c, cfg, w, opts, now)
		if res.Score == 0 {
			continue
		}
		items = append(items, Item{
			SubjectID:    fmt.Sprintf("%d", c.ID),
			Kind:         KindCase,
			Score:        res.Score,
			Reasons:      res.Reasons,
			Tags:         res.Tags,
			lastActivity: c.LastActivityAt,
		})
	}

	for _, r := range refs {
		if r.Status.Terminal() {
			continue
		}
		res := scoreReferral(r, w, now)
		if res.Score == 0 {
			continue
		}
		items = append(items, Item{
			SubjectID:    r.ID,
			Kind:         KindReferral,
			Score:        res.Score,
			Reasons:      res.Reasons,
			Tags:         res.Tags,
			lastActivity: r.UpdatedAt,
		})
	}

	// Descending score; on exact ties the longest-idle subject wins, and
	// the subject id keeps ordering independent of input permutation.
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		if !items[i].lastActivity.Equal(items[j].lastActivity) {
			return items[i].lastActivity.Before(items[j].lastActivity)
		}
		return items[i].SubjectID < items[j].SubjectID
	})

	return items
}

// scoreReferral rates a pending inter-agency referral with the same scale
// used for cases: its declared priority plus how late it is.
func scoreReferral(r *referral.Referral, w Weights, now time.Time) Result {
	var res Result
	add := func(points int, reason, tag string) {
		res.Score += points
		res.Reasons = append(res.Reasons, fmt.Sprintf("%s (+%d)", reason, points))
		if tag != "" {
			res.Tags = append(res.Tags, tag)
		}
	}

	switch r.Priority {
	case referral.PriorityHigh:
		add(w.RiskHigh, "prioridade alta", "prioridade-alta")
	case referral.PriorityMedium:
		add(w.RiskMedium, "prioridade média", "")
	}
	if r.Overdue(now) {
		days := daysOverdue(*r.DueDate, now)
		extra := capped(days*w.NetworkOverduePerDay, w.NetworkOverdueCap)
		add(w.NetworkOverdue+extra,
			fmt.Sprintf("encaminhamento atrasado há %dd", days), "atrasado")
	}
	return res
}

func worstNetworkOverdue(c *casefile.Case, now time.Time) int {
	worst := 0
	for _, ref := range c.NetworkReferrals {
		if ref.Status != casefile.NetworkAwaiting || ref.DueDate == nil {
			continue
		}
		if !now.After(*ref.DueDate) {
			continue
		}
		if days := daysOverdue(*ref.DueDate, now); days > worst {
			worst = days
		}
	}
	return worst
}

func stageDaysOverSLA(c *casefile.Case, cfg *workflow.Configuration, now time.Time) int {
	if cfg == nil {
		return 0
	}
	stage := cfg.Find(c.CurrentStage)
	if stage == nil || stage.SLADays <= 0 {
		return 0
	}
	entered, ok := c.StageEnteredAt(c.CurrentStage)
	if !ok {
		return 0
	}
	inStage := daysBetween(entered, now)
	if inStage <= stage.SLADays {
		return 0
	}
	return inStage - stage.SLADays
}

// daysOverdue counts whole days past a deadline, including the partial day
// in progress, so anything past due counts at least one day.
func daysOverdue(due, now time.Time) int {
	if !now.After(due) {
		return 0
	}
	return int(now.Sub(due).Hours()/24) + 1
}

// daysBetween counts whole elapsed days from a to b.
func daysBetween(a, b time.Time) int {
	if !b.After(a) {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}

func capped(v, limit int) int {
	if v > limit {
		return limit
	}
	return v
}
