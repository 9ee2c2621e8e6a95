package referral

import (
	"fmt"
	"strings"
	"time"
)

// Status is the handoff state of an inter-agency referral. Progression is
// strictly forward; cancellation is the single branch.
type Status string

const (
	StatusSent       Status = "sent"
	StatusReceived   Status = "received"
	StatusInProgress Status = "in_progress"
	StatusReturned   Status = "returned"
	StatusConcluded  Status = "concluded"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusConcluded || s == StatusCancelled
}

// Priority mirrors the case risk scale.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Event is one entry of a referral's audit timeline, newest first.
type Event struct {
	Status    Status    `json:"status"`
	Note      string    `json:"note,omitempty"`
	ActorID   string    `json:"actor_id,omitempty"`
	ActorName string    `json:"actor_name,omitempty"`
	UnitID    string    `json:"unit_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Devolution is the structured payload the destination unit fills in when
// returning a referral. Both derived texts are pure functions of it.
type Devolution struct {
	WhatWasDone         string     `json:"what_was_done"`
	CurrentSituation    string     `json:"current_situation"`
	WhatOriginMustDoNow string     `json:"what_origin_must_do_now"`
	SuggestedDeadline   *time.Time `json:"suggested_deadline,omitempty"`
	Notes               string     `json:"notes,omitempty"`
}

// Complete reports whether the mandatory devolution fields are filled.
func (d Devolution) Complete() bool {
	return strings.TrimSpace(d.WhatWasDone) != "" &&
		strings.TrimSpace(d.CurrentSituation) != "" &&
		strings.TrimSpace(d.WhatOriginMustDoNow) != ""
}

// Summary derives the one-line devolution text shown in lists.
func (d Devolution) Summary() string {
	return fmt.Sprintf("Realizado: %s. Situação atual: %s.", d.WhatWasDone, d.CurrentSituation)
}

// Narrative derives the full devolution narrative.
func (d Devolution) Narrative() string {
	var b strings.Builder
	fmt.Fprintf(&b, "O que foi feito: %s\n", d.WhatWasDone)
	fmt.Fprintf(&b, "Situação atual: %s\n", d.CurrentSituation)
	fmt.Fprintf(&b, "O que a origem deve fazer agora: %s\n", d.WhatOriginMustDoNow)
	if d.SuggestedDeadline != nil {
		fmt.Fprintf(&b, "Prazo sugerido: %s\n", d.SuggestedDeadline.Format("02/01/2006"))
	}
	if strings.TrimSpace(d.Notes) != "" {
		fmt.Fprintf(&b, "Observações: %s\n", d.Notes)
	}
	return b.String()
}

// Referral is a cross-unit handoff of a person's case, tracked
// independently of the case's own workflow.
type Referral struct {
	ID              string      `json:"id"`
	CaseID          int64       `json:"case_id,omitempty"`
	PersonID        string      `json:"person_id"`
	OriginUnit      string      `json:"origin_unit"`
	DestinationUnit string      `json:"destination_unit"`
	Subject         string      `json:"subject"`
	Reason          string      `json:"reason,omitempty"`
	Priority        Priority    `json:"priority"`
	DueDate         *time.Time  `json:"due_date,omitempty"`
	Status          Status      `json:"status"`
	Devolution      *Devolution `json:"devolution,omitempty"`
	Timeline        []Event     `json:"timeline,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Overdue reports whether the referral passed its due date without reaching
// a terminal state. The comparison is date-only: a referral due yesterday is
// overdue at midnight, with no time-of-day leniency.
func (r *Referral) Overdue(now time.Time) bool {
	if r.DueDate == nil || r.Status.Terminal() {
		return false
	}
	due := dateOnly(*r.DueDate)
	return due.Before(dateOnly(now))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
