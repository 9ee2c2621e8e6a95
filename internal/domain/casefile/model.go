package casefile

import "time"

// RiskLevel classifies the violation risk of a case.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Status is the coarse case lifecycle state.
type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// StageClosed is the synthetic stage assigned when a case is closed.
const StageClosed = "closed"

// ClosureStatus tracks the two-actor closure sub-workflow.
type ClosureStatus string

const (
	ClosureNone      ClosureStatus = ""
	ClosureRequested ClosureStatus = "requested"
	ClosureApproved  ClosureStatus = "approved"
	ClosureRejected  ClosureStatus = "rejected"
)

// Assignee is the staff member responsible for a case.
type Assignee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TimelineEntry is one human-visible audit event. The timeline is sorted
// newest-first; entries are never edited or removed.
type TimelineEntry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Text      string    `json:"text"`
	ActorID   string    `json:"actor_id,omitempty"`
	ActorName string    `json:"actor_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Timeline entry kinds.
const (
	TimelineNote        = "note"
	TimelineCreated     = "created"
	TimelineStageChange = "stage_change"
	TimelineAssignment  = "assignment"
	TimelineActivity    = "activity"
	TimelineReferral    = "referral"
	TimelineClosure     = "closure"
)

// StageTouch is one append-only entry in a stage's track record. The first
// touch of a stage anchors that stage's SLA clock, even if the case later
// revisits the stage.
type StageTouch struct {
	ActorID           string    `json:"actor_id,omitempty"`
	ActorName         string    `json:"actor_name,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
	Note              string    `json:"note,omitempty"`
	ActivityID        string    `json:"activity_id,omitempty"`
	LinkedReferralIDs []string  `json:"linked_referral_ids,omitempty"`
}

// Activity is a visit or attendance record attached to a case.
type Activity struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"` // visita, atendimento, contato, ...
	Summary    string    `json:"summary"`
	ActorID    string    `json:"actor_id,omitempty"`
	ActorName  string    `json:"actor_name,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NetworkReferralStatus is the awaiting/returned state of a free-text
// handoff to the external service network. These are not the inter-agency
// referrals tracked by the referral engine.
type NetworkReferralStatus string

const (
	NetworkAwaiting NetworkReferralStatus = "awaiting"
	NetworkReturned NetworkReferralStatus = "returned"
)

// NetworkReferral is a free-text handoff to an external service with a due
// date for the counter-referral.
type NetworkReferral struct {
	ID         string                `json:"id"`
	Service    string                `json:"service"`
	Note       string                `json:"note,omitempty"`
	DueDate    *time.Time            `json:"due_date,omitempty"`
	Status     NetworkReferralStatus `json:"status"`
	CreatedAt  time.Time             `json:"created_at"`
	ReturnedAt *time.Time            `json:"returned_at,omitempty"`
}

// Closure holds the request/approve/reject sub-state of a case.
type Closure struct {
	Status        ClosureStatus `json:"status,omitempty"`
	RequestedBy   *Assignee     `json:"requested_by,omitempty"`
	RequestedAt   *time.Time    `json:"requested_at,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	Summary       string        `json:"summary,omitempty"`
	PreviousStage string        `json:"previous_stage,omitempty"`
	ApprovedBy    *Assignee     `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time    `json:"approved_at,omitempty"`
	RejectedBy    *Assignee     `json:"rejected_by,omitempty"`
	RejectedAt    *time.Time    `json:"rejected_at,omitempty"`
	RejectReason  string        `json:"reject_reason,omitempty"`
	Checklist     []string      `json:"checklist,omitempty"`
	Exception     string        `json:"exception,omitempty"`
}

// Case is the central entity of the engine.
type Case struct {
	ID       int64  `json:"id"`
	PersonID string `json:"person_id"`

	RiskLevel RiskLevel `json:"risk_level"`
	Topic     string    `json:"topic,omitempty"`
	Subtopic  string    `json:"subtopic,omitempty"`
	Channel   string    `json:"channel,omitempty"`

	Assignee *Assignee `json:"assignee,omitempty"`

	Status        Status     `json:"status"`
	CurrentStage  string     `json:"current_stage"`
	NextAction    string     `json:"next_action,omitempty"`
	NextActionDue *time.Time `json:"next_action_due,omitempty"`

	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	LastActivityAt time.Time `json:"last_activity_at"`

	Closure Closure `json:"closure"`

	// StageHistory keys are stage codes; each list is append-only.
	StageHistory map[string][]StageTouch `json:"stage_history,omitempty"`

	Timeline         []TimelineEntry   `json:"timeline,omitempty"`
	Activities       []Activity        `json:"activities,omitempty"`
	NetworkReferrals []NetworkReferral `json:"network_referrals,omitempty"`
}

// StageEnteredAt returns the SLA anchor for a stage: the timestamp of its
// first recorded touch. ok is false when the stage was never touched.
func (c *Case) StageEnteredAt(code string) (time.Time, bool) {
	touches := c.StageHistory[code]
	if len(touches) == 0 {
		return time.Time{}, false
	}
	return touches[0].Timestamp, true
}

// Unassigned reports whether the case has no responsible staff member.
// Being unassigned is a visible, first-class state, not an error.
func (c *Case) Unassigned() bool {
	return c.Assignee == nil || c.Assignee.ID == ""
}
