package referral

// next maps each status to the single permitted forward successor.
var next = map[Status]Status{
	StatusSent:       StatusReceived,
	StatusReceived:   StatusInProgress,
	StatusInProgress: StatusReturned,
	StatusReturned:   StatusConcluded,
}

// ValidateTransition checks a requested status change. The progression is
// one-directional with no skipping; cancellation is allowed from any
// non-terminal status.
func ValidateTransition(from, to Status) error {
	if to == StatusCancelled {
		if from.Terminal() {
			return ErrInvalidTransition
		}
		return nil
	}
	if next[from] != to {
		return ErrInvalidTransition
	}
	return nil
}

// NextAction is the single unambiguous action a unit should take on a
// referral, so the priority view can show one button instead of a menu.
type NextAction string

const (
	ActionReceive      NextAction = "receive"
	ActionGiveFeedback NextAction = "give_feedback"
	ActionChase        NextAction = "chase"
	ActionConclude     NextAction = "conclude"
	ActionMonitor      NextAction = "monitor"
)

// InferNextAction decides the one action the acting unit should take,
// based on which side of the handoff it sits on and the current status.
func InferNextAction(r *Referral, actingUnit string, overdue bool) NextAction {
	if r.Status.Terminal() {
		return ActionMonitor
	}
	switch actingUnit {
	case r.DestinationUnit:
		switch r.Status {
		case StatusSent:
			return ActionReceive
		case StatusReceived, StatusInProgress:
			return ActionGiveFeedback
		}
	case r.OriginUnit:
		if r.Status == StatusReturned {
			return ActionConclude
		}
		if overdue {
			return ActionChase
		}
	}
	return ActionMonitor
}
