package identity

import "errors"

// ErrUnauthorized indicates the actor lacks the capability for an operation.
var ErrUnauthorized = errors.New("actor lacks required capability")

// CanMutate reports whether the actor may perform any write at all.
func CanMutate(a Actor) bool {
	return CapabilityOf(a) != CapabilityReadOnly
}

// CanAssign reports whether the actor may take or hand over case ownership.
func CanAssign(a Actor) bool {
	return IsStaff(a)
}

// CanApproveClosure reports whether the actor may approve or reject a
// pending closure request.
func CanApproveClosure(a Actor) bool {
	return IsStaff(a)
}

// CanRequestClosure reports whether the actor may open a closure request.
func CanRequestClosure(a Actor) bool {
	return IsStaff(a)
}

// CanCreateReferral reports whether the actor may open an inter-agency
// referral on behalf of their unit.
func CanCreateReferral(a Actor) bool {
	return IsStaff(a)
}

// CanEditWorkflow reports whether the actor may change the unit's workflow
// configuration.
func CanEditWorkflow(a Actor) bool {
	return CapabilityOf(a) == CapabilitySupervisor
}

// Require returns ErrUnauthorized unless ok is true. It keeps capability
// checks one-liners at the top of mutating operations.
func Require(ok bool) error {
	if !ok {
		return ErrUnauthorized
	}
	return nil
}
