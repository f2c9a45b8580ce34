package domain

// Role identifies who is driving a status transition.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// transitionKey keys the transition table by (current state, requested state).
type transitionKey struct {
	from BookingStatus
	to   BookingStatus
}

// transitions maps each permitted transition to the roles allowed to drive it.
// Absent entries are invalid regardless of role. cancelled, completed and
// no_show have no outgoing entries: they are terminal.
var transitions = map[transitionKey][]Role{
	{StatusPending, StatusConfirmed}:   {RoleAdmin},
	{StatusPending, StatusCancelled}:   {RoleAdmin, RoleCustomer},
	{StatusConfirmed, StatusCancelled}: {RoleAdmin, RoleCustomer},
	{StatusConfirmed, StatusCompleted}: {RoleAdmin},
	{StatusConfirmed, StatusNoShow}:    {RoleAdmin},
}

// CanTransition reports whether role may move a booking from one status to
// another. It only encodes the state machine; temporal guards (a booking can
// be completed only after its start time) live in the booking service.
func CanTransition(from, to BookingStatus, role Role) bool {
	allowed, ok := transitions[transitionKey{from: from, to: to}]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the known booking statuses.
func ValidStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	default:
		return false
	}
}
