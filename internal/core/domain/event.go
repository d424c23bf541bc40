package domain

import "time"

// Event is a scheduled engagement for a client, handled by a support user.
// Invariants: StartDatetime is strictly in the future at creation and
// EndDatetime never precedes StartDatetime. SupportContactID is nil while
// the event is unassigned and becomes nil again when the assigned user is
// deleted.
type Event struct {
	ID               int64
	Name             string
	Notes            *string
	Location         *string
	StartDatetime    time.Time
	EndDatetime      time.Time
	Attendees        int
	ClientID         int64
	SupportContactID *int64
}

// Assigned reports whether a support contact is set.
func (e *Event) Assigned() bool {
	return e.SupportContactID != nil
}
