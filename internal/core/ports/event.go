package ports

import (
	"context"
	"time"

	"github.com/epic-events/crm-system/internal/core/domain"
)

// EventFilter narrows event listings. SupportContactID scopes to one
// support user; Unassigned selects events with no support contact.
type EventFilter struct {
	SupportContactID *int64
	Unassigned       bool
}

// EventRepository defines persistence operations for events.
type EventRepository interface {
	Create(ctx context.Context, e *domain.Event) (*domain.Event, error)
	Update(ctx context.Context, e *domain.Event) error
	FindByID(ctx context.Context, id int64) (*domain.Event, error)
	List(ctx context.Context, filter EventFilter) ([]*domain.Event, error)
	ClearSupportContact(ctx context.Context, userID int64) (int64, error)
}

// CreateEventInput carries the fields for creating an event. The support
// contact is optional: events may start unassigned and be assigned later
// by management.
type CreateEventInput struct {
	Name             string
	Notes            Opt[string]
	Location         Opt[string]
	StartDatetime    time.Time
	EndDatetime      time.Time
	Attendees        int
	ClientID         int64
	SupportContactID Opt[int64]
}

// UpdateEventInput carries a partial event update. Name uses "" for "no
// change"; Notes, Location and SupportContactID are tri-state.
type UpdateEventInput struct {
	Name             string
	Notes            Opt[string]
	Location         Opt[string]
	StartDatetime    Opt[time.Time]
	EndDatetime      Opt[time.Time]
	Attendees        Opt[int]
	ClientID         Opt[int64]
	SupportContactID Opt[int64]
}

// EventService defines the event use cases. Create is restricted to the
// commercial owning the client; Update to the assigned support contact or
// management; AssignSupport and ListUnassigned to management; ListMine to
// support users.
type EventService interface {
	Create(ctx context.Context, sess *domain.Session, in CreateEventInput) (*domain.Event, error)
	Update(ctx context.Context, sess *domain.Session, id int64, in UpdateEventInput) (*domain.Event, error)
	AssignSupport(ctx context.Context, sess *domain.Session, eventID, supportID int64) (*domain.Event, error)
	List(ctx context.Context, sess *domain.Session) ([]*domain.Event, error)
	ListMine(ctx context.Context, sess *domain.Session) ([]*domain.Event, error)
	ListUnassigned(ctx context.Context, sess *domain.Session) ([]*domain.Event, error)
}
