package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/epic-events/crm-system/internal/core/domain"
	"github.com/epic-events/crm-system/internal/core/ports"
)

// EventService implements the event use cases. Creation is restricted to
// the commercial owning the target client; updates to the assigned support
// contact or management; support assignment to management.
type EventService struct {
	events  ports.EventRepository
	clients ports.ClientRepository
	users   ports.UserRepository
	uow     ports.UnitOfWork
	log     zerolog.Logger
}

func NewEventService(
	events ports.EventRepository,
	clients ports.ClientRepository,
	users ports.UserRepository,
	uow ports.UnitOfWork,
	log zerolog.Logger,
) *EventService {
	return &EventService{events: events, clients: clients, users: users, uow: uow, log: log}
}

// Create validates and persists a new event for a client the session user
// owns. Check order: client exists, client owned by the session user,
// support contact (when supplied) exists, start strictly in the future,
// end not before start. Events may be created unassigned.
func (s *EventService) Create(ctx context.Context, sess *domain.Session, in ports.CreateEventInput) (*domain.Event, error) {
	if err := requireRole(sess, domain.RoleCommercial); err != nil {
		return nil, err
	}

	var created *domain.Event
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		client, err := s.clients.FindByID(ctx, in.ClientID)
		if err != nil {
			return err
		}
		if client.CommercialContactID == nil || *client.CommercialContactID != sess.UserID {
			return domain.NewError(domain.KindAccessDenied)
		}

		event := &domain.Event{
			Name:          in.Name,
			StartDatetime: in.StartDatetime,
			EndDatetime:   in.EndDatetime,
			Attendees:     in.Attendees,
			ClientID:      in.ClientID,
		}
		if supportID, ok := in.SupportContactID.Value(); ok {
			exists, err := s.users.ExistsByID(ctx, supportID)
			if err != nil {
				return err
			}
			if !exists {
				return domain.IDError(domain.KindContactNotFound, supportID)
			}
			event.SupportContactID = &supportID
		}

		if in.StartDatetime.Before(time.Now().UTC()) {
			return domain.FieldError(domain.KindEventDateInPast, "start_datetime")
		}
		if in.EndDatetime.Before(in.StartDatetime) {
			return domain.FieldError(domain.KindEndBeforeStart, "end_datetime")
		}

		if v, ok := in.Notes.Value(); ok {
			event.Notes = &v
		}
		if v, ok := in.Location.Value(); ok {
			event.Location = &v
		}

		created, err = s.events.Create(ctx, event)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("event_id", created.ID).Int64("client_id", created.ClientID).Msg("event created")
	return created, nil
}

// Update applies a partial update. Phase 1 admits support and management;
// phase 2 holds support users to events they are assigned to. Temporal
// invariants are re-validated only for supplied fields: when one of
// start/end is absent its stored value is the comparison baseline. Check
// order: start in the future, end not before start, changed client exists,
// changed support contact exists.
func (s *EventService) Update(ctx context.Context, sess *domain.Session, id int64, in ports.UpdateEventInput) (*domain.Event, error) {
	if err := requireUpdateRole(sess, entityEvent); err != nil {
		return nil, err
	}

	var updated *domain.Event
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		event, err := s.events.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwnership(sess, entityEvent, event.SupportContactID); err != nil {
			return err
		}

		start := event.StartDatetime
		if v, ok := in.StartDatetime.Value(); ok {
			if v.Before(time.Now().UTC()) {
				return domain.FieldError(domain.KindEventDateInPast, "start_datetime")
			}
			start = v
		}
		end := event.EndDatetime
		if v, ok := in.EndDatetime.Value(); ok {
			end = v
		}
		if (in.StartDatetime.Present() || in.EndDatetime.Present()) && end.Before(start) {
			return domain.FieldError(domain.KindEndBeforeStart, "end_datetime")
		}

		if clientID, ok := in.ClientID.Value(); ok && clientID != event.ClientID {
			exists, err := s.clients.ExistsByID(ctx, clientID)
			if err != nil {
				return err
			}
			if !exists {
				return domain.IDError(domain.KindClientNotFound, clientID)
			}
			event.ClientID = clientID
		}
		if in.SupportContactID.Present() {
			if supportID, ok := in.SupportContactID.Value(); ok {
				exists, err := s.users.ExistsByID(ctx, supportID)
				if err != nil {
					return err
				}
				if !exists {
					return domain.IDError(domain.KindContactNotFound, supportID)
				}
				event.SupportContactID = &supportID
			} else {
				event.SupportContactID = nil
			}
		}

		event.StartDatetime = start
		event.EndDatetime = end
		if in.Name != "" {
			event.Name = in.Name
		}
		applyOptString(&event.Notes, in.Notes)
		applyOptString(&event.Location, in.Location)
		if v, ok := in.Attendees.Value(); ok {
			event.Attendees = v
		}

		if err := s.events.Update(ctx, event); err != nil {
			return err
		}
		updated = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("event_id", updated.ID).Msg("event updated")
	return updated, nil
}

// AssignSupport sets an event's support contact. Management only.
func (s *EventService) AssignSupport(ctx context.Context, sess *domain.Session, eventID, supportID int64) (*domain.Event, error) {
	if err := requireRole(sess, domain.RoleManagement); err != nil {
		return nil, err
	}

	var updated *domain.Event
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		event, err := s.events.FindByID(ctx, eventID)
		if err != nil {
			return err
		}
		exists, err := s.users.ExistsByID(ctx, supportID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.IDError(domain.KindContactNotFound, supportID)
		}

		event.SupportContactID = &supportID
		if err := s.events.Update(ctx, event); err != nil {
			return err
		}
		updated = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("event_id", updated.ID).Int64("support_id", supportID).Msg("support assigned")
	return updated, nil
}

// List returns all events. Any authenticated session may read.
func (s *EventService) List(ctx context.Context, sess *domain.Session) ([]*domain.Event, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	return s.events.List(ctx, ports.EventFilter{})
}

// ListMine returns the events assigned to the session's support user.
func (s *EventService) ListMine(ctx context.Context, sess *domain.Session) ([]*domain.Event, error) {
	if err := requireRole(sess, domain.RoleSupport); err != nil {
		return nil, err
	}
	id := sess.UserID
	return s.events.List(ctx, ports.EventFilter{SupportContactID: &id})
}

// ListUnassigned returns events with no support contact. Management only.
func (s *EventService) ListUnassigned(ctx context.Context, sess *domain.Session) ([]*domain.Event, error) {
	if err := requireRole(sess, domain.RoleManagement); err != nil {
		return nil, err
	}
	return s.events.List(ctx, ports.EventFilter{Unassigned: true})
}
