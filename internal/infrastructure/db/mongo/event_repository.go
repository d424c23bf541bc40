package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/epic-events/crm-system/internal/core/domain"
	"github.com/epic-events/crm-system/internal/core/ports"
)

const eventsCollection = "events"

// EventRepository persists events.
type EventRepository struct {
	coll *mongo.Collection
	ids  *idAllocator
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{coll: db.Collection(eventsCollection), ids: newIDAllocator(db)}
}

type eventDoc struct {
	ID               int64     `bson:"_id"`
	Name             string    `bson:"name"`
	Notes            *string   `bson:"notes"`
	Location         *string   `bson:"location"`
	StartDatetime    time.Time `bson:"start_datetime"`
	EndDatetime      time.Time `bson:"end_datetime"`
	Attendees        int       `bson:"attendees"`
	ClientID         int64     `bson:"client_id"`
	SupportContactID *int64    `bson:"support_contact_id"`
}

func toEventDoc(e *domain.Event) eventDoc {
	return eventDoc{
		ID:               e.ID,
		Name:             e.Name,
		Notes:            e.Notes,
		Location:         e.Location,
		StartDatetime:    e.StartDatetime,
		EndDatetime:      e.EndDatetime,
		Attendees:        e.Attendees,
		ClientID:         e.ClientID,
		SupportContactID: e.SupportContactID,
	}
}

func (d eventDoc) toDomain() *domain.Event {
	return &domain.Event{
		ID:               d.ID,
		Name:             d.Name,
		Notes:            d.Notes,
		Location:         d.Location,
		StartDatetime:    d.StartDatetime,
		EndDatetime:      d.EndDatetime,
		Attendees:        d.Attendees,
		ClientID:         d.ClientID,
		SupportContactID: d.SupportContactID,
	}
}

func (r *EventRepository) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	id, err := r.ids.Next(ctx, eventsCollection)
	if err != nil {
		return nil, err
	}
	e.ID = id
	if _, err := r.coll.InsertOne(ctx, toEventDoc(e)); err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) Update(ctx context.Context, e *domain.Event) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": e.ID}, toEventDoc(e))
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.IDError(domain.KindEventNotFound, e.ID)
	}
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id int64) (*domain.Event, error) {
	var doc eventDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.IDError(domain.KindEventNotFound, id)
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EventRepository) List(ctx context.Context, filter ports.EventFilter) ([]*domain.Event, error) {
	query := bson.M{}
	switch {
	case filter.Unassigned:
		query["support_contact_id"] = nil
	case filter.SupportContactID != nil:
		query["support_contact_id"] = *filter.SupportContactID
	}

	cur, err := r.coll.Find(ctx, query, sortByID())
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	var events []*domain.Event
	for cur.Next(ctx) {
		var doc eventDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, doc.toDomain())
	}
	return events, cur.Err()
}

// ClearSupportContact nulls the assignment foreign key on every event of
// the given user and returns the number of records touched.
func (r *EventRepository) ClearSupportContact(ctx context.Context, userID int64) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"support_contact_id": userID},
		bson.M{"$set": bson.M{"support_contact_id": nil}},
	)
	if err != nil {
		return 0, fmt.Errorf("dissociate events: %w", err)
	}
	return res.ModifiedCount, nil
}
