package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/epic-events/crm-system/internal/core/domain"
)

const clientsCollection = "clients"

// ClientRepository persists clients. Nullable fields map to bson null so
// cascade nullification and explicit clears are representable.
type ClientRepository struct {
	coll *mongo.Collection
	ids  *idAllocator
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{coll: db.Collection(clientsCollection), ids: newIDAllocator(db)}
}

type clientDoc struct {
	ID                  int64     `bson:"_id"`
	FirstName           string    `bson:"first_name"`
	LastName            string    `bson:"last_name"`
	BusinessName        *string   `bson:"business_name"`
	Telephone           *string   `bson:"telephone"`
	Email               string    `bson:"email"`
	FirstContact        time.Time `bson:"first_contact"`
	LastUpdate          time.Time `bson:"last_update"`
	CommercialContactID *int64    `bson:"commercial_contact_id"`
}

func toClientDoc(c *domain.Client) clientDoc {
	return clientDoc{
		ID:                  c.ID,
		FirstName:           c.FirstName,
		LastName:            c.LastName,
		BusinessName:        c.BusinessName,
		Telephone:           c.Telephone,
		Email:               c.Email,
		FirstContact:        c.FirstContact,
		LastUpdate:          c.LastUpdate,
		CommercialContactID: c.CommercialContactID,
	}
}

func (d clientDoc) toDomain() *domain.Client {
	return &domain.Client{
		ID:                  d.ID,
		FirstName:           d.FirstName,
		LastName:            d.LastName,
		BusinessName:        d.BusinessName,
		Telephone:           d.Telephone,
		Email:               d.Email,
		FirstContact:        d.FirstContact,
		LastUpdate:          d.LastUpdate,
		CommercialContactID: d.CommercialContactID,
	}
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	id, err := r.ids.Next(ctx, clientsCollection)
	if err != nil {
		return nil, err
	}
	c.ID = id
	if _, err := r.coll.InsertOne(ctx, toClientDoc(c)); err != nil {
		return nil, fmt.Errorf("insert client: %w", err)
	}
	return c, nil
}

func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, toClientDoc(c))
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.IDError(domain.KindClientNotFound, c.ID)
	}
	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	var doc clientDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.IDError(domain.KindClientNotFound, id)
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ClientRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("client lookup: %w", err)
	}
	return true, nil
}

func (r *ClientRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{"email": email, "_id": bson.M{"$ne": excludeID}}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("client lookup: %w", err)
	}
	return true, nil
}

func (r *ClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, sortByID())
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer cur.Close(ctx)

	var clients []*domain.Client
	for cur.Next(ctx) {
		var doc clientDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode client: %w", err)
		}
		clients = append(clients, doc.toDomain())
	}
	return clients, cur.Err()
}

// ClearCommercialContact nulls the owning foreign key on every client of
// the given user and returns the number of records touched.
func (r *ClientRepository) ClearCommercialContact(ctx context.Context, userID int64) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"commercial_contact_id": userID},
		bson.M{"$set": bson.M{"commercial_contact_id": nil}},
	)
	if err != nil {
		return 0, fmt.Errorf("dissociate clients: %w", err)
	}
	return res.ModifiedCount, nil
}
