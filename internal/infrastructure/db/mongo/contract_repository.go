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

const contractsCollection = "contracts"

// ContractRepository persists contracts.
type ContractRepository struct {
	coll *mongo.Collection
	ids  *idAllocator
}

func NewContractRepository(db *mongo.Database) *ContractRepository {
	return &ContractRepository{coll: db.Collection(contractsCollection), ids: newIDAllocator(db)}
}

type contractDoc struct {
	ID                  int64     `bson:"_id"`
	TotalPrice          float64   `bson:"total_price"`
	RestToPay           float64   `bson:"rest_to_pay"`
	Signed              bool      `bson:"signed"`
	Creation            time.Time `bson:"creation"`
	ClientID            int64     `bson:"client_id"`
	CommercialContactID *int64    `bson:"commercial_contact_id"`
}

func toContractDoc(c *domain.Contract) contractDoc {
	return contractDoc{
		ID:                  c.ID,
		TotalPrice:          c.TotalPrice,
		RestToPay:           c.RestToPay,
		Signed:              c.Signed,
		Creation:            c.Creation,
		ClientID:            c.ClientID,
		CommercialContactID: c.CommercialContactID,
	}
}

func (d contractDoc) toDomain() *domain.Contract {
	return &domain.Contract{
		ID:                  d.ID,
		TotalPrice:          d.TotalPrice,
		RestToPay:           d.RestToPay,
		Signed:              d.Signed,
		Creation:            d.Creation,
		ClientID:            d.ClientID,
		CommercialContactID: d.CommercialContactID,
	}
}

func (r *ContractRepository) Create(ctx context.Context, c *domain.Contract) (*domain.Contract, error) {
	id, err := r.ids.Next(ctx, contractsCollection)
	if err != nil {
		return nil, err
	}
	c.ID = id
	if _, err := r.coll.InsertOne(ctx, toContractDoc(c)); err != nil {
		return nil, fmt.Errorf("insert contract: %w", err)
	}
	return c, nil
}

func (r *ContractRepository) Update(ctx context.Context, c *domain.Contract) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, toContractDoc(c))
	if err != nil {
		return fmt.Errorf("update contract: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.IDError(domain.KindContractNotFound, c.ID)
	}
	return nil
}

func (r *ContractRepository) FindByID(ctx context.Context, id int64) (*domain.Contract, error) {
	var doc contractDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.IDError(domain.KindContractNotFound, id)
		}
		return nil, fmt.Errorf("find contract: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ContractRepository) List(ctx context.Context, filter ports.ContractFilter) ([]*domain.Contract, error) {
	query := bson.M{}
	if filter.Pending {
		query = bson.M{"$or": []bson.M{
			{"signed": false},
			{"rest_to_pay": bson.M{"$gt": 0}},
		}}
	}

	cur, err := r.coll.Find(ctx, query, sortByID())
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer cur.Close(ctx)

	var contracts []*domain.Contract
	for cur.Next(ctx) {
		var doc contractDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode contract: %w", err)
		}
		contracts = append(contracts, doc.toDomain())
	}
	return contracts, cur.Err()
}

// ClearCommercialContact nulls the owning foreign key on every contract of
// the given user and returns the number of records touched.
func (r *ContractRepository) ClearCommercialContact(ctx context.Context, userID int64) (int64, error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.M{"commercial_contact_id": userID},
		bson.M{"$set": bson.M{"commercial_contact_id": nil}},
	)
	if err != nil {
		return 0, fmt.Errorf("dissociate contracts: %w", err)
	}
	return res.ModifiedCount, nil
}
