package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const countersCollection = "counters"

// idAllocator hands out monotonically increasing integer ids per entity
// name, backed by a counters collection. Ids start at 1.
type idAllocator struct {
	coll *mongo.Collection
}

func newIDAllocator(db *mongo.Database) *idAllocator {
	return &idAllocator{coll: db.Collection(countersCollection)}
}

func (a *idAllocator) Next(ctx context.Context, name string) (int64, error) {
	res := a.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	if err := res.Decode(&doc); err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return doc.Seq, nil
}
