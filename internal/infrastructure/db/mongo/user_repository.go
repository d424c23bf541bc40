package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/epic-events/crm-system/internal/core/domain"
)

const usersCollection = "users"

// UserRepository persists users. Uniqueness of username and email is the
// validation engine's responsibility; no unique indexes are assumed.
type UserRepository struct {
	coll *mongo.Collection
	ids  *idAllocator
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection), ids: newIDAllocator(db)}
}

type userDoc struct {
	ID           int64  `bson:"_id"`
	Username     string `bson:"username"`
	FirstName    string `bson:"first_name"`
	LastName     string `bson:"last_name"`
	Email        string `bson:"email"`
	Role         string `bson:"role"`
	PasswordHash string `bson:"password_hash"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Role:         string(u.Role),
		PasswordHash: u.PasswordHash,
	}
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		Username:     d.Username,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		Role:         domain.Role(d.Role),
		PasswordHash: d.PasswordHash,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	id, err := r.ids.Next(ctx, usersCollection)
	if err != nil {
		return nil, err
	}
	u.ID = id
	if _, err := r.coll.InsertOne(ctx, toUserDoc(u)); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": u.ID}, toUserDoc(u))
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.IDError(domain.KindContactNotFound, u.ID)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.IDError(domain.KindContactNotFound, id)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.IDError(domain.KindContactNotFound, id)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.FieldError(domain.KindContactNotFound, "username")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, bson.M{"_id": id})
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	return r.exists(ctx, bson.M{"username": username, "_id": bson.M{"$ne": excludeID}})
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, bson.M{"email": email, "_id": bson.M{"$ne": excludeID}})
}

func (r *UserRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	err := r.coll.FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("user lookup: %w", err)
	}
	return true, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, sortByID())
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, doc.toDomain())
	}
	return users, cur.Err()
}
