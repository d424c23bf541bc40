package ports

import (
	"context"

	"github.com/epic-events/crm-system/internal/core/domain"
)

// UserRepository defines persistence operations for users. Existence
// lookups take an excludeID so uniqueness checks on update can skip the
// record being edited (0 excludes nothing).
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	List(ctx context.Context) ([]*domain.User, error)
}

// CreateUserInput carries the fields for creating a user. Password is the
// plaintext credential; hashing happens inside the service.
type CreateUserInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Role      string
	Password  string
}

// UpdateUserInput carries a partial user update. Every field is required
// on the entity, so an empty string means "no change" — required fields
// cannot be cleared.
type UpdateUserInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Role      string
}

// UserService defines the user use cases. Create, Update and Delete are
// management-only; Delete dissociates the user's clients, contracts and
// events before removing the row.
type UserService interface {
	Create(ctx context.Context, sess *domain.Session, in CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, sess *domain.Session, id int64, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, sess *domain.Session, id int64) error
	List(ctx context.Context, sess *domain.Session) ([]*domain.User, error)
}
