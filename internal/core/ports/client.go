package ports

import (
	"context"

	"github.com/epic-events/crm-system/internal/core/domain"
)

// ClientRepository defines persistence operations for clients. Clients are
// never hard-deleted; ClearCommercialContact nulls the owning foreign key
// on every client of a deleted user and returns the number of rows touched.
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) error
	FindByID(ctx context.Context, id int64) (*domain.Client, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	List(ctx context.Context) ([]*domain.Client, error)
	ClearCommercialContact(ctx context.Context, userID int64) (int64, error)
}

// CreateClientInput carries the fields for creating a client. The
// commercial contact is always the session user.
type CreateClientInput struct {
	FirstName    string
	LastName     string
	Email        string
	BusinessName Opt[string]
	Telephone    Opt[string]
}

// UpdateClientInput carries a partial client update. Required text fields
// use "" for "no change"; BusinessName and Telephone are tri-state so an
// explicit null clears them.
type UpdateClientInput struct {
	FirstName           string
	LastName            string
	Email               string
	BusinessName        Opt[string]
	Telephone           Opt[string]
	CommercialContactID Opt[int64]
}

// ClientService defines the client use cases. Create is commercial-only;
// Update is allowed to management and to the owning commercial.
type ClientService interface {
	Create(ctx context.Context, sess *domain.Session, in CreateClientInput) (*domain.Client, error)
	Update(ctx context.Context, sess *domain.Session, id int64, in UpdateClientInput) (*domain.Client, error)
	List(ctx context.Context, sess *domain.Session) ([]*domain.Client, error)
}
