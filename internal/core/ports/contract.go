package ports

import (
	"context"

	"github.com/epic-events/crm-system/internal/core/domain"
)

// ContractFilter narrows contract listings. Pending selects contracts that
// are unsigned or not fully paid.
type ContractFilter struct {
	Pending bool
}

// ContractRepository defines persistence operations for contracts.
type ContractRepository interface {
	Create(ctx context.Context, c *domain.Contract) (*domain.Contract, error)
	Update(ctx context.Context, c *domain.Contract) error
	FindByID(ctx context.Context, id int64) (*domain.Contract, error)
	List(ctx context.Context, filter ContractFilter) ([]*domain.Contract, error)
	ClearCommercialContact(ctx context.Context, userID int64) (int64, error)
}

// CreateContractInput carries the fields for creating a contract.
type CreateContractInput struct {
	TotalPrice          float64
	RestToPay           float64
	ClientID            int64
	CommercialContactID int64
	Signed              bool
}

// UpdateContractInput carries a partial contract update. Absent fields are
// left untouched; RestToPay is bounded by the effective total price (the
// supplied TotalPrice when present, otherwise the stored one).
type UpdateContractInput struct {
	TotalPrice          Opt[float64]
	RestToPay           Opt[float64]
	ClientID            Opt[int64]
	CommercialContactID Opt[int64]
	Signed              Opt[bool]
}

// ContractService defines the contract use cases. Create is
// management-only; Update is allowed to management and to the commercial
// owning the contract's client.
type ContractService interface {
	Create(ctx context.Context, sess *domain.Session, in CreateContractInput) (*domain.Contract, error)
	Update(ctx context.Context, sess *domain.Session, id int64, in UpdateContractInput) (*domain.Contract, error)
	List(ctx context.Context, sess *domain.Session, filter ContractFilter) ([]*domain.Contract, error)
}
