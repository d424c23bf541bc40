package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/epic-events/crm-system/internal/core/domain"
	"github.com/epic-events/crm-system/internal/core/ports"
)

// ContractService implements the contract use cases. Creation is
// management only; updates are allowed to management and to the commercial
// owning the contract's client.
type ContractService struct {
	contracts ports.ContractRepository
	clients   ports.ClientRepository
	users     ports.UserRepository
	uow       ports.UnitOfWork
	log       zerolog.Logger
}

func NewContractService(
	contracts ports.ContractRepository,
	clients ports.ClientRepository,
	users ports.UserRepository,
	uow ports.UnitOfWork,
	log zerolog.Logger,
) *ContractService {
	return &ContractService{contracts: contracts, clients: clients, users: users, uow: uow, log: log}
}

// Create validates and persists a new contract. Check order: total price
// > 0, rest to pay not above total, rest to pay not negative, client
// exists, commercial contact exists. creation is set to now; signed
// defaults to the supplied flag.
func (s *ContractService) Create(ctx context.Context, sess *domain.Session, in ports.CreateContractInput) (*domain.Contract, error) {
	if err := requireRole(sess, domain.RoleManagement); err != nil {
		return nil, err
	}

	var created *domain.Contract
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		if invalidTotalPrice(in.TotalPrice) {
			return domain.FieldError(domain.KindInvalidTotalPrice, "total_price")
		}
		if in.RestToPay > in.TotalPrice {
			return domain.FieldError(domain.KindInferiorTotalPrice, "rest_to_pay")
		}
		if negativeRestToPay(in.RestToPay) {
			return domain.FieldError(domain.KindNegativeRestToPay, "rest_to_pay")
		}

		if err := s.requireClient(ctx, in.ClientID); err != nil {
			return err
		}
		if err := s.requireUser(ctx, in.CommercialContactID); err != nil {
			return err
		}

		owner := in.CommercialContactID
		var err error
		created, err = s.contracts.Create(ctx, &domain.Contract{
			TotalPrice:          in.TotalPrice,
			RestToPay:           in.RestToPay,
			Signed:              in.Signed,
			Creation:            time.Now().UTC(),
			ClientID:            in.ClientID,
			CommercialContactID: &owner,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("contract_id", created.ID).Int64("client_id", created.ClientID).Msg("contract created")
	return created, nil
}

// Update applies a partial update. Phase 2 ownership goes through the
// contract's client: a commercial may only touch contracts whose client
// they own. rest_to_pay is bounded by the effective total price — the
// just-supplied one when present, otherwise the stored one. Check order:
// total price bound, rest to pay bounds, changed client exists, changed
// commercial contact exists.
func (s *ContractService) Update(ctx context.Context, sess *domain.Session, id int64, in ports.UpdateContractInput) (*domain.Contract, error) {
	if err := requireUpdateRole(sess, entityContract); err != nil {
		return nil, err
	}

	var updated *domain.Contract
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		contract, err := s.contracts.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.checkOwnership(ctx, sess, contract); err != nil {
			return err
		}

		effectiveTotal := contract.TotalPrice
		if total, ok := in.TotalPrice.Value(); ok {
			if invalidTotalPrice(total) {
				return domain.FieldError(domain.KindInvalidTotalPrice, "total_price")
			}
			contract.TotalPrice = total
			effectiveTotal = total
		}
		if rest, ok := in.RestToPay.Value(); ok {
			if negativeRestToPay(rest) {
				return domain.FieldError(domain.KindNegativeRestToPay, "rest_to_pay")
			}
			if rest > effectiveTotal {
				return domain.FieldError(domain.KindInferiorTotalPrice, "rest_to_pay")
			}
			contract.RestToPay = rest
		} else if contract.RestToPay > effectiveTotal {
			return domain.FieldError(domain.KindInferiorTotalPrice, "total_price")
		}

		if clientID, ok := in.ClientID.Value(); ok && clientID != contract.ClientID {
			if err := s.requireClient(ctx, clientID); err != nil {
				return err
			}
			contract.ClientID = clientID
		}
		if contactID, ok := in.CommercialContactID.Value(); ok {
			if err := s.requireUser(ctx, contactID); err != nil {
				return err
			}
			contract.CommercialContactID = &contactID
		}
		if signed, ok := in.Signed.Value(); ok {
			contract.Signed = signed
		}

		if err := s.contracts.Update(ctx, contract); err != nil {
			return err
		}
		updated = contract
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("contract_id", updated.ID).Msg("contract updated")
	return updated, nil
}

// List returns contracts matching the filter. Any authenticated session
// may read.
func (s *ContractService) List(ctx context.Context, sess *domain.Session, filter ports.ContractFilter) ([]*domain.Contract, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	return s.contracts.List(ctx, filter)
}

// checkOwnership resolves the owning commercial of the contract's client
// and applies phase 2. The client lookup only happens for the restricted
// role; management never pays for it. A missing client counts as no owner
// and is denied; storage faults propagate.
func (s *ContractService) checkOwnership(ctx context.Context, sess *domain.Session, contract *domain.Contract) error {
	if sess.Role != domain.RoleCommercial {
		return nil
	}
	var owner *int64
	client, err := s.clients.FindByID(ctx, contract.ClientID)
	switch {
	case err == nil:
		owner = client.CommercialContactID
	case !domain.IsKind(err, domain.KindClientNotFound):
		return err
	}
	return requireOwnership(sess, entityContract, owner)
}

func (s *ContractService) requireClient(ctx context.Context, id int64) error {
	exists, err := s.clients.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.IDError(domain.KindClientNotFound, id)
	}
	return nil
}

func (s *ContractService) requireUser(ctx context.Context, id int64) error {
	exists, err := s.users.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.IDError(domain.KindContactNotFound, id)
	}
	return nil
}
