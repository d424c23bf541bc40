package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/epic-events/crm-system/internal/core/domain"
	"github.com/epic-events/crm-system/internal/core/ports"
)

// ClientService implements the client use cases. Creation is commercial
// only and ties the new client to the session user; updates are allowed to
// management and to the owning commercial.
type ClientService struct {
	clients ports.ClientRepository
	users   ports.UserRepository
	uow     ports.UnitOfWork
	log     zerolog.Logger
}

func NewClientService(clients ports.ClientRepository, users ports.UserRepository, uow ports.UnitOfWork, log zerolog.Logger) *ClientService {
	return &ClientService{clients: clients, users: users, uow: uow, log: log}
}

// Create validates and persists a new client owned by the session user.
// Check order: email unique, required fields non-empty, commercial contact
// exists. first_contact and last_update are both set to now.
func (s *ClientService) Create(ctx context.Context, sess *domain.Session, in ports.CreateClientInput) (*domain.Client, error) {
	if err := requireRole(sess, domain.RoleCommercial); err != nil {
		return nil, err
	}

	var created *domain.Client
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		taken, err := s.clients.ExistsByEmail(ctx, in.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return domain.FieldError(domain.KindEmailTaken, "email")
		}

		if anyEmpty(in.FirstName, in.LastName, in.Email) {
			return domain.NewError(domain.KindRequiredFieldsEmpty)
		}

		exists, err := s.users.ExistsByID(ctx, sess.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.IDError(domain.KindContactNotFound, sess.UserID)
		}

		now := time.Now().UTC()
		owner := sess.UserID
		client := &domain.Client{
			FirstName:           in.FirstName,
			LastName:            in.LastName,
			Email:               in.Email,
			FirstContact:        now,
			LastUpdate:          now,
			CommercialContactID: &owner,
		}
		if v, ok := in.BusinessName.Value(); ok {
			client.BusinessName = &v
		}
		if v, ok := in.Telephone.Value(); ok {
			client.Telephone = &v
		}

		created, err = s.clients.Create(ctx, client)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("client_id", created.ID).Int64("commercial_id", sess.UserID).Msg("client created")
	return created, nil
}

// Update applies a partial update. Phase 1 admits commercial and
// management; phase 2 holds commercials to clients they own. Required text
// fields use "" for "no change"; business name and telephone honor an
// explicit null by clearing. Check order: email unique when changed, new
// commercial contact exists. last_update is refreshed on every call.
func (s *ClientService) Update(ctx context.Context, sess *domain.Session, id int64, in ports.UpdateClientInput) (*domain.Client, error) {
	if err := requireUpdateRole(sess, entityClient); err != nil {
		return nil, err
	}

	var updated *domain.Client
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		client, err := s.clients.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := requireOwnership(sess, entityClient, client.CommercialContactID); err != nil {
			return err
		}

		if in.Email != "" && in.Email != client.Email {
			taken, err := s.clients.ExistsByEmail(ctx, in.Email, client.ID)
			if err != nil {
				return err
			}
			if taken {
				return domain.FieldError(domain.KindEmailTaken, "email")
			}
			client.Email = in.Email
		}

		if newOwner, ok := in.CommercialContactID.Value(); ok {
			exists, err := s.users.ExistsByID(ctx, newOwner)
			if err != nil {
				return err
			}
			if !exists {
				return domain.IDError(domain.KindContactNotFound, newOwner)
			}
			client.CommercialContactID = &newOwner
		}

		if in.FirstName != "" {
			client.FirstName = in.FirstName
		}
		if in.LastName != "" {
			client.LastName = in.LastName
		}
		applyOptString(&client.BusinessName, in.BusinessName)
		applyOptString(&client.Telephone, in.Telephone)

		client.LastUpdate = time.Now().UTC()
		if err := s.clients.Update(ctx, client); err != nil {
			return err
		}
		updated = client
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("client_id", updated.ID).Msg("client updated")
	return updated, nil
}

// List returns all clients. Any authenticated session may read.
func (s *ClientService) List(ctx context.Context, sess *domain.Session) ([]*domain.Client, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	return s.clients.List(ctx)
}

// applyOptString resolves a tri-state string field against its stored
// value: absent leaves it, null clears it, a value replaces it.
func applyOptString(dst **string, opt ports.Opt[string]) {
	if !opt.Present() {
		return
	}
	if opt.IsNull() {
		*dst = nil
		return
	}
	v, _ := opt.Value()
	*dst = &v
}
