package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/epic-events/crm-system/internal/core/domain"
	"github.com/epic-events/crm-system/internal/core/ports"
)

// UserService implements the user use cases: management-only create,
// update and delete, plus listing for any authenticated session. Deletion
// cascades by nullification: the user's clients, contracts and events are
// dissociated inside the same transaction that removes the row.
type UserService struct {
	users     ports.UserRepository
	clients   ports.ClientRepository
	contracts ports.ContractRepository
	events    ports.EventRepository
	hasher    ports.PasswordHasher
	uow       ports.UnitOfWork
	log       zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	clients ports.ClientRepository,
	contracts ports.ContractRepository,
	events ports.EventRepository,
	hasher ports.PasswordHasher,
	uow ports.UnitOfWork,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		clients:   clients,
		contracts: contracts,
		events:    events,
		hasher:    hasher,
		uow:       uow,
		log:       log,
	}
}

// Create validates and persists a new user. Management only.
// Check order: username unique, email unique, role valid, required fields
// non-empty.
func (s *UserService) Create(ctx context.Context, sess *domain.Session, in ports.CreateUserInput) (*domain.User, error) {
	if err := requireRole(sess, domain.RoleManagement); err != nil {
		return nil, err
	}

	var created *domain.User
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.validateCreate(ctx, in); err != nil {
			return err
		}

		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return err
		}

		created, err = s.users.Create(ctx, &domain.User{
			Username:     in.Username,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Email:        in.Email,
			Role:         domain.Role(in.Role),
			PasswordHash: hash,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user created")
	return created, nil
}

// CreateBootstrap creates the first management user without a session.
// Intended for operator bootstrap only; the role is forced to management.
func (s *UserService) CreateBootstrap(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	in.Role = string(domain.RoleManagement)

	var created *domain.User
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.validateCreate(ctx, in); err != nil {
			return err
		}
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return err
		}
		created, err = s.users.Create(ctx, &domain.User{
			Username:     in.Username,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Email:        in.Email,
			Role:         domain.RoleManagement,
			PasswordHash: hash,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", created.ID).Msg("bootstrap user created")
	return created, nil
}

func (s *UserService) validateCreate(ctx context.Context, in ports.CreateUserInput) error {
	taken, err := s.users.ExistsByUsername(ctx, in.Username, 0)
	if err != nil {
		return err
	}
	if taken {
		return domain.FieldError(domain.KindUsernameTaken, "username")
	}

	taken, err = s.users.ExistsByEmail(ctx, in.Email, 0)
	if err != nil {
		return err
	}
	if taken {
		return domain.FieldError(domain.KindEmailTaken, "email")
	}

	if in.Role != "" && invalidRole(in.Role) {
		return domain.FieldError(domain.KindInvalidRole, "role")
	}

	if anyEmpty(in.Username, in.FirstName, in.LastName, in.Email, in.Role, in.Password) {
		return domain.NewError(domain.KindRequiredFieldsEmpty)
	}
	return nil
}

// Update applies a partial update to a user. Management only. Empty fields
// mean "no change"; username and email uniqueness exclude the user itself.
// Check order: username unique, email unique, role valid.
func (s *UserService) Update(ctx context.Context, sess *domain.Session, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	if err := requireRole(sess, domain.RoleManagement); err != nil {
		return nil, err
	}

	var updated *domain.User
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.users.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if in.Username != "" && in.Username != user.Username {
			taken, err := s.users.ExistsByUsername(ctx, in.Username, user.ID)
			if err != nil {
				return err
			}
			if taken {
				return domain.FieldError(domain.KindUsernameTaken, "username")
			}
			user.Username = in.Username
		}
		if in.Email != "" && in.Email != user.Email {
			taken, err := s.users.ExistsByEmail(ctx, in.Email, user.ID)
			if err != nil {
				return err
			}
			if taken {
				return domain.FieldError(domain.KindEmailTaken, "email")
			}
			user.Email = in.Email
		}
		if in.Role != "" {
			if invalidRole(in.Role) {
				return domain.FieldError(domain.KindInvalidRole, "role")
			}
			user.Role = domain.Role(in.Role)
		}
		if in.FirstName != "" {
			user.FirstName = in.FirstName
		}
		if in.LastName != "" {
			user.LastName = in.LastName
		}

		if err := s.users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", updated.ID).Msg("user updated")
	return updated, nil
}

// Delete removes a user after dissociating every dependent record:
// commercial_contact_id is nulled on the user's clients and contracts and
// support_contact_id on the user's events. The whole sequence is one
// transaction; any failure rolls everything back and surfaces
// DELETE_FAILED.
func (s *UserService) Delete(ctx context.Context, sess *domain.Session, id int64) error {
	if err := requireRole(sess, domain.RoleManagement); err != nil {
		return err
	}

	var nClients, nContracts, nEvents int64
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByID(ctx, id); err != nil {
			return err
		}

		var err error
		if nClients, err = s.clients.ClearCommercialContact(ctx, id); err != nil {
			return err
		}
		if nContracts, err = s.contracts.ClearCommercialContact(ctx, id); err != nil {
			return err
		}
		if nEvents, err = s.events.ClearSupportContact(ctx, id); err != nil {
			return err
		}
		return s.users.Delete(ctx, id)
	})
	if err != nil {
		if domain.IsKind(err, domain.KindContactNotFound) || domain.IsKind(err, domain.KindAccessDenied) {
			return err
		}
		s.log.Error().Err(err).Int64("user_id", id).Msg("user deletion rolled back")
		return domain.IDError(domain.KindDeleteFailed, id)
	}

	s.log.Info().
		Int64("user_id", id).
		Int64("clients_dissociated", nClients).
		Int64("contracts_dissociated", nContracts).
		Int64("events_dissociated", nEvents).
		Msg("user deleted")
	return nil
}

// List returns all users. Any authenticated session may read.
func (s *UserService) List(ctx context.Context, sess *domain.Session) ([]*domain.User, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}
