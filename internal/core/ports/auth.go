package ports

import (
	"context"

	"github.com/epic-events/crm-system/internal/core/domain"
)

// PasswordHasher is the credential collaborator: a one-way hash and its
// verification counterpart. Salting and algorithm strength are its concern.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// LoginThrottle limits failed login attempts per username within a time
// window. Implementations may be absent; callers treat a nil throttle as
// disabled.
type LoginThrottle interface {
	TooManyFailures(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// SessionStore persists a signed session token between process runs.
type SessionStore interface {
	Save(token string) error
	Load() (token string, ok bool, err error)
	Clear() error
}

// AuthService authenticates operators and manages session continuity.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	Logout(sess *domain.Session)
	Resume(ctx context.Context) (*domain.Session, bool)
}
