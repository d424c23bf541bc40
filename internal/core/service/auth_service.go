package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/epic-events/crm-system/internal/core/domain"
	"github.com/epic-events/crm-system/internal/core/ports"
)

// AuthService implements login, logout and session continuity. A successful
// login yields a fresh 15-minute session; the session is also serialized
// into a signed token and handed to the session store so a restarted
// process can resume it while it is still fresh.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	throttle ports.LoginThrottle // nil disables throttling
	sessions ports.SessionStore  // nil disables continuity
	secret   []byte
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	throttle ports.LoginThrottle,
	sessions ports.SessionStore,
	secret string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		throttle: throttle,
		sessions: sessions,
		secret:   []byte(secret),
		log:      log,
	}
}

// Login verifies the credentials and returns a new authenticated session.
// Unknown usernames and wrong passwords are indistinguishable: both yield
// INVALID_CREDENTIALS.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if username == "" || password == "" {
		return nil, domain.NewError(domain.KindInvalidCredentials)
	}

	if s.throttle != nil {
		blocked, err := s.throttle.TooManyFailures(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle unavailable, proceeding")
		} else if blocked {
			s.log.Warn().Str("username", username).Msg("login blocked by throttle")
			return nil, domain.NewError(domain.KindInvalidCredentials)
		}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		s.recordFailure(ctx, username)
		return nil, domain.NewError(domain.KindInvalidCredentials)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordFailure(ctx, username)
		return nil, domain.NewError(domain.KindInvalidCredentials)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	sess := domain.NewSession(user, time.Now().UTC())
	s.persist(sess)

	s.log.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("login succeeded")
	return sess, nil
}

// Logout ends the session and drops any persisted token.
func (s *AuthService) Logout(sess *domain.Session) {
	if sess != nil {
		sess.End()
	}
	if s.sessions != nil {
		if err := s.sessions.Clear(); err != nil {
			s.log.Warn().Err(err).Msg("failed to clear session store")
		}
	}
	s.log.Info().Msg("logout")
}

// Resume rebuilds a session from a persisted token. The session's age is
// derived from the token's issued-at claim, so a restart never extends the
// 15-minute lifetime. The user must still exist.
func (s *AuthService) Resume(ctx context.Context) (*domain.Session, bool) {
	if s.sessions == nil {
		return nil, false
	}
	token, ok, err := s.sessions.Load()
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read session store")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	claims, err := s.parseToken(token)
	if err != nil {
		s.log.Debug().Err(err).Msg("stored session token rejected")
		s.clearStore()
		return nil, false
	}

	user, err := s.users.FindByUsername(ctx, claims.Username)
	if err != nil || user.ID != claims.UserID {
		s.clearStore()
		return nil, false
	}

	sess := domain.NewSession(user, claims.IssuedAt.Time.UTC())
	if !sess.Valid() {
		s.clearStore()
		return nil, false
	}

	s.log.Info().Str("username", sess.Username).Msg("session resumed")
	return sess, true
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if s.throttle == nil {
		return
	}
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

func (s *AuthService) persist(sess *domain.Session) {
	if s.sessions == nil {
		return
	}
	token, err := s.issueToken(sess)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to sign session token")
		return
	}
	if err := s.sessions.Save(token); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist session token")
	}
}

func (s *AuthService) clearStore() {
	if err := s.sessions.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear session store")
	}
}

type sessionClaims struct {
	Username string `json:"username"`
	UserID   int64  `json:"user_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) issueToken(sess *domain.Session) (string, error) {
	claims := sessionClaims{
		Username: sess.Username,
		UserID:   sess.UserID,
		Role:     string(sess.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.CreatedAt.Add(domain.SessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *AuthService) parseToken(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	if !parsed.Valid || claims.IssuedAt == nil {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
