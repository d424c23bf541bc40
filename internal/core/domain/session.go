package domain

import "time"

// SessionTTL is the fixed wall-clock lifetime of a session.
const SessionTTL = 15 * time.Minute

// Session is the identity and role credential attached to a logged-in
// operator. A session moves from authenticated to expired or logged out;
// there is no resurrection path, a new login produces a new value.
type Session struct {
	Username      string
	UserID        int64
	Role          Role
	Authenticated bool
	CreatedAt     time.Time
}

// NewSession returns an authenticated session for the given user.
func NewSession(u *User, now time.Time) *Session {
	return &Session{
		Username:      u.Username,
		UserID:        u.ID,
		Role:          u.Role,
		Authenticated: true,
		CreatedAt:     now,
	}
}

// Expired reports whether the session is older than SessionTTL at now.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.CreatedAt.Add(SessionTTL))
}

// Valid reports whether the session is authenticated and fresh. Detecting
// expiry deauthenticates the session, so a stale session stays invalid on
// every subsequent call.
func (s *Session) Valid() bool {
	if !s.Authenticated {
		return false
	}
	if s.Expired(time.Now().UTC()) {
		s.Authenticated = false
		return false
	}
	return true
}

// End deauthenticates the session unconditionally.
func (s *Session) End() {
	s.Authenticated = false
}
