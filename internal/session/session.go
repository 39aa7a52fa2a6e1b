// Package session keeps the server-side state of each storefront visitor:
// the cart and the upstream credentials. State lives in memory only and is
// gone when the process restarts.
package session

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/sergiomvp10/tutti-services/internal/cart"
	"github.com/sergiomvp10/tutti-services/internal/domain"
)

type Session struct {
	ID   string
	Cart *cart.Store

	mu       sync.RWMutex
	token    string
	user     *domain.User
	expires  time.Time
	lastSeen time.Time
	checkout bool
}

// Authenticate stores the upstream token and user. The token expiry is read
// from its claims; the signature is the upstream's business.
func (s *Session) Authenticate(token string, user domain.User) {
	claims := ParseClaims(token)
	if claims.Role != "" {
		user.Role = claims.Role
	}
	s.mu.Lock()
	s.token = token
	s.user = &user
	s.expires = claims.ExpiresAt
	s.mu.Unlock()
}

// Logout drops the credentials and keeps the cart.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token, s.user, s.expires = "", nil, time.Time{}
	s.mu.Unlock()
}

// Token returns the upstream token, or "" when anonymous or expired.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.validLocked(time.Now()) {
		return ""
	}
	return s.token
}

func (s *Session) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.validLocked(time.Now()) {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *Session) IsAuthenticated() bool {
	_, ok := s.User()
	return ok
}

func (s *Session) IsAdmin() bool {
	u, ok := s.User()
	return ok && u.IsAdmin()
}

func (s *Session) validLocked(now time.Time) bool {
	if s.user == nil || s.token == "" {
		return false
	}
	return s.expires.IsZero() || now.Before(s.expires)
}

// BeginCheckout marks a checkout in flight. It returns false when one
// already is.
func (s *Session) BeginCheckout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checkout {
		return false
	}
	s.checkout = true
	return true
}

func (s *Session) EndCheckout() {
	s.mu.Lock()
	s.checkout = false
	s.mu.Unlock()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// Claims are the fields of the upstream token this service reads.
type Claims struct {
	UserID    int64
	Role      string
	ExpiresAt time.Time
}

// ParseClaims decodes the token payload without verifying it. Malformed
// tokens yield empty claims.
func ParseClaims(token string) Claims {
	var c Claims
	mc := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, mc); err != nil {
		return c
	}
	if v, ok := mc["user_id"].(float64); ok {
		c.UserID = int64(v)
	}
	if v, ok := mc["role"].(string); ok {
		c.Role = v
	}
	if v, ok := mc["exp"].(float64); ok {
		c.ExpiresAt = time.Unix(int64(v), 0)
	}
	return c
}

func newID() string {
	return uuid.NewString()
}
