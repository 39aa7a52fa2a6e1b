package session

import (
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sergiomvp10/tutti-services/internal/domain"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("upstream-secret"))
	require.NoError(t, err)
	return tok
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := signToken(t, jwt.MapClaims{"user_id": 12, "role": "admin", "exp": exp.Unix()})

	c := ParseClaims(tok)
	assert.Equal(t, int64(12), c.UserID)
	assert.Equal(t, "admin", c.Role)
	assert.True(t, exp.Equal(c.ExpiresAt))

	assert.Equal(t, Claims{}, ParseClaims("garbage"))
}

func TestSessionAuthenticate(t *testing.T) {
	r := NewRegistry(time.Hour)
	s := r.Open()
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())

	tok := signToken(t, jwt.MapClaims{"user_id": 3, "role": "buyer", "exp": time.Now().Add(time.Hour).Unix()})
	s.Authenticate(tok, domain.User{ID: 3, Email: "compras@fruver.co", Role: "admin"})

	u, ok := s.User()
	require.True(t, ok)
	assert.Equal(t, "buyer", u.Role, "token role wins over the response body")
	assert.False(t, s.IsAdmin())
	assert.Equal(t, tok, s.Token())

	s.Logout()
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
}

func TestSessionExpiredToken(t *testing.T) {
	s := NewRegistry(0).Open()
	tok := signToken(t, jwt.MapClaims{"user_id": 1, "role": "admin", "exp": time.Now().Add(-time.Minute).Unix()})
	s.Authenticate(tok, domain.User{ID: 1})
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Token())
}

func TestLogoutKeepsCart(t *testing.T) {
	s := NewRegistry(0).Open()
	require.NoError(t, s.Cart.Add(domain.Product{ID: 1, Price: 10, MinOrder: 1}, 2))
	s.Logout()
	assert.Equal(t, 1, s.Cart.Len())
}

func TestBeginCheckoutSingleFlight(t *testing.T) {
	s := NewRegistry(0).Open()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		started int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.BeginCheckout() {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, started)

	s.EndCheckout()
	assert.True(t, s.BeginCheckout())
}

func TestRegistryLifecycle(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	r := NewRegistry(30 * time.Minute)
	r.now = func() time.Time { return now }

	a := r.Open()
	b := r.Open()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, r.Len())

	got, ok := r.Get(a.ID)
	require.True(t, ok)
	assert.Same(t, a, got)

	now = now.Add(20 * time.Minute)
	_, ok = r.Get(a.ID)
	require.True(t, ok)

	now = now.Add(20 * time.Minute)
	assert.Equal(t, 1, r.Sweep(), "b idle for 40 minutes")
	_, ok = r.Get(b.ID)
	assert.False(t, ok)
	_, ok = r.Get(a.ID)
	assert.True(t, ok)

	r.Close(a.ID)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryResume(t *testing.T) {
	r := NewRegistry(time.Hour)
	s, created := r.Resume("unknown")
	assert.True(t, created)

	again, created := r.Resume(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	_, ok := r.Get("")
	assert.False(t, ok)
}

func TestRegistryGetExpired(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	r := NewRegistry(time.Minute)
	r.now = func() time.Time { return now }
	s := r.Open()

	now = now.Add(2 * time.Minute)
	_, ok := r.Get(s.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}
