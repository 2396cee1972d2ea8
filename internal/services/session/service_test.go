package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/fundtrack/internal/clients/fundapi"
	"github.com/bobmcallan/fundtrack/internal/common"
	"github.com/bobmcallan/fundtrack/internal/models"
	"github.com/bobmcallan/fundtrack/internal/storage/tokenstore"
)

// fakeAuthServer simulates the /auth endpoints. Accounts registered through
// it become valid login credentials.
type fakeAuthServer struct {
	*httptest.Server

	accounts map[string]string // email -> password
	users    map[string]*models.User
	rejectMe bool
	loginHit int
}

func newFakeAuthServer(t *testing.T) *fakeAuthServer {
	t.Helper()
	f := &fakeAuthServer{
		accounts: map[string]string{},
		users:    map[string]*models.User{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.accounts[req.Email] = req.Password
		f.users[req.Email] = &models.User{ID: int64(len(f.users) + 1), Email: req.Email, Username: req.Username, IsActive: true}
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.loginHit++
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if pw, ok := f.accounts[req.Email]; !ok || pw != req.Password {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
			return
		}
		json.NewEncoder(w).Encode(&models.TokenPair{
			AccessToken:  "access-" + req.Email,
			RefreshToken: "refresh-" + req.Email,
			TokenType:    "bearer",
		})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if f.rejectMe || len(auth) < len("Bearer access-") {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
			return
		}
		email := auth[len("Bearer access-"):]
		user, ok := f.users[email]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
			return
		}
		json.NewEncoder(w).Encode(user)
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

func newTestSession(t *testing.T, srv *fakeAuthServer) (*Service, *tokenstore.Memory) {
	t.Helper()
	store := tokenstore.NewMemory()
	svc := newSessionWithStore(srv, store)
	return svc, store
}

func newSessionWithStore(srv *fakeAuthServer, store *tokenstore.Memory) *Service {
	svc := &holder{}
	api := fundapi.NewClient(fundapi.WithBaseURL(srv.URL), fundapi.WithTokenSource(svc))
	s := NewService(api, store, common.NewSilentLogger())
	svc.s = s
	return s
}

// holder defers the token source to the service under construction, mirroring
// how the app wires the session as the client's token source.
type holder struct{ s *Service }

func (h *holder) AccessToken() string {
	if h.s == nil {
		return ""
	}
	return h.s.AccessToken()
}

func TestLogin_RoundTrip(t *testing.T) {
	srv := newFakeAuthServer(t)
	srv.accounts["a@b.com"] = "Abcdef12"
	srv.users["a@b.com"] = &models.User{ID: 1, Email: "a@b.com", Username: "abc", IsActive: true}

	s, store := newTestSession(t, srv)
	require.False(t, s.IsAuthenticated())

	require.NoError(t, s.Login(context.Background(), "a@b.com", "Abcdef12"))

	assert.True(t, s.IsAuthenticated())
	require.NotNil(t, s.User())
	assert.Equal(t, "a@b.com", s.User().Email)

	access, refresh, err := store.Tokens()
	require.NoError(t, err)
	assert.Equal(t, "access-a@b.com", access)
	assert.Equal(t, "refresh-a@b.com", refresh)
	assert.Equal(t, "refresh-a@b.com", s.RefreshToken())
}

func TestLogin_InvalidCredentialsLeavesStateUnchanged(t *testing.T) {
	srv := newFakeAuthServer(t)
	s, store := newTestSession(t, srv)

	err := s.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)

	var apiErr *fundapi.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Incorrect email or password", apiErr.Detail)

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Zero(t, store.SetCalls)
}

func TestLogin_EmptyCredentialsValidation(t *testing.T) {
	srv := newFakeAuthServer(t)
	s, _ := newTestSession(t, srv)

	err := s.Login(context.Background(), "", "")
	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
	// Never reached the network
	assert.Zero(t, srv.loginHit)
}

func TestLogout_Idempotent(t *testing.T) {
	srv := newFakeAuthServer(t)
	s, store := newTestSession(t, srv)

	require.NoError(t, s.Logout())
	require.NoError(t, s.Logout())

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Empty(t, s.AccessToken())
	assert.Equal(t, 2, store.ClearCalls)
}

func TestRegister_ImpliesLogin(t *testing.T) {
	srv := newFakeAuthServer(t)
	s, _ := newTestSession(t, srv)

	require.NoError(t, s.Register(context.Background(), "a@b.com", "abc", "Abcdef12"))

	assert.True(t, s.IsAuthenticated())
	require.NotNil(t, s.User())
	assert.Equal(t, "abc", s.User().Username)
	assert.Equal(t, 1, srv.loginHit)
}

func TestRegister_LoginFailureSurfaced(t *testing.T) {
	srv := newFakeAuthServer(t)
	s, _ := newTestSession(t, srv)

	// Registration succeeds but /auth/me rejects, so the implicit login fails
	srv.rejectMe = true
	err := s.Register(context.Background(), "a@b.com", "abc", "Abcdef12")
	require.Error(t, err)

	// Account exists server-side, client remains unauthenticated
	assert.Contains(t, srv.accounts, "a@b.com")
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
}

func TestFetchCurrentUser_FailureForcesLogout(t *testing.T) {
	srv := newFakeAuthServer(t)
	srv.accounts["a@b.com"] = "pw"
	srv.users["a@b.com"] = &models.User{ID: 1, Email: "a@b.com", Username: "abc"}

	s, store := newTestSession(t, srv)
	require.NoError(t, s.Login(context.Background(), "a@b.com", "pw"))
	require.True(t, s.IsAuthenticated())

	srv.rejectMe = true
	err := s.FetchCurrentUser(context.Background())
	require.Error(t, err)

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	access, refresh, _ := store.Tokens()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestNewService_RestoresFromStore(t *testing.T) {
	srv := newFakeAuthServer(t)
	store := tokenstore.NewMemory()
	require.NoError(t, store.SetTokens("stored-access", "stored-refresh"))

	s := newSessionWithStore(srv, store)

	// Authenticated without any validation round trip
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "stored-access", s.AccessToken())
	assert.Nil(t, s.User())
}

func TestTokenExpiry(t *testing.T) {
	srv := newFakeAuthServer(t)
	s, store := newTestSession(t, srv)

	// Opaque token: zero expiry
	require.NoError(t, store.SetTokens("not-a-jwt", ""))
	s2 := newSessionWithStore(srv, store)
	assert.True(t, s2.TokenExpiry().IsZero())

	// Signed JWT: exp claim surfaces
	exp := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	require.NoError(t, store.SetTokens(signed, ""))

	s3 := newSessionWithStore(srv, store)
	assert.True(t, s3.TokenExpiry().Equal(exp))

	assert.True(t, s.TokenExpiry().IsZero())
}
