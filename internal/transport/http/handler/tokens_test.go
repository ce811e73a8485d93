package handler

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/moim/ledger-notify/internal/application/token"
	"github.com/moim/ledger-notify/internal/config"
	"github.com/moim/ledger-notify/internal/domain"
	jwtinfra "github.com/moim/ledger-notify/internal/infrastructure/jwt"
	"github.com/moim/ledger-notify/internal/transport/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockTokenRepo struct{ mock.Mock }

func (m *mockTokenRepo) Put(ctx context.Context, t *domain.PushToken) error {
	return m.Called(ctx, t).Error(0)
}

// --- helpers ---

// newTestJWTProvider generates a fresh RSA key pair and returns a *jwtinfra.Provider.
func newTestJWTProvider(t *testing.T) *jwtinfra.Provider {
	t.Helper()
	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	dir := t.TempDir()
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")

	privPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(privKey)})
	require.NoError(t, os.WriteFile(privPath, privPEM, 0600))

	pubBytes, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubBytes})
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0600))

	p, err := jwtinfra.NewProvider(&config.Config{
		JWTPrivateKeyPath: privPath,
		JWTPublicKeyPath:  pubPath,
		JWTExpiryDays:     1,
	})
	require.NoError(t, err)
	return p
}

// newTokenRouter wires the register route through the auth middleware, the
// way the real router does.
func newTokenRouter(p *jwtinfra.Provider, repo *mockTokenRepo) http.Handler {
	h := NewTokenHandler(token.NewService(repo))
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(p))
		r.Post("/v1/push-tokens", h.Register)
	})
	return r
}

func registerBody(t *testing.T, tok string) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(domain.RegisterPushTokenRequest{Token: tok})
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// --- tests ---

func TestRegisterPushToken_Unauthenticated(t *testing.T) {
	p := newTestJWTProvider(t)
	repo := &mockTokenRepo{}
	router := newTokenRouter(p, repo)

	req := httptest.NewRequest(http.MethodPost, "/v1/push-tokens", registerBody(t, "tokA"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRegisterPushToken_UpsertsCallerToken(t *testing.T) {
	p := newTestJWTProvider(t)
	repo := &mockTokenRepo{}
	repo.On("Put", mock.Anything, mock.MatchedBy(func(pt *domain.PushToken) bool {
		return pt.UserID == "u1" && pt.Token == "tokA"
	})).Return(nil)
	router := newTokenRouter(p, repo)

	bearer, err := p.Sign("u1", "user")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/push-tokens", registerBody(t, "tokA"))
	req.Header.Set("Authorization", "Bearer "+bearer)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.PushToken
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "tokA", got.Token)
	repo.AssertExpectations(t)
}

func TestRegisterPushToken_MissingToken(t *testing.T) {
	p := newTestJWTProvider(t)
	repo := &mockTokenRepo{}
	router := newTokenRouter(p, repo)

	bearer, err := p.Sign("u1", "user")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/push-tokens", registerBody(t, ""))
	req.Header.Set("Authorization", "Bearer "+bearer)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}
