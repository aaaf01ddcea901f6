package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/account-api/internal/account"
	"github.com/redmonkez12/account-api/internal/auth"
	"github.com/redmonkez12/account-api/internal/config"
	httpServer "github.com/redmonkez12/account-api/internal/http"
	"github.com/redmonkez12/account-api/internal/logging"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := logging.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewPasetoService([]byte("0123456789abcdef0123456789abcdef"), 0)
	require.NoError(t, err)

	svc := account.NewService(account.NewMemoryStore(), nil, hasher, tokens, logger)
	cfg := &config.Config{Server: config.ServerConfig{Env: "prod"}}
	srv := httptest.NewServer(httpServer.NewRouter(cfg, account.NewHandler(svc), auth.NewMiddleware(tokens), logger))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Lifecycle(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	c := New(srv.URL + "/")

	reg, err := c.Register(ctx, account.RegisterRequest{Name: "Ana", Email: "ana@x.com", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "User successful created", reg.Message)

	login, err := c.Login(ctx, "ana@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.ID)

	authed := New(srv.URL, WithToken(login.Token))

	profile, err := authed.Profile(ctx, login.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", profile.Name)

	msg, err := authed.Update(ctx, account.UpdateRequest{CurrentPassword: "secret1", NewName: "Bia"})
	require.NoError(t, err)
	assert.Equal(t, "Name updated successfully", msg)

	msg, err = authed.Delete(ctx, account.DeleteRequest{Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "User account deleted successfully.", msg)
}

func TestClient_APIError(t *testing.T) {
	srv := newTestServer(t)

	_, err := New(srv.URL).Login(context.Background(), "ghost@x.com", "secret1")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "account_not_found", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "User not found")
}

func TestClient_GuardedCallNeedsToken(t *testing.T) {
	srv := newTestServer(t)

	_, err := New(srv.URL).Profile(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNoToken)

	_, err = New(srv.URL, WithToken("garbage")).Profile(context.Background(), "abc")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Login(context.Background(), "ana@x.com", "secret1")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
