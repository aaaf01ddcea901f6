package account

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/account-api/internal/auth"
)

func newTestRouter(t *testing.T) (http.Handler, testDeps) {
	t.Helper()

	svc, deps := newTestService(t, nil)
	h := NewHandler(svc)
	guard := auth.NewMiddleware(deps.tokens)

	r := chi.NewRouter()
	r.Post("/auth/register", h.Register)
	r.Post("/auth/user", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(guard.RequireAuth)
		r.Get("/user/{id}", h.GetProfile)
		r.Patch("/auth/update", h.UpdateProfile)
		r.Delete("/auth/delete", h.DeleteAccount)
	})

	return r, deps
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func login(t *testing.T, h http.Handler, email, password string) LoginResponse {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/auth/user", `{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[LoginResponse](t, rec)
}

const anaRegistration = `{"name":"Ana","email":"ana@x.com","password":"secret1","confirmPassword":"secret1"}`

func TestHandler_RegisterLoginProfile(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/auth/register", anaRegistration, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	registered := decode[RegisterResponse](t, rec)
	assert.Equal(t, "User successful created", registered.Message)
	assert.NotContains(t, rec.Body.String(), "password")

	tok := login(t, h, "ana@x.com", "secret1")
	assert.Equal(t, registered.User.ID, tok.ID)
	assert.NotEmpty(t, tok.Token)

	rec = do(t, h, http.MethodGet, "/user/"+tok.ID, "", tok.Token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[ProfileResponse](t, rec)
	assert.Equal(t, tok.ID, got.User.ID)
	assert.Equal(t, "Ana", got.User.Name)
	assert.Equal(t, "ana@x.com", got.User.Email)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "$2a$")
}

func TestHandler_Register_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"malformed body", `{"name":`, http.StatusBadRequest, "Invalid request body"},
		{"missing name", `{"email":"b@x.com","password":"secret1","confirmPassword":"secret1"}`, http.StatusUnprocessableEntity, "Name is required"},
		{"passwords differ", `{"name":"Bob","email":"b@x.com","password":"secret1","confirmPassword":"secret2"}`, http.StatusUnprocessableEntity, "Passwords must be the same"},
		{"duplicate email", anaRegistration, http.StatusUnprocessableEntity, "This email is already in use"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestRouter(t)
			require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/auth/register", anaRegistration, "").Code)

			rec := do(t, h, http.MethodPost, "/auth/register", tt.body, "")

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decode[map[string]string](t, rec)["message"])
		})
	}
}

func TestHandler_Login_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed body", `not json`, http.StatusBadRequest, "invalid_request_body"},
		{"invalid email", `{"email":"ana","password":"secret1"}`, http.StatusBadRequest, "validation_failed"},
		{"unknown email", `{"email":"bob@x.com","password":"secret1"}`, http.StatusNotFound, "account_not_found"},
		{"wrong password", `{"email":"ana@x.com","password":"secret2"}`, http.StatusUnauthorized, "invalid_credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestRouter(t)
			require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/auth/register", anaRegistration, "").Code)

			rec := do(t, h, http.MethodPost, "/auth/user", tt.body, "")

			assert.Equal(t, tt.status, rec.Code)
			body := decode[map[string]string](t, rec)
			assert.Equal(t, tt.code, body["code"])
			assert.NotContains(t, body, "token")
		})
	}
}

func TestHandler_GuardShortCircuits(t *testing.T) {
	h, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/auth/register", anaRegistration, "").Code)
	tok := login(t, h, "ana@x.com", "secret1")

	for _, token := range []string{"", "garbage"} {
		rec := do(t, h, http.MethodDelete, "/auth/delete", `{"password":"secret1"}`, token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	// The account survived the rejected deletes.
	rec := do(t, h, http.MethodGet, "/user/"+tok.ID, "", tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_GetProfile_Errors(t *testing.T) {
	h, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/auth/register", anaRegistration, "").Code)
	tok := login(t, h, "ana@x.com", "secret1")

	rec := do(t, h, http.MethodGet, "/user/123", "", tok.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid ID format", decode[map[string]string](t, rec)["message"])

	rec = do(t, h, http.MethodGet, "/user/9b2c1a8e-4d7f-4f5e-9a3b-2c1d0e9f8a7b", "", tok.Token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UpdateProfile(t *testing.T) {
	h, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/auth/register", anaRegistration, "").Code)
	tok := login(t, h, "ana@x.com", "secret1")

	rec := do(t, h, http.MethodPatch, "/auth/update", `{"currentPassword":"secret1","newName":"Bia"}`, tok.Token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Name updated successfully", decode[map[string]string](t, rec)["message"])

	rec = do(t, h, http.MethodPatch, "/auth/update", `{"currentPassword":"secret1","newName":"Bia"}`, tok.Token)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodPatch, "/auth/update", `{"currentPassword":"secret1","newPassword":"secret9","confirmNewPassword":"secret8"}`, tok.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPatch, "/auth/update", `{"currentPassword":"nope123","newName":"Cid"}`, tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPatch, "/auth/update", `{"id":"9b2c1a8e-4d7f-4f5e-9a3b-2c1d0e9f8a7b","currentPassword":"secret1","newName":"Cid"}`, tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "account_mismatch", decode[map[string]string](t, rec)["code"])

	rec = do(t, h, http.MethodGet, "/user/"+tok.ID, "", tok.Token)
	assert.Equal(t, "Bia", decode[ProfileResponse](t, rec).User.Name)
}

func TestHandler_DeleteAccount(t *testing.T) {
	h, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/auth/register", anaRegistration, "").Code)
	tok := login(t, h, "ana@x.com", "secret1")

	rec := do(t, h, http.MethodDelete, "/auth/delete", `{}`, tok.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodDelete, "/auth/delete", `{"password":"secret2"}`, tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodDelete, "/auth/delete", `{"password":"secret1"}`, tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User account deleted successfully.", decode[map[string]string](t, rec)["message"])

	// The token still verifies but the account is gone.
	rec = do(t, h, http.MethodGet, "/user/"+tok.ID, "", tok.Token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/auth/user", `{"email":"ana@x.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
