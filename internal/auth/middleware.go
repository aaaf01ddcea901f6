package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/redmonkez12/account-api/internal/httputil"
	"github.com/redmonkez12/account-api/internal/logging"
)

// ErrMissingToken is returned when the Authorization header is absent or not
// of the form "Bearer <token>".
var ErrMissingToken = errors.New("missing bearer token")

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const AccountIDContextKey ContextKey = "account_id"

// Middleware guards protected routes
type Middleware struct {
	tokenService TokenService
}

func NewMiddleware(tokenService TokenService) *Middleware {
	return &Middleware{tokenService: tokenService}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrMissingToken
	}

	return parts[1], nil
}

// Authenticate returns the account id proven by the request's bearer token.
func (m *Middleware) Authenticate(r *http.Request) (string, error) {
	token, err := BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return "", err
	}

	claims, err := m.tokenService.VerifyToken(token)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	return claims.AccountID, nil
}

// RequireAuth rejects the request with 401 unless it carries a valid bearer
// token. The wrapped handler never runs for a rejected request.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, err := m.Authenticate(r)
		if err != nil {
			logger := logging.GetLoggerFromContext(r.Context())
			logger.Warn("authentication rejected", "error", err.Error())

			switch {
			case errors.Is(err, ErrMissingToken):
				httputil.RespondErrorWithCode(w, "Access denied!", httputil.CodeMissingAuth, http.StatusUnauthorized)
			case errors.Is(err, ErrExpiredToken):
				httputil.RespondErrorWithCode(w, "Token has expired!", httputil.CodeTokenExpired, http.StatusUnauthorized)
			default:
				httputil.RespondErrorWithCode(w, "Invalid token!", httputil.CodeInvalidToken, http.StatusUnauthorized)
			}
			return
		}

		logging.Annotate(r.Context(), map[string]any{"account_id": accountID})

		ctx := context.WithValue(r.Context(), AccountIDContextKey, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AccountIDFromContext extracts the authenticated account id from the request context
func AccountIDFromContext(ctx context.Context) (string, bool) {
	accountID, ok := ctx.Value(AccountIDContextKey).(string)
	return accountID, ok && accountID != ""
}

// ContextWithAccountID returns ctx carrying accountID as if RequireAuth had run.
func ContextWithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, AccountIDContextKey, accountID)
}
