package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtClaims embeds the registered claims next to the account id.
type jwtClaims struct {
	AccountID string `json:"account_id"`
	jwt.RegisteredClaims
}

// JWTService handles HS256 JWT creation and validation
type JWTService struct {
	secret   []byte
	duration time.Duration
}

// NewJWTService builds a service signing with secret. A zero duration issues
// tokens without an exp claim.
func NewJWTService(secret []byte, duration time.Duration) (*JWTService, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}

	return &JWTService{secret: secret, duration: duration}, nil
}

func (s *JWTService) CreateToken(accountID string) (string, error) {
	if accountID == "" {
		return "", errors.New("account id is required")
	}

	now := time.Now()
	claims := jwtClaims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  accountID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.duration != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.duration))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	if tokenStr == "" {
		return nil, ErrInvalidToken
	}

	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.AccountID == "" {
		return nil, ErrInvalidToken
	}

	out := &TokenClaims{AccountID: claims.AccountID}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}

	return out, nil
}
