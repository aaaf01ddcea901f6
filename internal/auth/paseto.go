package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrMissingSecret = errors.New("token signing secret is not configured")
)

const accountIDClaim = "account_id"

// TokenClaims represents the claims carried by a bearer token
type TokenClaims struct {
	AccountID string    `json:"account_id"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"` // zero when the token never expires
}

// PasetoService handles PASETO token creation and validation
// Uses v4.local (symmetric encryption with XChaCha20-Poly1305)
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
	duration     time.Duration
}

// NewPasetoService builds a service from a 32-byte key. A zero duration
// issues tokens without an expiration claim.
func NewPasetoService(symmetricKey []byte, duration time.Duration) (*PasetoService, error) {
	if len(symmetricKey) == 0 {
		return nil, ErrMissingSecret
	}
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{
		symmetricKey: key,
		duration:     duration,
	}, nil
}

// CreateToken generates a new PASETO v4.local token for accountID
func (s *PasetoService) CreateToken(accountID string) (string, error) {
	if accountID == "" {
		return "", errors.New("account id is required")
	}

	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	if s.duration != 0 {
		token.SetExpiration(now.Add(s.duration))
	}
	token.SetString(accountIDClaim, accountID)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifyToken decrypts and authenticates a PASETO v4.local token and returns its claims
func (s *PasetoService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	if tokenStr == "" {
		return nil, ErrInvalidToken
	}

	// Expiry is optional in our tokens, so it is checked below instead of by the parser.
	parser := paseto.NewParserWithoutExpiryCheck()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	accountID, err := token.GetString(accountIDClaim)
	if err != nil || accountID == "" {
		return nil, ErrInvalidToken
	}

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims := &TokenClaims{
		AccountID: accountID,
		IssuedAt:  issuedAt,
	}

	if expiresAt, err := token.GetExpiration(); err == nil {
		if time.Now().After(expiresAt) {
			return nil, ErrExpiredToken
		}
		claims.ExpiresAt = expiresAt
	}

	return claims, nil
}
