package auth

// TokenService issues and verifies bearer tokens bound to an account id.
// Implementations include PasetoService (PASETO v4.local) and JWTService (HS256).
type TokenService interface {
	CreateToken(accountID string) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// PasswordHasher turns plaintext passwords into salted digests and checks them.
// Implementations hold no mutable state and are safe for concurrent use.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches digest. A digest that cannot be
	// parsed yields ErrMalformedDigest rather than a false match.
	Verify(password, digest string) (bool, error)
}

var (
	_ TokenService = (*PasetoService)(nil)
	_ TokenService = (*JWTService)(nil)

	_ PasswordHasher = (*BcryptHasher)(nil)
	_ PasswordHasher = (*Argon2Hasher)(nil)
)
