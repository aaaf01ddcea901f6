package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fastArgon2 = Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func testHashers(t *testing.T) map[string]PasswordHasher {
	t.Helper()
	bc, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return map[string]PasswordHasher{
		"bcrypt": bc,
		"argon2": NewArgon2Hasher(fastArgon2),
	}
}

func TestPasswordHasher_RoundTrip(t *testing.T) {
	passwords := []string{"secret1", "123456", "p@ss wörd", "fifteen-chars!!"}

	for name, h := range testHashers(t) {
		t.Run(name, func(t *testing.T) {
			for _, p := range passwords {
				digest, err := h.Hash(p)
				require.NoError(t, err)
				assert.NotEqual(t, p, digest)

				ok, err := h.Verify(p, digest)
				require.NoError(t, err)
				assert.True(t, ok, "password %q should verify", p)

				ok, err = h.Verify(p+"x", digest)
				require.NoError(t, err)
				assert.False(t, ok, "password %q+x should not verify", p)
			}
		})
	}
}

func TestPasswordHasher_FreshSalt(t *testing.T) {
	for name, h := range testHashers(t) {
		t.Run(name, func(t *testing.T) {
			a, err := h.Hash("secret1")
			require.NoError(t, err)
			b, err := h.Hash("secret1")
			require.NoError(t, err)
			assert.NotEqual(t, a, b)
		})
	}
}

func TestPasswordHasher_MalformedDigest(t *testing.T) {
	digests := []string{"", "plaintext", "$argon2id$v=19$m=x$a$b", "$2a$10$short"}

	for name, h := range testHashers(t) {
		t.Run(name, func(t *testing.T) {
			for _, d := range digests {
				ok, err := h.Verify("secret1", d)
				assert.False(t, ok)
				assert.ErrorIs(t, err, ErrMalformedDigest, "digest %q", d)
			}
		})
	}
}

func TestBcryptHasher_Cost(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)

	h, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	digest, err := h.Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestArgon2Hasher_Format(t *testing.T) {
	digest, err := NewArgon2Hasher(fastArgon2).Hash("secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$argon2id$v=19$m=8192,t=1,p=1$"), digest)
}

func TestArgon2Hasher_RejectsDigestOutsideBounds(t *testing.T) {
	h := NewArgon2Hasher(fastArgon2)
	digest, err := h.Hash("secret1")
	require.NoError(t, err)
	parts := strings.Split(digest, "$")
	salt, hash := parts[4], parts[5]
	long := strings.Repeat("A", 120)

	tests := []struct {
		name   string
		params string
		salt   string
		hash   string
	}{
		{"max uint32 memory", "m=4294967295,t=1,p=1", salt, hash},
		{"memory above configured", "m=8193,t=1,p=1", salt, hash},
		{"time above configured", "m=8192,t=1000000,p=1", salt, hash},
		{"threads above configured", "m=8192,t=1,p=255", salt, hash},
		{"zero memory", "m=0,t=1,p=1", salt, hash},
		{"zero time", "m=8192,t=0,p=1", salt, hash},
		{"zero threads", "m=8192,t=1,p=0", salt, hash},
		{"empty salt", "m=8192,t=1,p=1", "", hash},
		{"oversized salt", "m=8192,t=1,p=1", long, hash},
		{"oversized key", "m=8192,t=1,p=1", salt, long},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crafted := strings.Join([]string{"", "argon2id", "v=19", tt.params, tt.salt, tt.hash}, "$")

			ok, err := h.Verify("secret1", crafted)

			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrMalformedDigest)
		})
	}
}

func TestArgon2Hasher_AcceptsCheaperDigest(t *testing.T) {
	cheap, err := NewArgon2Hasher(fastArgon2).Hash("secret1")
	require.NoError(t, err)

	ok, err := NewArgon2Hasher(DefaultArgon2Params).Verify("secret1", cheap)

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewPasswordHasher(t *testing.T) {
	h, err := NewPasswordHasher("bcrypt", DefaultBcryptCost)
	require.NoError(t, err)
	assert.IsType(t, &BcryptHasher{}, h)

	h, err = NewPasswordHasher("argon2", 0)
	require.NoError(t, err)
	assert.IsType(t, &Argon2Hasher{}, h)

	_, err = NewPasswordHasher("sha1", 0)
	assert.Error(t, err)
}
