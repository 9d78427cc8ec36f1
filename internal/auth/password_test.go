package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// cheap parameters keep the suite fast
func testHashers(t *testing.T) map[string]PasswordHasher {
	t.Helper()
	b, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	return map[string]PasswordHasher{
		"bcrypt":   b,
		"argon2id": &Argon2Hasher{time: 1, memory: 8 * 1024, threads: 1, keyLen: 32},
	}
}

func TestPasswordHashers(t *testing.T) {
	for name, h := range testHashers(t) {
		t.Run(name, func(t *testing.T) {
			first, err := h.Hash("hunter22")
			require.NoError(t, err)
			second, err := h.Hash("hunter22")
			require.NoError(t, err)

			assert.NotEqual(t, "hunter22", first)
			assert.NotEqual(t, first, second, "salt must differ per hash")

			assert.True(t, h.Verify("hunter22", first))
			assert.True(t, h.Verify("hunter22", second))
			assert.False(t, h.Verify("hunter23", first))
			assert.False(t, h.Verify("", first))
		})
	}
}

func TestPasswordHashers_MalformedDigest(t *testing.T) {
	for name, h := range testHashers(t) {
		t.Run(name, func(t *testing.T) {
			for _, digest := range []string{"", "plain", "$argon2id$v=19$m=1,t=1,p=1$%%%$%%%", "$2a$04$short"} {
				assert.False(t, h.Verify("hunter22", digest), "digest %q", digest)
			}
		})
	}
}

func TestArgon2Hasher_Format(t *testing.T) {
	h := NewArgon2Hasher(2)
	h.memory = 8 * 1024

	digest, err := h.Hash("hunter22")
	require.NoError(t, err)

	parts := strings.Split(digest, "$")
	require.Len(t, parts, 6)
	assert.Equal(t, "argon2id", parts[1])
	assert.Equal(t, "v=19", parts[2])
	assert.Equal(t, "m=8192,t=2,p=4", parts[3])

	// Parameters are read back from the digest, not from the hasher
	assert.True(t, NewArgon2Hasher(5).Verify("hunter22", digest))
}

func TestNewBcryptHasher_CostBounds(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MinCost - 1)
	assert.Error(t, err)
	_, err = NewBcryptHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
}

func TestBcryptHasher_UsesConfiguredCost(t *testing.T) {
	h, err := NewBcryptHasher(5)
	require.NoError(t, err)

	digest, err := h.Hash("hunter22")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)
}

func TestArgon2Hasher_RejectsUnsafeParameters(t *testing.T) {
	h := &Argon2Hasher{time: 1, memory: 8 * 1024, threads: 1, keyLen: 32}
	digest, err := h.Hash("hunter22")
	require.NoError(t, err)

	parts := strings.Split(digest, "$")
	for _, params := range []string{"m=8192,t=1,p=0", "m=8192,t=0,p=1", "m=4,t=1,p=1", "m=4194304,t=1,p=1"} {
		t.Run(params, func(t *testing.T) {
			tampered := append([]string(nil), parts...)
			tampered[3] = params

			assert.NotPanics(t, func() {
				assert.False(t, h.Verify("hunter22", strings.Join(tampered, "$")))
			})
		})
	}
}

func TestMultiHasher_VerifiesEitherFormat(t *testing.T) {
	b, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	a := &Argon2Hasher{time: 1, memory: 8 * 1024, threads: 1, keyLen: 32}

	bcryptFirst := NewMultiHasher(b)
	argonFirst := NewMultiHasher(a)

	bcryptDigest, err := bcryptFirst.Hash("hunter22")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(bcryptDigest, "$2"))

	argonDigest, err := argonFirst.Hash("hunter22")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(argonDigest, "$argon2id$"))

	for _, h := range []*MultiHasher{bcryptFirst, argonFirst} {
		assert.True(t, h.Verify("hunter22", bcryptDigest))
		assert.True(t, h.Verify("hunter22", argonDigest))
		assert.False(t, h.Verify("hunter23", bcryptDigest))
		assert.False(t, h.Verify("hunter23", argonDigest))
		assert.False(t, h.Verify("hunter22", "plain"))
	}
}
