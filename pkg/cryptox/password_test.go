package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "stash-test-pepper")
	SetPepperPath(pepperPath)

	os.Remove(pepperPath)

	code := m.Run()
	os.Remove(pepperPath)
	os.Exit(code)
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "secret123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"),
				"hash should be in PHC format")
			require.NotContains(t, hash, tt.password,
				"hash must never contain the plaintext")
		})
	}
}

func TestHashPasswordUsesRandomSalt(t *testing.T) {
	a, err := HashPassword("same input")
	require.NoError(t, err)
	b, err := HashPassword("same input")
	require.NoError(t, err)
	require.NotEqual(t, a, b, "two hashes of the same input must differ")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	t.Run("accepts the right password", func(t *testing.T) {
		require.NoError(t, VerifyPassword("correct horse", hash))
	})

	t.Run("rejects the wrong password", func(t *testing.T) {
		require.ErrorIs(t, VerifyPassword("battery staple", hash), ErrMismatch)
	})

	t.Run("malformed hashes look like a mismatch", func(t *testing.T) {
		for _, bad := range []string{
			"",
			"plain-text",
			"$argon2id$v=19$m=19456,t=2,p=1$only-four-parts",
			"$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
			"$argon2id$v=19$m=19456,t=2,p=1$!badsalt!$aGFzaA",
		} {
			require.ErrorIs(t, VerifyPassword("anything", bad), ErrMismatch)
		}
	})
}
