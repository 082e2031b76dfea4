package jwtx

import (
	"testing"
	"time"

	"github.com/oakmount/stash/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T, kid string) *EdDSASigner {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	require.NoError(t, signer.Validate())
	return signer
}

func TestSignVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")
	keys := NewKeySet()
	keys.AddSigner(signer)
	verifier := NewVerifierEdDSA(keys, "stash-test")

	claims := NewAccessClaims("user-123", time.Hour, "stash-test", "Ann", "ann@x.com", time.Now())
	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", got.Subject)
	require.Equal(t, "Ann", got.Name)
	require.Equal(t, "ann@x.com", got.Email)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")
	keys := NewKeySet()
	keys.AddSigner(signer)
	verifier := NewVerifierEdDSA(keys, "")

	claims := NewAccessClaims("user-123", time.Minute, "", "", "", time.Now().Add(-time.Hour))
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	// Expiry is final: repeated verification never succeeds again.
	for range 3 {
		_, err = verifier.Verify(token)
		require.ErrorIs(t, err, ErrExpired)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")
	keys := NewKeySet()
	keys.AddSigner(signer)
	verifier := NewVerifierEdDSA(keys, "")

	token, err := signer.Sign(NewAccessClaims("user-123", time.Hour, "", "", "", time.Now()))
	require.NoError(t, err)

	// Flip a character in the payload segment.
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}

	_, err = verifier.Verify(string(tampered))
	require.Error(t, err)
}

func TestVerifyRejectsUnknownKID(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "rogue")
	keys := NewKeySet()
	keys.AddSigner(newTestSigner(t, "trusted"))
	verifier := NewVerifierEdDSA(keys, "")

	token, err := signer.Sign(NewAccessClaims("user-123", time.Hour, "", "", "", time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrUnknownKID)
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "key-1")
	keys := NewKeySet()
	keys.AddSigner(signer)
	verifier := NewVerifierEdDSA(keys, "expected-issuer")

	token, err := signer.Sign(NewAccessClaims("user-123", time.Hour, "other-issuer", "", "", time.Now()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	keys := NewKeySet()
	keys.AddSigner(newTestSigner(t, "key-1"))
	verifier := NewVerifierEdDSA(keys, "")

	for _, raw := range []string{"", "not.a.jwt", "aaaa"} {
		_, err := verifier.Verify(raw)
		require.Error(t, err)
	}
}

func TestKeySetReadiness(t *testing.T) {
	t.Parallel()

	keys := NewKeySet()
	require.False(t, keys.IsReady())

	keys.AddSigner(newTestSigner(t, "key-1"))
	require.True(t, keys.IsReady())

	_, err := keys.Get("missing")
	require.ErrorIs(t, err, ErrNoKey)
}
