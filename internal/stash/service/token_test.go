package service

import (
	"testing"
	"time"

	"github.com/oakmount/stash/internal/stash/domain"
	"github.com/oakmount/stash/pkg/cryptox"
	"github.com/oakmount/stash/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTokenFixture(t *testing.T, ttl time.Duration) (*TokenService, jwtx.Verifier) {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test", pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	svc := &TokenService{Signer: signer, Issuer: "stash-test", TTL: ttl}
	return svc, jwtx.NewVerifierEdDSA(keys, "stash-test")
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	svc, verifier := newTokenFixture(t, time.Hour)
	user := domain.User{ID: "user-1", Name: "Ann", Email: "ann@x.com"}

	token, ttl, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, time.Hour, ttl)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, "stash-test", claims.Issuer)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssueDefaultsTTL(t *testing.T) {
	t.Parallel()

	svc, verifier := newTokenFixture(t, 0)

	token, ttl, err := svc.Issue(domain.User{ID: "user-1"})
	require.NoError(t, err)
	require.Equal(t, jwtx.DefaultAccessTokenTTL, ttl)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.WithinDuration(t,
		time.Now().Add(jwtx.DefaultAccessTokenTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestIssuedTokensAreUnique(t *testing.T) {
	t.Parallel()

	svc, _ := newTokenFixture(t, time.Hour)
	user := domain.User{ID: "user-1"}

	a, _, err := svc.Issue(user)
	require.NoError(t, err)
	b, _, err := svc.Issue(user)
	require.NoError(t, err)
	require.NotEqual(t, a, b, "jti must differ between tokens")
}
