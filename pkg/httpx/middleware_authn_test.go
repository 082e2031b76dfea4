package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oakmount/stash/pkg/cryptox"
	"github.com/oakmount/stash/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T) (*jwtx.EdDSASigner, jwtx.Verifier) {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test-key", pemKey)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)
	return signer, jwtx.NewVerifierEdDSA(keys, "")
}

func TestAuthnMiddlewarePassesValidToken(t *testing.T) {
	t.Parallel()

	signer, verifier := newTestVerifier(t)
	token, err := signer.Sign(jwtx.NewAccessClaims("user-42", time.Hour, "", "", "", time.Now()))
	require.NoError(t, err)

	var gotUserID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	Chain(inner, AuthnMiddleware(verifier)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-42", gotUserID)
}

func TestAuthnMiddlewareRejectsUniformly(t *testing.T) {
	t.Parallel()

	signer, verifier := newTestVerifier(t)

	expired, err := signer.Sign(jwtx.NewAccessClaims("user-42", time.Minute, "", "", "", time.Now().Add(-time.Hour)))
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			Chain(inner, AuthnMiddleware(verifier)).ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.False(t, called, "downstream handler must not run")
			// Every failure looks the same from outside.
			require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
			require.Contains(t, rec.Body.String(), "unauthorized")
		})
	}
}
