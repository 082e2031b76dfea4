package service

import (
	"time"

	"github.com/oakmount/stash/internal/stash/domain"
	"github.com/oakmount/stash/pkg/jwtx"
)

// TokenService issues bearer tokens for authenticated users. Verification
// is stateless: any instance holding the verification key can check a
// token, at the cost of not being able to revoke one early.
type TokenService struct {
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration
}

// Issue signs an access token for the user. Expiry is now + TTL.
func (s *TokenService) Issue(user domain.User) (string, time.Duration, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(user.ID, ttl, s.Issuer, user.Name, user.Email, time.Now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return "", 0, err
	}
	return token, ttl, nil
}
