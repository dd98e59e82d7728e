// Package httpauth issues short-lived JWTs that carry a delegation tag,
// letting a delegatee authenticate to a relay's HTTP API for as long as its
// grant allows.
//
// The JWT is transport glue, not part of the delegation scheme itself: the
// embedded tag still has to be validated against each event the bearer
// tries to publish.
package httpauth

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/relaykit/delegation"
)

// ErrInvalidToken is returned when a token fails signature, expiry, or
// claim checks.
var ErrInvalidToken = errors.New("httpauth: invalid token")

// DefaultTTL is the token lifetime used when none is configured.
const DefaultTTL = 5 * time.Minute

// Claims are the JWT claims of a delegation-bound API token. The delegation
// tag travels as its canonical 4-element array; the subject is the
// delegatee's public key in hex.
type Claims struct {
	Delegation []string `json:"delegation"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies delegation-bound API tokens with an Ed25519 key.
type Issuer struct {
	secret ed25519.PrivateKey
	public ed25519.PublicKey
	name   string
	ttl    time.Duration
}

// NewIssuer creates an issuer. A non-positive ttl falls back to DefaultTTL.
func NewIssuer(secret ed25519.PrivateKey, name string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{
		secret: secret,
		public: secret.Public().(ed25519.PublicKey),
		name:   name,
		ttl:    ttl,
	}
}

// Issue mints a token for the delegatee named by the grant.
func (i *Issuer) Issue(tag *delegation.Tag, delegateePub *btcec.PublicKey) (string, error) {
	now := time.Now()
	claims := &Claims{
		Delegation: tag.Fields(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.name,
			Subject:   delegation.PublicKeyHex(delegateePub),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        "dlg_" + uuid.New().String()[:12],
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("httpauth: sign token: %w", err)
	}
	return token, nil
}

// Verify checks the token's signature and expiry and returns its claims
// together with the embedded delegation tag. The tag itself comes back
// unverified; callers still run Validate against the event being published.
func (i *Issuer) Verify(token string) (*Claims, *delegation.Tag, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return i.public, nil
	}, jwt.WithValidMethods([]string{"EdDSA"}))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, nil, ErrInvalidToken
	}
	tag, err := delegation.TagFromFields(claims.Delegation)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, tag, nil
}
