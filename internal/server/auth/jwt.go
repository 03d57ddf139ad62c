// Package auth mints and verifies session tokens, builds the session cookie
// and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingSecret is returned by NewIssuer when no signing key is configured.
var ErrMissingSecret = errors.New("session signing key is not configured")

// Claims is the JWT payload: the identity snapshot plus registered claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID string      `json:"id"`
	Role   models.Role `json:"role"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
}

// Issuer signs and verifies HS256 session tokens. The same TTL drives the
// token expiry and the cookie Max-Age.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session duration must be positive, got %s", ttl)
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL is the lifetime of issued sessions.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue returns a signed token for id that expires after TTL.
func (i *Issuer) Issue(id models.Identity) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		UserID: id.ID,
		Role:   id.Role,
		Name:   id.Name,
		Email:  id.Email,
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify returns the identity embedded in tokenString. Every failure
// (malformed, bad signature, foreign algorithm, expired, no subject) is
// reported as common.ErrorUnauthorized.
func (i *Issuer) Verify(tokenString string) (models.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid || claims.UserID == "" {
		return models.Identity{}, common.ErrorUnauthorized
	}

	return models.Identity{
		ID:    claims.UserID,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
