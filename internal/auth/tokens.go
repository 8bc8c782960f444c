// Package auth issues and verifies the bearer tokens used by the API. The
// token state lives in an explicit Tokens value created at startup and passed
// down, never in a package-level global.
package auth

import (
	"log/slog"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/mkarvonen/prepdeck/internal/errors"
)

// ErrInvalidToken covers expired, malformed, and badly signed tokens.
var ErrInvalidToken = errors.NewSentinel("invalid token")

// Claims carried by a signed token.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Tokens signs and parses HS256 JWTs with a fixed secret and lifetime.
//
// The upstream system this replaces shipped a 30-second token lifetime,
// which was almost certainly meant to be 30 days or minutes. The lifetime is
// therefore a constructor parameter with a sane default chosen in main.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) Tokens {
	return Tokens{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Sign issues a token for the user. The user id goes into the subject claim.
func (t Tokens) Sign(userID, name, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token", slog.String("userID", userID))
	}
	return signed, nil
}

// Parse verifies the signature and expiry and returns the claims.
func (t Tokens) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.Wrap(errors.Join(ErrInvalidToken, err), "parse token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
