package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmoreira/login-service/pkg/auth"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed structure, wrong method or issuer, expiry in the past.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the identity attributes embedded in a signed token.
type Claims struct {
	jwt.RegisteredClaims
	Email string    `json:"email"`
	Role  auth.Role `json:"role"`
}

// Generator issues and verifies HS256 identity tokens. The secret is
// process-wide configuration loaded once at startup.
type Generator struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewGenerator(secret, issuer string, ttl time.Duration) *Generator {
	return &Generator{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Issue signs a token with the user's id, email and role plus an expiry
// computed from the configured TTL.
func (g *Generator) Issue(ctx context.Context, user auth.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
		Email: user.Email,
		Role:  user.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}

// Verify parses and validates a token string, returning its claims.
// Every failure mode collapses into ErrInvalidToken.
func (g *Generator) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if g.issuer != "" && claims.Issuer != g.issuer {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
