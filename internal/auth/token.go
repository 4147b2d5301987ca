package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/models"
)

const issuer = "restaurant-pos"

type sessionClaims struct {
	Login       string      `json:"login"`
	Role        models.Role `json:"role"`
	DisplayName string      `json:"display_name"`
	TenantID    *int64      `json:"tenant_id,omitempty"`
	EmployeeID  *int64      `json:"employee_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for s and its expiry time.
func (t *TokenIssuer) Issue(s Session) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)

	claims := &sessionClaims{
		Login:       s.Login,
		Role:        s.Role,
		DisplayName: s.DisplayName,
		TenantID:    s.TenantID,
		EmployeeID:  s.EmployeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   s.Login,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies a token and returns the session it carries.
func (t *TokenIssuer) Parse(token string) (Session, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, fmt.Errorf("%w: token expired", apperr.ErrUnauthorized)
		}
		return Session{}, fmt.Errorf("%w: invalid token", apperr.ErrUnauthorized)
	}
	if !claims.Role.Valid() {
		return Session{}, fmt.Errorf("%w: unknown role", apperr.ErrUnauthorized)
	}

	return Session{
		Login:       claims.Login,
		Role:        claims.Role,
		DisplayName: claims.DisplayName,
		TenantID:    claims.TenantID,
		EmployeeID:  claims.EmployeeID,
	}, nil
}
