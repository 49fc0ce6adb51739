// Package auth issues the tokens handed out on login.
package auth

import (
	"fmt"
	"time"

	"github.com/Jan540/account-manager/internal/common"
	"github.com/Jan540/account-manager/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the standard claims plus the numeric user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"uid"`
}

// Issuer signs HS256 tokens. Every token gets a fresh uuid jti, so two
// logins of the same user never share a token. A zero validity produces
// tokens without an expiry.
type Issuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewIssuer(secret []byte, validity time.Duration) *Issuer {
	return &Issuer{secret: secret, validity: validity, now: time.Now}
}

func (i *Issuer) Issue(u models.User) (string, error) {
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			Subject:  u.Login,
			IssuedAt: jwt.NewNumericDate(now),
		},
		UserID: u.ID,
	}
	if i.validity > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.validity))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Parse verifies the signature and expiry of a token issued by i.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// UUIDIssuer hands out random uuid strings. It is used when no signing
// secret is configured.
type UUIDIssuer struct{}

func (UUIDIssuer) Issue(models.User) (string, error) {
	return uuid.NewString(), nil
}
