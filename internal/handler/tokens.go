package handler

import (
	"fmt"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/clock"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tokens signs and verifies HS256 bearer tokens naming a session id. The
// token only carries the id; the session registry stays authoritative, so a
// logged-out session is rejected even while its token is unexpired.
type Tokens struct {
	secret []byte
	clock  clock.Clock
}

// NewTokens returns a token codec signing with secret.
func NewTokens(secret []byte, clk clock.Clock) *Tokens {
	return &Tokens{secret: secret, clock: clk}
}

// Issue returns a signed token for sess.
func (t *Tokens) Issue(sess model.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid":  sess.ID.String(),
		"sub":  sess.Email,
		"role": string(sess.Role),
		"iat":  sess.IssuedAt.Unix(),
		"exp":  sess.ExpiresAt.Unix(),
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies raw and returns the session id it names.
func (t *Tokens) Parse(raw string) (uuid.UUID, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.clock.Now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse token: %w", err)
	}
	sid, _ := claims["sid"].(string)
	id, err := uuid.Parse(sid)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse token: bad session id: %w", err)
	}
	return id, nil
}
