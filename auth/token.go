package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is how long an admin token stays valid.
const TokenTTL = 24 * time.Hour

// Session is the caller identity extracted from a verified token. It is
// passed explicitly to whatever needs an authorization check.
type Session struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

var ErrNotAdmin = errors.New("admin access required")

func (s Session) RequireAdmin() error {
	if !s.IsAdmin || s.Email == "" {
		return ErrNotAdmin
	}
	return nil
}

// IssueToken signs an HS256 admin token for email.
func IssueToken(secret []byte, email string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"email":   email,
		"isAdmin": true,
		"iat":     now.Unix(),
		"exp":     now.Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// SessionFromClaims reads the admin identity out of verified claims.
func SessionFromClaims(claims jwt.MapClaims) (Session, error) {
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return Session{}, fmt.Errorf("no email found in claims")
	}
	isAdmin, _ := claims["isAdmin"].(bool)
	return Session{Email: email, IsAdmin: isAdmin}, nil
}

// ParseToken verifies signature and expiry and returns the session.
func ParseToken(secret []byte, raw string) (Session, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("auth: parse token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Session{}, fmt.Errorf("auth: invalid token claims")
	}
	return SessionFromClaims(claims)
}
