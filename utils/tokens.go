package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

type Manager struct {
	signingKey string
	ttl        time.Duration
}

func NewManager(signingKey string, ttl time.Duration) (*Manager, error) {
	if signingKey == "" {
		return nil, errors.New("empty signing key")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &Manager{signingKey: signingKey, ttl: ttl}, nil
}

// NewAccessToken signs an HS256 token carrying the user id and role.
func (m *Manager) NewAccessToken(userID int, role string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(m.ttl).Unix(),
	})
	return token.SignedString([]byte(m.signingKey))
}
