// Package identity resolves the calling principal from a bearer credential.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dgrijalva/jwt-go"

	"fixiBack/internal/models"
)

// Claims is the access token payload.
type Claims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("identity: empty signing secret")
	}
	return &Authenticator{secret: []byte(secret)}, nil
}

// Authenticate verifies the credential and returns the principal it names.
// PerfilID is left unset; callers resolve it against the user store.
func (a *Authenticator) Authenticate(credential string) (models.Principal, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return models.Principal{}, models.Unauthorized("missing credential")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return models.Principal{}, models.Unauthorized("invalid or expired token")
	}
	if claims.UserID <= 0 {
		return models.Principal{}, models.Unauthorized("token has no subject")
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return models.Principal{}, models.Unauthorized("token carries an unknown role")
	}
	return models.Principal{ID: claims.UserID, Role: role}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(models.Principal)
	return p, ok
}
