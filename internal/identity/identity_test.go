package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixiBack/internal/models"
	"fixiBack/utils"
)

const secret = "test-secret"

func TestAuthenticateRoundTripWithManager(t *testing.T) {
	m, err := utils.NewManager(secret, time.Hour)
	require.NoError(t, err)
	token, err := m.NewAccessToken(42, "Proveedor")
	require.NoError(t, err)

	a, err := NewAuthenticator(secret)
	require.NoError(t, err)
	p, err := a.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, 42, p.ID)
	assert.Equal(t, models.RoleProveedor, p.Role)
	assert.Nil(t, p.PerfilID)
}

func TestAuthenticateFailures(t *testing.T) {
	a, err := NewAuthenticator(secret)
	require.NoError(t, err)

	sign := func(c Claims, key string, method jwt.SigningMethod) string {
		tok, err := jwt.NewWithClaims(method, c).SignedString([]byte(key))
		require.NoError(t, err)
		return tok
	}
	future := time.Now().Add(time.Hour).Unix()

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"wrong secret": sign(Claims{UserID: 1, Role: "Cliente", StandardClaims: jwt.StandardClaims{ExpiresAt: future}}, "other", jwt.SigningMethodHS256),
		"expired":      sign(Claims{UserID: 1, Role: "Cliente", StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Minute).Unix()}}, secret, jwt.SigningMethodHS256),
		"unknown role": sign(Claims{UserID: 1, Role: "Root", StandardClaims: jwt.StandardClaims{ExpiresAt: future}}, secret, jwt.SigningMethodHS256),
		"no subject":   sign(Claims{Role: "Cliente", StandardClaims: jwt.StandardClaims{ExpiresAt: future}}, secret, jwt.SigningMethodHS256),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := a.Authenticate(token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrUnauthorized), "got %v", err)
		})
	}
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", tok)

	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
}

func TestPrincipalContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), models.Principal{ID: 7, Role: models.RoleCliente})
	p, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, 7, p.ID)
}
