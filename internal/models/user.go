package models

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleCliente   Role = "Cliente"
	RoleProveedor Role = "Proveedor"
	RoleAdmin     Role = "Admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCliente, RoleProveedor, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is the relational identity record. PerfilID points into the document
// store and is not covered by any foreign key.
type User struct {
	ID        int       `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"tipo_usuario"`
	PerfilID  *string   `json:"perfil_id,omitempty"`
	CreatedAt time.Time `json:"fechacreate"`
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"tipo_usuario"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      int    `json:"user_id"`
	Email       string `json:"email"`
	Role        Role   `json:"tipo_usuario"`
}

// Principal is the authenticated caller.
type Principal struct {
	ID       int
	Role     Role
	PerfilID *string
}

// OwnsPerfil reports whether id is the principal's bound perfil reference.
func (p Principal) OwnsPerfil(id string) bool {
	return p.PerfilID != nil && *p.PerfilID == id
}
