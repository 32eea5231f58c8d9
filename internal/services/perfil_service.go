package services

import (
	"context"
	"errors"
	"strconv"

	"fixiBack/internal/models"
)

// PerfilService links relational users to perfil documents. The two stores
// share no transaction; CreateAndAssign compensates by hand.
type PerfilService struct {
	Perfiles    PerfilStore
	Users       UserStore
	Idempotency IdempotencyStore
	Log         Logger
}

func perfilError(op, id string, err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidID):
		return models.InvalidInput("malformed perfil id %q", id)
	case errors.Is(err, models.ErrNoRecord):
		return models.NotFound("perfil %s not found", id)
	}
	return storeError(op, err)
}

func assignError(userID int, err error) error {
	switch {
	case errors.Is(err, models.ErrPerfilAssigned):
		return models.Conflict("user %d already has a perfil", userID)
	case errors.Is(err, models.ErrNoRecord):
		return models.NotFound("user %d not found", userID)
	}
	return storeError("assign perfil", err)
}

func selfOrAdmin(p models.Principal, userID int) bool {
	return p.ID == userID || p.Role == models.RoleAdmin
}

// Create stores a perfil document that no user references yet.
func (s *PerfilService) Create(ctx context.Context, perfil models.Perfil) (models.Perfil, error) {
	id, err := s.Perfiles.CreatePerfil(ctx, perfil)
	if err != nil {
		return models.Perfil{}, storeError("create perfil", err)
	}
	perfil.ID = id
	if perfil.Habilidades == nil {
		perfil.Habilidades = []string{}
	}
	return perfil, nil
}

// Read returns the perfil to the user bound to it or to an Admin.
func (s *PerfilService) Read(ctx context.Context, p models.Principal, id string) (models.Perfil, error) {
	perfil, err := s.Perfiles.GetPerfilByID(ctx, id)
	if err != nil {
		return models.Perfil{}, perfilError("get perfil", id, err)
	}
	if !p.OwnsPerfil(id) && p.Role != models.RoleAdmin {
		return models.Perfil{}, models.Forbidden("perfil %s belongs to another user", id)
	}
	return perfil, nil
}

func (s *PerfilService) List(ctx context.Context, p models.Principal, skip, limit int) ([]models.Perfil, error) {
	if p.Role != models.RoleAdmin {
		return nil, models.Forbidden("only an Admin can list perfiles")
	}
	skip, limit = Page(skip, limit)
	out, err := s.Perfiles.ListPerfiles(ctx, skip, limit)
	if err != nil {
		return nil, storeError("list perfiles", err)
	}
	return out, nil
}

// Update is allowed only against the caller's own bound perfil. Admins get
// no override here.
func (s *PerfilService) Update(ctx context.Context, p models.Principal, id string, changes models.Perfil) (models.Perfil, error) {
	if !p.OwnsPerfil(id) {
		return models.Perfil{}, models.Forbidden("perfil %s belongs to another user", id)
	}
	if err := s.Perfiles.UpdatePerfil(ctx, id, changes); err != nil {
		return models.Perfil{}, perfilError("update perfil", id, err)
	}
	perfil, err := s.Perfiles.GetPerfilByID(ctx, id)
	if err != nil {
		return models.Perfil{}, perfilError("get perfil", id, err)
	}
	return perfil, nil
}

// Delete removes the document. A user still pointing at it keeps the stale
// reference.
func (s *PerfilService) Delete(ctx context.Context, p models.Principal, id string) error {
	if !p.OwnsPerfil(id) && p.Role != models.RoleAdmin {
		return models.Forbidden("perfil %s belongs to another user", id)
	}
	if err := s.Perfiles.DeletePerfil(ctx, id); err != nil {
		return perfilError("delete perfil", id, err)
	}
	return nil
}

// Assign binds an existing perfil to the user. A user holding a reference
// already gets Conflict and keeps the old one.
func (s *PerfilService) Assign(ctx context.Context, p models.Principal, userID int, perfilID string) error {
	if !selfOrAdmin(p, userID) {
		return models.Forbidden("cannot assign a perfil to user %d", userID)
	}
	if _, err := s.Perfiles.GetPerfilByID(ctx, perfilID); err != nil {
		return perfilError("get perfil", perfilID, err)
	}
	if err := s.Users.AssignPerfil(ctx, userID, perfilID); err != nil {
		return assignError(userID, err)
	}
	if s.Log != nil {
		s.Log.Infof("user %d bound to perfil %s", userID, perfilID)
	}
	return nil
}

// CreateAndAssign inserts a perfil document and binds it to the user. When
// the bind fails the document is deleted again. A non-empty key makes
// retries return the perfil created by the first successful attempt.
func (s *PerfilService) CreateAndAssign(ctx context.Context, p models.Principal, userID int, perfil models.Perfil, key string) (models.Perfil, error) {
	if !selfOrAdmin(p, userID) {
		return models.Perfil{}, models.Forbidden("cannot assign a perfil to user %d", userID)
	}
	scope := strconv.Itoa(userID)

	if key != "" && s.Idempotency != nil {
		prev, err := s.Idempotency.Lookup(ctx, scope, key)
		if err != nil {
			return models.Perfil{}, models.StoreFailure("lookup idempotency key", err)
		}
		if prev != "" {
			stored, err := s.Perfiles.GetPerfilByID(ctx, prev)
			if err != nil {
				return models.Perfil{}, perfilError("get perfil", prev, err)
			}
			return stored, nil
		}
	}

	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		return models.Perfil{}, lookupError("get user", "user", userID, err)
	}
	if user.PerfilID != nil {
		return models.Perfil{}, models.Conflict("user %d already has a perfil", userID)
	}

	created, err := s.Create(ctx, perfil)
	if err != nil {
		return models.Perfil{}, err
	}

	if err := s.Users.AssignPerfil(ctx, userID, created.ID); err != nil {
		if delErr := s.Perfiles.DeletePerfil(ctx, created.ID); delErr != nil && s.Log != nil {
			s.Log.Errorf("perfil %s orphaned after failed assign to user %d: %v", created.ID, userID, delErr)
		}
		return models.Perfil{}, assignError(userID, err)
	}

	if key != "" && s.Idempotency != nil {
		if _, err := s.Idempotency.Remember(ctx, scope, key, created.ID); err != nil && s.Log != nil {
			s.Log.Errorf("remember idempotency key for user %d: %v", userID, err)
		}
	}
	return created, nil
}
