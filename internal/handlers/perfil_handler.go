package handlers

import (
	"context"
	"net/http"
	"strings"

	"fixiBack/internal/models"
)

// IdempotencyHeader carries the client key that makes create-and-assign
// safe to retry.
const IdempotencyHeader = "Idempotency-Key"

type PerfilService interface {
	Create(ctx context.Context, perfil models.Perfil) (models.Perfil, error)
	Read(ctx context.Context, p models.Principal, id string) (models.Perfil, error)
	List(ctx context.Context, p models.Principal, skip, limit int) ([]models.Perfil, error)
	Update(ctx context.Context, p models.Principal, id string, changes models.Perfil) (models.Perfil, error)
	Delete(ctx context.Context, p models.Principal, id string) error
	Assign(ctx context.Context, p models.Principal, userID int, perfilID string) error
	CreateAndAssign(ctx context.Context, p models.Principal, userID int, perfil models.Perfil, key string) (models.Perfil, error)
}

type assignRequest struct {
	PerfilID string `json:"perfil_id"`
}

type PerfilHandler struct {
	Service PerfilService
	Log     Logger
}

func (h *PerfilHandler) CreatePerfil(w http.ResponseWriter, r *http.Request) {
	if _, err := principalFrom(r); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	var perfil models.Perfil
	if err := decodeJSON(w, r, &perfil); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	created, err := h.Service.Create(r.Context(), perfil)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": created.ID})
}

func (h *PerfilHandler) GetPerfil(w http.ResponseWriter, r *http.Request) {
	p, err := principalFrom(r)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	perfil, err := h.Service.Read(r.Context(), p, getParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, perfil)
}

func (h *PerfilHandler) ListPerfiles(w http.ResponseWriter, r *http.Request) {
	p, err := principalFrom(r)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	skip, limit, err := pagination(r)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	list, err := h.Service.List(r.Context(), p, skip, limit)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *PerfilHandler) UpdatePerfil(w http.ResponseWriter, r *http.Request) {
	p, err := principalFrom(r)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	var changes models.Perfil
	if err := decodeJSON(w, r, &changes); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	perfil, err := h.Service.Update(r.Context(), p, getParam(r, "id"), changes)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, perfil)
}

func (h *PerfilHandler) DeletePerfil(w http.ResponseWriter, r *http.Request) {
	p, err := principalFrom(r)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), p, getParam(r, "id")); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "perfil deleted"})
}

// AssignPerfil binds an existing perfil to the user in the path.
func (h *PerfilHandler) AssignPerfil(w http.ResponseWriter, r *http.Request) {
	p, err := principalFrom(r)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	var req assignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	if err := h.Service.Assign(r.Context(), p, userID, req.PerfilID); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user_id": userID, "perfil_id": req.PerfilID})
}

// CreateUserPerfil creates a perfil and binds it to the user in one call.
// Clients retry safely by repeating the Idempotency-Key header.
func (h *PerfilHandler) CreateUserPerfil(w http.ResponseWriter, r *http.Request) {
	p, err := principalFrom(r)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	var perfil models.Perfil
	if err := decodeJSON(w, r, &perfil); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	key := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
	if len(key) > 128 {
		writeError(w, h.Log, r, models.InvalidInput("%s is too long", IdempotencyHeader))
		return
	}
	created, err := h.Service.CreateAndAssign(r.Context(), p, userID, perfil, key)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
