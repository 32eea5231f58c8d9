package handlers

import (
	"context"
	"net/http"

	"fixiBack/internal/models"
)

type HistorialService interface {
	Create(ctx context.Context, req models.HistorialRequest) (models.Historial, error)
	Get(ctx context.Context, id int) (models.Historial, error)
	List(ctx context.Context, skip, limit int) ([]models.Historial, error)
	Update(ctx context.Context, id int, req models.HistorialRequest) (models.Historial, error)
	Delete(ctx context.Context, id int) error
}

type HistorialHandler struct {
	Service HistorialService
	Log     Logger
}

func (h *HistorialHandler) CreateHistorial(w http.ResponseWriter, r *http.Request) {
	var req models.HistorialRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	created, err := h.Service.Create(r.Context(), req)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *HistorialHandler) GetHistorial(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	rec, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *HistorialHandler) ListHistorial(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pagination(r)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	list, err := h.Service.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *HistorialHandler) UpdateHistorial(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	var req models.HistorialRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	updated, err := h.Service.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *HistorialHandler) DeleteHistorial(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
