package handlers

import (
	"context"
	"net/http"

	"fixiBack/internal/models"
)

type CalificacionService interface {
	Create(ctx context.Context, req models.CalificacionRequest) (models.Calificacion, error)
	Get(ctx context.Context, id int) (models.Calificacion, error)
	List(ctx context.Context, skip, limit int) ([]models.Calificacion, error)
	Update(ctx context.Context, id int, req models.CalificacionRequest) (models.Calificacion, error)
	Delete(ctx context.Context, id int) error
}

type CalificacionHandler struct {
	Service CalificacionService
	Log     Logger
}

func (h *CalificacionHandler) CreateCalificacion(w http.ResponseWriter, r *http.Request) {
	var req models.CalificacionRequest
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

func (h *CalificacionHandler) GetCalificacion(w http.ResponseWriter, r *http.Request) {
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

func (h *CalificacionHandler) ListCalificaciones(w http.ResponseWriter, r *http.Request) {
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

func (h *CalificacionHandler) UpdateCalificacion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	var req models.CalificacionRequest
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

func (h *CalificacionHandler) DeleteCalificacion(w http.ResponseWriter, r *http.Request) {
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
