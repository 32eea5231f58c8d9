package handlers

import (
	"context"
	"net/http"

	"fixiBack/internal/models"
)

type SolicitudService interface {
	Create(ctx context.Context, p models.Principal, req models.CreateSolicitudRequest) (models.Solicitud, error)
	GetByID(ctx context.Context, p models.Principal, id int) (models.Solicitud, error)
	List(ctx context.Context, p models.Principal, skip, limit int) ([]models.Solicitud, error)
	UpdateStatus(ctx context.Context, p models.Principal, id int, status string) (models.Solicitud, error)
	SetCancelled(ctx context.Context, p models.Principal, id int, cancelled bool) (models.Solicitud, error)
	Delete(ctx context.Context, p models.Principal, id int) (models.Solicitud, error)
}

type SolicitudHandler struct {
	Service SolicitudService
	Log     Logger
}

func (h *SolicitudHandler) CreateSolicitud(w http.ResponseWriter, r *http.Request) {
	p, err := principalFrom(r)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	var req models.CreateSolicitudRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	s, err := h.Service.Create(r.Context(), p, req)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *SolicitudHandler) GetSolicitud(w http.ResponseWriter, r *http.Request) {
	p, err := principalFrom(r)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	s, err := h.Service.GetByID(r.Context(), p, id)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SolicitudHandler) ListSolicitudes(w http.ResponseWriter, r *http.Request) {
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

func (h *SolicitudHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, err := principalFrom(r)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	var req models.UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	s, err := h.Service.UpdateStatus(r.Context(), p, id, req.Status)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SolicitudHandler) SetCancelled(w http.ResponseWriter, r *http.Request) {
	p, err := principalFrom(r)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	var req models.CancelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	s, err := h.Service.SetCancelled(r.Context(), p, id, req.Cancelado)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SolicitudHandler) DeleteSolicitud(w http.ResponseWriter, r *http.Request) {
	p, err := principalFrom(r)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	s, err := h.Service.Delete(r.Context(), p, id)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
