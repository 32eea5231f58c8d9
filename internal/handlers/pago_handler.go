package handlers

import (
	"context"
	"net/http"

	"fixiBack/internal/models"
)

type PagoService interface {
	Create(ctx context.Context, req models.PagoRequest) (models.Pago, error)
	Get(ctx context.Context, id int) (models.Pago, error)
	List(ctx context.Context, skip, limit int) ([]models.Pago, error)
	Update(ctx context.Context, id int, req models.PagoRequest) (models.Pago, error)
	Delete(ctx context.Context, id int) error
}

type PagoHandler struct {
	Service PagoService
	Log     Logger
}

// masked hides card data before a pago leaves the process.
func masked(p models.Pago) models.Pago {
	p.Tarjeta = p.Tarjeta.Masked()
	return p
}

func (h *PagoHandler) CreatePago(w http.ResponseWriter, r *http.Request) {
	var req models.PagoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	created, err := h.Service.Create(r.Context(), req)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, masked(created))
}

func (h *PagoHandler) GetPago(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	p, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, masked(p))
}

func (h *PagoHandler) ListPagos(w http.ResponseWriter, r *http.Request) {
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
	for i := range list {
		list[i] = masked(list[i])
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *PagoHandler) UpdatePago(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	var req models.PagoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	updated, err := h.Service.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, masked(updated))
}

func (h *PagoHandler) DeletePago(w http.ResponseWriter, r *http.Request) {
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
