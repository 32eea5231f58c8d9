package handlers

import (
	"context"
	"net/http"
	"strconv"

	"fixiBack/internal/models"
)

const (
	maxUploadMemory = 32 << 20
	maxUploadBody   = 64 << 20
	maxImageSize    = 10 << 20
)

type ServicioService interface {
	Create(ctx context.Context, p models.Principal, req models.ServicioRequest) (models.Servicio, error)
	Get(ctx context.Context, id int) (models.Servicio, error)
	List(ctx context.Context, skip, limit int) ([]models.Servicio, error)
	Update(ctx context.Context, p models.Principal, id int, req models.ServicioRequest) (models.Servicio, error)
	Delete(ctx context.Context, p models.Principal, id int) error
	AddImages(ctx context.Context, p models.Principal, id int, uploads []models.Upload) (models.Servicio, error)
	Image(ctx context.Context, id, index int) ([]byte, string, error)
}

type ServicioHandler struct {
	Service ServicioService
	Log     Logger

	// MaxUploadBytes caps an upload request body; zero means maxUploadBody.
	MaxUploadBytes int64
}

func (h *ServicioHandler) CreateServicio(w http.ResponseWriter, r *http.Request) {
	p, err := principalFrom(r)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	var req models.ServicioRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	sv, err := h.Service.Create(r.Context(), p, req)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sv)
}

func (h *ServicioHandler) GetServicio(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	sv, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sv)
}

func (h *ServicioHandler) ListServicios(w http.ResponseWriter, r *http.Request) {
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

func (h *ServicioHandler) UpdateServicio(w http.ResponseWriter, r *http.Request) {
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
	var req models.ServicioRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	sv, err := h.Service.Update(r.Context(), p, id, req)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sv)
}

func (h *ServicioHandler) DeleteServicio(w http.ResponseWriter, r *http.Request) {
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
	if err := h.Service.Delete(r.Context(), p, id); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "servicio deleted"})
}

// UploadImages appends the uploaded images in the order received.
func (h *ServicioHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
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
	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = maxUploadBody
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, h.Log, r, models.InvalidInput("invalid multipart form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	uploads, err := readUploads(collectImageFiles(r.MultipartForm, imageFormKeys...), maxImageSize)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	if len(uploads) == 0 {
		writeError(w, h.Log, r, models.InvalidInput("no images in form"))
		return
	}

	sv, err := h.Service.AddImages(r.Context(), p, id, uploads)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sv)
}

func (h *ServicioHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	index, err := strconv.Atoi(getParam(r, "index"))
	if err != nil {
		writeError(w, h.Log, r, models.InvalidInput("invalid index"))
		return
	}
	data, contentType, err := h.Service.Image(r.Context(), id, index)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
