package handlers

import (
	"context"
	"net/http"

	"fixiBack/internal/models"
)

type ChatService interface {
	Create(ctx context.Context, req models.ChatRequest) (models.Chat, error)
	Get(ctx context.Context, id int) (models.Chat, error)
	List(ctx context.Context, skip, limit int) ([]models.Chat, error)
	Conversation(ctx context.Context, proveedorID, clienteID, skip, limit int) ([]models.Chat, error)
	Update(ctx context.Context, id int, req models.ChatRequest) (models.Chat, error)
	Delete(ctx context.Context, id int) error
}

// Subscriber upgrades a request into a push channel for the given user.
type Subscriber interface {
	ServeWS(w http.ResponseWriter, r *http.Request, userID int)
}

type ChatHandler struct {
	Service ChatService
	Hub     Subscriber
	Log     Logger
}

func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	chat, err := h.Service.Create(r.Context(), req)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, chat)
}

func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	chat, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

// ListChats returns every chat, or one thread when both proveedor_id and
// cliente_id are given.
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pagination(r)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	proveedorID, err := queryInt(r, "proveedor_id", 0)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	clienteID, err := queryInt(r, "cliente_id", 0)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}

	var list []models.Chat
	if proveedorID != 0 || clienteID != 0 {
		list, err = h.Service.Conversation(r.Context(), proveedorID, clienteID, skip, limit)
	} else {
		list, err = h.Service.List(r.Context(), skip, limit)
	}
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ChatHandler) UpdateChat(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	var req models.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	chat, err := h.Service.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
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

// Subscribe opens the push channel for the authenticated caller.
func (h *ChatHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	p, err := principalFrom(r)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	h.Hub.ServeWS(w, r, p.ID)
}
