package services

import (
	"context"
	"strings"

	"fixiBack/internal/models"
)

// ChatService stores messages between a proveedor and a cliente and hands
// new ones to the notifier.
type ChatService struct {
	Chats    ChatStore
	Notifier Notifier
}

func validateChat(req models.ChatRequest) error {
	if strings.TrimSpace(req.Mensaje) == "" {
		return models.InvalidInput("mensaje is required")
	}
	if req.ProveedorID <= 0 || req.ClienteID <= 0 {
		return models.InvalidInput("proveedor_id and cliente_id are required")
	}
	return nil
}

func (s *ChatService) Create(ctx context.Context, req models.ChatRequest) (models.Chat, error) {
	if err := validateChat(req); err != nil {
		return models.Chat{}, err
	}
	chat, err := s.Chats.CreateChat(ctx, models.Chat{
		Mensaje:     req.Mensaje,
		ProveedorID: req.ProveedorID,
		ClienteID:   req.ClienteID,
	})
	if err != nil {
		return models.Chat{}, storeError("create chat", err)
	}
	if s.Notifier != nil {
		s.Notifier.Publish(chat)
	}
	return chat, nil
}

func (s *ChatService) Get(ctx context.Context, id int) (models.Chat, error) {
	chat, err := s.Chats.GetChatByID(ctx, id)
	if err != nil {
		return models.Chat{}, lookupError("get chat", "chat", id, err)
	}
	return chat, nil
}

func (s *ChatService) List(ctx context.Context, skip, limit int) ([]models.Chat, error) {
	skip, limit = Page(skip, limit)
	out, err := s.Chats.ListChats(ctx, skip, limit)
	if err != nil {
		return nil, storeError("list chats", err)
	}
	return out, nil
}

// Conversation lists the thread between two parties, oldest first.
func (s *ChatService) Conversation(ctx context.Context, proveedorID, clienteID, skip, limit int) ([]models.Chat, error) {
	if proveedorID <= 0 || clienteID <= 0 {
		return nil, models.InvalidInput("proveedor_id and cliente_id are required")
	}
	skip, limit = Page(skip, limit)
	out, err := s.Chats.ListConversation(ctx, proveedorID, clienteID, skip, limit)
	if err != nil {
		return nil, storeError("list conversation", err)
	}
	return out, nil
}

func (s *ChatService) Update(ctx context.Context, id int, req models.ChatRequest) (models.Chat, error) {
	chat, err := s.Get(ctx, id)
	if err != nil {
		return models.Chat{}, err
	}
	if err := validateChat(req); err != nil {
		return models.Chat{}, err
	}
	chat.Mensaje, chat.ProveedorID, chat.ClienteID = req.Mensaje, req.ProveedorID, req.ClienteID
	if err := s.Chats.UpdateChat(ctx, chat); err != nil {
		return models.Chat{}, storeError("update chat", err)
	}
	return chat, nil
}

func (s *ChatService) Delete(ctx context.Context, id int) error {
	if err := s.Chats.DeleteChat(ctx, id); err != nil {
		return lookupError("delete chat", "chat", id, err)
	}
	return nil
}
