package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fixiBack/internal/models"
)

type ChatRepository struct {
	DB *sql.DB
}

const chatSelect = `SELECT id, mensaje, fechacreate, proveedor_id, cliente_id FROM chats`

func (r *ChatRepository) CreateChat(ctx context.Context, c models.Chat) (models.Chat, error) {
	c.FechaCreate = time.Now().UTC().Truncate(time.Second)
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO chats (mensaje, fechacreate, proveedor_id, cliente_id) VALUES (?, ?, ?, ?)`,
		c.Mensaje, c.FechaCreate, c.ProveedorID, c.ClienteID)
	if err != nil {
		return models.Chat{}, translateWriteError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Chat{}, err
	}
	c.ID = int(id)
	return c, nil
}

func (r *ChatRepository) GetChatByID(ctx context.Context, id int) (models.Chat, error) {
	var c models.Chat
	err := r.DB.QueryRowContext(ctx, chatSelect+` WHERE id = ?`, id).
		Scan(&c.ID, &c.Mensaje, &c.FechaCreate, &c.ProveedorID, &c.ClienteID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, models.ErrNoRecord
	}
	return c, err
}

func (r *ChatRepository) ListChats(ctx context.Context, skip, limit int) ([]models.Chat, error) {
	return r.list(ctx, chatSelect+` ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
}

// ListConversation returns the thread between one proveedor and one cliente, oldest first.
func (r *ChatRepository) ListConversation(ctx context.Context, proveedorID, clienteID, skip, limit int) ([]models.Chat, error) {
	return r.list(ctx, chatSelect+` WHERE proveedor_id = ? AND cliente_id = ? ORDER BY fechacreate, id LIMIT ? OFFSET ?`,
		proveedorID, clienteID, limit, skip)
}

func (r *ChatRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Chat, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Chat{}
	for rows.Next() {
		var c models.Chat
		if err := rows.Scan(&c.ID, &c.Mensaje, &c.FechaCreate, &c.ProveedorID, &c.ClienteID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ChatRepository) UpdateChat(ctx context.Context, c models.Chat) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE chats SET mensaje = ?, proveedor_id = ?, cliente_id = ? WHERE id = ?`,
		c.Mensaje, c.ProveedorID, c.ClienteID, c.ID)
	return translateWriteError(err)
}

func (r *ChatRepository) DeleteChat(ctx context.Context, id int) error {
	return deleteByID(ctx, r.DB, `DELETE FROM chats WHERE id = ?`, id)
}
