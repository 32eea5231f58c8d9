package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fixiBack/internal/models"
)

type HistorialRepository struct {
	DB *sql.DB
}

func (r *HistorialRepository) CreateHistorial(ctx context.Context, h models.Historial) (models.Historial, error) {
	h.Fecha = time.Now().UTC().Truncate(time.Second)
	res, err := r.DB.ExecContext(ctx, `INSERT INTO historial (cliente_id, servicio_id, fecha) VALUES (?, ?, ?)`,
		h.ClienteID, h.ServicioID, h.Fecha)
	if err != nil {
		return models.Historial{}, translateWriteError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Historial{}, err
	}
	h.ID = int(id)
	return h, nil
}

func (r *HistorialRepository) GetHistorialByID(ctx context.Context, id int) (models.Historial, error) {
	var h models.Historial
	err := r.DB.QueryRowContext(ctx, `SELECT id, cliente_id, servicio_id, fecha FROM historial WHERE id = ?`, id).
		Scan(&h.ID, &h.ClienteID, &h.ServicioID, &h.Fecha)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Historial{}, models.ErrNoRecord
	}
	return h, err
}

func (r *HistorialRepository) ListHistorial(ctx context.Context, skip, limit int) ([]models.Historial, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, cliente_id, servicio_id, fecha FROM historial ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Historial{}
	for rows.Next() {
		var h models.Historial
		if err := rows.Scan(&h.ID, &h.ClienteID, &h.ServicioID, &h.Fecha); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *HistorialRepository) UpdateHistorial(ctx context.Context, h models.Historial) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE historial SET cliente_id = ?, servicio_id = ? WHERE id = ?`, h.ClienteID, h.ServicioID, h.ID)
	return translateWriteError(err)
}

func (r *HistorialRepository) DeleteHistorial(ctx context.Context, id int) error {
	return deleteByID(ctx, r.DB, `DELETE FROM historial WHERE id = ?`, id)
}

func deleteByID(ctx context.Context, db *sql.DB, query string, id int) error {
	res, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNoRecord
	}
	return nil
}
