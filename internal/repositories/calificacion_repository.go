package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fixiBack/internal/models"
)

type CalificacionRepository struct {
	DB *sql.DB
}

const calificacionSelect = `SELECT id, puntuaje, resena, fecha, cliente_id, servicio_id FROM calificaciones`

func scanCalificacion(row interface{ Scan(...interface{}) error }) (models.Calificacion, error) {
	var (
		c      models.Calificacion
		resena sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Puntuaje, &resena, &c.Fecha, &c.ClienteID, &c.ServicioID); err != nil {
		return models.Calificacion{}, err
	}
	if resena.Valid {
		c.Resena = &resena.String
	}
	return c, nil
}

func (r *CalificacionRepository) CreateCalificacion(ctx context.Context, c models.Calificacion) (models.Calificacion, error) {
	c.Fecha = time.Now().UTC().Truncate(time.Second)
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO calificaciones (puntuaje, resena, fecha, cliente_id, servicio_id) VALUES (?, ?, ?, ?, ?)`,
		c.Puntuaje, c.Resena, c.Fecha, c.ClienteID, c.ServicioID)
	if err != nil {
		return models.Calificacion{}, translateWriteError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Calificacion{}, err
	}
	c.ID = int(id)
	return c, nil
}

func (r *CalificacionRepository) GetCalificacionByID(ctx context.Context, id int) (models.Calificacion, error) {
	c, err := scanCalificacion(r.DB.QueryRowContext(ctx, calificacionSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Calificacion{}, models.ErrNoRecord
	}
	return c, err
}

func (r *CalificacionRepository) ListCalificaciones(ctx context.Context, skip, limit int) ([]models.Calificacion, error) {
	rows, err := r.DB.QueryContext(ctx, calificacionSelect+` ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Calificacion{}
	for rows.Next() {
		c, err := scanCalificacion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CalificacionRepository) UpdateCalificacion(ctx context.Context, c models.Calificacion) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE calificaciones SET puntuaje = ?, resena = ?, cliente_id = ?, servicio_id = ? WHERE id = ?`,
		c.Puntuaje, c.Resena, c.ClienteID, c.ServicioID, c.ID)
	return translateWriteError(err)
}

func (r *CalificacionRepository) DeleteCalificacion(ctx context.Context, id int) error {
	return deleteByID(ctx, r.DB, `DELETE FROM calificaciones WHERE id = ?`, id)
}
