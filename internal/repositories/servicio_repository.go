package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fixiBack/internal/models"
)

type ServicioRepository struct {
	DB *sql.DB
}

const servicioSelect = `
	SELECT s.id, s.tipo_servicio, s.ubicacion, s.costo, s.disponibilidad, s.disponibilidad_pago,
	       s.descripcion, s.proveedor_id, s.created_at,
	       (SELECT COUNT(*) FROM servicio_imagenes i WHERE i.servicio_id = s.id)
	FROM servicios s`

func scanServicio(row interface{ Scan(...interface{}) error }) (models.Servicio, error) {
	var (
		s    models.Servicio
		desc sql.NullString
	)
	err := row.Scan(&s.ID, &s.TipoServicio, &s.Ubicacion, &s.Costo, &s.Disponibilidad, &s.DisponibilidadPago,
		&desc, &s.ProveedorID, &s.CreatedAt, &s.Imagenes)
	if err != nil {
		return models.Servicio{}, err
	}
	if desc.Valid {
		s.Descripcion = &desc.String
	}
	return s, nil
}

func (r *ServicioRepository) CreateServicio(ctx context.Context, s models.Servicio) (models.Servicio, error) {
	query := `
		INSERT INTO servicios (tipo_servicio, ubicacion, costo, disponibilidad, disponibilidad_pago, descripcion, proveedor_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	s.CreatedAt = time.Now().UTC().Truncate(time.Second)
	res, err := r.DB.ExecContext(ctx, query, s.TipoServicio, s.Ubicacion, s.Costo, s.Disponibilidad,
		s.DisponibilidadPago, s.Descripcion, s.ProveedorID, s.CreatedAt)
	if err != nil {
		return models.Servicio{}, translateWriteError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Servicio{}, err
	}
	s.ID = int(id)
	s.Imagenes = 0
	return s, nil
}

func (r *ServicioRepository) GetServicioByID(ctx context.Context, id int) (models.Servicio, error) {
	s, err := scanServicio(r.DB.QueryRowContext(ctx, servicioSelect+` WHERE s.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Servicio{}, models.ErrNoRecord
	}
	return s, err
}

func (r *ServicioRepository) ListServicios(ctx context.Context, skip, limit int) ([]models.Servicio, error) {
	rows, err := r.DB.QueryContext(ctx, servicioSelect+` ORDER BY s.id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	servicios := []models.Servicio{}
	for rows.Next() {
		s, err := scanServicio(rows)
		if err != nil {
			return nil, err
		}
		servicios = append(servicios, s)
	}
	return servicios, rows.Err()
}

// UpdateServicio writes every mutable column. Ownership is never changed.
func (r *ServicioRepository) UpdateServicio(ctx context.Context, s models.Servicio) error {
	query := `
		UPDATE servicios
		SET tipo_servicio = ?, ubicacion = ?, costo = ?, disponibilidad = ?, disponibilidad_pago = ?, descripcion = ?
		WHERE id = ?`
	_, err := r.DB.ExecContext(ctx, query, s.TipoServicio, s.Ubicacion, s.Costo, s.Disponibilidad,
		s.DisponibilidadPago, s.Descripcion, s.ID)
	return err
}

func (r *ServicioRepository) DeleteServicio(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM servicio_imagenes WHERE servicio_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM servicios WHERE id = ?`, id)
	if err != nil {
		return translateWriteError(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNoRecord
	}
	return tx.Commit()
}

// AppendImages adds the entries, in order, at the end of the servicio's image
// list. Either every entry is written or none is.
func (r *ServicioRepository) AppendImages(ctx context.Context, imgs []models.ServicioImage) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, img := range imgs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO servicio_imagenes (servicio_id, object_key, content_type) VALUES (?, ?, ?)`,
			img.ServicioID, img.ObjectKey, img.ContentType); err != nil {
			return translateWriteError(err)
		}
	}
	return tx.Commit()
}

// GetImage returns the image at the zero-based position in insertion order.
func (r *ServicioRepository) GetImage(ctx context.Context, servicioID, index int) (models.ServicioImage, error) {
	if index < 0 {
		return models.ServicioImage{}, models.ErrNoRecord
	}
	var img models.ServicioImage
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, servicio_id, object_key, content_type
		FROM servicio_imagenes
		WHERE servicio_id = ?
		ORDER BY id
		LIMIT 1 OFFSET ?`, servicioID, index).Scan(&img.ID, &img.ServicioID, &img.ObjectKey, &img.ContentType)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ServicioImage{}, models.ErrNoRecord
	}
	return img, err
}
