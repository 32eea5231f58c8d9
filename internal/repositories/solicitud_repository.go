package repositories

import (
	"context"
	"database/sql"
	"errors"

	"fixiBack/internal/models"
)

type SolicitudRepository struct {
	DB *sql.DB
}

// The servicio join is a LEFT JOIN: a solicitud whose servicio was removed
// keeps resolving, with no owning proveedor.
const solicitudSelect = `
	SELECT s.id, s.cliente_id, s.servicio_id, sv.proveedor_id, s.costo, s.hora, s.fecha_servicio,
	       s.fecha, s.status, s.cancelado
	FROM solicitudes s
	LEFT JOIN servicios sv ON sv.id = s.servicio_id`

func scanSolicitud(row interface{ Scan(...interface{}) error }) (models.Solicitud, error) {
	var (
		s             models.Solicitud
		proveedorID   sql.NullInt64
		hora          sql.NullString
		fechaServicio sql.NullTime
	)
	err := row.Scan(&s.ID, &s.ClienteID, &s.ServicioID, &proveedorID, &s.Costo, &hora, &fechaServicio,
		&s.Fecha, &s.Status, &s.Cancelado)
	if err != nil {
		return models.Solicitud{}, err
	}
	if proveedorID.Valid {
		s.ProveedorID = int(proveedorID.Int64)
	}
	if hora.Valid {
		s.Hora = &hora.String
	}
	if fechaServicio.Valid {
		t := fechaServicio.Time
		s.FechaServicio = &t
	}
	return s, nil
}

func (r *SolicitudRepository) CreateSolicitud(ctx context.Context, s models.Solicitud) (models.Solicitud, error) {
	query := `
		INSERT INTO solicitudes (cliente_id, servicio_id, costo, hora, fecha_servicio, fecha, status, cancelado)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.DB.ExecContext(ctx, query, s.ClienteID, s.ServicioID, s.Costo, s.Hora, s.FechaServicio,
		s.Fecha, s.Status, s.Cancelado)
	if err != nil {
		return models.Solicitud{}, translateWriteError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Solicitud{}, err
	}
	s.ID = int(id)
	return s, nil
}

func (r *SolicitudRepository) GetSolicitudByID(ctx context.Context, id int) (models.Solicitud, error) {
	s, err := scanSolicitud(r.DB.QueryRowContext(ctx, solicitudSelect+` WHERE s.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Solicitud{}, models.ErrNoRecord
	}
	return s, err
}

func (r *SolicitudRepository) ListByCliente(ctx context.Context, clienteID, skip, limit int) ([]models.Solicitud, error) {
	return r.list(ctx, solicitudSelect+` WHERE s.cliente_id = ? ORDER BY s.id LIMIT ? OFFSET ?`, clienteID, limit, skip)
}

func (r *SolicitudRepository) ListByProveedor(ctx context.Context, proveedorID, skip, limit int) ([]models.Solicitud, error) {
	return r.list(ctx, solicitudSelect+` WHERE sv.proveedor_id = ? ORDER BY s.id LIMIT ? OFFSET ?`, proveedorID, limit, skip)
}

func (r *SolicitudRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Solicitud, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Solicitud{}
	for rows.Next() {
		s, err := scanSolicitud(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpdateStatus moves the solicitud from one status to another. The write only
// lands if the stored status still equals from; otherwise ErrNoRecord is
// returned and the caller decides whether the row vanished or raced.
func (r *SolicitudRepository) UpdateStatus(ctx context.Context, id int, from, to models.Status) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE solicitudes SET status = ? WHERE id = ? AND status = ?`, to, id, from)
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

// SetCancelled overwrites the cancelled flag; concurrent writers race and the
// last one wins. The connection must report found rows (clientFoundRows) so
// rewriting the same value is not mistaken for a missing row.
func (r *SolicitudRepository) SetCancelled(ctx context.Context, id int, cancelled bool) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE solicitudes SET cancelado = ? WHERE id = ?`, cancelled, id)
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

func (r *SolicitudRepository) DeleteSolicitud(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM solicitudes WHERE id = ?`, id)
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
	return nil
}
