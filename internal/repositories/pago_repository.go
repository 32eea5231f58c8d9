package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fixiBack/internal/models"
)

type PagoRepository struct {
	DB *sql.DB
}

const pagoSelect = `SELECT id, monto, cliente_id, solicitud_id, direccion, tarjeta FROM pagos`

func scanPago(row interface{ Scan(...interface{}) error }) (models.Pago, error) {
	var (
		p                  models.Pago
		direccion, tarjeta []byte
	)
	if err := row.Scan(&p.ID, &p.Monto, &p.ClienteID, &p.SolicitudID, &direccion, &tarjeta); err != nil {
		return models.Pago{}, err
	}
	if err := json.Unmarshal(direccion, &p.Direccion); err != nil {
		return models.Pago{}, fmt.Errorf("decode pago %d direccion: %w", p.ID, err)
	}
	if err := json.Unmarshal(tarjeta, &p.Tarjeta); err != nil {
		return models.Pago{}, fmt.Errorf("decode pago %d tarjeta: %w", p.ID, err)
	}
	return p, nil
}

func encodePagoParts(p models.Pago) ([]byte, []byte, error) {
	direccion, err := json.Marshal(p.Direccion)
	if err != nil {
		return nil, nil, err
	}
	tarjeta, err := json.Marshal(p.Tarjeta)
	if err != nil {
		return nil, nil, err
	}
	return direccion, tarjeta, nil
}

func (r *PagoRepository) CreatePago(ctx context.Context, p models.Pago) (models.Pago, error) {
	direccion, tarjeta, err := encodePagoParts(p)
	if err != nil {
		return models.Pago{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO pagos (monto, cliente_id, solicitud_id, direccion, tarjeta) VALUES (?, ?, ?, ?, ?)`,
		p.Monto, p.ClienteID, p.SolicitudID, direccion, tarjeta)
	if err != nil {
		return models.Pago{}, translateWriteError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Pago{}, err
	}
	p.ID = int(id)
	return p, nil
}

func (r *PagoRepository) GetPagoByID(ctx context.Context, id int) (models.Pago, error) {
	p, err := scanPago(r.DB.QueryRowContext(ctx, pagoSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Pago{}, models.ErrNoRecord
	}
	return p, err
}

func (r *PagoRepository) ListPagos(ctx context.Context, skip, limit int) ([]models.Pago, error) {
	rows, err := r.DB.QueryContext(ctx, pagoSelect+` ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Pago{}
	for rows.Next() {
		p, err := scanPago(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PagoRepository) UpdatePago(ctx context.Context, p models.Pago) error {
	direccion, tarjeta, err := encodePagoParts(p)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE pagos SET monto = ?, cliente_id = ?, solicitud_id = ?, direccion = ?, tarjeta = ? WHERE id = ?`,
		p.Monto, p.ClienteID, p.SolicitudID, direccion, tarjeta, p.ID)
	return translateWriteError(err)
}

func (r *PagoRepository) DeletePago(ctx context.Context, id int) error {
	return deleteByID(ctx, r.DB, `DELETE FROM pagos WHERE id = ?`, id)
}
