package services

import (
	"context"
	"strings"

	"fixiBack/internal/models"
)

// PagoService stores payment records. No gateway is contacted.
type PagoService struct {
	Pagos PagoStore
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func validatePago(req models.PagoRequest) (models.Pago, error) {
	if req.Monto <= 0 {
		return models.Pago{}, models.InvalidInput("monto must be greater than zero")
	}
	if req.ClienteID <= 0 || req.SolicitudID <= 0 {
		return models.Pago{}, models.InvalidInput("cliente_id and solicitud_id are required")
	}
	if req.Direccion == nil {
		return models.Pago{}, models.InvalidInput("direccion is required")
	}
	d := *req.Direccion
	if strings.TrimSpace(d.Ciudad) == "" || strings.TrimSpace(d.Colonia) == "" || strings.TrimSpace(d.Avenida) == "" {
		return models.Pago{}, models.InvalidInput("direccion needs ciudad, colonia and avenida")
	}
	if d.NumExterior <= 0 || d.CodigoPost <= 0 {
		return models.Pago{}, models.InvalidInput("direccion numexterior and codigopost must be positive")
	}
	if req.Tarjeta == nil {
		return models.Pago{}, models.InvalidInput("tarjeta is required")
	}
	t := *req.Tarjeta
	t.Numero = strings.ReplaceAll(t.Numero, " ", "")
	if !digitsOnly(t.Numero) || len(t.Numero) < 12 || len(t.Numero) > 19 {
		return models.Pago{}, models.InvalidInput("tarjeta numero must have 12 to 19 digits")
	}
	if strings.TrimSpace(t.Nombre) == "" {
		return models.Pago{}, models.InvalidInput("tarjeta nombre is required")
	}
	if !digitsOnly(t.CVC) || len(t.CVC) < 3 || len(t.CVC) > 4 {
		return models.Pago{}, models.InvalidInput("tarjeta cvc must have 3 or 4 digits")
	}
	return models.Pago{
		Monto:       req.Monto,
		ClienteID:   req.ClienteID,
		SolicitudID: req.SolicitudID,
		Direccion:   d,
		Tarjeta:     t,
	}, nil
}

func (s *PagoService) Create(ctx context.Context, req models.PagoRequest) (models.Pago, error) {
	p, err := validatePago(req)
	if err != nil {
		return models.Pago{}, err
	}
	created, err := s.Pagos.CreatePago(ctx, p)
	if err != nil {
		return models.Pago{}, storeError("create pago", err)
	}
	return created, nil
}

func (s *PagoService) Get(ctx context.Context, id int) (models.Pago, error) {
	p, err := s.Pagos.GetPagoByID(ctx, id)
	if err != nil {
		return models.Pago{}, lookupError("get pago", "pago", id, err)
	}
	return p, nil
}

func (s *PagoService) List(ctx context.Context, skip, limit int) ([]models.Pago, error) {
	skip, limit = Page(skip, limit)
	out, err := s.Pagos.ListPagos(ctx, skip, limit)
	if err != nil {
		return nil, storeError("list pagos", err)
	}
	return out, nil
}

func (s *PagoService) Update(ctx context.Context, id int, req models.PagoRequest) (models.Pago, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return models.Pago{}, err
	}
	p, err := validatePago(req)
	if err != nil {
		return models.Pago{}, err
	}
	p.ID = id
	if err := s.Pagos.UpdatePago(ctx, p); err != nil {
		return models.Pago{}, storeError("update pago", err)
	}
	return p, nil
}

func (s *PagoService) Delete(ctx context.Context, id int) error {
	if err := s.Pagos.DeletePago(ctx, id); err != nil {
		return lookupError("delete pago", "pago", id, err)
	}
	return nil
}
