package services

import (
	"context"

	"fixiBack/internal/models"
)

// HistorialService records completed cliente/servicio interactions.
// Referenced ids are not checked for existence before insert.
type HistorialService struct {
	Historial HistorialStore
}

func validateHistorial(req models.HistorialRequest) error {
	if req.ClienteID <= 0 || req.ServicioID <= 0 {
		return models.InvalidInput("cliente_id and servicio_id are required")
	}
	return nil
}

func (s *HistorialService) Create(ctx context.Context, req models.HistorialRequest) (models.Historial, error) {
	if err := validateHistorial(req); err != nil {
		return models.Historial{}, err
	}
	h, err := s.Historial.CreateHistorial(ctx, models.Historial{ClienteID: req.ClienteID, ServicioID: req.ServicioID})
	if err != nil {
		return models.Historial{}, storeError("create historial", err)
	}
	return h, nil
}

func (s *HistorialService) Get(ctx context.Context, id int) (models.Historial, error) {
	h, err := s.Historial.GetHistorialByID(ctx, id)
	if err != nil {
		return models.Historial{}, lookupError("get historial", "historial", id, err)
	}
	return h, nil
}

func (s *HistorialService) List(ctx context.Context, skip, limit int) ([]models.Historial, error) {
	skip, limit = Page(skip, limit)
	out, err := s.Historial.ListHistorial(ctx, skip, limit)
	if err != nil {
		return nil, storeError("list historial", err)
	}
	return out, nil
}

func (s *HistorialService) Update(ctx context.Context, id int, req models.HistorialRequest) (models.Historial, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return models.Historial{}, err
	}
	if err := validateHistorial(req); err != nil {
		return models.Historial{}, err
	}
	h.ClienteID, h.ServicioID = req.ClienteID, req.ServicioID
	if err := s.Historial.UpdateHistorial(ctx, h); err != nil {
		return models.Historial{}, storeError("update historial", err)
	}
	return h, nil
}

func (s *HistorialService) Delete(ctx context.Context, id int) error {
	if err := s.Historial.DeleteHistorial(ctx, id); err != nil {
		return lookupError("delete historial", "historial", id, err)
	}
	return nil
}
