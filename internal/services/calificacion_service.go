package services

import (
	"context"

	"fixiBack/internal/models"
)

const (
	minPuntuaje = 1
	maxPuntuaje = 5
)

type CalificacionService struct {
	Calificaciones CalificacionStore
}

func validateCalificacion(req models.CalificacionRequest) error {
	if req.Puntuaje < minPuntuaje || req.Puntuaje > maxPuntuaje {
		return models.InvalidInput("puntuaje must be between %d and %d", minPuntuaje, maxPuntuaje)
	}
	if req.ClienteID <= 0 || req.ServicioID <= 0 {
		return models.InvalidInput("cliente_id and servicio_id are required")
	}
	return nil
}

func (s *CalificacionService) Create(ctx context.Context, req models.CalificacionRequest) (models.Calificacion, error) {
	if err := validateCalificacion(req); err != nil {
		return models.Calificacion{}, err
	}
	c, err := s.Calificaciones.CreateCalificacion(ctx, models.Calificacion{
		Puntuaje:   req.Puntuaje,
		Resena:     req.Resena,
		ClienteID:  req.ClienteID,
		ServicioID: req.ServicioID,
	})
	if err != nil {
		return models.Calificacion{}, storeError("create calificacion", err)
	}
	return c, nil
}

func (s *CalificacionService) Get(ctx context.Context, id int) (models.Calificacion, error) {
	c, err := s.Calificaciones.GetCalificacionByID(ctx, id)
	if err != nil {
		return models.Calificacion{}, lookupError("get calificacion", "calificacion", id, err)
	}
	return c, nil
}

func (s *CalificacionService) List(ctx context.Context, skip, limit int) ([]models.Calificacion, error) {
	skip, limit = Page(skip, limit)
	out, err := s.Calificaciones.ListCalificaciones(ctx, skip, limit)
	if err != nil {
		return nil, storeError("list calificaciones", err)
	}
	return out, nil
}

func (s *CalificacionService) Update(ctx context.Context, id int, req models.CalificacionRequest) (models.Calificacion, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return models.Calificacion{}, err
	}
	if err := validateCalificacion(req); err != nil {
		return models.Calificacion{}, err
	}
	c.Puntuaje, c.Resena, c.ClienteID, c.ServicioID = req.Puntuaje, req.Resena, req.ClienteID, req.ServicioID
	if err := s.Calificaciones.UpdateCalificacion(ctx, c); err != nil {
		return models.Calificacion{}, storeError("update calificacion", err)
	}
	return c, nil
}

func (s *CalificacionService) Delete(ctx context.Context, id int) error {
	if err := s.Calificaciones.DeleteCalificacion(ctx, id); err != nil {
		return lookupError("delete calificacion", "calificacion", id, err)
	}
	return nil
}
