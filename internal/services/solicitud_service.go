package services

import (
	"context"
	"errors"
	"time"

	"fixiBack/internal/fsm"
	"fixiBack/internal/models"
)

// SolicitudService runs the request lifecycle: creation against a servicio,
// party-scoped reads, provider-driven status moves and bilateral cancellation.
type SolicitudService struct {
	Solicitudes SolicitudStore
	Servicios   ServicioReader
	Recorder    TransitionRecorder
	Log         Logger
	Now         func() time.Time
}

func (s *SolicitudService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC().Truncate(time.Second)
	}
	return time.Now().UTC().Truncate(time.Second)
}

// Create opens a pending solicitud for the calling Cliente. The servicio
// cost is copied so later price changes leave it untouched.
func (s *SolicitudService) Create(ctx context.Context, p models.Principal, req models.CreateSolicitudRequest) (models.Solicitud, error) {
	if p.Role != models.RoleCliente {
		return models.Solicitud{}, models.Forbidden("only a Cliente can create a solicitud")
	}
	if req.ServicioID <= 0 {
		return models.Solicitud{}, models.InvalidInput("servicio_id is required")
	}

	servicio, err := s.Servicios.GetServicioByID(ctx, req.ServicioID)
	if err != nil {
		return models.Solicitud{}, lookupError("get servicio", "servicio", req.ServicioID, err)
	}

	created, err := s.Solicitudes.CreateSolicitud(ctx, models.Solicitud{
		ClienteID:     p.ID,
		ServicioID:    servicio.ID,
		ProveedorID:   servicio.ProveedorID,
		Costo:         servicio.Costo,
		Hora:          req.Hora,
		FechaServicio: req.FechaServicio,
		Fecha:         s.now(),
		Status:        models.StatusPending,
	})
	if err != nil {
		return models.Solicitud{}, storeError("create solicitud", err)
	}
	return created, nil
}

func (s *SolicitudService) load(ctx context.Context, id int) (models.Solicitud, error) {
	sol, err := s.Solicitudes.GetSolicitudByID(ctx, id)
	if err != nil {
		return models.Solicitud{}, lookupError("get solicitud", "solicitud", id, err)
	}
	return sol, nil
}

// GetByID returns the solicitud to its Cliente or to the Proveedor owning
// the referenced servicio. Role plays no part.
func (s *SolicitudService) GetByID(ctx context.Context, p models.Principal, id int) (models.Solicitud, error) {
	sol, err := s.load(ctx, id)
	if err != nil {
		return models.Solicitud{}, err
	}
	if !sol.Involves(p) {
		return models.Solicitud{}, models.Forbidden("not a party to solicitud %d", id)
	}
	return sol, nil
}

// List dispatches on role. Admins get Forbidden as well: there is no
// override on this listing.
func (s *SolicitudService) List(ctx context.Context, p models.Principal, skip, limit int) ([]models.Solicitud, error) {
	skip, limit = Page(skip, limit)

	var (
		out []models.Solicitud
		err error
	)
	switch p.Role {
	case models.RoleCliente:
		out, err = s.Solicitudes.ListByCliente(ctx, p.ID, skip, limit)
	case models.RoleProveedor:
		out, err = s.Solicitudes.ListByProveedor(ctx, p.ID, skip, limit)
	default:
		return nil, models.Forbidden("role %s cannot list solicitudes", p.Role)
	}
	if err != nil {
		return nil, storeError("list solicitudes", err)
	}
	return out, nil
}

// UpdateStatus applies a transition on behalf of the owning Proveedor.
// The write is conditional on the status read here, so a concurrent change
// surfaces as Conflict instead of being overwritten.
func (s *SolicitudService) UpdateStatus(ctx context.Context, p models.Principal, id int, label string) (models.Solicitud, error) {
	sol, err := s.load(ctx, id)
	if err != nil {
		return models.Solicitud{}, err
	}
	if sol.ProveedorID == 0 || p.ID != sol.ProveedorID {
		return models.Solicitud{}, models.Forbidden("only the owning proveedor can change solicitud %d", id)
	}
	to, err := models.ParseStatus(label)
	if err != nil {
		return models.Solicitud{}, models.InvalidInput("%v", err)
	}
	from := sol.Status
	if !fsm.CanTransition(from, to) {
		if fsm.Terminal(from) {
			return models.Solicitud{}, models.InvalidTransition(from, to)
		}
		return models.Solicitud{}, models.InvalidTransition(from, to, fsm.Next(from)...)
	}
	if from == to {
		return sol, nil
	}

	if err := s.Solicitudes.UpdateStatus(ctx, id, from, to); err != nil {
		if !errors.Is(err, models.ErrNoRecord) {
			return models.Solicitud{}, storeError("update solicitud status", err)
		}
		if _, err := s.load(ctx, id); err != nil {
			return models.Solicitud{}, err
		}
		return models.Solicitud{}, models.Conflict("solicitud %d changed status concurrently", id)
	}

	if s.Recorder != nil {
		s.Recorder.ObserveTransition(from, to)
	}
	if s.Log != nil {
		s.Log.Infof("solicitud %d: %s -> %s by %d", id, from, to, p.ID)
	}
	sol.Status = to
	return sol, nil
}

// SetCancelled flips the cancelled marker for either party. Status is not
// touched and concurrent writers race with the last one winning.
func (s *SolicitudService) SetCancelled(ctx context.Context, p models.Principal, id int, cancelled bool) (models.Solicitud, error) {
	sol, err := s.load(ctx, id)
	if err != nil {
		return models.Solicitud{}, err
	}
	if !sol.Involves(p) {
		return models.Solicitud{}, models.Forbidden("not a party to solicitud %d", id)
	}
	if err := s.Solicitudes.SetCancelled(ctx, id, cancelled); err != nil {
		return models.Solicitud{}, lookupError("cancel solicitud", "solicitud", id, err)
	}
	sol.Cancelado = cancelled
	return sol, nil
}

// Delete hard-deletes the solicitud. Callers must be a party to it or Admin.
func (s *SolicitudService) Delete(ctx context.Context, p models.Principal, id int) (models.Solicitud, error) {
	sol, err := s.load(ctx, id)
	if err != nil {
		return models.Solicitud{}, err
	}
	if p.ID <= 0 || !(sol.Involves(p) || p.Role == models.RoleAdmin) {
		return models.Solicitud{}, models.Forbidden("not allowed to delete solicitud %d", id)
	}
	if err := s.Solicitudes.DeleteSolicitud(ctx, id); err != nil {
		return models.Solicitud{}, lookupError("delete solicitud", "solicitud", id, err)
	}
	if s.Log != nil {
		s.Log.Infof("solicitud %d deleted by %d", id, p.ID)
	}
	return sol, nil
}
