package services

import (
	"context"
	"errors"

	"fixiBack/internal/models"
)

// Logger is the minimal logging surface the services need.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUserByID(ctx context.Context, id int) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context, skip, limit int) ([]models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
	DeleteUser(ctx context.Context, id int) error
	AssignPerfil(ctx context.Context, userID int, perfilID string) error
}

type ServicioStore interface {
	CreateServicio(ctx context.Context, s models.Servicio) (models.Servicio, error)
	GetServicioByID(ctx context.Context, id int) (models.Servicio, error)
	ListServicios(ctx context.Context, skip, limit int) ([]models.Servicio, error)
	UpdateServicio(ctx context.Context, s models.Servicio) error
	DeleteServicio(ctx context.Context, id int) error
	AppendImages(ctx context.Context, imgs []models.ServicioImage) error
	GetImage(ctx context.Context, servicioID, index int) (models.ServicioImage, error)
}

// ServicioReader is the slice of the catalog the lifecycle engine depends on.
type ServicioReader interface {
	GetServicioByID(ctx context.Context, id int) (models.Servicio, error)
}

type SolicitudStore interface {
	CreateSolicitud(ctx context.Context, s models.Solicitud) (models.Solicitud, error)
	GetSolicitudByID(ctx context.Context, id int) (models.Solicitud, error)
	ListByCliente(ctx context.Context, clienteID, skip, limit int) ([]models.Solicitud, error)
	ListByProveedor(ctx context.Context, proveedorID, skip, limit int) ([]models.Solicitud, error)
	UpdateStatus(ctx context.Context, id int, from, to models.Status) error
	SetCancelled(ctx context.Context, id int, cancelled bool) error
	DeleteSolicitud(ctx context.Context, id int) error
}

type PerfilStore interface {
	CreatePerfil(ctx context.Context, p models.Perfil) (string, error)
	GetPerfilByID(ctx context.Context, id string) (models.Perfil, error)
	ListPerfiles(ctx context.Context, skip, limit int) ([]models.Perfil, error)
	UpdatePerfil(ctx context.Context, id string, p models.Perfil) error
	DeletePerfil(ctx context.Context, id string) error
}

// IdempotencyStore keeps client request tokens for retry-safe operations.
type IdempotencyStore interface {
	Lookup(ctx context.Context, scope, key string) (string, error)
	Remember(ctx context.Context, scope, key, result string) (string, error)
}

// BlobStore holds binary objects by key.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
}

type HistorialStore interface {
	CreateHistorial(ctx context.Context, h models.Historial) (models.Historial, error)
	GetHistorialByID(ctx context.Context, id int) (models.Historial, error)
	ListHistorial(ctx context.Context, skip, limit int) ([]models.Historial, error)
	UpdateHistorial(ctx context.Context, h models.Historial) error
	DeleteHistorial(ctx context.Context, id int) error
}

type PagoStore interface {
	CreatePago(ctx context.Context, p models.Pago) (models.Pago, error)
	GetPagoByID(ctx context.Context, id int) (models.Pago, error)
	ListPagos(ctx context.Context, skip, limit int) ([]models.Pago, error)
	UpdatePago(ctx context.Context, p models.Pago) error
	DeletePago(ctx context.Context, id int) error
}

type CalificacionStore interface {
	CreateCalificacion(ctx context.Context, c models.Calificacion) (models.Calificacion, error)
	GetCalificacionByID(ctx context.Context, id int) (models.Calificacion, error)
	ListCalificaciones(ctx context.Context, skip, limit int) ([]models.Calificacion, error)
	UpdateCalificacion(ctx context.Context, c models.Calificacion) error
	DeleteCalificacion(ctx context.Context, id int) error
}

type ChatStore interface {
	CreateChat(ctx context.Context, c models.Chat) (models.Chat, error)
	GetChatByID(ctx context.Context, id int) (models.Chat, error)
	ListChats(ctx context.Context, skip, limit int) ([]models.Chat, error)
	ListConversation(ctx context.Context, proveedorID, clienteID, skip, limit int) ([]models.Chat, error)
	UpdateChat(ctx context.Context, c models.Chat) error
	DeleteChat(ctx context.Context, id int) error
}

// Notifier pushes a freshly stored chat message to connected parties.
type Notifier interface {
	Publish(chat models.Chat)
}

// TransitionRecorder observes applied status changes.
type TransitionRecorder interface {
	ObserveTransition(from, to models.Status)
}

// storeError classifies a repository error that has no entity-specific meaning.
func storeError(op string, err error) error {
	var classified *models.Error
	switch {
	case errors.As(err, &classified):
		return err
	case errors.Is(err, models.ErrBadReference):
		return models.InvalidInput("%s: referenced record does not exist", op)
	}
	return models.StoreFailure(op, err)
}

// lookupError is storeError for single-entity reads and writes: a missing row
// becomes NotFound with the given label.
func lookupError(op, label string, id interface{}, err error) error {
	if errors.Is(err, models.ErrNoRecord) {
		return models.NotFound("%s %v not found", label, id)
	}
	return storeError(op, err)
}
