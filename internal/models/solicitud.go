package models

import (
	"fmt"
	"time"
)

// Status is the lifecycle label of a Solicitud.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusRejected   Status = "rejected"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusAccepted, StatusRejected, StatusInProgress, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Solicitud is a Cliente's request against a Servicio. Costo is a snapshot of
// the Servicio price at creation time.
type Solicitud struct {
	ID            int        `json:"solicitud_id"`
	ClienteID     int        `json:"cliente_id"`
	ServicioID    int        `json:"servicio_id"`
	ProveedorID   int        `json:"proveedor_id"`
	Costo         float64    `json:"costo"`
	Hora          *string    `json:"hora,omitempty"`
	FechaServicio *time.Time `json:"fecha_servicio,omitempty"`
	Fecha         time.Time  `json:"fecha"`
	Status        Status     `json:"status"`
	Cancelado     bool       `json:"cancelado"`
}

// Involves reports whether p is the requesting Cliente or the owning Proveedor.
func (s Solicitud) Involves(p Principal) bool {
	return p.ID == s.ClienteID || (s.ProveedorID != 0 && p.ID == s.ProveedorID)
}

type CreateSolicitudRequest struct {
	ServicioID    int        `json:"servicio_id"`
	Hora          *string    `json:"hora"`
	FechaServicio *time.Time `json:"fecha_servicio"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CancelRequest struct {
	Cancelado bool `json:"cancelado"`
}
