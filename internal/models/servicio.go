package models

import "time"

// Servicio is a Proveedor-owned offering.
type Servicio struct {
	ID                 int       `json:"servicio_id"`
	TipoServicio       string    `json:"tipo_servicio"`
	Ubicacion          string    `json:"ubicacion"`
	Costo              float64   `json:"costo"`
	Disponibilidad     bool      `json:"disponibilidad"`
	DisponibilidadPago bool      `json:"disponibilidadpago"`
	Descripcion        *string   `json:"descripcion,omitempty"`
	ProveedorID        int       `json:"proveedor_id"`
	Imagenes           int       `json:"imagenes"`
	CreatedAt          time.Time `json:"created_at"`
}

type ServicioRequest struct {
	TipoServicio       *string  `json:"tipo_servicio"`
	Ubicacion          *string  `json:"ubicacion"`
	Costo              *float64 `json:"costo"`
	Disponibilidad     *bool    `json:"disponibilidad"`
	DisponibilidadPago *bool    `json:"disponibilidadpago"`
	Descripcion        *string  `json:"descripcion"`
}

// ServicioImage is one entry of the ordered image list of a Servicio.
type ServicioImage struct {
	ID          int    `json:"id"`
	ServicioID  int    `json:"servicio_id"`
	ObjectKey   string `json:"object_key"`
	ContentType string `json:"content_type"`
}

// Upload is a binary blob received from a client.
type Upload struct {
	Data        []byte
	ContentType string
}
