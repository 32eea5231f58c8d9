package models

import "time"

type Historial struct {
	ID         int       `json:"historial_id"`
	ClienteID  int       `json:"cliente_id"`
	ServicioID int       `json:"servicio_id"`
	Fecha      time.Time `json:"fecha"`
}

type HistorialRequest struct {
	ClienteID  int `json:"cliente_id"`
	ServicioID int `json:"servicio_id"`
}

type Direccion struct {
	Ciudad      string `json:"ciudad" bson:"ciudad"`
	Colonia     string `json:"colonia" bson:"colonia"`
	Avenida     string `json:"avenida" bson:"avenida"`
	NumExterior int    `json:"numexterior" bson:"numexterior"`
	CodigoPost  int    `json:"codigopost" bson:"codigopost"`
}

type Tarjeta struct {
	Numero string `json:"numero"`
	Nombre string `json:"nombre"`
	CVC    string `json:"cvc,omitempty"`
}

// Masked returns a copy safe to hand back to clients.
func (t Tarjeta) Masked() Tarjeta {
	n := t.Numero
	if len(n) > 4 {
		n = n[len(n)-4:]
	}
	return Tarjeta{Numero: "****" + n, Nombre: t.Nombre}
}

type Pago struct {
	ID          int       `json:"pago_id"`
	Monto       float64   `json:"monto"`
	ClienteID   int       `json:"cliente_id"`
	SolicitudID int       `json:"solicitud_id"`
	Direccion   Direccion `json:"direccion"`
	Tarjeta     Tarjeta   `json:"tarjeta"`
}

type PagoRequest struct {
	Monto       float64    `json:"monto"`
	ClienteID   int        `json:"cliente_id"`
	SolicitudID int        `json:"solicitud_id"`
	Direccion   *Direccion `json:"direccion"`
	Tarjeta     *Tarjeta   `json:"tarjeta"`
}

type Calificacion struct {
	ID         int       `json:"calificacion_id"`
	Puntuaje   int       `json:"puntuaje"`
	Resena     *string   `json:"reseña,omitempty"`
	Fecha      time.Time `json:"fecha"`
	ClienteID  int       `json:"cliente_id"`
	ServicioID int       `json:"servicio_id"`
}

type CalificacionRequest struct {
	Puntuaje   int     `json:"puntuaje"`
	Resena     *string `json:"reseña"`
	ClienteID  int     `json:"cliente_id"`
	ServicioID int     `json:"servicio_id"`
}

// Chat is a single message between a Proveedor and a Cliente.
type Chat struct {
	ID          int       `json:"chat_id"`
	Mensaje     string    `json:"mensaje"`
	FechaCreate time.Time `json:"fechacreate"`
	ProveedorID int       `json:"proveedor_id"`
	ClienteID   int       `json:"cliente_id"`
}

type ChatRequest struct {
	Mensaje     string `json:"mensaje"`
	ProveedorID int    `json:"proveedor_id"`
	ClienteID   int    `json:"cliente_id"`
}
