package models

// Perfil is the document-store profile. Its ID is an opaque store-generated
// identifier.
type Perfil struct {
	ID          string     `json:"id" bson:"-"`
	Description *string    `json:"description,omitempty" bson:"description,omitempty"`
	Habilidades []string   `json:"habilidades" bson:"habilidades"`
	Telefono    *string    `json:"telefono,omitempty" bson:"telefono,omitempty"`
	Direccion   *Direccion `json:"direccion,omitempty" bson:"direccion,omitempty"`
	Foto        []byte     `json:"foto,omitempty" bson:"foto,omitempty"`
	Galeria     [][]byte   `json:"galeria,omitempty" bson:"galeria,omitempty"`
}
