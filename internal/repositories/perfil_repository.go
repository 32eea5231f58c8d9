package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fixiBack/internal/models"
)

// PerfilRepository stores perfil documents in MongoDB. Ids are ObjectIDs
// exposed as hex strings.
type PerfilRepository struct {
	Collection *mongo.Collection
}

type perfilDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	models.Perfil `bson:",inline"`
}

func parsePerfilID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, models.ErrInvalidID
	}
	return oid, nil
}

func (r *PerfilRepository) CreatePerfil(ctx context.Context, p models.Perfil) (string, error) {
	if p.Habilidades == nil {
		p.Habilidades = []string{}
	}
	res, err := r.Collection.InsertOne(ctx, perfilDocument{Perfil: p})
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.New("perfil insert returned a non-ObjectID key")
	}
	return oid.Hex(), nil
}

func (r *PerfilRepository) GetPerfilByID(ctx context.Context, id string) (models.Perfil, error) {
	oid, err := parsePerfilID(id)
	if err != nil {
		return models.Perfil{}, err
	}
	var doc perfilDocument
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Perfil{}, models.ErrNoRecord
	}
	if err != nil {
		return models.Perfil{}, err
	}
	doc.Perfil.ID = doc.ID.Hex()
	return doc.Perfil, nil
}

func (r *PerfilRepository) ListPerfiles(ctx context.Context, skip, limit int) ([]models.Perfil, error) {
	opts := options.Find().SetSkip(int64(skip)).SetLimit(int64(limit)).SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Perfil{}
	for cur.Next(ctx) {
		var doc perfilDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		doc.Perfil.ID = doc.ID.Hex()
		out = append(out, doc.Perfil)
	}
	return out, cur.Err()
}

// UpdatePerfil replaces the fields present in p. Unset optional fields are
// left as stored.
func (r *PerfilRepository) UpdatePerfil(ctx context.Context, id string, p models.Perfil) error {
	oid, err := parsePerfilID(id)
	if err != nil {
		return err
	}
	set := bson.M{}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Habilidades != nil {
		set["habilidades"] = p.Habilidades
	}
	if p.Telefono != nil {
		set["telefono"] = *p.Telefono
	}
	if p.Direccion != nil {
		set["direccion"] = p.Direccion
	}
	if p.Foto != nil {
		set["foto"] = p.Foto
	}
	if p.Galeria != nil {
		set["galeria"] = p.Galeria
	}

	filter := bson.M{"_id": oid}
	if len(set) == 0 {
		n, err := r.Collection.CountDocuments(ctx, filter)
		if err != nil {
			return err
		}
		if n == 0 {
			return models.ErrNoRecord
		}
		return nil
	}
	res, err := r.Collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNoRecord
	}
	return nil
}

func (r *PerfilRepository) DeletePerfil(ctx context.Context, id string) error {
	oid, err := parsePerfilID(id)
	if err != nil {
		return err
	}
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNoRecord
	}
	return nil
}
