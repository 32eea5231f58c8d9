package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixiBack/internal/models"
)

type catalogFixture struct {
	store *memServicios
	blobs *memBlobs
	svc   *ServicioService

	owner, rival, cliente, admin models.Principal
}

func newCatalogFixture() *catalogFixture {
	users := newMemUsers()
	f := &catalogFixture{store: newMemServicios(), blobs: newMemBlobs()}
	f.svc = &ServicioService{Servicios: f.store, Blobs: f.blobs, Log: &testLogger{}}
	f.owner = principal(users.add(models.RoleProveedor))
	f.rival = principal(users.add(models.RoleProveedor))
	f.cliente = principal(users.add(models.RoleCliente))
	f.admin = principal(users.add(models.RoleAdmin))
	return f
}

func servicioRequest(costo float64) models.ServicioRequest {
	tipo, ubicacion := "jardineria", "Comitan"
	return models.ServicioRequest{TipoServicio: &tipo, Ubicacion: &ubicacion, Costo: &costo}
}

func TestServicioCreate(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	sv, err := f.svc.Create(ctx, f.owner, servicioRequest(120))
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, sv.ProveedorID)
	assert.True(t, sv.Disponibilidad)

	_, err = f.svc.Create(ctx, f.cliente, servicioRequest(120))
	assert.True(t, errors.Is(err, models.ErrForbidden))

	_, err = f.svc.Create(ctx, f.owner, servicioRequest(0))
	assert.True(t, errors.Is(err, models.ErrInvalidInput))

	_, err = f.svc.Create(ctx, f.owner, models.ServicioRequest{})
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestServicioUpdateOwnerOnly(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()
	sv, err := f.svc.Create(ctx, f.owner, servicioRequest(120))
	require.NoError(t, err)

	off := false
	_, err = f.svc.Update(ctx, f.rival, sv.ID, models.ServicioRequest{Disponibilidad: &off})
	assert.True(t, errors.Is(err, models.ErrForbidden))

	_, err = f.svc.Update(ctx, f.admin, sv.ID, models.ServicioRequest{Disponibilidad: &off})
	assert.True(t, errors.Is(err, models.ErrForbidden))

	negative := -5.0
	_, err = f.svc.Update(ctx, f.owner, sv.ID, models.ServicioRequest{Costo: &negative})
	assert.True(t, errors.Is(err, models.ErrInvalidInput))

	updated, err := f.svc.Update(ctx, f.owner, sv.ID, models.ServicioRequest{Disponibilidad: &off})
	require.NoError(t, err)
	assert.False(t, updated.Disponibilidad)
	assert.Equal(t, 120.0, updated.Costo)

	_, err = f.svc.Update(ctx, f.owner, 999, models.ServicioRequest{})
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestServicioImagesInOrder(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()
	sv, err := f.svc.Create(ctx, f.owner, servicioRequest(120))
	require.NoError(t, err)

	uploads := []models.Upload{
		{Data: []byte("first"), ContentType: "image/png"},
		{Data: []byte("second"), ContentType: "image/jpeg"},
	}
	_, err = f.svc.AddImages(ctx, f.rival, sv.ID, uploads)
	assert.True(t, errors.Is(err, models.ErrForbidden))

	updated, err := f.svc.AddImages(ctx, f.owner, sv.ID, uploads)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Imagenes)

	data, contentType, err := f.svc.Image(ctx, sv.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.Equal(t, "image/jpeg", contentType)

	_, _, err = f.svc.Image(ctx, sv.ID, 2)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, _, err = f.svc.Image(ctx, 999, 0)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, err = f.svc.AddImages(ctx, f.owner, sv.ID, []models.Upload{{ContentType: "image/png"}})
	assert.True(t, errors.Is(err, models.ErrInvalidInput))
}

func TestServicioImageBlobFailure(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()
	sv, err := f.svc.Create(ctx, f.owner, servicioRequest(120))
	require.NoError(t, err)
	f.blobs.putErr = errors.New("bucket unavailable")

	_, err = f.svc.AddImages(ctx, f.owner, sv.ID, []models.Upload{{Data: []byte("x")}})
	assert.True(t, errors.Is(err, models.ErrStoreFailure))

	got, err := f.svc.Get(ctx, sv.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Imagenes)
}

func TestServicioImageBatchIsAllOrNothing(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()
	sv, err := f.svc.Create(ctx, f.owner, servicioRequest(120))
	require.NoError(t, err)

	uploads := []models.Upload{
		{Data: []byte("one"), ContentType: "image/png"},
		{Data: []byte("two"), ContentType: "image/png"},
		{Data: []byte("three"), ContentType: "image/png"},
	}

	f.blobs.putErr = errors.New("bucket unavailable")
	f.blobs.failOnPut = 3
	_, err = f.svc.AddImages(ctx, f.owner, sv.ID, uploads)
	assert.True(t, errors.Is(err, models.ErrStoreFailure))
	assert.Zero(t, f.blobs.count())

	f.blobs.putErr = nil
	f.store.appendErr = errors.New("lock wait timeout")
	_, err = f.svc.AddImages(ctx, f.owner, sv.ID, uploads)
	assert.True(t, errors.Is(err, models.ErrStoreFailure))
	assert.Zero(t, f.blobs.count())

	got, err := f.svc.Get(ctx, sv.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Imagenes)
}

func TestServicioDeleteOwnerOrAdmin(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()
	sv, err := f.svc.Create(ctx, f.owner, servicioRequest(120))
	require.NoError(t, err)
	_, err = f.svc.AddImages(ctx, f.owner, sv.ID, []models.Upload{{Data: []byte("x")}})
	require.NoError(t, err)

	assert.True(t, errors.Is(f.svc.Delete(ctx, f.rival, sv.ID), models.ErrForbidden))
	require.NoError(t, f.svc.Delete(ctx, f.admin, sv.ID))
	assert.Zero(t, f.blobs.count())
	assert.True(t, errors.Is(f.svc.Delete(ctx, f.owner, sv.ID), models.ErrNotFound))
}

func TestServicioList(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(ctx, f.owner, servicioRequest(float64(10*(i+1))))
		require.NoError(t, err)
	}

	list, err := f.svc.List(ctx, -4, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 10.0, list[0].Costo)
}
