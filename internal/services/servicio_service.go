package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"fixiBack/internal/models"
)

// ServicioService manages the catalog. Image blobs live in the blob store;
// the relational store keeps their keys in insertion order.
type ServicioService struct {
	Servicios ServicioStore
	Blobs     BlobStore
	Log       Logger
}

func (s *ServicioService) owned(ctx context.Context, p models.Principal, id int) (models.Servicio, error) {
	servicio, err := s.Get(ctx, id)
	if err != nil {
		return models.Servicio{}, err
	}
	if p.Role != models.RoleProveedor || servicio.ProveedorID != p.ID {
		return models.Servicio{}, models.Forbidden("servicio %d belongs to another proveedor", id)
	}
	return servicio, nil
}

func validateServicio(sv models.Servicio) error {
	if strings.TrimSpace(sv.TipoServicio) == "" {
		return models.InvalidInput("tipo_servicio is required")
	}
	if strings.TrimSpace(sv.Ubicacion) == "" {
		return models.InvalidInput("ubicacion is required")
	}
	if sv.Costo <= 0 {
		return models.InvalidInput("costo must be greater than zero")
	}
	return nil
}

func applyServicioRequest(sv *models.Servicio, req models.ServicioRequest) {
	if req.TipoServicio != nil {
		sv.TipoServicio = *req.TipoServicio
	}
	if req.Ubicacion != nil {
		sv.Ubicacion = *req.Ubicacion
	}
	if req.Costo != nil {
		sv.Costo = *req.Costo
	}
	if req.Disponibilidad != nil {
		sv.Disponibilidad = *req.Disponibilidad
	}
	if req.DisponibilidadPago != nil {
		sv.DisponibilidadPago = *req.DisponibilidadPago
	}
	if req.Descripcion != nil {
		sv.Descripcion = req.Descripcion
	}
}

// Create publishes a servicio owned by the calling Proveedor.
func (s *ServicioService) Create(ctx context.Context, p models.Principal, req models.ServicioRequest) (models.Servicio, error) {
	if p.Role != models.RoleProveedor {
		return models.Servicio{}, models.Forbidden("only a Proveedor can publish a servicio")
	}
	sv := models.Servicio{Disponibilidad: true, ProveedorID: p.ID}
	applyServicioRequest(&sv, req)
	if err := validateServicio(sv); err != nil {
		return models.Servicio{}, err
	}
	created, err := s.Servicios.CreateServicio(ctx, sv)
	if err != nil {
		return models.Servicio{}, storeError("create servicio", err)
	}
	return created, nil
}

func (s *ServicioService) Get(ctx context.Context, id int) (models.Servicio, error) {
	sv, err := s.Servicios.GetServicioByID(ctx, id)
	if err != nil {
		return models.Servicio{}, lookupError("get servicio", "servicio", id, err)
	}
	return sv, nil
}

func (s *ServicioService) List(ctx context.Context, skip, limit int) ([]models.Servicio, error) {
	skip, limit = Page(skip, limit)
	out, err := s.Servicios.ListServicios(ctx, skip, limit)
	if err != nil {
		return nil, storeError("list servicios", err)
	}
	return out, nil
}

// Update applies the fields present in req. Existing solicitudes keep the
// cost they were created with.
func (s *ServicioService) Update(ctx context.Context, p models.Principal, id int, req models.ServicioRequest) (models.Servicio, error) {
	sv, err := s.owned(ctx, p, id)
	if err != nil {
		return models.Servicio{}, err
	}
	applyServicioRequest(&sv, req)
	if err := validateServicio(sv); err != nil {
		return models.Servicio{}, err
	}
	if err := s.Servicios.UpdateServicio(ctx, sv); err != nil {
		return models.Servicio{}, storeError("update servicio", err)
	}
	return sv, nil
}

// Delete removes the servicio and its images. The owner or an Admin may do so.
func (s *ServicioService) Delete(ctx context.Context, p models.Principal, id int) error {
	sv, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.Role != models.RoleAdmin && (p.Role != models.RoleProveedor || sv.ProveedorID != p.ID) {
		return models.Forbidden("servicio %d belongs to another proveedor", id)
	}

	keys := make([]string, 0, sv.Imagenes)
	for i := 0; i < sv.Imagenes; i++ {
		img, err := s.Servicios.GetImage(ctx, id, i)
		if err != nil {
			if errors.Is(err, models.ErrNoRecord) {
				break
			}
			return storeError("list servicio images", err)
		}
		keys = append(keys, img.ObjectKey)
	}

	if err := s.Servicios.DeleteServicio(ctx, id); err != nil {
		return lookupError("delete servicio", "servicio", id, err)
	}
	for _, key := range keys {
		if err := s.Blobs.Delete(ctx, key); err != nil && s.Log != nil {
			s.Log.Errorf("servicio %d: orphaned image %s: %v", id, key, err)
		}
	}
	return nil
}

// AddImages appends uploads to the end of the servicio's image list. The
// batch is all or nothing: blobs are stored first and the list entries are
// written together; on any failure the stored blobs are removed again.
func (s *ServicioService) AddImages(ctx context.Context, p models.Principal, id int, uploads []models.Upload) (models.Servicio, error) {
	sv, err := s.owned(ctx, p, id)
	if err != nil {
		return models.Servicio{}, err
	}
	if len(uploads) == 0 {
		return models.Servicio{}, models.InvalidInput("no images supplied")
	}
	for i, up := range uploads {
		if len(up.Data) == 0 {
			return models.Servicio{}, models.InvalidInput("image %d is empty", i)
		}
	}

	imgs := make([]models.ServicioImage, 0, len(uploads))
	for _, up := range uploads {
		contentType := up.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		key := fmt.Sprintf("servicios/%d/%s", id, uuid.NewString())
		if err := s.Blobs.Put(ctx, key, up.Data, contentType); err != nil {
			s.discardBlobs(ctx, id, imgs)
			return models.Servicio{}, models.StoreFailure("store servicio image", err)
		}
		imgs = append(imgs, models.ServicioImage{ServicioID: id, ObjectKey: key, ContentType: contentType})
	}
	if err := s.Servicios.AppendImages(ctx, imgs); err != nil {
		s.discardBlobs(ctx, id, imgs)
		return models.Servicio{}, storeError("append servicio images", err)
	}
	sv.Imagenes += len(imgs)
	return sv, nil
}

func (s *ServicioService) discardBlobs(ctx context.Context, id int, imgs []models.ServicioImage) {
	for _, img := range imgs {
		if err := s.Blobs.Delete(ctx, img.ObjectKey); err != nil && s.Log != nil {
			s.Log.Errorf("servicio %d: orphaned image %s: %v", id, img.ObjectKey, err)
		}
	}
}

// Image returns the blob at the zero-based index of the image list.
func (s *ServicioService) Image(ctx context.Context, id, index int) ([]byte, string, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, "", err
	}
	img, err := s.Servicios.GetImage(ctx, id, index)
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			return nil, "", models.NotFound("servicio %d has no image at index %d", id, index)
		}
		return nil, "", storeError("get servicio image", err)
	}
	data, contentType, err := s.Blobs.Get(ctx, img.ObjectKey)
	if err != nil {
		return nil, "", lookupError("read servicio image", "image", img.ObjectKey, err)
	}
	if contentType == "" {
		contentType = img.ContentType
	}
	return data, contentType, nil
}
