package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"fixiBack/internal/models"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type memServicios struct {
	mu     sync.Mutex
	next   int
	rows   map[int]models.Servicio
	images map[int][]models.ServicioImage

	appendErr error
}

func newMemServicios() *memServicios {
	return &memServicios{rows: map[int]models.Servicio{}, images: map[int][]models.ServicioImage{}}
}

func (m *memServicios) CreateServicio(_ context.Context, s models.Servicio) (models.Servicio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	s.ID = m.next
	s.CreatedAt = fixedNow
	m.rows[s.ID] = s
	return s, nil
}

func (m *memServicios) GetServicioByID(_ context.Context, id int) (models.Servicio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return models.Servicio{}, models.ErrNoRecord
	}
	s.Imagenes = len(m.images[id])
	return s, nil
}

func (m *memServicios) ListServicios(_ context.Context, skip, limit int) ([]models.Servicio, error) {
	m.mu.Lock()
	ids := make([]int, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	sort.Ints(ids)
	out := []models.Servicio{}
	for _, id := range page(ids, skip, limit) {
		s, _ := m.GetServicioByID(context.Background(), id)
		out = append(out, s)
	}
	return out, nil
}

func (m *memServicios) UpdateServicio(_ context.Context, s models.Servicio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[s.ID]; ok {
		m.rows[s.ID] = s
	}
	return nil
}

func (m *memServicios) DeleteServicio(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return models.ErrNoRecord
	}
	delete(m.rows, id)
	delete(m.images, id)
	return nil
}

func (m *memServicios) AppendImages(_ context.Context, imgs []models.ServicioImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	for _, img := range imgs {
		m.next++
		img.ID = m.next
		m.images[img.ServicioID] = append(m.images[img.ServicioID], img)
	}
	return nil
}

func (m *memServicios) GetImage(_ context.Context, servicioID, index int) (models.ServicioImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	imgs := m.images[servicioID]
	if index < 0 || index >= len(imgs) {
		return models.ServicioImage{}, models.ErrNoRecord
	}
	return imgs[index], nil
}

func page(ids []int, skip, limit int) []int {
	if skip >= len(ids) {
		return nil
	}
	ids = ids[skip:]
	if limit < len(ids) {
		ids = ids[:limit]
	}
	return ids
}

// memSolicitudes resolves proveedor_id through the servicio rows on every
// read, like the LEFT JOIN in the SQL repository.
type memSolicitudes struct {
	mu           sync.Mutex
	next         int
	rows         map[int]models.Solicitud
	servicios    *memServicios
	beforeUpdate func(id int)
}

func newMemSolicitudes(servicios *memServicios) *memSolicitudes {
	return &memSolicitudes{rows: map[int]models.Solicitud{}, servicios: servicios}
}

func (m *memSolicitudes) join(s models.Solicitud) models.Solicitud {
	s.ProveedorID = 0
	if sv, err := m.servicios.GetServicioByID(context.Background(), s.ServicioID); err == nil {
		s.ProveedorID = sv.ProveedorID
	}
	return s
}

func (m *memSolicitudes) CreateSolicitud(_ context.Context, s models.Solicitud) (models.Solicitud, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	s.ID = m.next
	m.rows[s.ID] = s
	return s, nil
}

func (m *memSolicitudes) GetSolicitudByID(_ context.Context, id int) (models.Solicitud, error) {
	m.mu.Lock()
	s, ok := m.rows[id]
	m.mu.Unlock()
	if !ok {
		return models.Solicitud{}, models.ErrNoRecord
	}
	return m.join(s), nil
}

func (m *memSolicitudes) filter(keep func(models.Solicitud) bool, skip, limit int) []models.Solicitud {
	m.mu.Lock()
	ids := make([]int, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	sort.Ints(ids)

	var matched []int
	for _, id := range ids {
		s, _ := m.GetSolicitudByID(context.Background(), id)
		if keep(s) {
			matched = append(matched, id)
		}
	}
	out := []models.Solicitud{}
	for _, id := range page(matched, skip, limit) {
		s, _ := m.GetSolicitudByID(context.Background(), id)
		out = append(out, s)
	}
	return out
}

func (m *memSolicitudes) ListByCliente(_ context.Context, clienteID, skip, limit int) ([]models.Solicitud, error) {
	return m.filter(func(s models.Solicitud) bool { return s.ClienteID == clienteID }, skip, limit), nil
}

func (m *memSolicitudes) ListByProveedor(_ context.Context, proveedorID, skip, limit int) ([]models.Solicitud, error) {
	return m.filter(func(s models.Solicitud) bool { return s.ProveedorID == proveedorID }, skip, limit), nil
}

func (m *memSolicitudes) UpdateStatus(_ context.Context, id int, from, to models.Status) error {
	if m.beforeUpdate != nil {
		m.beforeUpdate(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok || s.Status != from {
		return models.ErrNoRecord
	}
	s.Status = to
	m.rows[id] = s
	return nil
}

func (m *memSolicitudes) SetCancelled(_ context.Context, id int, cancelled bool) error {
	if m.beforeUpdate != nil {
		m.beforeUpdate(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return models.ErrNoRecord
	}
	s.Cancelado = cancelled
	m.rows[id] = s
	return nil
}

func (m *memSolicitudes) DeleteSolicitud(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return models.ErrNoRecord
	}
	delete(m.rows, id)
	return nil
}

type memUsers struct {
	mu        sync.Mutex
	next      int
	rows      map[int]models.User
	assignErr error
}

func newMemUsers() *memUsers {
	return &memUsers{rows: map[int]models.User{}}
}

func (m *memUsers) add(role models.Role) models.User {
	u, _ := m.CreateUser(context.Background(), models.User{
		Name: "user", Email: fmt.Sprintf("u%d@fixi.mx", m.next+1), Role: role,
	})
	return u
}

func (m *memUsers) CreateUser(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.Email == u.Email {
			return models.User{}, models.ErrDuplicateEmail
		}
	}
	m.next++
	u.ID = m.next
	u.CreatedAt = fixedNow
	m.rows[u.ID] = u
	return u, nil
}

func (m *memUsers) GetUserByID(_ context.Context, id int) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return models.User{}, models.ErrNoRecord
	}
	return u, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, models.ErrNoRecord
}

func (m *memUsers) ListUsers(_ context.Context, skip, limit int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := []models.User{}
	for _, id := range page(ids, skip, limit) {
		out = append(out, m.rows[id])
	}
	return out, nil
}

func (m *memUsers) UpdateUser(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.rows {
		if id != u.ID && existing.Email == u.Email {
			return models.User{}, models.ErrDuplicateEmail
		}
	}
	stored := m.rows[u.ID]
	stored.Name, stored.Email, stored.Password = u.Name, u.Email, u.Password
	m.rows[u.ID] = stored
	return stored, nil
}

func (m *memUsers) DeleteUser(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return models.ErrNoRecord
	}
	delete(m.rows, id)
	return nil
}

func (m *memUsers) AssignPerfil(_ context.Context, userID int, perfilID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.assignErr != nil {
		return m.assignErr
	}
	u, ok := m.rows[userID]
	if !ok {
		return models.ErrNoRecord
	}
	if u.PerfilID != nil {
		return models.ErrPerfilAssigned
	}
	u.PerfilID = &perfilID
	m.rows[userID] = u
	return nil
}

type memPerfiles struct {
	mu      sync.Mutex
	rows    map[string]models.Perfil
	creates int
}

func newMemPerfiles() *memPerfiles {
	return &memPerfiles{rows: map[string]models.Perfil{}}
}

func checkPerfilID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return models.ErrInvalidID
	}
	return nil
}

func (m *memPerfiles) CreatePerfil(_ context.Context, p models.Perfil) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	p.ID = primitive.NewObjectID().Hex()
	m.rows[p.ID] = p
	return p.ID, nil
}

func (m *memPerfiles) GetPerfilByID(_ context.Context, id string) (models.Perfil, error) {
	if err := checkPerfilID(id); err != nil {
		return models.Perfil{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return models.Perfil{}, models.ErrNoRecord
	}
	return p, nil
}

func (m *memPerfiles) ListPerfiles(_ context.Context, skip, limit int) ([]models.Perfil, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Perfil{}
	for _, p := range m.rows {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if skip >= len(out) {
		return []models.Perfil{}, nil
	}
	out = out[skip:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memPerfiles) UpdatePerfil(_ context.Context, id string, p models.Perfil) error {
	if err := checkPerfilID(id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.rows[id]
	if !ok {
		return models.ErrNoRecord
	}
	if p.Description != nil {
		stored.Description = p.Description
	}
	if p.Habilidades != nil {
		stored.Habilidades = p.Habilidades
	}
	if p.Telefono != nil {
		stored.Telefono = p.Telefono
	}
	m.rows[id] = stored
	return nil
}

func (m *memPerfiles) DeletePerfil(_ context.Context, id string) error {
	if err := checkPerfilID(id); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return models.ErrNoRecord
	}
	delete(m.rows, id)
	return nil
}

func (m *memPerfiles) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type memIdempotency struct {
	mu   sync.Mutex
	keys map[string]string
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{keys: map[string]string{}}
}

func (m *memIdempotency) Lookup(_ context.Context, scope, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[scope+":"+key], nil
}

func (m *memIdempotency) Remember(_ context.Context, scope, key, result string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.keys[scope+":"+key]; ok {
		return prev, nil
	}
	m.keys[scope+":"+key] = result
	return result, nil
}

type blob struct {
	data        []byte
	contentType string
}

type memBlobs struct {
	mu     sync.Mutex
	blobs  map[string]blob
	putErr error

	// failOnPut makes the n-th Put (1-based) fail with putErr.
	failOnPut int
	puts      int
}

func newMemBlobs() *memBlobs {
	return &memBlobs{blobs: map[string]blob{}}
}

func (m *memBlobs) Put(_ context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil && (m.failOnPut == 0 || m.puts == m.failOnPut) {
		return m.putErr
	}
	m.blobs[key] = blob{data: data, contentType: contentType}
	return nil
}

func (m *memBlobs) Get(_ context.Context, key string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, "", models.ErrNoRecord
	}
	return b.data, b.contentType, nil
}

func (m *memBlobs) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

func (m *memBlobs) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}

type transitionLog struct {
	mu    sync.Mutex
	moves []string
}

func (t *transitionLog) ObserveTransition(from, to models.Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.moves = append(t.moves, string(from)+"->"+string(to))
}

type testLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *testLogger) Infof(string, ...interface{}) {}

func (l *testLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func principal(u models.User) models.Principal {
	return models.Principal{ID: u.ID, Role: u.Role, PerfilID: u.PerfilID}
}
