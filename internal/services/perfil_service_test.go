package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fixiBack/internal/models"
)

type perfilFixture struct {
	users    *memUsers
	perfiles *memPerfiles
	idem     *memIdempotency
	log      *testLogger
	svc      *PerfilService
}

func newPerfilFixture() *perfilFixture {
	f := &perfilFixture{
		users:    newMemUsers(),
		perfiles: newMemPerfiles(),
		idem:     newMemIdempotency(),
		log:      &testLogger{},
	}
	f.svc = &PerfilService{Perfiles: f.perfiles, Users: f.users, Idempotency: f.idem, Log: f.log}
	return f
}

func (f *perfilFixture) reload(t *testing.T, id int) models.User {
	t.Helper()
	u, err := f.users.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func strPtr(s string) *string { return &s }

func TestAssignTwiceConflictsAndKeepsReference(t *testing.T) {
	f := newPerfilFixture()
	ctx := context.Background()
	user := f.users.add(models.RoleProveedor)

	first, err := f.svc.Create(ctx, models.Perfil{Habilidades: []string{"gas"}})
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, models.Perfil{})
	require.NoError(t, err)

	require.NoError(t, f.svc.Assign(ctx, principal(user), user.ID, first.ID))

	err = f.svc.Assign(ctx, principal(user), user.ID, second.ID)
	assert.True(t, errors.Is(err, models.ErrConflict), "got %v", err)

	stored := f.reload(t, user.ID)
	require.NotNil(t, stored.PerfilID)
	assert.Equal(t, first.ID, *stored.PerfilID)
}

func TestAssignChecks(t *testing.T) {
	f := newPerfilFixture()
	ctx := context.Background()
	user := f.users.add(models.RoleCliente)
	other := f.users.add(models.RoleCliente)
	admin := f.users.add(models.RoleAdmin)
	perfil, err := f.svc.Create(ctx, models.Perfil{})
	require.NoError(t, err)

	err = f.svc.Assign(ctx, principal(other), user.ID, perfil.ID)
	assert.True(t, errors.Is(err, models.ErrForbidden))

	err = f.svc.Assign(ctx, principal(user), user.ID, "bogus")
	assert.True(t, errors.Is(err, models.ErrInvalidInput))

	err = f.svc.Assign(ctx, principal(user), user.ID, primitive.NewObjectID().Hex())
	assert.True(t, errors.Is(err, models.ErrNotFound))

	err = f.svc.Assign(ctx, principal(admin), 999, perfil.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	require.NoError(t, f.svc.Assign(ctx, principal(admin), user.ID, perfil.ID))
}

func TestPerfilReadAccess(t *testing.T) {
	f := newPerfilFixture()
	ctx := context.Background()
	owner := f.users.add(models.RoleProveedor)
	stranger := f.users.add(models.RoleCliente)
	admin := f.users.add(models.RoleAdmin)

	perfil, err := f.svc.Create(ctx, models.Perfil{Description: strPtr("electricista")})
	require.NoError(t, err)
	require.NoError(t, f.svc.Assign(ctx, principal(owner), owner.ID, perfil.ID))
	owner = f.reload(t, owner.ID)

	got, err := f.svc.Read(ctx, principal(owner), perfil.ID)
	require.NoError(t, err)
	assert.Equal(t, "electricista", *got.Description)

	_, err = f.svc.Read(ctx, principal(admin), perfil.ID)
	assert.NoError(t, err)

	_, err = f.svc.Read(ctx, principal(stranger), perfil.ID)
	assert.True(t, errors.Is(err, models.ErrForbidden))

	_, err = f.svc.Read(ctx, principal(owner), "not-an-object-id")
	assert.True(t, errors.Is(err, models.ErrInvalidInput))

	_, err = f.svc.Read(ctx, principal(admin), primitive.NewObjectID().Hex())
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestPerfilUpdateHasNoAdminOverride(t *testing.T) {
	f := newPerfilFixture()
	ctx := context.Background()
	owner := f.users.add(models.RoleCliente)
	admin := f.users.add(models.RoleAdmin)

	perfil, err := f.svc.CreateAndAssign(ctx, principal(owner), owner.ID, models.Perfil{}, "")
	require.NoError(t, err)
	owner = f.reload(t, owner.ID)

	_, err = f.svc.Update(ctx, principal(admin), perfil.ID, models.Perfil{Telefono: strPtr("555")})
	assert.True(t, errors.Is(err, models.ErrForbidden))

	updated, err := f.svc.Update(ctx, principal(owner), perfil.ID, models.Perfil{Telefono: strPtr("555")})
	require.NoError(t, err)
	assert.Equal(t, "555", *updated.Telefono)
}

func TestPerfilListAndDelete(t *testing.T) {
	f := newPerfilFixture()
	ctx := context.Background()
	owner := f.users.add(models.RoleCliente)
	admin := f.users.add(models.RoleAdmin)

	perfil, err := f.svc.CreateAndAssign(ctx, principal(owner), owner.ID, models.Perfil{}, "")
	require.NoError(t, err)
	owner = f.reload(t, owner.ID)

	_, err = f.svc.List(ctx, principal(owner), 0, 10)
	assert.True(t, errors.Is(err, models.ErrForbidden))

	list, err := f.svc.List(ctx, principal(admin), 0, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.svc.Delete(ctx, principal(owner), perfil.ID))
	err = f.svc.Delete(ctx, principal(admin), perfil.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	// the user row keeps pointing at the removed document
	assert.Equal(t, perfil.ID, *f.reload(t, owner.ID).PerfilID)
}

func TestCreateAndAssignCompensatesOnAssignFailure(t *testing.T) {
	f := newPerfilFixture()
	ctx := context.Background()
	user := f.users.add(models.RoleCliente)
	f.users.assignErr = errors.New("connection reset")

	_, err := f.svc.CreateAndAssign(ctx, principal(user), user.ID, models.Perfil{}, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrStoreFailure))

	assert.Zero(t, f.perfiles.count(), "orphaned perfil must be removed")
	assert.Equal(t, 1, f.perfiles.creates)
	assert.Nil(t, f.reload(t, user.ID).PerfilID)
}

func TestCreateAndAssignRejectsBoundUser(t *testing.T) {
	f := newPerfilFixture()
	ctx := context.Background()
	user := f.users.add(models.RoleCliente)

	_, err := f.svc.CreateAndAssign(ctx, principal(user), user.ID, models.Perfil{}, "")
	require.NoError(t, err)

	_, err = f.svc.CreateAndAssign(ctx, principal(user), user.ID, models.Perfil{}, "")
	assert.True(t, errors.Is(err, models.ErrConflict))
	assert.Equal(t, 1, f.perfiles.count())
}

func TestCreateAndAssignReplaysIdempotencyKey(t *testing.T) {
	f := newPerfilFixture()
	ctx := context.Background()
	user := f.users.add(models.RoleCliente)

	first, err := f.svc.CreateAndAssign(ctx, principal(user), user.ID, models.Perfil{Habilidades: []string{"pintura"}}, "req-1")
	require.NoError(t, err)

	again, err := f.svc.CreateAndAssign(ctx, principal(user), user.ID, models.Perfil{Habilidades: []string{"pintura"}}, "req-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 1, f.perfiles.creates)

	_, err = f.svc.CreateAndAssign(ctx, principal(user), user.ID, models.Perfil{}, "req-2")
	assert.True(t, errors.Is(err, models.ErrConflict))
}

func TestCreateAndAssignForbiddenForOthers(t *testing.T) {
	f := newPerfilFixture()
	user := f.users.add(models.RoleCliente)
	other := f.users.add(models.RoleProveedor)

	_, err := f.svc.CreateAndAssign(context.Background(), principal(other), user.ID, models.Perfil{}, "")
	assert.True(t, errors.Is(err, models.ErrForbidden))
	assert.Zero(t, f.perfiles.creates)
}
