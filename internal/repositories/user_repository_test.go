package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixiBack/internal/models"
)

var userCols = []string{"id", "name", "email", "password", "tipo_usuario", "perfil_id", "fechacreate"}

func TestAssignPerfilSetsReferenceOnce(t *testing.T) {
	db, mock := newMock(t)
	repo := &UserRepository{DB: db}
	ctx := context.Background()

	mock.ExpectExec("UPDATE users SET perfil_id = \\? WHERE id = \\? AND perfil_id IS NULL").
		WithArgs("p1", 7).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.AssignPerfil(ctx, 7, "p1"))

	mock.ExpectExec("UPDATE users SET perfil_id").
		WithArgs("p2", 7).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT perfil_id FROM users").WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"perfil_id"}).AddRow("p1"))
	assert.True(t, errors.Is(repo.AssignPerfil(ctx, 7, "p2"), models.ErrPerfilAssigned))
}

func TestAssignPerfilUnknownUser(t *testing.T) {
	db, mock := newMock(t)
	repo := &UserRepository{DB: db}

	mock.ExpectExec("UPDATE users SET perfil_id").WithArgs("p1", 99).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT perfil_id FROM users").WithArgs(99).WillReturnRows(sqlmock.NewRows([]string{"perfil_id"}))

	assert.True(t, errors.Is(repo.AssignPerfil(context.Background(), 99, "p1"), models.ErrNoRecord))
}

func TestGetUserByIDScansPerfil(t *testing.T) {
	db, mock := newMock(t)
	repo := &UserRepository{DB: db}
	now := time.Now().UTC()

	mock.ExpectQuery("FROM users WHERE id = \\?").WithArgs(1).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "Ana", "ana@x.mx", "hash", "Cliente", "abc", now))

	u, err := repo.GetUserByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCliente, u.Role)
	require.NotNil(t, u.PerfilID)
	assert.Equal(t, "abc", *u.PerfilID)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := &UserRepository{DB: db}

	mock.ExpectExec("INSERT INTO users").WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := repo.CreateUser(context.Background(), models.User{Name: "Ana", Email: "ana@x.mx", Role: models.RoleCliente})
	assert.True(t, errors.Is(err, models.ErrDuplicateEmail))
}
