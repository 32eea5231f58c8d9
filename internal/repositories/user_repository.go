package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fixiBack/internal/models"
)

type UserRepository struct {
	DB *sql.DB
}

const userColumns = `id, name, email, password, tipo_usuario, perfil_id, fechacreate`

func scanUser(row interface{ Scan(...interface{}) error }) (models.User, error) {
	var (
		user     models.User
		perfilID sql.NullString
	)
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.Role, &perfilID, &user.CreatedAt); err != nil {
		return models.User{}, err
	}
	if perfilID.Valid {
		user.PerfilID = &perfilID.String
	}
	return user, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `INSERT INTO users (name, email, password, tipo_usuario, fechacreate) VALUES (?, ?, ?, ?, ?)`
	user.CreatedAt = time.Now().UTC().Truncate(time.Second)
	result, err := r.DB.ExecContext(ctx, query, user.Name, user.Email, user.Password, user.Role, user.CreatedAt)
	if err != nil {
		if mysqlErrNumber(err) == mysqlDuplicateEntry {
			return models.User{}, models.ErrDuplicateEmail
		}
		return models.User{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	user.ID = int(id)
	return user, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (models.User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNoRecord
	}
	return user, err
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, models.ErrNoRecord
	}
	return user, err
}

func (r *UserRepository) ListUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateUser rewrites name, email and password. Role and perfil reference are
// never touched here.
func (r *UserRepository) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	query := `UPDATE users SET name = ?, email = ?, password = ? WHERE id = ?`
	if _, err := r.DB.ExecContext(ctx, query, user.Name, user.Email, user.Password, user.ID); err != nil {
		if mysqlErrNumber(err) == mysqlDuplicateEntry {
			return models.User{}, models.ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return r.GetUserByID(ctx, user.ID)
}

func (r *UserRepository) DeleteUser(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNoRecord
	}
	return nil
}

// AssignPerfil binds perfilID to the user only if no reference is set yet.
// The conditional update makes the one-perfil-per-user check atomic.
func (r *UserRepository) AssignPerfil(ctx context.Context, userID int, perfilID string) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE users SET perfil_id = ? WHERE id = ? AND perfil_id IS NULL`, perfilID, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 1 {
		return nil
	}

	var current sql.NullString
	err = r.DB.QueryRowContext(ctx, `SELECT perfil_id FROM users WHERE id = ?`, userID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNoRecord
	}
	if err != nil {
		return err
	}
	return models.ErrPerfilAssigned
}
