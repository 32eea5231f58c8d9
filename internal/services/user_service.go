package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"fixiBack/internal/models"
)

const minPasswordLength = 6

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	NewAccessToken(userID int, role string) (string, error)
}

type UserService struct {
	Users  UserStore
	Tokens TokenIssuer
	Log    Logger
}

func validateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return models.InvalidInput("invalid email %q", email)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", models.InvalidInput("password must have at least %d characters", minPasswordLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", models.InvalidInput("password cannot be hashed: %v", err)
	}
	return string(hashed), nil
}

func userWriteError(op string, err error) error {
	if errors.Is(err, models.ErrDuplicateEmail) {
		return models.Conflict("email already registered")
	}
	return storeError(op, err)
}

// SignUp registers a user. The role is fixed for the user's lifetime.
func (s *UserService) SignUp(ctx context.Context, req models.SignUpRequest) (models.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.User{}, models.InvalidInput("name is required")
	}
	email := strings.TrimSpace(req.Email)
	if err := validateEmail(email); err != nil {
		return models.User{}, err
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return models.User{}, models.InvalidInput("%v", err)
	}
	hashed, err := hashPassword(req.Password)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.Users.CreateUser(ctx, models.User{Name: name, Email: email, Password: hashed, Role: role})
	if err != nil {
		return models.User{}, userWriteError("create user", err)
	}
	if s.Log != nil {
		s.Log.Infof("user %d registered as %s", user.ID, user.Role)
	}
	return user, nil
}

// SignIn exchanges credentials for an access token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) SignIn(ctx context.Context, req models.SignInRequest) (models.TokenResponse, error) {
	user, err := s.Users.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			return models.TokenResponse{}, models.Unauthorized("invalid email or password")
		}
		return models.TokenResponse{}, storeError("get user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.TokenResponse{}, models.Unauthorized("invalid email or password")
	}

	token, err := s.Tokens.NewAccessToken(user.ID, string(user.Role))
	if err != nil {
		return models.TokenResponse{}, models.StoreFailure("sign access token", err)
	}
	return models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
	}, nil
}

func (s *UserService) Get(ctx context.Context, p models.Principal, id int) (models.User, error) {
	if !selfOrAdmin(p, id) {
		return models.User{}, models.Forbidden("not authorized to access user %d", id)
	}
	user, err := s.Users.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, lookupError("get user", "user", id, err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, p models.Principal, skip, limit int) ([]models.User, error) {
	if p.Role != models.RoleAdmin {
		return nil, models.Forbidden("only an Admin can list users")
	}
	skip, limit = Page(skip, limit)
	users, err := s.Users.ListUsers(ctx, skip, limit)
	if err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}

// Update lets a user change their own name, email or password.
func (s *UserService) Update(ctx context.Context, p models.Principal, id int, req models.UpdateUserRequest) (models.User, error) {
	if p.ID != id {
		return models.User{}, models.Forbidden("not authorized to update user %d", id)
	}
	user, err := s.Users.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, lookupError("get user", "user", id, err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return models.User{}, models.InvalidInput("name is required")
		}
		user.Name = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if err := validateEmail(email); err != nil {
			return models.User{}, err
		}
		user.Email = email
	}
	if req.Password != nil {
		hashed, err := hashPassword(*req.Password)
		if err != nil {
			return models.User{}, err
		}
		user.Password = hashed
	}

	updated, err := s.Users.UpdateUser(ctx, user)
	if err != nil {
		return models.User{}, userWriteError("update user", err)
	}
	return updated, nil
}

// Delete removes the user row. Their perfil document, if any, is left in place.
func (s *UserService) Delete(ctx context.Context, p models.Principal, id int) error {
	if !selfOrAdmin(p, id) {
		return models.Forbidden("not authorized to delete user %d", id)
	}
	if err := s.Users.DeleteUser(ctx, id); err != nil {
		return lookupError("delete user", "user", id, err)
	}
	if s.Log != nil {
		s.Log.Infof("user %d deleted by %d", id, p.ID)
	}
	return nil
}
