package service

import (
	"context"
	"errors"
	"net/mail"

	"github.com/google/uuid"

	"github.com/classiflow/classiflow-go/internal/crypto"
	"github.com/classiflow/classiflow-go/internal/model"
	"github.com/classiflow/classiflow-go/internal/repository"
)

const (
	minPasswordLength = 8
	minNameLength     = 2
)

// Validation messages shown next to the offending field.
const (
	msgInvalidEmail      = "Invalid email address"
	msgPasswordTooShort  = "Password must be at least 8 characters"
	msgFirstNameTooShort = "First name must be at least 2 characters"
	msgLastNameTooShort  = "Last name must be at least 2 characters"
)

// UserRepository defines the persistence operations AuthService needs.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id, firstName, lastName, email string) error
	Delete(ctx context.Context, id string) error
}

// AuthService implements the authentication actions: login, signup, current
// user, profile update and account deletion. Sessions are stateless — the
// signed token is the whole session, verified on every call.
type AuthService struct {
	repo  UserRepository
	codec *crypto.TokenCodec
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo UserRepository, codec *crypto.TokenCodec) *AuthService {
	return &AuthService{repo: repo, codec: codec}
}

// Login verifies credentials and issues a session token.
// The returned token is set as a cookie by the caller only on success.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.SessionUser, string, error) {
	verr := newValidationError()
	if !validEmail(email) {
		verr.add("email", msgInvalidEmail)
	}
	if len(password) < minPasswordLength {
		verr.add("password", msgPasswordTooShort)
	}
	if err := verr.orNil(); err != nil {
		return model.SessionUser{}, "", err
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return model.SessionUser{}, "", err
	}

	if !crypto.VerifyPassword(password, user.PasswordHash) {
		return model.SessionUser{}, "", ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return model.SessionUser{}, "", err
	}

	return sessionUser(user), token, nil
}

// CreateAccount registers a new user and issues a session token, identically
// to a successful login.
func (s *AuthService) CreateAccount(ctx context.Context, req model.CreateAccountRequest) (model.SessionUser, string, error) {
	verr := newValidationError()
	if len(req.FirstName) < minNameLength {
		verr.add("firstName", msgFirstNameTooShort)
	}
	if len(req.LastName) < minNameLength {
		verr.add("lastName", msgLastNameTooShort)
	}
	if !validEmail(req.Email) {
		verr.add("email", msgInvalidEmail)
	}
	if len(req.Password) < minPasswordLength {
		verr.add("password", msgPasswordTooShort)
	}
	if err := verr.orNil(); err != nil {
		return model.SessionUser{}, "", err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.SessionUser{}, "", err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return model.SessionUser{}, "", err
	}

	token, err := s.codec.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return model.SessionUser{}, "", err
	}

	return sessionUser(user), token, nil
}

// CurrentUser resolves the session token to a fresh user profile. It returns
// (nil, nil) — anonymous, not an error — for a missing, tampered or expired
// token, and for a token whose user no longer exists. Profile fields always
// come from the store, never from the token claims.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.Profile, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil, nil
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &model.Profile{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		Bio:       user.Bio,
		IsActive:  user.IsActive,
	}, nil
}

// UpdateProfile changes first name, last name and email for the session's
// own user. Role is not an input and can never change through this path.
func (s *AuthService) UpdateProfile(ctx context.Context, token string, req model.UpdateProfileRequest) error {
	current, err := s.CurrentUser(ctx, token)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrUnauthenticated
	}

	verr := newValidationError()
	if len(req.FirstName) < minNameLength {
		verr.add("firstName", msgFirstNameTooShort)
	}
	if len(req.LastName) < minNameLength {
		verr.add("lastName", msgLastNameTooShort)
	}
	if !validEmail(req.Email) {
		verr.add("email", msgInvalidEmail)
	}
	if err := verr.orNil(); err != nil {
		return err
	}

	return s.repo.UpdateProfile(ctx, current.ID, req.FirstName, req.LastName, req.Email)
}

// DeleteAccount removes the session's own user record. Without a verified
// session it fails before touching the store.
func (s *AuthService) DeleteAccount(ctx context.Context, token string) error {
	current, err := s.CurrentUser(ctx, token)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrUnauthenticated
	}

	return s.repo.Delete(ctx, current.ID)
}

func sessionUser(user *model.User) model.SessionUser {
	return model.SessionUser{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.FirstName + " " + user.LastName,
	}
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
