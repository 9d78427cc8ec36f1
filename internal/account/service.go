package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/redmonkez12/jwt-auth-api/internal/apperror"
	"github.com/redmonkez12/jwt-auth-api/internal/auth"
	"github.com/redmonkez12/jwt-auth-api/internal/logging"
	"github.com/redmonkez12/jwt-auth-api/internal/user"
)

// Store is the credential store the service depends on. *user.Repository
// satisfies it.
type Store interface {
	Create(ctx context.Context, email, passwordHash, name string) (*user.Profile, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.Profile, error)
	Update(ctx context.Context, id uuid.UUID, fields user.UpdateFields) (*user.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	User  *user.Profile `json:"user"`
	Token string        `json:"token"`
}

// ProfileUpdate is a partial profile change. Nil fields are left untouched.
// Password is plaintext and is hashed before it reaches the store.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// Service handles account business logic
type Service struct {
	store  Store
	hasher auth.PasswordHasher
	tokens auth.TokenService
	logger *logging.Logger
}

func NewService(store Store, hasher auth.PasswordHasher, tokens auth.TokenService, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates an account and issues a session token for it
func (s *Service) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	_, err := s.store.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperror.ErrEmailAlreadyExists
	case !errors.Is(err, user.ErrNotFound):
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// The unique index decides races between concurrent registrations
	profile, err := s.store.Create(ctx, email, passwordHash, name)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, apperror.New(apperror.EmailAlreadyExists, err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.CreateToken(profile.ID, profile.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user registered", "user_id", profile.ID.String())

	return &AuthResult{User: profile, Token: token}, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	profile, err := s.store.GetByID(ctx, u.ID)
	if err != nil {
		// Deleted between the two reads
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.New(apperror.InvalidCredentials, err)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return &AuthResult{User: profile, Token: token}, nil
}

// GetProfile returns the public profile of the account
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*user.Profile, error) {
	profile, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperror.New(apperror.UserNotFound, err)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return profile, nil
}

// UpdateProfile applies the non-nil fields of upd to the account
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, upd ProfileUpdate) (*user.Profile, error) {
	current, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Email != nil && *upd.Email != current.Email {
		owner, err := s.store.GetByEmail(ctx, *upd.Email)
		switch {
		case err == nil && owner.ID != id:
			return nil, apperror.ErrEmailAlreadyExists
		case err != nil && !errors.Is(err, user.ErrNotFound):
			return nil, fmt.Errorf("failed to look up email: %w", err)
		}
	}

	fields := user.UpdateFields{
		Name:  upd.Name,
		Email: upd.Email,
	}
	if upd.Password != nil {
		passwordHash, err := s.hasher.Hash(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		fields.PasswordHash = &passwordHash
	}

	updated, err := s.store.Update(ctx, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicateEmail):
			return nil, apperror.New(apperror.EmailAlreadyExists, err)
		case errors.Is(err, user.ErrNotFound):
			return nil, apperror.New(apperror.UpdateFailed, err)
		default:
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	s.logger.Info("user profile updated", "user_id", id.String())

	return updated, nil
}

// DeleteProfile permanently removes the account. Tokens already issued for
// it stay valid until they expire.
func (s *Service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProfile(ctx, id); err != nil {
		return err
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return apperror.ErrDeleteFailed
	}

	s.logger.Info("user deleted", "user_id", id.String())

	return nil
}
