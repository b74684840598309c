package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"preschool/internal/apperr"
	"preschool/internal/auth"
	"preschool/internal/logging"
)

var errBadCredentials = errors.New("invalid email or password")

// Revoker ends every session a user holds.
type Revoker interface {
	Revoke(ctx context.Context, userID int64) error
}

// Service manages accounts and checks credentials.
type Service struct {
	repo    Repository
	revoker Revoker
	cost    int
	log     *slog.Logger
}

// NewService creates a user service. revoker may be nil.
func NewService(repo Repository, revoker Revoker, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:    repo,
		revoker: revoker,
		cost:    bcrypt.DefaultCost,
		log:     log.With(logging.Module("users.service")),
	}
}

// Create adds an account. Only admins may create users.
func (s *Service) Create(ctx context.Context, in NewUser, role auth.Role) (User, error) {
	if !auth.Can(role, auth.CapManageUsers) {
		return User{}, fmt.Errorf("create user as %s: %w", role, apperr.ErrUnauthorized)
	}
	return s.create(ctx, in)
}

func (s *Service) create(ctx context.Context, in NewUser) (User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := apperr.Validate(in); err != nil {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.repo.Insert(ctx, User{
		Email:        in.Email,
		Name:         in.Name,
		Role:         auth.Role(in.Role),
		PasswordHash: string(hash),
	})
	if errors.Is(err, ErrDuplicateEmail) {
		return User{}, apperr.NewValidationError(err, apperr.FieldError{Field: "email", Error: err.Error()})
	}
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	s.log.Info("user created", slog.Int64("id", u.ID), slog.String("role", string(u.Role)))
	return u, nil
}

// List returns all accounts.
func (s *Service) List(ctx context.Context, role auth.Role) ([]User, error) {
	if !auth.Can(role, auth.CapManageUsers) {
		return nil, fmt.Errorf("list users as %s: %w", role, apperr.ErrUnauthorized)
	}
	return s.repo.List(ctx)
}

// Delete removes an account and ends its sessions.
func (s *Service) Delete(ctx context.Context, id int64, actor auth.Actor) error {
	if !auth.Can(actor.Role, auth.CapManageUsers) {
		return fmt.Errorf("delete user as %s: %w", actor.Role, apperr.ErrUnauthorized)
	}
	if id == actor.UserID {
		return apperr.NewValidationError(errors.New("cannot delete own account"),
			apperr.FieldError{Field: "id", Error: "cannot delete the signed-in account"})
	}
	// sessions carry the role, so they must be gone before the row is
	if s.revoker != nil {
		if err := s.revoker.Revoke(ctx, id); err != nil {
			s.log.Error("revoke sessions failed", slog.Int64("id", id), logging.Err(err))
			return fmt.Errorf("revoke sessions of user %d: %w", id, err)
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", slog.Int64("id", id))
	return nil
}

// Authenticate checks credentials and returns the user's actor. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, in Credentials) (auth.Actor, error) {
	if err := apperr.Validate(in); err != nil {
		return auth.Anonymous, err
	}
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return auth.Anonymous, fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, errBadCredentials)
		}
		return auth.Anonymous, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		s.log.Warn("failed login", slog.Int64("id", u.ID))
		return auth.Anonymous, fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, errBadCredentials)
	}
	return u.Actor(), nil
}

// EnsureAdmin creates the bootstrap admin unless an account with the email
// already exists. It reports whether a user was created.
func (s *Service) EnsureAdmin(ctx context.Context, email, name, password string) (bool, error) {
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return false, err
	}
	_, err := s.create(ctx, NewUser{Email: email, Name: name, Role: string(auth.RoleAdmin), Password: password})
	if err != nil {
		return false, err
	}
	return true, nil
}
