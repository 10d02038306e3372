package user

import (
	"context"

	"university/internal/apperr"
	"university/internal/auth"
)

// Service handles account registration, login checks and profile updates.
type Service struct {
	repo *Repository
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput is the validated payload for a new account.
type RegisterInput struct {
	Username string
	Password string
	FullName string
	Email    string
	Role     auth.Role
	GroupID  *string
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if len(in.Password) < 8 {
		return User{}, apperr.New(apperr.Validation, "password must be at least 8 characters")
	}
	if !auth.ValidRole(string(in.Role)) {
		return User{}, apperr.Newf(apperr.Validation, "unknown role %q", in.Role)
	}
	existing, err := s.repo.ByUsername(ctx, in.Username)
	if err != nil {
		return User{}, err
	}
	if existing != nil {
		return User{}, apperr.New(apperr.Conflict, "username already exists")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	return s.repo.Insert(ctx, User{
		Username:     in.Username,
		PasswordHash: hash,
		FullName:     in.FullName,
		Email:        in.Email,
		Role:         in.Role,
		GroupID:      in.GroupID,
		IsActive:     true,
	})
}

// Authenticate checks credentials and returns the account. Wrong username
// and wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := s.repo.ByUsername(ctx, username)
	if err != nil {
		return User{}, err
	}
	if u == nil || !auth.VerifyPassword(password, u.PasswordHash) {
		return User{}, apperr.New(apperr.Unauthenticated, "incorrect username or password")
	}
	return *u, nil
}

// Me returns the caller's own record.
func (s *Service) Me(ctx context.Context, p auth.Principal) (User, error) {
	u, err := s.repo.ByID(ctx, p.UserID)
	if err != nil {
		return User{}, err
	}
	if u == nil {
		return User{}, apperr.New(apperr.NotFound, "user not found")
	}
	return *u, nil
}

// UpdateMe applies a patch to the caller's own record.
func (s *Service) UpdateMe(ctx context.Context, p auth.Principal, patch Patch) (User, error) {
	if patch.Role != nil && !auth.ValidRole(string(*patch.Role)) {
		return User{}, apperr.Newf(apperr.Validation, "unknown role %q", *patch.Role)
	}
	if patch.Username != nil && *patch.Username != p.Username {
		existing, err := s.repo.ByUsername(ctx, *patch.Username)
		if err != nil {
			return User{}, err
		}
		if existing != nil {
			return User{}, apperr.New(apperr.Conflict, "username already exists")
		}
	}
	return s.repo.Update(ctx, p.UserID, patch)
}

// List returns all accounts. Admin only; enforced at the route.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get returns a single account by id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	u, err := s.repo.ByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if u == nil {
		return User{}, apperr.New(apperr.NotFound, "user not found")
	}
	return *u, nil
}
