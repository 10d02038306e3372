package group

import (
	"context"

	"university/internal/apperr"
	"university/internal/user"
)

// Service handles group management. Creation, renaming and deletion are
// admin-only; that tier is enforced at the route.
type Service struct {
	repo  *Repository
	users *user.Repository
}

// NewService creates a service backed by the group and user repositories.
func NewService(repo *Repository, users *user.Repository) *Service {
	return &Service{repo: repo, users: users}
}

// Create adds a group, rejecting duplicate names.
func (s *Service) Create(ctx context.Context, name string) (Group, error) {
	existing, err := s.repo.ByName(ctx, name)
	if err != nil {
		return Group{}, err
	}
	if existing != nil {
		return Group{}, apperr.New(apperr.Conflict, "group with this name already exists")
	}
	return s.repo.Insert(ctx, Group{Name: name})
}

// List returns all groups.
func (s *Service) List(ctx context.Context) ([]Group, error) {
	return s.repo.List(ctx)
}

// Get returns a group by id.
func (s *Service) Get(ctx context.Context, id string) (Group, error) {
	g, err := s.repo.ByID(ctx, id)
	if err != nil {
		return Group{}, err
	}
	if g == nil {
		return Group{}, apperr.New(apperr.NotFound, "group not found")
	}
	return *g, nil
}

// Rename changes a group's name, rejecting duplicates.
func (s *Service) Rename(ctx context.Context, id, name string) (Group, error) {
	g, err := s.repo.ByID(ctx, id)
	if err != nil {
		return Group{}, err
	}
	if g == nil {
		return Group{}, apperr.New(apperr.NotFound, "group not found")
	}
	if name == g.Name {
		return *g, nil
	}
	existing, err := s.repo.ByName(ctx, name)
	if err != nil {
		return Group{}, err
	}
	if existing != nil {
		return Group{}, apperr.New(apperr.Conflict, "group with this name already exists")
	}
	return s.repo.Rename(ctx, id, name)
}

// Delete removes a group. Groups that still have members are refused;
// members must be moved first.
func (s *Service) Delete(ctx context.Context, id string) error {
	g, err := s.repo.ByID(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return apperr.New(apperr.NotFound, "group not found")
	}
	n, err := s.users.CountByGroup(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.New(apperr.Conflict, "cannot delete group with users")
	}
	return s.repo.Delete(ctx, id)
}

// WithStudentCount is a group plus its student headcount.
type WithStudentCount struct {
	Group
	StudentCount int `json:"student_count"`
}

// StudentCount returns the group with its member count.
func (s *Service) StudentCount(ctx context.Context, id string) (WithStudentCount, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return WithStudentCount{}, err
	}
	n, err := s.users.CountByGroup(ctx, id)
	if err != nil {
		return WithStudentCount{}, err
	}
	return WithStudentCount{Group: g, StudentCount: n}, nil
}

// Students returns the students enrolled in the group.
func (s *Service) Students(ctx context.Context, id string) ([]user.User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.users.StudentsByGroup(ctx, id)
}
