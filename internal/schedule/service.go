package schedule

import (
	"context"
	"time"

	"university/internal/apperr"
	"university/internal/auth"
)

// weekdays maps lowercase day names to Postgres dow numbers (0 = Sunday).
var weekdays = map[string]int{
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}

// Repo is the persistence surface the service needs.
type Repo interface {
	Insert(ctx context.Context, s Schedule) (Schedule, error)
	ByID(ctx context.Context, id string) (*Schedule, error)
	DetailByID(ctx context.Context, id string) (*WithDetails, error)
	ListDetailed(ctx context.Context, f Filter) ([]WithDetails, error)
	Update(ctx context.Context, id string, p Patch) (Schedule, error)
	Delete(ctx context.Context, id string) error
}

// Service coordinates schedule CRUD with role scoping and ownership.
type Service struct {
	repo Repo
}

// NewService creates a service backed by a repository.
func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// scope narrows a filter to what the principal may see: students their
// own group, teachers their own classes, admins everything.
func scope(p auth.Principal, f Filter) Filter {
	switch p.Role {
	case auth.RoleStudent:
		if p.GroupID != "" {
			f.GroupID = p.GroupID
		}
	case auth.RoleTeacher:
		f.TeacherID = p.UserID
	}
	return f
}

// Create adds a schedule entry. Teacher tier is enforced at the route.
func (s *Service) Create(ctx context.Context, in Schedule) (Schedule, error) {
	if err := validateTimes(in.Date, in.StartTime, in.EndTime); err != nil {
		return Schedule{}, err
	}
	return s.repo.Insert(ctx, in)
}

// List returns schedules visible to the principal, optionally narrowed
// by date range and group.
func (s *Service) List(ctx context.Context, p auth.Principal, f Filter) ([]WithDetails, error) {
	for _, d := range []string{f.StartDate, f.EndDate} {
		if d != "" {
			if _, err := time.Parse("2006-01-02", d); err != nil {
				return nil, apperr.Newf(apperr.Validation, "invalid date %q", d)
			}
		}
	}
	return s.repo.ListDetailed(ctx, scope(p, f))
}

// ByDay returns the principal's schedules falling on the named weekday.
func (s *Service) ByDay(ctx context.Context, p auth.Principal, day string) ([]WithDetails, error) {
	dow, ok := weekdays[day]
	if !ok {
		return nil, apperr.Newf(apperr.Validation, "invalid day of the week %q", day)
	}
	f := scope(p, Filter{})
	f.Weekday = &dow
	return s.repo.ListDetailed(ctx, f)
}

// Today returns today's schedules; teachers see only their own classes.
func (s *Service) Today(ctx context.Context, p auth.Principal) ([]WithDetails, error) {
	f := scope(p, Filter{})
	f.Date = time.Now().Format("2006-01-02")
	return s.repo.ListDetailed(ctx, f)
}

// Get returns a schedule by id. A schedule outside the principal's scope
// is reported as not found, matching the scoped listing behavior.
func (s *Service) Get(ctx context.Context, p auth.Principal, id string) (WithDetails, error) {
	d, err := s.repo.DetailByID(ctx, id)
	if err != nil {
		return WithDetails{}, err
	}
	if d == nil {
		return WithDetails{}, apperr.New(apperr.NotFound, "schedule not found")
	}
	switch p.Role {
	case auth.RoleStudent:
		if p.GroupID != "" && d.GroupID != p.GroupID {
			return WithDetails{}, apperr.New(apperr.NotFound, "schedule not found")
		}
	case auth.RoleTeacher:
		if d.TeacherID != p.UserID {
			return WithDetails{}, apperr.New(apperr.NotFound, "schedule not found")
		}
	}
	return *d, nil
}

// Update patches a schedule. The existence check runs before ownership so
// a missing schedule is never reported as forbidden.
func (s *Service) Update(ctx context.Context, p auth.Principal, id string, patch Patch) (Schedule, error) {
	existing, err := s.repo.ByID(ctx, id)
	if err != nil {
		return Schedule{}, err
	}
	if existing == nil {
		return Schedule{}, apperr.New(apperr.NotFound, "schedule not found")
	}
	if !p.Owns(existing.TeacherID) {
		return Schedule{}, apperr.New(apperr.Forbidden, "you can only update your own schedules")
	}
	if err := validatePatchTimes(patch); err != nil {
		return Schedule{}, err
	}
	return s.repo.Update(ctx, id, patch)
}

// Delete removes a schedule, with the same existence-before-ownership order.
func (s *Service) Delete(ctx context.Context, p auth.Principal, id string) error {
	existing, err := s.repo.ByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.New(apperr.NotFound, "schedule not found")
	}
	if !p.Owns(existing.TeacherID) {
		return apperr.New(apperr.Forbidden, "you can only delete your own schedule entries")
	}
	return s.repo.Delete(ctx, id)
}

func validateTimes(date, start, end string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return apperr.Newf(apperr.Validation, "invalid date %q", date)
	}
	for _, clock := range []string{start, end} {
		if _, err := time.Parse("15:04", clock); err != nil {
			return apperr.Newf(apperr.Validation, "invalid time %q", clock)
		}
	}
	return nil
}

func validatePatchTimes(p Patch) error {
	if p.Date != nil {
		if _, err := time.Parse("2006-01-02", *p.Date); err != nil {
			return apperr.Newf(apperr.Validation, "invalid date %q", *p.Date)
		}
	}
	for _, clock := range []*string{p.StartTime, p.EndTime} {
		if clock != nil {
			if _, err := time.Parse("15:04", *clock); err != nil {
				return apperr.Newf(apperr.Validation, "invalid time %q", *clock)
			}
		}
	}
	return nil
}
