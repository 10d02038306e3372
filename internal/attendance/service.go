package attendance

import (
	"context"

	"university/internal/apperr"
	"university/internal/auth"
	"university/internal/schedule"
	"university/internal/user"
)

// Notifier delivers fire-and-forget attendance notifications. Delivery
// failures never fail the triggering request.
type Notifier interface {
	AttendanceUpdated(ctx context.Context, studentID, scheduleID string, status string)
}

// Repo is the persistence surface the service needs.
type Repo interface {
	Insert(ctx context.Context, rec Record) (Record, error)
	ByID(ctx context.Context, id string) (*Record, error)
	ByScheduleStudent(ctx context.Context, scheduleID, studentID string) (*Record, error)
	UpdateStatus(ctx context.Context, id string, status Status) (Record, error)
	BySchedule(ctx context.Context, scheduleID string) ([]Record, error)
	ListDetailed(ctx context.Context, f Filter) ([]WithDetails, error)
	StatRecords(ctx context.Context, studentID string) ([]StatRecord, error)
}

// ScheduleStore resolves the schedules that attendance records hang off.
type ScheduleStore interface {
	ByID(ctx context.Context, id string) (*schedule.Schedule, error)
}

// UserStore resolves students for stats and rosters.
type UserStore interface {
	ByID(ctx context.Context, id string) (*user.User, error)
	StudentsByGroup(ctx context.Context, groupID string) ([]user.User, error)
}

// Service coordinates attendance marking with ownership checks and the
// statistics aggregation.
type Service struct {
	repo      Repo
	schedules ScheduleStore
	users     UserStore
	notifier  Notifier
}

// NewService creates a service.
func NewService(repo Repo, schedules ScheduleStore, users UserStore, notifier Notifier) *Service {
	return &Service{repo: repo, schedules: schedules, users: users, notifier: notifier}
}

// ownedSchedule loads a schedule and checks that the principal may mark
// attendance for it. Existence is checked before ownership.
func (s *Service) ownedSchedule(ctx context.Context, p auth.Principal, scheduleID string) (*schedule.Schedule, error) {
	sched, err := s.schedules.ByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if sched == nil {
		return nil, apperr.New(apperr.NotFound, "schedule not found")
	}
	if !p.Owns(sched.TeacherID) {
		return nil, apperr.New(apperr.Forbidden, "you can only mark attendance for your own schedules")
	}
	return sched, nil
}

// Create marks one student for one class. Duplicate (schedule, student)
// pairs are rejected.
func (s *Service) Create(ctx context.Context, p auth.Principal, rec Record) (Record, error) {
	if !ValidStatus(string(rec.Status)) {
		return Record{}, apperr.Newf(apperr.Validation, "unknown status %q", rec.Status)
	}
	if _, err := s.ownedSchedule(ctx, p, rec.ScheduleID); err != nil {
		return Record{}, err
	}
	existing, err := s.repo.ByScheduleStudent(ctx, rec.ScheduleID, rec.StudentID)
	if err != nil {
		return Record{}, err
	}
	if existing != nil {
		return Record{}, apperr.New(apperr.Conflict, "attendance record already exists")
	}
	created, err := s.repo.Insert(ctx, rec)
	if err != nil {
		return Record{}, err
	}
	s.notifier.AttendanceUpdated(ctx, created.StudentID, created.ScheduleID, string(created.Status))
	return created, nil
}

// BulkResult reports how a bulk submission was applied.
type BulkResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Bulk upserts one record per student for a single class. Records are
// processed independently: a failure partway through leaves prior
// records committed.
func (s *Service) Bulk(ctx context.Context, p auth.Principal, scheduleID string, statuses map[string]string) (BulkResult, error) {
	for studentID, status := range statuses {
		if !ValidStatus(status) {
			return BulkResult{}, apperr.Newf(apperr.Validation, "unknown status %q for student %s", status, studentID)
		}
	}
	if _, err := s.ownedSchedule(ctx, p, scheduleID); err != nil {
		return BulkResult{}, err
	}

	var res BulkResult
	for studentID, status := range statuses {
		existing, err := s.repo.ByScheduleStudent(ctx, scheduleID, studentID)
		if err != nil {
			return res, err
		}
		if existing != nil {
			if _, err := s.repo.UpdateStatus(ctx, existing.ID, Status(status)); err != nil {
				return res, err
			}
			res.Updated++
		} else {
			_, err := s.repo.Insert(ctx, Record{ScheduleID: scheduleID, StudentID: studentID, Status: Status(status)})
			if err != nil {
				return res, err
			}
			res.Created++
		}
		s.notifier.AttendanceUpdated(ctx, studentID, scheduleID, status)
	}
	return res, nil
}

// List returns attendance records matching the filter.
func (s *Service) List(ctx context.Context, f Filter) ([]WithDetails, error) {
	return s.repo.ListDetailed(ctx, f)
}

// Update changes one record's status, checking ownership through the
// record's schedule.
func (s *Service) Update(ctx context.Context, p auth.Principal, id string, status string) (Record, error) {
	if !ValidStatus(status) {
		return Record{}, apperr.Newf(apperr.Validation, "unknown status %q", status)
	}
	rec, err := s.repo.ByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if rec == nil {
		return Record{}, apperr.New(apperr.NotFound, "attendance record not found")
	}
	sched, err := s.schedules.ByID(ctx, rec.ScheduleID)
	if err != nil {
		return Record{}, err
	}
	if sched == nil {
		return Record{}, apperr.New(apperr.NotFound, "schedule not found")
	}
	if !p.Owns(sched.TeacherID) {
		return Record{}, apperr.New(apperr.Forbidden, "you can only update attendance for your own schedules")
	}
	updated, err := s.repo.UpdateStatus(ctx, id, Status(status))
	if err != nil {
		return Record{}, err
	}
	s.notifier.AttendanceUpdated(ctx, updated.StudentID, updated.ScheduleID, string(updated.Status))
	return updated, nil
}

// Stats computes attendance statistics for a student. Students may only
// query themselves; an omitted id defaults to the calling student.
func (s *Service) Stats(ctx context.Context, p auth.Principal, studentID string) (Stats, error) {
	if studentID == "" {
		if p.Role != auth.RoleStudent {
			return Stats{}, apperr.New(apperr.Validation, "student id must be provided")
		}
		studentID = p.UserID
	}
	if p.Role == auth.RoleStudent && studentID != p.UserID {
		return Stats{}, apperr.New(apperr.Forbidden, "you can only view your own attendance stats")
	}

	student, err := s.users.ByID(ctx, studentID)
	if err != nil {
		return Stats{}, err
	}
	if student == nil {
		return Stats{}, apperr.New(apperr.NotFound, "student not found")
	}
	if student.Role != auth.RoleStudent {
		return Stats{}, apperr.New(apperr.Validation, "provided id is not a student")
	}

	records, err := s.repo.StatRecords(ctx, studentID)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(records), nil
}

// StudentStatus pairs a group member with their attendance for one class.
type StudentStatus struct {
	StudentID        string  `json:"student_id"`
	FullName         string  `json:"full_name"`
	Email            string  `json:"email"`
	AttendanceStatus *Status `json:"attendance_status"`
	AttendanceID     *string `json:"attendance_id"`
}

// StudentsBySchedule returns the roster of the class's group with any
// recorded statuses, for the marking UI.
func (s *Service) StudentsBySchedule(ctx context.Context, p auth.Principal, scheduleID string) ([]StudentStatus, error) {
	sched, err := s.schedules.ByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if sched == nil {
		return nil, apperr.New(apperr.NotFound, "schedule not found")
	}
	if !p.Owns(sched.TeacherID) {
		return nil, apperr.New(apperr.Forbidden, "you can only view students for your own schedules")
	}

	students, err := s.users.StudentsByGroup(ctx, sched.GroupID)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.BySchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[string]Record, len(records))
	for _, rec := range records {
		byStudent[rec.StudentID] = rec
	}

	res := make([]StudentStatus, 0, len(students))
	for _, st := range students {
		entry := StudentStatus{StudentID: st.ID, FullName: st.FullName, Email: st.Email}
		if rec, ok := byStudent[st.ID]; ok {
			status := rec.Status
			id := rec.ID
			entry.AttendanceStatus = &status
			entry.AttendanceID = &id
		}
		res = append(res, entry)
	}
	return res, nil
}
