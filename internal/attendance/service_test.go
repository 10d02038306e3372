package attendance

import (
	"context"
	"fmt"
	"testing"

	"university/internal/apperr"
	"university/internal/auth"
	"university/internal/schedule"
	"university/internal/user"
)

type fakeRepo struct {
	records map[string]Record // keyed by id
	nextID  int
}

func (f *fakeRepo) find(scheduleID, studentID string) *Record {
	for _, rec := range f.records {
		if rec.ScheduleID == scheduleID && rec.StudentID == studentID {
			r := rec
			return &r
		}
	}
	return nil
}

func (f *fakeRepo) Insert(_ context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		f.nextID++
		rec.ID = fmt.Sprintf("gen%d", f.nextID)
	}
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeRepo) ByID(_ context.Context, id string) (*Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeRepo) ByScheduleStudent(_ context.Context, scheduleID, studentID string) (*Record, error) {
	return f.find(scheduleID, studentID), nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status Status) (Record, error) {
	rec := f.records[id]
	rec.Status = status
	f.records[id] = rec
	return rec, nil
}

func (f *fakeRepo) BySchedule(_ context.Context, scheduleID string) ([]Record, error) {
	var res []Record
	for _, rec := range f.records {
		if rec.ScheduleID == scheduleID {
			res = append(res, rec)
		}
	}
	return res, nil
}

func (f *fakeRepo) ListDetailed(context.Context, Filter) ([]WithDetails, error) {
	return nil, nil
}

func (f *fakeRepo) StatRecords(context.Context, string) ([]StatRecord, error) {
	return nil, nil
}

type fakeSchedules struct {
	schedules map[string]schedule.Schedule
}

func (f *fakeSchedules) ByID(_ context.Context, id string) (*schedule.Schedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

type fakeUsers struct {
	users map[string]user.User
}

func (f *fakeUsers) ByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUsers) StudentsByGroup(_ context.Context, groupID string) ([]user.User, error) {
	var res []user.User
	for _, u := range f.users {
		if u.GroupID != nil && *u.GroupID == groupID && u.Role == auth.RoleStudent {
			res = append(res, u)
		}
	}
	return res, nil
}

type fakeNotifier struct {
	updates int
}

func (f *fakeNotifier) AttendanceUpdated(context.Context, string, string, string) {
	f.updates++
}

var (
	owner        = auth.Principal{UserID: "t1", Role: auth.RoleTeacher}
	otherTeacher = auth.Principal{UserID: "t2", Role: auth.RoleTeacher}
	admin        = auth.Principal{UserID: "a1", Role: auth.RoleAdmin}
)

func newFakeService() (*Service, *fakeRepo, *fakeNotifier) {
	g1 := "g1"
	repo := &fakeRepo{records: map[string]Record{}}
	schedules := &fakeSchedules{schedules: map[string]schedule.Schedule{
		"sched1": {ID: "sched1", GroupID: "g1", TeacherID: "t1"},
	}}
	users := &fakeUsers{users: map[string]user.User{
		"s1": {ID: "s1", Role: auth.RoleStudent, GroupID: &g1},
		"s2": {ID: "s2", Role: auth.RoleStudent, GroupID: &g1},
	}}
	notifier := &fakeNotifier{}
	return NewService(repo, schedules, users, notifier), repo, notifier
}

func TestCreateOwnership(t *testing.T) {
	rec := Record{ScheduleID: "sched1", StudentID: "s1", Status: StatusPresent}

	svc, _, _ := newFakeService()
	missing := rec
	missing.ScheduleID = "ghost"
	// A non-owner probing a missing schedule must learn nothing beyond absence.
	if _, err := svc.Create(context.Background(), otherTeacher, missing); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("missing schedule: err = %v, want NotFound before ownership", err)
	}
	if _, err := svc.Create(context.Background(), otherTeacher, rec); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("other teacher: err = %v, want Forbidden", err)
	}

	svc, _, notifier := newFakeService()
	if _, err := svc.Create(context.Background(), owner, rec); err != nil {
		t.Fatalf("owner create: %v", err)
	}
	if notifier.updates != 1 {
		t.Errorf("notifications = %d, want 1", notifier.updates)
	}
	if _, err := svc.Create(context.Background(), owner, rec); !apperr.Is(err, apperr.Conflict) {
		t.Errorf("duplicate pair: err = %v, want Conflict", err)
	}

	svc, _, _ = newFakeService()
	if _, err := svc.Create(context.Background(), admin, rec); err != nil {
		t.Errorf("admin create: %v", err)
	}
}

func TestBulkCreatedAndUpdatedCounts(t *testing.T) {
	svc, repo, notifier := newFakeService()
	// s1 already has a record for this class; s2 does not.
	if _, err := repo.Insert(context.Background(), Record{
		ID: "rec1", ScheduleID: "sched1", StudentID: "s1", Status: StatusAbsent,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := svc.Bulk(context.Background(), owner, "sched1", map[string]string{
		"s1": "present",
		"s2": "late",
	})
	if err != nil {
		t.Fatalf("Bulk: %v", err)
	}
	if res.Created != 1 || res.Updated != 1 {
		t.Errorf("BulkResult = %+v, want created=1 updated=1", res)
	}
	if got := repo.records["rec1"].Status; got != StatusPresent {
		t.Errorf("existing record status = %q, want present", got)
	}
	if rec := repo.find("sched1", "s2"); rec == nil || rec.Status != StatusLate {
		t.Errorf("new record for s2 = %+v, want late", rec)
	}
	if notifier.updates != 2 {
		t.Errorf("notifications = %d, want one per student", notifier.updates)
	}
}

func TestBulkRejectsBadStatusUpfront(t *testing.T) {
	svc, repo, notifier := newFakeService()
	_, err := svc.Bulk(context.Background(), owner, "sched1", map[string]string{
		"s1": "present",
		"s2": "vanished",
	})
	if !apperr.Is(err, apperr.Validation) {
		t.Fatalf("err = %v, want Validation", err)
	}
	if len(repo.records) != 0 || notifier.updates != 0 {
		t.Error("a bad status must fail the whole batch before any write")
	}
}

func TestBulkOwnership(t *testing.T) {
	svc, _, _ := newFakeService()
	if _, err := svc.Bulk(context.Background(), otherTeacher, "ghost", map[string]string{"s1": "present"}); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("missing schedule: err = %v, want NotFound before ownership", err)
	}
	if _, err := svc.Bulk(context.Background(), otherTeacher, "sched1", map[string]string{"s1": "present"}); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("other teacher: err = %v, want Forbidden", err)
	}
}

func TestUpdateChecksRecordThenSchedule(t *testing.T) {
	svc, repo, notifier := newFakeService()
	if _, err := repo.Insert(context.Background(), Record{
		ID: "rec1", ScheduleID: "sched1", StudentID: "s1", Status: StatusAbsent,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.Update(context.Background(), otherTeacher, "ghost", "present"); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("missing record: err = %v, want NotFound", err)
	}
	if _, err := svc.Update(context.Background(), otherTeacher, "rec1", "present"); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("other teacher: err = %v, want Forbidden", err)
	}
	updated, err := svc.Update(context.Background(), owner, "rec1", "present")
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Status != StatusPresent {
		t.Errorf("status = %q, want present", updated.Status)
	}
	if notifier.updates != 1 {
		t.Errorf("notifications = %d, want 1", notifier.updates)
	}
}
