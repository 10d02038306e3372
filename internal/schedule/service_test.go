package schedule

import (
	"context"
	"testing"

	"university/internal/apperr"
	"university/internal/auth"
)

type fakeRepo struct {
	schedules map[string]Schedule
	deleted   []string
}

func (f *fakeRepo) Insert(_ context.Context, s Schedule) (Schedule, error) {
	return s, nil
}

func (f *fakeRepo) ByID(_ context.Context, id string) (*Schedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeRepo) DetailByID(_ context.Context, id string) (*WithDetails, error) {
	s, ok := f.schedules[id]
	if !ok {
		return nil, nil
	}
	return &WithDetails{Schedule: s}, nil
}

func (f *fakeRepo) ListDetailed(context.Context, Filter) ([]WithDetails, error) {
	return nil, nil
}

func (f *fakeRepo) Update(_ context.Context, id string, _ Patch) (Schedule, error) {
	return f.schedules[id], nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

var (
	owner        = auth.Principal{UserID: "t1", Role: auth.RoleTeacher}
	otherTeacher = auth.Principal{UserID: "t2", Role: auth.RoleTeacher}
	admin        = auth.Principal{UserID: "a1", Role: auth.RoleAdmin}
)

func newFakeService() (*Service, *fakeRepo) {
	repo := &fakeRepo{schedules: map[string]Schedule{
		"sched1": {ID: "sched1", GroupID: "g1", TeacherID: "t1", Subject: "Algebra",
			Date: "2026-09-01", StartTime: "09:00", EndTime: "10:30", Room: "101"},
	}}
	return NewService(repo), repo
}

func TestUpdateOwnership(t *testing.T) {
	cases := []struct {
		name     string
		p        auth.Principal
		id       string
		wantKind apperr.Kind
		wantOK   bool
	}{
		{"owner may update", owner, "sched1", 0, true},
		{"admin may update", admin, "sched1", 0, true},
		{"other teacher is forbidden", otherTeacher, "sched1", apperr.Forbidden, false},
		{"missing id is not found for the owner", owner, "ghost", apperr.NotFound, false},
		// A non-owner probing a missing id must learn nothing beyond absence.
		{"missing id is not found before ownership", otherTeacher, "ghost", apperr.NotFound, false},
	}
	for _, tc := range cases {
		svc, _ := newFakeService()
		_, err := svc.Update(context.Background(), tc.p, tc.id, Patch{})
		if tc.wantOK {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if !apperr.Is(err, tc.wantKind) {
			t.Errorf("%s: err = %v, want kind %v", tc.name, err, tc.wantKind)
		}
	}
}

func TestDeleteOwnership(t *testing.T) {
	svc, repo := newFakeService()

	if err := svc.Delete(context.Background(), otherTeacher, "ghost"); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("missing id: err = %v, want NotFound even for a non-owner", err)
	}
	if err := svc.Delete(context.Background(), otherTeacher, "sched1"); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("other teacher: err = %v, want Forbidden", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("nothing should be deleted yet, got %v", repo.deleted)
	}
	if err := svc.Delete(context.Background(), owner, "sched1"); err != nil {
		t.Errorf("owner delete: %v", err)
	}
	if err := svc.Delete(context.Background(), admin, "sched1"); err != nil {
		t.Errorf("admin delete: %v", err)
	}
	if len(repo.deleted) != 2 {
		t.Errorf("deleted = %v, want sched1 twice", repo.deleted)
	}
}

func TestGetScopedToRole(t *testing.T) {
	svc, _ := newFakeService()

	student := auth.Principal{UserID: "s1", Role: auth.RoleStudent, GroupID: "g2"}
	if _, err := svc.Get(context.Background(), student, "sched1"); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("student outside the group: err = %v, want NotFound", err)
	}
	if _, err := svc.Get(context.Background(), otherTeacher, "sched1"); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("other teacher: err = %v, want NotFound (scoped read)", err)
	}
	if _, err := svc.Get(context.Background(), owner, "sched1"); err != nil {
		t.Errorf("owner get: %v", err)
	}
	if _, err := svc.Get(context.Background(), admin, "sched1"); err != nil {
		t.Errorf("admin get: %v", err)
	}
}
