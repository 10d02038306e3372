package auth

import "testing"

func TestValidRole(t *testing.T) {
	for _, role := range []string{"student", "teacher", "admin"} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "Student", "superuser", "teachers"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true, want false", role)
		}
	}
}

func TestPrincipalTiers(t *testing.T) {
	cases := []struct {
		role           Role
		admin, teacher bool
	}{
		{RoleStudent, false, false},
		{RoleTeacher, false, true},
		{RoleAdmin, true, true},
	}
	for _, tc := range cases {
		p := Principal{Role: tc.role}
		if p.IsAdmin() != tc.admin {
			t.Errorf("%s: IsAdmin = %v, want %v", tc.role, p.IsAdmin(), tc.admin)
		}
		if p.IsTeacherOrAdmin() != tc.teacher {
			t.Errorf("%s: IsTeacherOrAdmin = %v, want %v", tc.role, p.IsTeacherOrAdmin(), tc.teacher)
		}
	}
}

func TestPrincipalOwns(t *testing.T) {
	teacher := Principal{UserID: "t1", Role: RoleTeacher}
	if !teacher.Owns("t1") {
		t.Error("teacher should own their own resource")
	}
	if teacher.Owns("t2") {
		t.Error("teacher should not own another teacher's resource")
	}

	admin := Principal{UserID: "a1", Role: RoleAdmin}
	if !admin.Owns("t1") {
		t.Error("admin should own any resource")
	}

	student := Principal{UserID: "s1", Role: RoleStudent}
	if student.Owns("s1") {
		t.Error("students never have mutation rights, even on matching ids")
	}
}
