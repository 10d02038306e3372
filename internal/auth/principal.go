package auth

// Role is a user's capability level.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// Principal is the authenticated identity resolved for a request. It is
// reconstructed per request from the token subject plus a user lookup and
// never cached across requests.
type Principal struct {
	UserID   string
	Username string
	Role     Role
	GroupID  string // empty when the user belongs to no group
	IsActive bool
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// IsTeacherOrAdmin reports whether the principal may use teacher endpoints.
func (p Principal) IsTeacherOrAdmin() bool {
	return p.Role == RoleTeacher || p.Role == RoleAdmin
}

// Owns reports whether the principal may mutate a resource created by
// teacherID: admins unconditionally, teachers only their own.
func (p Principal) Owns(teacherID string) bool {
	if p.Role == RoleAdmin {
		return true
	}
	return p.Role == RoleTeacher && p.UserID == teacherID
}
