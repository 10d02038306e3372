package httpapi

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"university/internal/apperr"
	"university/internal/assignment"
	"university/internal/attendance"
	"university/internal/auth"
	"university/internal/group"
	"university/internal/schedule"
	"university/internal/user"
)

// Handler holds the injected services behind the REST routes.
type Handler struct {
	users       *user.Service
	groups      *group.Service
	schedules   *schedule.Service
	assignments *assignment.Service
	attendance  *attendance.Service

	jwtIssuer  string
	jwtKey     string
	accessTTL  time.Duration
	principals auth.PrincipalStore
}

// New creates a handler.
func New(
	users *user.Service,
	groups *group.Service,
	schedules *schedule.Service,
	assignments *assignment.Service,
	att *attendance.Service,
	principals auth.PrincipalStore,
	jwtIssuer, jwtKey string,
	accessTTL time.Duration,
) *Handler {
	return &Handler{
		users:       users,
		groups:      groups,
		schedules:   schedules,
		assignments: assignments,
		attendance:  att,
		jwtIssuer:   jwtIssuer,
		jwtKey:      jwtKey,
		accessTTL:   accessTTL,
		principals:  principals,
	}
}

// Routes mounts the API under /api. Registration and login are public;
// everything else requires a bearer token, with the teacher and admin
// tiers layered per route.
func (h *Handler) Routes(r *gin.Engine) {
	api := r.Group("/api")
	api.POST("/auth/register", h.Register)
	api.POST("/auth/token", h.Login)

	authed := api.Group("", auth.Authenticated(h.jwtKey, h.jwtIssuer, h.principals))
	teacher := auth.TeacherRequired()
	admin := auth.AdminRequired()

	authed.GET("/auth/me", h.Me)
	authed.PUT("/auth/me", h.UpdateMe)
	authed.GET("/auth/users", admin, h.ListUsers)
	authed.GET("/auth/users/:id", admin, h.GetUser)

	authed.POST("/groups", admin, h.CreateGroup)
	authed.GET("/groups", h.ListGroups)
	authed.GET("/groups/:id", h.GetGroup)
	authed.PUT("/groups/:id", admin, h.RenameGroup)
	authed.DELETE("/groups/:id", admin, h.DeleteGroup)
	authed.GET("/groups/:id/students", h.GroupStudentCount)
	authed.GET("/groups/:id/students/list", h.GroupStudents)

	authed.POST("/schedule", teacher, h.CreateSchedule)
	authed.GET("/schedule", h.ListSchedules)
	authed.GET("/schedule/:id", h.GetSchedule) // "today" is a reserved id
	authed.PUT("/schedule/:id", teacher, h.UpdateSchedule)
	authed.DELETE("/schedule/:id", teacher, h.DeleteSchedule)

	authed.POST("/assignments", teacher, h.CreateAssignment)
	authed.GET("/assignments", h.ListAssignments)
	authed.GET("/assignments/:id", h.GetAssignment)
	authed.PUT("/assignments/:id", teacher, h.UpdateAssignment)
	authed.DELETE("/assignments/:id", teacher, h.DeleteAssignment)
	authed.POST("/assignments/:id/files", teacher, h.UploadAssignmentFile)
	authed.GET("/files/:id", h.DownloadFile)

	authed.POST("/attendance", teacher, h.CreateAttendance)
	authed.POST("/attendance/bulk", teacher, h.BulkAttendance)
	authed.GET("/attendance", h.ListAttendance)
	authed.GET("/attendance/stats", h.AttendanceStats)
	authed.PUT("/attendance/:id", teacher, h.UpdateAttendance)
	authed.GET("/attendance/students_by_schedule/:id", teacher, h.StudentsBySchedule)
}

// fail writes the error with its mapped status. Unexpected failures are
// logged with detail.
func fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Unexpected {
		log.Printf("http: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(apperr.HTTPStatus(kind), gin.H{"error": err.Error()})
}

// principal returns the authenticated principal; Routes guarantees it is set.
func principal(c *gin.Context) auth.Principal {
	p, _ := auth.FromContext(c)
	return p
}
