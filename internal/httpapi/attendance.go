package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"university/internal/attendance"
)

type attendanceRequest struct {
	ScheduleID string `json:"schedule_id" binding:"required"`
	StudentID  string `json:"student_id" binding:"required"`
	Status     string `json:"status" binding:"required"`
}

// CreateAttendance marks one student for one class. Teacher or admin.
func (h *Handler) CreateAttendance(c *gin.Context) {
	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.attendance.Create(c.Request.Context(), principal(c), attendance.Record{
		ScheduleID: req.ScheduleID,
		StudentID:  req.StudentID,
		Status:     attendance.Status(req.Status),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

type bulkAttendanceRequest struct {
	ScheduleID     string            `json:"schedule_id" binding:"required"`
	AttendanceData map[string]string `json:"attendance_data" binding:"required"`
}

// BulkAttendance upserts one record per student for a single class.
func (h *Handler) BulkAttendance(c *gin.Context) {
	var req bulkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.attendance.Bulk(c.Request.Context(), principal(c), req.ScheduleID, req.AttendanceData)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListAttendance returns records filtered by schedule_id, student_id,
// date_from and date_to query params.
func (h *Handler) ListAttendance(c *gin.Context) {
	res, err := h.attendance.List(c.Request.Context(), attendance.Filter{
		ScheduleID: c.Query("schedule_id"),
		StudentID:  c.Query("student_id"),
		DateFrom:   c.Query("date_from"),
		DateTo:     c.Query("date_to"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AttendanceStats returns a student's aggregated attendance. Students may
// omit ?student_id= to query themselves.
func (h *Handler) AttendanceStats(c *gin.Context) {
	stats, err := h.attendance.Stats(c.Request.Context(), principal(c), c.Query("student_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type attendanceUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAttendance changes one record's status. Owner or admin.
func (h *Handler) UpdateAttendance(c *gin.Context) {
	var req attendanceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.attendance.Update(c.Request.Context(), principal(c), c.Param("id"), req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// StudentsBySchedule returns the class roster with recorded statuses.
func (h *Handler) StudentsBySchedule(c *gin.Context) {
	res, err := h.attendance.StudentsBySchedule(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
