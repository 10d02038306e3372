package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"university/internal/schedule"
)

type scheduleRequest struct {
	GroupID   string `json:"group_id" binding:"required"`
	TeacherID string `json:"teacher_id" binding:"required"`
	Subject   string `json:"subject" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Room      string `json:"room" binding:"required"`
}

// CreateSchedule adds a class. Teacher or admin.
func (h *Handler) CreateSchedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := h.schedules.Create(c.Request.Context(), schedule.Schedule{
		GroupID:   req.GroupID,
		TeacherID: req.TeacherID,
		Subject:   req.Subject,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// ListSchedules returns the schedules visible to the caller, optionally
// filtered by start_date, end_date, group_id or a weekday name (?day=monday).
func (h *Handler) ListSchedules(c *gin.Context) {
	p := principal(c)
	if day := c.Query("day"); day != "" {
		res, err := h.schedules.ByDay(c.Request.Context(), p, day)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}
	res, err := h.schedules.List(c.Request.Context(), p, schedule.Filter{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		GroupID:   c.Query("group_id"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetSchedule returns one schedule. The id "today" is reserved and
// returns the caller's classes for today instead.
func (h *Handler) GetSchedule(c *gin.Context) {
	p := principal(c)
	id := c.Param("id")
	if id == "today" {
		res, err := h.schedules.Today(c.Request.Context(), p)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
		return
	}
	s, err := h.schedules.Get(c.Request.Context(), p, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

type scheduleUpdateRequest struct {
	GroupID   *string `json:"group_id"`
	TeacherID *string `json:"teacher_id"`
	Subject   *string `json:"subject"`
	Date      *string `json:"date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Room      *string `json:"room"`
}

// UpdateSchedule patches a class. Owner or admin.
func (h *Handler) UpdateSchedule(c *gin.Context) {
	var req scheduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := h.schedules.Update(c.Request.Context(), principal(c), c.Param("id"), schedule.Patch{
		GroupID:   req.GroupID,
		TeacherID: req.TeacherID,
		Subject:   req.Subject,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// DeleteSchedule removes a class. Owner or admin.
func (h *Handler) DeleteSchedule(c *gin.Context) {
	if err := h.schedules.Delete(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
