package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type groupRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateGroup adds a student group. Admin only.
func (h *Handler) CreateGroup(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := h.groups.Create(c.Request.Context(), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// ListGroups returns all groups.
func (h *Handler) ListGroups(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GetGroup returns one group by id.
func (h *Handler) GetGroup(c *gin.Context) {
	g, err := h.groups.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// RenameGroup changes a group's name. Admin only.
func (h *Handler) RenameGroup(c *gin.Context) {
	var req groupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := h.groups.Rename(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// DeleteGroup removes an empty group. Admin only.
func (h *Handler) DeleteGroup(c *gin.Context) {
	if err := h.groups.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GroupStudentCount returns a group with its student headcount.
func (h *Handler) GroupStudentCount(c *gin.Context) {
	g, err := h.groups.StudentCount(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// GroupStudents lists the students of a group.
func (h *Handler) GroupStudents(c *gin.Context) {
	students, err := h.groups.Students(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}
