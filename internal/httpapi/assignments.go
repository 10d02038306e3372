package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"university/internal/assignment"
)

type assignmentRequest struct {
	GroupID     string     `json:"group_id" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

// CreateAssignment posts an assignment to a group. Teacher or admin; the
// author is always the caller.
func (h *Handler) CreateAssignment(c *gin.Context) {
	var req assignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.assignments.Create(c.Request.Context(), principal(c), assignment.CreateInput{
		GroupID:     req.GroupID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// ListAssignments returns assignments, optionally filtered by ?group_id=.
func (h *Handler) ListAssignments(c *gin.Context) {
	res, err := h.assignments.List(c.Request.Context(), c.Query("group_id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetAssignment returns one assignment with group and author names.
func (h *Handler) GetAssignment(c *gin.Context) {
	a, err := h.assignments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

type assignmentUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Deadline    *time.Time `json:"deadline"`
}

// UpdateAssignment patches an assignment. Owner or admin.
func (h *Handler) UpdateAssignment(c *gin.Context) {
	var req assignmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, err := h.assignments.Update(c.Request.Context(), principal(c), c.Param("id"), assignment.Patch{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// DeleteAssignment removes an assignment and its attachments. Owner or admin.
func (h *Handler) DeleteAssignment(c *gin.Context) {
	if err := h.assignments.Delete(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadAssignmentFile attaches a multipart "file" field to an assignment.
func (h *Handler) UploadAssignmentFile(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read upload"})
		return
	}

	info, err := h.assignments.UploadFile(
		c.Request.Context(), principal(c), c.Param("id"),
		data, fh.Filename, fh.Header.Get("Content-Type"),
	)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

// DownloadFile streams an attachment back as a download.
func (h *Handler) DownloadFile(c *gin.Context) {
	info, data, err := h.assignments.DownloadFile(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.Filename))
	c.Data(http.StatusOK, info.ContentType, data)
}
