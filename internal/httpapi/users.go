package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"university/internal/auth"
	"university/internal/user"
)

type registerRequest struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required"`
	FullName string  `json:"full_name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Role     string  `json:"role" binding:"required,oneof=student teacher admin"`
	GroupID  *string `json:"group_id"`
}

// Register creates a new account.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.users.Register(c.Request.Context(), user.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Email:    req.Email,
		Role:     auth.Role(req.Role),
		GroupID:  req.GroupID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and issues an access token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	token, exp, err := auth.Issue(u.Username, string(u.Role), h.jwtIssuer, h.jwtKey, h.accessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_at":   exp.Unix(),
	})
}

// Me returns the caller's account.
func (h *Handler) Me(c *gin.Context) {
	u, err := h.users.Me(c.Request.Context(), principal(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type updateMeRequest struct {
	Username *string `json:"username"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Role     *string `json:"role"`
	GroupID  *string `json:"group_id"`
	IsActive *bool   `json:"is_active"`
}

// UpdateMe patches the caller's account; absent fields stay untouched.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	patch := user.Patch{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		GroupID:  req.GroupID,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role := auth.Role(*req.Role)
		patch.Role = &role
	}
	u, err := h.users.UpdateMe(c.Request.Context(), principal(c), patch)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// ListUsers returns every account. Admin only.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns one account by id. Admin only.
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
