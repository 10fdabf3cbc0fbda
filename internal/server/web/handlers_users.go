package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avagyans/filegate/internal/server/models"
)

type createUserRequest struct {
	Username string  `json:"username" binding:"required"`
	Email    string  `json:"email"`
	Password string  `json:"password" binding:"required"`
	IsActive *bool   `json:"is_active"`
	IsAdmin  bool    `json:"is_admin"`
	RoleIDs  []int64 `json:"role_ids"`
}

func (s *Server) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	p := currentPrincipal(c)
	u, err := s.svc.Users.Create(c.Request.Context(), req.Username, req.Email, req.Password,
		isActive, req.IsAdmin, req.RoleIDs, &p.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userResponse(u))
}

type updateUserRequest struct {
	Email    string  `json:"email"`
	IsActive bool    `json:"is_active"`
	IsAdmin  bool    `json:"is_admin"`
	RoleIDs  []int64 `json:"role_ids"`
}

func (s *Server) updateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := s.svc.Users.Update(c.Request.Context(), id, req.Email, req.IsActive, req.IsAdmin, req.RoleIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse(u))
}

func (s *Server) getUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	u, err := s.svc.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse(u))
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.svc.Users.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

func userResponse(u *models.User) gin.H {
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"is_active":  u.IsActive,
		"is_admin":   u.IsAdmin,
		"created_at": u.CreatedAt,
	}
}
