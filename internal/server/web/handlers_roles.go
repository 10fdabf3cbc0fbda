package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avagyans/filegate/internal/server/models"
)

type roleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	CanRead     bool   `json:"can_read"`
	CanWrite    bool   `json:"can_write"`
	CanCopy     bool   `json:"can_copy"`
	CanDelete   bool   `json:"can_delete"`
	CanShare    bool   `json:"can_share"`
}

func (r roleRequest) toModel() *models.Role {
	return &models.Role{
		Name:        r.Name,
		Description: r.Description,
		CanRead:     r.CanRead,
		CanWrite:    r.CanWrite,
		CanCopy:     r.CanCopy,
		CanDelete:   r.CanDelete,
		CanShare:    r.CanShare,
	}
}

func (s *Server) createRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	role, err := s.svc.Roles.Create(c.Request.Context(), req.toModel())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, role)
}

func (s *Server) getRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	role, err := s.svc.Roles.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

func (s *Server) listRoles(c *gin.Context) {
	roles, err := s.svc.Roles.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

func (s *Server) updateRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	role := req.toModel()
	role.ID = id
	updated, err := s.svc.Roles.Update(c.Request.Context(), role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.svc.Roles.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
