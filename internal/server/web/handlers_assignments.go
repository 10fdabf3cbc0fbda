package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avagyans/filegate/internal/server/services"
)

type assignmentRequest struct {
	FolderPath string `json:"folder_path" binding:"required"`
	UserID     int64  `json:"user_id" binding:"required"`
	CanRead    bool   `json:"can_read"`
	CanWrite   bool   `json:"can_write"`
	CanDelete  bool   `json:"can_delete"`
}

func (s *Server) upsertAssignment(c *gin.Context) {
	var req assignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p := currentPrincipal(c)
	a, err := s.svc.Assignments.Upsert(c.Request.Context(), req.FolderPath, req.UserID,
		services.AssignmentFlags{CanRead: req.CanRead, CanWrite: req.CanWrite, CanDelete: req.CanDelete}, &p.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

type bulkAssignmentRequest struct {
	FolderPath string  `json:"folder_path" binding:"required"`
	UserIDs    []int64 `json:"user_ids" binding:"required"`
	CanRead    bool    `json:"can_read"`
	CanWrite   bool    `json:"can_write"`
	CanDelete  bool    `json:"can_delete"`
}

func (s *Server) bulkUpsertAssignments(c *gin.Context) {
	var req bulkAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p := currentPrincipal(c)
	result, err := s.svc.Assignments.BulkUpsert(c.Request.Context(), req.FolderPath, req.UserIDs,
		services.AssignmentFlags{CanRead: req.CanRead, CanWrite: req.CanWrite, CanDelete: req.CanDelete}, &p.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": result})
}

// listAssignments serves all three admin read forms: unfiltered, by folder
// (?folder=) or by user (?user_id=).
func (s *Server) listAssignments(c *gin.Context) {
	ctx := c.Request.Context()

	if folder := c.Query("folder"); folder != "" {
		rows, err := s.svc.Assignments.ListForFolder(ctx, folder)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"assignments": rows})
		return
	}
	if rawID := c.Query("user_id"); rawID != "" {
		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		rows, err := s.svc.Assignments.ListForUser(ctx, userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"assignments": rows})
		return
	}

	rows, err := s.svc.Assignments.ListAll(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": rows})
}

func (s *Server) myAssignments(c *gin.Context) {
	p := currentPrincipal(c)

	mine, err := s.svc.Assignments.Mine(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"full_access": mine.FullAccess,
		"assignments": mine.Assignments,
	})
}

func (s *Server) removeAssignment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.svc.Assignments.Remove(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (s *Server) removeAssignmentByFolderUser(c *gin.Context) {
	folder := c.Query("folder")
	rawID := c.Query("user_id")
	if folder == "" || rawID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "folder and user_id required"})
		return
	}
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	if err := s.svc.Assignments.RemoveByFolderUser(c.Request.Context(), folder, userID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}
