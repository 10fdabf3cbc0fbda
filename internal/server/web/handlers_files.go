package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avagyans/filegate/internal/pathx"
	"github.com/avagyans/filegate/internal/server/permissions"
)

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// folderOfKey maps an object key to the canonical folder it lives in, for
// permission scoping of raw-key operations.
func folderOfKey(key string) string {
	idx := strings.LastIndex(key, "/")
	if idx < 0 {
		return "/"
	}
	return pathx.Normalize(key[:idx])
}

func (s *Server) listFolder(c *gin.Context) {
	folder := c.DefaultQuery("folder", "/")

	p := currentPrincipal(c)
	if !permissions.ResolveInFolder(p, permissions.CapRead, folder) {
		denied(c)
		return
	}

	entries, err := s.svc.Listing.ListFolder(c.Request.Context(), folder)
	if err != nil {
		s.log.Error(c.Request.Context(), "folder listing failed", "folder", folder, "error", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) listFolders(c *gin.Context) {
	folder := c.DefaultQuery("folder", "/")

	p := currentPrincipal(c)
	if !permissions.ResolveInFolder(p, permissions.CapRead, folder) {
		denied(c)
		return
	}

	folders, err := s.svc.Listing.ListFolders(c.Request.Context(), folder)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folders": folders})
}

type createFolderRequest struct {
	Parent string `json:"parent"`
	Name   string `json:"name" binding:"required"`
}

func (s *Server) createFolder(c *gin.Context) {
	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if strings.Contains(req.Name, "/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder name"})
		return
	}

	p := currentPrincipal(c)
	if !permissions.ResolveInFolder(p, permissions.CapWrite, req.Parent) {
		denied(c)
		return
	}

	folder, err := s.svc.Files.CreateFolder(c.Request.Context(), req.Parent, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"folder_path": folder})
}

type issueUploadRequest struct {
	Folder      string `json:"folder"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type"`
}

func (s *Server) issueUpload(c *gin.Context) {
	var req issueUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p := currentPrincipal(c)
	if !permissions.ResolveInFolder(p, permissions.CapWrite, req.Folder) {
		denied(c)
		return
	}

	file, upload, err := s.svc.Files.IssueUpload(c.Request.Context(), p, req.Folder, req.Filename, req.ContentType)
	if err != nil {
		s.log.Error(c.Request.Context(), "upload url issuance failed", "filename", req.Filename, "error", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"file_id": file.ID,
		"s3_key":  file.S3Key,
		"url":     upload.URL,
		"fields":  upload.Fields,
	})
}

func (s *Server) completeUpload(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	file, err := s.svc.Files.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	p := currentPrincipal(c)
	if !permissions.ResolveInFolder(p, permissions.CapWrite, file.FolderPath) {
		denied(c)
		return
	}

	file, err = s.svc.Files.CompleteUpload(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"file_id":       file.ID,
		"file_size":     file.FileSize,
		"upload_status": file.UploadStatus,
	})
}

func (s *Server) downloadByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	file, err := s.svc.Files.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	p := currentPrincipal(c)
	if !permissions.ResolveInFolder(p, permissions.CapRead, file.FolderPath) {
		denied(c)
		return
	}

	url, err := s.svc.Files.DownloadByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (s *Server) downloadByKey(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key required"})
		return
	}

	p := currentPrincipal(c)
	if !permissions.ResolveInFolder(p, permissions.CapRead, folderOfKey(key)) {
		denied(c)
		return
	}

	url, err := s.svc.Files.DownloadByKey(c.Request.Context(), key)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

type copyRequest struct {
	DestinationFolder string `json:"destination_folder" binding:"required"`
}

func (s *Server) copyFile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req copyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	// copy has no folder-scoped form; it comes from roles or the admin flag
	p := currentPrincipal(c)
	if !permissions.Resolve(p, permissions.CapCopy) {
		denied(c)
		return
	}

	copied, err := s.svc.Files.Copy(c.Request.Context(), p, id, req.DestinationFolder)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"file_id":     copied.ID,
		"s3_key":      copied.S3Key,
		"folder_path": copied.FolderPath,
	})
}

func (s *Server) deleteByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	file, err := s.svc.Files.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	p := currentPrincipal(c)
	if !permissions.ResolveInFolder(p, permissions.CapDelete, file.FolderPath) {
		denied(c)
		return
	}

	if err := s.svc.Files.DeleteByID(c.Request.Context(), id); err != nil {
		s.log.Error(c.Request.Context(), "file delete failed", "file_id", id, "error", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) deleteByKey(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key required"})
		return
	}

	p := currentPrincipal(c)
	if !permissions.ResolveInFolder(p, permissions.CapDelete, folderOfKey(key)) {
		denied(c)
		return
	}

	if err := s.svc.Files.DeleteByKey(c.Request.Context(), key); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type bulkDeleteRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

func (s *Server) bulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	// bulk delete spans folders, so it requires the global capability
	p := currentPrincipal(c)
	if !permissions.Resolve(p, permissions.CapDelete) {
		denied(c)
		return
	}

	results, err := s.svc.Files.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]gin.H, 0, len(results))
	for _, r := range results {
		item := gin.H{"id": r.ID, "key": r.Key, "deleted": r.Err == nil}
		if r.Err != nil {
			item["error"] = "delete failed"
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, gin.H{"results": out})
}

// defaultDirectShareHours applies when the request omits expires_in_hours;
// the service still clamps it to its ceiling.
const defaultDirectShareHours = 24

type directShareRequest struct {
	ExpiresInHours int `json:"expires_in_hours"`
}

func (s *Server) directShare(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req directShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.ExpiresInHours == 0 {
		req.ExpiresInHours = defaultDirectShareHours
	}

	p := currentPrincipal(c)
	if !permissions.Resolve(p, permissions.CapShare) {
		denied(c)
		return
	}

	url, hours, err := s.svc.Shares.DirectPresign(c.Request.Context(), id, req.ExpiresInHours)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "expires_in_hours": hours})
}

type shareLinkRequest struct {
	ExpiresInHours int `json:"expires_in_hours" binding:"required"`
}

func (s *Server) createShareLink(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req shareLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p := currentPrincipal(c)
	if !permissions.Resolve(p, permissions.CapShare) {
		denied(c)
		return
	}

	expiresAt := time.Now().Add(time.Duration(req.ExpiresInHours) * time.Hour)
	link, err := s.svc.Shares.CreateLink(c.Request.Context(), p, id, expiresAt)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"token":      link.ShareToken,
		"expires_at": link.ExpiresAt,
	})
}

// resolveShareToken is the one unauthenticated read path: a valid token is
// the authorization.
func (s *Server) resolveShareToken(c *gin.Context) {
	token := c.Param("token")

	url, file, err := s.svc.Shares.ResolveToken(c.Request.Context(), token)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":      url,
		"filename": file.Filename,
	})
}
