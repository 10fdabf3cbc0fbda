package web

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) buildRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.log))

	api := r.Group("/api")

	// public surface
	api.POST("/login", s.login)
	api.GET("/files/share/:token", s.resolveShareToken)

	authed := api.Group("")
	authed.Use(RequireAuth(s.secret, s.revoked, s.svc.Users))

	authed.POST("/logout", s.logout)
	authed.GET("/me", s.me)

	// listing + file lifecycle
	authed.GET("/files", s.listFolder)
	authed.GET("/folders", s.listFolders)
	authed.POST("/folders", s.createFolder)
	authed.POST("/files/upload-url", s.issueUpload)
	authed.POST("/files/:id/complete", s.completeUpload)
	authed.GET("/files/:id/download", s.downloadByID)
	authed.GET("/files/download", s.downloadByKey)
	authed.POST("/files/:id/copy", s.copyFile)
	authed.DELETE("/files/:id", s.deleteByID)
	authed.DELETE("/files", s.deleteByKey)
	authed.POST("/files/bulk-delete", s.bulkDelete)

	// shares
	authed.POST("/files/:id/share", s.directShare)
	authed.POST("/files/:id/share-link", s.createShareLink)

	// folder assignments
	authed.GET("/assignments/my", s.myAssignments)
	admin := authed.Group("")
	admin.Use(RequireAdmin())
	admin.POST("/assignments", s.upsertAssignment)
	admin.POST("/assignments/bulk", s.bulkUpsertAssignments)
	admin.GET("/assignments", s.listAssignments)
	admin.DELETE("/assignments/:id", s.removeAssignment)
	admin.DELETE("/assignments", s.removeAssignmentByFolderUser)

	// user and role administration
	admin.POST("/users", s.createUser)
	admin.GET("/users", s.listUsers)
	admin.GET("/users/:id", s.getUser)
	admin.PUT("/users/:id", s.updateUser)
	admin.POST("/roles", s.createRole)
	admin.GET("/roles", s.listRoles)
	admin.GET("/roles/:id", s.getRole)
	admin.PUT("/roles/:id", s.updateRole)
	admin.DELETE("/roles/:id", s.deleteRole)

	return r
}
