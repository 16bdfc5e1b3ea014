package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Create controllers with appropriate dependencies
	health := NewHealthController(cfg.Database, cfg.Version)
	importController := NewImportController(cfg.Pipeline, cfg.Auditor)
	exportController := NewExportController(cfg.Orders, cfg.Files, cfg.Exporter, cfg.ExportDir)
	diffController := NewDiffController(cfg.Store, cfg.Files, cfg.Translator, cfg.Exporter)
	jobsController := NewJobsController(cfg.ImportRuns)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Import endpoints
	router.POST("/api/orders/:id/import", importController.Import)

	// Export endpoints
	router.POST("/api/orders/:id/export", exportController.CreateZip)
	router.GET("/api/export/download", exportController.Download)
	router.GET("/api/files/:id/tm", exportController.TMFile)

	// Diff endpoint
	router.GET("/api/files/:id/diff", diffController.GetFileDiff)

	// Job progress endpoint
	router.GET("/api/jobs", jobsController.ActiveJobs)

	return router
}
