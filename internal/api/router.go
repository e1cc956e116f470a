// Package api wires the HTTP routes of the report server.
package api

import (
	"net/http"

	"caiso-reports/internal/api/handlers"
	"caiso-reports/internal/api/middleware"
	"caiso-reports/internal/config"
	"caiso-reports/internal/metrics"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine. nodesPath locates the node registry;
// empty selects the default.
func NewRouter(cfg config.Config, nodesPath string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	pullHandler := handlers.NewPullHandler(cfg)
	nodeHandler := handlers.NewNodeHandler(nodesPath)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/queries", handlers.ListQueries)
		api.GET("/nodes", nodeHandler.ListNodes)

		api.POST("/renewables", pullHandler.RunRenewables)
		api.POST("/oasis", pullHandler.RunOASIS)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}
