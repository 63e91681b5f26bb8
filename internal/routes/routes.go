package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"datakeep/internal/handlers"
)

func RegisterRoutes(router *gin.Engine, projectHandler *handlers.ProjectHandler, entryHandler *handlers.EntryHandler) {
	api := router.Group("/api/v1")

	projectRoutes := NewProjectRoutes(projectHandler, entryHandler)
	projectRoutes.RegisterRoutes(api)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
