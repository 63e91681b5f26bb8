package routes

import (
	"github.com/gin-gonic/gin"

	"datakeep/internal/handlers"
	"datakeep/internal/middlewares"
)

type ProjectRoutes struct {
	projects *handlers.ProjectHandler
	entries  *handlers.EntryHandler
}

func NewProjectRoutes(projects *handlers.ProjectHandler, entries *handlers.EntryHandler) *ProjectRoutes {
	return &ProjectRoutes{projects: projects, entries: entries}
}

func (r *ProjectRoutes) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects")
	projects.Use(middlewares.Authenticate) // All project routes require authentication
	{
		projects.POST("", r.projects.CreateProject)
		projects.GET("", r.projects.ListProjects)
		projects.GET("/:id/data-info", r.projects.GetRawData)
		projects.GET("/:id/formatted", r.projects.GetFormatted)
		projects.POST("/:id/resolve", r.projects.ResolveProject)
		projects.PATCH("/:id/plan", r.projects.SetPlan)
		projects.DELETE("/:id", r.projects.DeleteProject)

		projects.POST("/:id/entries", r.entries.AddEntry)
		projects.PUT("/:id/entries/:entryId", r.entries.UpdateEntry)
		projects.DELETE("/:id/entries/:entryId", r.entries.DeleteEntry)
	}
}
