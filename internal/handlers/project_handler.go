package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"datakeep/internal/responses"
	"datakeep/internal/services"
)

type ProjectHandler struct {
	dataService *services.DataService
}

func NewProjectHandler(dataService *services.DataService) *ProjectHandler {
	return &ProjectHandler{dataService: dataService}
}

// respondError maps the service error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		responses.Fail(c, http.StatusBadRequest, err, message)
	case errors.Is(err, services.ErrNotFound):
		responses.Fail(c, http.StatusNotFound, err, message)
	case errors.Is(err, services.ErrPlanRequired):
		responses.Fail(c, http.StatusPaymentRequired, err, message)
	default:
		responses.Fail(c, http.StatusInternalServerError, err, message)
	}
}

func ownerFromContext(c *gin.Context) (string, bool) {
	ownerID, exists := c.Get("ownerId")
	if !exists {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return "", false
	}
	switch v := ownerID.(type) {
	case uuid.UUID:
		return v.String(), true
	case string:
		return v, true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

type createProjectRequest struct {
	Name string          `json:"name" binding:"required"`
	Data json.RawMessage `json:"data,omitempty"`
}

// CreateProject handles POST /api/v1/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	project, err := h.dataService.CreateProject(c.Request.Context(), ownerID, req.Name, req.Data)
	if err != nil {
		respondError(c, err, "Failed to create project")
		return
	}

	responses.Success(c, http.StatusCreated, project, "Project created successfully")
}

// ListProjects handles GET /api/v1/projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	summaries, err := h.dataService.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err, "Failed to retrieve projects")
		return
	}

	responses.Success(c, http.StatusOK, summaries, "Projects retrieved successfully")
}

// GetRawData handles GET /api/v1/projects/:id/data-info
func (h *ProjectHandler) GetRawData(c *gin.Context) {
	raw, err := h.dataService.GetRawData(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve project data")
		return
	}

	responses.Success(c, http.StatusOK, raw, "Project data retrieved successfully")
}

// GetFormatted handles GET /api/v1/projects/:id/formatted
func (h *ProjectHandler) GetFormatted(c *gin.Context) {
	view, err := h.dataService.GetFormatted(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to format project data")
		return
	}

	responses.Success(c, http.StatusOK, view, "Formatted project data retrieved successfully")
}

// ResolveProject handles POST /api/v1/projects/:id/resolve
func (h *ProjectHandler) ResolveProject(c *gin.Context) {
	resolved, err := h.dataService.ResolveProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to resolve remote sources")
		return
	}

	responses.Success(c, http.StatusOK, resolved, "Remote sources resolved successfully")
}

type setPlanRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// SetPlan handles PATCH /api/v1/projects/:id/plan
func (h *ProjectHandler) SetPlan(c *gin.Context) {
	var req setPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	project, err := h.dataService.SetPlan(c.Request.Context(), c.Param("id"), req.Plan)
	if err != nil {
		respondError(c, err, "Failed to change plan")
		return
	}

	responses.Success(c, http.StatusOK, project, "Plan updated successfully")
}

// DeleteProject handles DELETE /api/v1/projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.dataService.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete project")
		return
	}

	responses.Success(c, http.StatusOK, nil, "Project deleted successfully")
}
