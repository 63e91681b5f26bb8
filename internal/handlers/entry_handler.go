package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"datakeep/internal/responses"
	"datakeep/internal/services"
)

type EntryHandler struct {
	dataService *services.DataService
}

func NewEntryHandler(dataService *services.DataService) *EntryHandler {
	return &EntryHandler{dataService: dataService}
}

// entryBody reads the raw JSON body; entry values are arbitrary JSON, so
// there is no struct to bind against.
func entryBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		responses.Fail(c, http.StatusBadRequest, err, "Request body must be a JSON value")
		return nil, false
	}
	return body, true
}

// AddEntry handles POST /api/v1/projects/:id/entries
func (h *EntryHandler) AddEntry(c *gin.Context) {
	body, ok := entryBody(c)
	if !ok {
		return
	}

	entryID, project, err := h.dataService.AddEntry(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		respondError(c, err, "Failed to add entry")
		return
	}

	responses.Success(c, http.StatusCreated, gin.H{
		"entry_id": entryID,
		"project":  project,
	}, "Entry added successfully")
}

// UpdateEntry handles PUT /api/v1/projects/:id/entries/:entryId
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	body, ok := entryBody(c)
	if !ok {
		return
	}

	project, err := h.dataService.UpdateEntry(c.Request.Context(), c.Param("id"), c.Param("entryId"), body)
	if err != nil {
		respondError(c, err, "Failed to update entry")
		return
	}

	responses.Success(c, http.StatusOK, project, "Entry updated successfully")
}

// DeleteEntry handles DELETE /api/v1/projects/:id/entries/:entryId
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	project, err := h.dataService.DeleteEntry(c.Request.Context(), c.Param("id"), c.Param("entryId"))
	if err != nil {
		respondError(c, err, "Failed to delete entry")
		return
	}

	responses.Success(c, http.StatusOK, project, "Entry deleted successfully")
}
