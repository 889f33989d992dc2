// api/handlers/journey_handlers.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"clickpath/api/journey"
	"clickpath/api/models"
	"clickpath/api/utils"
)

type JourneyHandlers struct {
	Service *journey.Service
	Tracker *journey.Tracker
}

func NewJourneyHandlers(service *journey.Service) *JourneyHandlers {
	return &JourneyHandlers{
		Service: service,
		Tracker: journey.NewTracker(),
	}
}

// queryParams parses the shared journey query parameters. Reports its own
// HTTP errors and returns ok=false when the request is malformed.
func (h *JourneyHandlers) queryParams(c *gin.Context) (journey.QueryParams, bool) {
	projectID := c.Query("projectId")
	if projectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectId query parameter is required"})
		return journey.QueryParams{}, false
	}

	since, ok := utils.RangeStart(c.Query("range"), time.Now().UTC())
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'range' parameter. Use 7d, 30d or 90d."})
		return journey.QueryParams{}, false
	}

	status := models.StatusFilter(c.DefaultQuery("status", string(models.FilterAll)))
	if !models.ValidStatusFilter(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'status' parameter. Use all, visitors, leads or customers."})
		return journey.QueryParams{}, false
	}

	return journey.QueryParams{
		ProjectID: projectID,
		Search:    c.Query("q"),
		Since:     since,
		Status:    status,
	}, true
}

// GetJourneys reconstructs the journeys matching the query and returns them
// with population stats. Responses carry a generation token; a response
// superseded by a newer query for the same scope is flagged so the client
// discards it instead of rendering stale data.
func (h *JourneyHandlers) GetJourneys(c *gin.Context) {
	params, ok := h.queryParams(c)
	if !ok {
		return
	}

	scope := fmt.Sprintf("%d/%s", c.GetInt("user_id"), params.ProjectID)
	gen := h.Tracker.Begin(scope)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := h.Service.Query(ctx, params)
	if err != nil {
		log.Printf("Error querying journeys for project %s: %v", params.ProjectID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load customer journeys"})
		return
	}

	if !h.Tracker.Current(scope, gen) {
		log.Printf("Discarding superseded journey query (scope %s, generation %d)", scope, gen)
		c.JSON(http.StatusOK, gin.H{"token": gen, "superseded": true})
		return
	}

	response := gin.H{
		"token":    gen,
		"journeys": result.Journeys,
		"stats":    result.Stats,
	}
	if len(result.Journeys) == 0 {
		response["message"] = "No journeys matched your search"
	}

	c.JSON(http.StatusOK, response)
}

// GetAttribution returns the four attribution views for one visitor.
func (h *JourneyHandlers) GetAttribution(c *gin.Context) {
	projectID := c.Query("projectId")
	if projectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectId query parameter is required"})
		return
	}
	visitorID := c.Param("visitorId")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	report, err := h.Service.Attribution(ctx, projectID, visitorID)
	if err != nil {
		if errors.Is(err, journey.ErrNoJourney) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No journey recorded for this visitor"})
			return
		}
		log.Printf("Error computing attribution for visitor %s: %v", visitorID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute attribution"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportJourneys streams the filtered journey list as a CSV download. An
// empty list yields an explicit "nothing to export" response, not an empty
// file.
func (h *JourneyHandlers) ExportJourneys(c *gin.Context) {
	params, ok := h.queryParams(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := h.Service.Query(ctx, params)
	if err != nil {
		log.Printf("Error querying journeys for export (project %s): %v", params.ProjectID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load customer journeys"})
		return
	}

	blob, filename, err := journey.ExportCSV(result.Journeys)
	if err != nil {
		if errors.Is(err, journey.ErrNothingToExport) {
			c.JSON(http.StatusOK, gin.H{"message": "No journeys to export"})
			return
		}
		log.Printf("Error exporting journeys for project %s: %v", params.ProjectID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export journeys"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", blob)
}
