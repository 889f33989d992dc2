// api/handlers/track_handlers.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"clickpath/api/models"
	"clickpath/api/store"
)

type TrackHandlers struct {
	EventStore *store.EventStore
}

func NewTrackHandlers(s *store.EventStore) *TrackHandlers {
	return &TrackHandlers{
		EventStore: s,
	}
}

// TrackEvent ingests a batch of raw tracking events from the snippet. Each
// event gets a server-side id; missing timestamps default to receipt time.
func (h *TrackHandlers) TrackEvent(c *gin.Context) {
	var incomingEvents []models.Event
	if err := c.ShouldBindJSON(&incomingEvents); err != nil {
		log.Printf("Error binding incoming tracking JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if len(incomingEvents) == 0 {
		c.Status(http.StatusOK)
		return
	}

	var eventsToInsert []models.Event

	for _, event := range incomingEvents {
		if event.ProjectID == "" || event.SessionID == "" || event.EventType == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Each event requires projectId, sessionId and eventType"})
			return
		}
		event.EventID = uuid.New().String()
		if event.CreatedAt.IsZero() {
			event.CreatedAt = time.Now().UTC()
		}

		eventsToInsert = append(eventsToInsert, event)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.EventStore.InsertEvents(ctx, eventsToInsert); err != nil {
		log.Printf("Error inserting tracking events into ClickHouse: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record tracking events"})
		return
	}

	c.Status(http.StatusOK)
}
