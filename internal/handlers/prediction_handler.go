package handlers

import (
	"io"
	"net/http"
	"strconv"

	"prediction-engine/internal/models"
	"prediction-engine/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PredictionHandler struct {
	predictions *services.PredictionService
	stats       *services.StatsService
	broker      *services.StatsBroker
}

func NewPredictionHandler(
	predictions *services.PredictionService,
	stats *services.StatsService,
	broker *services.StatsBroker,
) *PredictionHandler {
	return &PredictionHandler{
		predictions: predictions,
		stats:       stats,
		broker:      broker,
	}
}

// ListPredictions returns predictions with optional status filtering
func (h *PredictionHandler) ListPredictions(c *gin.Context) {
	status := c.DefaultQuery("status", "open")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	predictions, err := h.predictions.ListPredictions(c.Request.Context(), status, limit, offset)
	if err != nil {
		s, msg := statusForError(err)
		c.JSON(s, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    predictions,
		"count":   len(predictions),
	})
}

// GetPrediction returns a prediction with its options
func (h *PredictionHandler) GetPrediction(c *gin.Context) {
	predictionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prediction id"})
		return
	}

	prediction, err := h.predictions.GetPrediction(c.Request.Context(), predictionID)
	if err != nil {
		s, msg := statusForError(err)
		c.JSON(s, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    prediction,
	})
}

// GetStats returns the current wager distribution for a prediction
func (h *PredictionHandler) GetStats(c *gin.Context) {
	predictionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prediction id"})
		return
	}

	stats, err := h.stats.ComputeStats(c.Request.Context(), predictionID)
	if err != nil {
		s, msg := statusForError(err)
		c.JSON(s, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// StreamStats pushes stats snapshots over SSE: one immediately, then
// one for every wager placed until the client disconnects
func (h *PredictionHandler) StreamStats(c *gin.Context) {
	predictionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prediction id"})
		return
	}

	initial, err := h.stats.ComputeStats(c.Request.Context(), predictionID)
	if err != nil {
		s, msg := statusForError(err)
		c.JSON(s, gin.H{"error": msg})
		return
	}

	updates := make(chan *models.PredictionStats, 8)
	unsubscribe := h.broker.Subscribe(predictionID, func(stats *models.PredictionStats) {
		select {
		case updates <- stats:
		default:
			// Slow consumer: drop the snapshot, a newer one follows
		}
	})
	defer unsubscribe()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.SSEvent("stats", initial)
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case stats := <-updates:
			c.SSEvent("stats", stats)
			return true
		case <-clientGone:
			return false
		}
	})
}
