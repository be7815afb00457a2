package handlers

import (
	"net/http"

	"prediction-engine/internal/auth"
	"prediction-engine/internal/models"
	"prediction-engine/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	predictions *services.PredictionService
	resolution  *services.ResolutionService
}

func NewAdminHandler(
	predictions *services.PredictionService,
	resolution *services.ResolutionService,
) *AdminHandler {
	return &AdminHandler{
		predictions: predictions,
		resolution:  resolution,
	}
}

// CreatePrediction creates a new prediction with its option set
func (h *AdminHandler) CreatePrediction(c *gin.Context) {
	adminID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreatePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prediction, err := h.predictions.CreatePrediction(c.Request.Context(), &req, &adminID)
	if err != nil {
		s, msg := statusForError(err)
		c.JSON(s, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    prediction,
	})
}

// ClosePrediction stops wagering on an open prediction
func (h *AdminHandler) ClosePrediction(c *gin.Context) {
	predictionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prediction id"})
		return
	}

	if err := h.predictions.ClosePrediction(c.Request.Context(), predictionID); err != nil {
		s, msg := statusForError(err)
		c.JSON(s, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CancelPrediction cancels an open or closed prediction
func (h *AdminHandler) CancelPrediction(c *gin.Context) {
	predictionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prediction id"})
		return
	}

	if err := h.predictions.CancelPrediction(c.Request.Context(), predictionID); err != nil {
		s, msg := statusForError(err)
		c.JSON(s, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ResolvePrediction declares the winning option and pays the winners
func (h *AdminHandler) ResolvePrediction(c *gin.Context) {
	adminID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	predictionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prediction id"})
		return
	}

	var req models.ResolvePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	winningOptionID, err := uuid.Parse(req.WinningOptionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid winning option id"})
		return
	}

	result, err := h.resolution.Resolve(c.Request.Context(), predictionID, winningOptionID, adminID)
	if err != nil {
		s, msg := statusForError(err)
		c.JSON(s, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
