package handlers

import (
	"net/http"

	"prediction-engine/internal/auth"
	"prediction-engine/internal/models"
	"prediction-engine/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BetHandler struct {
	bets *services.BetService
}

func NewBetHandler(bets *services.BetService) *BetHandler {
	return &BetHandler{bets: bets}
}

// PlaceBet places the caller's single wager on a prediction option
func (h *BetHandler) PlaceBet(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	predictionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prediction id"})
		return
	}

	var req models.PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	optionID, err := uuid.Parse(req.OptionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid option id"})
		return
	}

	wager, err := h.bets.PlaceBet(c.Request.Context(), userID, predictionID, optionID, req.Amount)
	if err != nil {
		s, msg := statusForError(err)
		c.JSON(s, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    wager,
	})
}

// GetMyWager returns the caller's wager on a prediction, if any
func (h *BetHandler) GetMyWager(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	predictionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prediction id"})
		return
	}

	wager, err := h.bets.GetUserWager(c.Request.Context(), userID, predictionID)
	if err != nil {
		s, msg := statusForError(err)
		c.JSON(s, gin.H{"error": msg})
		return
	}

	if wager == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No wager placed on this prediction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    wager,
	})
}
