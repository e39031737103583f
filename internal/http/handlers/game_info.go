package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetMyGameInfo returns xp, level, recomputed energy and next-level
// progress. The client displays these values, it never re-derives them.
func (h *Handler) GetMyGameInfo(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	info, err := h.Progression.GetGameInfo(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game_info": info})
}

type ConsumeEnergyRequest struct {
	Amount int `json:"amount" binding:"required"`
}

// ConsumeEnergy spends energy on a learning action. Regeneration is
// settled up to now before the deduction.
func (h *Handler) ConsumeEnergy(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req ConsumeEnergyRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	info, err := h.Progression.ConsumeEnergy(c.Request.Context(), userID, req.Amount, time.Now())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"game_info": info})
}
