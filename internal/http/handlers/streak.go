package handlers

import (
	"net/http"
	"time"

	"learnhub_backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// GetMyStreak returns the derived streak state.
func (h *Handler) GetMyStreak(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	state, err := h.Streaks.GetStreak(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"streak": state})
}

type UseStreakSaverRequest struct {
	Date string `json:"date" binding:"required"` // YYYY-MM-DD
}

// UseStreakSaver covers a missed day from the monthly saver quota.
func (h *Handler) UseStreakSaver(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req UseStreakSaverRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format", "code": "validation"})
		return
	}

	// the saver flow serializes on the game_info row, so it must exist
	if _, err := h.Progression.EnsureGameInfo(c.Request.Context(), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	state, err := h.Streaks.UseStreakSaver(c.Request.Context(), userID, day)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	middleware.StreakSaversUsed.Inc()
	c.JSON(http.StatusOK, gin.H{"streak": state})
}
