package handlers

import (
	"net/http"

	"learnhub_backend/internal/http/middleware"
	"learnhub_backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type TestCompletedRequest struct {
	TestID    int64 `json:"test_id" binding:"required"`
	AwardedXP int64 `json:"awarded_xp"`
}

// NotifyTestCompleted is the grading subsystem's intake. The XP amount is
// computed by grading; the engine records the fact, awards once, and marks
// streak activity.
func (h *Handler) NotifyTestCompleted(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req TestCompletedRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	result, err := h.Completions.NotifyTestCompleted(c.Request.Context(), userID, req.TestID, req.AwardedXP)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if result.FirstCompletion {
		middleware.XPAwardedTotal.Add(float64(result.AwardedXP))
		h.Leaderboard.InvalidateRank(c.Request.Context(), userID)

		if h.Hub != nil && result.LevelUp {
			h.Hub.Broadcast(ws.Event{Type: ws.EventLevelUp, UserID: userID, Payload: gin.H{
				"level": result.GameInfo.Level,
			}})
		}
	}

	c.JSON(http.StatusOK, result)
}
