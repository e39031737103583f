package handlers

import (
	"net/http"
	"strconv"

	"learnhub_backend/internal/domain"
	"learnhub_backend/internal/http/middleware"
	"learnhub_backend/internal/ws"

	"github.com/gin-gonic/gin"
)

// GetAchievements returns the active definitions without user state.
func (h *Handler) GetAchievements(c *gin.Context) {
	achievements, err := h.Evaluator.ListDefinitions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get achievements"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}

// GetMyAchievements returns every active achievement with the user's
// claimable/claimed flags and per-condition progress.
func (h *Handler) GetMyAchievements(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	statuses, err := h.Evaluator.EvaluateAll(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"achievements": statuses})
}

// ClaimAchievement grants the reward exactly once. A repeat claim returns
// the existing record with 200, not an error.
func (h *Handler) ClaimAchievement(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	achievementID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid achievement id"})
		return
	}

	result, err := h.Claims.Claim(c.Request.Context(), userID, achievementID)
	if err != nil {
		middleware.ClaimsTotal.WithLabelValues("rejected").Inc()
		respondServiceError(c, err)
		return
	}

	if result.AlreadyClaimed {
		middleware.ClaimsTotal.WithLabelValues("repeat").Inc()
	} else {
		middleware.ClaimsTotal.WithLabelValues("granted").Inc()
		if result.RewardType == domain.RewardXP {
			middleware.XPAwardedTotal.Add(float64(result.RewardAmount))
		}
		h.Leaderboard.InvalidateRank(c.Request.Context(), userID)

		if h.Hub != nil {
			h.Hub.Broadcast(ws.Event{Type: ws.EventClaim, UserID: userID, Payload: gin.H{
				"achievement_id": achievementID,
			}})
			if result.LevelUp {
				h.Hub.Broadcast(ws.Event{Type: ws.EventLevelUp, UserID: userID, Payload: gin.H{
					"level": result.GameInfo.Level,
				}})
			}
		}
	}

	c.JSON(http.StatusOK, result)
}
