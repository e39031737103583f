package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetLeaderboard returns the top entries ordered by (level, xp) with a
// deterministic tie-break.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit := 100
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	top, err := h.Leaderboard.TopN(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": top})
}

// GetMyRank returns the current user's 1-indexed position. May be cached
// for a bounded TTL; ordering among untied entries is always exact.
func (h *Handler) GetMyRank(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	entry, err := h.Leaderboard.RankOf(c.Request.Context(), userID)
	if err != nil {
		// no game_info yet means unranked
		c.JSON(http.StatusOK, gin.H{"rank": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rank":  entry.Rank,
		"entry": entry,
	})
}
