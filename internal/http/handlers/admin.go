package handlers

import (
	"net/http"

	"learnhub_backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type AdminXPAdjustRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Delta  int64  `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// AdminAdjustXP is the sanctioned correction path. The delta may be
// negative; the adjustment is audited in the ledger with its reason.
func (h *Handler) AdminAdjustXP(c *gin.Context) {
	callerID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if !h.isAdmin(callerID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}

	var req AdminXPAdjustRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	info, err := h.Progression.AdminAdjustXP(c.Request.Context(), req.UserID, req.Delta, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.Leaderboard.InvalidateRank(c.Request.Context(), req.UserID)
	if h.Hub != nil {
		h.Hub.Broadcast(ws.Event{Type: ws.EventLeaderboard, UserID: req.UserID})
	}
	c.JSON(http.StatusOK, gin.H{"game_info": info})
}
