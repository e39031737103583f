package handlers

import (
	"errors"
	"net/http"

	"learnhub_backend/internal/service"
	"learnhub_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler wires the engine services into gin. Request parsing and error
// mapping live here, all rules in the services.
type Handler struct {
	DB *pgxpool.Pool

	Progression *service.ProgressionService
	Streaks     *service.StreakService
	Evaluator   *service.AchievementService
	Claims      *service.ClaimService
	Leaderboard *service.LeaderboardService
	Completions *service.CompletionService

	Hub *ws.Hub

	AdminUserIDs   []int64
	DevAuthEnabled bool
}

// getUserID извлекает user_id из контекста Gin
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

func (h *Handler) isAdmin(userID int64) bool {
	for _, id := range h.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// respondServiceError maps engine errors onto HTTP. The recoverable ones
// (energy, savers, conditions) come back as 409 with a stable code so
// clients can render them as normal states.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDelta),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrAchievementNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "not_found"})
	case errors.Is(err, service.ErrInsufficientEnergy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "insufficient_energy"})
	case errors.Is(err, service.ErrStreakSaverExhausted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "streak_saver_exhausted"})
	case errors.Is(err, service.ErrConditionsNotMet):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "conditions_not_met"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
