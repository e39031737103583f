package http

import (
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/domain"
	"learnhub_backend/internal/http/handlers"
	"learnhub_backend/internal/http/middleware"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

// RegisterRoutes wires the engine services and the HTTP surface. The
// handlers stay thin; everything with rules lives in internal/service.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config, version string) {
	curve := domain.LevelCurve{Base: cfg.LevelXPBase, Step: cfg.LevelXPStep}

	progression := service.NewProgressionService(db, curve, cfg.MaxEnergy, cfg.RegenInterval())
	streaks := service.NewStreakService(db, cfg.StreakSaversPerMonth)
	evaluator := service.NewAchievementService(db, progression, streaks)
	claims := service.NewClaimService(db, progression, curve, cfg.MaxEnergy, cfg.RegenInterval())
	leaderboard := service.NewLeaderboardService(db, rdb, cfg.RankCacheTTL())
	completions := service.NewCompletionService(db, progression, curve)

	hub := ws.NewHub()

	h := &handlers.Handler{
		DB:             db,
		Progression:    progression,
		Streaks:        streaks,
		Evaluator:      evaluator,
		Claims:         claims,
		Leaderboard:    leaderboard,
		Completions:    completions,
		Hub:            hub,
		AdminUserIDs:   cfg.AdminUserIDs,
		DevAuthEnabled: cfg.DevAuthEnabled,
	}
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	apiWindow := time.Duration(cfg.APIRateWindowSec) * time.Second
	claimWindow := time.Duration(cfg.ClaimRateWindowSec) * time.Second
	claimRL := middleware.UserRateLimit("claim", cfg.ClaimRateLimit, claimWindow)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiWindow))

	// Dev auth (local only; in-process limiter so it works without redis)
	v1.POST("/auth/dev-token", middleware.SimpleRateLimit(5, time.Minute), h.DevToken)

	// Progression
	v1.GET("/me/gameinfo", middleware.JWT(), h.GetMyGameInfo)
	v1.POST("/me/energy/consume", middleware.JWT(), h.ConsumeEnergy)

	// Streaks
	v1.GET("/me/streak", middleware.JWT(), h.GetMyStreak)
	v1.POST("/me/streak/saver", middleware.JWT(), claimRL, h.UseStreakSaver)

	// Achievements
	v1.GET("/achievements", h.GetAchievements)
	v1.GET("/me/achievements", middleware.JWT(), h.GetMyAchievements)
	v1.POST("/achievements/:id/claim", middleware.JWT(), claimRL, h.ClaimAchievement)

	// Leaderboard
	v1.GET("/leaderboard", h.GetLeaderboard)
	v1.GET("/leaderboard/rank", middleware.JWT(), h.GetMyRank)

	// Grading subsystem intake
	v1.POST("/tests/completed", middleware.JWT(), h.NotifyTestCompleted)

	// Admin corrections
	v1.POST("/admin/xp-adjust", middleware.JWT(), h.AdminAdjustXP)

	// Live progression event feed
	r.GET("/ws", h.WS(hub))
}
