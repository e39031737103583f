package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"learnhub_backend/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DevAuthEnabled bool
	AdminUserIDs   []int64 // comma-separated in env

	// Progression engine tunables
	MaxEnergy            int
	EnergyRegenSeconds   int
	StreakSaversPerMonth int
	LevelXPBase          int64
	LevelXPStep          int64
	RankCacheTTLSeconds  int

	// Rate limits
	APIRateLimit       int
	APIRateWindowSec   int
	ClaimRateLimit     int
	ClaimRateWindowSec int
}

// RegenInterval returns the time needed to regenerate one energy point.
func (c *Config) RegenInterval() time.Duration {
	return time.Duration(c.EnergyRegenSeconds) * time.Second
}

func (c *Config) RankCacheTTL() time.Duration {
	return time.Duration(c.RankCacheTTLSeconds) * time.Second
}

// Load reads config from the environment (.env supported). Fatal on missing
// required values; everything else has a safe default.
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	var adminIDs []int64
	if s := os.Getenv("ADMIN_USER_IDS"); s != "" {
		for _, idStr := range strings.Split(s, ",") {
			idStr = strings.TrimSpace(idStr)
			if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
				adminIDs = append(adminIDs, id)
			}
		}
	}

	return &Config{
		AppPort:     port,
		DatabaseURL: dbURL,
		JWTSecret:   jwtSecret,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		DevAuthEnabled: os.Getenv("DEV_AUTH_ENABLED") == "true",
		AdminUserIDs:   adminIDs,

		MaxEnergy:            envInt("MAX_ENERGY", 100),
		EnergyRegenSeconds:   envInt("ENERGY_REGEN_SECONDS", 300), // 1 point / 5 min
		StreakSaversPerMonth: envInt("STREAK_SAVERS_PER_MONTH", 2),
		LevelXPBase:          envInt64("LEVEL_XP_BASE", 50),
		LevelXPStep:          envInt64("LEVEL_XP_STEP", 50),
		RankCacheTTLSeconds:  envInt("LEADERBOARD_RANK_TTL_SECONDS", 30),

		APIRateLimit:       envInt("API_RATE_LIMIT", 60),
		APIRateWindowSec:   envInt("API_RATE_WINDOW_SECONDS", 60),
		ClaimRateLimit:     envInt("CLAIM_RATE_LIMIT", 20),
		ClaimRateWindowSec: envInt("CLAIM_RATE_WINDOW_SECONDS", 60),
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
