package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"learnhub_backend/internal/domain"
	"learnhub_backend/internal/logger"
	"learnhub_backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

const maxLeaderboardLimit = 100

// LeaderboardService derives ordering and rank from game_info snapshots.
// TopN is always live; RankOf may serve a redis-cached value up to rankTTL
// old, which is the documented staleness bound. Without redis every query
// is live.
type LeaderboardService struct {
	gameInfoRepo *repository.GameInfoRepository
	rdb          *redis.Client
	rankTTL      time.Duration
}

func NewLeaderboardService(db *pgxpool.Pool, rdb *redis.Client, rankTTL time.Duration) *LeaderboardService {
	return &LeaderboardService{
		gameInfoRepo: repository.NewGameInfoRepository(db),
		rdb:          rdb,
		rankTTL:      rankTTL,
	}
}

// TopN returns the first n entries of the full ordering. The ordering is
// deterministic, so TopN is always a prefix of TopN+k for the same data.
func (s *LeaderboardService) TopN(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	if n <= 0 || n > maxLeaderboardLimit {
		n = maxLeaderboardLimit
	}
	return s.gameInfoRepo.TopN(ctx, n)
}

// RankOf returns the user's 1-indexed position in the full ordering.
func (s *LeaderboardService) RankOf(ctx context.Context, userID int64) (*domain.LeaderboardEntry, error) {
	if e := s.cachedRank(ctx, userID); e != nil {
		return e, nil
	}

	_, entry, err := s.gameInfoRepo.RankOf(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.cacheRank(ctx, entry)
	return entry, nil
}

// InvalidateRank drops the cached rank after an XP mutation so the next
// read is live.
func (s *LeaderboardService) InvalidateRank(ctx context.Context, userID int64) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, rankKey(userID)).Err(); err != nil {
		logger.Warn("failed to invalidate rank cache", "user_id", userID, "error", err)
	}
}

func (s *LeaderboardService) cachedRank(ctx context.Context, userID int64) *domain.LeaderboardEntry {
	if s.rdb == nil || s.rankTTL <= 0 {
		return nil
	}
	raw, err := s.rdb.Get(ctx, rankKey(userID)).Bytes()
	if err != nil {
		return nil
	}
	var e domain.LeaderboardEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil
	}
	return &e
}

func (s *LeaderboardService) cacheRank(ctx context.Context, e *domain.LeaderboardEntry) {
	if s.rdb == nil || s.rankTTL <= 0 {
		return
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	// best-effort: redis being down never breaks rank queries
	_ = s.rdb.Set(ctx, rankKey(e.UserID), raw, s.rankTTL).Err()
}

func rankKey(userID int64) string {
	return "lb:rank:" + strconv.FormatInt(userID, 10)
}
