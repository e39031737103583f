package service

import (
	"context"
	"errors"
	"time"

	"learnhub_backend/internal/domain"
	"learnhub_backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CompletionResult reports what a completion notification changed.
type CompletionResult struct {
	FirstCompletion bool              `json:"first_completion"`
	AwardedXP       int64             `json:"awarded_xp"`
	LevelUp         bool              `json:"level_up"`
	GameInfo        *GameInfoSnapshot `json:"game_info"`
}

// CompletionService is the intake for the grading subsystem: it records the
// completion fact, awards the XP once, and marks the day as streak
// activity, all in one transaction.
type CompletionService struct {
	db             *pgxpool.Pool
	gameInfoRepo   *repository.GameInfoRepository
	completionRepo *repository.TestCompletionRepository
	eventRepo      *repository.EventRepository

	progression *ProgressionService
	curve       domain.LevelCurve

	now func() time.Time
}

func NewCompletionService(db *pgxpool.Pool, progression *ProgressionService, curve domain.LevelCurve) *CompletionService {
	return &CompletionService{
		db:             db,
		gameInfoRepo:   repository.NewGameInfoRepository(db),
		completionRepo: repository.NewTestCompletionRepository(db),
		eventRepo:      repository.NewEventRepository(db),
		progression:    progression,
		curve:          curve,
		now:            time.Now,
	}
}

// NotifyTestCompleted records that the user finished a test. Idempotent:
// re-submitting the same test changes nothing and awards nothing.
func (s *CompletionService) NotifyTestCompleted(ctx context.Context, userID, testID, awardedXP int64) (*CompletionResult, error) {
	if awardedXP < 0 {
		return nil, ErrInvalidDelta
	}

	if _, err := s.progression.EnsureGameInfo(ctx, userID); err != nil {
		return nil, err
	}

	now := s.now()

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	g, err := s.gameInfoRepo.GetForUpdate(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	first, err := s.completionRepo.InsertTx(ctx, tx, userID, testID, awardedXP)
	if err != nil {
		return nil, err
	}

	levelBefore := g.Level
	if first {
		g.XPValue += awardedXP
		g.Level = s.curve.Level(g.XPValue)
		if err := s.gameInfoRepo.UpdateXP(ctx, tx, userID, g.XPValue, g.Level); err != nil {
			return nil, err
		}

		// completing a test counts as today's streak activity
		if _, err := tx.Exec(ctx,
			`INSERT INTO streak_days (user_id, day, is_streak_saver)
			 VALUES ($1, $2, false)
			 ON CONFLICT (user_id, day) DO NOTHING`,
			userID, domain.DateOnly(now),
		); err != nil {
			return nil, err
		}

		event := &domain.ProgressionEvent{
			UserID: userID,
			Kind:   domain.EventTestCompleted,
			Amount: awardedXP,
			Meta:   map[string]interface{}{"test_id": testID},
		}
		if err := s.eventRepo.CreateWithTx(ctx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &CompletionResult{
		FirstCompletion: first,
		AwardedXP:       awardedXP,
		LevelUp:         g.Level > levelBefore,
		GameInfo:        s.progression.Snapshot(g, now),
	}, nil
}
