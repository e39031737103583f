package service

import (
	"context"
	"time"

	"learnhub_backend/internal/domain"
	"learnhub_backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// streakWindowDays bounds the backward walk and the history returned to
// clients. A streak cannot be longer than the recorded window.
const streakWindowDays = 366

// StreakService owns the per-user daily activity record and streak-saver
// consumption. Streak count and the monthly saver quota are both derived
// lazily from recorded days, so there are no scheduled resets.
type StreakService struct {
	db         *pgxpool.Pool
	streakRepo *repository.StreakRepository
	eventRepo  *repository.EventRepository

	saverQuota int

	now func() time.Time
}

func NewStreakService(db *pgxpool.Pool, saverQuota int) *StreakService {
	return &StreakService{
		db:         db,
		streakRepo: repository.NewStreakRepository(db),
		eventRepo:  repository.NewEventRepository(db),
		saverQuota: saverQuota,
		now:        time.Now,
	}
}

// RecordActivity marks a day as genuinely active. Idempotent: re-recording
// the same day is a no-op, and a saver-covered day keeps its saver flag.
func (s *StreakService) RecordActivity(ctx context.Context, userID int64, day time.Time) error {
	_, err := s.streakRepo.InsertDay(ctx, userID, day, false)
	return err
}

// GetStreak returns the derived streak state as of now.
func (s *StreakService) GetStreak(ctx context.Context, userID int64) (*domain.StreakState, error) {
	today := domain.DateOnly(s.now())

	days, err := s.streakRepo.DaysSince(ctx, userID, today.AddDate(0, 0, -streakWindowDays))
	if err != nil {
		return nil, err
	}

	used, err := s.streakRepo.SaversUsedSince(ctx, userID, monthStart(today))
	if err != nil {
		return nil, err
	}
	left := s.saverQuota - used
	if left < 0 {
		left = 0
	}

	return &domain.StreakState{
		StreakCount: domain.StreakCount(days, today),
		Days:        days,
		SaversLeft:  left,
	}, nil
}

// UseStreakSaver covers a genuinely missed day so the streak stays
// continuous. Validation happens before any write; the check-then-insert
// runs under the user's game_info row lock so two concurrent savers cannot
// overdraw the monthly quota.
func (s *StreakService) UseStreakSaver(ctx context.Context, userID int64, missedDay time.Time) (*domain.StreakState, error) {
	day := domain.DateOnly(missedDay)
	today := domain.DateOnly(s.now())

	if !day.Before(today) {
		return nil, ErrInvalidDate
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// per-user lock
	if _, err := tx.Exec(ctx, `SELECT 1 FROM game_info WHERE user_id = $1 FOR UPDATE`, userID); err != nil {
		return nil, err
	}

	var covered, prev, next bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM streak_days WHERE user_id = $1 AND day = $2),
		        EXISTS (SELECT 1 FROM streak_days WHERE user_id = $1 AND day = $3),
		        EXISTS (SELECT 1 FROM streak_days WHERE user_id = $1 AND day = $4)`,
		userID, day, day.AddDate(0, 0, -1), day.AddDate(0, 0, 1),
	).Scan(&covered, &prev, &next)
	if err != nil {
		return nil, err
	}
	if covered || (!prev && !next) {
		// not a missing day, or not adjacent to any recorded run
		return nil, ErrInvalidDate
	}

	var used int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM streak_days
		 WHERE user_id = $1 AND is_streak_saver = true AND created_at >= $2`,
		userID, monthStart(today),
	).Scan(&used)
	if err != nil {
		return nil, err
	}
	if used >= s.saverQuota {
		return nil, ErrStreakSaverExhausted
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO streak_days (user_id, day, is_streak_saver)
		 VALUES ($1, $2, true)`,
		userID, day,
	); err != nil {
		return nil, err
	}

	event := &domain.ProgressionEvent{
		UserID: userID,
		Kind:   domain.EventStreakSaver,
		Amount: 1,
		Meta:   map[string]interface{}{"day": day.Format("2006-01-02")},
	}
	if err := s.eventRepo.CreateWithTx(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return s.GetStreak(ctx, userID)
}

func monthStart(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
