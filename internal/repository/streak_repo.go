package repository

import (
	"context"
	"time"

	"learnhub_backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StreakRepository struct {
	db *pgxpool.Pool
}

func NewStreakRepository(db *pgxpool.Pool) *StreakRepository {
	return &StreakRepository{db: db}
}

// InsertDay records activity for a calendar day. Idempotent; reports whether
// a new row was actually written.
func (r *StreakRepository) InsertDay(ctx context.Context, userID int64, day time.Time, isSaver bool) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO streak_days (user_id, day, is_streak_saver)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, day) DO NOTHING`,
		userID, domain.DateOnly(day), isSaver,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// HasDay reports whether any record (genuine or saver) exists for the day.
func (r *StreakRepository) HasDay(ctx context.Context, userID int64, day time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM streak_days WHERE user_id = $1 AND day = $2)`,
		userID, domain.DateOnly(day),
	).Scan(&exists)
	return exists, err
}

// DaysSince returns the user's recorded days on or after the given date,
// newest first.
func (r *StreakRepository) DaysSince(ctx context.Context, userID int64, since time.Time) ([]domain.StreakDay, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, day, is_streak_saver, created_at
		 FROM streak_days
		 WHERE user_id = $1 AND day >= $2
		 ORDER BY day DESC`,
		userID, domain.DateOnly(since),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.StreakDay
	for rows.Next() {
		var d domain.StreakDay
		if err := rows.Scan(&d.UserID, &d.Day, &d.IsStreakSaver, &d.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

// SaversUsedSince counts savers SPENT on or after the given instant. The
// quota is charged when the saver is used (created_at), not by which day it
// covered: passing the first of the month gives the month's spent quota, so
// the monthly reset is a pure function of "now" - no scheduled job.
func (r *StreakRepository) SaversUsedSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM streak_days
		 WHERE user_id = $1 AND is_streak_saver = true AND created_at >= $2`,
		userID, since,
	).Scan(&n)
	return n, err
}
