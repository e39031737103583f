package repository

import (
	"context"
	"time"

	"learnhub_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GameInfoRepository struct {
	db *pgxpool.Pool
}

func NewGameInfoRepository(db *pgxpool.Pool) *GameInfoRepository {
	return &GameInfoRepository{db: db}
}

// Get returns the user's game_info row. pgx.ErrNoRows when absent.
func (r *GameInfoRepository) Get(ctx context.Context, userID int64) (*domain.GameInfo, error) {
	var g domain.GameInfo
	err := r.db.QueryRow(ctx,
		`SELECT user_id, xp_value, level, energy_value, energy_last_update, updated_at
		 FROM game_info
		 WHERE user_id = $1`,
		userID,
	).Scan(&g.UserID, &g.XPValue, &g.Level, &g.EnergyValue, &g.EnergyLastUpdate, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create inserts a fresh row with full energy. Idempotent: an existing row
// is left untouched.
func (r *GameInfoRepository) Create(ctx context.Context, userID int64, maxEnergy int, now time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO game_info (user_id, xp_value, level, energy_value, energy_last_update)
		 VALUES ($1, 0, 1, $2, $3)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, maxEnergy, now,
	)
	return err
}

// GetForUpdate locks the user's row inside the given transaction. All
// per-user progression writes go through this lock.
func (r *GameInfoRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, userID int64) (*domain.GameInfo, error) {
	var g domain.GameInfo
	err := tx.QueryRow(ctx,
		`SELECT user_id, xp_value, level, energy_value, energy_last_update, updated_at
		 FROM game_info
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).Scan(&g.UserID, &g.XPValue, &g.Level, &g.EnergyValue, &g.EnergyLastUpdate, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// UpdateXP persists xp and the derived level.
func (r *GameInfoRepository) UpdateXP(ctx context.Context, tx pgx.Tx, userID int64, xp int64, level int) error {
	_, err := tx.Exec(ctx,
		`UPDATE game_info
		 SET xp_value = $1, level = $2, updated_at = now()
		 WHERE user_id = $3`,
		xp, level, userID,
	)
	return err
}

// UpdateEnergy persists a recomputed energy baseline and advances
// energy_last_update. Only writes move the timestamp, never reads.
func (r *GameInfoRepository) UpdateEnergy(ctx context.Context, tx pgx.Tx, userID int64, energy int, at time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE game_info
		 SET energy_value = $1, energy_last_update = $2, updated_at = now()
		 WHERE user_id = $3`,
		energy, at, userID,
	)
	return err
}

// TopN returns leaderboard entries ordered by (level desc, xp desc,
// user_id asc). The trailing user_id keeps the order stable across calls.
func (r *GameInfoRepository) TopN(ctx context.Context, n int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT g.user_id, COALESCE(u.username, ''), COALESCE(u.first_name, ''), g.level, g.xp_value
		 FROM game_info g
		 JOIN users u ON u.id = g.user_id
		 ORDER BY g.level DESC, g.xp_value DESC, g.user_id ASC
		 LIMIT $1`,
		n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.LeaderboardEntry
	rank := 1
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.FirstName, &e.Level, &e.XPValue); err != nil {
			return nil, err
		}
		e.Rank = rank
		res = append(res, e)
		rank++
	}
	return res, rows.Err()
}

// RankOf returns the user's 1-indexed position in the full ordering. The
// window order includes user_id, so every position is distinct.
func (r *GameInfoRepository) RankOf(ctx context.Context, userID int64) (int, *domain.LeaderboardEntry, error) {
	var rank int
	var e domain.LeaderboardEntry
	err := r.db.QueryRow(ctx,
		`WITH ranked AS (
			SELECT g.user_id, COALESCE(u.username, '') AS username,
			       COALESCE(u.first_name, '') AS first_name, g.level, g.xp_value,
			       RANK() OVER (ORDER BY g.level DESC, g.xp_value DESC, g.user_id ASC) AS rank
			FROM game_info g
			JOIN users u ON u.id = g.user_id
		)
		SELECT rank, user_id, username, first_name, level, xp_value
		FROM ranked
		WHERE user_id = $1`,
		userID,
	).Scan(&rank, &e.UserID, &e.Username, &e.FirstName, &e.Level, &e.XPValue)
	if err != nil {
		return 0, nil, err
	}
	e.Rank = rank
	return rank, &e, nil
}
