package repository

import (
	"context"

	"learnhub_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClaimRepository struct {
	db *pgxpool.Pool
}

func NewClaimRepository(db *pgxpool.Pool) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// Get returns the claim record, pgx.ErrNoRows when none exists.
func (r *ClaimRepository) Get(ctx context.Context, userID, achievementID int64) (*domain.AchievementClaim, error) {
	return scanClaim(r.db.QueryRow(ctx,
		`SELECT user_id, achievement_id, claimed_at, COALESCE(badge_content, '')
		 FROM achievement_claims
		 WHERE user_id = $1 AND achievement_id = $2`,
		userID, achievementID,
	))
}

// GetTx is Get inside an open transaction, used by the claim flow.
func (r *ClaimRepository) GetTx(ctx context.Context, tx pgx.Tx, userID, achievementID int64) (*domain.AchievementClaim, error) {
	return scanClaim(tx.QueryRow(ctx,
		`SELECT user_id, achievement_id, claimed_at, COALESCE(badge_content, '')
		 FROM achievement_claims
		 WHERE user_id = $1 AND achievement_id = $2`,
		userID, achievementID,
	))
}

// InsertTx writes the claim record. The UNIQUE(user_id, achievement_id)
// constraint makes this the at-most-once guard: a concurrent winner shows
// up as a unique violation that the caller treats as "already claimed".
func (r *ClaimRepository) InsertTx(ctx context.Context, tx pgx.Tx, c *domain.AchievementClaim) error {
	return tx.QueryRow(ctx,
		`INSERT INTO achievement_claims (user_id, achievement_id, badge_content)
		 VALUES ($1, $2, $3)
		 RETURNING claimed_at`,
		c.UserID, c.AchievementID, c.BadgeContent,
	).Scan(&c.ClaimedAt)
}

// ListByUser returns all of the user's claims keyed by achievement id.
func (r *ClaimRepository) ListByUser(ctx context.Context, userID int64) (map[int64]*domain.AchievementClaim, error) {
	rows, err := r.db.Query(ctx,
		`SELECT user_id, achievement_id, claimed_at, COALESCE(badge_content, '')
		 FROM achievement_claims
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[int64]*domain.AchievementClaim)
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		res[c.AchievementID] = c
	}
	return res, rows.Err()
}

func scanClaim(row interface{ Scan(dest ...interface{}) error }) (*domain.AchievementClaim, error) {
	var c domain.AchievementClaim
	err := row.Scan(&c.UserID, &c.AchievementID, &c.ClaimedAt, &c.BadgeContent)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
