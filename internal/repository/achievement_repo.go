package repository

import (
	"context"

	"learnhub_backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AchievementRepository struct {
	db *pgxpool.Pool
}

func NewAchievementRepository(db *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// GetActive returns all active achievement definitions in display order.
func (r *AchievementRepository) GetActive(ctx context.Context) ([]*domain.Achievement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, description, icon, target_xp_value, target_streak_value,
				target_test_id, reward_type, reward_amount, COALESCE(reward_content, ''),
				is_active, sort_order, created_at, updated_at
		 FROM achievements
		 WHERE is_active = true
		 ORDER BY sort_order, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Achievement
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

// GetByID returns one definition regardless of active flag.
func (r *AchievementRepository) GetByID(ctx context.Context, id int64) (*domain.Achievement, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, title, description, icon, target_xp_value, target_streak_value,
				target_test_id, reward_type, reward_amount, COALESCE(reward_content, ''),
				is_active, sort_order, created_at, updated_at
		 FROM achievements
		 WHERE id = $1`,
		id,
	)
	return scanAchievement(row)
}

func scanAchievement(row interface{ Scan(dest ...interface{}) error }) (*domain.Achievement, error) {
	var a domain.Achievement
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Icon,
		&a.TargetXPValue, &a.TargetStreakValue, &a.TargetTestID,
		&a.RewardType, &a.RewardAmount, &a.RewardContent,
		&a.IsActive, &a.SortOrder, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
