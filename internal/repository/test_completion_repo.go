package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TestCompletionRepository struct {
	db *pgxpool.Pool
}

func NewTestCompletionRepository(db *pgxpool.Pool) *TestCompletionRepository {
	return &TestCompletionRepository{db: db}
}

// InsertTx records a completion fact. Idempotent; reports whether this was
// the first completion so the caller only awards XP once.
func (r *TestCompletionRepository) InsertTx(ctx context.Context, tx pgx.Tx, userID, testID, awardedXP int64) (bool, error) {
	tag, err := tx.Exec(ctx,
		`INSERT INTO test_completions (user_id, test_id, awarded_xp)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, test_id) DO NOTHING`,
		userID, testID, awardedXP,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CompletedSet returns the set of test ids the user has completed. The
// achievement evaluator receives this as an input instead of querying
// grading state itself.
func (r *TestCompletionRepository) CompletedSet(ctx context.Context, userID int64) (map[int64]bool, error) {
	rows, err := r.db.Query(ctx,
		`SELECT test_id FROM test_completions WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		res[id] = true
	}
	return res, rows.Err()
}
