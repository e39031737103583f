package repository

import (
	"context"
	"encoding/json"

	"learnhub_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	db *pgxpool.Pool
}

func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// CreateWithTx appends a ledger event inside an open transaction so the
// event commits or rolls back with the mutation it describes.
func (r *EventRepository) CreateWithTx(ctx context.Context, dbTx pgx.Tx, e *domain.ProgressionEvent) error {
	metaJSON, err := json.Marshal(e.Meta)
	if err != nil {
		metaJSON = []byte("{}")
	}

	return dbTx.QueryRow(ctx,
		`INSERT INTO progression_events (user_id, kind, amount, meta)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		e.UserID, e.Kind, e.Amount, metaJSON,
	).Scan(&e.ID, &e.CreatedAt)
}

// GetByUserID returns the user's recent ledger events, newest first.
func (r *EventRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.ProgressionEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, kind, amount, meta, created_at
		 FROM progression_events
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.ProgressionEvent
	for rows.Next() {
		var e domain.ProgressionEvent
		var metaJSON []byte
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Amount, &metaJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &e.Meta)
		}
		res = append(res, &e)
	}
	return res, rows.Err()
}
