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

// GameInfoSnapshot is the server-authoritative view returned to clients.
// Energy is recomputed at read time; the level math happens here so clients
// never duplicate the formulas.
type GameInfoSnapshot struct {
	UserID               int64     `json:"user_id"`
	XPValue              int64     `json:"xp_value"`
	Level                int       `json:"level"`
	EnergyValue          int       `json:"energy_value"`
	MaxEnergy            int       `json:"max_energy"`
	EnergyLastUpdate     time.Time `json:"energy_last_update"`
	NextLevelCost        int64     `json:"next_level_cost"`
	NextLevelProgressPct int       `json:"next_level_progress_pct"`
}

// ProgressionService owns per-user XP, level and energy. All writes lock
// the user's game_info row, so concurrent mutations serialize per user.
type ProgressionService struct {
	db           *pgxpool.Pool
	gameInfoRepo *repository.GameInfoRepository
	eventRepo    *repository.EventRepository

	curve         domain.LevelCurve
	maxEnergy     int
	regenInterval time.Duration

	now func() time.Time
}

func NewProgressionService(db *pgxpool.Pool, curve domain.LevelCurve, maxEnergy int, regenInterval time.Duration) *ProgressionService {
	return &ProgressionService{
		db:            db,
		gameInfoRepo:  repository.NewGameInfoRepository(db),
		eventRepo:     repository.NewEventRepository(db),
		curve:         curve,
		maxEnergy:     maxEnergy,
		regenInterval: regenInterval,
		now:           time.Now,
	}
}

func (s *ProgressionService) Snapshot(g *domain.GameInfo, at time.Time) *GameInfoSnapshot {
	return &GameInfoSnapshot{
		UserID:               g.UserID,
		XPValue:              g.XPValue,
		Level:                g.Level,
		EnergyValue:          g.EnergyAt(at, s.maxEnergy, s.regenInterval),
		MaxEnergy:            s.maxEnergy,
		EnergyLastUpdate:     g.EnergyLastUpdate,
		NextLevelCost:        s.curve.NextLevelCost(g.Level),
		NextLevelProgressPct: s.curve.ProgressPct(g.XPValue),
	}
}

// EnsureGameInfo returns the user's row, creating a fresh one with full
// energy on first touch.
func (s *ProgressionService) EnsureGameInfo(ctx context.Context, userID int64) (*domain.GameInfo, error) {
	g, err := s.gameInfoRepo.Get(ctx, userID)
	if err == nil {
		return g, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if err := s.gameInfoRepo.Create(ctx, userID, s.maxEnergy, s.now()); err != nil {
		return nil, err
	}
	g, err = s.gameInfoRepo.Get(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		// user row itself is missing (FK), treat as unknown user
		return nil, ErrUserNotFound
	}
	return g, err
}

// GetGameInfo returns the snapshot with recomputed energy. Pure read, the
// stored row is untouched.
func (s *ProgressionService) GetGameInfo(ctx context.Context, userID int64) (*GameInfoSnapshot, error) {
	g, err := s.EnsureGameInfo(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Snapshot(g, s.now()), nil
}

// AwardXP adds a non-negative delta and recomputes the level through the
// injected curve. XP never decreases on this path.
func (s *ProgressionService) AwardXP(ctx context.Context, userID int64, delta int64) (*GameInfoSnapshot, error) {
	if delta < 0 {
		return nil, ErrInvalidDelta
	}

	if _, err := s.EnsureGameInfo(ctx, userID); err != nil {
		return nil, err
	}

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

	g.XPValue += delta
	g.Level = s.curve.Level(g.XPValue)
	if err := s.gameInfoRepo.UpdateXP(ctx, tx, userID, g.XPValue, g.Level); err != nil {
		return nil, err
	}

	event := &domain.ProgressionEvent{
		UserID: userID,
		Kind:   domain.EventXPAward,
		Amount: delta,
	}
	if err := s.eventRepo.CreateWithTx(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s.Snapshot(g, s.now()), nil
}

// AdminAdjustXP is the one sanctioned non-monotonic XP path. The delta may
// be negative; the result is clamped at zero and the reason is kept in the
// ledger.
func (s *ProgressionService) AdminAdjustXP(ctx context.Context, userID int64, delta int64, reason string) (*GameInfoSnapshot, error) {
	if _, err := s.EnsureGameInfo(ctx, userID); err != nil {
		return nil, err
	}

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

	g.XPValue += delta
	if g.XPValue < 0 {
		g.XPValue = 0
	}
	g.Level = s.curve.Level(g.XPValue)
	if err := s.gameInfoRepo.UpdateXP(ctx, tx, userID, g.XPValue, g.Level); err != nil {
		return nil, err
	}

	event := &domain.ProgressionEvent{
		UserID: userID,
		Kind:   domain.EventXPAdminAdjust,
		Amount: delta,
		Meta:   map[string]interface{}{"reason": reason},
	}
	if err := s.eventRepo.CreateWithTx(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s.Snapshot(g, s.now()), nil
}

// GetEnergy recomputes the current energy without writing. Repeated reads
// at the same instant return the same value; energy_last_update only moves
// on writes.
func (s *ProgressionService) GetEnergy(ctx context.Context, userID int64, at time.Time) (int, error) {
	g, err := s.EnsureGameInfo(ctx, userID)
	if err != nil {
		return 0, err
	}
	return g.EnergyAt(at, s.maxEnergy, s.regenInterval), nil
}

// ConsumeEnergy recomputes regeneration up to at, then deducts. On
// ErrInsufficientEnergy nothing is written.
func (s *ProgressionService) ConsumeEnergy(ctx context.Context, userID int64, amount int, at time.Time) (*GameInfoSnapshot, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if _, err := s.EnsureGameInfo(ctx, userID); err != nil {
		return nil, err
	}

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

	current := g.EnergyAt(at, s.maxEnergy, s.regenInterval)
	if current < amount {
		return nil, ErrInsufficientEnergy
	}

	g.EnergyValue = current - amount
	g.EnergyLastUpdate = at
	if err := s.gameInfoRepo.UpdateEnergy(ctx, tx, userID, g.EnergyValue, at); err != nil {
		return nil, err
	}

	event := &domain.ProgressionEvent{
		UserID: userID,
		Kind:   domain.EventEnergyConsume,
		Amount: -int64(amount),
	}
	if err := s.eventRepo.CreateWithTx(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s.Snapshot(g, at), nil
}

// CreditEnergy adds energy on top of the recomputed value, capped at max.
func (s *ProgressionService) CreditEnergy(ctx context.Context, userID int64, amount int, at time.Time) (*GameInfoSnapshot, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}

	if _, err := s.EnsureGameInfo(ctx, userID); err != nil {
		return nil, err
	}

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

	current := g.EnergyAt(at, s.maxEnergy, s.regenInterval)
	value := current + amount
	if value > s.maxEnergy {
		value = s.maxEnergy
	}

	g.EnergyValue = value
	g.EnergyLastUpdate = at
	if err := s.gameInfoRepo.UpdateEnergy(ctx, tx, userID, value, at); err != nil {
		return nil, err
	}

	event := &domain.ProgressionEvent{
		UserID: userID,
		Kind:   domain.EventEnergyCredit,
		Amount: int64(amount),
	}
	if err := s.eventRepo.CreateWithTx(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s.Snapshot(g, at), nil
}
