package service

import (
	"context"
	"errors"
	"time"

	"learnhub_backend/internal/domain"
	"learnhub_backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// ClaimResult is what a claim returns. It always carries the post-claim
// GameInfo snapshot so clients never need a follow-up refetch.
type ClaimResult struct {
	Claim          *domain.AchievementClaim `json:"claim"`
	AlreadyClaimed bool                     `json:"already_claimed"`
	RewardType     domain.RewardType        `json:"reward_type"`
	RewardAmount   int64                    `json:"reward_amount"`
	RewardContent  string                   `json:"reward_content,omitempty"`
	LevelUp        bool                     `json:"level_up"`
	GameInfo       *GameInfoSnapshot        `json:"game_info"`
}

// ClaimService is the only writer of claim records and the only component
// allowed to mutate XP/energy as a reward side effect. Recording the claim
// and applying the reward happen in one transaction: they never diverge.
type ClaimService struct {
	db              *pgxpool.Pool
	gameInfoRepo    *repository.GameInfoRepository
	claimRepo       *repository.ClaimRepository
	achievementRepo *repository.AchievementRepository
	completionRepo  *repository.TestCompletionRepository
	streakRepo      *repository.StreakRepository
	eventRepo       *repository.EventRepository

	progression *ProgressionService

	curve         domain.LevelCurve
	maxEnergy     int
	regenInterval time.Duration

	now func() time.Time
}

func NewClaimService(db *pgxpool.Pool, progression *ProgressionService, curve domain.LevelCurve, maxEnergy int, regenInterval time.Duration) *ClaimService {
	return &ClaimService{
		db:              db,
		gameInfoRepo:    repository.NewGameInfoRepository(db),
		claimRepo:       repository.NewClaimRepository(db),
		achievementRepo: repository.NewAchievementRepository(db),
		completionRepo:  repository.NewTestCompletionRepository(db),
		streakRepo:      repository.NewStreakRepository(db),
		eventRepo:       repository.NewEventRepository(db),
		progression:     progression,
		curve:           curve,
		maxEnergy:       maxEnergy,
		regenInterval:   regenInterval,
		now:             time.Now,
	}
}

// Claim grants the achievement's reward exactly once. Repeated calls are
// idempotent successes returning the existing record; a lost insert race is
// folded into the same path, never surfaced as a failure and never applied
// twice.
func (s *ClaimService) Claim(ctx context.Context, userID, achievementID int64) (*ClaimResult, error) {
	a, err := s.achievementRepo.GetByID(ctx, achievementID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAchievementNotFound
		}
		return nil, err
	}
	if !a.IsActive {
		return nil, ErrAchievementNotFound
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

	// already claimed: idempotent success, no mutation
	existing, err := s.claimRepo.GetTx(ctx, tx, userID, achievementID)
	if err == nil {
		return s.alreadyClaimed(a, existing, g, now), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// re-evaluate against the locked XP value
	facts, err := s.factsLocked(ctx, g)
	if err != nil {
		return nil, err
	}
	conds := a.Conditions(facts)
	if !domain.AllSatisfied(conds) {
		return nil, ErrConditionsNotMet
	}

	claim := &domain.AchievementClaim{
		UserID:        userID,
		AchievementID: achievementID,
	}
	if a.RewardType == domain.RewardBadge {
		claim.BadgeContent = a.RewardContent
	}

	if err := s.claimRepo.InsertTx(ctx, tx, claim); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			// concurrent winner: fall back to the idempotent path
			_ = tx.Rollback(ctx)
			return s.claimedByRace(ctx, a, userID, now)
		}
		return nil, err
	}

	levelBefore := g.Level
	switch a.RewardType {
	case domain.RewardXP:
		g.XPValue += a.RewardAmount
		g.Level = s.curve.Level(g.XPValue)
		if err := s.gameInfoRepo.UpdateXP(ctx, tx, userID, g.XPValue, g.Level); err != nil {
			return nil, err
		}
	case domain.RewardEnergy:
		value := g.EnergyAt(now, s.maxEnergy, s.regenInterval) + int(a.RewardAmount)
		if value > s.maxEnergy {
			value = s.maxEnergy
		}
		g.EnergyValue = value
		g.EnergyLastUpdate = now
		if err := s.gameInfoRepo.UpdateEnergy(ctx, tx, userID, value, now); err != nil {
			return nil, err
		}
	case domain.RewardBadge:
		// the badge content on the claim record is the reward
	}

	event := &domain.ProgressionEvent{
		UserID: userID,
		Kind:   domain.EventClaim,
		Amount: a.RewardAmount,
		Meta: map[string]interface{}{
			"achievement_id": achievementID,
			"reward_type":    string(a.RewardType),
		},
	}
	if err := s.eventRepo.CreateWithTx(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &ClaimResult{
		Claim:         claim,
		RewardType:    a.RewardType,
		RewardAmount:  a.RewardAmount,
		RewardContent: claim.BadgeContent,
		LevelUp:       g.Level > levelBefore,
		GameInfo:      s.progression.Snapshot(g, now),
	}, nil
}

// factsLocked builds evaluation facts with XP taken from the locked row.
// Streak and completion reads are lock-free: they are pure functions of
// persisted state.
func (s *ClaimService) factsLocked(ctx context.Context, g *domain.GameInfo) (domain.ProgressFacts, error) {
	facts := domain.ProgressFacts{XP: g.XPValue}

	today := domain.DateOnly(s.now())
	days, err := s.streakRepo.DaysSince(ctx, g.UserID, today.AddDate(0, 0, -streakWindowDays))
	if err != nil {
		return facts, err
	}
	facts.StreakCount = domain.StreakCount(days, today)

	completed, err := s.completionRepo.CompletedSet(ctx, g.UserID)
	if err != nil {
		return facts, err
	}
	facts.CompletedTests = completed

	return facts, nil
}

func (s *ClaimService) alreadyClaimed(a *domain.Achievement, claim *domain.AchievementClaim, g *domain.GameInfo, now time.Time) *ClaimResult {
	return &ClaimResult{
		Claim:          claim,
		AlreadyClaimed: true,
		RewardType:     a.RewardType,
		RewardAmount:   a.RewardAmount,
		RewardContent:  claim.BadgeContent,
		GameInfo:       s.progression.Snapshot(g, now),
	}
}

func (s *ClaimService) claimedByRace(ctx context.Context, a *domain.Achievement, userID int64, now time.Time) (*ClaimResult, error) {
	claim, err := s.claimRepo.Get(ctx, userID, a.ID)
	if err != nil {
		return nil, err
	}
	g, err := s.gameInfoRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.alreadyClaimed(a, claim, g, now), nil
}
