package service

import (
	"context"
	"errors"

	"learnhub_backend/internal/domain"
	"learnhub_backend/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AchievementService evaluates claimability. Pull model: nothing is pushed
// when conditions become true, callers evaluate whenever status is shown or
// a claim is attempted. Reads only; the ClaimService owns all writes.
type AchievementService struct {
	achievementRepo *repository.AchievementRepository
	claimRepo       *repository.ClaimRepository
	completionRepo  *repository.TestCompletionRepository

	progression *ProgressionService
	streaks     *StreakService
}

func NewAchievementService(db *pgxpool.Pool, progression *ProgressionService, streaks *StreakService) *AchievementService {
	return &AchievementService{
		achievementRepo: repository.NewAchievementRepository(db),
		claimRepo:       repository.NewClaimRepository(db),
		completionRepo:  repository.NewTestCompletionRepository(db),
		progression:     progression,
		streaks:         streaks,
	}
}

// ListDefinitions returns the active definitions without any user state.
func (s *AchievementService) ListDefinitions(ctx context.Context) ([]*domain.Achievement, error) {
	return s.achievementRepo.GetActive(ctx)
}

// Facts assembles the snapshot conditions are evaluated against. The
// completed-test set comes from recorded completion facts, never fetched
// from the grading subsystem inline.
func (s *AchievementService) Facts(ctx context.Context, userID int64) (domain.ProgressFacts, error) {
	var facts domain.ProgressFacts

	g, err := s.progression.EnsureGameInfo(ctx, userID)
	if err != nil {
		return facts, err
	}
	facts.XP = g.XPValue

	streak, err := s.streaks.GetStreak(ctx, userID)
	if err != nil {
		return facts, err
	}
	facts.StreakCount = streak.StreakCount

	completed, err := s.completionRepo.CompletedSet(ctx, userID)
	if err != nil {
		return facts, err
	}
	facts.CompletedTests = completed

	return facts, nil
}

// Evaluate returns the status of one achievement for the user.
func (s *AchievementService) Evaluate(ctx context.Context, userID, achievementID int64) (*domain.AchievementStatus, error) {
	a, err := s.achievementRepo.GetByID(ctx, achievementID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAchievementNotFound
		}
		return nil, err
	}

	facts, err := s.Facts(ctx, userID)
	if err != nil {
		return nil, err
	}

	claim, err := s.claimRepo.Get(ctx, userID, achievementID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	return evaluateOne(a, facts, claim), nil
}

// EvaluateAll returns the status of every active achievement, in display
// order, using one facts snapshot for all of them.
func (s *AchievementService) EvaluateAll(ctx context.Context, userID int64) ([]*domain.AchievementStatus, error) {
	achievements, err := s.achievementRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	facts, err := s.Facts(ctx, userID)
	if err != nil {
		return nil, err
	}

	claims, err := s.claimRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]*domain.AchievementStatus, 0, len(achievements))
	for _, a := range achievements {
		res = append(res, evaluateOne(a, facts, claims[a.ID]))
	}
	return res, nil
}

// evaluateOne: claimable is strict AND over present conditions, display
// progress is the mean of clamped ratios. An
// over-satisfied condition never compensates for an unsatisfied one.
func evaluateOne(a *domain.Achievement, facts domain.ProgressFacts, claim *domain.AchievementClaim) *domain.AchievementStatus {
	conds := a.Conditions(facts)

	progress := make([]domain.ConditionProgress, 0, len(conds))
	for _, c := range conds {
		progress = append(progress, domain.ConditionProgress{
			Kind:      c.Kind(),
			Current:   c.Current(),
			Total:     c.Total(),
			Satisfied: c.Satisfied(),
		})
	}

	status := &domain.AchievementStatus{
		Achievement: a,
		Claimed:     claim != nil,
		Conditions:  progress,
		ProgressPct: domain.DisplayProgressPct(conds),
	}
	if claim != nil {
		t := claim.ClaimedAt
		status.ClaimedAt = &t
	}
	status.Claimable = !status.Claimed && domain.AllSatisfied(conds)
	return status
}
