package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"learnhub_backend/internal/domain"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func setupDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	applyMigrations(t, db)
	return db
}

func createUser(t *testing.T, db *pgxpool.Pool) int64 {
	t.Helper()
	u := &domain.User{
		Username:  fmt.Sprintf("it_%d", time.Now().UnixNano()),
		FirstName: "Test",
	}
	if err := repository.NewUserRepository(db).Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

func createXPAchievement(t *testing.T, db *pgxpool.Pool, targetXP, rewardXP int64) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(context.Background(),
		`INSERT INTO achievements (title, target_xp_value, reward_type, reward_amount)
		 VALUES ($1, $2, 'xp', $3)
		 RETURNING id`,
		fmt.Sprintf("it_ach_%d", time.Now().UnixNano()), targetXP, rewardXP,
	).Scan(&id)
	if err != nil {
		t.Fatalf("create achievement: %v", err)
	}
	return id
}

func newServices(db *pgxpool.Pool) (*service.ProgressionService, *service.ClaimService) {
	curve := domain.LevelCurve{Base: 50, Step: 50}
	progression := service.NewProgressionService(db, curve, 100, 5*time.Minute)
	claims := service.NewClaimService(db, progression, curve, 100, 5*time.Minute)
	return progression, claims
}

func TestClaimExactlyOnce(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	userID := createUser(t, db)
	achID := createXPAchievement(t, db, 100, 500)

	progression, claims := newServices(db)

	if _, err := progression.AwardXP(ctx, userID, 150); err != nil {
		t.Fatalf("award xp: %v", err)
	}

	first, err := claims.Claim(ctx, userID, achID)
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if first.AlreadyClaimed {
		t.Fatal("first claim flagged as repeat")
	}
	if first.GameInfo.XPValue != 650 {
		t.Fatalf("xp after claim = %d, want 650", first.GameInfo.XPValue)
	}

	second, err := claims.Claim(ctx, userID, achID)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if !second.AlreadyClaimed {
		t.Fatal("second claim not flagged as repeat")
	}
	if second.GameInfo.XPValue != 650 {
		t.Fatalf("repeat claim changed xp: %d", second.GameInfo.XPValue)
	}
}

func TestClaimConditionsNotMet(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	userID := createUser(t, db)
	achID := createXPAchievement(t, db, 1000, 500)

	progression, claims := newServices(db)

	if _, err := progression.AwardXP(ctx, userID, 150); err != nil {
		t.Fatalf("award xp: %v", err)
	}

	if _, err := claims.Claim(ctx, userID, achID); err != service.ErrConditionsNotMet {
		t.Fatalf("expected ErrConditionsNotMet, got %v", err)
	}

	// nothing must have been written
	g, err := progression.GetGameInfo(ctx, userID)
	if err != nil {
		t.Fatalf("get game info: %v", err)
	}
	if g.XPValue != 150 {
		t.Fatalf("rejected claim changed xp: %d", g.XPValue)
	}
}

func TestClaimConcurrent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	userID := createUser(t, db)
	achID := createXPAchievement(t, db, 100, 500)

	progression, claims := newServices(db)

	if _, err := progression.AwardXP(ctx, userID, 150); err != nil {
		t.Fatalf("award xp: %v", err)
	}

	const n = 8
	results := make(chan *service.ClaimResult, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			res, err := claims.Claim(ctx, userID, achID)
			if err != nil {
				errs <- err
				return
			}
			results <- res
		}()
	}

	granted := 0
	for i := 0; i < n; i++ {
		select {
		case res := <-results:
			if !res.AlreadyClaimed {
				granted++
			}
		case err := <-errs:
			t.Fatalf("concurrent claim failed: %v", err)
		}
	}
	if granted != 1 {
		t.Fatalf("reward granted %d times, want exactly once", granted)
	}

	g, err := progression.GetGameInfo(ctx, userID)
	if err != nil {
		t.Fatalf("get game info: %v", err)
	}
	if g.XPValue != 650 {
		t.Fatalf("xp after concurrent claims = %d, want 650", g.XPValue)
	}
}

func TestNotifyTestCompletedIdempotent(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	userID := createUser(t, db)
	testID := time.Now().UnixNano()

	progression, _ := newServices(db)
	completions := service.NewCompletionService(db, progression, domain.LevelCurve{Base: 50, Step: 50})

	first, err := completions.NotifyTestCompleted(ctx, userID, testID, 70)
	if err != nil {
		t.Fatalf("first completion: %v", err)
	}
	if !first.FirstCompletion {
		t.Fatal("first completion not flagged as first")
	}
	if first.GameInfo.XPValue != 70 {
		t.Fatalf("xp after completion = %d, want 70", first.GameInfo.XPValue)
	}

	second, err := completions.NotifyTestCompleted(ctx, userID, testID, 70)
	if err != nil {
		t.Fatalf("repeat completion: %v", err)
	}
	if second.FirstCompletion {
		t.Fatal("repeat completion flagged as first")
	}
	if second.GameInfo.XPValue != 70 {
		t.Fatalf("repeat completion changed xp: %d", second.GameInfo.XPValue)
	}
}
