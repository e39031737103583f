package integration

import (
	"context"
	"testing"
	"time"

	"learnhub_backend/internal/domain"
	"learnhub_backend/internal/service"
)

func TestStreakSaverRestoresRun(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	userID := createUser(t, db)
	progression, _ := newServices(db)
	if _, err := progression.GetGameInfo(ctx, userID); err != nil {
		t.Fatalf("ensure game info: %v", err)
	}

	streaks := service.NewStreakService(db, 2)

	today := domain.DateOnly(time.Now())
	// activity every day except two days ago
	for _, offset := range []int{-3, -1, 0} {
		if err := streaks.RecordActivity(ctx, userID, today.AddDate(0, 0, offset)); err != nil {
			t.Fatalf("record activity: %v", err)
		}
	}

	state, err := streaks.GetStreak(ctx, userID)
	if err != nil {
		t.Fatalf("get streak: %v", err)
	}
	if state.StreakCount != 2 {
		t.Fatalf("streak before saver = %d, want 2", state.StreakCount)
	}

	state, err = streaks.UseStreakSaver(ctx, userID, today.AddDate(0, 0, -2))
	if err != nil {
		t.Fatalf("use saver: %v", err)
	}
	if state.StreakCount != 4 {
		t.Fatalf("streak after saver = %d, want 4", state.StreakCount)
	}
	if state.SaversLeft != 1 {
		t.Fatalf("savers left = %d, want 1", state.SaversLeft)
	}
}

func TestStreakSaverRejectsCoveredAndFutureDays(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	userID := createUser(t, db)
	progression, _ := newServices(db)
	if _, err := progression.GetGameInfo(ctx, userID); err != nil {
		t.Fatalf("ensure game info: %v", err)
	}

	streaks := service.NewStreakService(db, 2)
	today := domain.DateOnly(time.Now())

	if err := streaks.RecordActivity(ctx, userID, today); err != nil {
		t.Fatalf("record activity: %v", err)
	}

	// today is not a missed day
	if _, err := streaks.UseStreakSaver(ctx, userID, today); err != service.ErrInvalidDate {
		t.Fatalf("saver on today: got %v, want ErrInvalidDate", err)
	}
	// future days can never be saved
	if _, err := streaks.UseStreakSaver(ctx, userID, today.AddDate(0, 0, 1)); err != service.ErrInvalidDate {
		t.Fatalf("saver on tomorrow: got %v, want ErrInvalidDate", err)
	}
	// a day already covered by activity is rejected
	if _, err := streaks.UseStreakSaver(ctx, userID, today.AddDate(0, 0, -30)); err != service.ErrInvalidDate {
		t.Fatalf("saver on isolated day: got %v, want ErrInvalidDate", err)
	}
}

func TestStreakSaverQuotaExhausted(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	userID := createUser(t, db)
	progression, _ := newServices(db)
	if _, err := progression.GetGameInfo(ctx, userID); err != nil {
		t.Fatalf("ensure game info: %v", err)
	}

	streaks := service.NewStreakService(db, 1)
	today := domain.DateOnly(time.Now())

	for _, offset := range []int{-5, -3, -1, 0} {
		if err := streaks.RecordActivity(ctx, userID, today.AddDate(0, 0, offset)); err != nil {
			t.Fatalf("record activity: %v", err)
		}
	}

	if _, err := streaks.UseStreakSaver(ctx, userID, today.AddDate(0, 0, -2)); err != nil {
		t.Fatalf("first saver: %v", err)
	}
	if _, err := streaks.UseStreakSaver(ctx, userID, today.AddDate(0, 0, -4)); err != service.ErrStreakSaverExhausted {
		t.Fatalf("second saver: got %v, want ErrStreakSaverExhausted", err)
	}
}
