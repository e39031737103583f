package main

import (
	"context"
	"log"
	"os"
	"time"

	"learnhub_backend/internal/db"
	"learnhub_backend/internal/domain"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/service"
)

func main() {
	// expects DATABASE_URL and JWT_SECRET env vars
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	gameInfoRepo := repository.NewGameInfoRepository(pool)
	ctx := context.Background()

	username := "testuser"
	if len(os.Args) > 1 {
		username = os.Args[1]
	}

	u, err := userRepo.GetByUsername(ctx, username)
	if err != nil {
		u = &domain.User{Username: username, FirstName: "Tester"}
		if err := userRepo.Create(ctx, u); err != nil {
			log.Fatalf("create user failed: %v", err)
		}
		log.Printf("user created id=%d\n", u.ID)
	} else {
		log.Printf("user already exists id=%d\n", u.ID)
	}

	if err := gameInfoRepo.Create(ctx, u.ID, 100, time.Now()); err != nil {
		log.Fatalf("create game_info failed: %v", err)
	}

	service.InitJWT(secret)
	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
