package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dimitrije/pickup-api/internal/config"
	"github.com/dimitrije/pickup-api/internal/database"
	"github.com/dimitrije/pickup-api/internal/services"
	"github.com/dimitrije/pickup-api/pkg/logger"
	"github.com/jackc/pgx/v5"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: issue-token <friend-id>")
		os.Exit(1)
	}

	friendID := strings.ToUpper(strings.TrimSpace(os.Args[1]))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.LogLevel, !cfg.IsProduction())
	defer logger.Sync()

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL, 1)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	var (
		memberID int64
		username string
	)
	err = db.Pool.QueryRow(ctx, `SELECT id, username FROM members WHERE friend_id = $1`, friendID).
		Scan(&memberID, &username)
	if errors.Is(err, pgx.ErrNoRows) {
		fmt.Fprintf(os.Stderr, "No member found with friend id: %s\n", friendID)
		os.Exit(1)
	}
	if err != nil {
		logger.Fatal("Failed to look up member", err)
	}

	jwtService := services.NewJWTService(cfg.JWT())
	pair, err := jwtService.GenerateTokenPair(memberID, username)
	if err != nil {
		logger.Fatal("Failed to generate token", err)
	}

	tokenService := services.NewTokenService(db)
	expiresAt := time.Now().Add(jwtService.RefreshExpiry())
	if err := tokenService.StoreRefreshToken(ctx, memberID, services.HashToken(pair.RefreshToken), expiresAt); err != nil {
		logger.Fatal("Failed to store refresh token", err)
	}

	fmt.Printf("member:        %s (id %d)\n", username, memberID)
	fmt.Printf("access_token:  %s\n", pair.AccessToken)
	fmt.Printf("refresh_token: %s\n", pair.RefreshToken)
}
