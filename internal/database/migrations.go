package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS members (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(150) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		friend_id CHAR(8) UNIQUE NOT NULL,
		pickup_wins INTEGER NOT NULL DEFAULT 0 CHECK (pickup_wins >= 0),
		pickup_losses INTEGER NOT NULL DEFAULT 0 CHECK (pickup_losses >= 0),
		wins_3v3 INTEGER NOT NULL DEFAULT 0 CHECK (wins_3v3 >= 0),
		losses_3v3 INTEGER NOT NULL DEFAULT 0 CHECK (losses_3v3 >= 0),
		wins_4v4 INTEGER NOT NULL DEFAULT 0 CHECK (wins_4v4 >= 0),
		losses_4v4 INTEGER NOT NULL DEFAULT 0 CHECK (losses_4v4 >= 0),
		wins_5v5 INTEGER NOT NULL DEFAULT 0 CHECK (wins_5v5 >= 0),
		losses_5v5 INTEGER NOT NULL DEFAULT 0 CHECK (losses_5v5 >= 0),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGSERIAL PRIMARY KEY,
		member_id BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		token_hash VARCHAR(255) NOT NULL UNIQUE,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// Friendships are stored once per unordered pair.
	`CREATE TABLE IF NOT EXISTS friendships (
		member_low BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		member_high BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		PRIMARY KEY (member_low, member_high),
		CHECK (member_low < member_high)
	)`,

	`CREATE TABLE IF NOT EXISTS friend_requests (
		sender_id BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		receiver_id BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		PRIMARY KEY (sender_id, receiver_id),
		CHECK (sender_id <> receiver_id)
	)`,

	`CREATE TABLE IF NOT EXISTS pickup_games (
		id BIGSERIAL PRIMARY KEY,
		owner_id BIGINT REFERENCES members(id) ON DELETE SET NULL,
		format SMALLINT NOT NULL CHECK (format BETWEEN 2 AND 5),
		location VARCHAR(50) NOT NULL,
		date TIMESTAMP WITH TIME ZONE NOT NULL,
		join_code CHAR(8) UNIQUE NOT NULL,
		status SMALLINT NOT NULL DEFAULT 1 CHECK (status IN (1, 2, 3)),
		ringers_score SMALLINT NOT NULL DEFAULT 0 CHECK (ringers_score >= 0),
		ballers_score SMALLINT NOT NULL DEFAULT 0 CHECK (ballers_score >= 0),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS pickup_teams (
		id BIGSERIAL PRIMARY KEY,
		game_id BIGINT NOT NULL REFERENCES pickup_games(id) ON DELETE CASCADE,
		is_ringers BOOLEAN NOT NULL,
		UNIQUE(game_id, is_ringers)
	)`,

	`CREATE TABLE IF NOT EXISTS pickup_players (
		id BIGSERIAL PRIMARY KEY,
		game_id BIGINT NOT NULL REFERENCES pickup_games(id) ON DELETE CASCADE,
		member_id BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		status VARCHAR(20) NOT NULL CHECK (status IN ('pending', 'unassigned', 'assigned', 'requesting')),
		team_id BIGINT REFERENCES pickup_teams(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(game_id, member_id),
		CHECK ((status = 'assigned') = (team_id IS NOT NULL))
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id BIGSERIAL PRIMARY KEY,
		member_id BIGINT NOT NULL REFERENCES members(id) ON DELETE CASCADE,
		friend_member_id BIGINT REFERENCES members(id) ON DELETE CASCADE,
		game_id BIGINT REFERENCES pickup_games(id) ON DELETE CASCADE,
		message TEXT NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		CHECK ((friend_member_id IS NULL) <> (game_id IS NULL))
	)`,

	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_member_id ON refresh_tokens(member_id)`,
	`CREATE INDEX IF NOT EXISTS idx_friendships_member_high ON friendships(member_high)`,
	`CREATE INDEX IF NOT EXISTS idx_friend_requests_receiver_id ON friend_requests(receiver_id)`,
	`CREATE INDEX IF NOT EXISTS idx_pickup_games_owner_id ON pickup_games(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_pickup_games_date ON pickup_games(date)`,
	`CREATE INDEX IF NOT EXISTS idx_pickup_players_game_id ON pickup_players(game_id)`,
	`CREATE INDEX IF NOT EXISTS idx_pickup_players_member_id ON pickup_players(member_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_member_id ON notifications(member_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_game_id ON notifications(game_id)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
