package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/pickup-api/internal/database"
	"github.com/dimitrije/pickup-api/internal/models"
	"github.com/dimitrije/pickup-api/internal/pickup"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateMember creates a test member with default values
func (f *Fixtures) CreateMember(t *testing.T, opts ...MemberOption) *models.Member {
	t.Helper()
	f.counter++

	m := &models.Member{
		Username:     fmt.Sprintf("member%d", f.counter),
		Name:         fmt.Sprintf("Test Member %d", f.counter),
		FriendID:     fmt.Sprintf("FX%06d", f.counter),
		PasswordHash: "unusable",
	}

	for _, opt := range opts {
		opt(m)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO members (username, password_hash, name, friend_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, m.Username, m.PasswordHash, m.Name, m.FriendID).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create member: %v", err)
	}

	return m
}

// MemberOption configures a test member
type MemberOption func(*models.Member)

// WithName sets the member's display name
func WithName(name string) MemberOption {
	return func(m *models.Member) {
		m.Name = name
	}
}

// WithUsername sets the member's username
func WithUsername(username string) MemberOption {
	return func(m *models.Member) {
		m.Username = username
	}
}

// WithPassword stores a real bcrypt hash of password
func WithPassword(password string) MemberOption {
	return func(m *models.Member) {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		m.PasswordHash = string(hash)
	}
}

// CreateMembers creates n members with default values
func (f *Fixtures) CreateMembers(t *testing.T, n int) []*models.Member {
	t.Helper()
	out := make([]*models.Member, n)
	for i := range out {
		out[i] = f.CreateMember(t)
	}
	return out
}

// MakeFriends records a friendship between a and b
func (f *Fixtures) MakeFriends(t *testing.T, a, b *models.Member) {
	t.Helper()
	low, high := a.ID, b.ID
	if low > high {
		low, high = high, low
	}
	_, err := f.db.Pool.Exec(context.Background(), `
		INSERT INTO friendships (member_low, member_high) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, low, high)
	if err != nil {
		t.Fatalf("failed to create friendship: %v", err)
	}
}

// AddPlayer puts member into game with the given status, bypassing the
// invite flow. team is only used for assigned players.
func (f *Fixtures) AddPlayer(t *testing.T, game *pickup.Game, member *models.Member, status pickup.PlayerStatus, team *pickup.Team) {
	t.Helper()
	var teamID *int64
	if team != nil {
		teamID = &team.ID
	}
	_, err := f.db.Pool.Exec(context.Background(), `
		INSERT INTO pickup_players (game_id, member_id, status, team_id)
		VALUES ($1, $2, $3, $4)
	`, game.ID, member.ID, string(status), teamID)
	if err != nil {
		t.Fatalf("failed to add player: %v", err)
	}
}

// SetGameDate moves a game in time, bypassing the details validation
func (f *Fixtures) SetGameDate(t *testing.T, gameID int64, date time.Time) {
	t.Helper()
	_, err := f.db.Pool.Exec(context.Background(), `UPDATE pickup_games SET date = $1 WHERE id = $2`, date, gameID)
	if err != nil {
		t.Fatalf("failed to set game date: %v", err)
	}
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, memberID int64, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (member_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, memberID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}
