package services

import (
	"testing"
	"time"

	"github.com/dimitrije/pickup-api/internal/database"
	"github.com/dimitrije/pickup-api/internal/pickup"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

const (
	testOwnerID int64 = 100
	testGameID  int64 = 1
)

var testGameDate = time.Date(2030, time.June, 1, 17, 0, 0, 0, time.UTC)

func setupMockDB(t *testing.T) (*database.DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return &database.DB{Pool: mock}, mock
}

func int64Ptr(v int64) *int64 { return &v }

// fixtureGame is a pending 2v2 game owned by testOwnerID.
func fixtureGame() *pickup.Game {
	ownerID := testOwnerID
	return &pickup.Game{
		ID:        testGameID,
		OwnerID:   &ownerID,
		OwnerName: "Owner",
		Format:    2,
		Location:  "Rucker Park",
		Date:      testGameDate,
		JoinCode:  "ABCD1234",
		Status:    pickup.StatusPending,
		Ringers:   pickup.Team{ID: 11, IsRingers: true},
		Ballers:   pickup.Team{ID: 12},
		CreatedAt: testGameDate.Add(-72 * time.Hour),
		UpdatedAt: testGameDate.Add(-72 * time.Hour),
	}
}

func withPlayer(g *pickup.Game, id, memberID int64, name string, status pickup.PlayerStatus, team *pickup.Team) *pickup.Game {
	p := &pickup.Player{ID: id, MemberID: memberID, Name: name, Status: status}
	if team != nil {
		p.TeamID = int64Ptr(team.ID)
	}
	g.Players = append(g.Players, p)
	return g
}

func gameRow(g *pickup.Game) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "owner_id", "owner_name", "format", "location", "date", "join_code",
		"status", "ringers_score", "ballers_score", "created_at", "updated_at",
	}).AddRow(
		g.ID, g.OwnerID, g.OwnerName, g.Format, g.Location, g.Date, g.JoinCode,
		int(g.Status), g.RingersScore, g.BallersScore, g.CreatedAt, g.UpdatedAt,
	)
}

// expectLoadGame queues the three reads loadGame issues for g.
func expectLoadGame(mock pgxmock.PgxPoolIface, g *pickup.Game, lock bool) {
	query := `FROM pickup_games g LEFT JOIN members o ON o.id = g.owner_id WHERE g.id =`
	if lock {
		query += ` .+ FOR UPDATE OF g`
	}
	mock.ExpectQuery(query).WithArgs(g.ID).WillReturnRows(gameRow(g))

	mock.ExpectQuery(`SELECT id, is_ringers FROM pickup_teams`).WithArgs(g.ID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "is_ringers"}).
			AddRow(g.Ringers.ID, true).
			AddRow(g.Ballers.ID, false))

	players := pgxmock.NewRows([]string{"id", "member_id", "name", "status", "team_id"})
	for _, p := range g.Players {
		players.AddRow(p.ID, p.MemberID, p.Name, string(p.Status), p.TeamID)
	}
	mock.ExpectQuery(`FROM pickup_players p JOIN members m`).WithArgs(g.ID).WillReturnRows(players)
}
