package pickup

import (
	"testing"

	apperr "github.com/dimitrije/pickup-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

// readyGame returns a pending game with format players on each team.
func readyGame(t *testing.T, format int) *Game {
	t.Helper()
	g := newTestGame(t, format)
	var id int64 = 1
	for i := 0; i < format; i++ {
		addPlayer(g, id, 200+id, PlayerAssigned, &g.Ringers)
		id++
		addPlayer(g, id, 200+id, PlayerAssigned, &g.Ballers)
		id++
	}
	require.NoError(t, g.Validate())
	return g
}

func TestResultDelta(t *testing.T) {
	assert.Equal(t, StatDelta{PickupWins: 1}, ResultDelta(2, true))
	assert.Equal(t, StatDelta{PickupLosses: 1}, ResultDelta(2, false))
	assert.Equal(t, StatDelta{PickupWins: 1, Wins3v3: 1}, ResultDelta(3, true))
	assert.Equal(t, StatDelta{PickupLosses: 1, Losses4v4: 1}, ResultDelta(4, false))
	assert.Equal(t, StatDelta{PickupWins: 1, Wins5v5: 1}, ResultDelta(5, true))
}

func TestFinalize(t *testing.T) {
	g := readyGame(t, 3)

	out, err := g.Finalize(ownerID, intPtr(21), intPtr(15))

	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, g.Status)
	assert.Equal(t, 21, g.RingersScore)
	assert.Equal(t, 15, g.BallersScore)
	assert.Equal(t, g.Ringers, out.Winner)
	assert.Equal(t, g.Ballers, out.Loser)
	assert.ElementsMatch(t, []int64{201, 203, 205}, out.WinnerMembers)
	assert.ElementsMatch(t, []int64{202, 204, 206}, out.LoserMembers)
	assert.Equal(t, StatDelta{PickupWins: 1, Wins3v3: 1}, out.WinnerDelta)
	assert.Equal(t, StatDelta{PickupLosses: 1, Losses3v3: 1}, out.LoserDelta)
}

func TestFinalize_Checks(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(g *Game)
		ringers *int
		ballers *int
		actor   int64
		code    string
		msg     string
	}{
		{
			name:    "not owner",
			ringers: intPtr(1), ballers: intPtr(2),
			actor: 201,
			code:  apperr.ErrCodeForbidden,
		},
		{
			name:    "already completed",
			setup:   func(g *Game) { g.Status = StatusCompleted },
			ringers: intPtr(1), ballers: intPtr(2),
			actor: ownerID,
			code:  apperr.ErrCodeDomainState,
			msg:   "Game must be pending",
		},
		{
			name:    "unassigned players",
			setup:   func(g *Game) { addPlayer(g, 99, 999, PlayerUnassigned, nil) },
			ringers: intPtr(1), ballers: intPtr(2),
			actor: ownerID,
			code:  apperr.ErrCodeDomainState,
			msg:   "unassigned",
		},
		{
			name: "short team",
			setup: func(g *Game) {
				p := g.TeamPlayers(g.Ballers)[0]
				g.removePlayer(p)
			},
			ringers: intPtr(1), ballers: intPtr(2),
			actor: ownerID,
			code:  apperr.ErrCodeDomainState,
			msg:   "at least 3 players",
		},
		{
			name:    "missing score",
			ringers: intPtr(1),
			actor:   ownerID,
			code:    apperr.ErrCodeValidation,
		},
		{
			name:    "negative score",
			ringers: intPtr(-1), ballers: intPtr(2),
			actor: ownerID,
			code:  apperr.ErrCodeValidation,
		},
		{
			name:    "score too large",
			ringers: intPtr(MaxScore + 1), ballers: intPtr(2),
			actor: ownerID,
			code:  apperr.ErrCodeValidation,
		},
		{
			name:    "tie",
			ringers: intPtr(10), ballers: intPtr(10),
			actor: ownerID,
			code:  apperr.ErrCodeValidation,
			msg:   "ties are not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := readyGame(t, 3)
			if tt.setup != nil {
				tt.setup(g)
			}
			before := g.Status

			_, err := g.Finalize(tt.actor, tt.ringers, tt.ballers)

			assertCode(t, err, tt.code)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
			assert.Equal(t, before, g.Status)
		})
	}
}

func TestFinalize_PendingInvitesDoNotBlock(t *testing.T) {
	g := readyGame(t, 2)
	addPlayer(g, 50, 500, PlayerPending, nil)
	addPlayer(g, 51, 501, PlayerRequesting, nil)

	_, err := g.Finalize(ownerID, intPtr(3), intPtr(11))

	require.NoError(t, err)
	assert.Equal(t, "Ballers", g.WinnerName())
}

func TestRevert_InvertsFinalize(t *testing.T) {
	for _, format := range []int{2, 3, 4, 5} {
		g := readyGame(t, format)

		fin, err := g.Finalize(ownerID, intPtr(4), intPtr(9))
		require.NoError(t, err)
		rev, err := g.Revert(ownerID)
		require.NoError(t, err)

		assert.Equal(t, StatusPending, g.Status)
		assert.Equal(t, fin.WinnerMembers, rev.WinnerMembers)
		assert.Equal(t, fin.LoserMembers, rev.LoserMembers)
		assert.Equal(t, fin.WinnerDelta.Negate(), rev.WinnerDelta)
		assert.Equal(t, fin.LoserDelta.Negate(), rev.LoserDelta)
	}
}

func TestRevert_Errors(t *testing.T) {
	g := readyGame(t, 3)

	_, err := g.Revert(ownerID)
	assertCode(t, err, apperr.ErrCodeDomainState)

	_, err = g.Finalize(ownerID, intPtr(4), intPtr(9))
	require.NoError(t, err)

	_, err = g.Revert(201)
	assertCode(t, err, apperr.ErrCodeForbidden)
	assert.Equal(t, StatusCompleted, g.Status)

	g.RingersScore, g.BallersScore = 5, 5
	_, err = g.Revert(ownerID)
	assertCode(t, err, apperr.ErrCodeDomainState)
}
