package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dimitrije/pickup-api/internal/pickup"
	apperr "github.com/dimitrije/pickup-api/pkg/errors"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGameService(t *testing.T) (*GameService, pgxmock.PgxPoolIface) {
	t.Helper()
	db, mock := setupMockDB(t)
	return NewGameService(db, NewCodeAllocator(), NewNotificationService(db)), mock
}

func TestGameService_GetGame(t *testing.T) {
	svc, mock := setupGameService(t)
	g := fixtureGame()
	withPlayer(g, 1, 200, "Mike", pickup.PlayerAssigned, &g.Ringers)
	withPlayer(g, 2, 201, "Jo", pickup.PlayerPending, nil)
	expectLoadGame(mock, g, false)

	got, err := svc.GetGame(context.Background(), testGameID)

	require.NoError(t, err)
	assert.Equal(t, "ABCD1234", got.JoinCode)
	assert.True(t, got.IsOwner(testOwnerID))
	require.Len(t, got.TeamPlayers(got.Ringers), 1)
	assert.Equal(t, "Mike", got.TeamPlayers(got.Ringers)[0].Name)
	assert.Len(t, got.Partition(pickup.PlayerPending), 1)
	assert.NoError(t, got.Validate())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameService_GetGame_NotFound(t *testing.T) {
	svc, mock := setupGameService(t)

	mock.ExpectQuery(`FROM pickup_games g`).WithArgs(int64(9)).WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetGame(context.Background(), 9)

	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.Equal(t, apperr.ErrCodeNotFound, apperr.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameService_AcceptInvite(t *testing.T) {
	svc, mock := setupGameService(t)
	g := withPlayer(fixtureGame(), 3, 200, "Mike", pickup.PlayerPending, nil)

	mock.ExpectBegin()
	expectLoadGame(mock, g, true)
	mock.ExpectExec(`UPDATE pickup_players SET status`).
		WithArgs("unassigned", (*int64)(nil), int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(testOwnerID, (*int64)(nil), int64Ptr(testGameID),
			"Mike has accepted your game invite for Game at Rucker Park on June 01, 2030 at 05:00 PM UTC").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	got, err := svc.AcceptInvite(context.Background(), 200, testGameID)

	require.NoError(t, err)
	assert.Equal(t, pickup.PlayerUnassigned, got.PlayerByMember(200).Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameService_AcceptInvite_NotInvitedRollsBack(t *testing.T) {
	svc, mock := setupGameService(t)
	g := fixtureGame()

	mock.ExpectBegin()
	expectLoadGame(mock, g, true)
	mock.ExpectRollback()

	_, err := svc.AcceptInvite(context.Background(), 200, testGameID)

	assert.Equal(t, apperr.ErrCodeNotFound, apperr.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameService_Invite(t *testing.T) {
	svc, mock := setupGameService(t)
	g := withPlayer(fixtureGame(), 3, 200, "Mike", pickup.PlayerPending, nil)
	requested := []int64{200, 201, 999}

	mock.ExpectBegin()
	expectLoadGame(mock, g, true)
	mock.ExpectQuery(`SELECT id, name FROM members WHERE id = ANY`).
		WithArgs(requested).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(int64(200), "Mike").
			AddRow(int64(201), "Jo"))
	mock.ExpectQuery(`INSERT INTO pickup_players`).
		WithArgs(testGameID, int64(201), "pending").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(int64(201), (*int64)(nil), int64Ptr(testGameID),
			"Owner has invited you for Game at Rucker Park on June 01, 2030 at 05:00 PM UTC").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	_, res, err := svc.Invite(context.Background(), testOwnerID, testGameID, requested)

	require.NoError(t, err)
	require.Len(t, res.Invited, 1)
	assert.Equal(t, int64(4), res.Invited[0].ID)
	assert.Equal(t, []string{"Mike"}, res.AlreadyInvited)
	assert.Equal(t, []int64{999}, res.InvalidIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameService_Invite_NotOwnerRollsBack(t *testing.T) {
	svc, mock := setupGameService(t)
	g := fixtureGame()

	mock.ExpectBegin()
	expectLoadGame(mock, g, true)
	mock.ExpectQuery(`SELECT id, name FROM members WHERE id = ANY`).
		WithArgs([]int64{201}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(201), "Jo"))
	mock.ExpectRollback()

	_, _, err := svc.Invite(context.Background(), 555, testGameID, []int64{201})

	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameService_AssignTeams(t *testing.T) {
	svc, mock := setupGameService(t)
	g := fixtureGame()
	withPlayer(g, 1, 200, "Mike", pickup.PlayerUnassigned, nil)
	withPlayer(g, 2, 201, "Jo", pickup.PlayerUnassigned, nil)

	mock.ExpectBegin()
	expectLoadGame(mock, g, true)
	mock.ExpectExec(`UPDATE pickup_players SET status`).
		WithArgs("assigned", int64Ptr(11), int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE pickup_players SET status`).
		WithArgs("assigned", int64Ptr(12), int64(2)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	_, res, err := svc.AssignTeams(context.Background(), testOwnerID, testGameID, []int64{1}, []int64{2, 77})

	require.NoError(t, err)
	assert.Len(t, res.Ringers, 1)
	assert.Len(t, res.Ballers, 1)
	assert.Equal(t, []int64{77}, res.InvalidIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameService_RemoveFromTeam_NotAssignedWritesNothing(t *testing.T) {
	svc, mock := setupGameService(t)
	g := withPlayer(fixtureGame(), 1, 200, "Mike", pickup.PlayerUnassigned, nil)

	mock.ExpectBegin()
	expectLoadGame(mock, g, true)
	mock.ExpectCommit()

	_, change, err := svc.RemoveFromTeam(context.Background(), testOwnerID, testGameID, 1)

	require.NoError(t, err)
	assert.False(t, change.Changed)
	assert.Equal(t, "Mike was not previously assigned to a team", change.Note)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameService_RemoveBySelf(t *testing.T) {
	svc, mock := setupGameService(t)
	g := withPlayer(fixtureGame(), 1, 200, "Mike", pickup.PlayerAssigned, &pickup.Team{ID: 11, IsRingers: true})

	mock.ExpectBegin()
	expectLoadGame(mock, g, true)
	mock.ExpectExec(`DELETE FROM pickup_players WHERE id`).
		WithArgs(int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(testOwnerID, (*int64)(nil), int64Ptr(testGameID),
			"Mike has left Game at Rucker Park on June 01, 2030 at 05:00 PM UTC").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	got, err := svc.RemoveBySelf(context.Background(), 200, testGameID)

	require.NoError(t, err)
	assert.False(t, got.HasMember(200))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameService_RequestJoin_UnknownCode(t *testing.T) {
	svc, mock := setupGameService(t)

	mock.ExpectQuery(`SELECT id FROM pickup_games WHERE join_code`).
		WithArgs("ZZZZ0000").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.RequestJoin(context.Background(), 200, " zzzz0000 ")

	assert.Equal(t, apperr.ErrCodeNotFound, apperr.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameService_RequestJoin_AlreadyMember(t *testing.T) {
	svc, mock := setupGameService(t)
	g := withPlayer(fixtureGame(), 1, 200, "Mike", pickup.PlayerPending, nil)

	mock.ExpectQuery(`SELECT id FROM pickup_games WHERE join_code`).
		WithArgs("ABCD1234").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(testGameID))
	mock.ExpectQuery(`SELECT name FROM members WHERE id`).
		WithArgs(int64(200)).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Mike"))
	mock.ExpectBegin()
	expectLoadGame(mock, g, true)
	mock.ExpectRollback()

	_, err := svc.RequestJoin(context.Background(), 200, "ABCD1234")

	assert.Equal(t, apperr.ErrCodeDomainState, apperr.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameService_DeleteGame_NotOwner(t *testing.T) {
	svc, mock := setupGameService(t)

	mock.ExpectBegin()
	expectLoadGame(mock, fixtureGame(), true)
	mock.ExpectRollback()

	err := svc.DeleteGame(context.Background(), 555, testGameID)

	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameService_CreateGame_UnknownOwner(t *testing.T) {
	svc, mock := setupGameService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT name FROM members WHERE id`).
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, _, err := svc.CreateGame(context.Background(), 404, CreateGameInput{Format: 3, Location: "Court", Date: testGameDate})

	assert.True(t, errors.Is(err, ErrMemberNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGameService_CreateGame_InvalidFormat(t *testing.T) {
	svc, mock := setupGameService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT name FROM members WHERE id`).
		WithArgs(testOwnerID).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Owner"))
	mock.ExpectRollback()

	_, _, err := svc.CreateGame(context.Background(), testOwnerID, CreateGameInput{Format: 7, Location: "Court", Date: testGameDate})

	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}
