package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/pickup-api/internal/models"
	apperr "github.com/dimitrije/pickup-api/pkg/errors"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupMemberService(t *testing.T) (*MemberService, pgxmock.PgxPoolIface) {
	t.Helper()
	db, mock := setupMockDB(t)
	return NewMemberService(db, NewCodeAllocator(), NewNotificationService(db), bcrypt.MinCost), mock
}

var memberRowColumns = []string{
	"id", "username", "password_hash", "name", "friend_id",
	"pickup_wins", "pickup_losses", "wins_3v3", "losses_3v3", "wins_4v4", "losses_4v4", "wins_5v5", "losses_5v5",
	"created_at", "updated_at",
}

func memberRow(m *models.Member) *pgxmock.Rows {
	s := m.Stats
	return pgxmock.NewRows(memberRowColumns).AddRow(
		m.ID, m.Username, m.PasswordHash, m.Name, m.FriendID,
		s.PickupWins, s.PickupLosses, s.Wins3v3, s.Losses3v3, s.Wins4v4, s.Losses4v4, s.Wins5v5, s.Losses5v5,
		m.CreatedAt, m.UpdatedAt,
	)
}

func TestMemberService_Register_Validation(t *testing.T) {
	svc, mock := setupMemberService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, " ", "long-enough", "Name")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Register(ctx, "hooper", "short", "Name")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Register(ctx, "hooper", "long-enough", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_Authenticate(t *testing.T) {
	svc, mock := setupMemberService(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()
	m := &models.Member{ID: 3, Username: "hooper", PasswordHash: string(hash), Name: "Hooper", FriendID: "0A1B2C3D", CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery(`FROM members WHERE username`).WithArgs("hooper").WillReturnRows(memberRow(m))

	got, err := svc.Authenticate(context.Background(), "hooper", "correct horse")

	require.NoError(t, err)
	assert.Equal(t, int64(3), got.ID)
	assert.Equal(t, "0A1B2C3D", got.FriendID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_Authenticate_WrongPassword(t *testing.T) {
	svc, mock := setupMemberService(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	m := &models.Member{ID: 3, Username: "hooper", PasswordHash: string(hash)}

	mock.ExpectQuery(`FROM members WHERE username`).WithArgs("hooper").WillReturnRows(memberRow(m))

	_, err = svc.Authenticate(context.Background(), "hooper", "battery staple")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_Authenticate_UnknownUser(t *testing.T) {
	svc, mock := setupMemberService(t)

	mock.ExpectQuery(`FROM members WHERE username`).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)

	_, err := svc.Authenticate(context.Background(), "ghost", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_GetByID_NotFound(t *testing.T) {
	svc, mock := setupMemberService(t)

	mock.ExpectQuery(`FROM members WHERE id`).WithArgs(int64(8)).WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(context.Background(), 8)

	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_UpdateName(t *testing.T) {
	svc, mock := setupMemberService(t)
	m := &models.Member{ID: 3, Username: "hooper", Name: "New Name", FriendID: "0A1B2C3D"}

	mock.ExpectQuery(`UPDATE members SET name`).WithArgs("New Name", int64(3)).WillReturnRows(memberRow(m))

	got, err := svc.UpdateName(context.Background(), 3, "  New Name ")

	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_ListMembers(t *testing.T) {
	svc, mock := setupMemberService(t)

	mock.ExpectQuery(`SELECT id, name FROM members ORDER BY name, id`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(9), "Baller").AddRow(int64(3), "Hooper"))

	members, err := svc.ListMembers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []models.MemberSummary{{ID: 9, Name: "Baller"}, {ID: 3, Name: "Hooper"}}, members)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_SendFriendRequest(t *testing.T) {
	svc, mock := setupMemberService(t)

	mock.ExpectQuery(`SELECT id, name FROM members WHERE friend_id`).WithArgs("0A1B2C3D").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(9), "Kim"))
	mock.ExpectBegin()
	expectLockMembers(mock, 3, 9)
	mock.ExpectQuery(`SELECT name FROM members WHERE id`).WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Hooper"))
	mock.ExpectQuery(`FROM friendships`).WithArgs(int64(3), int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`FROM friend_requests`).WithArgs(int64(3), int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`FROM friend_requests`).WithArgs(int64(9), int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO friend_requests`).WithArgs(int64(3), int64(9)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(int64(9), int64Ptr(3), (*int64)(nil), "Hooper has sent you a friend request").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	receiver, err := svc.SendFriendRequest(context.Background(), 3, "0a1b2c3d")

	require.NoError(t, err)
	assert.Equal(t, "Kim", receiver.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_SendFriendRequest_ToSelf(t *testing.T) {
	svc, mock := setupMemberService(t)

	mock.ExpectQuery(`SELECT id, name FROM members WHERE friend_id`).WithArgs("0A1B2C3D").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(3), "Hooper"))

	_, err := svc.SendFriendRequest(context.Background(), 3, "0A1B2C3D")

	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_SendFriendRequest_AlreadyReceived(t *testing.T) {
	svc, mock := setupMemberService(t)

	mock.ExpectQuery(`SELECT id, name FROM members WHERE friend_id`).WithArgs("0A1B2C3D").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(int64(9), "Kim"))
	mock.ExpectBegin()
	expectLockMembers(mock, 3, 9)
	mock.ExpectQuery(`SELECT name FROM members WHERE id`).WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Hooper"))
	mock.ExpectQuery(`FROM friendships`).WithArgs(int64(3), int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`FROM friend_requests`).WithArgs(int64(3), int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`FROM friend_requests`).WithArgs(int64(9), int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := svc.SendFriendRequest(context.Background(), 3, "0A1B2C3D")

	assert.ErrorIs(t, err, apperr.ErrDomainState)
	assert.Contains(t, err.Error(), "accept it instead")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_SendFriendRequest_UnknownFriendID(t *testing.T) {
	svc, mock := setupMemberService(t)

	mock.ExpectQuery(`SELECT id, name FROM members WHERE friend_id`).WithArgs("FFFFFFFF").
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.SendFriendRequest(context.Background(), 3, "ffffffff")

	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_AcceptFriendRequest(t *testing.T) {
	svc, mock := setupMemberService(t)

	mock.ExpectBegin()
	expectLockMembers(mock, 3, 9)
	mock.ExpectExec(`DELETE FROM friend_requests`).WithArgs(int64(9), int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectQuery(`SELECT name FROM members WHERE id`).WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Hooper"))
	mock.ExpectExec(`INSERT INTO friendships`).WithArgs(int64(3), int64(9)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(int64(9), int64Ptr(3), (*int64)(nil), "Hooper has accepted your friend request").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := svc.AcceptFriendRequest(context.Background(), 3, 9)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_RejectFriendRequest_NotFound(t *testing.T) {
	svc, mock := setupMemberService(t)

	mock.ExpectBegin()
	expectLockMembers(mock, 3, 9)
	mock.ExpectExec(`DELETE FROM friend_requests`).WithArgs(int64(9), int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	err := svc.RejectFriendRequest(context.Background(), 3, 9)

	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_CancelFriendRequest(t *testing.T) {
	svc, mock := setupMemberService(t)

	mock.ExpectBegin()
	expectLockMembers(mock, 3, 9)
	mock.ExpectExec(`DELETE FROM friend_requests`).WithArgs(int64(3), int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectQuery(`SELECT name FROM members WHERE id`).WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).AddRow("Hooper"))
	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs(int64(9), int64Ptr(3), (*int64)(nil), "Hooper has rescinded their friend request").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	assert.NoError(t, svc.CancelFriendRequest(context.Background(), 3, 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_RemoveFriend_StoresUnorderedPair(t *testing.T) {
	svc, mock := setupMemberService(t)

	mock.ExpectBegin()
	expectLockMembers(mock, 3, 9)
	mock.ExpectExec(`DELETE FROM friendships`).WithArgs(int64(3), int64(9)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	assert.NoError(t, svc.RemoveFriend(context.Background(), 9, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberService_Page_Self(t *testing.T) {
	svc, mock := setupMemberService(t)

	mock.ExpectQuery(`FROM members m WHERE m.id`).WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "friend_id",
			"pickup_wins", "pickup_losses", "wins_3v3", "losses_3v3", "wins_4v4", "losses_4v4", "wins_5v5", "losses_5v5",
		}).AddRow(int64(3), "Hooper", "0A1B2C3D", 4, 1, 2, 0, 0, 0, 2, 1))

	page, err := svc.Page(context.Background(), 3, 3)

	require.NoError(t, err)
	assert.True(t, page.IsSelf)
	assert.Equal(t, 4, page.Member.Stats.PickupWins)
	assert.Empty(t, page.MutualFriends)
	assert.NoError(t, mock.ExpectationsWereMet())
}
