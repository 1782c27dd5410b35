package testutil

import (
	"context"
	"time"

	"github.com/dimitrije/pickup-api/internal/models"
	"github.com/dimitrije/pickup-api/internal/pickup"
	"github.com/dimitrije/pickup-api/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockMemberService mocks the MemberService
type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) Register(ctx context.Context, username, password, name string) (*models.Member, error) {
	args := m.Called(ctx, username, password, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberService) Authenticate(ctx context.Context, username, password string) (*models.Member, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberService) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberService) UpdateName(ctx context.Context, id int64, name string) (*models.Member, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberService) Page(ctx context.Context, viewerID, memberID int64) (*models.MemberPage, error) {
	args := m.Called(ctx, viewerID, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MemberPage), args.Error(1)
}

func (m *MockMemberService) ListMembers(ctx context.Context) ([]models.MemberSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MemberSummary), args.Error(1)
}

func (m *MockMemberService) ListFriends(ctx context.Context, memberID int64) (*models.FriendOverview, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FriendOverview), args.Error(1)
}

func (m *MockMemberService) SendFriendRequest(ctx context.Context, senderID int64, friendID string) (*models.MemberSummary, error) {
	args := m.Called(ctx, senderID, friendID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MemberSummary), args.Error(1)
}

func (m *MockMemberService) AcceptFriendRequest(ctx context.Context, receiverID, senderID int64) error {
	args := m.Called(ctx, receiverID, senderID)
	return args.Error(0)
}

func (m *MockMemberService) RejectFriendRequest(ctx context.Context, receiverID, senderID int64) error {
	args := m.Called(ctx, receiverID, senderID)
	return args.Error(0)
}

func (m *MockMemberService) CancelFriendRequest(ctx context.Context, senderID, receiverID int64) error {
	args := m.Called(ctx, senderID, receiverID)
	return args.Error(0)
}

func (m *MockMemberService) RemoveFriend(ctx context.Context, memberID, friendID int64) error {
	args := m.Called(ctx, memberID, friendID)
	return args.Error(0)
}

// MockGameService mocks the GameService
type MockGameService struct {
	mock.Mock
}

func (m *MockGameService) gameResult(args mock.Arguments) (*pickup.Game, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pickup.Game), args.Error(1)
}

func (m *MockGameService) CreateGame(ctx context.Context, ownerID int64, in services.CreateGameInput) (*pickup.Game, *pickup.InviteResult, error) {
	args := m.Called(ctx, ownerID, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*pickup.Game), args.Get(1).(*pickup.InviteResult), args.Error(2)
}

func (m *MockGameService) GetGame(ctx context.Context, gameID int64) (*pickup.Game, error) {
	return m.gameResult(m.Called(ctx, gameID))
}

func (m *MockGameService) ListGames(ctx context.Context) ([]models.GameSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.GameSummary), args.Error(1)
}

func (m *MockGameService) ListMemberGames(ctx context.Context, memberID int64) (*models.MemberGames, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MemberGames), args.Error(1)
}

func (m *MockGameService) Invite(ctx context.Context, actorID, gameID int64, memberIDs []int64) (*pickup.Game, *pickup.InviteResult, error) {
	args := m.Called(ctx, actorID, gameID, memberIDs)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*pickup.Game), args.Get(1).(*pickup.InviteResult), args.Error(2)
}

func (m *MockGameService) AcceptInvite(ctx context.Context, memberID, gameID int64) (*pickup.Game, error) {
	return m.gameResult(m.Called(ctx, memberID, gameID))
}

func (m *MockGameService) RejectInvite(ctx context.Context, memberID, gameID int64) (*pickup.Game, error) {
	return m.gameResult(m.Called(ctx, memberID, gameID))
}

func (m *MockGameService) RequestJoin(ctx context.Context, memberID int64, joinCode string) (*pickup.Game, error) {
	return m.gameResult(m.Called(ctx, memberID, joinCode))
}

func (m *MockGameService) playerResult(args mock.Arguments) (*pickup.Game, *pickup.Player, error) {
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*pickup.Game), args.Get(1).(*pickup.Player), args.Error(2)
}

func (m *MockGameService) AcceptJoinRequest(ctx context.Context, actorID, gameID, playerID int64) (*pickup.Game, *pickup.Player, error) {
	return m.playerResult(m.Called(ctx, actorID, gameID, playerID))
}

func (m *MockGameService) RejectJoinRequest(ctx context.Context, actorID, gameID, playerID int64) (*pickup.Game, *pickup.Player, error) {
	return m.playerResult(m.Called(ctx, actorID, gameID, playerID))
}

func (m *MockGameService) AssignTeams(ctx context.Context, actorID, gameID int64, ringersIDs, ballersIDs []int64) (*pickup.Game, *pickup.Assignment, error) {
	args := m.Called(ctx, actorID, gameID, ringersIDs, ballersIDs)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*pickup.Game), args.Get(1).(*pickup.Assignment), args.Error(2)
}

func (m *MockGameService) teamResult(args mock.Arguments) (*pickup.Game, *pickup.TeamChange, error) {
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*pickup.Game), args.Get(1).(*pickup.TeamChange), args.Error(2)
}

func (m *MockGameService) ReassignTeam(ctx context.Context, actorID, gameID, playerID int64) (*pickup.Game, *pickup.TeamChange, error) {
	return m.teamResult(m.Called(ctx, actorID, gameID, playerID))
}

func (m *MockGameService) RemoveFromTeam(ctx context.Context, actorID, gameID, playerID int64) (*pickup.Game, *pickup.TeamChange, error) {
	return m.teamResult(m.Called(ctx, actorID, gameID, playerID))
}

func (m *MockGameService) RemoveByOwner(ctx context.Context, actorID, gameID, playerID int64) (*pickup.Game, *pickup.Player, error) {
	return m.playerResult(m.Called(ctx, actorID, gameID, playerID))
}

func (m *MockGameService) RemoveBySelf(ctx context.Context, memberID, gameID int64) (*pickup.Game, error) {
	return m.gameResult(m.Called(ctx, memberID, gameID))
}

func (m *MockGameService) UpdateDetails(ctx context.Context, actorID, gameID int64, format int, location string, date time.Time) (*pickup.Game, error) {
	return m.gameResult(m.Called(ctx, actorID, gameID, format, location, date))
}

func (m *MockGameService) DeleteGame(ctx context.Context, actorID, gameID int64) error {
	args := m.Called(ctx, actorID, gameID)
	return args.Error(0)
}

// MockScoreService mocks the ScoreService
type MockScoreService struct {
	mock.Mock
}

func (m *MockScoreService) Finalize(ctx context.Context, actorID, gameID int64, ringersScore, ballersScore *int) (*pickup.Game, error) {
	args := m.Called(ctx, actorID, gameID, ringersScore, ballersScore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pickup.Game), args.Error(1)
}

func (m *MockScoreService) Revert(ctx context.Context, actorID, gameID int64) (*pickup.Game, error) {
	args := m.Called(ctx, actorID, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pickup.Game), args.Error(1)
}

// MockNotificationService mocks the NotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, memberID int64) ([]models.Notification, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) Fetch(ctx context.Context, memberID int64) (*models.NotificationFeed, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotificationFeed), args.Error(1)
}

func (m *MockNotificationService) ClearAll(ctx context.Context, memberID int64) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

func (m *MockNotificationService) ClearGame(ctx context.Context, memberID, gameID int64) error {
	args := m.Called(ctx, memberID, gameID)
	return args.Error(0)
}

func (m *MockNotificationService) ClearFriends(ctx context.Context, memberID int64) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

// MockTokenService mocks the TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) StoreRefreshToken(ctx context.Context, memberID int64, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, memberID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockTokenService) ValidateRefreshToken(ctx context.Context, tokenHash string) (int64, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenService) RevokeAllMemberTokens(ctx context.Context, memberID int64) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

// MockJWTService mocks the JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenPair(memberID int64, username string) (*services.TokenPair, error) {
	args := m.Called(memberID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(token string) (int64, error) {
	args := m.Called(token)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJWTService) RefreshExpiry() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}
