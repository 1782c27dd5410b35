package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/pickup-api/internal/models"
	"github.com/dimitrije/pickup-api/internal/pickup"
	"github.com/dimitrije/pickup-api/internal/services"
)

// MemberServiceInterface defines the methods used by handlers from MemberService
type MemberServiceInterface interface {
	Register(ctx context.Context, username, password, name string) (*models.Member, error)
	Authenticate(ctx context.Context, username, password string) (*models.Member, error)
	GetByID(ctx context.Context, id int64) (*models.Member, error)
	UpdateName(ctx context.Context, id int64, name string) (*models.Member, error)
	Page(ctx context.Context, viewerID, memberID int64) (*models.MemberPage, error)
	ListMembers(ctx context.Context) ([]models.MemberSummary, error)
	ListFriends(ctx context.Context, memberID int64) (*models.FriendOverview, error)
	SendFriendRequest(ctx context.Context, senderID int64, friendID string) (*models.MemberSummary, error)
	AcceptFriendRequest(ctx context.Context, receiverID, senderID int64) error
	RejectFriendRequest(ctx context.Context, receiverID, senderID int64) error
	CancelFriendRequest(ctx context.Context, senderID, receiverID int64) error
	RemoveFriend(ctx context.Context, memberID, friendID int64) error
}

// GameServiceInterface defines the methods used by handlers from GameService
type GameServiceInterface interface {
	CreateGame(ctx context.Context, ownerID int64, in services.CreateGameInput) (*pickup.Game, *pickup.InviteResult, error)
	GetGame(ctx context.Context, gameID int64) (*pickup.Game, error)
	ListGames(ctx context.Context) ([]models.GameSummary, error)
	ListMemberGames(ctx context.Context, memberID int64) (*models.MemberGames, error)
	Invite(ctx context.Context, actorID, gameID int64, memberIDs []int64) (*pickup.Game, *pickup.InviteResult, error)
	AcceptInvite(ctx context.Context, memberID, gameID int64) (*pickup.Game, error)
	RejectInvite(ctx context.Context, memberID, gameID int64) (*pickup.Game, error)
	RequestJoin(ctx context.Context, memberID int64, joinCode string) (*pickup.Game, error)
	AcceptJoinRequest(ctx context.Context, actorID, gameID, playerID int64) (*pickup.Game, *pickup.Player, error)
	RejectJoinRequest(ctx context.Context, actorID, gameID, playerID int64) (*pickup.Game, *pickup.Player, error)
	AssignTeams(ctx context.Context, actorID, gameID int64, ringersIDs, ballersIDs []int64) (*pickup.Game, *pickup.Assignment, error)
	ReassignTeam(ctx context.Context, actorID, gameID, playerID int64) (*pickup.Game, *pickup.TeamChange, error)
	RemoveFromTeam(ctx context.Context, actorID, gameID, playerID int64) (*pickup.Game, *pickup.TeamChange, error)
	RemoveByOwner(ctx context.Context, actorID, gameID, playerID int64) (*pickup.Game, *pickup.Player, error)
	RemoveBySelf(ctx context.Context, memberID, gameID int64) (*pickup.Game, error)
	UpdateDetails(ctx context.Context, actorID, gameID int64, format int, location string, date time.Time) (*pickup.Game, error)
	DeleteGame(ctx context.Context, actorID, gameID int64) error
}

// ScoreServiceInterface defines the methods used by handlers from ScoreService
type ScoreServiceInterface interface {
	Finalize(ctx context.Context, actorID, gameID int64, ringersScore, ballersScore *int) (*pickup.Game, error)
	Revert(ctx context.Context, actorID, gameID int64) (*pickup.Game, error)
}

// NotificationServiceInterface defines the methods used by handlers from NotificationService
type NotificationServiceInterface interface {
	List(ctx context.Context, memberID int64) ([]models.Notification, error)
	Fetch(ctx context.Context, memberID int64) (*models.NotificationFeed, error)
	ClearAll(ctx context.Context, memberID int64) error
	ClearGame(ctx context.Context, memberID, gameID int64) error
	ClearFriends(ctx context.Context, memberID int64) error
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	StoreRefreshToken(ctx context.Context, memberID int64, tokenHash string, expiresAt time.Time) error
	ValidateRefreshToken(ctx context.Context, tokenHash string) (int64, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllMemberTokens(ctx context.Context, memberID int64) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(memberID int64, username string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (int64, error)
	RefreshExpiry() time.Duration
}
