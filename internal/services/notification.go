package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dimitrije/pickup-api/internal/database"
	"github.com/dimitrije/pickup-api/internal/models"
	"github.com/dimitrije/pickup-api/internal/pickup"
	apperr "github.com/dimitrije/pickup-api/pkg/errors"
	"github.com/jackc/pgx/v5"
)

// Notice is a notification waiting to be written. Exactly one of FriendID and
// GameID is set.
type Notice struct {
	MemberID int64
	FriendID *int64
	GameID   *int64
	Message  string
}

func GameNotice(memberID, gameID int64, message string) Notice {
	return Notice{MemberID: memberID, GameID: &gameID, Message: message}
}

func FriendNotice(memberID, friendID int64, message string) Notice {
	return Notice{MemberID: memberID, FriendID: &friendID, Message: message}
}

type NotificationService struct {
	db *database.DB
}

func NewNotificationService(db *database.DB) *NotificationService {
	return &NotificationService{db: db}
}

// EmitTx writes notices inside the caller's transaction so they commit or
// roll back together with the change they describe.
func (s *NotificationService) EmitTx(ctx context.Context, tx pgx.Tx, notices ...Notice) error {
	for _, n := range notices {
		if (n.FriendID == nil) == (n.GameID == nil) {
			return apperr.New(apperr.ErrCodeValidation, "a notification must reference either a friend or a game")
		}
		if n.FriendID != nil && *n.FriendID == n.MemberID {
			continue
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO notifications (member_id, friend_member_id, game_id, message)
			VALUES ($1, $2, $3, $4)
		`, n.MemberID, n.FriendID, n.GameID, n.Message)
		if err != nil {
			return fmt.Errorf("failed to insert notification: %w", err)
		}
	}
	return nil
}

// List returns a member's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, memberID int64) ([]models.Notification, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT n.id, n.message, n.created_at, m.id, m.name,
		       n.friend_member_id, COALESCE(f.name, ''),
		       n.game_id, g.location, g.date, COALESCE(o.name, '')
		FROM notifications n
		JOIN members m ON m.id = n.member_id
		LEFT JOIN members f ON f.id = n.friend_member_id
		LEFT JOIN pickup_games g ON g.id = n.game_id
		LEFT JOIN members o ON o.id = g.owner_id
		WHERE n.member_id = $1
		ORDER BY n.id DESC
	`, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var list []models.Notification
	for rows.Next() {
		var (
			n          models.Notification
			friendID   *int64
			friendName string
			gameID     *int64
			location   *string
			date       *time.Time
			ownerName  string
		)
		if err := rows.Scan(
			&n.ID, &n.Message, &n.CreatedAt, &n.Member.ID, &n.Member.Name,
			&friendID, &friendName,
			&gameID, &location, &date, &ownerName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if friendID != nil {
			n.Friend = &models.MemberSummary{ID: *friendID, Name: friendName}
		}
		if gameID != nil && location != nil && date != nil {
			g := pickup.Game{Location: *location, Date: date.UTC()}
			n.Game = &models.NotificationGame{
				ID:        *gameID,
				OwnerName: ownerName,
				Date:      g.Date,
				Title:     g.Title(),
			}
		}
		list = append(list, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}
	return list, nil
}

// Fetch returns a member's notifications grouped into game and friend scopes.
func (s *NotificationService) Fetch(ctx context.Context, memberID int64) (*models.NotificationFeed, error) {
	list, err := s.List(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return GroupNotifications(list), nil
}

// GroupNotifications buckets list, which must be ordered newest first. Game
// buckets are ordered by game date, then game id; messages inside a bucket and
// friend entries keep the newest-first order of list.
func GroupNotifications(list []models.Notification) *models.NotificationFeed {
	feed := &models.NotificationFeed{
		Games:   []models.GameNotifications{},
		Friends: []models.FriendNotification{},
	}
	index := make(map[int64]int)

	for _, n := range list {
		switch {
		case n.Game != nil:
			i, ok := index[n.Game.ID]
			if !ok {
				i = len(feed.Games)
				index[n.Game.ID] = i
				feed.Games = append(feed.Games, models.GameNotifications{
					ID:        n.Game.ID,
					Title:     n.Game.Title,
					OwnerName: n.Game.OwnerName,
					Date:      n.Game.Date,
				})
			}
			feed.Games[i].Messages = append(feed.Games[i].Messages, n.Message)
		case n.Friend != nil:
			feed.Friends = append(feed.Friends, models.FriendNotification{
				ID:      n.ID,
				Member:  n.Member,
				Friend:  *n.Friend,
				Message: n.Message,
			})
		}
	}

	sort.SliceStable(feed.Games, func(i, j int) bool {
		a, b := feed.Games[i], feed.Games[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ID < b.ID
	})
	return feed
}

func (s *NotificationService) ClearAll(ctx context.Context, memberID int64) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM notifications WHERE member_id = $1`, memberID)
	if err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}

func (s *NotificationService) ClearGame(ctx context.Context, memberID, gameID int64) error {
	var exists bool
	err := s.db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM pickup_games WHERE id = $1)`, gameID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check game: %w", err)
	}
	if !exists {
		return ErrGameNotFound
	}

	_, err = s.db.Pool.Exec(ctx, `
		DELETE FROM notifications WHERE member_id = $1 AND game_id = $2
	`, memberID, gameID)
	if err != nil {
		return fmt.Errorf("failed to clear game notifications: %w", err)
	}
	return nil
}

func (s *NotificationService) ClearFriends(ctx context.Context, memberID int64) error {
	_, err := s.db.Pool.Exec(ctx, `
		DELETE FROM notifications WHERE member_id = $1 AND friend_member_id IS NOT NULL
	`, memberID)
	if err != nil {
		return fmt.Errorf("failed to clear friend notifications: %w", err)
	}
	return nil
}
