package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/pickup-api/internal/database"
	"github.com/dimitrije/pickup-api/internal/models"
	apperr "github.com/dimitrije/pickup-api/pkg/errors"
	"github.com/dimitrije/pickup-api/pkg/logger"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength  = 8
	usernameConstraint = "members_username_key"
)

var (
	ErrMemberNotFound     = apperr.New(apperr.ErrCodeNotFound, "Member not found")
	ErrInvalidCredentials = apperr.New(apperr.ErrCodeUnauthorized, "invalid username or password")
	ErrUsernameTaken      = apperr.New(apperr.ErrCodeAlreadyExists, "username is already taken")
)

const memberColumns = `
	id, username, password_hash, name, friend_id,
	pickup_wins, pickup_losses, wins_3v3, losses_3v3, wins_4v4, losses_4v4, wins_5v5, losses_5v5,
	created_at, updated_at
`

func scanMember(row pgx.Row) (*models.Member, error) {
	var m models.Member
	err := row.Scan(
		&m.ID, &m.Username, &m.PasswordHash, &m.Name, &m.FriendID,
		&m.Stats.PickupWins, &m.Stats.PickupLosses,
		&m.Stats.Wins3v3, &m.Stats.Losses3v3,
		&m.Stats.Wins4v4, &m.Stats.Losses4v4,
		&m.Stats.Wins5v5, &m.Stats.Losses5v5,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

type MemberService struct {
	db            *database.DB
	codes         *CodeAllocator
	notifications *NotificationService
	bcryptCost    int
}

func NewMemberService(db *database.DB, codes *CodeAllocator, notifications *NotificationService, bcryptCost int) *MemberService {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &MemberService{db: db, codes: codes, notifications: notifications, bcryptCost: bcryptCost}
}

func (s *MemberService) Register(ctx context.Context, username, password, name string) (*models.Member, error) {
	username = strings.TrimSpace(username)
	name = strings.TrimSpace(name)
	if username == "" {
		return nil, apperr.New(apperr.ErrCodeValidation, "username is required")
	}
	if name == "" {
		return nil, apperr.New(apperr.ErrCodeValidation, "name is required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperr.Newf(apperr.ErrCodeValidation, "password must be at least %d characters", MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var member *models.Member
	_, err = s.codes.InsertWithCode(ctx, tx, "members", "friend_id", friendIDConstraint,
		func(ctx context.Context, tx pgx.Tx, code string) error {
			var err error
			member, err = scanMember(tx.QueryRow(ctx, `
				INSERT INTO members (username, password_hash, name, friend_id)
				VALUES ($1, $2, $3, $4)
				RETURNING `+memberColumns, username, string(hash), name, code))
			return err
		})
	if isUniqueViolation(err, usernameConstraint) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("member registered", "member_id", member.ID, "friend_id", member.FriendID)
	return member, nil
}

func (s *MemberService) Authenticate(ctx context.Context, username, password string) (*models.Member, error) {
	m, err := scanMember(s.db.Pool.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE username = $1`, strings.TrimSpace(username)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return m, nil
}

func (s *MemberService) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	m, err := scanMember(s.db.Pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	return m, nil
}

func (s *MemberService) UpdateName(ctx context.Context, id int64, name string) (*models.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(apperr.ErrCodeValidation, "name is required")
	}
	m, err := scanMember(s.db.Pool.QueryRow(ctx, `
		UPDATE members SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+memberColumns, name, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return m, nil
}

func pair(a, b int64) (low, high int64) {
	if a < b {
		return a, b
	}
	return b, a
}

// friendTx runs fn with both members locked in id order.
func (s *MemberService) friendTx(ctx context.Context, a, b int64, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockMembers(ctx, tx, []int64{a, b}); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func areFriends(ctx context.Context, q database.Querier, a, b int64) (bool, error) {
	low, high := pair(a, b)
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM friendships WHERE member_low = $1 AND member_high = $2)
	`, low, high).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check friendship: %w", err)
	}
	return exists, nil
}

func requestExists(ctx context.Context, q database.Querier, sender, receiver int64) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM friend_requests WHERE sender_id = $1 AND receiver_id = $2)
	`, sender, receiver).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check friend request: %w", err)
	}
	return exists, nil
}

// SendFriendRequest sends a request from senderID to the member whose
// friend id is friendID.
func (s *MemberService) SendFriendRequest(ctx context.Context, senderID int64, friendID string) (*models.MemberSummary, error) {
	code := strings.ToUpper(strings.TrimSpace(friendID))
	var receiver models.MemberSummary
	err := s.db.Pool.QueryRow(ctx, `SELECT id, name FROM members WHERE friend_id = $1`, code).
		Scan(&receiver.ID, &receiver.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Newf(apperr.ErrCodeNotFound, "No member found with friend id %s", code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up friend id: %w", err)
	}
	if receiver.ID == senderID {
		return nil, apperr.New(apperr.ErrCodeValidation, "You cannot send a friend request to yourself")
	}

	err = s.friendTx(ctx, senderID, receiver.ID, func(tx pgx.Tx) error {
		sender, err := memberRef(ctx, tx, senderID)
		if err != nil {
			return err
		}
		friends, err := areFriends(ctx, tx, senderID, receiver.ID)
		if err != nil {
			return err
		}
		if friends {
			return apperr.Newf(apperr.ErrCodeDomainState, "You are already friends with %s", receiver.Name)
		}
		sent, err := requestExists(ctx, tx, senderID, receiver.ID)
		if err != nil {
			return err
		}
		if sent {
			return apperr.Newf(apperr.ErrCodeDomainState, "You already sent a friend request to %s", receiver.Name)
		}
		received, err := requestExists(ctx, tx, receiver.ID, senderID)
		if err != nil {
			return err
		}
		if received {
			return apperr.Newf(apperr.ErrCodeDomainState, "%s already sent you a friend request; accept it instead", receiver.Name)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO friend_requests (sender_id, receiver_id) VALUES ($1, $2)
		`, senderID, receiver.ID); err != nil {
			return fmt.Errorf("failed to create friend request: %w", err)
		}
		return s.notifications.EmitTx(ctx, tx, FriendNotice(receiver.ID, senderID,
			fmt.Sprintf("%s has sent you a friend request", sender.Name)))
	})
	if err != nil {
		return nil, err
	}
	logger.Info("friend request sent", "sender_id", senderID, "receiver_id", receiver.ID)
	return &receiver, nil
}

// resolveRequest deletes the request senderID -> receiverID and hands the
// transaction to then. It is the shared half of accept, reject and cancel.
func (s *MemberService) resolveRequest(ctx context.Context, senderID, receiverID int64, then func(tx pgx.Tx) error) error {
	return s.friendTx(ctx, senderID, receiverID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			DELETE FROM friend_requests WHERE sender_id = $1 AND receiver_id = $2
		`, senderID, receiverID)
		if err != nil {
			return fmt.Errorf("failed to delete friend request: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.New(apperr.ErrCodeNotFound, "Friend request not found")
		}
		return then(tx)
	})
}

func (s *MemberService) AcceptFriendRequest(ctx context.Context, receiverID, senderID int64) error {
	err := s.resolveRequest(ctx, senderID, receiverID, func(tx pgx.Tx) error {
		receiver, err := memberRef(ctx, tx, receiverID)
		if err != nil {
			return err
		}
		low, high := pair(senderID, receiverID)
		if _, err := tx.Exec(ctx, `
			INSERT INTO friendships (member_low, member_high) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, low, high); err != nil {
			return fmt.Errorf("failed to create friendship: %w", err)
		}
		return s.notifications.EmitTx(ctx, tx, FriendNotice(senderID, receiverID,
			fmt.Sprintf("%s has accepted your friend request", receiver.Name)))
	})
	if err != nil {
		return err
	}
	logger.Info("friend request accepted", "sender_id", senderID, "receiver_id", receiverID)
	return nil
}

func (s *MemberService) RejectFriendRequest(ctx context.Context, receiverID, senderID int64) error {
	return s.resolveRequest(ctx, senderID, receiverID, func(tx pgx.Tx) error {
		receiver, err := memberRef(ctx, tx, receiverID)
		if err != nil {
			return err
		}
		return s.notifications.EmitTx(ctx, tx, FriendNotice(senderID, receiverID,
			fmt.Sprintf("%s has declined your friend request", receiver.Name)))
	})
}

func (s *MemberService) CancelFriendRequest(ctx context.Context, senderID, receiverID int64) error {
	return s.resolveRequest(ctx, senderID, receiverID, func(tx pgx.Tx) error {
		sender, err := memberRef(ctx, tx, senderID)
		if err != nil {
			return err
		}
		return s.notifications.EmitTx(ctx, tx, FriendNotice(receiverID, senderID,
			fmt.Sprintf("%s has rescinded their friend request", sender.Name)))
	})
}

func (s *MemberService) RemoveFriend(ctx context.Context, memberID, friendID int64) error {
	err := s.friendTx(ctx, memberID, friendID, func(tx pgx.Tx) error {
		low, high := pair(memberID, friendID)
		tag, err := tx.Exec(ctx, `
			DELETE FROM friendships WHERE member_low = $1 AND member_high = $2
		`, low, high)
		if err != nil {
			return fmt.Errorf("failed to delete friendship: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperr.New(apperr.ErrCodeNotFound, "You are not friends with this member")
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("friend removed", "member_id", memberID, "friend_id", friendID)
	return nil
}

const friendCardColumns = `
	m.id, m.name, m.friend_id,
	m.pickup_wins, m.pickup_losses, m.wins_3v3, m.losses_3v3, m.wins_4v4, m.losses_4v4, m.wins_5v5, m.losses_5v5
`

func scanFriendCard(row pgx.Row) (models.FriendCard, error) {
	var c models.FriendCard
	err := row.Scan(
		&c.ID, &c.Name, &c.FriendID,
		&c.Stats.PickupWins, &c.Stats.PickupLosses,
		&c.Stats.Wins3v3, &c.Stats.Losses3v3,
		&c.Stats.Wins4v4, &c.Stats.Losses4v4,
		&c.Stats.Wins5v5, &c.Stats.Losses5v5,
	)
	return c, err
}

func (s *MemberService) ListFriends(ctx context.Context, memberID int64) (*models.FriendOverview, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+friendCardColumns+`
		FROM friendships f
		JOIN members m ON m.id = CASE WHEN f.member_low = $1 THEN f.member_high ELSE f.member_low END
		WHERE f.member_low = $1 OR f.member_high = $1
		ORDER BY m.name, m.id
	`, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query friends: %w", err)
	}
	defer rows.Close()

	out := &models.FriendOverview{Friends: []models.FriendCard{}}
	for rows.Next() {
		c, err := scanFriendCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		out.Friends = append(out.Friends, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read friends: %w", err)
	}

	if out.Sent, err = s.summaries(ctx, `
		SELECT m.id, m.name FROM friend_requests r
		JOIN members m ON m.id = r.receiver_id
		WHERE r.sender_id = $1
		ORDER BY r.created_at, m.id
	`, memberID); err != nil {
		return nil, err
	}
	if out.Received, err = s.summaries(ctx, `
		SELECT m.id, m.name FROM friend_requests r
		JOIN members m ON m.id = r.sender_id
		WHERE r.receiver_id = $1
		ORDER BY r.created_at, m.id
	`, memberID); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMembers returns every member by name, so clients can pick invitees
// outside their friend list.
func (s *MemberService) ListMembers(ctx context.Context) ([]models.MemberSummary, error) {
	return s.summaries(ctx, `SELECT id, name FROM members ORDER BY name, id`)
}

func (s *MemberService) summaries(ctx context.Context, query string, args ...any) ([]models.MemberSummary, error) {
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	out := []models.MemberSummary{}
	for rows.Next() {
		var m models.MemberSummary
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Page is memberID's profile as viewerID sees it.
func (s *MemberService) Page(ctx context.Context, viewerID, memberID int64) (*models.MemberPage, error) {
	card, err := scanFriendCard(s.db.Pool.QueryRow(ctx,
		`SELECT `+friendCardColumns+` FROM members m WHERE m.id = $1`, memberID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}

	page := &models.MemberPage{Member: card, IsSelf: viewerID == memberID, MutualFriends: []models.MemberSummary{}}
	if page.IsSelf {
		return page, nil
	}

	if page.IsFriend, err = areFriends(ctx, s.db.Pool, viewerID, memberID); err != nil {
		return nil, err
	}
	if page.RequestSent, err = requestExists(ctx, s.db.Pool, viewerID, memberID); err != nil {
		return nil, err
	}
	if page.RequestReceived, err = requestExists(ctx, s.db.Pool, memberID, viewerID); err != nil {
		return nil, err
	}
	if page.MutualFriends, err = s.summaries(ctx, `
		WITH a AS (
			SELECT CASE WHEN member_low = $1 THEN member_high ELSE member_low END AS id
			FROM friendships WHERE member_low = $1 OR member_high = $1
		), b AS (
			SELECT CASE WHEN member_low = $2 THEN member_high ELSE member_low END AS id
			FROM friendships WHERE member_low = $2 OR member_high = $2
		)
		SELECT m.id, m.name FROM members m
		JOIN a ON a.id = m.id
		JOIN b ON b.id = m.id
		ORDER BY m.name, m.id
	`, viewerID, memberID); err != nil {
		return nil, err
	}
	return page, nil
}
