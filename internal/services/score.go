package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/dimitrije/pickup-api/internal/database"
	"github.com/dimitrije/pickup-api/internal/pickup"
	apperr "github.com/dimitrije/pickup-api/pkg/errors"
	"github.com/dimitrije/pickup-api/pkg/logger"
	"github.com/jackc/pgx/v5"
)

type ScoreService struct {
	db            *database.DB
	notifications *NotificationService
}

func NewScoreService(db *database.DB, notifications *NotificationService) *ScoreService {
	return &ScoreService{db: db, notifications: notifications}
}

// Finalize records the score of a pending game and credits every player on
// the winning and losing team, all in one transaction.
func (s *ScoreService) Finalize(ctx context.Context, actorID, gameID int64, ringersScore, ballersScore *int) (*pickup.Game, error) {
	var game *pickup.Game
	err := withLockedGame(ctx, s.db, gameID, func(tx pgx.Tx, g *pickup.Game) error {
		if err := g.Validate(); err != nil {
			return err
		}
		out, err := g.Finalize(actorID, ringersScore, ballersScore)
		if err != nil {
			return err
		}
		if err := s.apply(ctx, tx, g, out); err != nil {
			return err
		}
		game = g

		message := fmt.Sprintf("The score for %s is final: Ringers %d, Ballers %d. %s won",
			g.Title(), g.RingersScore, g.BallersScore, g.WinnerName())
		return s.notifyPlayers(ctx, tx, g, actorID, message)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("game finalized", "game_id", gameID, "ringers_score", game.RingersScore, "ballers_score", game.BallersScore)
	return game, nil
}

// Revert reopens a completed game and takes back exactly the counters its
// Finalize applied.
func (s *ScoreService) Revert(ctx context.Context, actorID, gameID int64) (*pickup.Game, error) {
	var game *pickup.Game
	err := withLockedGame(ctx, s.db, gameID, func(tx pgx.Tx, g *pickup.Game) error {
		if err := g.Validate(); err != nil {
			return err
		}
		out, err := g.Revert(actorID)
		if err != nil {
			return err
		}
		if err := s.apply(ctx, tx, g, out); err != nil {
			return err
		}
		game = g

		message := fmt.Sprintf("%s has reopened the score for %s", g.OwnerName, g.Title())
		return s.notifyPlayers(ctx, tx, g, actorID, message)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("game score reverted", "game_id", gameID)
	return game, nil
}

func (s *ScoreService) apply(ctx context.Context, tx pgx.Tx, g *pickup.Game, out *pickup.Outcome) error {
	ids := append(append([]int64{}, out.WinnerMembers...), out.LoserMembers...)
	if err := lockMembers(ctx, tx, ids); err != nil {
		return err
	}
	if err := applyDelta(ctx, tx, out.WinnerMembers, out.WinnerDelta); err != nil {
		return err
	}
	if err := applyDelta(ctx, tx, out.LoserMembers, out.LoserDelta); err != nil {
		return err
	}
	return updateGame(ctx, tx, g)
}

func (s *ScoreService) notifyPlayers(ctx context.Context, tx pgx.Tx, g *pickup.Game, actorID int64, message string) error {
	notices := make([]Notice, 0, len(g.Players))
	for _, p := range g.Players {
		if p.MemberID != actorID {
			notices = append(notices, GameNotice(p.MemberID, g.ID, message))
		}
	}
	return s.notifications.EmitTx(ctx, tx, notices...)
}

// lockMembers takes row locks on members in id order so that concurrent
// finalizations of games sharing players cannot deadlock.
func lockMembers(ctx context.Context, tx pgx.Tx, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	sorted := append([]int64{}, ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	rows, err := tx.Query(ctx, `SELECT id FROM members WHERE id = ANY($1) ORDER BY id FOR UPDATE`, sorted)
	if err != nil {
		return fmt.Errorf("failed to lock members: %w", err)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to lock members: %w", err)
	}
	return nil
}

func applyDelta(ctx context.Context, tx pgx.Tx, ids []int64, d pickup.StatDelta) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
		UPDATE members SET
			pickup_wins = pickup_wins + $1,
			pickup_losses = pickup_losses + $2,
			wins_3v3 = wins_3v3 + $3,
			losses_3v3 = losses_3v3 + $4,
			wins_4v4 = wins_4v4 + $5,
			losses_4v4 = losses_4v4 + $6,
			wins_5v5 = wins_5v5 + $7,
			losses_5v5 = losses_5v5 + $8,
			updated_at = NOW()
		WHERE id = ANY($9)
	`, d.PickupWins, d.PickupLosses, d.Wins3v3, d.Losses3v3, d.Wins4v4, d.Losses4v4, d.Wins5v5, d.Losses5v5, ids)
	if isCheckViolation(err) {
		return apperr.Wrap(err, apperr.ErrCodeDomainState, "A player's record cannot go below zero")
	}
	if err != nil {
		return fmt.Errorf("failed to update member stats: %w", err)
	}
	return nil
}
