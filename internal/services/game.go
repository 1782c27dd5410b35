package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dimitrije/pickup-api/internal/database"
	"github.com/dimitrije/pickup-api/internal/models"
	"github.com/dimitrije/pickup-api/internal/pickup"
	apperr "github.com/dimitrije/pickup-api/pkg/errors"
	"github.com/dimitrije/pickup-api/pkg/logger"
	"github.com/jackc/pgx/v5"
)

type CreateGameInput struct {
	Format   int
	Location string
	Date     time.Time
	Invited  []int64
}

type GameService struct {
	db            *database.DB
	codes         *CodeAllocator
	notifications *NotificationService
}

func NewGameService(db *database.DB, codes *CodeAllocator, notifications *NotificationService) *GameService {
	return &GameService{db: db, codes: codes, notifications: notifications}
}

func (s *GameService) CreateGame(ctx context.Context, ownerID int64, in CreateGameInput) (*pickup.Game, *pickup.InviteResult, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	owner, err := memberRef(ctx, tx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	g, err := pickup.NewGame(owner, in.Format, in.Location, in.Date)
	if err != nil {
		return nil, nil, err
	}

	g.JoinCode, err = s.codes.InsertWithCode(ctx, tx, "pickup_games", "join_code", joinCodeConstraint,
		func(ctx context.Context, tx pgx.Tx, code string) error {
			var status int
			err := tx.QueryRow(ctx, `
				INSERT INTO pickup_games (owner_id, format, location, date, join_code)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id, status, created_at, updated_at
			`, ownerID, g.Format, g.Location, g.Date, code).Scan(&g.ID, &status, &g.CreatedAt, &g.UpdatedAt)
			g.Status = pickup.GameStatus(status)
			return err
		})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create game: %w", err)
	}

	for _, team := range []*pickup.Team{&g.Ringers, &g.Ballers} {
		err := tx.QueryRow(ctx, `
			INSERT INTO pickup_teams (game_id, is_ringers) VALUES ($1, $2) RETURNING id
		`, g.ID, team.IsRingers).Scan(&team.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create team: %w", err)
		}
	}

	res, err := s.invite(ctx, tx, g, ownerID, in.Invited)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info("game created", "game_id", g.ID, "owner_id", ownerID, "invited", len(res.Invited))
	return g, res, nil
}

func (s *GameService) GetGame(ctx context.Context, gameID int64) (*pickup.Game, error) {
	return loadGame(ctx, s.db.Pool, gameID, false)
}

func (s *GameService) ListGames(ctx context.Context) ([]models.GameSummary, error) {
	rows, err := s.db.Pool.Query(ctx, gameSelect+` ORDER BY g.date, g.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	games := []models.GameSummary{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, summarize(g))
	}
	return games, rows.Err()
}

// ListMemberGames buckets every game the member owns or plays in.
func (s *GameService) ListMemberGames(ctx context.Context, memberID int64) (*models.MemberGames, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT g.id, g.owner_id, COALESCE(o.name, ''), g.format, g.location, g.date, g.join_code,
		       g.status, g.ringers_score, g.ballers_score, g.created_at, g.updated_at,
		       COALESCE(p.status, '')
		FROM pickup_games g
		LEFT JOIN members o ON o.id = g.owner_id
		LEFT JOIN pickup_players p ON p.game_id = g.id AND p.member_id = $1
		WHERE g.owner_id = $1 OR p.id IS NOT NULL
		ORDER BY g.date, g.id
	`, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to query member games: %w", err)
	}
	defer rows.Close()

	now := time.Now()
	out := &models.MemberGames{
		Owned:          []models.GameSummary{},
		OwnedUnupdated: []models.GameSummary{},
		Upcoming:       []models.GameSummary{},
		Invited:        []models.GameSummary{},
		Requesting:     []models.GameSummary{},
		Pending:        []models.GameSummary{},
		Completed:      []models.GameSummary{},
	}
	for rows.Next() {
		var g pickup.Game
		var status int
		var playerStatus string
		if err := rows.Scan(
			&g.ID, &g.OwnerID, &g.OwnerName, &g.Format, &g.Location, &g.Date, &g.JoinCode,
			&status, &g.RingersScore, &g.BallersScore, &g.CreatedAt, &g.UpdatedAt,
			&playerStatus,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		g.Status = pickup.GameStatus(status)
		g.Date = g.Date.UTC()
		sum := summarize(&g)

		if g.IsOwner(memberID) {
			out.Owned = append(out.Owned, sum)
			if g.Status == pickup.StatusPending && g.Date.Before(now) {
				out.OwnedUnupdated = append(out.OwnedUnupdated, sum)
			}
		}
		switch pickup.PlayerStatus(playerStatus) {
		case pickup.PlayerPending:
			out.Invited = append(out.Invited, sum)
		case pickup.PlayerRequesting:
			out.Requesting = append(out.Requesting, sum)
		case pickup.PlayerAssigned, pickup.PlayerUnassigned:
			switch g.Status {
			case pickup.StatusPending:
				out.Pending = append(out.Pending, sum)
				if !g.Date.Before(now) {
					out.Upcoming = append(out.Upcoming, sum)
				}
			case pickup.StatusCompleted:
				out.Completed = append(out.Completed, sum)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read member games: %w", err)
	}
	return out, nil
}

func summarize(g *pickup.Game) models.GameSummary {
	return models.GameSummary{
		ID:        g.ID,
		Title:     g.Title(),
		OwnerName: g.OwnerName,
		Format:    g.Format,
		Location:  g.Location,
		Date:      g.Date,
		JoinCode:  g.JoinCode,
		Status:    g.Status,
	}
}

func (s *GameService) Invite(ctx context.Context, actorID, gameID int64, memberIDs []int64) (*pickup.Game, *pickup.InviteResult, error) {
	var game *pickup.Game
	var res *pickup.InviteResult
	err := withLockedGame(ctx, s.db, gameID, func(tx pgx.Tx, g *pickup.Game) error {
		var err error
		res, err = s.invite(ctx, tx, g, actorID, memberIDs)
		game = g
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("players invited", "game_id", gameID, "invited", len(res.Invited), "invalid", len(res.InvalidIDs))
	return game, res, nil
}

func (s *GameService) invite(ctx context.Context, tx pgx.Tx, g *pickup.Game, actorID int64, memberIDs []int64) (*pickup.InviteResult, error) {
	known, err := memberRefs(ctx, tx, memberIDs)
	if err != nil {
		return nil, err
	}
	res, err := g.Invite(actorID, memberIDs, known)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	notices := make([]Notice, 0, len(res.Invited))
	for _, p := range res.Invited {
		if err := insertPlayer(ctx, tx, g.ID, p); err != nil {
			return nil, err
		}
		if p.MemberID != actorID {
			notices = append(notices, GameNotice(p.MemberID, g.ID,
				fmt.Sprintf("%s has invited you for %s", g.OwnerName, g.Title())))
		}
	}
	if err := s.notifications.EmitTx(ctx, tx, notices...); err != nil {
		return nil, err
	}
	return res, nil
}

// mutate loads the game under lock, applies change, checks the game
// invariants and hands the result to persist.
func (s *GameService) mutate(
	ctx context.Context,
	gameID int64,
	change func(g *pickup.Game) error,
	persist func(tx pgx.Tx, g *pickup.Game) error,
) (*pickup.Game, error) {
	var game *pickup.Game
	err := withLockedGame(ctx, s.db, gameID, func(tx pgx.Tx, g *pickup.Game) error {
		if err := change(g); err != nil {
			return err
		}
		if err := g.Validate(); err != nil {
			return err
		}
		game = g
		return persist(tx, g)
	})
	if err != nil {
		return nil, err
	}
	return game, nil
}

// notifyOwner tells the game owner about something a player did.
func (s *GameService) notifyOwner(ctx context.Context, tx pgx.Tx, g *pickup.Game, actorID int64, message string) error {
	if g.OwnerID == nil || *g.OwnerID == actorID {
		return nil
	}
	return s.notifications.EmitTx(ctx, tx, GameNotice(*g.OwnerID, g.ID, message))
}

func (s *GameService) notifyPlayer(ctx context.Context, tx pgx.Tx, g *pickup.Game, actorID int64, p *pickup.Player, message string) error {
	if p.MemberID == actorID {
		return nil
	}
	return s.notifications.EmitTx(ctx, tx, GameNotice(p.MemberID, g.ID, message))
}

func (s *GameService) AcceptInvite(ctx context.Context, memberID, gameID int64) (*pickup.Game, error) {
	var p *pickup.Player
	g, err := s.mutate(ctx, gameID,
		func(g *pickup.Game) (err error) {
			p, err = g.AcceptInvite(memberID)
			return err
		},
		func(tx pgx.Tx, g *pickup.Game) error {
			if err := updatePlayer(ctx, tx, p); err != nil {
				return err
			}
			return s.notifyOwner(ctx, tx, g, memberID,
				fmt.Sprintf("%s has accepted your game invite for %s", p.Name, g.Title()))
		})
	if err != nil {
		return nil, err
	}
	logger.Info("invite accepted", "game_id", gameID, "member_id", memberID)
	return g, nil
}

func (s *GameService) RejectInvite(ctx context.Context, memberID, gameID int64) (*pickup.Game, error) {
	var p *pickup.Player
	g, err := s.mutate(ctx, gameID,
		func(g *pickup.Game) (err error) {
			p, err = g.RejectInvite(memberID)
			return err
		},
		func(tx pgx.Tx, g *pickup.Game) error {
			if err := deletePlayer(ctx, tx, p); err != nil {
				return err
			}
			return s.notifyOwner(ctx, tx, g, memberID,
				fmt.Sprintf("%s has rejected your game invite for %s", p.Name, g.Title()))
		})
	if err != nil {
		return nil, err
	}
	logger.Info("invite rejected", "game_id", gameID, "member_id", memberID)
	return g, nil
}

func (s *GameService) RequestJoin(ctx context.Context, memberID int64, joinCode string) (*pickup.Game, error) {
	code := strings.ToUpper(strings.TrimSpace(joinCode))
	var gameID int64
	err := s.db.Pool.QueryRow(ctx, `SELECT id FROM pickup_games WHERE join_code = $1`, code).Scan(&gameID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Newf(apperr.ErrCodeNotFound, "No game found with join code %s", code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up join code: %w", err)
	}

	m, err := memberRef(ctx, s.db.Pool, memberID)
	if err != nil {
		return nil, err
	}

	var p *pickup.Player
	g, err := s.mutate(ctx, gameID,
		func(g *pickup.Game) (err error) {
			p, err = g.RequestJoin(m)
			return err
		},
		func(tx pgx.Tx, g *pickup.Game) error {
			if err := insertPlayer(ctx, tx, g.ID, p); err != nil {
				return err
			}
			return s.notifyOwner(ctx, tx, g, memberID,
				fmt.Sprintf("%s has requested acceptance for %s", p.Name, g.Title()))
		})
	if err != nil {
		return nil, err
	}
	logger.Info("join requested", "game_id", gameID, "member_id", memberID)
	return g, nil
}

func (s *GameService) AcceptJoinRequest(ctx context.Context, actorID, gameID, playerID int64) (*pickup.Game, *pickup.Player, error) {
	var p *pickup.Player
	g, err := s.mutate(ctx, gameID,
		func(g *pickup.Game) (err error) {
			p, err = g.AcceptJoinRequest(actorID, playerID)
			return err
		},
		func(tx pgx.Tx, g *pickup.Game) error {
			if err := updatePlayer(ctx, tx, p); err != nil {
				return err
			}
			return s.notifyPlayer(ctx, tx, g, actorID, p,
				fmt.Sprintf("%s has accepted your join request for %s", g.OwnerName, g.Title()))
		})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("join request accepted", "game_id", gameID, "player_id", playerID)
	return g, p, nil
}

func (s *GameService) RejectJoinRequest(ctx context.Context, actorID, gameID, playerID int64) (*pickup.Game, *pickup.Player, error) {
	var p *pickup.Player
	g, err := s.mutate(ctx, gameID,
		func(g *pickup.Game) (err error) {
			p, err = g.RejectJoinRequest(actorID, playerID)
			return err
		},
		func(tx pgx.Tx, g *pickup.Game) error {
			if err := deletePlayer(ctx, tx, p); err != nil {
				return err
			}
			return s.notifyPlayer(ctx, tx, g, actorID, p,
				fmt.Sprintf("%s has rejected your join request for %s", g.OwnerName, g.Title()))
		})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("join request rejected", "game_id", gameID, "player_id", playerID)
	return g, p, nil
}

func (s *GameService) AssignTeams(ctx context.Context, actorID, gameID int64, ringersIDs, ballersIDs []int64) (*pickup.Game, *pickup.Assignment, error) {
	var res *pickup.Assignment
	g, err := s.mutate(ctx, gameID,
		func(g *pickup.Game) (err error) {
			res, err = g.AssignTeams(actorID, ringersIDs, ballersIDs)
			return err
		},
		func(tx pgx.Tx, g *pickup.Game) error {
			for _, p := range append(append([]*pickup.Player{}, res.Ringers...), res.Ballers...) {
				if err := updatePlayer(ctx, tx, p); err != nil {
					return err
				}
			}
			return nil
		})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("teams assigned", "game_id", gameID, "ringers", len(res.Ringers), "ballers", len(res.Ballers))
	return g, res, nil
}

func (s *GameService) teamChange(
	ctx context.Context,
	gameID int64,
	apply func(g *pickup.Game) (*pickup.TeamChange, error),
) (*pickup.Game, *pickup.TeamChange, error) {
	var change *pickup.TeamChange
	g, err := s.mutate(ctx, gameID,
		func(g *pickup.Game) (err error) {
			change, err = apply(g)
			return err
		},
		func(tx pgx.Tx, g *pickup.Game) error {
			if !change.Changed {
				return nil
			}
			return updatePlayer(ctx, tx, change.Player)
		})
	if err != nil {
		return nil, nil, err
	}
	return g, change, nil
}

func (s *GameService) ReassignTeam(ctx context.Context, actorID, gameID, playerID int64) (*pickup.Game, *pickup.TeamChange, error) {
	return s.teamChange(ctx, gameID, func(g *pickup.Game) (*pickup.TeamChange, error) {
		return g.ReassignTeam(actorID, playerID)
	})
}

func (s *GameService) RemoveFromTeam(ctx context.Context, actorID, gameID, playerID int64) (*pickup.Game, *pickup.TeamChange, error) {
	return s.teamChange(ctx, gameID, func(g *pickup.Game) (*pickup.TeamChange, error) {
		return g.RemoveFromTeam(actorID, playerID)
	})
}

func (s *GameService) RemoveByOwner(ctx context.Context, actorID, gameID, playerID int64) (*pickup.Game, *pickup.Player, error) {
	var p *pickup.Player
	g, err := s.mutate(ctx, gameID,
		func(g *pickup.Game) (err error) {
			p, err = g.RemoveByOwner(actorID, playerID)
			return err
		},
		func(tx pgx.Tx, g *pickup.Game) error {
			if err := deletePlayer(ctx, tx, p); err != nil {
				return err
			}
			return s.notifyPlayer(ctx, tx, g, actorID, p,
				fmt.Sprintf("%s has removed you from %s", g.OwnerName, g.Title()))
		})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("player removed", "game_id", gameID, "player_id", playerID)
	return g, p, nil
}

func (s *GameService) RemoveBySelf(ctx context.Context, memberID, gameID int64) (*pickup.Game, error) {
	var p *pickup.Player
	g, err := s.mutate(ctx, gameID,
		func(g *pickup.Game) (err error) {
			p, err = g.RemoveBySelf(memberID)
			return err
		},
		func(tx pgx.Tx, g *pickup.Game) error {
			if err := deletePlayer(ctx, tx, p); err != nil {
				return err
			}
			return s.notifyOwner(ctx, tx, g, memberID,
				fmt.Sprintf("%s has left %s", p.Name, g.Title()))
		})
	if err != nil {
		return nil, err
	}
	logger.Info("player left", "game_id", gameID, "member_id", memberID)
	return g, nil
}

func (s *GameService) UpdateDetails(ctx context.Context, actorID, gameID int64, format int, location string, date time.Time) (*pickup.Game, error) {
	return s.mutate(ctx, gameID,
		func(g *pickup.Game) error {
			return g.UpdateDetails(actorID, format, location, date)
		},
		func(tx pgx.Tx, g *pickup.Game) error {
			return updateGame(ctx, tx, g)
		})
}

func (s *GameService) DeleteGame(ctx context.Context, actorID, gameID int64) error {
	err := withLockedGame(ctx, s.db, gameID, func(tx pgx.Tx, g *pickup.Game) error {
		if err := g.CanDelete(actorID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM pickup_games WHERE id = $1`, g.ID); err != nil {
			return fmt.Errorf("failed to delete game: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("game deleted", "game_id", gameID, "owner_id", actorID)
	return nil
}
