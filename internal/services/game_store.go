package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/pickup-api/internal/database"
	"github.com/dimitrije/pickup-api/internal/pickup"
	apperr "github.com/dimitrije/pickup-api/pkg/errors"
	"github.com/jackc/pgx/v5"
)

var ErrGameNotFound = apperr.New(apperr.ErrCodeNotFound, "Game not found")

const gameSelect = `
	SELECT g.id, g.owner_id, COALESCE(o.name, ''), g.format, g.location, g.date, g.join_code,
	       g.status, g.ringers_score, g.ballers_score, g.created_at, g.updated_at
	FROM pickup_games g
	LEFT JOIN members o ON o.id = g.owner_id
`

func scanGame(row pgx.Row) (*pickup.Game, error) {
	var g pickup.Game
	var status int
	err := row.Scan(
		&g.ID, &g.OwnerID, &g.OwnerName, &g.Format, &g.Location, &g.Date, &g.JoinCode,
		&status, &g.RingersScore, &g.BallersScore, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.Status = pickup.GameStatus(status)
	g.Date = g.Date.UTC()
	return &g, nil
}

// loadGame reads a game with its teams and players. With lock set the game
// row is held FOR UPDATE until q's transaction ends, which serializes every
// operation on the same game.
func loadGame(ctx context.Context, q database.Querier, gameID int64, lock bool) (*pickup.Game, error) {
	query := gameSelect + ` WHERE g.id = $1`
	if lock {
		query += ` FOR UPDATE OF g`
	}
	g, err := scanGame(q.QueryRow(ctx, query, gameID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	rows, err := q.Query(ctx, `SELECT id, is_ringers FROM pickup_teams WHERE game_id = $1`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	for rows.Next() {
		var t pickup.Team
		if err := rows.Scan(&t.ID, &t.IsRingers); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		if t.IsRingers {
			g.Ringers = t
		} else {
			g.Ballers = t
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	g.Ringers.IsRingers = true

	rows, err = q.Query(ctx, `
		SELECT p.id, p.member_id, m.name, p.status, p.team_id
		FROM pickup_players p
		JOIN members m ON m.id = p.member_id
		WHERE p.game_id = $1
		ORDER BY p.id
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p pickup.Player
		var status string
		if err := rows.Scan(&p.ID, &p.MemberID, &p.Name, &status, &p.TeamID); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		p.Status = pickup.PlayerStatus(status)
		g.Players = append(g.Players, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	return g, nil
}

// withLockedGame runs fn against a locked game inside one transaction. The
// transaction commits only if fn returns nil.
func withLockedGame(ctx context.Context, db *database.DB, gameID int64, fn func(tx pgx.Tx, g *pickup.Game) error) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	g, err := loadGame(ctx, tx, gameID, true)
	if err != nil {
		return err
	}
	if err := fn(tx, g); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertPlayer(ctx context.Context, tx pgx.Tx, gameID int64, p *pickup.Player) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO pickup_players (game_id, member_id, status)
		VALUES ($1, $2, $3)
		RETURNING id
	`, gameID, p.MemberID, string(p.Status)).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to insert player: %w", err)
	}
	return nil
}

func updatePlayer(ctx context.Context, tx pgx.Tx, p *pickup.Player) error {
	_, err := tx.Exec(ctx, `
		UPDATE pickup_players SET status = $1, team_id = $2 WHERE id = $3
	`, string(p.Status), p.TeamID, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}
	return nil
}

func deletePlayer(ctx context.Context, tx pgx.Tx, p *pickup.Player) error {
	_, err := tx.Exec(ctx, `DELETE FROM pickup_players WHERE id = $1`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	return nil
}

func updateGame(ctx context.Context, tx pgx.Tx, g *pickup.Game) error {
	err := tx.QueryRow(ctx, `
		UPDATE pickup_games
		SET format = $1, location = $2, date = $3, status = $4,
		    ringers_score = $5, ballers_score = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`, g.Format, g.Location, g.Date, int(g.Status), g.RingersScore, g.BallersScore, g.ID).Scan(&g.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	return nil
}

func memberRefs(ctx context.Context, q database.Querier, ids []int64) ([]pickup.MemberRef, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := q.Query(ctx, `SELECT id, name FROM members WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}
	defer rows.Close()

	var refs []pickup.MemberRef
	for rows.Next() {
		var m pickup.MemberRef
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		refs = append(refs, m)
	}
	return refs, rows.Err()
}

func memberRef(ctx context.Context, q database.Querier, id int64) (pickup.MemberRef, error) {
	m := pickup.MemberRef{ID: id}
	err := q.QueryRow(ctx, `SELECT name FROM members WHERE id = $1`, id).Scan(&m.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return m, ErrMemberNotFound
	}
	if err != nil {
		return m, fmt.Errorf("failed to load member: %w", err)
	}
	return m, nil
}
