package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	CodeLength = 8

	joinCodeConstraint = "pickup_games_join_code_key"
	friendIDConstraint = "members_friend_id_key"
)

// NewCode returns the first eight hex digits of a random uuid, upper-cased.
func NewCode() string {
	u := uuid.New()
	return strings.ToUpper(hex.EncodeToString(u[:])[:CodeLength])
}

// CodeAllocator hands out join codes and friend ids that are not yet in use.
type CodeAllocator struct {
	newCode func() string
}

func NewCodeAllocator() *CodeAllocator {
	return &CodeAllocator{newCode: NewCode}
}

type codeTakenFunc func(ctx context.Context, code string) (bool, error)

// Allocate draws codes until taken reports one as free. There is no attempt
// cap; it only gives up when ctx is done or taken fails.
func (a *CodeAllocator) Allocate(ctx context.Context, taken codeTakenFunc) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code := a.newCode()
		inUse, err := taken(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check code: %w", err)
		}
		if !inUse {
			return code, nil
		}
	}
}

// InsertWithCode allocates a code inside tx and runs insert with it under a
// savepoint. A concurrent insert that won the same code trips constraint, in
// which case the savepoint is rolled back and a new code is drawn.
func (a *CodeAllocator) InsertWithCode(
	ctx context.Context,
	tx pgx.Tx,
	table, column, constraint string,
	insert func(ctx context.Context, tx pgx.Tx, code string) error,
) (string, error) {
	taken := func(ctx context.Context, code string) (bool, error) {
		var exists bool
		err := tx.QueryRow(ctx,
			fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)`, table, column),
			code,
		).Scan(&exists)
		return exists, err
	}

	for {
		code, err := a.Allocate(ctx, taken)
		if err != nil {
			return "", err
		}

		sp, err := tx.Begin(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to create savepoint: %w", err)
		}
		err = insert(ctx, sp, code)
		if err == nil {
			if err := sp.Commit(ctx); err != nil {
				return "", fmt.Errorf("failed to release savepoint: %w", err)
			}
			return code, nil
		}
		_ = sp.Rollback(ctx)
		if !isUniqueViolation(err, constraint) {
			return "", err
		}
	}
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23514"
}
