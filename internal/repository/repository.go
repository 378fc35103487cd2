package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate value")
)

// DBTX — общий интерфейс для *pgxpool.Pool, pgx.Tx и pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DuplicateError — нарушение уникальности; Field — колонка (username, email).
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string { return e.Field + ": " + ErrDuplicate.Error() }

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }

func translateError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		switch pgErr.ConstraintName {
		case "users_username_key":
			return &DuplicateError{Field: "username"}
		case "users_email_key", "users_email_lower_idx":
			return &DuplicateError{Field: "email"}
		}
		return ErrDuplicate
	}
	return err
}
