// Package repositories persists users, events and conversations in PostgreSQL/PostGIS.
package repositories

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when no row matches the given id.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique constraint rejects a write.
	ErrConflict = errors.New("conflict")
	// ErrNoChange is returned when a conditional set update affected no row,
	// e.g. adding a value that is already present.
	ErrNoChange = errors.New("no change")
)

func translateError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return errors.Join(ErrConflict, err)
	}
	return err
}

func requireAffected(tag pgconn.CommandTag, onZero error) error {
	if tag.RowsAffected() == 0 {
		return onZero
	}
	return nil
}
