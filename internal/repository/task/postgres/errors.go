package postgres

import (
	"errors"
	"fmt"

	repo "tasksApp/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolationCode = "23505"

// mapError converts driver failures into the repository error set.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
		return fmt.Errorf("%w: %s", repo.ErrDuplicate, pgErr.ConstraintName)
	}
	return repo.NewStorageError(op, err)
}
