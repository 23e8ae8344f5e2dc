package postgres

import (
	"context"
	"errors"

	customErrors "github.com/Kavermo/StreamHive/core-service/internal/domain/errors"
	"github.com/jackc/pgconn"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// storeErr maps driver failures onto the domain taxonomy. Deadline and
// cancellation failures are retryable (StoreUnavailable); everything else
// is internal.
func storeErr(err error, op string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return customErrors.WrapStoreUnavailable(err, op)
	}
	return customErrors.WrapInternal(err, op)
}
