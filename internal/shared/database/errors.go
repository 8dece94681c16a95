package database

import (
	"context"
	"errors"
	"time"

	"umrahcore/internal/shared/apperror"
	"umrahcore/pkg/logger"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes the core reacts to.
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03"
	sqlStateQueryCanceled        = "57014"
	sqlStateUniqueViolation      = "23505"
	sqlStateCheckViolation       = "23514"
)

// Classify turns a storage error into an apperror kind. Errors that already
// carry a kind pass through untouched.
func Classify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperror.Wrap(apperror.KindTimeout, err, "persistence call timed out")
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.Wrap(apperror.KindNotFound, err, "record not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateLockNotAvailable:
			return apperror.Wrap(apperror.KindPersistenceConflict, err, "concurrent write conflict")
		case sqlStateQueryCanceled:
			return apperror.Wrap(apperror.KindTimeout, err, "persistence call timed out")
		case sqlStateUniqueViolation:
			return apperror.Wrap(apperror.KindValidation, err, "duplicate record")
		case sqlStateCheckViolation:
			return apperror.Wrap(apperror.KindValidation, err, "constraint %s rejected the write", pgErr.ConstraintName)
		}
	}

	return apperror.Wrap(apperror.KindInternal, err, "storage failure")
}

// IsUniqueViolation reports whether err is a unique-constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlStateUniqueViolation
}

// Retry runs fn and reruns it while it fails with a persistence conflict,
// at most maxRetries extra times. Business errors return immediately.
func Retry(ctx context.Context, maxRetries int, backoff time.Duration, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !apperror.IsRetryable(err) || attempt >= maxRetries {
			return err
		}

		logger.GetDefault().LogRetry(ctx, attempt+1, err)

		select {
		case <-ctx.Done():
			return apperror.Wrap(apperror.KindTimeout, ctx.Err(), "gave up retrying")
		case <-time.After(backoff * time.Duration(attempt+1)):
		}
	}
}
