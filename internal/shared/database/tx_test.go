package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"umrahcore/internal/shared/apperror"
	"umrahcore/internal/shared/config"
	"umrahcore/internal/shared/database/dbtest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func testPersistence() config.PersistenceConfig {
	return config.PersistenceConfig{
		OperationTimeout: time.Second,
		LockTimeout:      250 * time.Millisecond,
		MaxRetries:       2,
		RetryBackoff:     time.Millisecond,
	}
}

func TestClassify(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		err  error
		want apperror.Kind
	}{
		{"serialization", &pgconn.PgError{Code: "40001"}, apperror.KindPersistenceConflict},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, apperror.KindPersistenceConflict},
		{"lock timeout", &pgconn.PgError{Code: "55P03"}, apperror.KindPersistenceConflict},
		{"statement timeout", &pgconn.PgError{Code: "57014"}, apperror.KindTimeout},
		{"unique", &pgconn.PgError{Code: "23505"}, apperror.KindValidation},
		{"deadline", context.DeadlineExceeded, apperror.KindTimeout},
		{"not found", gorm.ErrRecordNotFound, apperror.KindNotFound},
		{"other", errors.New("connection reset"), apperror.KindInternal},
		{"business passthrough", apperror.New(apperror.KindRoomFull, "full"), apperror.KindRoomFull},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := apperror.KindOf(Classify(ctx, tc.err)); got != tc.want {
				t.Fatalf("got %s want %s", got, tc.want)
			}
		})
	}
	if Classify(ctx, nil) != nil {
		t.Fatalf("nil should stay nil")
	}
}

func TestRetryStopsOnBusinessError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return apperror.New(apperror.KindCapacityExceeded, "sold out")
	})
	if calls != 1 {
		t.Fatalf("business errors must not be retried, calls=%d", calls)
	}
	if !errors.Is(err, apperror.ErrCapacityExceeded) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestRetryBoundedOnConflict(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return apperror.New(apperror.KindPersistenceConflict, "conflict")
	})
	if calls != 3 {
		t.Fatalf("expected 1 attempt + 2 retries, got %d", calls)
	}
	if !errors.Is(err, apperror.ErrPersistenceConflict) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestRetrySucceedsAfterConflict(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls == 1 {
			return apperror.New(apperror.KindPersistenceConflict, "conflict")
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Fatalf("err=%v calls=%d", err, calls)
	}
}

func TestWithinTransactionCommits(t *testing.T) {
	db, mock := dbtest.New(t)
	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL lock_timeout = '250ms'").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tr := NewTransactor(db, testPersistence())
	var sawTx bool
	err := tr.WithinTransaction(context.Background(), func(ctx context.Context) error {
		sawTx = InTransaction(ctx)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sawTx {
		t.Fatalf("callback context should carry the transaction")
	}
	dbtest.Verify(t, mock)
}

func TestWithinTransactionRetriesConflict(t *testing.T) {
	db, mock := dbtest.New(t)
	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL lock_timeout").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL lock_timeout").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tr := NewTransactor(db, testPersistence())
	attempts := 0
	err := tr.WithinTransaction(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return &pgconn.PgError{Code: "40P01"}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
	dbtest.Verify(t, mock)
}

func TestWithinTransactionNestedJoinsOuter(t *testing.T) {
	db, mock := dbtest.New(t)
	mock.ExpectBegin()
	mock.ExpectExec("SET LOCAL lock_timeout").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tr := NewTransactor(db, testPersistence())
	err := tr.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return tr.WithinTransaction(ctx, func(ctx context.Context) error { return nil })
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dbtest.Verify(t, mock)
}
