package commissions

import (
	"context"
	"testing"
	"time"

	"umrahcore/internal/shared/database/dbtest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

var commissionColumns = []string{"id", "agent_id", "booking_id", "commission_amount", "status", "paid_by"}

func TestRepositoryMarkPaidGuardsPending(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewRepository(db)
	id := uuid.New()
	at := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE "agent_commissions" SET "paid_at"=\$1,"paid_by"=\$2,"status"=\$3,"updated_at"=\$4 WHERE id = \$5 AND status = \$6 RETURNING \*`).
		WithArgs(at, "finance-1", StatusPaid, sqlmock.AnyArg(), id, StatusPending).
		WillReturnRows(sqlmock.NewRows(commissionColumns).
			AddRow(id.String(), uuid.NewString(), uuid.NewString(), "500000.00", "paid", "finance-1"))

	commission, ok, err := repo.MarkPaid(context.Background(), id, "finance-1", at)
	if err != nil || !ok {
		t.Fatalf("mark paid failed: ok=%v err=%v", ok, err)
	}
	if commission.Status != StatusPaid {
		t.Fatalf("expected paid, got %s", commission.Status)
	}
	dbtest.Verify(t, mock)
}

func TestRepositoryMarkPaidAlreadyResolved(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`UPDATE "agent_commissions" SET .* WHERE id = \$\d+ AND status = \$\d+ RETURNING \*`).
		WillReturnRows(sqlmock.NewRows(commissionColumns))

	_, ok, err := repo.MarkPaid(context.Background(), uuid.New(), "finance-1", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("a non-pending commission must not match")
	}
	dbtest.Verify(t, mock)
}

func TestRepositoryVoidPendingLeavesPaidAlone(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewRepository(db)
	bookingID := uuid.New()

	mock.ExpectExec(`UPDATE "agent_commissions" SET "status"=\$1,"voided_at"=\$2,"updated_at"=\$3 WHERE booking_id = \$4 AND status = \$5`).
		WithArgs(StatusVoided, sqlmock.AnyArg(), sqlmock.AnyArg(), bookingID, StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.VoidPending(context.Background(), bookingID, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no rows voided, got %d", n)
	}
	dbtest.Verify(t, mock)
}
