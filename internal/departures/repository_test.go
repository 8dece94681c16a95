package departures

import (
	"context"
	"testing"

	"umrahcore/internal/shared/apperror"
	"umrahcore/internal/shared/database/dbtest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

var departureColumns = []string{"id", "package_name", "quota", "booked_count", "price_per_pax", "status"}

func TestRepositoryReserveIsSingleGuardedUpdate(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewRepository(db)
	id := uuid.New()

	// No SELECT precedes the update: the guard and the increment are one statement.
	mock.ExpectQuery(`UPDATE "departures" SET "booked_count"=booked_count \+ \$1,"status"=CASE WHEN booked_count \+ \$2 >= quota THEN \$3 ELSE status END,"updated_at"=\$4 WHERE id = \$5 AND status = \$6 AND booked_count \+ \$7 <= quota RETURNING \*`).
		WithArgs(2, 2, StatusFull, sqlmock.AnyArg(), id, StatusOpen, 2).
		WillReturnRows(sqlmock.NewRows(departureColumns).
			AddRow(id.String(), "Umrah Ramadhan", 45, 45, "32500000.00", "full"))

	departure, ok, err := repo.Reserve(context.Background(), id, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected the guard to match")
	}
	if departure.BookedCount != 45 || departure.Status != StatusFull {
		t.Fatalf("returned row not scanned: %+v", departure)
	}
	dbtest.Verify(t, mock)
}

func TestRepositoryReserveNoMatch(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`UPDATE "departures" SET .* WHERE id = .* AND booked_count \+ \$\d+ <= quota RETURNING \*`).
		WillReturnRows(sqlmock.NewRows(departureColumns))

	_, ok, err := repo.Reserve(context.Background(), uuid.New(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("an unmatched guard must report false")
	}
	dbtest.Verify(t, mock)
}

func TestRepositoryReleaseFloorsAtZero(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`UPDATE "departures" SET "booked_count"=GREATEST\(booked_count - \$1, 0\),"status"=CASE WHEN status = \$2 THEN \$3 ELSE status END.* WHERE id = \$\d+ RETURNING \*`).
		WithArgs(2, StatusFull, StatusOpen, sqlmock.AnyArg(), id).
		WillReturnRows(sqlmock.NewRows(departureColumns).
			AddRow(id.String(), "Umrah Ramadhan", 45, 43, "32500000.00", "open"))

	departure, ok, err := repo.Release(context.Background(), id, 2)
	if err != nil || !ok {
		t.Fatalf("release failed: ok=%v err=%v", ok, err)
	}
	if departure.BookedCount != 43 || departure.Status != StatusOpen {
		t.Fatalf("unexpected row: %+v", departure)
	}
	dbtest.Verify(t, mock)
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "departures" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(departureColumns))

	_, err := repo.GetByID(context.Background(), uuid.New())
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	dbtest.Verify(t, mock)
}

func TestRepositorySetStatusGuardsCurrentStatus(t *testing.T) {
	db, mock := dbtest.New(t)
	repo := NewRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`UPDATE "departures" SET "status"=\$1,"updated_at"=\$2 WHERE id = \$3 AND status IN \(\$4,\$5\) RETURNING \*`).
		WithArgs(StatusClosed, sqlmock.AnyArg(), id, StatusOpen, StatusFull).
		WillReturnRows(sqlmock.NewRows(departureColumns).
			AddRow(id.String(), "Umrah Syawal", 30, 12, "29000000.00", "closed"))

	departure, ok, err := repo.SetStatus(context.Background(), id, []Status{StatusOpen, StatusFull}, StatusClosed)
	if err != nil || !ok {
		t.Fatalf("set status failed: ok=%v err=%v", ok, err)
	}
	if departure.Status != StatusClosed {
		t.Fatalf("expected closed, got %s", departure.Status)
	}
	dbtest.Verify(t, mock)
}
