package schema

import (
	"errors"
	"testing"

	"umrahcore/internal/shared/database/dbtest"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMigrateConstraintsIsIdempotentSQL(t *testing.T) {
	db, mock := dbtest.New(t)

	for range statusConstraints {
		mock.ExpectExec(`DO \$\$ BEGIN\s+ALTER TABLE \w+ ADD CONSTRAINT \w+ CHECK .*EXCEPTION WHEN duplicate_object THEN NULL;\s+END \$\$`).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	for range indexes {
		mock.ExpectExec(`CREATE INDEX IF NOT EXISTS`).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if err := MigrateConstraints(db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dbtest.Verify(t, mock)
}

func TestMigrateConstraintsStopsOnError(t *testing.T) {
	db, mock := dbtest.New(t)

	mock.ExpectExec(`ALTER TABLE departures ADD CONSTRAINT chk_departures_status`).
		WillReturnError(errors.New("permission denied"))

	if err := MigrateConstraints(db); err == nil {
		t.Fatalf("expected the failure to surface")
	}
	dbtest.Verify(t, mock)
}

func TestModelsCoverEveryTable(t *testing.T) {
	if got := len(Models()); got != 11 {
		t.Fatalf("expected 11 models, got %d", got)
	}
}
