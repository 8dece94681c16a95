package departures

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"umrahcore/internal/shared/apperror"
	"umrahcore/internal/shared/database/dbtest"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memoryRepository applies the same guards as the SQL repository under a mutex.
type memoryRepository struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*Departure
}

func newMemoryRepository(departures ...*Departure) *memoryRepository {
	r := &memoryRepository{rows: map[uuid.UUID]*Departure{}}
	for _, d := range departures {
		r.rows[d.ID] = d
	}
	return r
}

func (r *memoryRepository) Create(ctx context.Context, departure *Departure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if departure.ID == uuid.Nil {
		departure.ID = uuid.New()
	}
	r.rows[departure.ID] = departure
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Departure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[id]
	if !ok {
		return nil, apperror.NotFound("departure")
	}
	row := *d
	return &row, nil
}

func (r *memoryRepository) List(ctx context.Context, query ListDeparturesQuery) ([]Departure, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Departure
	for _, d := range r.rows {
		if query.Status == "" || string(d.Status) == query.Status {
			out = append(out, *d)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memoryRepository) Reserve(ctx context.Context, id uuid.UUID, pax int) (*Departure, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[id]
	if !ok || d.Status != StatusOpen || d.BookedCount+pax > d.Quota {
		return nil, false, nil
	}
	d.BookedCount += pax
	if d.BookedCount >= d.Quota {
		d.Status = StatusFull
	}
	row := *d
	return &row, true, nil
}

func (r *memoryRepository) Release(ctx context.Context, id uuid.UUID, pax int) (*Departure, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[id]
	if !ok {
		return nil, false, nil
	}
	d.BookedCount -= pax
	if d.BookedCount < 0 {
		d.BookedCount = 0
	}
	if d.Status == StatusFull {
		d.Status = StatusOpen
	}
	row := *d
	return &row, true, nil
}

func (r *memoryRepository) SetStatus(ctx context.Context, id uuid.UUID, from []Status, to interface{}) (*Departure, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[id]
	if !ok {
		return nil, false, nil
	}
	matched := false
	for _, s := range from {
		if d.Status == s {
			matched = true
		}
	}
	if !matched {
		return nil, false, nil
	}
	switch v := to.(type) {
	case Status:
		d.Status = v
	default:
		// reopen expression
		if d.BookedCount >= d.Quota {
			d.Status = StatusFull
		} else {
			d.Status = StatusOpen
		}
	}
	row := *d
	return &row, true, nil
}

func newDeparture(quota, booked int, status Status) *Departure {
	return &Departure{
		ID:            uuid.New(),
		PackageName:   "Umrah Reguler 12 Hari",
		DepartureDate: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		Quota:         quota,
		BookedCount:   booked,
		PricePerPax:   decimal.NewFromInt(32_500_000),
		Status:        status,
	}
}

func newTestService(repo Repository) Service {
	return NewService(repo, dbtest.Passthrough{}, nil, time.Minute)
}

func TestReserveRejectsOverbookingAndKeepsCount(t *testing.T) {
	dep := newDeparture(45, 44, StatusOpen)
	repo := newMemoryRepository(dep)
	svc := newTestService(repo)

	_, err := svc.Reserve(context.Background(), dep.ID, 2)
	if !errors.Is(err, apperror.ErrCapacityExceeded) {
		t.Fatalf("expected CAPACITY_EXCEEDED, got %v", err)
	}

	current, _ := repo.GetByID(context.Background(), dep.ID)
	if current.BookedCount != 44 {
		t.Fatalf("booked_count must stay 44, got %d", current.BookedCount)
	}
}

func TestReserveLastSeatMarksFull(t *testing.T) {
	dep := newDeparture(45, 44, StatusOpen)
	svc := newTestService(newMemoryRepository(dep))

	reserved, err := svc.Reserve(context.Background(), dep.ID, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reserved.BookedCount != 45 || reserved.Status != StatusFull {
		t.Fatalf("expected 45/full, got %d/%s", reserved.BookedCount, reserved.Status)
	}

	_, err = svc.Reserve(context.Background(), dep.ID, 1)
	if !errors.Is(err, apperror.ErrCapacityExceeded) {
		t.Fatalf("full departure should reject with CAPACITY_EXCEEDED, got %v", err)
	}
}

func TestReserveClassifiesRejections(t *testing.T) {
	cases := []struct {
		name   string
		status Status
		want   apperror.Kind
	}{
		{"closed", StatusClosed, apperror.KindDepartureClosed},
		{"departed", StatusDeparted, apperror.KindDepartureClosed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dep := newDeparture(45, 10, tc.status)
			svc := newTestService(newMemoryRepository(dep))
			_, err := svc.Reserve(context.Background(), dep.ID, 1)
			if apperror.KindOf(err) != tc.want {
				t.Fatalf("got %v want %s", err, tc.want)
			}
		})
	}

	svc := newTestService(newMemoryRepository())
	if _, err := svc.Reserve(context.Background(), uuid.New(), 1); apperror.KindOf(err) != apperror.KindNotFound {
		t.Fatalf("unknown departure should be NOT_FOUND, got %v", err)
	}
	if _, err := svc.Reserve(context.Background(), uuid.New(), 0); apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("zero pax should be VALIDATION, got %v", err)
	}
}

func TestConcurrentReservesNeverOverbook(t *testing.T) {
	dep := newDeparture(45, 0, StatusOpen)
	repo := newMemoryRepository(dep)
	svc := newTestService(repo)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Reserve(context.Background(), dep.ID, 1); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			} else if !errors.Is(err, apperror.ErrCapacityExceeded) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	current, _ := repo.GetByID(context.Background(), dep.ID)
	if accepted != 45 || current.BookedCount != 45 {
		t.Fatalf("accepted=%d booked=%d, want 45/45", accepted, current.BookedCount)
	}
	if current.Status != StatusFull {
		t.Fatalf("expected full, got %s", current.Status)
	}
}

func TestReleaseReopensFullDeparture(t *testing.T) {
	dep := newDeparture(45, 45, StatusFull)
	svc := newTestService(newMemoryRepository(dep))

	released, err := svc.Release(context.Background(), dep.ID, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if released.BookedCount != 43 || released.Status != StatusOpen {
		t.Fatalf("expected 43/open, got %d/%s", released.BookedCount, released.Status)
	}
}

func TestReleaseNeverGoesNegative(t *testing.T) {
	dep := newDeparture(45, 1, StatusOpen)
	svc := newTestService(newMemoryRepository(dep))

	released, err := svc.Release(context.Background(), dep.ID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if released.BookedCount != 0 {
		t.Fatalf("expected 0, got %d", released.BookedCount)
	}
}

func TestStatusChanges(t *testing.T) {
	dep := newDeparture(45, 45, StatusFull)
	svc := newTestService(newMemoryRepository(dep))
	ctx := context.Background()

	closed, err := svc.Close(ctx, dep.ID)
	if err != nil || closed.Status != StatusClosed {
		t.Fatalf("close: %v %v", closed, err)
	}
	if _, err := svc.Close(ctx, dep.ID); !errors.Is(err, apperror.ErrInvalidStateTransition) {
		t.Fatalf("closing twice should be an invalid transition, got %v", err)
	}

	reopened, err := svc.Reopen(ctx, dep.ID)
	if err != nil || reopened.Status != StatusFull {
		t.Fatalf("a departure at quota reopens as full: %v %v", reopened, err)
	}

	departed, err := svc.MarkDeparted(ctx, dep.ID)
	if err != nil || departed.Status != StatusDeparted {
		t.Fatalf("mark departed: %v %v", departed, err)
	}
	isDeparted, err := svc.IsDeparted(ctx, dep.ID)
	if err != nil || !isDeparted {
		t.Fatalf("IsDeparted: %v %v", isDeparted, err)
	}
	if _, err := svc.Reopen(ctx, dep.ID); !errors.Is(err, apperror.ErrInvalidStateTransition) {
		t.Fatalf("departed cannot reopen, got %v", err)
	}
}

func TestCreateDepartureValidates(t *testing.T) {
	svc := newTestService(newMemoryRepository())
	ctx := context.Background()
	when := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	before := when.AddDate(0, 0, -1)

	_, err := svc.CreateDeparture(ctx, CreateDepartureRequest{
		PackageName: "Umrah Plus Turki", DepartureDate: when, ReturnDate: &before, Quota: 40, PricePerPax: decimal.NewFromInt(38_000_000),
	}, "staff-1")
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("return before departure should be VALIDATION, got %v", err)
	}

	created, err := svc.CreateDeparture(ctx, CreateDepartureRequest{
		PackageName: "Umrah Plus Turki", DepartureDate: when, Quota: 40, PricePerPax: decimal.NewFromInt(38_000_000),
	}, "staff-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != StatusOpen || created.BookedCount != 0 || created.CreatedBy != "staff-1" {
		t.Fatalf("unexpected departure: %+v", created)
	}

	resp, err := svc.GetAvailability(ctx, created.ID)
	if err != nil || resp.AvailableSeats != 40 {
		t.Fatalf("availability: %+v %v", resp, err)
	}
}

func TestCreateDepartureRejectsNonPositivePrice(t *testing.T) {
	svc := newTestService(newMemoryRepository())
	when := time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC)

	for _, price := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-1)} {
		_, err := svc.CreateDeparture(context.Background(), CreateDepartureRequest{
			PackageName: "Umrah Hemat 9 Hari", DepartureDate: when, Quota: 30, PricePerPax: price,
		}, "staff-1")
		if apperror.KindOf(err) != apperror.KindValidation {
			t.Fatalf("price %s should be VALIDATION, got %v", price, err)
		}
	}
}
