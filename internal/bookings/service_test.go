package bookings

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"umrahcore/internal/departures"
	"umrahcore/internal/notifications"
	"umrahcore/internal/shared/apperror"
	"umrahcore/internal/shared/database/dbtest"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type memoryRepository struct {
	mu        sync.Mutex
	bookings  map[uuid.UUID]*Booking
	customers map[uuid.UUID]bool
}

func newMemoryRepository(customers ...uuid.UUID) *memoryRepository {
	r := &memoryRepository{bookings: map[uuid.UUID]*Booking{}, customers: map[uuid.UUID]bool{}}
	for _, id := range customers {
		r.customers[id] = true
	}
	return r
}

func (r *memoryRepository) CreateBooking(ctx context.Context, booking *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	for i := range booking.Passengers {
		booking.Passengers[i].ID = uuid.New()
		booking.Passengers[i].BookingID = booking.ID
	}
	row := *booking
	r.bookings[booking.ID] = &row
	return nil
}

func (r *memoryRepository) get(id uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, apperror.NotFound("booking")
	}
	row := *b
	return &row, nil
}

func (r *memoryRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return r.get(id)
}

func (r *memoryRepository) GetBookingByIDWithRelations(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return r.get(id)
}

func (r *memoryRepository) GetBookingForUpdate(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return r.get(id)
}

func (r *memoryRepository) UpdateBooking(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return apperror.NotFound("booking")
	}
	for key, value := range fields {
		switch key {
		case "paid_amount":
			b.PaidAmount = value.(decimal.Decimal)
		case "remaining_amount":
			b.RemainingAmount = value.(decimal.Decimal)
		case "payment_status":
			b.PaymentStatus = value.(PaymentStatus)
		case "booking_status":
			b.BookingStatus = value.(BookingStatus)
		case "confirmed_at":
			at := value.(time.Time)
			b.ConfirmedAt = &at
		case "cancelled_at":
			at := value.(time.Time)
			b.CancelledAt = &at
		case "refunded_at":
			at := value.(time.Time)
			b.RefundedAt = &at
		case "cancel_reason":
			b.CancelReason = value.(string)
		}
	}
	return nil
}

func (r *memoryRepository) ListBookings(ctx context.Context, query BookingListQuery) ([]Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Booking
	for _, b := range r.bookings {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *memoryRepository) CountCustomers(ctx context.Context, ids []uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		if r.customers[id] {
			n++
		}
	}
	return n, nil
}

type fakeInventory struct {
	price      decimal.Decimal
	reserveErr error
	departed   bool
	reserved   int
	released   int
}

func (f *fakeInventory) Reserve(ctx context.Context, departureID uuid.UUID, pax int) (*departures.Departure, error) {
	if f.reserveErr != nil {
		return nil, f.reserveErr
	}
	f.reserved += pax
	return &departures.Departure{ID: departureID, PricePerPax: f.price, BookedCount: f.reserved}, nil
}

func (f *fakeInventory) Release(ctx context.Context, departureID uuid.UUID, pax int) (*departures.Departure, error) {
	f.released += pax
	return &departures.Departure{ID: departureID}, nil
}

func (f *fakeInventory) IsDeparted(ctx context.Context, departureID uuid.UUID) (bool, error) {
	return f.departed, nil
}

type fakeCommissions struct {
	createErr error
	created   []uuid.UUID
	withdrawn []uuid.UUID
}

func (f *fakeCommissions) BookingCreated(ctx context.Context, booking *Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, booking.ID)
	return nil
}

func (f *fakeCommissions) BookingWithdrawn(ctx context.Context, booking *Booking) error {
	f.withdrawn = append(f.withdrawn, booking.ID)
	return nil
}

type recordingNotifier struct {
	events []*notifications.BookingEvent
}

func (n *recordingNotifier) Notify(ctx context.Context, event *notifications.BookingEvent) {
	n.events = append(n.events, event)
}

type fixture struct {
	svc         Service
	repo        *memoryRepository
	inventory   *fakeInventory
	commissions *fakeCommissions
	notifier    *recordingNotifier
	customers   []uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	customers := []uuid.UUID{uuid.New(), uuid.New()}
	f := &fixture{
		repo:        newMemoryRepository(customers...),
		inventory:   &fakeInventory{price: decimal.NewFromInt(5_000_000)},
		commissions: &fakeCommissions{},
		notifier:    &recordingNotifier{},
		customers:   customers,
	}
	f.svc = NewService(f.repo, dbtest.Passthrough{}, f.inventory, f.commissions, f.notifier)
	return f
}

func (f *fixture) request(agent bool) CreateBookingRequest {
	req := CreateBookingRequest{
		DepartureID: uuid.NewString(),
		CustomerID:  f.customers[0].String(),
		Passengers: []PassengerRequest{
			{CustomerID: f.customers[0].String(), RoomPreference: RoomDouble},
			{CustomerID: f.customers[1].String(), RoomPreference: RoomDouble},
		},
	}
	if agent {
		req.AgentID = uuid.NewString()
	}
	return req
}

func (f *fixture) create(t *testing.T, agent bool) *Booking {
	t.Helper()
	booking, err := f.svc.CreateBooking(context.Background(), f.request(agent), "staff-1")
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return booking
}

func TestCreateBookingOpensLedger(t *testing.T) {
	f := newFixture(t)
	booking := f.create(t, true)

	if booking.TotalPax != 2 || f.inventory.reserved != 2 {
		t.Fatalf("expected 2 pax reserved, got %d/%d", booking.TotalPax, f.inventory.reserved)
	}
	if !booking.TotalPrice.Equal(decimal.NewFromInt(10_000_000)) || !booking.RemainingAmount.Equal(booking.TotalPrice) {
		t.Fatalf("unexpected totals: %s/%s", booking.TotalPrice, booking.RemainingAmount)
	}
	if booking.BookingStatus != BookingPending || booking.PaymentStatus != PaymentPending {
		t.Fatalf("unexpected statuses: %s/%s", booking.BookingStatus, booking.PaymentStatus)
	}
	if !strings.HasPrefix(booking.BookingRef, "UMR-") || len(booking.BookingRef) != len("UMR-20261014-ABCDEF") {
		t.Fatalf("unexpected booking ref %q", booking.BookingRef)
	}
	if len(f.commissions.created) != 1 {
		t.Fatalf("agent booking must record a commission")
	}
	if len(f.notifier.events) != 1 || f.notifier.events[0].Type != notifications.EventBookingCreated {
		t.Fatalf("expected one booking.created event")
	}
}

func TestCreateBookingWithoutAgentSkipsCommission(t *testing.T) {
	f := newFixture(t)
	f.create(t, false)
	if len(f.commissions.created) != 0 {
		t.Fatalf("direct booking must not record a commission")
	}
}

func TestCreateBookingDefaultsRoomPreference(t *testing.T) {
	f := newFixture(t)
	req := f.request(false)
	req.Passengers[1].RoomPreference = ""

	booking, err := f.svc.CreateBooking(context.Background(), req, "staff-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Passengers[1].RoomPreference != RoomQuad {
		t.Fatalf("expected quad, got %s", booking.Passengers[1].RoomPreference)
	}
}

func TestCreateBookingRejections(t *testing.T) {
	t.Run("capacity", func(t *testing.T) {
		f := newFixture(t)
		f.inventory.reserveErr = apperror.ErrCapacityExceeded
		_, err := f.svc.CreateBooking(context.Background(), f.request(true), "staff-1")
		if !errors.Is(err, apperror.ErrCapacityExceeded) {
			t.Fatalf("expected CAPACITY_EXCEEDED, got %v", err)
		}
		if len(f.repo.bookings) != 0 || len(f.notifier.events) != 0 || len(f.commissions.created) != 0 {
			t.Fatalf("nothing may be written when seats are not reserved")
		}
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := newFixture(t)
		req := f.request(false)
		req.Passengers[1].CustomerID = uuid.NewString()
		_, err := f.svc.CreateBooking(context.Background(), req, "staff-1")
		if apperror.KindOf(err) != apperror.KindNotFound {
			t.Fatalf("expected NOT_FOUND, got %v", err)
		}
		if f.inventory.reserved != 0 {
			t.Fatalf("seats must not be reserved for unknown customers")
		}
	})

	t.Run("duplicate passenger", func(t *testing.T) {
		f := newFixture(t)
		req := f.request(false)
		req.Passengers[1].CustomerID = req.Passengers[0].CustomerID
		_, err := f.svc.CreateBooking(context.Background(), req, "staff-1")
		if apperror.KindOf(err) != apperror.KindValidation {
			t.Fatalf("expected VALIDATION, got %v", err)
		}
	})

	t.Run("commission failure", func(t *testing.T) {
		f := newFixture(t)
		f.commissions.createErr = apperror.Validation("agent is inactive")
		_, err := f.svc.CreateBooking(context.Background(), f.request(true), "staff-1")
		if apperror.KindOf(err) != apperror.KindValidation {
			t.Fatalf("expected VALIDATION, got %v", err)
		}
		if len(f.notifier.events) != 0 {
			t.Fatalf("a failed booking must not be announced")
		}
	})
}

func TestApplyVerifiedPaymentPartialThenFull(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.create(t, false)

	applied, err := f.svc.ApplyVerifiedPayment(ctx, booking.ID, decimal.NewFromInt(4_000_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := applied.Booking
	if !b.PaidAmount.Equal(decimal.NewFromInt(4_000_000)) || !b.RemainingAmount.Equal(decimal.NewFromInt(6_000_000)) {
		t.Fatalf("unexpected ledger: %s/%s", b.PaidAmount, b.RemainingAmount)
	}
	if b.PaymentStatus != PaymentPartial || b.BookingStatus != BookingPending || applied.Confirmed {
		t.Fatalf("partial payment must leave the booking pending: %s/%s", b.PaymentStatus, b.BookingStatus)
	}

	applied, err = f.svc.ApplyVerifiedPayment(ctx, booking.ID, decimal.NewFromInt(6_000_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b = applied.Booking
	if !b.RemainingAmount.IsZero() || b.PaymentStatus != PaymentPaid {
		t.Fatalf("expected settled ledger, got %s/%s", b.RemainingAmount, b.PaymentStatus)
	}
	if b.BookingStatus != BookingConfirmed || !applied.Confirmed || b.ConfirmedAt == nil {
		t.Fatalf("full payment must confirm the booking, got %s", b.BookingStatus)
	}
	if applied.PreviousStatus != BookingPending {
		t.Fatalf("previous status should be pending, got %s", applied.PreviousStatus)
	}

	stored, _ := f.repo.get(booking.ID)
	if !stored.PaidAmount.Add(stored.RemainingAmount).Equal(stored.TotalPrice) {
		t.Fatalf("paid + remaining must equal total")
	}
}

func TestApplyVerifiedPaymentRejectsOverpayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.create(t, false)

	if _, err := f.svc.ApplyVerifiedPayment(ctx, booking.ID, decimal.NewFromInt(4_000_000)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := f.svc.ApplyVerifiedPayment(ctx, booking.ID, decimal.NewFromInt(7_000_000))
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("amount above remaining should be VALIDATION, got %v", err)
	}

	stored, _ := f.repo.get(booking.ID)
	if !stored.PaidAmount.Equal(decimal.NewFromInt(4_000_000)) || !stored.RemainingAmount.Equal(decimal.NewFromInt(6_000_000)) {
		t.Fatalf("rejected payment must not move the ledger: %s/%s", stored.PaidAmount, stored.RemainingAmount)
	}
	if stored.PaymentStatus != PaymentPartial {
		t.Fatalf("expected partial, got %s", stored.PaymentStatus)
	}
}

func TestApplyVerifiedPaymentOnConfirmedKeepsStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.create(t, false)
	if _, err := f.svc.Confirm(ctx, booking.ID, "staff-1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	applied, err := f.svc.ApplyVerifiedPayment(ctx, booking.ID, decimal.NewFromInt(10_000_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if applied.Confirmed || applied.Booking.BookingStatus != BookingConfirmed || applied.Booking.PaymentStatus != PaymentPaid {
		t.Fatalf("unexpected outcome: %+v", applied)
	}
}

func TestApplyVerifiedPaymentRejectsTerminalBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.create(t, false)
	if _, err := f.svc.Cancel(ctx, booking.ID, "staff-1", "customer request"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	_, err := f.svc.ApplyVerifiedPayment(ctx, booking.ID, decimal.NewFromInt(1_000_000))
	if !errors.Is(err, apperror.ErrInvalidStateTransition) {
		t.Fatalf("expected INVALID_STATE_TRANSITION, got %v", err)
	}
	if _, err := f.svc.ApplyVerifiedPayment(ctx, booking.ID, decimal.Zero); apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("zero amount should be VALIDATION, got %v", err)
	}
}

func TestCancelConfirmedReleasesSeatsAndVoidsCommission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.create(t, true)
	if _, err := f.svc.Confirm(ctx, booking.ID, "staff-1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	cancelled, err := f.svc.Cancel(ctx, booking.ID, "staff-1", "visa rejected")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.BookingStatus != BookingCancelled || cancelled.CancelledAt == nil || cancelled.CancelReason != "visa rejected" {
		t.Fatalf("unexpected booking: %+v", cancelled)
	}
	if f.inventory.released != 2 {
		t.Fatalf("expected 2 seats released, got %d", f.inventory.released)
	}
	if len(f.commissions.withdrawn) != 1 {
		t.Fatalf("pending commission must be voided")
	}

	if _, err := f.svc.Cancel(ctx, booking.ID, "staff-1", ""); !errors.Is(err, apperror.ErrInvalidStateTransition) {
		t.Fatalf("cancelling twice should be INVALID_STATE_TRANSITION, got %v", err)
	}
	if f.inventory.released != 2 {
		t.Fatalf("a rejected cancel must not release again")
	}
}

func TestRefundSkipsReleaseAfterDeparture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.create(t, true)
	for _, step := range []func(context.Context, uuid.UUID, string) (*Booking, error){
		f.svc.Confirm, f.svc.StartProcessing, f.svc.Complete,
	} {
		if _, err := step(ctx, booking.ID, "staff-1"); err != nil {
			t.Fatalf("lifecycle step: %v", err)
		}
	}
	f.inventory.departed = true

	refunded, err := f.svc.Refund(ctx, booking.ID, "finance-1", "force majeure")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refunded.BookingStatus != BookingRefunded || refunded.PaymentStatus != PaymentRefunded || refunded.RefundedAt == nil {
		t.Fatalf("unexpected booking: %s/%s", refunded.BookingStatus, refunded.PaymentStatus)
	}
	if f.inventory.released != 0 {
		t.Fatalf("seats of a departed trip must not be released, got %d", f.inventory.released)
	}
	if len(f.commissions.withdrawn) != 1 {
		t.Fatalf("refund must void a pending commission")
	}

	last := f.notifier.events[len(f.notifier.events)-1]
	if last.Type != notifications.EventBookingRefunded || last.ActorID != "finance-1" {
		t.Fatalf("unexpected last event %s by %s", last.Type, last.ActorID)
	}
}

func TestRefundBeforeDepartureReleasesSeats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.create(t, false)
	if _, err := f.svc.Confirm(ctx, booking.ID, "staff-1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if _, err := f.svc.Refund(ctx, booking.ID, "finance-1", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.inventory.released != 2 {
		t.Fatalf("expected 2 seats released, got %d", f.inventory.released)
	}
}

func TestProcessingCannotBeCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.create(t, false)
	_, _ = f.svc.Confirm(ctx, booking.ID, "staff-1")
	_, _ = f.svc.StartProcessing(ctx, booking.ID, "staff-1")

	if _, err := f.svc.Cancel(ctx, booking.ID, "staff-1", ""); !errors.Is(err, apperror.ErrInvalidStateTransition) {
		t.Fatalf("expected INVALID_STATE_TRANSITION, got %v", err)
	}
	stored, _ := f.repo.get(booking.ID)
	if stored.BookingStatus != BookingProcessing {
		t.Fatalf("status must be unchanged, got %s", stored.BookingStatus)
	}
}

func TestGenerateBookingReference(t *testing.T) {
	ref, err := generateBookingReference(time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(ref, "UMR-20261014-") {
		t.Fatalf("unexpected ref %q", ref)
	}
	if strings.ContainsAny(ref[len("UMR-20261014-"):], "IO0123456789") {
		t.Fatalf("ambiguous characters in %q", ref)
	}
}
