package commissions

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

type memoryRepository struct {
	mu          sync.Mutex
	agents      map[uuid.UUID]*Agent
	commissions map[uuid.UUID]*Commission
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		agents:      map[uuid.UUID]*Agent{},
		commissions: map[uuid.UUID]*Commission{},
	}
}

func (r *memoryRepository) CreateAgent(ctx context.Context, agent *Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if agent.ID == uuid.Nil {
		agent.ID = uuid.New()
	}
	r.agents[agent.ID] = agent
	return nil
}

func (r *memoryRepository) GetAgent(ctx context.Context, id uuid.UUID) (*Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.agents[id]
	if !ok {
		return nil, apperror.NotFound("agent")
	}
	row := *a
	return &row, nil
}

func (r *memoryRepository) ListAgents(ctx context.Context, activeOnly bool) ([]Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Agent
	for _, a := range r.agents {
		out = append(out, *a)
	}
	return out, nil
}

func (r *memoryRepository) Create(ctx context.Context, c *Commission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.commissions {
		if existing.BookingID == c.BookingID {
			return apperror.Validation("duplicate record")
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	row := *c
	r.commissions[c.ID] = &row
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Commission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.commissions[id]
	if !ok {
		return nil, apperror.NotFound("commission")
	}
	row := *c
	return &row, nil
}

func (r *memoryRepository) GetByBooking(ctx context.Context, bookingID uuid.UUID) (*Commission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.commissions {
		if c.BookingID == bookingID {
			row := *c
			return &row, nil
		}
	}
	return nil, apperror.NotFound("commission")
}

func (r *memoryRepository) ListByAgent(ctx context.Context, agentID uuid.UUID, query ListCommissionsQuery) ([]Commission, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Commission
	for _, c := range r.commissions {
		if c.AgentID == agentID && (query.Status == "" || string(c.Status) == query.Status) {
			out = append(out, *c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memoryRepository) TotalsByStatus(ctx context.Context, agentID uuid.UUID) ([]statusTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byStatus := map[Status]*statusTotal{}
	for _, c := range r.commissions {
		if c.AgentID != agentID {
			continue
		}
		t, ok := byStatus[c.Status]
		if !ok {
			t = &statusTotal{Status: c.Status, Total: decimal.Zero}
			byStatus[c.Status] = t
		}
		t.Total = t.Total.Add(c.CommissionAmount)
		t.Count++
	}
	var out []statusTotal
	for _, t := range byStatus {
		out = append(out, *t)
	}
	return out, nil
}

func (r *memoryRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidBy string, at time.Time) (*Commission, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.commissions[id]
	if !ok || c.Status != StatusPending {
		return nil, false, nil
	}
	c.Status = StatusPaid
	c.PaidAt = &at
	c.PaidBy = paidBy
	row := *c
	return &row, true, nil
}

func (r *memoryRepository) VoidPending(ctx context.Context, bookingID uuid.UUID, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.commissions {
		if c.BookingID == bookingID && c.Status == StatusPending {
			c.Status = StatusVoided
			c.VoidedAt = &at
			n++
		}
	}
	return n, nil
}

func setup(t *testing.T, rate int64) (Service, *memoryRepository, *Agent) {
	t.Helper()
	repo := newMemoryRepository()
	agent := &Agent{ID: uuid.New(), Name: "Barokah Travel", CommissionRate: decimal.NewFromInt(rate), IsActive: true}
	_ = repo.CreateAgent(context.Background(), agent)
	return NewService(repo, dbtest.Passthrough{}), repo, agent
}

func TestOnBookingCreatedFreezesAmount(t *testing.T) {
	svc, _, agent := setup(t, 5)

	commission, err := svc.OnBookingCreated(context.Background(), BookingCreated{
		BookingID:  uuid.New(),
		AgentID:    agent.ID,
		TotalPrice: decimal.NewFromInt(10_000_000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !commission.CommissionAmount.Equal(decimal.NewFromInt(500_000)) {
		t.Fatalf("expected 500000, got %s", commission.CommissionAmount)
	}
	if commission.Status != StatusPending {
		t.Fatalf("expected pending, got %s", commission.Status)
	}
	if !commission.RateApplied.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("rate must be frozen on the row, got %s", commission.RateApplied)
	}
}

func TestOnBookingCreatedUnknownAgent(t *testing.T) {
	svc, _, _ := setup(t, 5)
	_, err := svc.OnBookingCreated(context.Background(), BookingCreated{
		BookingID: uuid.New(), AgentID: uuid.New(), TotalPrice: decimal.NewFromInt(1),
	})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestMarkPaidIsOneWay(t *testing.T) {
	svc, _, agent := setup(t, 5)
	ctx := context.Background()
	c, _ := svc.OnBookingCreated(ctx, BookingCreated{BookingID: uuid.New(), AgentID: agent.ID, TotalPrice: decimal.NewFromInt(2_000_000)})

	paid, err := svc.MarkPaid(ctx, c.ID, "finance-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if paid.Status != StatusPaid || paid.PaidAt == nil || paid.PaidBy != "finance-1" {
		t.Fatalf("unexpected commission: %+v", paid)
	}

	if _, err := svc.MarkPaid(ctx, c.ID, "finance-1"); !errors.Is(err, apperror.ErrInvalidStateTransition) {
		t.Fatalf("second MarkPaid should be INVALID_STATE_TRANSITION, got %v", err)
	}
}

func TestCancellationVoidsOnlyPending(t *testing.T) {
	svc, repo, agent := setup(t, 5)
	ctx := context.Background()

	pendingBooking := uuid.New()
	_, _ = svc.OnBookingCreated(ctx, BookingCreated{BookingID: pendingBooking, AgentID: agent.ID, TotalPrice: decimal.NewFromInt(10_000_000)})
	voided, err := svc.OnBookingCancelled(ctx, pendingBooking)
	if err != nil || !voided {
		t.Fatalf("pending commission should be voided: %v %v", voided, err)
	}
	current, _ := repo.GetByBooking(ctx, pendingBooking)
	if current.Status != StatusVoided || current.VoidedAt == nil {
		t.Fatalf("expected voided, got %s", current.Status)
	}
	if _, err := svc.MarkPaid(ctx, current.ID, "finance-1"); !errors.Is(err, apperror.ErrInvalidStateTransition) {
		t.Fatalf("voided commission cannot be paid, got %v", err)
	}

	paidBooking := uuid.New()
	c, _ := svc.OnBookingCreated(ctx, BookingCreated{BookingID: paidBooking, AgentID: agent.ID, TotalPrice: decimal.NewFromInt(10_000_000)})
	_, _ = svc.MarkPaid(ctx, c.ID, "finance-1")
	voided, err = svc.OnBookingCancelled(ctx, paidBooking)
	if err != nil || voided {
		t.Fatalf("paid commission must be left untouched: %v %v", voided, err)
	}
	current, _ = repo.GetByBooking(ctx, paidBooking)
	if current.Status != StatusPaid {
		t.Fatalf("expected paid, got %s", current.Status)
	}
}

func TestSummaryExcludesVoided(t *testing.T) {
	svc, _, agent := setup(t, 10)
	ctx := context.Background()

	a, b, v := uuid.New(), uuid.New(), uuid.New()
	for _, id := range []uuid.UUID{a, b, v} {
		if _, err := svc.OnBookingCreated(ctx, BookingCreated{BookingID: id, AgentID: agent.ID, TotalPrice: decimal.NewFromInt(1_000_000)}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	paid, _ := svc.OnBookingCreated(ctx, BookingCreated{BookingID: uuid.New(), AgentID: agent.ID, TotalPrice: decimal.NewFromInt(3_000_000)})
	_, _ = svc.MarkPaid(ctx, paid.ID, "finance-1")
	_, _ = svc.OnBookingCancelled(ctx, v)

	summary, err := svc.Summary(ctx, agent.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.PendingTotal.Equal(decimal.NewFromInt(200_000)) || summary.PendingCount != 2 {
		t.Fatalf("pending: %s/%d", summary.PendingTotal, summary.PendingCount)
	}
	if !summary.PaidTotal.Equal(decimal.NewFromInt(300_000)) || summary.PaidCount != 1 {
		t.Fatalf("paid: %s/%d", summary.PaidTotal, summary.PaidCount)
	}
	if summary.VoidedCount != 1 {
		t.Fatalf("voided: %d", summary.VoidedCount)
	}
}

func TestCreateAgentRejectsRateOutOfRange(t *testing.T) {
	svc, _, _ := setup(t, 5)
	_, err := svc.CreateAgent(context.Background(), CreateAgentRequest{Name: "Al Hijrah", CommissionRate: decimal.NewFromInt(120)})
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("expected VALIDATION, got %v", err)
	}
}

func TestCalculateRoundsToCents(t *testing.T) {
	cases := []struct {
		total, rate, want string
	}{
		{"10000000", "5", "500000"},
		{"32500000", "2.5", "812500"},
		{"1999.99", "3.33", "66.6"},
		{"100", "0", "0"},
	}
	for _, tc := range cases {
		got := Calculate(decimal.RequireFromString(tc.total), decimal.RequireFromString(tc.rate))
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("Calculate(%s, %s) = %s, want %s", tc.total, tc.rate, got, tc.want)
		}
	}
}
