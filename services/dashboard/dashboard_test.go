package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"levi/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func booking(id, provider string, status models.BookingStatus, date string, price float64) models.Booking {
	return models.Booking{ID: id, ServiceProviderID: provider, Status: status, Date: date, Time: "10:00 AM", Price: price}
}

var now = time.Date(2025, 12, 10, 15, 0, 0, 0, time.UTC)

var sample = []models.Booking{
	booking("1", "4", models.StatusCompleted, "12/10/2025", 100.10),
	booking("2", "4", models.StatusCompleted, "12/06/2025", 50.20),
	booking("3", "4", models.StatusCompleted, "12/01/2025", 30),
	booking("4", "4", models.StatusCompleted, "11/15/2025", 70),
	booking("5", "4", models.StatusConfirmed, "12/12/2025", 90),
	booking("6", "4", models.StatusPending, "12/14/2025", 45),
	booking("7", "9", models.StatusCompleted, "12/10/2025", 500),
	booking("8", "4", models.StatusCancelled, "12/10/2025", 80),
}

func TestComputeProviderStats(t *testing.T) {
	profile := models.UserProfile{
		ID:                     "4",
		IsServiceProvider:      true,
		ServiceProviderProfile: &models.ProviderProfile{Rating: 4.9},
	}
	st := ComputeProviderStats(profile, sample, now)

	if st.CompletedJobs != 4 || st.ActiveJobs != 1 || st.PendingBookings != 1 {
		t.Fatalf("unexpected counts %+v", st)
	}
	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"today", st.TodayEarnings, "100.1"},
		{"week", st.WeekEarnings, "150.3"},
		{"month", st.MonthEarnings, "180.3"},
	}
	for _, c := range checks {
		if !c.got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("%s earnings: got %s, want %s", c.name, c.got, c.want)
		}
	}
	if st.Rating != 4.9 {
		t.Errorf("rating: got %v", st.Rating)
	}
}

func TestFilterEarnings(t *testing.T) {
	mine := ForProvider("4", sample)

	tests := []struct {
		period EarningsPeriod
		ids    []string
		total  string
	}{
		{PeriodMonth, []string{"1", "2", "3"}, "180.3"},
		{PeriodLastMonth, []string{"4"}, "70"},
		{PeriodAll, []string{"1", "2", "3", "4"}, "250.3"},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			got := FilterEarnings(mine, tt.period, now)
			if len(got) != len(tt.ids) {
				t.Fatalf("got %d bookings, want %d", len(got), len(tt.ids))
			}
			for i, id := range tt.ids {
				if got[i].ID != id {
					t.Errorf("position %d: got %s, want %s", i, got[i].ID, id)
				}
			}
			if total := TotalEarnings(got); !total.Equal(decimal.RequireFromString(tt.total)) {
				t.Errorf("total: got %s, want %s", total, tt.total)
			}
		})
	}

	if _, err := ParseEarningsPeriod("year"); err == nil {
		t.Error("expected error for unknown period")
	}
}

func TestRecentBookings(t *testing.T) {
	if got := RecentBookings(sample, 5); len(got) != 5 || got[0].ID != "1" {
		t.Fatalf("unexpected recent bookings %+v", got)
	}
	if got := RecentBookings(sample[:2], 5); len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	if got := RecentBookings(sample, 0); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestPollerStopWaitsForCallbacks(t *testing.T) {
	var calls atomic.Int32
	var stopped atomic.Bool
	var mu sync.Mutex
	late := false

	p := &Poller{
		Interval: 5 * time.Millisecond,
		Logger:   zap.NewNop(),
		Source: func(ctx context.Context) ([]models.Booking, error) {
			return sample[:1], nil
		},
		OnUpdate: func(b []models.Booking) {
			if stopped.Load() {
				mu.Lock()
				late = true
				mu.Unlock()
			}
			calls.Add(1)
		},
	}
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := p.Start(context.Background()); !errors.Is(err, ErrPollerRunning) {
		t.Fatalf("second start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	p.Stop()
	stopped.Store(true)
	time.Sleep(20 * time.Millisecond)

	if calls.Load() < 3 {
		t.Fatalf("expected at least 3 refreshes, got %d", calls.Load())
	}
	mu.Lock()
	defer mu.Unlock()
	if late {
		t.Fatal("callback ran after Stop returned")
	}
	p.Stop()
}

func TestPollerKeepsPollingAfterErrors(t *testing.T) {
	var attempts atomic.Int32
	updated := make(chan struct{}, 1)

	p := &Poller{
		Interval: 5 * time.Millisecond,
		Logger:   zap.NewNop(),
		Source: func(ctx context.Context) ([]models.Booking, error) {
			if attempts.Add(1) < 3 {
				return nil, errors.New("backend down")
			}
			return sample, nil
		},
		OnUpdate: func(b []models.Booking) {
			select {
			case updated <- struct{}{}:
			default:
			}
		},
	}
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer p.Stop()

	select {
	case <-updated:
	case <-time.After(2 * time.Second):
		t.Fatal("poller gave up after errors")
	}
}

func TestPollerRestartsAfterParentCancel(t *testing.T) {
	var calls atomic.Int32
	p := &Poller{
		Interval: 5 * time.Millisecond,
		Logger:   zap.NewNop(),
		Source: func(ctx context.Context) ([]models.Booking, error) {
			return sample[:1], nil
		},
		OnUpdate: func(b []models.Booking) { calls.Add(1) },
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := p.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()

	var err error
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if err = p.Start(context.Background()); !errors.Is(err, ErrPollerRunning) {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if err != nil {
		t.Fatalf("restart after parent cancel: %v", err)
	}
	defer p.Stop()

	before := calls.Load()
	deadline = time.Now().Add(2 * time.Second)
	for calls.Load() <= before && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if calls.Load() <= before {
		t.Fatal("restarted poller never refreshed")
	}
}
