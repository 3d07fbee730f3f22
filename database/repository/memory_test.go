package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"levi/models"

	"go.uber.org/zap"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := 0; i < 2; i++ {
		if err := Seed(ctx, store, zap.NewNop()); err != nil {
			t.Fatalf("Seed #%d: %v", i+1, err)
		}
	}
	cats, _ := store.ListCategories(ctx)
	services, _ := store.ListServices(ctx)
	if len(cats) != len(seedCategories) || len(services) != len(seedProviders) {
		t.Fatalf("got %d categories and %d services after two seeds", len(cats), len(services))
	}

	admin, err := store.GetUserByEmail(ctx, "ADMIN@example.com")
	if err != nil || !admin.IsAdmin {
		t.Fatalf("admin = %+v, err = %v", admin, err)
	}
	if services[0].ID != "1" || services[3].ID != "4" {
		t.Fatalf("services not in id order: %s..%s", services[0].ID, services[3].ID)
	}
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.CreateUser(ctx, &UserDoc{ID: "1", Username: "a", Email: "a@example.com"}); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateUser(ctx, &UserDoc{ID: "2", Username: "b", Email: "A@example.com"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	if err := store.CreateUser(ctx, &UserDoc{ID: "3", Username: "a", Email: "c@example.com"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	if _, err := store.GetUserByID(ctx, "9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListBookings(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)

	docs := []BookingDoc{
		{ID: "1", ClientID: "c1", ProviderID: "p1", Status: models.StatusPending, StartTime: base},
		{ID: "2", ClientID: "c1", ProviderID: "p2", Status: models.StatusConfirmed, StartTime: base.Add(48 * time.Hour)},
		{ID: "3", ClientID: "c2", ProviderID: "p1", Status: models.StatusPending, StartTime: base.Add(24 * time.Hour)},
	}
	for i := range docs {
		if err := store.CreateBooking(ctx, &docs[i]); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name  string
		query BookingQuery
		want  []string
	}{
		{"all newest first", BookingQuery{}, []string{"2", "3", "1"}},
		{"as client", BookingQuery{ActorID: "c1"}, []string{"2", "1"}},
		{"as provider", BookingQuery{ActorID: "p1"}, []string{"3", "1"}},
		{"by status", BookingQuery{Status: models.StatusPending}, []string{"3", "1"}},
		{"stranger", BookingQuery{ActorID: "x"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListBookings(ctx, tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d bookings, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Fatalf("position %d = %s, want %s", i, got[i].ID, id)
				}
			}
		})
	}

	if err := store.UpdateBooking(ctx, &BookingDoc{ID: "9"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update of missing booking: err = %v", err)
	}
}

func TestNextIDPerSequence(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a, _ := store.NextID(ctx, SeqBookings)
	b, _ := store.NextID(ctx, SeqBookings)
	c, _ := store.NextID(ctx, SeqUsers)
	if a != "1" || b != "2" || c != "1" {
		t.Fatalf("ids = %s %s %s", a, b, c)
	}
}
