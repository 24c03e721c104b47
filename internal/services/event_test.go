package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventhub/internal/domain"
)

type fakeCategoryRepo struct {
	categories map[string]*domain.Category
	err        error
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *fakeCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Category
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func newTestEventService(store *fakeStore, categories map[string]*domain.Category) domain.EventService {
	return NewEventService(
		&fakeEventRepo{store: store},
		&fakeRegistrationRepo{store: store},
		&fakeCategoryRepo{categories: categories},
	)
}

func validEvent() *domain.Event {
	start := time.Now().Add(24 * time.Hour)
	return &domain.Event{
		Title:        "Robotics Workshop",
		Location:     "Lab 3",
		StartTime:    start,
		EndTime:      start.Add(2 * time.Hour),
		CategoryID:   "cat-1",
		OrganizerID:  "user-1",
		CapacityMode: domain.CapacityLimited,
		MaxCapacity:  30,
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	categories := map[string]*domain.Category{"cat-1": {ID: "cat-1", Name: "Academic"}}

	tests := []struct {
		name    string
		mutate  func(e *domain.Event)
		wantErr error
	}{
		{name: "success limited", mutate: func(e *domain.Event) {}},
		{
			name:   "success unlimited ignores capacity",
			mutate: func(e *domain.Event) { e.CapacityMode = domain.CapacityUnlimited; e.MaxCapacity = 99 },
		},
		{
			name:    "missing organizer",
			mutate:  func(e *domain.Event) { e.OrganizerID = "" },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "missing title",
			mutate:  func(e *domain.Event) { e.Title = "   " },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "end before start",
			mutate:  func(e *domain.Event) { e.EndTime = e.StartTime.Add(-time.Hour) },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "limited with zero capacity",
			mutate:  func(e *domain.Event) { e.MaxCapacity = 0 },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown capacity mode",
			mutate:  func(e *domain.Event) { e.CapacityMode = "SOMETIMES" },
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown category",
			mutate:  func(e *domain.Event) { e.CategoryID = "cat-missing" },
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestEventService(newFakeStore(), categories)
			event := validEvent()
			tt.mutate(event)

			err := svc.CreateEvent(context.Background(), event)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if event.CapacityMode == domain.CapacityLimited && event.AvailableSpots != event.MaxCapacity {
				t.Fatalf("available spots must start at max capacity, got %d", event.AvailableSpots)
			}
			if event.CapacityMode == domain.CapacityUnlimited && (event.MaxCapacity != 0 || event.AvailableSpots != 0) {
				t.Fatalf("unlimited events must not carry capacity, got max=%d spots=%d", event.MaxCapacity, event.AvailableSpots)
			}
		})
	}
}

func TestEventService_GetAvailability(t *testing.T) {
	store := newFakeStore(
		limitedEvent("ev-1", 10, 4),
		&domain.Event{ID: "ev-2", CapacityMode: domain.CapacityUnlimited},
	)
	svc := newTestEventService(store, nil)
	ctx := context.Background()

	got, err := svc.GetAvailability(ctx, "ev-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CapacityMode != domain.CapacityLimited || *got.AvailableSpots != 4 || *got.MaxCapacity != 10 {
		t.Fatalf("unexpected availability: %+v", got)
	}

	got, err = svc.GetAvailability(ctx, "ev-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CapacityMode != domain.CapacityUnlimited || got.AvailableSpots != nil || got.MaxCapacity != nil {
		t.Fatalf("unlimited availability must omit counters: %+v", got)
	}

	if _, err := svc.GetAvailability(ctx, "ev-missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventService_ListParticipants_EventNotFound(t *testing.T) {
	svc := newTestEventService(newFakeStore(), nil)

	_, _, err := svc.ListParticipants(context.Background(), "ev-missing", domain.PaginationParams{Page: 1, PageSize: 20})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
