package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors shared across repositories and services.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// CapacityMode says whether an event restricts attendance.
type CapacityMode string

const (
	// CapacityUnlimited admits any number of registrants.
	CapacityUnlimited CapacityMode = "UNLIMITED"
	// CapacityLimited caps attendance at MaxCapacity.
	CapacityLimited CapacityMode = "LIMITED"
)

// Event represents a campus event
// swagger:model Event
type Event struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Location       string       `json:"location"`
	StartTime      time.Time    `json:"start_time"`
	EndTime        time.Time    `json:"end_time"`
	CategoryID     string       `json:"category_id"`
	OrganizerID    string       `json:"organizer_id"`
	CapacityMode   CapacityMode `json:"capacity_mode"`
	MaxCapacity    int          `json:"max_capacity"`
	AvailableSpots int          `json:"available_spots"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
// For LIMITED events AvailableSpots starts equal to MaxCapacity; only the
// registration service mutates it afterward.
func NewEvent(title, description, location string, startTime, endTime time.Time, categoryID, organizerID string, mode CapacityMode, maxCapacity int, createdAt, updatedAt time.Time) *Event {
	spots := 0
	if mode == CapacityLimited {
		spots = maxCapacity
	}
	return &Event{
		Title:          title,
		Description:    description,
		Location:       location,
		StartTime:      startTime,
		EndTime:        endTime,
		CategoryID:     categoryID,
		OrganizerID:    organizerID,
		CapacityMode:   mode,
		MaxCapacity:    maxCapacity,
		AvailableSpots: spots,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
}

// EventAvailability is the read-only capacity projection of an event.
// AvailableSpots and MaxCapacity are nil for UNLIMITED events.
// swagger:model EventAvailability
type EventAvailability struct {
	CapacityMode   CapacityMode `json:"capacity_mode"`
	AvailableSpots *int         `json:"available_spots"`
	MaxCapacity    *int         `json:"max_capacity"`
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// GetByIDForUpdate loads the event row under an exclusive row lock. It is
	// only meaningful inside a transaction started via Transactor; the lock is
	// held until that transaction commits or rolls back.
	GetByIDForUpdate(ctx context.Context, id string) (*Event, error)
	// DecrementAvailableSpots subtracts one spot and returns the new counter.
	DecrementAvailableSpots(ctx context.Context, id string) (int, error)
	// IncrementAvailableSpots returns one spot, clamped at MaxCapacity, and
	// returns the new counter.
	IncrementAvailableSpots(ctx context.Context, id string) (int, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]*Event, error)
}

// EventService defines organizer and catalog operations plus the read-only
// query surface over events.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListUpcoming(ctx context.Context) ([]*Event, error)
	GetAvailability(ctx context.Context, eventID string) (*EventAvailability, error)
	ListParticipants(ctx context.Context, eventID string, p PaginationParams) ([]*Participant, int, error)
	ListCategories(ctx context.Context) ([]*Category, error)
}

// Transactor runs fn inside a single all-or-nothing storage transaction.
// Repository calls made with the context passed to fn join that transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
