package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for the registration service.
var (
	ErrCapacityExceeded     = errors.New("no available spots")
	ErrAlreadyRegistered    = errors.New("already registered")
	ErrNoActiveRegistration = errors.New("no active registration")
	// ErrContention signals a transient storage conflict (lock or
	// serialization failure) after the bounded retry was exhausted.
	ErrContention = errors.New("concurrent update conflict")
)

// RegistrationStatus is the lifecycle state of a registration.
type RegistrationStatus string

const (
	RegistrationConfirmed RegistrationStatus = "CONFIRMED"
	RegistrationCancelled RegistrationStatus = "CANCELLED"
)

// Registration represents an attendee's registration for an event.
// At most one CONFIRMED registration may exist per (user, event) pair.
// swagger:model Registration
type Registration struct {
	ID        string             `json:"id"`
	EventID   string             `json:"event_id"`
	UserID    string             `json:"user_id"`
	Status    RegistrationStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// NewRegistration creates a new CONFIRMED Registration. ID is typically set by the repository on create.
func NewRegistration(eventID, userID string, createdAt, updatedAt time.Time) *Registration {
	return &Registration{
		EventID:   eventID,
		UserID:    userID,
		Status:    RegistrationConfirmed,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Participant is one row of an event's participant list.
// swagger:model Participant
type Participant struct {
	UserID       string    `json:"user_id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}

// RegistrationWithEvent bundles a registration with its related event.
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	// Create inserts a CONFIRMED registration. It returns ErrAlreadyRegistered
	// when an active registration for the same (user, event) already exists.
	Create(ctx context.Context, reg *Registration) error
	GetActiveByEventAndUser(ctx context.Context, eventID, userID string) (*Registration, error)
	// Cancel flips the registration to CANCELLED, preserving history so the
	// user can register again later.
	Cancel(ctx context.Context, id string, at time.Time) error
	ListParticipantsByEventID(ctx context.Context, eventID string, p PaginationParams) ([]*Participant, int, error)
	ListActiveByUserID(ctx context.Context, userID string) ([]*Registration, error)
}

// RegistrationResult is the outcome of a successful register or cancel call.
// AvailableSpots is nil for UNLIMITED events.
type RegistrationResult struct {
	Registration   *Registration `json:"registration"`
	AvailableSpots *int          `json:"available_spots"`
}

// RegistrationService coordinates the capacity-safe registration protocol over
// the event and registration stores.
type RegistrationService interface {
	// Register registers userID for eventID. All reads and writes happen in
	// one transaction under an exclusive lock on the event row, so two callers
	// can never both consume the last spot.
	Register(ctx context.Context, eventID, userID string) (*RegistrationResult, error)
	// Cancel cancels the user's active registration and releases its spot.
	Cancel(ctx context.Context, eventID, userID string) (*RegistrationResult, error)
	ListMyRegistrations(ctx context.Context, userID string) ([]*RegistrationWithEvent, error)
}
