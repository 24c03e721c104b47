package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/domain"
)

type eventService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	categoryRepo     domain.CategoryRepository
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	categoryRepo domain.CategoryRepository,
) domain.EventService {
	return &eventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		categoryRepo:     categoryRepo,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	if event.OrganizerID == "" {
		return fmt.Errorf("%w: event organizer is required", domain.ErrInvalidInput)
	}
	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if !event.EndTime.After(event.StartTime) {
		return fmt.Errorf("%w: end_time must be after start_time", domain.ErrInvalidInput)
	}
	switch event.CapacityMode {
	case domain.CapacityUnlimited:
		event.MaxCapacity = 0
		event.AvailableSpots = 0
	case domain.CapacityLimited:
		if event.MaxCapacity <= 0 {
			return fmt.Errorf("%w: max_capacity must be positive for limited events", domain.ErrInvalidInput)
		}
		// Spots start full; only the registration service moves the counter
		// from here on.
		event.AvailableSpots = event.MaxCapacity
	default:
		return fmt.Errorf("%w: unknown capacity mode %q", domain.ErrInvalidInput, event.CapacityMode)
	}

	if _, err := s.categoryRepo.GetByID(ctx, event.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: unknown category", domain.ErrInvalidInput)
		}
		return fmt.Errorf("get category: %w", err)
	}

	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListUpcoming(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.eventRepo.ListUpcoming(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return events, nil
}

func (s *eventService) GetAvailability(ctx context.Context, eventID string) (*domain.EventAvailability, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	availability := &domain.EventAvailability{CapacityMode: event.CapacityMode}
	if event.CapacityMode == domain.CapacityLimited {
		spots := event.AvailableSpots
		maxCap := event.MaxCapacity
		availability.AvailableSpots = &spots
		availability.MaxCapacity = &maxCap
	}
	return availability, nil
}

func (s *eventService) ListParticipants(ctx context.Context, eventID string, p domain.PaginationParams) ([]*domain.Participant, int, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}

	participants, total, err := s.registrationRepo.ListParticipantsByEventID(ctx, eventID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list participants: %w", err)
	}
	return participants, total, nil
}

func (s *eventService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
