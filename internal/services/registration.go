package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"eventhub/internal/domain"
)

// contentionRetries bounds how many times a register/cancel transaction is
// re-run after a transient storage conflict before giving up.
const contentionRetries = 1

type registrationService struct {
	tx               domain.Transactor
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	userRepo         domain.UserRepository
	emailService     domain.EmailService
}

// NewRegistrationService creates a RegistrationService with the given
// transactor and repositories. emailService may be nil to disable
// confirmation emails.
func NewRegistrationService(
	tx domain.Transactor,
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
) domain.RegistrationService {
	return &registrationService{
		tx:               tx,
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		emailService:     emailService,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID, userID string) (*domain.RegistrationResult, error) {
	var result *domain.RegistrationResult
	var event *domain.Event

	err := s.withRetry(ctx, func(ctx context.Context) error {
		// Everything below runs in one transaction. The FOR UPDATE read
		// serializes all register/cancel calls for this event, so the policy
		// check, the ledger insert, and the counter decrement apply as a unit
		// or not at all.
		ev, err := s.eventRepo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get event for update: %w", err)
		}
		event = ev

		if !domain.Admits(ev.CapacityMode, ev.AvailableSpots) {
			return domain.ErrCapacityExceeded
		}

		if _, err := s.registrationRepo.GetActiveByEventAndUser(ctx, eventID, userID); err == nil {
			return domain.ErrAlreadyRegistered
		} else if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get registration: %w", err)
		}

		now := time.Now()
		reg := domain.NewRegistration(eventID, userID, now, now)
		if err := s.registrationRepo.Create(ctx, reg); err != nil {
			if errors.Is(err, domain.ErrAlreadyRegistered) {
				return domain.ErrAlreadyRegistered
			}
			return fmt.Errorf("create registration: %w", err)
		}

		res := &domain.RegistrationResult{Registration: reg}
		if ev.CapacityMode == domain.CapacityLimited {
			spots, err := s.eventRepo.DecrementAvailableSpots(ctx, eventID)
			if err != nil {
				return fmt.Errorf("decrement available spots: %w", err)
			}
			res.AvailableSpots = &spots
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Outside the transaction so the lock hold time stays bounded by the
	// read-modify-write alone. A failed email never unwinds a registration.
	s.sendConfirmation(ctx, event, userID)

	return result, nil
}

func (s *registrationService) Cancel(ctx context.Context, eventID, userID string) (*domain.RegistrationResult, error) {
	var result *domain.RegistrationResult

	err := s.withRetry(ctx, func(ctx context.Context) error {
		ev, err := s.eventRepo.GetByIDForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get event for update: %w", err)
		}

		reg, err := s.registrationRepo.GetActiveByEventAndUser(ctx, eventID, userID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNoActiveRegistration
			}
			return fmt.Errorf("get registration: %w", err)
		}

		now := time.Now()
		if err := s.registrationRepo.Cancel(ctx, reg.ID, now); err != nil {
			return fmt.Errorf("cancel registration: %w", err)
		}
		reg.Status = domain.RegistrationCancelled
		reg.UpdatedAt = now

		res := &domain.RegistrationResult{Registration: reg}
		if ev.CapacityMode == domain.CapacityLimited {
			spots, err := s.eventRepo.IncrementAvailableSpots(ctx, eventID)
			if err != nil {
				return fmt.Errorf("increment available spots: %w", err)
			}
			res.AvailableSpots = &spots
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *registrationService) ListMyRegistrations(ctx context.Context, userID string) ([]*domain.RegistrationWithEvent, error) {
	regs, err := s.registrationRepo.ListActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	result := make([]*domain.RegistrationWithEvent, 0, len(regs))
	eventsByID := make(map[string]*domain.Event)
	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Event deleted but registration remains; skip the orphan.
					continue
				}
				return nil, fmt.Errorf("get event for registration: %w", err)
			}
			eventsByID[reg.EventID] = ev
		}
		result = append(result, &domain.RegistrationWithEvent{
			Registration: reg,
			Event:        ev,
		})
	}
	return result, nil
}

// withRetry runs fn through the transactor, retrying once when the store
// reports a transient conflict. Anything else propagates unchanged.
func (s *registrationService) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= contentionRetries; attempt++ {
		err = s.tx.WithTx(ctx, fn)
		if !errors.Is(err, domain.ErrContention) {
			return err
		}
	}
	return err
}

func (s *registrationService) sendConfirmation(ctx context.Context, event *domain.Event, userID string) {
	if s.emailService == nil || event == nil {
		return
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("[EMAIL] skip registration confirmation, lookup user %s: %v", userID, err)
		return
	}
	data := &domain.RegistrationConfirmedEmailData{
		Email:      user.Email,
		FullName:   user.FullName,
		EventTitle: event.Title,
		StartTime:  event.StartTime,
		Location:   event.Location,
	}
	if err := s.emailService.SendRegistrationConfirmed(ctx, data); err != nil {
		log.Printf("[EMAIL] registration confirmation to %s failed: %v", user.Email, err)
	}
}
