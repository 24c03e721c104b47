package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventhub/internal/domain"
)

const eventColumns = `id, title, description, location, start_time, end_time, category_id, organizer_id, capacity_mode, max_capacity, available_spots, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, location, start_time, end_time, category_id, organizer_id, capacity_mode, max_capacity, available_spots, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	return q(ctx, r.DB).QueryRowContext(ctx, query,
		e.Title, e.Description, e.Location, e.StartTime, e.EndTime,
		e.CategoryID, e.OrganizerID, string(e.CapacityMode), e.MaxCapacity, e.AvailableSpots,
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	return r.scanEvent(q(ctx, r.DB).QueryRowContext(ctx, query, id))
}

func (r *eventRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	// FOR UPDATE takes a row-level exclusive lock held until the surrounding
	// transaction ends, serializing concurrent register/cancel calls for the
	// same event while leaving other events untouched.
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
		FOR UPDATE
	`
	return r.scanEvent(q(ctx, r.DB).QueryRowContext(ctx, query, id))
}

func (r *eventRepository) DecrementAvailableSpots(ctx context.Context, id string) (int, error) {
	query := `
		UPDATE events
		SET available_spots = available_spots - 1, updated_at = NOW()
		WHERE id = $1 AND available_spots > 0
		RETURNING available_spots
	`
	var spots int
	err := q(ctx, r.DB).QueryRowContext(ctx, query, id).Scan(&spots)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Row missing or counter already at zero. The service checks the
			// policy under the lock first, so this only fires on a stale call.
			return 0, domain.ErrCapacityExceeded
		}
		return 0, err
	}
	return spots, nil
}

func (r *eventRepository) IncrementAvailableSpots(ctx context.Context, id string) (int, error) {
	// LEAST clamps the counter so it can never exceed max_capacity even if
	// operator edits skewed it.
	query := `
		UPDATE events
		SET available_spots = LEAST(available_spots + 1, max_capacity), updated_at = NOW()
		WHERE id = $1
		RETURNING available_spots
	`
	var spots int
	err := q(ctx, r.DB).QueryRowContext(ctx, query, id).Scan(&spots)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return spots, nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context, from time.Time) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE start_time >= $1
		ORDER BY start_time
	`
	rows, err := q(ctx, r.DB).QueryContext(ctx, query, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		var mode string
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.Location, &e.StartTime, &e.EndTime,
			&e.CategoryID, &e.OrganizerID, &mode, &e.MaxCapacity, &e.AvailableSpots,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		e.CapacityMode = domain.CapacityMode(mode)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) scanEvent(row *sql.Row) (*domain.Event, error) {
	e := &domain.Event{}
	var mode string
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Location, &e.StartTime, &e.EndTime,
		&e.CategoryID, &e.OrganizerID, &mode, &e.MaxCapacity, &e.AvailableSpots,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	e.CapacityMode = domain.CapacityMode(mode)
	return e, nil
}
