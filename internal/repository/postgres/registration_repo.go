package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventhub/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (event_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := q(ctx, r.DB).QueryRowContext(ctx, query,
		reg.EventID, reg.UserID, string(reg.Status), reg.CreatedAt, reg.UpdatedAt,
	).Scan(&reg.ID)
	if err != nil {
		// The partial unique index on active registrations backstops the
		// service-level check.
		if isUniqueViolation(err) {
			return domain.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *registrationRepository) GetActiveByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM registrations
		WHERE event_id = $1 AND user_id = $2 AND status = 'CONFIRMED'
	`
	reg := &domain.Registration{}
	var status string
	err := q(ctx, r.DB).QueryRowContext(ctx, query, eventID, userID).
		Scan(&reg.ID, &reg.EventID, &reg.UserID, &status, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	reg.Status = domain.RegistrationStatus(status)
	return reg, nil
}

func (r *registrationRepository) Cancel(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE registrations
		SET status = 'CANCELLED', updated_at = $2
		WHERE id = $1 AND status = 'CONFIRMED'
	`
	result, err := q(ctx, r.DB).ExecContext(ctx, query, id, at)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) ListParticipantsByEventID(ctx context.Context, eventID string, p domain.PaginationParams) ([]*domain.Participant, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM registrations
		WHERE event_id = $1 AND status = 'CONFIRMED'
	`
	if err := q(ctx, r.DB).QueryRowContext(ctx, countQuery, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT u.id, u.full_name, u.email, r.created_at
		FROM registrations r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1 AND r.status = 'CONFIRMED'
		ORDER BY r.created_at
		LIMIT $2 OFFSET $3
	`
	rows, err := q(ctx, r.DB).QueryContext(ctx, query, eventID, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	participants := make([]*domain.Participant, 0)
	for rows.Next() {
		pt := &domain.Participant{}
		if err := rows.Scan(&pt.UserID, &pt.FullName, &pt.Email, &pt.RegisteredAt); err != nil {
			return nil, 0, err
		}
		participants = append(participants, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return participants, total, nil
}

func (r *registrationRepository) ListActiveByUserID(ctx context.Context, userID string) ([]*domain.Registration, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM registrations
		WHERE user_id = $1 AND status = 'CONFIRMED'
		ORDER BY created_at DESC
	`
	rows, err := q(ctx, r.DB).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		var status string
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &status, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
			return nil, err
		}
		reg.Status = domain.RegistrationStatus(status)
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}
