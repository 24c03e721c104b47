package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"eventhub/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var eventCols = []string{"id", "title", "description", "location", "start_time", "end_time", "category_id", "organizer_id", "capacity_mode", "max_capacity", "available_spots", "created_at", "updated_at"}

func eventRow(id string, mode domain.CapacityMode, maxCap, spots int) *sqlmock.Rows {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(eventCols).
		AddRow(id, "Career Fair", "Annual fair", "Main Hall", ts, ts.Add(2*time.Hour), "cat-1", "user-1", string(mode), maxCap, spots, ts, ts)
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				Title:          "Career Fair",
				Location:       "Main Hall",
				CategoryID:     "cat-1",
				OrganizerID:    "user-1",
				CapacityMode:   domain.CapacityLimited,
				MaxCapacity:    50,
				AvailableSpots: 50,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
			},
			wantID:  "ev-uuid-1",
			wantErr: false,
		},
		{
			name:  "db error",
			event: &domain.Event{Title: "Conf", CapacityMode: domain.CapacityUnlimited},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantID:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByIDForUpdate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		mock       func(mock sqlmock.Sqlmock)
		wantSpots  int
		wantErr    error
	}{
		{
			name: "locks the event row",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM events\s+WHERE id = \$1\s+FOR UPDATE`).
					WithArgs("ev-1").
					WillReturnRows(eventRow("ev-1", domain.CapacityLimited, 2, 1))
			},
			wantSpots: 1,
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM events\s+WHERE id = \$1\s+FOR UPDATE`).
					WithArgs("ev-missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.GetByIDForUpdate(ctx, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantSpots, got.AvailableSpots)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_DecrementAvailableSpots(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements guarded by available_spots > 0", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events\s+SET available_spots = available_spots - 1, updated_at = NOW\(\)\s+WHERE id = \$1 AND available_spots > 0`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"available_spots"}).AddRow(0))

		repo := NewEventRepository(db)
		spots, err := repo.DecrementAvailableSpots(ctx, "ev-1")
		require.NoError(t, err)
		require.Equal(t, 0, spots)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row updated means no spots left", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events`).
			WithArgs("ev-1").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.DecrementAvailableSpots(ctx, "ev-1")
		require.ErrorIs(t, err, domain.ErrCapacityExceeded)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_IncrementAvailableSpots(t *testing.T) {
	ctx := context.Background()

	t.Run("increments clamped at max_capacity", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events\s+SET available_spots = LEAST\(available_spots \+ 1, max_capacity\), updated_at = NOW\(\)\s+WHERE id = \$1`).
			WithArgs("ev-1").
			WillReturnRows(sqlmock.NewRows([]string{"available_spots"}).AddRow(2))

		repo := NewEventRepository(db)
		spots, err := repo.IncrementAvailableSpots(ctx, "ev-1")
		require.NoError(t, err)
		require.Equal(t, 2, spots)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE events`).
			WithArgs("ev-missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.IncrementAvailableSpots(ctx, "ev-missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_ListUpcoming(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantLen int
		wantErr bool
	}{
		{
			name: "success multiple",
			mock: func(mock sqlmock.Sqlmock) {
				ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
				rows := sqlmock.NewRows(eventCols).
					AddRow("ev-1", "Conf A", "", "Hall A", ts, ts.Add(time.Hour), "cat-1", "user-1", "LIMITED", 10, 4, ts, ts).
					AddRow("ev-2", "Conf B", "", "Hall B", ts, ts.Add(time.Hour), "cat-1", "user-1", "UNLIMITED", 0, 0, ts, ts)
				mock.ExpectQuery(`SELECT (.+) FROM events\s+WHERE start_time >= \$1\s+ORDER BY start_time`).
					WithArgs(from).
					WillReturnRows(rows)
			},
			wantLen: 2,
		},
		{
			name: "success empty",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM events`).
					WithArgs(from).
					WillReturnRows(sqlmock.NewRows(eventCols))
			},
			wantLen: 0,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM events`).
					WithArgs(from).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.ListUpcoming(ctx, from)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, tt.wantLen)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTransactor_WithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM events\s+WHERE id = \$1\s+FOR UPDATE`).
			WithArgs("ev-1").
			WillReturnRows(eventRow("ev-1", domain.CapacityLimited, 2, 2))
		mock.ExpectCommit()

		tx := NewTransactor(db)
		repo := NewEventRepository(db)
		err = tx.WithTx(ctx, func(ctx context.Context) error {
			_, err := repo.GetByIDForUpdate(ctx, "ev-1")
			return err
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		tx := NewTransactor(db)
		wantErr := errors.New("boom")
		err = tx.WithTx(ctx, func(ctx context.Context) error {
			return wantErr
		})
		require.ErrorIs(t, err, wantErr)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
