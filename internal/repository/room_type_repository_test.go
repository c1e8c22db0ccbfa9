package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestAvailability_DerivesAvailableRooms(t *testing.T) {
	db, mock := setupMockDB(t)
	start, end := date(2025, 3, 1), date(2025, 3, 4)

	rows := sqlmock.NewRows([]string{"name", "total_rooms", "booked_rooms"}).
		AddRow("DELUXE", 0, 0).
		AddRow("STANDARD_DOUBLE_ROOM", 3, 1)
	mock.ExpectQuery(regexp.QuoteMeta("AS booked_rooms")).
		WithArgs(end, start).
		WillReturnRows(rows)

	got, err := NewRoomTypeRepo(db).Availability(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, model.Availability{TotalRooms: 0, BookedRooms: 0, AvailableRooms: 0}, got["DELUXE"])
	assert.Equal(t, model.Availability{TotalRooms: 3, BookedRooms: 1, AvailableRooms: 2}, got["STANDARD_DOUBLE_ROOM"])
	assert.Len(t, got, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityQuery_ExcludesInactiveReservations(t *testing.T) {
	assert.Contains(t, availabilityQuery, "COUNT(DISTINCT res.id)")
	assert.Contains(t, availabilityQuery, "res.is_deleted = FALSE")
	assert.Contains(t, availabilityQuery, "NOT IN ('CANCELED', 'REJECTED')")
	assert.Contains(t, availabilityQuery, "room_status <> 'UNDER_CONSTRUCTION'")
	assert.Contains(t, availabilityQuery, "res.start_date < ?")
	assert.Contains(t, availabilityQuery, "res.end_date > ?")
}

func TestLockByNamesTx_LocksInNameOrder(t *testing.T) {
	db, mock := setupMockDB(t)
	id := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "name", "base_price_per_night", "capacity", "description", "created_at", "created_by", "updated_at", "updated_by"}).
		AddRow(id.String(), "STANDARD_DOUBLE_ROOM", "100.00", 2, nil, now, nil, now, nil)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE name IN (?,?) ORDER BY name FOR UPDATE")).
		WithArgs("STANDARD_DOUBLE_ROOM", "SUITE").
		WillReturnRows(rows)

	got, err := NewRoomTypeRepo(db).LockByNamesTx(context.Background(), db, []string{"STANDARD_DOUBLE_ROOM", "SUITE"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "100", got[0].BasePricePerNight.String())
	assert.Nil(t, got[0].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomTypeGetByName_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM room_types WHERE name = ?")).
		WithArgs("MISSING").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewRoomTypeRepo(db).GetByName(context.Background(), "MISSING")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
