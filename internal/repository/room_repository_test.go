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

var roomCols = []string{"id", "room_number", "room_type_id", "name", "room_status", "created_at", "created_by", "updated_at"}

func TestRoomCreateTx_InsertsBedsInOrder(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now().UTC()
	room := &model.Room{
		Entity:     model.NewEntity(),
		RoomNumber: "101",
		RoomTypeID: uuid.New(),
		BedTypes:   []model.BedType{model.BedDouble, model.BedSofaBed},
		Status:     model.RoomAvailable,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rooms")).
		WithArgs(room.ID, "101", room.RoomTypeID, "AVAILABLE", now, nil, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO room_beds (room_id, position, bed_type) VALUES (?, ?, ?),(?, ?, ?)")).
		WithArgs(room.ID, 0, "DOUBLE", room.ID, 1, "SOFA_BED").
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, NewRoomRepo(db).CreateTx(context.Background(), db, room))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomList_FilterAndBeds(t *testing.T) {
	db, mock := setupMockDB(t)
	typeID, roomID := uuid.New(), uuid.New()
	status := model.RoomAvailable
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM rooms r WHERE r.room_type_id = ? AND r.room_status = ?")).
		WithArgs(typeID, "AVAILABLE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY r.room_number LIMIT ? OFFSET ?")).
		WithArgs(typeID, "AVAILABLE", 10, 0).
		WillReturnRows(sqlmock.NewRows(roomCols).AddRow(roomID.String(), "101", typeID.String(), "STANDARD", "AVAILABLE", now, nil, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM room_beds WHERE room_id IN (?)")).
		WithArgs(roomID).
		WillReturnRows(sqlmock.NewRows([]string{"room_id", "bed_type"}).AddRow(roomID.String(), "KING"))

	got, total, err := NewRoomRepo(db).List(context.Background(), RoomFilter{RoomTypeID: &typeID, Status: &status, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "STANDARD", got[0].RoomTypeName)
	assert.Equal(t, []model.BedType{model.BedKing}, got[0].BedTypes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomDelete_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM rooms WHERE id = ?")).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, NewRoomRepo(db).Delete(context.Background(), uuid.New()), ErrNotFound)
}
