package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestTranslate(t *testing.T) {
	assert.Nil(t, translate(nil))
	assert.ErrorIs(t, translate(sql.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("wrapped: %w", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})), ErrDuplicate)
	assert.ErrorIs(t, translate(&mysql.MySQLError{Number: 1451}), ErrConflict)

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
}

func TestCountExisting_EmptyInputSkipsQuery(t *testing.T) {
	db, mock := setupMockDB(t)
	n, err := NewRoomRepo(db).CountExisting(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPageOffset(t *testing.T) {
	cases := []struct {
		page, size, total int
		offset            int
		ok                bool
	}{
		{0, 10, 25, 0, true},
		{2, 10, 25, 20, true},
		{3, 10, 25, 0, false},
		{0, 10, 0, 0, false},
		{-1, 10, 25, 0, false},
		{1 << 60, 100, 25, 0, false},
	}
	for _, c := range cases {
		off, ok := pageOffset(c.page, c.size, c.total)
		assert.Equal(t, c.ok, ok, "page %d", c.page)
		assert.Equal(t, c.offset, off, "page %d", c.page)
	}
}
