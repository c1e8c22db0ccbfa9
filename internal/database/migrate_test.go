package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements_SkipsCommentsAndBlanks(t *testing.T) {
	src := `-- header
CREATE TABLE a (id INT);

-- second
CREATE TABLE b (id INT);
`
	stmts := splitStatements(src)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (id INT)", stmts[0])
	assert.Equal(t, "CREATE TABLE b (id INT)", stmts[1])
}

func TestSchema_CoversReservationTables(t *testing.T) {
	stmts := splitStatements(schema)
	joined := ""
	for _, s := range stmts {
		joined += s + "\n"
	}
	for _, table := range []string{"reservations", "reservations_room_types", "reservations_rooms", "payments", "room_types", "rooms", "users", "roles", "refresh_tokens"} {
		assert.Contains(t, joined, "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}

func TestMigrate_ExecutesEveryStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range splitStatements(schema) {
		mock.ExpectExec(".+").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := assert.AnError
	err = NewTxRunner(db).InTx(context.Background(), nil, func(_ *sql.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_Commits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	err = NewTxRunner(db).InTx(context.Background(), nil, func(_ *sql.Tx) error { return nil })
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOptionsDSN(t *testing.T) {
	dsn := Options{User: "hotel", Pass: "p@ss", Host: "db", Port: "3306", Name: "backoffice"}.DSN()
	assert.Contains(t, dsn, "hotel:p@ss@tcp(db:3306)/backoffice")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}
