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
)

func fixedTokenRepo(t *testing.T) (*TokenRepo, sqlmock.Sqlmock, time.Time) {
	db, mock := setupMockDB(t)
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	repo := NewTokenRepo(db)
	repo.now = func() time.Time { return now }
	return repo, mock, now
}

func TestTokenValidateRefresh(t *testing.T) {
	repo, mock, now := fixedTokenRepo(t)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM refresh_tokens")).
		WithArgs("live", now).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(userID.String()))
	got, err := repo.ValidateRefresh(context.Background(), "live")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id FROM refresh_tokens")).
		WithArgs("gone", now).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	_, err = repo.ValidateRefresh(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRevokeIsSingleUse(t *testing.T) {
	repo, mock, now := fixedTokenRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at=?")).
		WithArgs(now, "h", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at=?")).
		WithArgs(now, "h", now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.RevokeByHash(context.Background(), "h"))
	assert.ErrorIs(t, repo.RevokeByHash(context.Background(), "h"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenStoreAndRevokeAll(t *testing.T) {
	repo, mock, now := fixedTokenRepo(t)
	userID := uuid.New()
	exp := now.Add(7 * 24 * time.Hour)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_tokens")).
		WithArgs(userID, "h", exp, now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE refresh_tokens SET revoked_at=? WHERE user_id=?")).
		WithArgs(now, userID).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.StoreRefresh(context.Background(), userID, "h", exp))
	require.NoError(t, repo.RevokeAllForUser(context.Background(), userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
