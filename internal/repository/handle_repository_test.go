package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surfacelog/surface-log-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func handleRows(id, handle, key string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "handle", "handle_normalized", "platform", "created_at"}).
		AddRow(id, handle, key, nil, time.Now())
}

func TestFindByCanonicalKey(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewHandleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, handle, handle_normalized, platform, created_at FROM handles WHERE handle_normalized = $1 LIMIT 1")).
		WithArgs("fox").
		WillReturnRows(handleRows("h1", "Fox", "fox"))

	handle, err := repo.FindByCanonicalKey(context.Background(), "fox")
	require.NoError(t, err)
	assert.Equal(t, "h1", handle.ID)
	assert.Equal(t, "Fox", handle.Handle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByCanonicalKeyMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewHandleRepository(db)

	mock.ExpectQuery("SELECT id, handle, handle_normalized").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByCanonicalKey(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByKeyOrDisplay(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewHandleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, handle, handle_normalized, platform, created_at FROM handles WHERE handle_normalized = $1 OR handle = $2 LIMIT 1")).
		WithArgs("fox", "Fox").
		WillReturnRows(handleRows("h1", "Fox", "fox"))

	handle, err := repo.FindByKeyOrDisplay(context.Background(), "fox", "Fox")
	require.NoError(t, err)
	assert.Equal(t, "h1", handle.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateHandle(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewHandleRepository(db)

	mock.ExpectExec("INSERT INTO handles").WillReturnResult(sqlmock.NewResult(1, 1))

	handle := &models.Handle{Handle: "Fox", CanonicalKey: "fox"}
	err := repo.Create(context.Background(), handle)
	require.NoError(t, err)
	assert.NotEmpty(t, handle.ID, "id is assigned before insert")
	assert.False(t, handle.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateHandleUniqueViolationPassthrough(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewHandleRepository(db)

	mock.ExpectExec("INSERT INTO handles").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Handle{Handle: "Fox", CanonicalKey: "fox"})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "violation must survive unwrapped")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchHandles(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewHandleRepository(db)

	rows := handleRows("h1", "Fox", "fox").AddRow("h2", "Foxtrot", "foxtrot", nil, time.Now())
	mock.ExpectQuery("WHERE handle ILIKE \\$1 OR handle_normalized = \\$2").
		WithArgs("%fox%", "fox", 50).
		WillReturnRows(rows)

	handles, err := repo.Search(context.Background(), "fox", "fox", 0)
	require.NoError(t, err)
	assert.Len(t, handles, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(sql.ErrNoRows))
	assert.False(t, IsUniqueViolation(nil))
}
