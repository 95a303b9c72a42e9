package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcpatrol/patrol/internal/domain/ports"
)

func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	return sqlxDB, mock
}

func TestNewStore(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()

	store := NewStore(db)
	assert.NotNil(t, store)
}

func TestEnsureSchema(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS documents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewStore(db)
	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"doc"}).AddRow([]byte(`{"a":1}`))
	mock.ExpectQuery("SELECT doc FROM documents WHERE key = (.+)").
		WithArgs("rooms").
		WillReturnRows(rows)

	store := NewStore(db)
	doc, err := store.Load(context.Background(), "rooms")

	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), doc)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT doc FROM documents WHERE key = (.+)").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	store := NewStore(db)
	_, err := store.Load(context.Background(), "nope")

	assert.ErrorIs(t, err, ports.ErrKeyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_Upsert(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("rooms", []byte(`{"a":1}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewStore(db)
	err := store.Save(context.Background(), "rooms", []byte(`{"a":1}`))

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_Error(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO documents").
		WithArgs("rooms", []byte(`{}`)).
		WillReturnError(errors.New("connection reset"))

	store := NewStore(db)
	err := store.Save(context.Background(), "rooms", []byte(`{}`))

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
