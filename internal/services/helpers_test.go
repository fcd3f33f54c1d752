package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tiadocs/tia/internal/logging"
	"github.com/tiadocs/tia/internal/models"
	"github.com/tiadocs/tia/internal/store"

	_ "modernc.org/sqlite"
)

func testLogger(t *testing.T) logging.Logger {
	t.Helper()
	return logging.NewZapLogger(zaptest.NewLogger(t))
}

// setupDB opens an in-memory database with the local schema.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
CREATE TABLE saved_sessions (
  id         TEXT PRIMARY KEY,
  name       TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL,
  messages   BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

// setupStore returns a store holding one collection and its id.
func setupStore(t *testing.T, docs ...models.Document) (*store.Store, string) {
	t.Helper()
	st := store.New()
	c, err := st.CreateCollection("Policies")
	require.NoError(t, err)
	for _, d := range docs {
		require.NoError(t, st.UpsertDocument(c.ID, d))
	}
	return st, c.ID
}

func doc(name string) models.Document {
	return models.Document{
		ID:     name,
		Name:   name,
		Status: models.StatusCompleted,
	}
}
