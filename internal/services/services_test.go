package services

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmordi/habari-blog-be/internal/database"
)

// newTestDB opens a fresh in-memory database, migrated and scoped to the
// test name so parallel tests do not share state.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}
