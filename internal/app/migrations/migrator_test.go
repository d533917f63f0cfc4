package migrations_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/migrations"
	"github.com/yigit/alumnihub/internal/db"
)

func TestMigratorUpIsIdempotent(t *testing.T) {
	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer database.Close()

	m := migrations.NewMigrator(database)
	ctx := context.Background()

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"001"}, applied)

	applied, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	for _, table := range []string{"users", "refresh_tokens", "donations", "jobs", "job_applications", "events", "event_registrations", "stories"} {
		var name string
		err := database.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		assert.NoError(t, err, table)
	}
}
