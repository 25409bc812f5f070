package migrations_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/boddenberg/spendwise-api/migrations"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, name := range files {
		body, err := fs.ReadFile(migrations.FS, name)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", name)
		assert.Contains(t, string(body), "-- +goose Down", name)
	}
}

func TestProceduresPresent(t *testing.T) {
	body, err := fs.ReadFile(migrations.FS, "00002_procedures.sql")
	require.NoError(t, err)
	for _, fn := range []string{"increment_balance", "budget_add_spent", "update_user_stats", "revert_user_stats", "create_default_categories"} {
		assert.True(t, strings.Contains(string(body), "FUNCTION "+fn+"("), fn)
	}
}
