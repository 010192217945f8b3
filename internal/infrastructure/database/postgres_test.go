package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationSource_FindsEmbeddedMigrations(t *testing.T) {
	found, err := MigrationSource().FindMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, found)

	first := found[0]
	assert.Equal(t, "20250312000001_create_extraction_runs.sql", first.Id)
	require.NotEmpty(t, first.Up)
	assert.Contains(t, first.Up[0], "CREATE TABLE IF NOT EXISTS extraction_runs")
	require.NotEmpty(t, first.Down)
	assert.Contains(t, first.Down[0], "DROP TABLE")
}
