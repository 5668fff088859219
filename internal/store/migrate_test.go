package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
)

const testMigrationsDir = "../../migrations"

func TestMigrateUp(t *testing.T) {
	s := openTestStore(t)

	version, dirty, err := s.MigrateVersion(testMigrationsDir)
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, dirty)

	require.NoError(t, s.MigrateUp(testMigrationsDir))

	version, dirty, err = s.MigrateVersion(testMigrationsDir)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// The notes column added by the migration is writable.
	id, err := s.RecordOptimization(geo.LatLon{Lat: 44, Lon: -121}, testResult(6, 12))
	require.NoError(t, err)
	_, err = s.Exec("UPDATE missions SET notes = ? WHERE mission_id = ?", "survey pass", id)
	require.NoError(t, err)
}

func TestMigrateUpIdempotent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.MigrateUp(testMigrationsDir))
	require.NoError(t, s.MigrateUp(testMigrationsDir))
}
