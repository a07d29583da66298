package telemetry_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/simtempd/internal/errors"
	"codeberg.org/mutker/simtempd/internal/simtemp"
	"codeberg.org/mutker/simtempd/internal/telemetry"
)

func TestRepositoryStoreAndPersist(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")

	repo, err := telemetry.NewRepository(telemetry.Config{DBPath: dbPath, Enabled: true})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, repo.Store(ctx, simtemp.Sample{
		Timestamp:  1_000_000,
		TempMilliC: 45250,
		Flags:      simtemp.FlagNewSample,
	}))
	require.NoError(t, repo.Store(ctx, simtemp.Sample{
		Timestamp:  2_000_000,
		TempMilliC: 50500,
		Flags:      simtemp.FlagNewSample | simtemp.FlagThresholdCrossed,
	}))
	require.NoError(t, repo.Close())

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM samples").Scan(&count))
	assert.Equal(t, 2, count)

	var tempMC, alert int64
	require.NoError(t, db.QueryRow(
		"SELECT temp_mc, alert FROM samples WHERE timestamp_ns = ?", int64(2_000_000),
	).Scan(&tempMC, &alert))
	assert.Equal(t, int64(50500), tempMC)
	assert.Equal(t, int64(1), alert)
}

func TestRepositoryUpsertsOnTimestampConflict(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")

	repo, err := telemetry.NewRepository(telemetry.Config{DBPath: dbPath, Enabled: true})
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	sample := simtemp.Sample{Timestamp: 42, TempMilliC: 45000, Flags: simtemp.FlagNewSample}
	require.NoError(t, repo.Store(ctx, sample))

	sample.TempMilliC = 46000
	require.NoError(t, repo.Store(ctx, sample))

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM samples").Scan(&count))
	assert.Equal(t, 1, count)

	var tempMC int64
	require.NoError(t, db.QueryRow("SELECT temp_mc FROM samples WHERE timestamp_ns = 42").Scan(&tempMC))
	assert.Equal(t, int64(46000), tempMC)
}

func TestRepositoryRejectsEmptyPath(t *testing.T) {
	_, err := telemetry.NewRepository(telemetry.Config{Enabled: true})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, telemetry.ErrInvalidDBPath))
}

func TestServiceDisabledIsNoop(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")

	collector, err := telemetry.NewService(telemetry.Config{DBPath: dbPath, Enabled: false})
	require.NoError(t, err)

	require.NoError(t, collector.Record(context.Background(), simtemp.Sample{Timestamp: 1}))
	require.NoError(t, collector.Close())

	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err), "disabled telemetry must not touch the filesystem")
}
