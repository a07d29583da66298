package telemetry

import (
	"database/sql"

	"codeberg.org/mutker/simtempd/internal/errors"
)

// initSchema initializes the database schema for sample storage
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS samples (
            timestamp_ns INTEGER PRIMARY KEY,
            temp_mc      INTEGER NOT NULL CHECK (typeof(temp_mc) = 'integer'),
            flags        INTEGER NOT NULL,
            alert        INTEGER NOT NULL CHECK (alert IN (0, 1))
        )
    `)
	if err != nil {
		return errors.New().Wrap(ErrSchemaInitFailed, err)
	}

	return nil
}
