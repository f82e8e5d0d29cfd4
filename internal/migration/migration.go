package migration

import (
	"github.com/jmoiron/sqlx"

	"testworth/internal/errors"
)

// schema creates the calculation ledger table. Inputs and results are
// stored as JSONB snapshots; the engine never reads them back for
// computation, only for audit and listing.
const schema = `
CREATE TABLE IF NOT EXISTS calculations (
	id UUID PRIMARY KEY,
	kind TEXT NOT NULL,
	inputs JSONB NOT NULL,
	result JSONB NOT NULL,
	runtime_ms BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_calculations_kind ON calculations (kind);
CREATE INDEX IF NOT EXISTS idx_calculations_created_at ON calculations (created_at DESC);
`

// EnsureSchema creates the ledger tables if they do not exist
func EnsureSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "failed to ensure ledger schema")
	}
	return nil
}
