package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"testworth/domain/core"
	"testworth/internal/errors"
	"testworth/ports"
)

// CalculationRepositoryImpl implements LedgerPort for PostgreSQL
type CalculationRepositoryImpl struct {
	db *sqlx.DB
}

// NewCalculationRepository creates a new PostgreSQL calculation ledger
func NewCalculationRepository(db *sqlx.DB) ports.LedgerPort {
	return &CalculationRepositoryImpl{db: db}
}

// calculationRow mirrors the calculations table
type calculationRow struct {
	ID        uuid.UUID       `db:"id"`
	Kind      string          `db:"kind"`
	Inputs    json.RawMessage `db:"inputs"`
	Result    json.RawMessage `db:"result"`
	RuntimeMs int64           `db:"runtime_ms"`
	CreatedAt time.Time       `db:"created_at"`
}

// SaveCalculation inserts one finished calculation record
func (r *CalculationRepositoryImpl) SaveCalculation(ctx context.Context, rec *ports.CalculationRecord) error {
	id, err := uuid.Parse(rec.ID.String())
	if err != nil {
		return errors.Wrap(err, "invalid calculation id")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO calculations (id, kind, inputs, result, runtime_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, string(rec.Kind), rec.Inputs, rec.Result, rec.RuntimeMs, rec.CreatedAt.Time(),
	)
	if err != nil {
		return errors.Wrap(err, "failed to save calculation")
	}
	return nil
}

// ListCalculations returns the most recent calculation records
func (r *CalculationRepositoryImpl) ListCalculations(ctx context.Context, limit int) ([]ports.CalculationRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []calculationRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, kind, inputs, result, runtime_ms, created_at
		FROM calculations
		ORDER BY created_at DESC
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list calculations")
	}

	records := make([]ports.CalculationRecord, len(rows))
	for i, row := range rows {
		records[i] = ports.CalculationRecord{
			ID:        core.ID(row.ID.String()),
			Kind:      ports.CalculationKind(row.Kind),
			Inputs:    row.Inputs,
			Result:    row.Result,
			RuntimeMs: row.RuntimeMs,
			CreatedAt: core.Timestamp(row.CreatedAt),
		}
	}
	return records, nil
}
