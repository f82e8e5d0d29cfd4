package ports

import (
	"context"
	"encoding/json"

	"testworth/domain/core"
)

// CalculationKind tags ledger records by operation
type CalculationKind string

const (
	KindEVPI     CalculationKind = "evpi"
	KindEVSI     CalculationKind = "evsi"
	KindNetValue CalculationKind = "net_value"
)

// CalculationRecord is one finished calculation with its input snapshot.
// The engine itself holds no state; the ledger is an outer audit trail.
type CalculationRecord struct {
	ID        core.ID         `db:"id" json:"id"`
	Kind      CalculationKind `db:"kind" json:"kind"`
	Inputs    json.RawMessage `db:"inputs" json:"inputs"`
	Result    json.RawMessage `db:"result" json:"result"`
	RuntimeMs int64           `db:"runtime_ms" json:"runtime_ms"`
	CreatedAt core.Timestamp  `db:"created_at" json:"created_at"`
}

// LedgerPort persists and lists calculation records
type LedgerPort interface {
	SaveCalculation(ctx context.Context, rec *CalculationRecord) error
	ListCalculations(ctx context.Context, limit int) ([]CalculationRecord, error)
}
