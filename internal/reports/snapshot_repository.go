package reports

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"

	"assetregister/internal/registry"
)

// ValuationSnapshot is one asset's stored month-end book value.
type ValuationSnapshot struct {
	ID                      int             `json:"id" db:"id"`
	SnapshotDate            time.Time       `json:"snapshot_date" db:"snapshot_date"`
	AssetID                 int             `json:"asset_id" db:"asset_id"`
	CurrentValue            decimal.Decimal `json:"current_value" db:"current_value"`
	AccumulatedDepreciation decimal.Decimal `json:"accumulated_depreciation" db:"accumulated_depreciation"`
}

type SnapshotRepository struct {
	repository *registry.Repository
}

func NewSnapshotRepository(r *registry.Repository) *SnapshotRepository {
	return &SnapshotRepository{repository: r}
}

// PersistReport stores one snapshot row per report line in a single
// transaction. Re-running for the same date replaces the previous run.
func (r *SnapshotRepository) PersistReport(report *ValuationReport) error {
	return registry.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		if _, err := tx.Delete("valuation_snapshots").
			Where(goqu.Ex{"snapshot_date": report.AsOf}).
			Executor().
			Exec(); err != nil {
			return fmt.Errorf("failed to clear previous snapshot: %w", err)
		}

		if len(report.Lines) == 0 {
			return nil
		}

		rows := make([]interface{}, 0, len(report.Lines))
		for _, line := range report.Lines {
			rows = append(rows, goqu.Record{
				"snapshot_date":            report.AsOf,
				"asset_id":                 line.AssetID,
				"current_value":            line.CurrentValue,
				"accumulated_depreciation": line.AccumulatedDepreciation,
			})
		}

		if _, err := tx.Insert("valuation_snapshots").Rows(rows...).Executor().Exec(); err != nil {
			return fmt.Errorf("failed to insert valuation snapshots: %w", err)
		}

		return nil
	})
}

func (r *SnapshotRepository) GetSnapshots(assetID int) ([]ValuationSnapshot, error) {
	var snapshots []ValuationSnapshot
	err := r.repository.GoquDBWrapper.
		From("valuation_snapshots").
		Select("id", "snapshot_date", "asset_id", "current_value", "accumulated_depreciation").
		Where(goqu.Ex{"asset_id": assetID}).
		Order(goqu.I("snapshot_date").Asc()).
		Executor().
		ScanStructs(&snapshots)
	if err != nil {
		return nil, fmt.Errorf("failed to list valuation snapshots: %w", err)
	}

	return snapshots, nil
}
