package audits

import (
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"assetregister/internal/registry"
	"assetregister/pkg/metadata"
	"assetregister/pkg/models"
)

var ErrAuditNotFound = errors.New("audit run not found")

type PostgresAuditRepository struct {
	repository *registry.Repository
}

func NewRepository(r *registry.Repository) *PostgresAuditRepository {
	return &PostgresAuditRepository{repository: r}
}

type flatAuditRecord struct {
	ID               int        `db:"id"`
	Reference        string     `db:"reference"`
	LocationID       int        `db:"location_id"`
	DepartmentID     *int       `db:"department_id"`
	Status           string     `db:"status"`
	PlannedStartDate time.Time  `db:"planned_start_date"`
	PlannedEndDate   time.Time  `db:"planned_end_date"`
	CompletedAt      *time.Time `db:"completed_at"`
	TotalAssets      int        `db:"total_assets"`
	VerifiedAssets   int        `db:"verified_assets"`
	MissingAssets    int        `db:"missing_assets"`
	ExcessAssets     int        `db:"excess_assets"`
}

func (f *flatAuditRecord) toRun() *models.AuditRun {
	return &models.AuditRun{
		ID:               f.ID,
		Reference:        f.Reference,
		LocationID:       f.LocationID,
		DepartmentID:     f.DepartmentID,
		Status:           metadata.AuditState(f.Status),
		PlannedStartDate: f.PlannedStartDate,
		PlannedEndDate:   f.PlannedEndDate,
		CompletedAt:      f.CompletedAt,
		TotalAssets:      f.TotalAssets,
		VerifiedAssets:   f.VerifiedAssets,
		MissingAssets:    f.MissingAssets,
		ExcessAssets:     f.ExcessAssets,
	}
}

// InsertAuditRun stores the run and its scope snapshot in one transaction,
// so the expected-present set can never drift from the recorded total.
func (r *PostgresAuditRepository) InsertAuditRun(run *models.AuditRun, scopeAssetIDs []int) error {
	return registry.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		insert := tx.Insert("audit_runs").
			Rows(goqu.Record{
				"reference":          run.Reference,
				"location_id":        run.LocationID,
				"department_id":      run.DepartmentID,
				"status":             string(run.Status),
				"planned_start_date": run.PlannedStartDate,
				"planned_end_date":   run.PlannedEndDate,
				"total_assets":       run.TotalAssets,
			}).
			Returning("id")

		if _, err := insert.Executor().ScanVal(&run.ID); err != nil {
			return fmt.Errorf("failed to insert audit run: %w", err)
		}

		if len(scopeAssetIDs) == 0 {
			return nil
		}

		rows := make([]interface{}, 0, len(scopeAssetIDs))
		for _, assetID := range scopeAssetIDs {
			rows = append(rows, goqu.Record{
				"audit_id": run.ID,
				"asset_id": assetID,
			})
		}

		if _, err := tx.Insert("audit_scope_assets").Rows(rows...).Executor().Exec(); err != nil {
			return fmt.Errorf("failed to snapshot audit scope: %w", err)
		}

		return nil
	})
}

func auditSelect(from *goqu.SelectDataset) *goqu.SelectDataset {
	return from.Select(
		"id",
		"reference",
		"location_id",
		"department_id",
		"status",
		"planned_start_date",
		"planned_end_date",
		"completed_at",
		"total_assets",
		"verified_assets",
		"missing_assets",
		"excess_assets",
	)
}

func (r *PostgresAuditRepository) GetAuditRun(auditID int) (*models.AuditRun, error) {
	var flat flatAuditRecord
	found, err := auditSelect(r.repository.GoquDBWrapper.From("audit_runs")).
		Where(goqu.Ex{"id": auditID}).
		Executor().
		ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit %d: %w", auditID, err)
	}
	if !found {
		return nil, ErrAuditNotFound
	}

	return flat.toRun(), nil
}

func (r *PostgresAuditRepository) GetAuditRunForUpdate(tx *goqu.TxDatabase, auditID int) (*models.AuditRun, error) {
	var flat flatAuditRecord
	found, err := auditSelect(tx.From("audit_runs")).
		Where(goqu.Ex{"id": auditID}).
		ForUpdate(goqu.Wait).
		Executor().
		ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to lock audit %d: %w", auditID, err)
	}
	if !found {
		return nil, ErrAuditNotFound
	}

	return flat.toRun(), nil
}

func (r *PostgresAuditRepository) GetScopeAssetIDs(tx *goqu.TxDatabase, auditID int) ([]int, error) {
	var ids []int
	err := tx.From("audit_scope_assets").
		Select("asset_id").
		Where(goqu.Ex{"audit_id": auditID}).
		Executor().
		ScanVals(&ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit scope: %w", err)
	}
	return ids, nil
}

func (r *PostgresAuditRepository) GetVerifiedAssetIDs(tx *goqu.TxDatabase, auditID int) ([]int, error) {
	var ids []int
	err := tx.From("audit_verifications").
		Select("asset_id").
		Where(goqu.Ex{"audit_id": auditID}).
		Executor().
		ScanVals(&ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load verifications: %w", err)
	}
	return ids, nil
}

func (r *PostgresAuditRepository) GetExcessAssetIDs(tx *goqu.TxDatabase, auditID int) ([]int, error) {
	var ids []int
	err := tx.From("audit_discrepancies").
		Select("asset_id").
		Where(goqu.Ex{
			"audit_id": auditID,
			"kind":     string(metadata.DiscrepancyExcess),
		}).
		Executor().
		ScanVals(&ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load excess discrepancies: %w", err)
	}
	return ids, nil
}

func (r *PostgresAuditRepository) InsertVerification(tx *goqu.TxDatabase, auditID, assetID int) error {
	_, err := tx.Insert("audit_verifications").
		Rows(goqu.Record{
			"audit_id": auditID,
			"asset_id": assetID,
		}).
		OnConflict(goqu.DoNothing()).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to record verification: %w", err)
	}
	return nil
}

func (r *PostgresAuditRepository) InsertDiscrepancy(tx *goqu.TxDatabase, auditID, assetID int, kind metadata.DiscrepancyKind, note string) error {
	_, err := tx.Insert("audit_discrepancies").
		Rows(goqu.Record{
			"audit_id": auditID,
			"asset_id": assetID,
			"kind":     string(kind),
			"note":     note,
		}).
		OnConflict(goqu.DoNothing()).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to record discrepancy: %w", err)
	}
	return nil
}

func (r *PostgresAuditRepository) UpdateRun(tx *goqu.TxDatabase, run *models.AuditRun) error {
	_, err := tx.Update("audit_runs").
		Set(goqu.Record{
			"status":          string(run.Status),
			"completed_at":    run.CompletedAt,
			"verified_assets": run.VerifiedAssets,
			"missing_assets":  run.MissingAssets,
			"excess_assets":   run.ExcessAssets,
		}).
		Where(goqu.Ex{"id": run.ID}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to update audit run %d: %w", run.ID, err)
	}
	return nil
}

func (r *PostgresAuditRepository) GetDiscrepancies(auditID int) (*[]models.Discrepancy, error) {
	var discrepancies = []models.Discrepancy{}
	err := r.repository.GoquDBWrapper.
		From("audit_discrepancies").
		Select("id", "audit_id", "asset_id", "kind", "note", "created_at").
		Where(goqu.Ex{"audit_id": auditID}).
		Order(goqu.I("created_at").Asc()).
		Executor().
		ScanStructs(&discrepancies)
	if err != nil {
		return nil, fmt.Errorf("failed to list discrepancies: %w", err)
	}

	return &discrepancies, nil
}
