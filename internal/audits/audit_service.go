package audits

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"assetregister/pkg/activity"
	"assetregister/pkg/apperrors"
	"assetregister/pkg/metadata"
	"assetregister/pkg/models"
)

type AuditRepository interface {
	InsertAuditRun(run *models.AuditRun, scopeAssetIDs []int) error
	GetAuditRun(auditID int) (*models.AuditRun, error)
	GetAuditRunForUpdate(tx *goqu.TxDatabase, auditID int) (*models.AuditRun, error)
	GetScopeAssetIDs(tx *goqu.TxDatabase, auditID int) ([]int, error)
	GetVerifiedAssetIDs(tx *goqu.TxDatabase, auditID int) ([]int, error)
	GetExcessAssetIDs(tx *goqu.TxDatabase, auditID int) ([]int, error)
	InsertVerification(tx *goqu.TxDatabase, auditID, assetID int) error
	InsertDiscrepancy(tx *goqu.TxDatabase, auditID, assetID int, kind metadata.DiscrepancyKind, note string) error
	UpdateRun(tx *goqu.TxDatabase, run *models.AuditRun) error
	GetDiscrepancies(auditID int) (*[]models.Discrepancy, error)
}

type ScopeStore interface {
	GetScopeAssetIDs(locationID int, departmentID *int) ([]int, error)
}

type TxRunner interface {
	WithTx(fn func(tx *goqu.TxDatabase) error) error
}

type AuditService struct {
	db       TxRunner
	ar       AuditRepository
	registry ScopeStore
	recorder *activity.Recorder
}

func NewAuditService(db TxRunner, ar AuditRepository, registry ScopeStore, recorder *activity.Recorder) *AuditService {
	return &AuditService{
		db:       db,
		ar:       ar,
		registry: registry,
		recorder: recorder,
	}
}

type CreateAuditRequest struct {
	LocationID       int    `json:"location_id" binding:"required"`
	DepartmentID     *int   `json:"department_id"`
	PlannedStartDate string `json:"planned_start_date" binding:"required"`
	PlannedEndDate   string `json:"planned_end_date" binding:"required"`
}

// CreateAudit snapshots the expected-present set for the scope. Assets
// moved in or out of the location later do not change the run's totals.
func (s *AuditService) CreateAudit(req CreateAuditRequest) (*models.AuditRun, error) {
	plannedStart, err := time.Parse("2006-01-02", req.PlannedStartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid planned start date %q: %w", req.PlannedStartDate, err)
	}
	plannedEnd, err := time.Parse("2006-01-02", req.PlannedEndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid planned end date %q: %w", req.PlannedEndDate, err)
	}
	if plannedEnd.Before(plannedStart) {
		return nil, fmt.Errorf("planned end date precedes start date")
	}

	scopeAssetIDs, err := s.registry.GetScopeAssetIDs(req.LocationID, req.DepartmentID)
	if err != nil {
		return nil, err
	}

	run := &models.AuditRun{
		Reference:        uuid.NewString(),
		LocationID:       req.LocationID,
		DepartmentID:     req.DepartmentID,
		Status:           metadata.AuditPlanned,
		PlannedStartDate: plannedStart,
		PlannedEndDate:   plannedEnd,
		TotalAssets:      len(scopeAssetIDs),
	}

	if err := s.ar.InsertAuditRun(run, scopeAssetIDs); err != nil {
		return nil, err
	}

	go s.recorder.Log(
		"audit_created",
		map[string]interface{}{
			"reference":    run.Reference,
			"location_id":  run.LocationID,
			"total_assets": run.TotalAssets,
		},
		run,
	)

	return run, nil
}

func (s *AuditService) GetAudit(auditID int) (*models.AuditRun, error) {
	return s.ar.GetAuditRun(auditID)
}

func (s *AuditService) GetDiscrepancies(auditID int) (*[]models.Discrepancy, error) {
	return s.ar.GetDiscrepancies(auditID)
}

// VerifyAsset records one scan event. Repeated scans of the same asset are
// idempotent; scans of assets the register places elsewhere are recorded
// as excess discrepancies without touching the verified tally.
func (s *AuditService) VerifyAsset(auditID, assetID int) (*models.AuditRun, error) {
	var updated *models.AuditRun

	err := s.db.WithTx(func(tx *goqu.TxDatabase) error {
		run, err := s.ar.GetAuditRunForUpdate(tx, auditID)
		if err != nil {
			return err
		}
		if run.Closed() {
			return &apperrors.AuditAlreadyClosedError{AuditID: run.ID}
		}

		reconciliation, err := s.loadReconciliation(tx, run.ID)
		if err != nil {
			return err
		}

		switch reconciliation.Verify(assetID) {
		case OutcomeVerified:
			if err := s.ar.InsertVerification(tx, run.ID, assetID); err != nil {
				return err
			}
		case OutcomeExcess:
			if err := s.ar.InsertDiscrepancy(tx, run.ID, assetID, metadata.DiscrepancyExcess, "found outside expected scope"); err != nil {
				return err
			}
		case OutcomeDuplicate:
			// No state change.
		}

		if run.Status == metadata.AuditPlanned {
			run.Status = metadata.AuditInProgress
		}
		run.VerifiedAssets = reconciliation.VerifiedAssets()
		run.ExcessAssets = reconciliation.ExcessAssets()

		if err := s.ar.UpdateRun(tx, run); err != nil {
			return err
		}

		updated = run
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// CompleteAudit reconciles the run: every expected asset never verified
// becomes a missing discrepancy. Completing an already-completed run
// returns the stored tallies unchanged.
func (s *AuditService) CompleteAudit(auditID int) (*models.AuditRun, error) {
	var completed *models.AuditRun

	err := s.db.WithTx(func(tx *goqu.TxDatabase) error {
		run, err := s.ar.GetAuditRunForUpdate(tx, auditID)
		if err != nil {
			return err
		}
		if run.Closed() {
			completed = run
			return nil
		}

		reconciliation, err := s.loadReconciliation(tx, run.ID)
		if err != nil {
			return err
		}

		for _, assetID := range reconciliation.Missing() {
			if err := s.ar.InsertDiscrepancy(tx, run.ID, assetID, metadata.DiscrepancyMissing, "not confirmed by audit end"); err != nil {
				return err
			}
		}

		now := time.Now()
		run.Status = metadata.AuditCompleted
		run.CompletedAt = &now
		run.VerifiedAssets = reconciliation.VerifiedAssets()
		run.MissingAssets = reconciliation.MissingAssets()
		run.ExcessAssets = reconciliation.ExcessAssets()

		if err := s.ar.UpdateRun(tx, run); err != nil {
			return err
		}

		completed = run
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.recorder.Log(
		"audit_completed",
		map[string]interface{}{
			"verified": completed.VerifiedAssets,
			"missing":  completed.MissingAssets,
			"excess":   completed.ExcessAssets,
		},
		completed,
	)

	return completed, nil
}

func (s *AuditService) loadReconciliation(tx *goqu.TxDatabase, auditID int) (*Reconciliation, error) {
	scopeIDs, err := s.ar.GetScopeAssetIDs(tx, auditID)
	if err != nil {
		return nil, err
	}
	verifiedIDs, err := s.ar.GetVerifiedAssetIDs(tx, auditID)
	if err != nil {
		return nil, err
	}
	excessIDs, err := s.ar.GetExcessAssetIDs(tx, auditID)
	if err != nil {
		return nil, err
	}

	reconciliation := NewReconciliation(scopeIDs)
	reconciliation.Restore(verifiedIDs, excessIDs)
	return reconciliation, nil
}
