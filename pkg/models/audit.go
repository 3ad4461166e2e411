package models

import (
	"time"

	"assetregister/pkg/metadata"
)

// AuditRun reconciles the register against a physical count. The expected
// set is snapshotted at creation; totals never track later asset moves.
type AuditRun struct {
	ID               int                 `json:"id"`
	Reference        string              `json:"reference"`
	LocationID       int                 `json:"location_id"`
	DepartmentID     *int                `json:"department_id,omitempty"`
	Status           metadata.AuditState `json:"status"`
	PlannedStartDate time.Time           `json:"planned_start_date"`
	PlannedEndDate   time.Time           `json:"planned_end_date"`
	CompletedAt      *time.Time          `json:"completed_at,omitempty"`
	TotalAssets      int                 `json:"total_assets"`
	VerifiedAssets   int                 `json:"verified_assets"`
	MissingAssets    int                 `json:"missing_assets"`
	ExcessAssets     int                 `json:"excess_assets"`
}

func (a *AuditRun) Closed() bool {
	return a.Status == metadata.AuditCompleted
}

func (a *AuditRun) CreateLogView() ActivityLog {
	return ActivityLog{
		ResourceID:   a.ID,
		ResourceType: "audit",
	}
}

// Discrepancy is a Missing or Excess finding produced when an audit's
// verified set is reconciled against its scope.
type Discrepancy struct {
	ID        int                      `json:"id" db:"id"`
	AuditID   int                      `json:"audit_id" db:"audit_id"`
	AssetID   int                      `json:"asset_id" db:"asset_id"`
	Kind      metadata.DiscrepancyKind `json:"kind" db:"kind"`
	Note      *string                  `json:"note,omitempty" db:"note"`
	CreatedAt time.Time                `json:"created_at" db:"created_at"`
}
