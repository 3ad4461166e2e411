package models

import (
	"time"

	"assetregister/pkg/metadata"
)

// TransferRequest captures a relocation/reassignment request. The from_*
// fields are a snapshot of the asset at request time; approval re-checks
// them so a stale request cannot silently overwrite a since-moved asset.
type TransferRequest struct {
	ID               int                     `json:"id"`
	AssetID          int                     `json:"asset_id"`
	FromLocationID   int                     `json:"from_location_id"`
	ToLocationID     int                     `json:"to_location_id"`
	FromDepartmentID int                     `json:"from_department_id"`
	ToDepartmentID   int                     `json:"to_department_id"`
	ToUserID         *int                    `json:"to_user_id,omitempty"`
	TransferType     metadata.TransferType   `json:"transfer_type"`
	ApprovalStatus   metadata.ApprovalStatus `json:"approval_status"`
	Reason           string                  `json:"reason"`
	RequestedBy      int                     `json:"requested_by"`
	RequestedDate    time.Time               `json:"requested_date"`
	ApprovedBy       *int                    `json:"approved_by,omitempty"`
	ApprovedDate     *time.Time              `json:"approved_date,omitempty"`
	RejectionReason  *string                 `json:"rejection_reason,omitempty"`
}

func (t *TransferRequest) Finalized() bool {
	return t.ApprovalStatus != metadata.ApprovalPending
}

func (t *TransferRequest) CreateLogView() ActivityLog {
	return ActivityLog{
		ResourceID:   t.ID,
		ResourceType: "transfer",
	}
}

type FlatTransferRecord struct {
	ID               int        `db:"id"`
	AssetID          int        `db:"asset_id"`
	FromLocationID   int        `db:"from_location_id"`
	ToLocationID     int        `db:"to_location_id"`
	FromDepartmentID int        `db:"from_department_id"`
	ToDepartmentID   int        `db:"to_department_id"`
	ToUserID         *int       `db:"to_user_id"`
	TransferType     string     `db:"transfer_type"`
	ApprovalStatus   string     `db:"approval_status"`
	Reason           string     `db:"reason"`
	RequestedBy      int        `db:"requested_by"`
	RequestedDate    time.Time  `db:"requested_date"`
	ApprovedBy       *int       `db:"approved_by"`
	ApprovedDate     *time.Time `db:"approved_date"`
	RejectionReason  *string    `db:"rejection_reason"`
}

func (ft *FlatTransferRecord) TransformToTransfer() TransferRequest {
	return TransferRequest{
		ID:               ft.ID,
		AssetID:          ft.AssetID,
		FromLocationID:   ft.FromLocationID,
		ToLocationID:     ft.ToLocationID,
		FromDepartmentID: ft.FromDepartmentID,
		ToDepartmentID:   ft.ToDepartmentID,
		ToUserID:         ft.ToUserID,
		TransferType:     metadata.TransferType(ft.TransferType),
		ApprovalStatus:   metadata.ApprovalStatus(ft.ApprovalStatus),
		Reason:           ft.Reason,
		RequestedBy:      ft.RequestedBy,
		RequestedDate:    ft.RequestedDate,
		ApprovedBy:       ft.ApprovedBy,
		ApprovedDate:     ft.ApprovedDate,
		RejectionReason:  ft.RejectionReason,
	}
}
