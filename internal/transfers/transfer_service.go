package transfers

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"assetregister/internal/registry"
	"assetregister/pkg/activity"
	"assetregister/pkg/apperrors"
	"assetregister/pkg/metadata"
	"assetregister/pkg/models"
)

type TransferRepository interface {
	InsertTransferRecord(transfer *models.TransferRequest) error
	GetTransfer(transferID int) (*models.TransferRequest, error)
	GetTransfersByAsset(assetID int) (*[]models.TransferRequest, error)
	GetTransferForUpdate(tx *goqu.TxDatabase, transferID int) (*models.TransferRequest, error)
	MarkApproved(tx *goqu.TxDatabase, transferID, approverID int, at time.Time) error
	MarkRejected(tx *goqu.TxDatabase, transferID int, reason string) error
}

type AssetStore interface {
	GetAssetPlacement(assetID int) (*registry.AssetPlacement, error)
	GetAssetPlacementForUpdate(tx *goqu.TxDatabase, assetID int) (*registry.AssetPlacement, error)
	MoveAsset(tx *goqu.TxDatabase, assetID, locationID, departmentID int, assignedToID *int) error
	GetAsset(assetID int) (*models.Asset, error)
}

type TxRunner interface {
	WithTx(fn func(tx *goqu.TxDatabase) error) error
}

type TransferService struct {
	db       TxRunner
	tr       TransferRepository
	assets   AssetStore
	recorder *activity.Recorder
}

func NewTransferService(db TxRunner, tr TransferRepository, assets AssetStore, recorder *activity.Recorder) *TransferService {
	return &TransferService{
		db:       db,
		tr:       tr,
		assets:   assets,
		recorder: recorder,
	}
}

type CreateTransferRequest struct {
	AssetID        int    `json:"asset_id" binding:"required"`
	ToLocationID   int    `json:"to_location_id" binding:"required"`
	ToDepartmentID int    `json:"to_department_id" binding:"required"`
	ToUserID       *int   `json:"to_user_id"`
	TransferType   string `json:"transfer_type"`
	Reason         string `json:"reason"`
}

// CreateTransfer opens a pending request, snapshotting the asset's current
// placement as the from_* fields. A request that changes neither location
// nor department is rejected up front.
func (s *TransferService) CreateTransfer(req CreateTransferRequest, requesterID int) (*models.TransferRequest, error) {
	transferType := metadata.TransferPermanent
	if req.TransferType != "" {
		var err error
		if transferType, err = metadata.NewTransferType(req.TransferType); err != nil {
			return nil, err
		}
	}

	placement, err := s.assets.GetAssetPlacement(req.AssetID)
	if err != nil {
		return nil, err
	}

	if placement.LocationID == req.ToLocationID && placement.DepartmentID == req.ToDepartmentID {
		return nil, &apperrors.NoOpTransferError{AssetID: req.AssetID}
	}

	transfer := &models.TransferRequest{
		AssetID:          req.AssetID,
		FromLocationID:   placement.LocationID,
		ToLocationID:     req.ToLocationID,
		FromDepartmentID: placement.DepartmentID,
		ToDepartmentID:   req.ToDepartmentID,
		ToUserID:         req.ToUserID,
		TransferType:     transferType,
		ApprovalStatus:   metadata.ApprovalPending,
		Reason:           req.Reason,
		RequestedBy:      requesterID,
		RequestedDate:    time.Now(),
	}

	if err := s.tr.InsertTransferRecord(transfer); err != nil {
		return nil, fmt.Errorf("failed to insert transfer record: %w", err)
	}

	go s.recorder.Log(
		"transfer_requested",
		map[string]interface{}{
			"asset_id":         transfer.AssetID,
			"from_location_id": transfer.FromLocationID,
			"to_location_id":   transfer.ToLocationID,
			"requested_by":     requesterID,
		},
		transfer,
	)

	return transfer, nil
}

func (s *TransferService) GetTransfer(transferID int) (*models.TransferRequest, error) {
	return s.tr.GetTransfer(transferID)
}

// GetAssetTransfers lists the asset's transfer history, newest first.
func (s *TransferService) GetAssetTransfers(assetID int) (*[]models.TransferRequest, error) {
	return s.tr.GetTransfersByAsset(assetID)
}

// ApproveTransfer is the single commit point of the workflow: the staleness
// check, the asset move and the approval mark all happen in one transaction,
// so the change is fully applied or not applied at all.
func (s *TransferService) ApproveTransfer(transferID, approverID int) (*models.Asset, error) {
	var assetID int

	err := s.db.WithTx(func(tx *goqu.TxDatabase) error {
		transfer, err := s.tr.GetTransferForUpdate(tx, transferID)
		if err != nil {
			return err
		}

		if transfer.Finalized() {
			return &apperrors.AlreadyFinalizedError{
				RequestID: transfer.ID,
				Status:    string(transfer.ApprovalStatus),
			}
		}

		placement, err := s.assets.GetAssetPlacementForUpdate(tx, transfer.AssetID)
		if err != nil {
			return err
		}

		// A stale approval must not silently overwrite an asset that moved
		// since the request was filed.
		if placement.LocationID != transfer.FromLocationID || placement.DepartmentID != transfer.FromDepartmentID {
			return &apperrors.StaleTransferRequestError{
				RequestID: transfer.ID,
				AssetID:   transfer.AssetID,
			}
		}

		if err := s.assets.MoveAsset(tx, transfer.AssetID, transfer.ToLocationID, transfer.ToDepartmentID, transfer.ToUserID); err != nil {
			return err
		}

		if err := s.tr.MarkApproved(tx, transfer.ID, approverID, time.Now()); err != nil {
			return err
		}

		assetID = transfer.AssetID
		return nil
	})
	if err != nil {
		return nil, err
	}

	asset, err := s.assets.GetAsset(assetID)
	if err != nil {
		return nil, err
	}

	go s.recorder.Log(
		"transfer_approved",
		map[string]interface{}{
			"transfer_id": transferID,
			"approved_by": approverID,
			"location_id": asset.Location.ID,
		},
		asset,
	)

	return asset, nil
}

func (s *TransferService) RejectTransfer(transferID int, reason string, actorID int) (*models.TransferRequest, error) {
	err := s.db.WithTx(func(tx *goqu.TxDatabase) error {
		transfer, err := s.tr.GetTransferForUpdate(tx, transferID)
		if err != nil {
			return err
		}

		if transfer.Finalized() {
			return &apperrors.AlreadyFinalizedError{
				RequestID: transfer.ID,
				Status:    string(transfer.ApprovalStatus),
			}
		}

		return s.tr.MarkRejected(tx, transfer.ID, reason)
	})
	if err != nil {
		return nil, err
	}

	transfer, err := s.tr.GetTransfer(transferID)
	if err != nil {
		return nil, err
	}

	go s.recorder.Log(
		"transfer_rejected",
		map[string]interface{}{
			"transfer_id": transferID,
			"reason":      reason,
			"actor_id":    actorID,
		},
		transfer,
	)

	return transfer, nil
}
