package transfers

import (
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"assetregister/internal/registry"
	"assetregister/pkg/metadata"
	"assetregister/pkg/models"
)

var ErrTransferNotFound = errors.New("transfer request not found")

type PostgresTransferRepository struct {
	repository *registry.Repository
}

func NewRepository(r *registry.Repository) *PostgresTransferRepository {
	return &PostgresTransferRepository{repository: r}
}

func (r *PostgresTransferRepository) InsertTransferRecord(transfer *models.TransferRequest) error {
	query := r.repository.GoquDBWrapper.Insert("transfer_requests").
		Rows(goqu.Record{
			"asset_id":           transfer.AssetID,
			"from_location_id":   transfer.FromLocationID,
			"to_location_id":     transfer.ToLocationID,
			"from_department_id": transfer.FromDepartmentID,
			"to_department_id":   transfer.ToDepartmentID,
			"to_user_id":         transfer.ToUserID,
			"transfer_type":      string(transfer.TransferType),
			"approval_status":    string(metadata.ApprovalPending),
			"reason":             transfer.Reason,
			"requested_by":       transfer.RequestedBy,
			"requested_date":     transfer.RequestedDate,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&transfer.ID); err != nil {
		return fmt.Errorf("failed to insert transfer request: %w", err)
	}

	return nil
}

func transferSelect(from *goqu.SelectDataset) *goqu.SelectDataset {
	return from.Select(
		"id",
		"asset_id",
		"from_location_id",
		"to_location_id",
		"from_department_id",
		"to_department_id",
		"to_user_id",
		"transfer_type",
		"approval_status",
		"reason",
		"requested_by",
		"requested_date",
		"approved_by",
		"approved_date",
		"rejection_reason",
	)
}

func (r *PostgresTransferRepository) GetTransfer(transferID int) (*models.TransferRequest, error) {
	var flat models.FlatTransferRecord
	found, err := transferSelect(r.repository.GoquDBWrapper.From("transfer_requests")).
		Where(goqu.Ex{"id": transferID}).
		Executor().
		ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transfer %d: %w", transferID, err)
	}
	if !found {
		return nil, ErrTransferNotFound
	}

	transfer := flat.TransformToTransfer()
	return &transfer, nil
}

// GetTransferForUpdate row-locks the request so a concurrent approval on
// the same request serializes at the database.
func (r *PostgresTransferRepository) GetTransferForUpdate(tx *goqu.TxDatabase, transferID int) (*models.TransferRequest, error) {
	var flat models.FlatTransferRecord
	found, err := transferSelect(tx.From("transfer_requests")).
		Where(goqu.Ex{"id": transferID}).
		ForUpdate(goqu.Wait).
		Executor().
		ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to lock transfer %d: %w", transferID, err)
	}
	if !found {
		return nil, ErrTransferNotFound
	}

	transfer := flat.TransformToTransfer()
	return &transfer, nil
}

func (r *PostgresTransferRepository) MarkApproved(tx *goqu.TxDatabase, transferID, approverID int, at time.Time) error {
	_, err := tx.Update("transfer_requests").
		Set(goqu.Record{
			"approval_status": string(metadata.ApprovalApproved),
			"approved_by":     approverID,
			"approved_date":   at,
		}).
		Where(goqu.Ex{"id": transferID}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to mark transfer %d approved: %w", transferID, err)
	}

	return nil
}

func (r *PostgresTransferRepository) MarkRejected(tx *goqu.TxDatabase, transferID int, reason string) error {
	_, err := tx.Update("transfer_requests").
		Set(goqu.Record{
			"approval_status":  string(metadata.ApprovalRejected),
			"rejection_reason": reason,
		}).
		Where(goqu.Ex{"id": transferID}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to mark transfer %d rejected: %w", transferID, err)
	}

	return nil
}

func (r *PostgresTransferRepository) GetTransfersByAsset(assetID int) (*[]models.TransferRequest, error) {
	var flats []models.FlatTransferRecord
	err := transferSelect(r.repository.GoquDBWrapper.From("transfer_requests")).
		Where(goqu.Ex{"asset_id": assetID}).
		Order(goqu.I("requested_date").Desc()).
		Executor().
		ScanStructs(&flats)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers for asset %d: %w", assetID, err)
	}

	transfers := make([]models.TransferRequest, 0, len(flats))
	for i := range flats {
		transfers = append(transfers, flats[i].TransformToTransfer())
	}

	return &transfers, nil
}
