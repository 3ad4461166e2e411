package maintenance

import (
	"errors"
	"fmt"
	"time"

	"assetregister/internal/lifecycle"
	"assetregister/pkg/activity"
	"assetregister/pkg/apperrors"
	"assetregister/pkg/metadata"
	"assetregister/pkg/models"
)

var (
	ErrRecordNotFound = errors.New("maintenance record not found")
	ErrInvalidStatus  = errors.New("invalid maintenance status")
	ErrRecordClosed   = errors.New("maintenance record is already resolved or closed")
)

type RecordRepository interface {
	CreateRecord(record *models.MaintenanceRecord) error
	GetRecord(id int) (*RecordResponse, error)
	GetRecords(status string, assetID int, limit int, offset int) ([]*RecordResponse, error)
	UpdateRecordStatus(recordID int, status string, updatedAt time.Time) error
	UpdateRecordAssignedTo(recordID int, assignedToID int, updatedAt time.Time) error
	ResolveRecord(recordID int, status string, outcome string, resolvedAt time.Time) error
	RecordExists(id int) (bool, error)
	CreateComment(comment *models.MaintenanceComment) (int, error)
	GetComment(id int) (*Comment, error)
	GetComments(recordID int) ([]*Comment, error)
}

// LifecycleService drives asset status transitions when a record is
// resolved.
type LifecycleService interface {
	TransitionStatus(assetID int, event lifecycle.Event, payload lifecycle.Payload, actorID int) (*models.Asset, error)
}

type Service struct {
	repository RecordRepository
	lifecycle  LifecycleService
	recorder   *activity.Recorder
}

func NewService(repository RecordRepository, lifecycleService LifecycleService, recorder *activity.Recorder) *Service {
	return &Service{
		repository: repository,
		lifecycle:  lifecycleService,
		recorder:   recorder,
	}
}

// OpenForAsset creates a work record when an asset enters maintenance.
// Called by the lifecycle service on the start_maintenance event.
func (s *Service) OpenForAsset(assetID int, reason string, reportedBy int) error {
	now := time.Now()

	record := &models.MaintenanceRecord{
		AssetID:     assetID,
		Title:       fmt.Sprintf("Maintenance for asset %d", assetID),
		Description: reason,
		Status:      StatusOpen,
		Priority:    PriorityMedium,
		ReportedBy:  reportedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repository.CreateRecord(record); err != nil {
		return err
	}

	go s.recorder.Log(
		"maintenance_opened",
		map[string]interface{}{
			"asset_id": assetID,
			"reason":   reason,
		},
		record,
	)

	return nil
}

func (s *Service) GetRecord(recordID int) (*RecordResponse, error) {
	return s.repository.GetRecord(recordID)
}

func (s *Service) GetRecords(status string, assetID int, limit int, offset int) ([]*RecordResponse, error) {
	return s.repository.GetRecords(status, assetID, limit, offset)
}

// ChangeStatus moves a record between the open states. Resolution and
// closing go through Resolve, which also transitions the asset.
func (s *Service) ChangeStatus(recordID int, newStatus string) error {
	record, err := s.repository.GetRecord(recordID)
	if err != nil {
		return err
	}

	if record.Status == StatusResolved || record.Status == StatusClosed {
		return ErrRecordClosed
	}

	if record.Status == newStatus {
		return nil
	}

	switch newStatus {
	case StatusOpen, StatusInProgress:
		return s.repository.UpdateRecordStatus(recordID, newStatus, time.Now())
	default:
		return ErrInvalidStatus
	}
}

func (s *Service) AssignRecord(recordID int, userID int) error {
	exists, err := s.repository.RecordExists(recordID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrRecordNotFound
	}

	return s.repository.UpdateRecordAssignedTo(recordID, userID, time.Now())
}

// Resolve closes the record and drives the asset's complete_maintenance
// transition: a resolved outcome returns the asset to active, while
// needs_further_repair sends it to in_repair and closes the record.
func (s *Service) Resolve(recordID int, outcome lifecycle.Outcome, actorID int) (*RecordResponse, error) {
	record, err := s.repository.GetRecord(recordID)
	if err != nil {
		return nil, err
	}

	if record.Status == StatusResolved || record.Status == StatusClosed {
		return nil, ErrRecordClosed
	}

	payload := lifecycle.Payload{Outcome: outcome}
	if _, err := s.lifecycle.TransitionStatus(record.AssetID, lifecycle.EventCompleteMaintenance, payload, actorID); err != nil {
		// A previous attempt may have moved the asset and then failed on
		// the record write. When the asset already sits in the outcome's
		// target status, finish resolving the record instead of wedging it.
		var invalid *apperrors.InvalidTransitionError
		if !errors.As(err, &invalid) || invalid.From != outcomeTarget(outcome).String() {
			return nil, err
		}
	}

	recordStatus := StatusResolved
	if outcome == lifecycle.OutcomeNeedsFurtherRepair {
		recordStatus = StatusClosed
	}

	if err := s.repository.ResolveRecord(recordID, recordStatus, string(outcome), time.Now()); err != nil {
		return nil, err
	}

	return s.repository.GetRecord(recordID)
}

// outcomeTarget is the asset status complete_maintenance lands on for an
// outcome.
func outcomeTarget(outcome lifecycle.Outcome) metadata.Status {
	if outcome == lifecycle.OutcomeNeedsFurtherRepair {
		return metadata.StatusInRepair
	}
	return metadata.StatusActive
}

func (s *Service) AddComment(recordID int, content string, userID int) (*Comment, error) {
	exists, err := s.repository.RecordExists(recordID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRecordNotFound
	}

	comment := &models.MaintenanceComment{
		RecordID:  recordID,
		Content:   content,
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	commentID, err := s.repository.CreateComment(comment)
	if err != nil {
		return nil, err
	}

	return s.repository.GetComment(commentID)
}

func (s *Service) GetComments(recordID int) ([]*Comment, error) {
	exists, err := s.repository.RecordExists(recordID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRecordNotFound
	}

	return s.repository.GetComments(recordID)
}
