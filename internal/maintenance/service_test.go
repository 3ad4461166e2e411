package maintenance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"assetregister/internal/lifecycle"
	"assetregister/pkg/activity"
	"assetregister/pkg/apperrors"
	"assetregister/pkg/models"
)

type stubActivityRepo struct{}

func (stubActivityRepo) PersistLog(entry models.ActivityLog, data interface{}) error {
	return nil
}

type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) CreateRecord(record *models.MaintenanceRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockRecordRepository) GetRecord(id int) (*RecordResponse, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RecordResponse), args.Error(1)
}

func (m *MockRecordRepository) GetRecords(status string, assetID int, limit int, offset int) ([]*RecordResponse, error) {
	args := m.Called(status, assetID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*RecordResponse), args.Error(1)
}

func (m *MockRecordRepository) UpdateRecordStatus(recordID int, status string, updatedAt time.Time) error {
	args := m.Called(recordID, status, updatedAt)
	return args.Error(0)
}

func (m *MockRecordRepository) UpdateRecordAssignedTo(recordID int, assignedToID int, updatedAt time.Time) error {
	args := m.Called(recordID, assignedToID, updatedAt)
	return args.Error(0)
}

func (m *MockRecordRepository) ResolveRecord(recordID int, status string, outcome string, resolvedAt time.Time) error {
	args := m.Called(recordID, status, outcome, resolvedAt)
	return args.Error(0)
}

func (m *MockRecordRepository) RecordExists(id int) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordRepository) CreateComment(comment *models.MaintenanceComment) (int, error) {
	args := m.Called(comment)
	return args.Int(0), args.Error(1)
}

func (m *MockRecordRepository) GetComment(id int) (*Comment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Comment), args.Error(1)
}

func (m *MockRecordRepository) GetComments(recordID int) ([]*Comment, error) {
	args := m.Called(recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Comment), args.Error(1)
}

type MockLifecycleService struct {
	mock.Mock
}

func (m *MockLifecycleService) TransitionStatus(assetID int, event lifecycle.Event, payload lifecycle.Payload, actorID int) (*models.Asset, error) {
	args := m.Called(assetID, event, payload, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func newTestService(repo *MockRecordRepository, lc *MockLifecycleService) *Service {
	return NewService(repo, lc, activity.NewRecorder(stubActivityRepo{}))
}

func openRecord() *RecordResponse {
	return &RecordResponse{
		ID:      3,
		AssetID: 101,
		Title:   "Maintenance for asset 101",
		Status:  StatusOpen,
	}
}

func TestOpenForAssetCreatesOpenRecord(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	mockLifecycle := new(MockLifecycleService)
	service := newTestService(mockRepo, mockLifecycle)

	mockRepo.On("CreateRecord", mock.MatchedBy(func(record *models.MaintenanceRecord) bool {
		return record.AssetID == 101 &&
			record.Status == StatusOpen &&
			record.Description == "fan noise" &&
			record.ReportedBy == 7
	})).Return(nil).Once()

	err := service.OpenForAsset(101, "fan noise", 7)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestResolveReturnsAssetToService(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	mockLifecycle := new(MockLifecycleService)
	service := newTestService(mockRepo, mockLifecycle)

	record := openRecord()
	resolved := *record
	resolved.Status = StatusResolved

	mockRepo.On("GetRecord", 3).Return(record, nil).Once()
	mockLifecycle.On("TransitionStatus", 101, lifecycle.EventCompleteMaintenance,
		lifecycle.Payload{Outcome: lifecycle.OutcomeResolved}, 7).
		Return(&models.Asset{ID: 101}, nil).Once()
	mockRepo.On("ResolveRecord", 3, StatusResolved, "resolved", mock.AnythingOfType("time.Time")).Return(nil).Once()
	mockRepo.On("GetRecord", 3).Return(&resolved, nil).Once()

	result, err := service.Resolve(3, lifecycle.OutcomeResolved, 7)

	assert.NoError(t, err)
	assert.Equal(t, StatusResolved, result.Status)
	mockRepo.AssertExpectations(t)
	mockLifecycle.AssertExpectations(t)
}

func TestResolveNeedsFurtherRepairClosesRecord(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	mockLifecycle := new(MockLifecycleService)
	service := newTestService(mockRepo, mockLifecycle)

	record := openRecord()
	closed := *record
	closed.Status = StatusClosed

	mockRepo.On("GetRecord", 3).Return(record, nil).Once()
	mockLifecycle.On("TransitionStatus", 101, lifecycle.EventCompleteMaintenance,
		lifecycle.Payload{Outcome: lifecycle.OutcomeNeedsFurtherRepair}, 7).
		Return(&models.Asset{ID: 101}, nil).Once()
	mockRepo.On("ResolveRecord", 3, StatusClosed, "needs_further_repair", mock.AnythingOfType("time.Time")).Return(nil).Once()
	mockRepo.On("GetRecord", 3).Return(&closed, nil).Once()

	result, err := service.Resolve(3, lifecycle.OutcomeNeedsFurtherRepair, 7)

	assert.NoError(t, err)
	assert.Equal(t, StatusClosed, result.Status)
	mockLifecycle.AssertExpectations(t)
}

// A resolve attempt can move the asset and then fail on the record write.
// The retry sees the asset already in the outcome's target status; it must
// still resolve the record rather than leave it permanently open.
func TestResolveRetryAfterFailedRecordWrite(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	mockLifecycle := new(MockLifecycleService)
	service := newTestService(mockRepo, mockLifecycle)

	record := openRecord()
	resolved := *record
	resolved.Status = StatusResolved

	mockRepo.On("GetRecord", 3).Return(record, nil).Once()
	mockLifecycle.On("TransitionStatus", 101, lifecycle.EventCompleteMaintenance,
		lifecycle.Payload{Outcome: lifecycle.OutcomeResolved}, 7).
		Return(nil, &apperrors.InvalidTransitionError{From: "active", Event: "complete_maintenance"}).Once()
	mockRepo.On("ResolveRecord", 3, StatusResolved, "resolved", mock.AnythingOfType("time.Time")).Return(nil).Once()
	mockRepo.On("GetRecord", 3).Return(&resolved, nil).Once()

	result, err := service.Resolve(3, lifecycle.OutcomeResolved, 7)

	assert.NoError(t, err)
	assert.Equal(t, StatusResolved, result.Status)
	mockRepo.AssertExpectations(t)
}

func TestResolveRejectsAssetOutsideMaintenance(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	mockLifecycle := new(MockLifecycleService)
	service := newTestService(mockRepo, mockLifecycle)

	mockRepo.On("GetRecord", 3).Return(openRecord(), nil).Once()
	mockLifecycle.On("TransitionStatus", 101, lifecycle.EventCompleteMaintenance,
		lifecycle.Payload{Outcome: lifecycle.OutcomeResolved}, 7).
		Return(nil, &apperrors.InvalidTransitionError{From: "idle", Event: "complete_maintenance"}).Once()

	_, err := service.Resolve(3, lifecycle.OutcomeResolved, 7)

	var invalid *apperrors.InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)
	mockRepo.AssertNotCalled(t, "ResolveRecord", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveAlreadyClosedRecord(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	mockLifecycle := new(MockLifecycleService)
	service := newTestService(mockRepo, mockLifecycle)

	record := openRecord()
	record.Status = StatusResolved
	mockRepo.On("GetRecord", 3).Return(record, nil).Once()

	_, err := service.Resolve(3, lifecycle.OutcomeResolved, 7)

	assert.ErrorIs(t, err, ErrRecordClosed)
	mockLifecycle.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	mockLifecycle := new(MockLifecycleService)
	service := newTestService(mockRepo, mockLifecycle)

	mockRepo.On("GetRecord", 3).Return(openRecord(), nil).Once()

	err := service.ChangeStatus(3, "escalated")

	assert.ErrorIs(t, err, ErrInvalidStatus)
	mockRepo.AssertNotCalled(t, "UpdateRecordStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeStatusSameStatusIsNoOp(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	mockLifecycle := new(MockLifecycleService)
	service := newTestService(mockRepo, mockLifecycle)

	mockRepo.On("GetRecord", 3).Return(openRecord(), nil).Once()

	err := service.ChangeStatus(3, StatusOpen)

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "UpdateRecordStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddCommentMissingRecord(t *testing.T) {
	mockRepo := new(MockRecordRepository)
	mockLifecycle := new(MockLifecycleService)
	service := newTestService(mockRepo, mockLifecycle)

	mockRepo.On("RecordExists", 99).Return(false, nil).Once()

	_, err := service.AddComment(99, "where is this asset", 7)

	assert.ErrorIs(t, err, ErrRecordNotFound)
	mockRepo.AssertNotCalled(t, "CreateComment", mock.Anything)
}
