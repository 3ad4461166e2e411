package audits

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"assetregister/pkg/activity"
	"assetregister/pkg/apperrors"
	"assetregister/pkg/metadata"
	"assetregister/pkg/models"
)

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(fn func(tx *goqu.TxDatabase) error) error {
	return fn(nil)
}

type stubActivityRepo struct{}

func (stubActivityRepo) PersistLog(entry models.ActivityLog, data interface{}) error {
	return nil
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) InsertAuditRun(run *models.AuditRun, scopeAssetIDs []int) error {
	args := m.Called(run, scopeAssetIDs)
	return args.Error(0)
}

func (m *MockAuditRepository) GetAuditRun(auditID int) (*models.AuditRun, error) {
	args := m.Called(auditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditRun), args.Error(1)
}

func (m *MockAuditRepository) GetAuditRunForUpdate(tx *goqu.TxDatabase, auditID int) (*models.AuditRun, error) {
	args := m.Called(tx, auditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditRun), args.Error(1)
}

func (m *MockAuditRepository) GetScopeAssetIDs(tx *goqu.TxDatabase, auditID int) ([]int, error) {
	args := m.Called(tx, auditID)
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockAuditRepository) GetVerifiedAssetIDs(tx *goqu.TxDatabase, auditID int) ([]int, error) {
	args := m.Called(tx, auditID)
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockAuditRepository) GetExcessAssetIDs(tx *goqu.TxDatabase, auditID int) ([]int, error) {
	args := m.Called(tx, auditID)
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockAuditRepository) InsertVerification(tx *goqu.TxDatabase, auditID, assetID int) error {
	args := m.Called(tx, auditID, assetID)
	return args.Error(0)
}

func (m *MockAuditRepository) InsertDiscrepancy(tx *goqu.TxDatabase, auditID, assetID int, kind metadata.DiscrepancyKind, note string) error {
	args := m.Called(tx, auditID, assetID, kind, note)
	return args.Error(0)
}

func (m *MockAuditRepository) UpdateRun(tx *goqu.TxDatabase, run *models.AuditRun) error {
	args := m.Called(tx, run)
	return args.Error(0)
}

func (m *MockAuditRepository) GetDiscrepancies(auditID int) (*[]models.Discrepancy, error) {
	args := m.Called(auditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*[]models.Discrepancy), args.Error(1)
}

type MockScopeStore struct {
	mock.Mock
}

func (m *MockScopeStore) GetScopeAssetIDs(locationID int, departmentID *int) ([]int, error) {
	args := m.Called(locationID, departmentID)
	return args.Get(0).([]int), args.Error(1)
}

func newTestService(ar *MockAuditRepository, scope *MockScopeStore) *AuditService {
	return NewAuditService(fakeTxRunner{}, ar, scope, activity.NewRecorder(stubActivityRepo{}))
}

func inProgressRun() *models.AuditRun {
	return &models.AuditRun{
		ID:          5,
		Reference:   "ccd7e7d8-2f5a-4c8f-9a91-6f3f3e2f9c01",
		LocationID:  1,
		Status:      metadata.AuditInProgress,
		TotalAssets: 10,
	}
}

func TestCreateAuditSnapshotsScope(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	mockScope := new(MockScopeStore)
	service := newTestService(mockRepo, mockScope)

	mockScope.On("GetScopeAssetIDs", 1, (*int)(nil)).Return([]int{1, 2, 3, 4, 5}, nil).Once()
	mockRepo.On("InsertAuditRun", mock.AnythingOfType("*models.AuditRun"), []int{1, 2, 3, 4, 5}).
		Run(func(args mock.Arguments) {
			args.Get(0).(*models.AuditRun).ID = 5
		}).
		Return(nil).Once()

	run, err := service.CreateAudit(CreateAuditRequest{
		LocationID:       1,
		PlannedStartDate: "2026-09-01",
		PlannedEndDate:   "2026-09-15",
	})

	assert.NoError(t, err)
	assert.Equal(t, 5, run.ID)
	assert.Equal(t, metadata.AuditPlanned, run.Status)
	assert.Equal(t, 5, run.TotalAssets)
	assert.NotEmpty(t, run.Reference)
	mockRepo.AssertExpectations(t)
	mockScope.AssertExpectations(t)
}

func TestCreateAuditRejectsInvertedDates(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	mockScope := new(MockScopeStore)
	service := newTestService(mockRepo, mockScope)

	_, err := service.CreateAudit(CreateAuditRequest{
		LocationID:       1,
		PlannedStartDate: "2026-09-15",
		PlannedEndDate:   "2026-09-01",
	})

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "InsertAuditRun", mock.Anything, mock.Anything)
}

func TestVerifyAssetRecordsFirstScan(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	mockScope := new(MockScopeStore)
	service := newTestService(mockRepo, mockScope)

	run := inProgressRun()
	mockRepo.On("GetAuditRunForUpdate", mock.Anything, 5).Return(run, nil).Once()
	mockRepo.On("GetScopeAssetIDs", mock.Anything, 5).Return([]int{101, 102, 103}, nil).Once()
	mockRepo.On("GetVerifiedAssetIDs", mock.Anything, 5).Return([]int{}, nil).Once()
	mockRepo.On("GetExcessAssetIDs", mock.Anything, 5).Return([]int{}, nil).Once()
	mockRepo.On("InsertVerification", mock.Anything, 5, 101).Return(nil).Once()
	mockRepo.On("UpdateRun", mock.Anything, mock.AnythingOfType("*models.AuditRun")).Return(nil).Once()

	updated, err := service.VerifyAsset(5, 101)

	assert.NoError(t, err)
	assert.Equal(t, 1, updated.VerifiedAssets)
	assert.Equal(t, 0, updated.ExcessAssets)
	mockRepo.AssertExpectations(t)
}

func TestVerifyAssetDuplicateScanIsIdempotent(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	mockScope := new(MockScopeStore)
	service := newTestService(mockRepo, mockScope)

	run := inProgressRun()
	mockRepo.On("GetAuditRunForUpdate", mock.Anything, 5).Return(run, nil).Once()
	mockRepo.On("GetScopeAssetIDs", mock.Anything, 5).Return([]int{101, 102}, nil).Once()
	mockRepo.On("GetVerifiedAssetIDs", mock.Anything, 5).Return([]int{101}, nil).Once()
	mockRepo.On("GetExcessAssetIDs", mock.Anything, 5).Return([]int{}, nil).Once()
	mockRepo.On("UpdateRun", mock.Anything, mock.AnythingOfType("*models.AuditRun")).Return(nil).Once()

	updated, err := service.VerifyAsset(5, 101)

	assert.NoError(t, err)
	assert.Equal(t, 1, updated.VerifiedAssets)
	mockRepo.AssertNotCalled(t, "InsertVerification", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyAssetOutOfScopeRecordsExcess(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	mockScope := new(MockScopeStore)
	service := newTestService(mockRepo, mockScope)

	run := inProgressRun()
	mockRepo.On("GetAuditRunForUpdate", mock.Anything, 5).Return(run, nil).Once()
	mockRepo.On("GetScopeAssetIDs", mock.Anything, 5).Return([]int{101, 102}, nil).Once()
	mockRepo.On("GetVerifiedAssetIDs", mock.Anything, 5).Return([]int{}, nil).Once()
	mockRepo.On("GetExcessAssetIDs", mock.Anything, 5).Return([]int{}, nil).Once()
	mockRepo.On("InsertDiscrepancy", mock.Anything, 5, 999, metadata.DiscrepancyExcess, mock.AnythingOfType("string")).Return(nil).Once()
	mockRepo.On("UpdateRun", mock.Anything, mock.AnythingOfType("*models.AuditRun")).Return(nil).Once()

	updated, err := service.VerifyAsset(5, 999)

	assert.NoError(t, err)
	assert.Equal(t, 0, updated.VerifiedAssets)
	assert.Equal(t, 1, updated.ExcessAssets)
	mockRepo.AssertNotCalled(t, "InsertVerification", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyAssetStartsPlannedRun(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	mockScope := new(MockScopeStore)
	service := newTestService(mockRepo, mockScope)

	run := inProgressRun()
	run.Status = metadata.AuditPlanned
	mockRepo.On("GetAuditRunForUpdate", mock.Anything, 5).Return(run, nil).Once()
	mockRepo.On("GetScopeAssetIDs", mock.Anything, 5).Return([]int{101}, nil).Once()
	mockRepo.On("GetVerifiedAssetIDs", mock.Anything, 5).Return([]int{}, nil).Once()
	mockRepo.On("GetExcessAssetIDs", mock.Anything, 5).Return([]int{}, nil).Once()
	mockRepo.On("InsertVerification", mock.Anything, 5, 101).Return(nil).Once()
	mockRepo.On("UpdateRun", mock.Anything, mock.AnythingOfType("*models.AuditRun")).Return(nil).Once()

	updated, err := service.VerifyAsset(5, 101)

	assert.NoError(t, err)
	assert.Equal(t, metadata.AuditInProgress, updated.Status)
}

func TestVerifyAssetOnCompletedRun(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	mockScope := new(MockScopeStore)
	service := newTestService(mockRepo, mockScope)

	run := inProgressRun()
	run.Status = metadata.AuditCompleted
	mockRepo.On("GetAuditRunForUpdate", mock.Anything, 5).Return(run, nil).Once()

	_, err := service.VerifyAsset(5, 101)

	var closed *apperrors.AuditAlreadyClosedError
	assert.ErrorAs(t, err, &closed)
	assert.Equal(t, 5, closed.AuditID)
	mockRepo.AssertNotCalled(t, "InsertVerification", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "UpdateRun", mock.Anything, mock.Anything)
}

func TestCompleteAuditReconcilesTallies(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	mockScope := new(MockScopeStore)
	service := newTestService(mockRepo, mockScope)

	// Scope of 10; 8 confirmed, one stray found, two never scanned.
	scope := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	verified := []int{1, 2, 3, 4, 5, 6, 7, 8}

	run := inProgressRun()
	mockRepo.On("GetAuditRunForUpdate", mock.Anything, 5).Return(run, nil).Once()
	mockRepo.On("GetScopeAssetIDs", mock.Anything, 5).Return(scope, nil).Once()
	mockRepo.On("GetVerifiedAssetIDs", mock.Anything, 5).Return(verified, nil).Once()
	mockRepo.On("GetExcessAssetIDs", mock.Anything, 5).Return([]int{999}, nil).Once()
	mockRepo.On("InsertDiscrepancy", mock.Anything, 5, 9, metadata.DiscrepancyMissing, mock.AnythingOfType("string")).Return(nil).Once()
	mockRepo.On("InsertDiscrepancy", mock.Anything, 5, 10, metadata.DiscrepancyMissing, mock.AnythingOfType("string")).Return(nil).Once()
	mockRepo.On("UpdateRun", mock.Anything, mock.AnythingOfType("*models.AuditRun")).Return(nil).Once()

	completed, err := service.CompleteAudit(5)

	assert.NoError(t, err)
	assert.Equal(t, metadata.AuditCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)
	assert.Equal(t, 8, completed.VerifiedAssets)
	assert.Equal(t, 2, completed.MissingAssets)
	assert.Equal(t, 1, completed.ExcessAssets)
	assert.Equal(t, completed.TotalAssets, completed.VerifiedAssets+completed.MissingAssets)
	mockRepo.AssertExpectations(t)
}

func TestCompleteAuditIsIdempotent(t *testing.T) {
	mockRepo := new(MockAuditRepository)
	mockScope := new(MockScopeStore)
	service := newTestService(mockRepo, mockScope)

	run := inProgressRun()
	run.Status = metadata.AuditCompleted
	run.VerifiedAssets = 8
	run.MissingAssets = 2
	run.ExcessAssets = 1
	mockRepo.On("GetAuditRunForUpdate", mock.Anything, 5).Return(run, nil).Once()

	completed, err := service.CompleteAudit(5)

	assert.NoError(t, err)
	assert.Equal(t, 8, completed.VerifiedAssets)
	assert.Equal(t, 2, completed.MissingAssets)
	mockRepo.AssertNotCalled(t, "UpdateRun", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "InsertDiscrepancy", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
