package transfers

import (
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"assetregister/internal/registry"
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

type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) InsertTransferRecord(transfer *models.TransferRequest) error {
	args := m.Called(transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) GetTransfer(transferID int) (*models.TransferRequest, error) {
	args := m.Called(transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransferRequest), args.Error(1)
}

func (m *MockTransferRepository) GetTransfersByAsset(assetID int) (*[]models.TransferRequest, error) {
	args := m.Called(assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*[]models.TransferRequest), args.Error(1)
}

func (m *MockTransferRepository) GetTransferForUpdate(tx *goqu.TxDatabase, transferID int) (*models.TransferRequest, error) {
	args := m.Called(tx, transferID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransferRequest), args.Error(1)
}

func (m *MockTransferRepository) MarkApproved(tx *goqu.TxDatabase, transferID, approverID int, at time.Time) error {
	args := m.Called(tx, transferID, approverID, at)
	return args.Error(0)
}

func (m *MockTransferRepository) MarkRejected(tx *goqu.TxDatabase, transferID int, reason string) error {
	args := m.Called(tx, transferID, reason)
	return args.Error(0)
}

type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) GetAssetPlacement(assetID int) (*registry.AssetPlacement, error) {
	args := m.Called(assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.AssetPlacement), args.Error(1)
}

func (m *MockAssetStore) GetAssetPlacementForUpdate(tx *goqu.TxDatabase, assetID int) (*registry.AssetPlacement, error) {
	args := m.Called(tx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.AssetPlacement), args.Error(1)
}

func (m *MockAssetStore) MoveAsset(tx *goqu.TxDatabase, assetID, locationID, departmentID int, assignedToID *int) error {
	args := m.Called(tx, assetID, locationID, departmentID, assignedToID)
	return args.Error(0)
}

func (m *MockAssetStore) GetAsset(assetID int) (*models.Asset, error) {
	args := m.Called(assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

func newTestService(tr *MockTransferRepository, assets *MockAssetStore) *TransferService {
	return NewTransferService(fakeTxRunner{}, tr, assets, activity.NewRecorder(stubActivityRepo{}))
}

func pendingTransfer() *models.TransferRequest {
	return &models.TransferRequest{
		ID:               10,
		AssetID:          101,
		FromLocationID:   1,
		ToLocationID:     3,
		FromDepartmentID: 2,
		ToDepartmentID:   2,
		TransferType:     metadata.TransferPermanent,
		ApprovalStatus:   metadata.ApprovalPending,
	}
}

func TestCreateTransferSnapshotsPlacement(t *testing.T) {
	mockTransferRepo := new(MockTransferRepository)
	mockAssets := new(MockAssetStore)
	service := newTestService(mockTransferRepo, mockAssets)

	mockAssets.On("GetAssetPlacement", 101).Return(&registry.AssetPlacement{
		AssetID:      101,
		LocationID:   1,
		DepartmentID: 2,
	}, nil).Once()

	mockTransferRepo.On("InsertTransferRecord", mock.AnythingOfType("*models.TransferRequest")).
		Run(func(args mock.Arguments) {
			transfer := args.Get(0).(*models.TransferRequest)
			transfer.ID = 10
		}).
		Return(nil).Once()

	transfer, err := service.CreateTransfer(CreateTransferRequest{
		AssetID:        101,
		ToLocationID:   3,
		ToDepartmentID: 2,
		Reason:         "lab relocation",
	}, 7)

	assert.NoError(t, err)
	assert.Equal(t, 10, transfer.ID)
	assert.Equal(t, 1, transfer.FromLocationID)
	assert.Equal(t, 2, transfer.FromDepartmentID)
	assert.Equal(t, metadata.ApprovalPending, transfer.ApprovalStatus)
	assert.Equal(t, 7, transfer.RequestedBy)

	mockTransferRepo.AssertExpectations(t)
	mockAssets.AssertExpectations(t)
}

func TestCreateTransferRejectsNoOp(t *testing.T) {
	mockTransferRepo := new(MockTransferRepository)
	mockAssets := new(MockAssetStore)
	service := newTestService(mockTransferRepo, mockAssets)

	mockAssets.On("GetAssetPlacement", 101).Return(&registry.AssetPlacement{
		AssetID:      101,
		LocationID:   3,
		DepartmentID: 2,
	}, nil).Once()

	_, err := service.CreateTransfer(CreateTransferRequest{
		AssetID:        101,
		ToLocationID:   3,
		ToDepartmentID: 2,
	}, 7)

	var noOp *apperrors.NoOpTransferError
	assert.ErrorAs(t, err, &noOp)
	assert.Equal(t, 101, noOp.AssetID)
	mockTransferRepo.AssertNotCalled(t, "InsertTransferRecord", mock.Anything)
}

func TestApproveTransferCommitsMove(t *testing.T) {
	mockTransferRepo := new(MockTransferRepository)
	mockAssets := new(MockAssetStore)
	service := newTestService(mockTransferRepo, mockAssets)

	transfer := pendingTransfer()
	mockTransferRepo.On("GetTransferForUpdate", mock.Anything, 10).Return(transfer, nil).Once()
	mockAssets.On("GetAssetPlacementForUpdate", mock.Anything, 101).Return(&registry.AssetPlacement{
		AssetID:      101,
		LocationID:   1,
		DepartmentID: 2,
	}, nil).Once()
	mockAssets.On("MoveAsset", mock.Anything, 101, 3, 2, (*int)(nil)).Return(nil).Once()
	mockTransferRepo.On("MarkApproved", mock.Anything, 10, 99, mock.AnythingOfType("time.Time")).Return(nil).Once()
	mockAssets.On("GetAsset", 101).Return(&models.Asset{
		ID:       101,
		Location: models.Location{ID: 3},
	}, nil).Once()

	asset, err := service.ApproveTransfer(10, 99)

	assert.NoError(t, err)
	assert.Equal(t, 3, asset.Location.ID)
	mockTransferRepo.AssertExpectations(t)
	mockAssets.AssertExpectations(t)
}

func TestApproveTransferDetectsStaleness(t *testing.T) {
	mockTransferRepo := new(MockTransferRepository)
	mockAssets := new(MockAssetStore)
	service := newTestService(mockTransferRepo, mockAssets)

	transfer := pendingTransfer()
	mockTransferRepo.On("GetTransferForUpdate", mock.Anything, 10).Return(transfer, nil).Once()
	// The asset moved elsewhere after the request was created.
	mockAssets.On("GetAssetPlacementForUpdate", mock.Anything, 101).Return(&registry.AssetPlacement{
		AssetID:      101,
		LocationID:   5,
		DepartmentID: 2,
	}, nil).Once()

	_, err := service.ApproveTransfer(10, 99)

	var stale *apperrors.StaleTransferRequestError
	assert.ErrorAs(t, err, &stale)
	assert.Equal(t, 10, stale.RequestID)
	mockAssets.AssertNotCalled(t, "MoveAsset", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockTransferRepo.AssertNotCalled(t, "MarkApproved", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveTransferAlreadyFinalized(t *testing.T) {
	mockTransferRepo := new(MockTransferRepository)
	mockAssets := new(MockAssetStore)
	service := newTestService(mockTransferRepo, mockAssets)

	transfer := pendingTransfer()
	transfer.ApprovalStatus = metadata.ApprovalApproved
	mockTransferRepo.On("GetTransferForUpdate", mock.Anything, 10).Return(transfer, nil).Twice()

	for i := 0; i < 2; i++ {
		_, err := service.ApproveTransfer(10, 99)

		var finalized *apperrors.AlreadyFinalizedError
		assert.ErrorAs(t, err, &finalized)
		assert.Equal(t, "approved", finalized.Status)
	}

	// The asset is never touched once the request is terminal.
	mockAssets.AssertNotCalled(t, "MoveAsset", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRejectTransfer(t *testing.T) {
	mockTransferRepo := new(MockTransferRepository)
	mockAssets := new(MockAssetStore)
	service := newTestService(mockTransferRepo, mockAssets)

	transfer := pendingTransfer()
	rejected := *transfer
	rejected.ApprovalStatus = metadata.ApprovalRejected

	mockTransferRepo.On("GetTransferForUpdate", mock.Anything, 10).Return(transfer, nil).Once()
	mockTransferRepo.On("MarkRejected", mock.Anything, 10, "wrong department").Return(nil).Once()
	mockTransferRepo.On("GetTransfer", 10).Return(&rejected, nil).Once()

	result, err := service.RejectTransfer(10, "wrong department", 99)

	assert.NoError(t, err)
	assert.Equal(t, metadata.ApprovalRejected, result.ApprovalStatus)
	mockTransferRepo.AssertExpectations(t)
}

func TestRejectTransferAlreadyFinalized(t *testing.T) {
	mockTransferRepo := new(MockTransferRepository)
	mockAssets := new(MockAssetStore)
	service := newTestService(mockTransferRepo, mockAssets)

	transfer := pendingTransfer()
	transfer.ApprovalStatus = metadata.ApprovalRejected
	mockTransferRepo.On("GetTransferForUpdate", mock.Anything, 10).Return(transfer, nil).Once()

	_, err := service.RejectTransfer(10, "again", 99)

	var finalized *apperrors.AlreadyFinalizedError
	assert.ErrorAs(t, err, &finalized)
	mockTransferRepo.AssertNotCalled(t, "MarkRejected", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetAssetTransfersListsHistory(t *testing.T) {
	mockTransferRepo := new(MockTransferRepository)
	mockAssets := new(MockAssetStore)
	service := newTestService(mockTransferRepo, mockAssets)

	history := []models.TransferRequest{
		{ID: 12, AssetID: 7, ApprovalStatus: metadata.ApprovalApproved},
		{ID: 10, AssetID: 7, ApprovalStatus: metadata.ApprovalRejected},
	}
	mockTransferRepo.On("GetTransfersByAsset", 7).Return(&history, nil).Once()

	result, err := service.GetAssetTransfers(7)

	assert.NoError(t, err)
	assert.Len(t, *result, 2)
	assert.Equal(t, 12, (*result)[0].ID)
	mockTransferRepo.AssertExpectations(t)
}
