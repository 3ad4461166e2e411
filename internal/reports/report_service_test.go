package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"assetregister/pkg/metadata"
	"assetregister/pkg/models"
)

type stubAssetSource struct {
	assets []models.Asset
}

func (s *stubAssetSource) GetAssets() (*[]models.Asset, error) {
	return &s.assets, nil
}

func registerAsset(id int, departmentID int, department string, price int64, status metadata.Status) models.Asset {
	return models.Asset{
		ID:                 id,
		Serial:             "SN-" + department,
		Status:             status,
		Department:         models.Department{ID: departmentID, Name: department},
		Location:           models.Location{ID: 1, Name: "Main store"},
		Category:           models.AssetCategory{ID: 1, Label: "Laptop"},
		PurchaseDate:       time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		PurchasePrice:      decimal.NewFromInt(price),
		DepreciationMethod: metadata.MethodStraightLine,
		UsefulLifeYears:    5,
		SalvageValue:       decimal.NewFromInt(price / 10),
	}
}

func TestBuildValuationReportTotals(t *testing.T) {
	source := &stubAssetSource{assets: []models.Asset{
		registerAsset(1, 1, "Physics", 85000, metadata.StatusActive),
		registerAsset(2, 1, "Physics", 40000, metadata.StatusIdle),
		registerAsset(3, 2, "Radiology", 200000, metadata.StatusActive),
	}}
	service := NewReportService(source)

	asOf := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	report, err := service.BuildValuationReport(asOf)

	assert.NoError(t, err)
	assert.Len(t, report.Lines, 3)
	assert.True(t, report.PurchaseTotal.Equal(decimal.NewFromInt(325000)))

	// One year of straight-line depreciation on each asset.
	// 85000 -> 69700, 40000 -> 32800, 200000 -> 164000.
	assert.True(t, report.CurrentTotal.Equal(decimal.NewFromInt(266500)),
		"got %s", report.CurrentTotal)

	assert.Len(t, report.Departments, 2)
	physics := report.Departments[0]
	assert.Equal(t, "Physics", physics.Department)
	assert.Equal(t, 2, physics.AssetCount)
	assert.True(t, physics.CurrentTotal.Equal(decimal.NewFromInt(102500)))
}

func TestBuildValuationReportSkipsDisposedAssets(t *testing.T) {
	source := &stubAssetSource{assets: []models.Asset{
		registerAsset(1, 1, "Physics", 85000, metadata.StatusActive),
		registerAsset(2, 1, "Physics", 40000, metadata.StatusDisposed),
	}}
	service := NewReportService(source)

	report, err := service.BuildValuationReport(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.Len(t, report.Lines, 1)
	assert.Equal(t, 1, report.Lines[0].AssetID)
}

func TestBuildValuationReportSkipsFutureAssets(t *testing.T) {
	future := registerAsset(2, 1, "Physics", 40000, metadata.StatusActive)
	future.PurchaseDate = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	source := &stubAssetSource{assets: []models.Asset{
		registerAsset(1, 1, "Physics", 85000, metadata.StatusActive),
		future,
	}}
	service := NewReportService(source)

	report, err := service.BuildValuationReport(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))

	assert.NoError(t, err)
	assert.Len(t, report.Lines, 1)
}

func TestLastDayOfPreviousMonth(t *testing.T) {
	got := lastDayOfPreviousMonth(time.Date(2026, 3, 1, 0, 15, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), got)

	got = lastDayOfPreviousMonth(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), got)
}
