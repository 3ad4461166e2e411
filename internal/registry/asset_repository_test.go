package registry

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"assetregister/pkg/metadata"
)

func assetColumns() []string {
	return []string{
		"asset_id", "serial", "tag_code", "status", "status_changed_at",
		"assigned_to_id", "purchase_date", "purchase_price",
		"depreciation_method", "depreciation_rate", "useful_life_years",
		"salvage_value", "acquisition", "disposal_reason", "disposed_at",
		"location_id", "location_name", "department_id", "department_name",
		"category_id", "category_type", "category_label", "category_tag_prefix",
	}
}

func TestGetAsset(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error opening stub database: %s", err)
	}
	defer db.Close()

	repo := NewRepository(db)
	purchased := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(assetColumns()).AddRow(
		7, "SN-0007", "LAP-0007", "active", nil,
		nil, purchased, "85000",
		"straight_line", "0", 5,
		"8500", "purchase", nil, nil,
		1, "Central store", 2, "Physics",
		3, "laptop", "Laptop", "LAP",
	)

	mock.ExpectQuery(`SELECT (.+) FROM "assets"`).WillReturnRows(rows)

	asset, err := repo.GetAsset(7)

	assert.NoError(t, err)
	assert.Equal(t, 7, asset.ID)
	assert.Equal(t, "LAP-0007", asset.TagCode)
	assert.Equal(t, metadata.StatusActive, asset.Status)
	assert.Equal(t, "Physics", asset.Department.Name)
	assert.True(t, asset.PurchasePrice.Equal(decimal.NewFromInt(85000)))
	assert.True(t, asset.SalvageValue.Equal(decimal.NewFromInt(8500)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAssetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error opening stub database: %s", err)
	}
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM "assets"`).
		WillReturnRows(sqlmock.NewRows(assetColumns()))

	asset, err := repo.GetAsset(404)

	assert.Nil(t, asset)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestGetScopeAssetIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("unexpected error opening stub database: %s", err)
	}
	defer db.Close()

	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2).AddRow(5)
	mock.ExpectQuery(`SELECT "id" FROM "assets"`).WillReturnRows(rows)

	ids, err := repo.GetScopeAssetIDs(1, nil)

	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 5}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
