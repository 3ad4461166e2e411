package models

import (
	"time"

	"github.com/shopspring/decimal"

	"assetregister/pkg/metadata"
)

type Asset struct {
	ID                 int                         `json:"id" db:"asset_id"`
	Serial             string                      `json:"serial" db:"serial"`
	TagCode            string                      `json:"tag_code" db:"tag_code"`
	Category           AssetCategory               `json:"category"`
	Status             metadata.Status             `json:"status"`
	StatusChangedAt    *time.Time                  `json:"status_changed_at,omitempty"`
	Location           Location                    `json:"location"`
	Department         Department                  `json:"department"`
	AssignedToID       *int                        `json:"assigned_to_id,omitempty"`
	PurchaseDate       time.Time                   `json:"purchase_date"`
	PurchasePrice      decimal.Decimal             `json:"purchase_price"`
	DepreciationMethod metadata.DepreciationMethod `json:"depreciation_method"`
	DepreciationRate   decimal.Decimal             `json:"depreciation_rate"`
	UsefulLifeYears    int                         `json:"useful_life_years"`
	SalvageValue       decimal.Decimal             `json:"salvage_value"`
	Acquisition        metadata.Acquisition        `json:"acquisition"`
	DisposalReason     *string                     `json:"disposal_reason,omitempty"`
	DisposedAt         *time.Time                  `json:"disposed_at,omitempty"`
}

// Terminal reports whether the asset has left economic life. Once terminal
// the book value is frozen at StatusChangedAt and no event may move it back.
func (a *Asset) Terminal() bool {
	return a.Status == metadata.StatusCondemned || a.Status == metadata.StatusDisposed
}

type FlatAssetRecord struct {
	ID                 int        `db:"asset_id"`
	Serial             string     `db:"serial"`
	TagCode            string     `db:"tag_code"`
	Status             string     `db:"status"`
	StatusChangedAt    *time.Time `db:"status_changed_at"`
	AssignedToID       *int       `db:"assigned_to_id"`
	PurchaseDate       time.Time  `db:"purchase_date"`
	PurchasePrice      string     `db:"purchase_price"`
	DepreciationMethod string     `db:"depreciation_method"`
	DepreciationRate   string     `db:"depreciation_rate"`
	UsefulLifeYears    int        `db:"useful_life_years"`
	SalvageValue       string     `db:"salvage_value"`
	Acquisition        string     `db:"acquisition"`
	DisposalReason     *string    `db:"disposal_reason"`
	DisposedAt         *time.Time `db:"disposed_at"`
	LocationID         int        `db:"location_id"`
	LocationName       string     `db:"location_name"`
	DepartmentID       int        `db:"department_id"`
	DepartmentName     string     `db:"department_name"`
	CategoryID         int        `db:"category_id"`
	CategoryType       string     `db:"category_type"`
	CategoryLabel      string     `db:"category_label"`
	CategoryTagPrefix  string     `db:"category_tag_prefix"`
}

func (fa *FlatAssetRecord) TransformToAsset() (Asset, error) {
	price, err := decimal.NewFromString(fa.PurchasePrice)
	if err != nil {
		return Asset{}, err
	}
	rate, err := decimal.NewFromString(fa.DepreciationRate)
	if err != nil {
		return Asset{}, err
	}
	salvage, err := decimal.NewFromString(fa.SalvageValue)
	if err != nil {
		return Asset{}, err
	}

	return Asset{
		ID:                 fa.ID,
		Serial:             fa.Serial,
		TagCode:            fa.TagCode,
		Status:             metadata.Status(fa.Status),
		StatusChangedAt:    fa.StatusChangedAt,
		AssignedToID:       fa.AssignedToID,
		PurchaseDate:       fa.PurchaseDate,
		PurchasePrice:      price,
		DepreciationMethod: metadata.DepreciationMethod(fa.DepreciationMethod),
		DepreciationRate:   rate,
		UsefulLifeYears:    fa.UsefulLifeYears,
		SalvageValue:       salvage,
		Acquisition:        metadata.Acquisition(fa.Acquisition),
		DisposalReason:     fa.DisposalReason,
		DisposedAt:         fa.DisposedAt,
		Location: Location{
			ID:   fa.LocationID,
			Name: fa.LocationName,
		},
		Department: Department{
			ID:   fa.DepartmentID,
			Name: fa.DepartmentName,
		},
		Category: AssetCategory{
			ID:        fa.CategoryID,
			Type:      fa.CategoryType,
			Label:     fa.CategoryLabel,
			TagPrefix: fa.CategoryTagPrefix,
		},
	}, nil
}

func (a *Asset) CreateLogView() ActivityLog {
	return ActivityLog{
		ResourceID:   a.ID,
		ResourceType: "asset",
	}
}
