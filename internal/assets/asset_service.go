package assets

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"assetregister/internal/registry"
	"assetregister/pkg/activity"
	"assetregister/pkg/metadata"
	"assetregister/pkg/models"
)

type AssetService struct {
	repo     *registry.Repository
	recorder *activity.Recorder
}

func NewAssetService(repo *registry.Repository, recorder *activity.Recorder) *AssetService {
	return &AssetService{
		repo:     repo,
		recorder: recorder,
	}
}

// RegisterAsset validates the valuation inputs and persists the asset. The
// inputs are immutable after this point; there is no recomputation contract
// for editing them later.
func (s *AssetService) RegisterAsset(req models.AssetRequest) (*models.Asset, error) {
	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase date %q: %w", req.PurchaseDate, err)
	}

	if _, err := metadata.NewDepreciationMethod(req.DepreciationMethod); err != nil {
		return nil, err
	}

	if req.Acquisition == "" {
		req.Acquisition = metadata.AcquisitionPurchase.String()
	}
	acquisition, err := metadata.NewAcquisition(req.Acquisition)
	if err != nil {
		return nil, err
	}
	req.Acquisition = acquisition.String()

	price, err := decimal.NewFromString(req.PurchasePrice)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase price %q: %w", req.PurchasePrice, err)
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("purchase price must be positive")
	}

	salvage := decimal.Zero
	if req.SalvageValue != "" {
		if salvage, err = decimal.NewFromString(req.SalvageValue); err != nil {
			return nil, fmt.Errorf("invalid salvage value %q: %w", req.SalvageValue, err)
		}
	}
	if salvage.IsNegative() || salvage.GreaterThanOrEqual(price) {
		return nil, fmt.Errorf("salvage value must satisfy 0 <= salvage < purchase price")
	}

	rate := decimal.Zero
	if req.DepreciationRate != "" {
		if rate, err = decimal.NewFromString(req.DepreciationRate); err != nil {
			return nil, fmt.Errorf("invalid depreciation rate %q: %w", req.DepreciationRate, err)
		}
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("depreciation rate must be between 0 and 100")
	}
	if metadata.DepreciationMethod(req.DepreciationMethod) == metadata.MethodWrittenDownValue && rate.IsZero() {
		return nil, fmt.Errorf("written-down value depreciation requires a rate")
	}

	if req.UsefulLifeYears <= 0 {
		return nil, fmt.Errorf("useful life must be a positive number of years")
	}

	category, err := s.repo.GetCategory(req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve category %d: %w", req.CategoryID, err)
	}

	asset, err := s.repo.PersistAsset(req, purchaseDate, price, rate, salvage, category.TagPrefix)
	if err != nil {
		return nil, err
	}
	asset.Category = *category

	go s.recorder.Log(
		"create",
		map[string]interface{}{
			"serial":        asset.Serial,
			"tag_code":      asset.TagCode,
			"location_id":   asset.Location.ID,
			"department_id": asset.Department.ID,
			"msg":           "Asset registered",
		},
		asset,
	)

	return asset, nil
}
