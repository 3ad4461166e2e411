package registry

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"assetregister/pkg/apperrors"
	"assetregister/pkg/metadata"
	"assetregister/pkg/models"
)

var ErrAssetNotFound = errors.New("asset not found")

type selectSource interface {
	From(table ...interface{}) *goqu.SelectDataset
}

func (r *Repository) assetSelect() *goqu.SelectDataset {
	return assetSelectFrom(r.GoquDBWrapper)
}

func assetSelectFrom(source selectSource) *goqu.SelectDataset {
	return source.
		From(goqu.T("assets").As("a")).
		Join(goqu.T("locations").As("l"), goqu.On(goqu.Ex{"a.location_id": goqu.I("l.id")})).
		Join(goqu.T("departments").As("d"), goqu.On(goqu.Ex{"a.department_id": goqu.I("d.id")})).
		Join(goqu.T("asset_categories").As("c"), goqu.On(goqu.Ex{"a.category_id": goqu.I("c.id")})).
		Select(
			goqu.I("a.id").As("asset_id"),
			goqu.I("a.serial").As("serial"),
			goqu.I("a.tag_code").As("tag_code"),
			goqu.I("a.status").As("status"),
			goqu.I("a.status_changed_at").As("status_changed_at"),
			goqu.I("a.assigned_to_id").As("assigned_to_id"),
			goqu.I("a.purchase_date").As("purchase_date"),
			goqu.I("a.purchase_price").As("purchase_price"),
			goqu.I("a.depreciation_method").As("depreciation_method"),
			goqu.I("a.depreciation_rate").As("depreciation_rate"),
			goqu.I("a.useful_life_years").As("useful_life_years"),
			goqu.I("a.salvage_value").As("salvage_value"),
			goqu.I("a.acquisition").As("acquisition"),
			goqu.I("a.disposal_reason").As("disposal_reason"),
			goqu.I("a.disposed_at").As("disposed_at"),
			goqu.I("l.id").As("location_id"),
			goqu.I("l.name").As("location_name"),
			goqu.I("d.id").As("department_id"),
			goqu.I("d.name").As("department_name"),
			goqu.I("c.id").As("category_id"),
			goqu.I("c.type").As("category_type"),
			goqu.I("c.label").As("category_label"),
			goqu.I("c.tag_prefix").As("category_tag_prefix"),
		)
}

func (r *Repository) GetAsset(assetID int) (*models.Asset, error) {
	var flat models.FlatAssetRecord
	found, err := r.assetSelect().
		Where(goqu.Ex{"a.id": assetID}).
		Executor().
		ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset %d: %w", assetID, err)
	}
	if !found {
		return nil, ErrAssetNotFound
	}

	asset, err := flat.TransformToAsset()
	if err != nil {
		return nil, err
	}

	return &asset, nil
}

func (r *Repository) GetAssets() (*[]models.Asset, error) {
	var flats []models.FlatAssetRecord
	if err := r.assetSelect().Order(goqu.I("a.id").Asc()).Executor().ScanStructs(&flats); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	assets := make([]models.Asset, 0, len(flats))
	for i := range flats {
		asset, err := flats[i].TransformToAsset()
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	return &assets, nil
}

func (r *Repository) GetAssetsByLocation(locationID int) (*[]models.Asset, error) {
	var flats []models.FlatAssetRecord
	err := r.assetSelect().
		Where(goqu.Ex{"a.location_id": locationID}).
		Order(goqu.I("a.id").Asc()).
		Executor().
		ScanStructs(&flats)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	assets := make([]models.Asset, 0, len(flats))
	for i := range flats {
		asset, err := flats[i].TransformToAsset()
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}

	return &assets, nil
}

// GetScopeAssetIDs lists the asset ids currently registered at a location,
// optionally narrowed to one department. Audits snapshot this as their
// expected-present set.
func (r *Repository) GetScopeAssetIDs(locationID int, departmentID *int) ([]int, error) {
	conditions := goqu.Ex{"location_id": locationID}
	if departmentID != nil {
		conditions["department_id"] = *departmentID
	}

	var ids []int
	err := r.GoquDBWrapper.
		From("assets").
		Select("id").
		Where(conditions).
		Order(goqu.I("id").Asc()).
		Executor().
		ScanVals(&ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list scope assets: %w", err)
	}

	return ids, nil
}

func (r *Repository) PersistAsset(req models.AssetRequest, purchaseDate time.Time, price, rate, salvage decimal.Decimal, tagPrefix string) (*models.Asset, error) {
	asset := models.Asset{
		Serial:             req.Serial,
		Status:             metadata.StatusIdle,
		PurchaseDate:       purchaseDate,
		PurchasePrice:      price,
		DepreciationMethod: metadata.DepreciationMethod(req.DepreciationMethod),
		DepreciationRate:   rate,
		UsefulLifeYears:    req.UsefulLifeYears,
		SalvageValue:       salvage,
		Acquisition:        metadata.Acquisition(req.Acquisition),
		Location:           models.Location{ID: req.LocationID},
		Department:         models.Department{ID: req.DepartmentID},
		Category:           models.AssetCategory{ID: req.CategoryID, TagPrefix: tagPrefix},
	}

	err := WithTransaction(r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		insert := tx.Insert("assets").
			Rows(goqu.Record{
				"serial":              req.Serial,
				"tag_code":            "",
				"category_id":         req.CategoryID,
				"location_id":         req.LocationID,
				"department_id":       req.DepartmentID,
				"status":              metadata.StatusIdle.String(),
				"purchase_date":       purchaseDate,
				"purchase_price":      price.String(),
				"depreciation_method": req.DepreciationMethod,
				"depreciation_rate":   rate.String(),
				"useful_life_years":   req.UsefulLifeYears,
				"salvage_value":       salvage.String(),
				"acquisition":         req.Acquisition,
			}).
			Returning("id")

		if _, err := insert.Executor().ScanVal(&asset.ID); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				if pqErr.Code == "23505" {
					return apperrors.WrapDBError("Duplicate serial number for asset", string(pqErr.Code))
				}
			}
			return fmt.Errorf("failed to insert asset record: %w", err)
		}

		// The tag code embeds the generated id, so it is stamped after insert.
		code := metadata.NewTagCode(tagPrefix, asset.ID)
		asset.TagCode = code.GenerateTagCode()

		_, err := tx.Update("assets").
			Set(goqu.Record{"tag_code": asset.TagCode}).
			Where(goqu.Ex{"id": asset.ID}).
			Executor().
			Exec()
		if err != nil {
			return fmt.Errorf("failed to stamp asset tag code: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &asset, nil
}

// GetAssetForUpdate row-locks the asset and reads it inside the caller's
// transaction, so a lifecycle transition cannot race a concurrent one.
func (r *Repository) GetAssetForUpdate(tx *goqu.TxDatabase, assetID int) (*models.Asset, error) {
	// Lock the base row first; the joined read below then sees the locked
	// version.
	var lockedID int
	found, err := tx.
		From("assets").
		Select("id").
		Where(goqu.Ex{"id": assetID}).
		ForUpdate(goqu.Wait).
		Executor().
		ScanVal(&lockedID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock asset %d: %w", assetID, err)
	}
	if !found {
		return nil, ErrAssetNotFound
	}

	var flat models.FlatAssetRecord
	found, err = assetSelectFrom(tx).
		Where(goqu.Ex{"a.id": assetID}).
		Executor().
		ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset %d: %w", assetID, err)
	}
	if !found {
		return nil, ErrAssetNotFound
	}

	asset, err := flat.TransformToAsset()
	if err != nil {
		return nil, err
	}

	return &asset, nil
}

// UpdateAssetLifecycle writes back the fields a lifecycle transition owns,
// inside the transaction that locked the row.
func (r *Repository) UpdateAssetLifecycle(tx *goqu.TxDatabase, asset models.Asset) error {
	record := goqu.Record{
		"status":            asset.Status.String(),
		"status_changed_at": asset.StatusChangedAt,
		"assigned_to_id":    asset.AssignedToID,
		"disposal_reason":   asset.DisposalReason,
		"disposed_at":       asset.DisposedAt,
	}

	result, err := tx.
		Update("assets").
		Set(record).
		Where(goqu.Ex{"id": asset.ID}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to update asset status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if affected == 0 {
		return ErrAssetNotFound
	}

	return nil
}

// AssetPlacement is the location/department/custody snapshot the transfer
// staleness check compares against.
type AssetPlacement struct {
	AssetID      int  `db:"id"`
	LocationID   int  `db:"location_id"`
	DepartmentID int  `db:"department_id"`
	AssignedToID *int `db:"assigned_to_id"`
}

// GetAssetPlacementForUpdate row-locks the asset so the transfer commit
// point cannot race a concurrent approval.
func (r *Repository) GetAssetPlacementForUpdate(tx *goqu.TxDatabase, assetID int) (*AssetPlacement, error) {
	var placement AssetPlacement
	found, err := tx.
		From("assets").
		Select("id", "location_id", "department_id", "assigned_to_id").
		Where(goqu.Ex{"id": assetID}).
		ForUpdate(goqu.Wait).
		Executor().
		ScanStruct(&placement)
	if err != nil {
		return nil, fmt.Errorf("failed to lock asset %d: %w", assetID, err)
	}
	if !found {
		return nil, ErrAssetNotFound
	}

	return &placement, nil
}

func (r *Repository) GetAssetPlacement(assetID int) (*AssetPlacement, error) {
	var placement AssetPlacement
	found, err := r.GoquDBWrapper.
		From("assets").
		Select("id", "location_id", "department_id", "assigned_to_id").
		Where(goqu.Ex{"id": assetID}).
		Executor().
		ScanStruct(&placement)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset %d: %w", assetID, err)
	}
	if !found {
		return nil, ErrAssetNotFound
	}

	return &placement, nil
}

// MoveAsset applies an approved transfer to the asset row inside the
// caller's transaction.
func (r *Repository) MoveAsset(tx *goqu.TxDatabase, assetID, locationID, departmentID int, assignedToID *int) error {
	record := goqu.Record{
		"location_id":   locationID,
		"department_id": departmentID,
	}
	if assignedToID != nil {
		record["assigned_to_id"] = *assignedToID
	}

	_, err := tx.Update("assets").
		Set(record).
		Where(goqu.Ex{"id": assetID}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to move asset %d: %w", assetID, err)
	}

	return nil
}

func (r *Repository) GetCategory(categoryID int) (*models.AssetCategory, error) {
	var category models.AssetCategory
	found, err := r.GoquDBWrapper.
		From("asset_categories").
		Select(
			goqu.I("id").As("category_id"),
			"type",
			"label",
			"tag_prefix",
		).
		Where(goqu.Ex{"id": categoryID}).
		Executor().
		ScanStruct(&category)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category %d: %w", categoryID, err)
	}
	if !found {
		return nil, sql.ErrNoRows
	}

	return &category, nil
}

func (r *Repository) PersistCategory(category *models.AssetCategory) error {
	query := r.GoquDBWrapper.Insert("asset_categories").
		Rows(goqu.Record{
			"type":       category.Type,
			"label":      category.Label,
			"tag_prefix": category.TagPrefix,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&category.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return apperrors.WrapDBError("Duplicate category type", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert category record: %w", err)
	}

	return nil
}

func (r *Repository) GetCategories() (*[]models.AssetCategory, error) {
	var categories = []models.AssetCategory{}
	query := r.GoquDBWrapper.
		From("asset_categories").
		Select(
			goqu.I("id").As("category_id"),
			"type",
			"label",
			"tag_prefix",
		)
	if err := query.Executor().ScanStructs(&categories); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return &categories, nil
}
