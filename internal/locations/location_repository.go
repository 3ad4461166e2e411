package locations

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"assetregister/internal/registry"
	"assetregister/pkg/apperrors"
	"assetregister/pkg/models"
)

type LocationRepository struct {
	Repository *registry.Repository
}

func NewLocationRepository(r *registry.Repository) *LocationRepository {
	return &LocationRepository{Repository: r}
}

type UpdateLocationRequest struct {
	Name     *string `json:"name"`
	Building *string `json:"building"`
	Details  *string `json:"details"`
}

func (r *LocationRepository) GetLocations() (*[]models.Location, error) {
	var locations = []models.Location{}
	query := r.Repository.GoquDBWrapper.
		Select("id", "name", "building", "details").
		From("locations").
		Order(goqu.I("name").Asc())
	if err := query.Executor().ScanStructs(&locations); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return &locations, nil
}

func (r *LocationRepository) PersistLocation(location *models.Location) error {
	query := r.Repository.GoquDBWrapper.Insert("locations").
		Rows(goqu.Record{
			"name":     location.Name,
			"building": location.Building,
			"details":  location.Details,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&location.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return apperrors.WrapDBError("Duplicate location name", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert location record: %w", err)
	}

	return nil
}

func (r *LocationRepository) UpdateLocation(locationID int, req UpdateLocationRequest) (models.Location, error) {
	updates := goqu.Record{}

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Building != nil {
		updates["building"] = *req.Building
	}
	if req.Details != nil {
		updates["details"] = *req.Details
	}
	if len(updates) == 0 {
		return models.Location{}, fmt.Errorf("no fields to update")
	}

	query := r.Repository.GoquDBWrapper.
		Update("locations").
		Set(updates).
		Where(goqu.Ex{"id": locationID}).
		Returning("id", "name", "building", "details")

	var location models.Location

	found, err := query.Executor().ScanStruct(&location)
	if err != nil {
		return models.Location{}, fmt.Errorf("failed to update location: %w", err)
	}
	if !found {
		return models.Location{}, fmt.Errorf("no location found with id: %d", locationID)
	}

	return location, nil
}

func (r *LocationRepository) RemoveLocation(locationID int) error {
	result, err := r.Repository.GoquDBWrapper.Delete("locations").
		Where(goqu.Ex{"id": locationID}).
		Executor().
		Exec()
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return apperrors.WrapDBError("Location still holds assets", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete location: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("no location found with id: %d", locationID)
	}

	return nil
}
