package departments

import (
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"assetregister/internal/registry"
	"assetregister/pkg/apperrors"
	"assetregister/pkg/models"
)

type DepartmentRepository struct {
	Repository *registry.Repository
}

func NewDepartmentRepository(r *registry.Repository) *DepartmentRepository {
	return &DepartmentRepository{Repository: r}
}

type UpdateDepartmentRequest struct {
	Name   *string `json:"name"`
	HeadID *int    `json:"head_id"`
	Notes  *string `json:"notes"`
}

func (r *DepartmentRepository) GetDepartments() (*[]models.Department, error) {
	var departments = []models.Department{}
	query := r.Repository.GoquDBWrapper.
		Select("id", "name", "code", "head_id", "notes").
		From("departments").
		Order(goqu.I("code").Asc())
	if err := query.Executor().ScanStructs(&departments); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return &departments, nil
}

func (r *DepartmentRepository) GetDepartment(departmentID int) (*models.Department, error) {
	var department models.Department
	found, err := r.Repository.GoquDBWrapper.
		Select("id", "name", "code", "head_id", "notes").
		From("departments").
		Where(goqu.Ex{"id": departmentID}).
		Executor().
		ScanStruct(&department)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no department found with id: %d", departmentID)
	}

	return &department, nil
}

func (r *DepartmentRepository) PersistDepartment(department *models.Department) error {
	query := r.Repository.GoquDBWrapper.Insert("departments").
		Rows(goqu.Record{
			"name":    department.Name,
			"code":    department.Code,
			"head_id": department.HeadID,
			"notes":   department.Notes,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&department.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return apperrors.WrapDBError("Duplicate department code", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert department record: %w", err)
	}

	return nil
}

func (r *DepartmentRepository) UpdateDepartment(departmentID int, req UpdateDepartmentRequest) (models.Department, error) {
	updates := goqu.Record{}

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.HeadID != nil {
		updates["head_id"] = *req.HeadID
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) == 0 {
		return models.Department{}, fmt.Errorf("no fields to update")
	}

	query := r.Repository.GoquDBWrapper.
		Update("departments").
		Set(updates).
		Where(goqu.Ex{"id": departmentID}).
		Returning("id", "name", "code", "head_id", "notes")

	var department models.Department

	found, err := query.Executor().ScanStruct(&department)
	if err != nil {
		return models.Department{}, fmt.Errorf("failed to update department: %w", err)
	}
	if !found {
		return models.Department{}, fmt.Errorf("no department found with id: %d", departmentID)
	}

	return department, nil
}

func (r *DepartmentRepository) RemoveDepartment(departmentID int) error {
	result, err := r.Repository.GoquDBWrapper.Delete("departments").
		Where(goqu.Ex{"id": departmentID}).
		Executor().
		Exec()
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return apperrors.WrapDBError("Department still holds assets", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete department: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("no department found with id: %d", departmentID)
	}

	return nil
}
