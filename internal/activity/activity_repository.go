package activity

import (
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"assetregister/internal/registry"
	"assetregister/pkg/models"
)

type ActivityLogRepository struct {
	repository *registry.Repository
}

func (r *ActivityLogRepository) PersistLog(entry models.ActivityLog, logData interface{}) error {
	dataJSON, err := json.Marshal(logData)
	if err != nil {
		return fmt.Errorf("failed to marshal activity log data: %w", err)
	}

	query := r.repository.GoquDBWrapper.Insert("activity_logs").
		Rows(goqu.Record{
			"resource_id":   entry.ResourceID,
			"resource_type": entry.ResourceType,
			"action":        entry.Action,
			"data":          dataJSON,
			"user_id":       entry.UserID,
		})

	_, err = query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to insert activity log: %w", err)
	}

	return nil
}

func (r *ActivityLogRepository) GetResourceLog(id int, resourceType string) (*[]models.ActivityLog, error) {
	query := r.repository.GoquDBWrapper.
		From(goqu.T("activity_logs").As("a")).
		Select(
			goqu.I("a.id").As("id"),
			goqu.I("a.resource_id").As("resource_id"),
			goqu.I("a.resource_type").As("resource_type"),
			goqu.I("a.action").As("action"),
			goqu.I("a.data").As("data"),
			goqu.I("a.created_at").As("created_at"),
		).
		Where(goqu.Ex{
			"a.resource_id":   id,
			"a.resource_type": resourceType,
		}).
		Order(goqu.I("a.created_at").Asc())

	rows, err := query.Executor().Query()
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	defer rows.Close()

	var entries []models.ActivityLog
	for rows.Next() {
		var entry models.ActivityLog
		if err := rows.Scan(
			&entry.ID,
			&entry.ResourceID,
			&entry.ResourceType,
			&entry.Action,
			&entry.DataRaw,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity log row: %w", err)
		}
		entry.LoadFromDB()
		entries = append(entries, entry)
	}

	return &entries, nil
}

func NewRepository(r *registry.Repository) *ActivityLogRepository {
	return &ActivityLogRepository{repository: r}
}
