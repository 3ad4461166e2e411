package maintenance

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"assetregister/internal/registry"
	"assetregister/pkg/models"
)

type MaintenanceRepository struct {
	Repository *registry.Repository
}

func NewMaintenanceRepository(r *registry.Repository) *MaintenanceRepository {
	return &MaintenanceRepository{Repository: r}
}

func (r *MaintenanceRepository) CreateRecord(record *models.MaintenanceRecord) error {
	row := goqu.Record{
		"asset_id":    record.AssetID,
		"title":       record.Title,
		"description": record.Description,
		"status":      record.Status,
		"priority":    record.Priority,
		"reported_by": record.ReportedBy,
		"created_at":  record.CreatedAt,
		"updated_at":  record.UpdatedAt,
	}

	if record.AssignedTo != nil {
		row["assigned_to"] = record.AssignedTo
	}

	query := r.Repository.GoquDBWrapper.Insert("maintenance_records").Rows(row).Returning("id")

	if _, err := query.Executor().ScanVal(&record.ID); err != nil {
		return fmt.Errorf("unable to execute SQL: %w", err)
	}

	return nil
}

func (r *MaintenanceRepository) GetRecord(id int) (*RecordResponse, error) {
	query := r.prepareRecordQuery().Where(goqu.Ex{"mr.id": id})

	var flat FlatRecordResponse

	ok, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("maintenance record not found")
	}

	return flat.TransformToRecordResponse(), nil
}

func (r *MaintenanceRepository) GetRecords(status string, assetID int, limit int, offset int) ([]*RecordResponse, error) {
	query := r.prepareRecordQuery()

	if status != "" {
		query = query.Where(goqu.Ex{"mr.status": status})
	}
	if assetID != 0 {
		query = query.Where(goqu.Ex{"mr.asset_id": assetID})
	}
	query = query.Limit(uint(limit)).Offset(uint(offset)).Order(goqu.I("mr.id").Asc())

	var flatRecords []FlatRecordResponse

	err := query.Executor().ScanStructs(&flatRecords)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	records := make([]*RecordResponse, len(flatRecords))
	for i, flat := range flatRecords {
		records[i] = flat.TransformToRecordResponse()
	}

	return records, nil
}

func (r *MaintenanceRepository) UpdateRecordStatus(recordID int, status string, updatedAt time.Time) error {
	query := r.Repository.GoquDBWrapper.Update("maintenance_records").
		Set(goqu.Record{
			"status":     status,
			"updated_at": updatedAt,
		}).
		Where(goqu.Ex{"id": recordID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("unable to execute SQL: %w", err)
	}

	return nil
}

func (r *MaintenanceRepository) UpdateRecordAssignedTo(recordID int, assignedToID int, updatedAt time.Time) error {
	query := r.Repository.GoquDBWrapper.Update("maintenance_records").
		Set(goqu.Record{
			"assigned_to": assignedToID,
			"updated_at":  updatedAt,
		}).
		Where(goqu.Ex{"id": recordID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("unable to execute SQL: %w", err)
	}

	return nil
}

func (r *MaintenanceRepository) ResolveRecord(recordID int, status string, outcome string, resolvedAt time.Time) error {
	query := r.Repository.GoquDBWrapper.Update("maintenance_records").
		Set(goqu.Record{
			"status":      status,
			"outcome":     outcome,
			"resolved_at": resolvedAt,
			"updated_at":  resolvedAt,
		}).
		Where(goqu.Ex{"id": recordID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("unable to execute SQL: %w", err)
	}

	return nil
}

func (r *MaintenanceRepository) RecordExists(id int) (bool, error) {
	var recordID int
	found, err := r.Repository.GoquDBWrapper.
		Select("id").
		From("maintenance_records").
		Where(goqu.Ex{"id": id}).
		Executor().
		ScanVal(&recordID)
	if err != nil {
		return false, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return found, nil
}

func (r *MaintenanceRepository) CreateComment(comment *models.MaintenanceComment) (int, error) {
	query := r.Repository.GoquDBWrapper.Insert("maintenance_record_comments").
		Rows(goqu.Record{
			"record_id":  comment.RecordID,
			"comment":    comment.Content,
			"user_id":    comment.UserID,
			"created_at": comment.CreatedAt,
		}).
		Returning("id")

	var commentID int

	if _, err := query.Executor().ScanVal(&commentID); err != nil {
		return 0, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return commentID, nil
}

func (r *MaintenanceRepository) GetComment(id int) (*Comment, error) {
	query := r.prepareCommentQuery().Where(goqu.Ex{"mc.id": id})

	var flat FlatComment

	ok, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("comment not found")
	}

	return flat.TransformToComment(), nil
}

func (r *MaintenanceRepository) GetComments(recordID int) ([]*Comment, error) {
	query := r.prepareCommentQuery().
		Where(goqu.Ex{"mc.record_id": recordID}).
		Order(goqu.I("mc.created_at").Asc())

	var flatComments []FlatComment
	err := query.Executor().ScanStructs(&flatComments)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	comments := make([]*Comment, len(flatComments))
	for i, flat := range flatComments {
		comments[i] = flat.TransformToComment()
	}

	return comments, nil
}

func (r *MaintenanceRepository) prepareRecordQuery() *goqu.SelectDataset {
	return r.Repository.GoquDBWrapper.Select(
		goqu.I("mr.id"),
		goqu.I("mr.asset_id"),
		goqu.I("a.tag_code").As("asset_tag_code"),
		goqu.I("mr.title"),
		goqu.I("mr.description"),
		goqu.I("mr.status"),
		goqu.I("mr.priority"),
		goqu.I("mr.outcome"),
		goqu.I("mr.created_at"),
		goqu.I("mr.updated_at"),
		goqu.I("mr.resolved_at"),
		goqu.I("mr.reported_by"),
		goqu.I("ru.username").As("reporter_username"),
		goqu.I("ru.fullname").As("reporter_fullname"),
		goqu.I("mr.assigned_to"),
		goqu.I("au.username").As("assignee_username"),
		goqu.I("au.fullname").As("assignee_fullname"),
	).
		From(goqu.T("maintenance_records").As("mr")).
		LeftJoin(goqu.T("assets").As("a"), goqu.On(goqu.Ex{"mr.asset_id": goqu.I("a.id")})).
		LeftJoin(goqu.T("users").As("ru"), goqu.On(goqu.Ex{"mr.reported_by": goqu.I("ru.id")})).
		LeftJoin(goqu.T("users").As("au"), goqu.On(goqu.Ex{"mr.assigned_to": goqu.I("au.id")}))
}

func (r *MaintenanceRepository) prepareCommentQuery() *goqu.SelectDataset {
	return r.Repository.GoquDBWrapper.Select(
		goqu.I("mc.id"),
		goqu.I("mc.record_id"),
		goqu.I("mc.comment"),
		goqu.I("mc.created_at"),
		goqu.I("mc.user_id"),
		goqu.I("cu.username").As("comment_user_username"),
		goqu.I("cu.fullname").As("comment_user_fullname"),
	).
		From(goqu.T("maintenance_record_comments").As("mc")).
		LeftJoin(goqu.T("users").As("cu"), goqu.On(goqu.Ex{"mc.user_id": goqu.I("cu.id")}))
}
