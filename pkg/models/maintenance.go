package models

import "time"

// MaintenanceRecord is opened when an asset enters maintenance and closed
// with an outcome that drives the asset back to active or into repair.
type MaintenanceRecord struct {
	ID          int        `json:"id,omitempty"`
	AssetID     int        `json:"asset_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	ReportedBy  int        `json:"reported_by"`
	AssignedTo  *int       `json:"assigned_to,omitempty"`
	Outcome     *string    `json:"outcome,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

func (m *MaintenanceRecord) CreateLogView() ActivityLog {
	return ActivityLog{
		ResourceID:   m.ID,
		ResourceType: "maintenance",
	}
}

type MaintenanceComment struct {
	ID        int       `json:"id" db:"id"`
	RecordID  int       `json:"record_id" db:"record_id"`
	Content   string    `json:"content" db:"comment"`
	UserID    int       `json:"created_by" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
