package maintenance

import (
	"time"
)

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type RecordUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
}

type RecordResponse struct {
	ID             int         `json:"id,omitempty"`
	AssetID        int         `json:"asset_id"`
	AssetTagCode   *string     `json:"asset_tag_code,omitempty"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Status         string      `json:"status"`
	Priority       string      `json:"priority"`
	Outcome        *string     `json:"outcome,omitempty"`
	CreatedAt      time.Time   `json:"created_at,omitempty"`
	UpdatedAt      time.Time   `json:"updated_at,omitempty"`
	ResolvedAt     *time.Time  `json:"resolved_at,omitempty"`
	ReportedByUser *RecordUser `json:"reported_by_user,omitempty"`
	AssignedToUser *RecordUser `json:"assigned_to_user,omitempty"`
}

type FlatRecordResponse struct {
	ID                 int        `db:"id"`
	AssetID            int        `db:"asset_id"`
	AssetTagCode       *string    `db:"asset_tag_code"`
	Title              string     `db:"title"`
	Description        string     `db:"description"`
	Status             string     `db:"status"`
	Priority           string     `db:"priority"`
	Outcome            *string    `db:"outcome"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	ResolvedAt         *time.Time `db:"resolved_at"`
	ReportedByID       *int       `db:"reported_by"`
	ReportedByUsername *string    `db:"reporter_username"`
	ReportedByFullname *string    `db:"reporter_fullname"`
	AssignedToID       *int       `db:"assigned_to"`
	AssignedToUsername *string    `db:"assignee_username"`
	AssignedToFullname *string    `db:"assignee_fullname"`
}

func (fr *FlatRecordResponse) TransformToRecordResponse() *RecordResponse {
	res := RecordResponse{
		ID:           fr.ID,
		AssetID:      fr.AssetID,
		AssetTagCode: fr.AssetTagCode,
		Title:        fr.Title,
		Description:  fr.Description,
		Status:       fr.Status,
		Priority:     fr.Priority,
		Outcome:      fr.Outcome,
		CreatedAt:    fr.CreatedAt,
		UpdatedAt:    fr.UpdatedAt,
		ResolvedAt:   fr.ResolvedAt,
	}

	if fr.ReportedByID != nil {
		res.ReportedByUser = &RecordUser{
			ID:       *fr.ReportedByID,
			Username: *fr.ReportedByUsername,
			Fullname: *fr.ReportedByFullname,
		}
	}

	if fr.AssignedToID != nil {
		res.AssignedToUser = &RecordUser{
			ID:       *fr.AssignedToID,
			Username: *fr.AssignedToUsername,
			Fullname: *fr.AssignedToFullname,
		}
	}

	return &res
}

type Comment struct {
	ID        int         `json:"id"`
	RecordID  int         `json:"record_id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	User      *RecordUser `json:"user"`
}

type FlatComment struct {
	ID        int       `db:"id"`
	RecordID  int       `db:"record_id"`
	Content   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
	UserID    int       `db:"user_id"`
	Username  string    `db:"comment_user_username"`
	Fullname  string    `db:"comment_user_fullname"`
}

func (fc *FlatComment) TransformToComment() *Comment {
	return &Comment{
		ID:        fc.ID,
		RecordID:  fc.RecordID,
		Content:   fc.Content,
		CreatedAt: fc.CreatedAt,
		User: &RecordUser{
			ID:       fc.UserID,
			Username: fc.Username,
			Fullname: fc.Fullname,
		},
	}
}
