package models

type AssetCategory struct {
	ID        int    `json:"id,omitempty" db:"category_id"`
	Type      string `json:"type,omitempty" binding:"required,alphanum" db:"type"`
	Label     string `json:"label,omitempty" binding:"required" db:"label"`
	TagPrefix string `json:"tag_prefix" binding:"omitempty,alphanum,min=1,max=3" db:"tag_prefix"`
}
