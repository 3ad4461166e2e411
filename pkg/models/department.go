package models

type Department struct {
	ID     int     `json:"id" db:"id"`
	Name   string  `json:"name" db:"name"`
	Code   string  `json:"code" db:"code"`
	HeadID *int    `json:"head_id,omitempty" db:"head_id"`
	Notes  *string `json:"notes,omitempty" db:"notes"`
}
