package models

const DefaultStoreLocationID = 1

type Location struct {
	ID       int     `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Building *string `json:"building" db:"building"`
	Details  *string `json:"details" db:"details"`
}
