package models

type AssetRequest struct {
	Serial             string `json:"serial" binding:"required"`
	CategoryID         int    `json:"category_id" binding:"required"`
	LocationID         int    `json:"location_id" default:"1"`
	DepartmentID       int    `json:"department_id" binding:"required"`
	PurchaseDate       string `json:"purchase_date" binding:"required"`
	PurchasePrice      string `json:"purchase_price" binding:"required"`
	DepreciationMethod string `json:"depreciation_method" binding:"required"`
	DepreciationRate   string `json:"depreciation_rate"`
	UsefulLifeYears    int    `json:"useful_life_years" binding:"required,gte=1"`
	SalvageValue       string `json:"salvage_value"`
	Acquisition        string `json:"acquisition"`
}
