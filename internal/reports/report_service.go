package reports

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"assetregister/internal/valuation"
	"assetregister/pkg/metadata"
	"assetregister/pkg/models"
)

// ValuationLine is one asset's row in the register valuation report.
type ValuationLine struct {
	AssetID                 int             `json:"asset_id"`
	TagCode                 string          `json:"tag_code"`
	Serial                  string          `json:"serial"`
	Category                string          `json:"category"`
	Location                string          `json:"location"`
	Department              string          `json:"department"`
	DepartmentID            int             `json:"department_id"`
	Status                  string          `json:"status"`
	PurchaseDate            time.Time       `json:"purchase_date"`
	PurchasePrice           decimal.Decimal `json:"purchase_price"`
	CurrentValue            decimal.Decimal `json:"current_value"`
	AccumulatedDepreciation decimal.Decimal `json:"accumulated_depreciation"`
	FullyDepreciated        bool            `json:"fully_depreciated"`
}

type DepartmentTotal struct {
	DepartmentID  int             `json:"department_id"`
	Department    string          `json:"department"`
	AssetCount    int             `json:"asset_count"`
	PurchaseTotal decimal.Decimal `json:"purchase_total"`
	CurrentTotal  decimal.Decimal `json:"current_total"`
}

type ValuationReport struct {
	AsOf          time.Time         `json:"as_of"`
	GeneratedAt   time.Time         `json:"generated_at"`
	Lines         []ValuationLine   `json:"lines"`
	Departments   []DepartmentTotal `json:"departments"`
	PurchaseTotal decimal.Decimal   `json:"purchase_total"`
	CurrentTotal  decimal.Decimal   `json:"current_total"`
}

// AssetSource is the slice of the registry the report needs.
type AssetSource interface {
	GetAssets() (*[]models.Asset, error)
}

type ReportService struct {
	assets AssetSource
}

func NewReportService(assets AssetSource) *ReportService {
	return &ReportService{assets: assets}
}

// BuildValuationReport values every non-disposed asset as of the given
// date. Assets purchased after the date are excluded rather than failing
// the whole report.
func (s *ReportService) BuildValuationReport(asOf time.Time) (*ValuationReport, error) {
	assets, err := s.assets.GetAssets()
	if err != nil {
		return nil, err
	}

	report := &ValuationReport{
		AsOf:          asOf,
		GeneratedAt:   time.Now(),
		Lines:         make([]ValuationLine, 0, len(*assets)),
		PurchaseTotal: decimal.Zero,
		CurrentTotal:  decimal.Zero,
	}

	departmentTotals := make(map[int]*DepartmentTotal)

	for _, asset := range *assets {
		if asset.Status == metadata.StatusDisposed {
			continue
		}
		if asset.PurchaseDate.After(asOf) {
			continue
		}

		result, err := valuation.Compute(asset, asOf)
		if err != nil {
			return nil, err
		}

		report.Lines = append(report.Lines, ValuationLine{
			AssetID:                 asset.ID,
			TagCode:                 asset.TagCode,
			Serial:                  asset.Serial,
			Category:                asset.Category.Label,
			Location:                asset.Location.Name,
			Department:              asset.Department.Name,
			DepartmentID:            asset.Department.ID,
			Status:                  asset.Status.String(),
			PurchaseDate:            asset.PurchaseDate,
			PurchasePrice:           asset.PurchasePrice,
			CurrentValue:            result.CurrentValue,
			AccumulatedDepreciation: result.AccumulatedDepreciation,
			FullyDepreciated:        result.FullyDepreciated,
		})

		report.PurchaseTotal = report.PurchaseTotal.Add(asset.PurchasePrice)
		report.CurrentTotal = report.CurrentTotal.Add(result.CurrentValue)

		total, ok := departmentTotals[asset.Department.ID]
		if !ok {
			total = &DepartmentTotal{
				DepartmentID:  asset.Department.ID,
				Department:    asset.Department.Name,
				PurchaseTotal: decimal.Zero,
				CurrentTotal:  decimal.Zero,
			}
			departmentTotals[asset.Department.ID] = total
		}
		total.AssetCount++
		total.PurchaseTotal = total.PurchaseTotal.Add(asset.PurchasePrice)
		total.CurrentTotal = total.CurrentTotal.Add(result.CurrentValue)
	}

	report.Departments = make([]DepartmentTotal, 0, len(departmentTotals))
	for _, total := range departmentTotals {
		report.Departments = append(report.Departments, *total)
	}
	sort.Slice(report.Departments, func(i, j int) bool {
		return report.Departments[i].DepartmentID < report.Departments[j].DepartmentID
	})

	return report, nil
}
