package valuation

import (
	"time"

	"github.com/shopspring/decimal"

	"assetregister/pkg/apperrors"
	"assetregister/pkg/metadata"
	"assetregister/pkg/models"
)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Result is the book value of an asset at a point in time.
type Result struct {
	AsOf                    time.Time       `json:"as_of"`
	CurrentValue            decimal.Decimal `json:"current_value"`
	AccumulatedDepreciation decimal.Decimal `json:"accumulated_depreciation"`
	FullyDepreciated        bool            `json:"fully_depreciated"`
}

// Compute returns the depreciated book value of the asset as of the given
// date. Depreciation accrues on completed-month boundaries. Once an asset is
// condemned or disposed the as-of date is clamped to the status-change
// timestamp, so the value is frozen from that point on.
func Compute(asset models.Asset, asOf time.Time) (Result, error) {
	if asOf.Before(asset.PurchaseDate) {
		return Result{}, &apperrors.InvalidAsOfDateError{
			AsOf:         asOf,
			PurchaseDate: asset.PurchaseDate,
		}
	}

	effective := asOf
	if asset.Terminal() && asset.StatusChangedAt != nil && effective.After(*asset.StatusChangedAt) {
		effective = *asset.StatusChangedAt
	}

	months := elapsedMonths(asset.PurchaseDate, effective)

	var currentValue decimal.Decimal
	switch asset.DepreciationMethod {
	case metadata.MethodWrittenDownValue:
		currentValue = writtenDownValue(asset, months)
	default:
		currentValue = straightLineValue(asset, months)
	}

	if currentValue.LessThan(asset.SalvageValue) {
		currentValue = asset.SalvageValue
	}
	currentValue = currentValue.Round(2)

	return Result{
		AsOf:                    asOf,
		CurrentValue:            currentValue,
		AccumulatedDepreciation: asset.PurchasePrice.Sub(currentValue).Round(2),
		FullyDepreciated:        currentValue.Equal(asset.SalvageValue),
	}, nil
}

// Project evaluates Compute at each date. The asset's status is assumed to
// stay in its current bucket; future status changes are not simulated.
func Project(asset models.Asset, dates []time.Time) ([]Result, error) {
	results := make([]Result, 0, len(dates))
	for _, d := range dates {
		result, err := Compute(asset, d)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// Schedule projects the book value on each purchase anniversary for the
// given number of years, the shape the reporting pages chart.
func Schedule(asset models.Asset, years int) ([]Result, error) {
	dates := make([]time.Time, 0, years)
	for i := 1; i <= years; i++ {
		dates = append(dates, asset.PurchaseDate.AddDate(i, 0, 0))
	}
	return Project(asset, dates)
}

// straightLineValue charges (price - salvage) / usefulLife per year,
// prorated to completed months.
func straightLineValue(asset models.Asset, months int) decimal.Decimal {
	annual := asset.PurchasePrice.Sub(asset.SalvageValue).
		Div(decimal.NewFromInt(int64(asset.UsefulLifeYears)))
	accrued := annual.Mul(decimal.NewFromInt(int64(months))).Div(twelve)
	return asset.PurchasePrice.Sub(accrued)
}

// writtenDownValue compounds the declining-balance rate annually; partial
// years do not accrue.
func writtenDownValue(asset models.Asset, months int) decimal.Decimal {
	years := months / 12
	factor := decimal.NewFromInt(1).Sub(asset.DepreciationRate.Div(hundred))
	return asset.PurchasePrice.Mul(factor.Pow(decimal.NewFromInt(int64(years))))
}

// elapsedMonths counts completed calendar months between from and to.
func elapsedMonths(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
