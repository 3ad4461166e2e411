package reports

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsExporter pushes a valuation report into a Google Sheets
// spreadsheet for the finance office.
type SheetsExporter struct {
	sheetsService *sheets.Service
	spreadsheetID string
}

func NewSheetsExporter() (*SheetsExporter, error) {
	ctx := context.Background()

	spreadsheetID := os.Getenv("VALUATION_SPREADSHEET_ID")
	if spreadsheetID == "" {
		return nil, fmt.Errorf("VALUATION_SPREADSHEET_ID environment variable is not set")
	}

	credentialsJSON := os.Getenv("GOOGLE_SHEETS_CREDENTIALS_JSON")
	var credentials *google.Credentials
	var err error

	if credentialsJSON != "" {
		credentials, err = google.CredentialsFromJSON(ctx, []byte(credentialsJSON), sheets.SpreadsheetsScope)
	} else {
		// Local file fallback for development environments.
		b, readErr := os.ReadFile("configs/google-credentials.json")
		if readErr != nil {
			return nil, fmt.Errorf("unable to read Google credentials file: %w", readErr)
		}
		credentials, err = google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsScope)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load Google credentials: %w", err)
	}

	client := oauth2.NewClient(ctx, credentials.TokenSource)
	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Google Sheets client: %w", err)
	}

	return &SheetsExporter{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
	}, nil
}

// Export overwrites the Valuation sheet with the report's rows.
func (e *SheetsExporter) Export(report *ValuationReport) error {
	values := [][]interface{}{
		{
			"Tag code", "Serial", "Category", "Location", "Department",
			"Status", "Purchase date", "Purchase price", "Current value",
			"Accumulated depreciation",
		},
	}

	for _, line := range report.Lines {
		values = append(values, []interface{}{
			line.TagCode,
			line.Serial,
			line.Category,
			line.Location,
			line.Department,
			line.Status,
			line.PurchaseDate.Format("2006-01-02"),
			line.PurchasePrice.String(),
			line.CurrentValue.String(),
			line.AccumulatedDepreciation.String(),
		})
	}

	values = append(values, []interface{}{
		"TOTAL", "", "", "", "", "",
		report.AsOf.Format("2006-01-02"),
		report.PurchaseTotal.String(),
		report.CurrentTotal.String(),
		report.PurchaseTotal.Sub(report.CurrentTotal).String(),
	})

	valueRange := &sheets.ValueRange{Values: values}

	_, err := e.sheetsService.Spreadsheets.Values.
		Update(e.spreadsheetID, "Valuation!A1", valueRange).
		ValueInputOption("RAW").
		Do()
	if err != nil {
		return fmt.Errorf("unable to write valuation sheet: %w", err)
	}

	return nil
}
