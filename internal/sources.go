package internal

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2beens/sportanalytics/internal/config"
	"github.com/2beens/sportanalytics/internal/gymstats/dashboard"
	"github.com/2beens/sportanalytics/internal/gymstats/sheets"

	"google.golang.org/api/option"
)

// newWorkoutSource picks the workout data source configured for the service.
func newWorkoutSource(
	ctx context.Context,
	cfg *config.Config,
	googleCredentialsJSON []byte,
	httpClient *http.Client,
) (dashboard.Source, error) {
	switch cfg.DataSource {
	case config.DataSourceCSV:
		return sheets.NewCSVSource(cfg.LocalExportPath, cfg.SheetHeaderRow), nil
	case config.DataSourceXLSX:
		return sheets.NewXLSXSource(cfg.LocalExportPath, cfg.Worksheet, cfg.SheetHeaderRow), nil
	case config.DataSourceGoogleSheets:
		var opts []option.ClientOption
		if len(googleCredentialsJSON) > 0 {
			var err error
			opts, err = sheets.GoogleClientOptions(ctx, googleCredentialsJSON, httpClient)
			if err != nil {
				return nil, err
			}
		} else {
			// application default credentials
			opts = append(opts, option.WithScopes(
				"https://www.googleapis.com/auth/spreadsheets.readonly",
				"https://www.googleapis.com/auth/drive.metadata.readonly",
			))
		}
		return sheets.NewGoogleSheetsSource(ctx, sheets.GoogleSheetsParams{
			SpreadsheetID:   cfg.SpreadsheetID,
			SpreadsheetName: cfg.SpreadsheetName,
			Worksheet:       cfg.Worksheet,
			HeaderRow:       cfg.SheetHeaderRow,
		}, opts...)
	default:
		return nil, fmt.Errorf("unknown data source: %s", cfg.DataSource)
	}
}
