package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/2beens/sportanalytics/internal/gymstats/workouts"
	"github.com/2beens/sportanalytics/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

var ErrSpreadsheetNotFound = errors.New("spreadsheet not found")

type GoogleSheetsParams struct {
	// SpreadsheetID wins over SpreadsheetName when both are set.
	SpreadsheetID   string
	SpreadsheetName string
	Worksheet       string
	HeaderRow       int
}

// GoogleSheetsSource reads the workout log from a Google spreadsheet.
type GoogleSheetsSource struct {
	params GoogleSheetsParams
	sheets *sheets.Service
	drive  *drive.Service
}

// GoogleClientOptions authenticates with a service account JSON key. Requests go
// through baseClient, e.g. an otelhttp traced client.
func GoogleClientOptions(ctx context.Context, credentialsJSON []byte, baseClient *http.Client) ([]option.ClientOption, error) {
	creds, err := google.CredentialsFromJSON(
		ctx,
		credentialsJSON,
		sheets.SpreadsheetsReadonlyScope,
		drive.DriveMetadataReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}

	if baseClient == nil {
		baseClient = http.DefaultClient
	}
	oauthCtx := context.WithValue(ctx, oauth2.HTTPClient, baseClient)

	return []option.ClientOption{
		option.WithHTTPClient(oauth2.NewClient(oauthCtx, creds.TokenSource)),
	}, nil
}

func NewGoogleSheetsSource(ctx context.Context, params GoogleSheetsParams, opts ...option.ClientOption) (*GoogleSheetsSource, error) {
	if params.SpreadsheetID == "" && params.SpreadsheetName == "" {
		return nil, errors.New("spreadsheet id or name must be set")
	}
	if params.Worksheet == "" {
		return nil, errors.New("worksheet must be set")
	}
	if params.HeaderRow < 1 {
		params.HeaderRow = 1
	}

	sheetsService, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	src := &GoogleSheetsSource{
		params: params,
		sheets: sheetsService,
	}

	if params.SpreadsheetID == "" {
		driveService, err := drive.NewService(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("create drive service: %w", err)
		}
		src.drive = driveService
	}

	return src, nil
}

func (s *GoogleSheetsSource) Name() string {
	return "gsheets"
}

func (s *GoogleSheetsSource) Fetch(ctx context.Context) (_ []workouts.RawRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sheets.google.fetch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	spreadsheetID, err := s.resolveSpreadsheetID(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("spreadsheet_id", spreadsheetID),
		attribute.String("worksheet", s.params.Worksheet),
	)

	resp, err := s.sheets.Spreadsheets.Values.
		Get(spreadsheetID, worksheetRange(s.params.Worksheet)).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get values of %s/%s: %w", spreadsheetID, s.params.Worksheet, err)
	}

	log.Debugf("google sheets: fetched %d rows from %s", len(resp.Values), s.params.Worksheet)
	return RecordsFromRows(resp.Values, s.params.HeaderRow), nil
}

func (s *GoogleSheetsSource) resolveSpreadsheetID(ctx context.Context) (string, error) {
	if s.params.SpreadsheetID != "" {
		return s.params.SpreadsheetID, nil
	}

	query := fmt.Sprintf(
		"name = '%s' and mimeType = '%s' and trashed = false",
		escapeQueryValue(s.params.SpreadsheetName), spreadsheetMimeType,
	)
	files, err := s.drive.Files.List().
		Q(query).
		Fields("files(id, name, modifiedTime)").
		OrderBy("modifiedTime desc").
		PageSize(10).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("find spreadsheet %q: %w", s.params.SpreadsheetName, err)
	}
	if len(files.Files) == 0 {
		return "", fmt.Errorf("%w: %q", ErrSpreadsheetNotFound, s.params.SpreadsheetName)
	}
	if len(files.Files) > 1 {
		log.Warnf("google sheets: %d spreadsheets named %q, using the latest modified", len(files.Files), s.params.SpreadsheetName)
	}

	return files.Files[0].Id, nil
}

// worksheetRange is the A1 range covering the whole worksheet.
func worksheetRange(worksheet string) string {
	return "'" + strings.ReplaceAll(worksheet, "'", "''") + "'"
}

func escapeQueryValue(v string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v)
}
