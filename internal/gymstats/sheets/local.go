package sheets

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/2beens/sportanalytics/internal/gymstats/workouts"

	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"
)

// CSVSource reads a CSV export of the workout sheet.
type CSVSource struct {
	path      string
	headerRow int
}

func NewCSVSource(path string, headerRow int) *CSVSource {
	return &CSVSource{path: path, headerRow: max(headerRow, 1)}
}

func (s *CSVSource) Name() string {
	return "csv"
}

func (s *CSVSource) Fetch(ctx context.Context) ([]workouts.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read csv export: %w", err)
	}
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = detectDelimiter(content)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	lines, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv export: %w", err)
	}

	rows := make([][]any, len(lines))
	for i, line := range lines {
		rows[i] = make([]any, len(line))
		for j, cell := range line {
			rows[i][j] = cell
		}
	}

	return RecordsFromRows(rows, s.headerRow), nil
}

// detectDelimiter picks ';' for exports from a comma decimal locale.
func detectDelimiter(content []byte) rune {
	firstLine, _, _ := bytes.Cut(content, []byte("\n"))
	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		return ';'
	}
	return ','
}

// XLSXSource reads an Excel export of the workout sheet. Cells are read raw,
// so dates come as spreadsheet serial numbers rather than locale formatted text.
type XLSXSource struct {
	path      string
	worksheet string
	headerRow int
}

func NewXLSXSource(path, worksheet string, headerRow int) *XLSXSource {
	return &XLSXSource{path: path, worksheet: worksheet, headerRow: max(headerRow, 1)}
}

func (s *XLSXSource) Name() string {
	return "xlsx"
}

func (s *XLSXSource) Fetch(ctx context.Context) (_ []workouts.RawRecord, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx export: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	sheetName := s.worksheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, fmt.Errorf("worksheet %q not found in %s", sheetName, s.path)
	}

	lines, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheetName, err)
	}

	rows := make([][]any, len(lines))
	for i, line := range lines {
		rows[i] = make([]any, len(line))
		for j, cell := range line {
			rows[i][j] = rawCellValue(cell)
		}
	}

	return RecordsFromRows(rows, s.headerRow), nil
}

func rawCellValue(cell string) any {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return cell
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	return cell
}
