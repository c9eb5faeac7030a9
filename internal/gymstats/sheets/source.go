package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/2beens/sportanalytics/internal/gymstats/workouts"
)

// Source fetches the raw workout rows of one dashboard refresh.
type Source interface {
	Fetch(ctx context.Context) ([]workouts.RawRecord, error)
	Name() string
}

// RecordsFromRows turns a sheet grid into raw records. headerRow is the 1-based
// row holding the column names; data starts on the row after it. Blank headers
// become "Unnamed: <col>", repeated ones get a ".1", ".2" suffix. Blank cells
// and cells missing from short rows become nil.
func RecordsFromRows(rows [][]any, headerRow int) []workouts.RawRecord {
	if headerRow < 1 || len(rows) < headerRow {
		return []workouts.RawRecord{}
	}

	dataRows := rows[headerRow:]
	width := len(rows[headerRow-1])
	for _, row := range dataRows {
		width = max(width, len(row))
	}
	header := headerNames(rows[headerRow-1], width)

	records := make([]workouts.RawRecord, 0, len(dataRows))
	for _, row := range dataRows {
		rec := make(workouts.RawRecord, width)
		for col, name := range header {
			var cell any
			if col < len(row) {
				cell = row[col]
			}
			if s, ok := cell.(string); ok && strings.TrimSpace(s) == "" {
				cell = nil
			}
			rec[name] = cell
		}
		records = append(records, rec)
	}

	return records
}

func headerNames(header []any, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for col := 0; col < width; col++ {
		var name string
		if col < len(header) && header[col] != nil {
			name = strings.TrimSpace(toString(header[col]))
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(col)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		names[col] = name
	}
	return names
}

func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
