package workouts

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the display and primary parse layout of workout dates.
const DateLayout = "02/01/2006"

// spreadsheet serial dates count days from this epoch
var serialEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

const maxSerialDay = 2958465 // 31/12/9999

var dateLayouts = buildDateLayouts()

func buildDateLayouts() []string {
	var layouts []string
	for _, year := range []string{"2006", "06"} {
		for _, sep := range []string{"/", "-", "."} {
			base := "2" + sep + "1" + sep + year
			layouts = append(layouts, base, base+" 15:04", base+" 15:04:05")
		}
	}
	return append(layouts,
		"2006-1-2",
		"2006-1-2 15:04:05",
		"2006-1-2T15:04:05",
		time.RFC3339,
	)
}

var (
	errNotIntegral = errors.New("not an integral number")
	errNotFinite   = errors.New("not a finite number")
	errOutOfRange  = errors.New("number out of range")
	errUnsupported = errors.New("unsupported value type")
)

func isMissing(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case time.Time:
		return val.Format(DateLayout)
	default:
		return fmt.Sprint(val)
	}
}

// ParseDate parses a workout date, day first. Strings, time.Time values and
// spreadsheet serial day numbers are accepted. The result is midnight UTC.
func ParseDate(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return dateOnly(val), nil
	case string:
		return parseDateString(val)
	}

	days, err := toFloat(v)
	if err != nil {
		return time.Time{}, err
	}
	return fromSerial(days)
}

func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), nil
		}
	}
	// serial day number stored as text
	if days, err := toFloat(s); err == nil {
		return fromSerial(days)
	}
	return time.Time{}, fmt.Errorf("parse date %q: no matching day-first layout", s)
}

func fromSerial(days float64) (time.Time, error) {
	if math.IsNaN(days) || days < 1 || days > maxSerialDay {
		return time.Time{}, fmt.Errorf("serial date %v out of range", days)
	}
	return serialEpoch.AddDate(0, 0, int(math.Floor(days))), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func toFloat(v any) (float64, error) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int8:
		f = float64(val)
	case int16:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint8:
		f = float64(val)
	case uint16:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case json.Number:
		return toFloat(val.String())
	case string:
		// decimal comma, as typed in a French locale sheet
		normalized := strings.ReplaceAll(strings.TrimSpace(val), ",", ".")
		parsed, err := strconv.ParseFloat(normalized, 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: %T", errUnsupported, v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	if f == 0 {
		// -0 becomes 0
		f = 0
	}
	return f, nil
}

func toInt(v any) (int, error) {
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, errNotIntegral
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, errOutOfRange
	}
	return int(f), nil
}
