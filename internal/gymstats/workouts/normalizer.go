package workouts

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

type Options struct {
	// StrictCoercion makes a non-blank series/weight/reps value that cannot be
	// coerced fatal for the whole call. Missing values still drop the row.
	StrictCoercion bool
}

type Normalizer struct {
	opts     Options
	validate *validator.Validate
}

func NewNormalizer(opts Options) *Normalizer {
	return &Normalizer{
		opts:     opts,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

var defaultNormalizer = NewNormalizer(Options{})

// Normalize turns raw records into workout entries with the default options,
// discarding the drop report.
func Normalize(records []RawRecord) ([]Entry, error) {
	res, err := defaultNormalizer.Normalize(records)
	if err != nil {
		return nil, err
	}
	return res.Entries, nil
}

// Normalize prunes placeholder columns, drops rows with a blank exercise,
// parses dates day first and coerces the numeric columns. Entries keep the
// input order. A present but malformed date fails the whole call with a
// *DateError; other bad rows are dropped and reported in Result.Dropped.
func (n *Normalizer) Normalize(records []RawRecord) (*Result, error) {
	res := &Result{
		Entries: make([]Entry, 0, len(records)),
	}
	cache := make(map[string]field)

	for i, rec := range records {
		row := i + 1
		entry, dropped, err := n.normalizeRecord(row, rec, cache)
		if err != nil {
			return nil, err
		}
		if dropped != nil {
			res.Dropped = append(res.Dropped, *dropped)
			continue
		}
		res.Entries = append(res.Entries, entry)
	}

	return res, nil
}

func (n *Normalizer) normalizeRecord(row int, rec RawRecord, cache map[string]field) (Entry, *DroppedRow, error) {
	columns := resolveColumns(rec, cache)
	value := func(f field) (string, any) {
		name, ok := columns.fields[f]
		if !ok {
			return f.String(), nil
		}
		return name, rec[name]
	}

	exerciseCol, exerciseVal := value(fieldExercise)
	if isMissing(exerciseVal) {
		return Entry{}, &DroppedRow{Row: row, Reason: DropReasonBlankExercise, Column: exerciseCol}, nil
	}

	dateCol, dateVal := value(fieldDate)
	if isMissing(dateVal) {
		return Entry{}, &DroppedRow{Row: row, Reason: DropReasonMissingDate, Column: dateCol}, nil
	}
	date, err := ParseDate(dateVal)
	if err != nil {
		return Entry{}, nil, &DateError{Row: row, Value: stringify(dateVal)}
	}

	entry := Entry{
		Date:     date,
		Exercise: strings.TrimSpace(stringify(exerciseVal)),
	}
	if _, muscleVal := value(fieldMuscleGroup); !isMissing(muscleVal) {
		entry.MuscleGroup = strings.TrimSpace(stringify(muscleVal))
	}

	seriesCol, seriesVal := value(fieldSeries)
	series, dropped, err := coerce(n.opts.StrictCoercion, row, seriesCol, seriesVal, toInt)
	if dropped != nil || err != nil {
		return Entry{}, dropped, err
	}
	weightCol, weightVal := value(fieldWeight)
	weight, dropped, err := coerce(n.opts.StrictCoercion, row, weightCol, weightVal, toFloat)
	if dropped != nil || err != nil {
		return Entry{}, dropped, err
	}
	repsCol, repsVal := value(fieldReps)
	reps, dropped, err := coerce(n.opts.StrictCoercion, row, repsCol, repsVal, toInt)
	if dropped != nil || err != nil {
		return Entry{}, dropped, err
	}

	entry.Series = series
	entry.Weight = weight
	entry.Reps = reps

	switch {
	case entry.Series <= 0:
		return Entry{}, outOfRange(row, seriesCol, seriesVal), nil
	case entry.Weight < 0:
		return Entry{}, outOfRange(row, weightCol, weightVal), nil
	case entry.Reps < 0:
		return Entry{}, outOfRange(row, repsCol, repsVal), nil
	}

	for _, name := range columns.metadata {
		if v := rec[name]; !isMissing(v) {
			if entry.Metadata == nil {
				entry.Metadata = make(map[string]string)
			}
			entry.Metadata[name] = stringify(v)
		}
	}

	if err := n.validate.Struct(entry); err != nil {
		return Entry{}, &DroppedRow{Row: row, Reason: DropReasonInvalidValue, Value: err.Error()}, nil
	}

	return entry, nil, nil
}

func coerce[T int | float64](strict bool, row int, column string, v any, conv func(any) (T, error)) (T, *DroppedRow, error) {
	var zero T
	if isMissing(v) {
		return zero, &DroppedRow{Row: row, Reason: DropReasonMissingValue, Column: column}, nil
	}

	converted, err := conv(v)
	if err != nil {
		if strict {
			return zero, nil, &CoercionError{Row: row, Column: column, Value: stringify(v)}
		}
		return zero, &DroppedRow{Row: row, Reason: DropReasonInvalidValue, Column: column, Value: stringify(v)}, nil
	}

	return converted, nil, nil
}

func outOfRange(row int, column string, v any) *DroppedRow {
	return &DroppedRow{Row: row, Reason: DropReasonOutOfRange, Column: column, Value: stringify(v)}
}
