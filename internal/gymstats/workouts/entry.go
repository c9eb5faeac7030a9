package workouts

import (
	"fmt"
	"time"
)

// RawRecord is one spreadsheet row keyed by column name. A nil value is the
// missing marker, which is not the same as an empty string.
type RawRecord map[string]any

type Entry struct {
	Date        time.Time         `json:"date" validate:"required"`
	Exercise    string            `json:"exercise" validate:"required"`
	MuscleGroup string            `json:"muscleGroup"`
	Series      int               `json:"series" validate:"gt=0"`
	Weight      float64           `json:"weight" validate:"gte=0"`
	Reps        int               `json:"reps" validate:"gte=0"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Volume is the lifted load of the set, in kilograms.
func (e Entry) Volume() float64 {
	return e.Weight * float64(e.Reps)
}

func (e Entry) String() string {
	return fmt.Sprintf(
		"%s %s [%s] S%d %.2fkg x %d",
		e.Date.Format(DateLayout), e.Exercise, e.MuscleGroup, e.Series, e.Weight, e.Reps,
	)
}

type DropReason string

const (
	DropReasonBlankExercise DropReason = "blank_exercise"
	DropReasonMissingDate   DropReason = "missing_date"
	DropReasonMissingValue  DropReason = "missing_value"
	DropReasonInvalidValue  DropReason = "invalid_value"
	DropReasonOutOfRange    DropReason = "out_of_range"
)

// DroppedRow describes a record excluded from the normalized output.
// Row is the 1-based position of the record in the input.
type DroppedRow struct {
	Row    int        `json:"row"`
	Reason DropReason `json:"reason"`
	Column string     `json:"column,omitempty"`
	Value  string     `json:"value,omitempty"`
}

type Result struct {
	Entries []Entry      `json:"entries"`
	Dropped []DroppedRow `json:"dropped"`
}

// DroppedByReason counts the dropped rows per reason.
func (r *Result) DroppedByReason() map[DropReason]int {
	counts := make(map[DropReason]int)
	for _, d := range r.Dropped {
		counts[d.Reason]++
	}
	return counts
}
