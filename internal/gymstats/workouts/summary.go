package workouts

import (
	"time"
)

// Summary holds the headline figures of a selection.
type Summary struct {
	Sets        int       `json:"sets"`
	Sessions    int       `json:"sessions"`
	FirstDate   time.Time `json:"firstDate"`
	LastDate    time.Time `json:"lastDate"`
	MaxWeight   float64   `json:"maxWeight"`
	WeightDelta float64   `json:"weightDelta"`
	MaxReps     int       `json:"maxReps"`
	RepsDelta   int       `json:"repsDelta"`
	// total lifted load, weight times reps, in tonnes
	VolumeTonnes float64 `json:"volumeTonnes"`
}

// Summarize computes the summary over entries sorted by date. Deltas are
// last minus first entry.
func Summarize(entries []Entry) Summary {
	if len(entries) == 0 {
		return Summary{}
	}

	sorted := SortByDate(entries)
	first, last := sorted[0], sorted[len(sorted)-1]

	s := Summary{
		Sets:        len(sorted),
		FirstDate:   first.Date,
		LastDate:    last.Date,
		WeightDelta: last.Weight - first.Weight,
		RepsDelta:   last.Reps - first.Reps,
	}

	days := make(map[time.Time]bool)
	var volume float64
	for _, e := range sorted {
		days[e.Date] = true
		volume += e.Volume()
		if e.Weight > s.MaxWeight {
			s.MaxWeight = e.Weight
		}
		if e.Reps > s.MaxReps {
			s.MaxReps = e.Reps
		}
	}
	s.Sessions = len(days)
	s.VolumeTonnes = volume / 1000

	return s
}
