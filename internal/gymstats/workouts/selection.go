package workouts

import (
	"sort"
)

// Selection picks the entries of a single exercise. An empty MuscleGroup
// matches every group.
type Selection struct {
	MuscleGroup string
	Exercise    string
}

// MultiSelection picks the entries of several exercises across muscle groups.
// Empty slices match everything.
type MultiSelection struct {
	MuscleGroups []string
	Exercises    []string
}

type SeriesGroup struct {
	Series  int     `json:"series"`
	Entries []Entry `json:"entries"`
}

type ExerciseGroup struct {
	// Index is the position of the exercise in the requested selection.
	Index    int           `json:"index"`
	Exercise string        `json:"exercise"`
	Series   []SeriesGroup `json:"series"`
}

// MuscleGroups returns the sorted, distinct, non-empty muscle groups.
func MuscleGroups(entries []Entry) []string {
	return distinct(entries, func(e Entry) string { return e.MuscleGroup })
}

// Exercises returns the sorted, distinct exercises of the given muscle groups,
// or of all entries when no group is given.
func Exercises(entries []Entry, muscleGroups ...string) []string {
	groups := toSet(muscleGroups)
	return distinct(entries, func(e Entry) string {
		if len(groups) > 0 && !groups[e.MuscleGroup] {
			return ""
		}
		return e.Exercise
	})
}

func Select(entries []Entry, sel Selection) []Entry {
	var selected []Entry
	for _, e := range entries {
		if e.Exercise != sel.Exercise {
			continue
		}
		if sel.MuscleGroup != "" && e.MuscleGroup != sel.MuscleGroup {
			continue
		}
		selected = append(selected, e)
	}
	return selected
}

func SelectMany(entries []Entry, sel MultiSelection) []Entry {
	groups := toSet(sel.MuscleGroups)
	exercises := toSet(sel.Exercises)

	var selected []Entry
	for _, e := range entries {
		if len(groups) > 0 && !groups[e.MuscleGroup] {
			continue
		}
		if len(exercises) > 0 && !exercises[e.Exercise] {
			continue
		}
		selected = append(selected, e)
	}
	return selected
}

// SortByDate returns a copy sorted by date, keeping the input order of
// entries on the same day.
func SortByDate(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// GroupBySeries splits entries by series index, ordered by index. Entries keep
// their relative order inside a group.
func GroupBySeries(entries []Entry) []SeriesGroup {
	index := make(map[int]int)
	var groups []SeriesGroup
	for _, e := range entries {
		i, ok := index[e.Series]
		if !ok {
			i = len(groups)
			index[e.Series] = i
			groups = append(groups, SeriesGroup{Series: e.Series})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Series < groups[j].Series
	})
	return groups
}

// GroupByExercise splits entries per exercise, in the order of the given
// exercise names, and each of them per series. Exercises without entries
// are skipped but keep their index.
func GroupByExercise(entries []Entry, exercises []string) []ExerciseGroup {
	var groups []ExerciseGroup
	for i, exercise := range exercises {
		var exerciseEntries []Entry
		for _, e := range entries {
			if e.Exercise == exercise {
				exerciseEntries = append(exerciseEntries, e)
			}
		}
		if len(exerciseEntries) == 0 {
			continue
		}
		groups = append(groups, ExerciseGroup{
			Index:    i,
			Exercise: exercise,
			Series:   GroupBySeries(exerciseEntries),
		})
	}
	return groups
}

func distinct(entries []Entry, key func(Entry) string) []string {
	seen := make(map[string]bool)
	values := []string{}
	for _, e := range entries {
		k := key(e)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		values = append(values, k)
	}
	sort.Strings(values)
	return values
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v != "" {
			set[v] = true
		}
	}
	return set
}
