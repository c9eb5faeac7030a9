package workouts

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type field int

const (
	fieldUnknown field = iota
	fieldDate
	fieldExercise
	fieldMuscleGroup
	fieldSeries
	fieldWeight
	fieldReps
)

func (f field) String() string {
	switch f {
	case fieldDate:
		return "date"
	case fieldExercise:
		return "exercise"
	case fieldMuscleGroup:
		return "muscle_group"
	case fieldSeries:
		return "series"
	case fieldWeight:
		return "weight"
	case fieldReps:
		return "reps"
	default:
		return "unknown"
	}
}

var placeholderColumnRegex = regexp.MustCompile(`(?i)^unnamed`)

// keys are folded header names, see foldHeader
var columnAliases = map[string]field{
	"date": fieldDate,
	"jour": fieldDate,
	"day":  fieldDate,

	"exercice": fieldExercise,
	"exercise": fieldExercise,
	"exo":      fieldExercise,

	"muscle":           fieldMuscleGroup,
	"musclegroup":      fieldMuscleGroup,
	"groupemusculaire": fieldMuscleGroup,
	"group":            fieldMuscleGroup,

	"serie":  fieldSeries,
	"series": fieldSeries,
	"set":    fieldSeries,

	"poids":  fieldWeight,
	"weight": fieldWeight,
	"kg":     fieldWeight,
	"kilos":  fieldWeight,

	"reps":        fieldReps,
	"repetitions": fieldReps,
}

// IsPlaceholderColumn reports whether the column name was generated for a
// header-less position and has to be pruned.
func IsPlaceholderColumn(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed == "" || placeholderColumnRegex.MatchString(trimmed)
}

// foldHeader lowercases, strips accents and drops separators:
// "Série" -> "serie", "Groupe musculaire" -> "groupemusculaire".
func foldHeader(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	var sb strings.Builder
	for _, r := range strings.ToLower(folded) {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func recognizeColumn(name string) field {
	return columnAliases[foldHeader(name)]
}

// columnMapping is the resolved layout of a single record.
type columnMapping struct {
	fields   map[field]string
	metadata []string
}

// resolveColumns maps the record columns onto entry fields. Columns are visited
// in sorted order, so when two columns alias the same field the first one wins
// and the other is kept as metadata.
func resolveColumns(rec RawRecord, cache map[string]field) columnMapping {
	names := make([]string, 0, len(rec))
	for name := range rec {
		names = append(names, name)
	}
	sort.Strings(names)

	m := columnMapping{fields: make(map[field]string, 6)}
	for _, name := range names {
		if IsPlaceholderColumn(name) {
			continue
		}

		f, ok := cache[name]
		if !ok {
			f = recognizeColumn(name)
			cache[name] = f
		}

		if f == fieldUnknown {
			m.metadata = append(m.metadata, name)
			continue
		}
		if _, taken := m.fields[f]; taken {
			m.metadata = append(m.metadata, name)
			continue
		}
		m.fields[f] = name
	}

	return m
}
