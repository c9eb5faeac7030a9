package charts

import (
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/sportanalytics/internal/gymstats/colors"
	"github.com/2beens/sportanalytics/internal/gymstats/workouts"
)

const (
	KindScatter3D = "scatter3d"
	KindScatter2D = "scatter"

	ModeLinesMarkers = "lines+markers"
	ModeMarkers      = "markers"

	// point field names used by Axes
	FieldDate   = "date"
	FieldReps   = "reps"
	FieldWeight = "weight"

	progressionColor = "#ff7f0e"
	progressionScale = "Viridis"
)

type Point struct {
	Date   time.Time `json:"date"`
	Reps   int       `json:"reps"`
	Weight float64   `json:"weight"`
	Series int       `json:"series"`
	Hover  string    `json:"hover"`
}

type Line struct {
	Color string `json:"color"`
	Width int    `json:"width"`
}

type Marker struct {
	Size  int    `json:"size"`
	Color string `json:"color,omitempty"`
	// per point values mapped through ColorScale, used instead of Color
	ColorValues []float64 `json:"colorValues,omitempty"`
	ColorScale  string    `json:"colorScale,omitempty"`
	ShowScale   bool      `json:"showScale,omitempty"`
}

type Trace struct {
	Name        string  `json:"name"`
	LegendGroup string  `json:"legendGroup,omitempty"`
	Mode        string  `json:"mode"`
	Line        *Line   `json:"line,omitempty"`
	Marker      Marker  `json:"marker"`
	Points      []Point `json:"points"`
}

// Axes names the point field drawn on each axis, and its title.
type Axes struct {
	X      string `json:"x"`
	Y      string `json:"y"`
	Z      string `json:"z,omitempty"`
	XTitle string `json:"xTitle"`
	YTitle string `json:"yTitle"`
	ZTitle string `json:"zTitle,omitempty"`
}

type Figure struct {
	Kind   string  `json:"kind"`
	Title  string  `json:"title"`
	Axes   Axes    `json:"axes"`
	Camera *Camera `json:"camera,omitempty"`
	Traces []Trace `json:"traces"`
}

var sceneAxes = Axes{
	X: FieldDate, Y: FieldReps, Z: FieldWeight,
	XTitle: "Date", YTitle: "Reps", ZTitle: "Weight (kg)",
}

type SingleOptions struct {
	// ConnectAll draws one chronological line instead of one per series.
	ConnectAll bool
	Camera     CameraPreset
}

// SingleExercise builds the 3D progression figure of one exercise.
func SingleExercise(exercise string, entries []workouts.Entry, opts SingleOptions) Figure {
	sorted := workouts.SortByDate(entries)
	fig := Figure{
		Kind:   KindScatter3D,
		Title:  "Progression: " + exercise,
		Axes:   sceneAxes,
		Camera: opts.Camera.Camera(),
		Traces: []Trace{},
	}

	if opts.ConnectAll {
		weights := make([]float64, len(sorted))
		for i, e := range sorted {
			weights[i] = e.Weight
		}
		fig.Traces = append(fig.Traces, Trace{
			Name: "Progression",
			Mode: ModeLinesMarkers,
			Line: &Line{Color: progressionColor, Width: 6},
			Marker: Marker{
				Size:        5,
				ColorValues: weights,
				ColorScale:  progressionScale,
				ShowScale:   true,
			},
			Points: toPoints(sorted, ""),
		})
		return fig
	}

	for i, group := range workouts.GroupBySeries(sorted) {
		color := colors.SeriesColor(i)
		fig.Traces = append(fig.Traces, Trace{
			Name:   "Series " + strconv.Itoa(group.Series),
			Mode:   ModeLinesMarkers,
			Line:   &Line{Color: color, Width: 4},
			Marker: Marker{Size: 4, Color: color},
			Points: toPoints(group.Entries, ""),
		})
	}
	return fig
}

// Comparison builds the 3D figure of several exercises. Each exercise gets a
// base color and each of its series a lighter or darker shade of it.
func Comparison(entries []workouts.Entry, exercises []string) Figure {
	fig := Figure{
		Kind:   KindScatter3D,
		Title:  "Exercise comparison",
		Axes:   sceneAxes,
		Traces: []Trace{},
	}

	for _, group := range workouts.GroupByExercise(workouts.SortByDate(entries), exercises) {
		base := colors.ExerciseColor(group.Index)
		for j, series := range group.Series {
			color := colors.AdjustLightness(base, colors.SeriesLightnessFactor(j))
			label := fmt.Sprintf("%s - S%d", group.Exercise, series.Series)
			fig.Traces = append(fig.Traces, Trace{
				Name:        label,
				LegendGroup: group.Exercise,
				Mode:        ModeLinesMarkers,
				Line:        &Line{Color: color, Width: 4},
				Marker:      Marker{Size: 4, Color: color},
				Points:      toPoints(series.Entries, label),
			})
		}
	}
	return fig
}

// Projections returns the weight/date, reps/date and reps/weight 2D figures.
func Projections(entries []workouts.Entry) []Figure {
	points := toPoints(workouts.SortByDate(entries), "")
	projection := func(title, color string, axes Axes) Figure {
		return Figure{
			Kind:  KindScatter2D,
			Title: title,
			Axes:  axes,
			Traces: []Trace{{
				Name:   title,
				Mode:   ModeMarkers,
				Marker: Marker{Size: 8, Color: color},
				Points: points,
			}},
		}
	}

	return []Figure{
		projection("Weight vs Date", "#ff7f0e", Axes{X: FieldDate, Y: FieldWeight, XTitle: "Date", YTitle: "Weight (kg)"}),
		projection("Reps vs Date", "#1f77b4", Axes{X: FieldDate, Y: FieldReps, XTitle: "Date", YTitle: "Reps"}),
		projection("Reps vs Weight", "#2ca02c", Axes{X: FieldWeight, Y: FieldReps, XTitle: "Weight (kg)", YTitle: "Reps"}),
	}
}

func toPoints(entries []workouts.Entry, label string) []Point {
	points := make([]Point, 0, len(entries))
	for _, e := range entries {
		hover := fmt.Sprintf(
			"Date: %s<br>Reps: %d<br>Weight: %s kg",
			e.Date.Format(workouts.DateLayout), e.Reps, strconv.FormatFloat(e.Weight, 'f', -1, 64),
		)
		if label != "" {
			hover = "<b>" + label + "</b><br>" + hover
		}
		points = append(points, Point{
			Date:   e.Date,
			Reps:   e.Reps,
			Weight: e.Weight,
			Series: e.Series,
			Hover:  hover,
		})
	}
	return points
}
