package charts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/2beens/sportanalytics/internal/gymstats/colors"
	"github.com/2beens/sportanalytics/internal/gymstats/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func squatEntries() []workouts.Entry {
	return []workouts.Entry{
		{Date: day(10), Exercise: "Squat", Series: 2, Weight: 85, Reps: 6},
		{Date: day(3), Exercise: "Squat", Series: 1, Weight: 80, Reps: 8},
		{Date: day(10), Exercise: "Squat", Series: 1, Weight: 85, Reps: 8},
		{Date: day(3), Exercise: "Squat", Series: 2, Weight: 80, Reps: 7},
		{Date: day(17), Exercise: "Squat", Series: 3, Weight: 90, Reps: 5},
	}
}

func TestSingleExercise_PerSeries(t *testing.T) {
	fig := SingleExercise("Squat", squatEntries(), SingleOptions{Camera: CameraWeightDate})

	assert.Equal(t, KindScatter3D, fig.Kind)
	assert.Equal(t, "Progression: Squat", fig.Title)
	assert.Equal(t, FieldDate, fig.Axes.X)
	assert.Equal(t, FieldReps, fig.Axes.Y)
	assert.Equal(t, FieldWeight, fig.Axes.Z)
	require.NotNil(t, fig.Camera)
	assert.Equal(t, Vector{Y: -2.5}, fig.Camera.Eye)

	require.Len(t, fig.Traces, 3)
	for i, trace := range fig.Traces {
		assert.Equal(t, colors.SeriesPalette[i], trace.Line.Color)
		assert.Equal(t, ModeLinesMarkers, trace.Mode)
	}
	assert.Equal(t, "Series 1", fig.Traces[0].Name)
	require.Len(t, fig.Traces[0].Points, 2)
	assert.Equal(t, day(3), fig.Traces[0].Points[0].Date)
	assert.Equal(t, day(10), fig.Traces[0].Points[1].Date)
	assert.Equal(t, "Date: 03/01/2024<br>Reps: 8<br>Weight: 80 kg", fig.Traces[0].Points[0].Hover)
}

func TestSingleExercise_ConnectAll(t *testing.T) {
	fig := SingleExercise("Squat", squatEntries(), SingleOptions{ConnectAll: true})

	assert.Nil(t, fig.Camera)
	require.Len(t, fig.Traces, 1)
	trace := fig.Traces[0]
	assert.Equal(t, "Progression", trace.Name)
	assert.Equal(t, "#ff7f0e", trace.Line.Color)
	assert.Equal(t, "Viridis", trace.Marker.ColorScale)
	assert.True(t, trace.Marker.ShowScale)
	assert.Equal(t, []float64{80, 80, 85, 85, 90}, trace.Marker.ColorValues)
	require.Len(t, trace.Points, 5)
	for i := 1; i < len(trace.Points); i++ {
		assert.False(t, trace.Points[i].Date.Before(trace.Points[i-1].Date))
	}
}

func TestSingleExercise_Empty(t *testing.T) {
	fig := SingleExercise("Squat", nil, SingleOptions{})
	assert.NotNil(t, fig.Traces)
	assert.Empty(t, fig.Traces)

	figJSON, err := json.Marshal(fig)
	require.NoError(t, err)
	assert.Contains(t, string(figJSON), `"traces":[]`)
	assert.NotContains(t, string(figJSON), `"camera"`)
}

func TestComparison(t *testing.T) {
	entries := append(squatEntries(),
		workouts.Entry{Date: day(3), Exercise: "Tractions", Series: 1, Weight: 0, Reps: 12},
		workouts.Entry{Date: day(3), Exercise: "Tractions", Series: 2, Weight: 0, Reps: 10},
		workouts.Entry{Date: day(3), Exercise: "Curl", Series: 1, Weight: 12, Reps: 10},
	)

	fig := Comparison(entries, []string{"Tractions", "Squat"})
	require.Len(t, fig.Traces, 5)

	assert.Equal(t, "Tractions - S1", fig.Traces[0].Name)
	assert.Equal(t, "Tractions", fig.Traces[0].LegendGroup)
	assert.Equal(t, "Squat - S3", fig.Traces[4].Name)
	assert.Equal(t, "Squat", fig.Traces[4].LegendGroup)

	assert.Equal(t, colors.AdjustLightness(colors.ExerciseColor(0), 1.6), fig.Traces[0].Line.Color)
	assert.Equal(t, colors.AdjustLightness(colors.ExerciseColor(0), 1.2), fig.Traces[1].Line.Color)
	assert.Equal(t, colors.AdjustLightness(colors.ExerciseColor(1), 0.8), fig.Traces[4].Line.Color)

	seen := make(map[string]bool)
	for _, trace := range fig.Traces {
		assert.Regexp(t, `^#[0-9a-f]{6}$`, trace.Marker.Color)
		assert.False(t, seen[trace.Marker.Color], "color %s repeated", trace.Marker.Color)
		seen[trace.Marker.Color] = true
	}
	assert.Contains(t, fig.Traces[0].Points[0].Hover, "<b>Tractions - S1</b>")
}

func TestComparison_ColorsFollowSelection(t *testing.T) {
	entries := append(squatEntries(),
		workouts.Entry{Date: day(3), Exercise: "Curl", Series: 1, Weight: 12, Reps: 10},
	)

	fig := Comparison(entries, []string{"Curl", "Missing", "Squat"})
	require.Len(t, fig.Traces, 4)
	assert.Equal(t, colors.AdjustLightness(colors.ExerciseColor(0), 1.6), fig.Traces[0].Line.Color)
	// Squat keeps the color of its position even though Missing has no rows
	assert.Equal(t, "Squat - S1", fig.Traces[1].Name)
	assert.Equal(t, colors.AdjustLightness(colors.ExerciseColor(2), 1.6), fig.Traces[1].Line.Color)

	alone := Comparison(entries, []string{"Missing", "Squat"})
	require.Len(t, alone.Traces, 3)
	assert.Equal(t, colors.AdjustLightness(colors.ExerciseColor(1), 1.6), alone.Traces[0].Line.Color)
}

func TestProjections(t *testing.T) {
	figs := Projections(squatEntries())
	require.Len(t, figs, 3)

	assert.Equal(t, Axes{X: FieldDate, Y: FieldWeight, XTitle: "Date", YTitle: "Weight (kg)"}, figs[0].Axes)
	assert.Equal(t, "#ff7f0e", figs[0].Traces[0].Marker.Color)
	assert.Equal(t, "#1f77b4", figs[1].Traces[0].Marker.Color)
	assert.Equal(t, FieldWeight, figs[2].Axes.X)
	assert.Equal(t, "#2ca02c", figs[2].Traces[0].Marker.Color)
	for _, f := range figs {
		assert.Equal(t, KindScatter2D, f.Kind)
		assert.Len(t, f.Traces[0].Points, 5)
		assert.Equal(t, ModeMarkers, f.Traces[0].Mode)
	}
}

func TestCameraPresets(t *testing.T) {
	presets := CameraPresets()
	require.Len(t, presets, 4)
	assert.Equal(t, CameraDefault, presets[0].Preset)
	assert.Nil(t, presets[0].Camera)

	p, err := ParseCameraPreset("")
	require.NoError(t, err)
	assert.Equal(t, CameraDefault, p)
	assert.Nil(t, p.Camera())

	p, err = ParseCameraPreset(" Weight-Reps ")
	require.NoError(t, err)
	assert.Equal(t, &Camera{Eye: Vector{X: 2.5}, Up: Vector{Y: 1}}, p.Camera())

	p, err = ParseCameraPreset("reps-date")
	require.NoError(t, err)
	assert.Equal(t, &Camera{Eye: Vector{Z: 2.5}, Up: Vector{Y: 1}}, p.Camera())

	_, err = ParseCameraPreset("isometric")
	assert.Error(t, err)

	// returned cameras are copies
	p.Camera().Eye.Z = 100
	assert.Equal(t, 2.5, CameraRepsDate.Camera().Eye.Z)
}
