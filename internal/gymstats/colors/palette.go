package colors

// SeriesPalette colors the series of a single exercise.
var SeriesPalette = []string{
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
}

// ExercisePalette gives each compared exercise its base color.
var ExercisePalette = []string{
	"rgb(127, 60, 141)",
	"rgb(17, 165, 121)",
	"rgb(57, 105, 172)",
	"rgb(242, 183, 1)",
	"rgb(231, 63, 116)",
	"rgb(128, 186, 90)",
	"rgb(230, 131, 16)",
	"rgb(0, 134, 149)",
	"rgb(207, 28, 144)",
	"rgb(249, 123, 114)",
	"rgb(165, 170, 153)",
}

func SeriesColor(i int) string {
	return cycle(SeriesPalette, i)
}

func ExerciseColor(i int) string {
	return cycle(ExercisePalette, i)
}

// SeriesLightnessFactor is the lightness factor of the i-th series (0-based)
// of an exercise: the first series is lighter, later ones darker.
func SeriesLightnessFactor(i int) float64 {
	return 1.6 - float64(i)*0.4
}

func cycle(palette []string, i int) string {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}
