package dashboard

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=dashboard_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/sportanalytics/internal/gymstats/charts"
	"github.com/2beens/sportanalytics/internal/gymstats/refreshlog"
	"github.com/2beens/sportanalytics/internal/gymstats/workouts"
	"github.com/2beens/sportanalytics/internal/telemetry/metrics"
	"github.com/2beens/sportanalytics/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const defaultCompareCount = 3

var (
	// ErrDataUnavailable wraps every failure to fetch or normalize the
	// workout data. Handlers map it to 502.
	ErrDataUnavailable = errors.New("workout data unavailable")
	ErrNotFound        = errors.New("not found")
)

type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]workouts.RawRecord, error)
}

type RefreshRecorder interface {
	Add(ctx context.Context, refresh refreshlog.Refresh) (int, error)
	List(ctx context.Context, limit int) ([]refreshlog.Refresh, error)
}

// Dataset is the outcome of one render pass over the source.
type Dataset struct {
	Source  string
	Fetched int
	Entries []workouts.Entry
	Dropped []workouts.DroppedRow
}

type Options struct {
	MuscleGroups []string `json:"muscleGroups"`
	MuscleGroup  string   `json:"muscleGroup"`
	Exercises    []string `json:"exercises"`
	Entries      int      `json:"entries"`
	Dropped      int      `json:"dropped"`
}

type ExerciseQuery struct {
	MuscleGroup string
	Exercise    string
	ConnectAll  bool
	Camera      charts.CameraPreset
}

type ExerciseView struct {
	MuscleGroup string           `json:"muscleGroup"`
	Exercise    string           `json:"exercise"`
	Summary     workouts.Summary `json:"summary"`
	Figure      charts.Figure    `json:"figure"`
	Projections []charts.Figure  `json:"projections"`
}

type CompareQuery struct {
	MuscleGroups []string
	Exercises    []string
}

type CompareView struct {
	MuscleGroups []string                    `json:"muscleGroups"`
	Exercises    []string                    `json:"exercises"`
	Available    []string                    `json:"available"`
	Summaries    map[string]workouts.Summary `json:"summaries"`
	Figure       charts.Figure               `json:"figure"`
}

type Service struct {
	source              Source
	normalizer          *workouts.Normalizer
	recorder            RefreshRecorder
	metrics             *metrics.Manager
	compareDefaultCount int
}

type NewServiceParams struct {
	Source              Source
	Normalizer          *workouts.Normalizer
	Recorder            RefreshRecorder
	Metrics             *metrics.Manager
	CompareDefaultCount int
}

func NewService(params NewServiceParams) *Service {
	s := &Service{
		source:              params.Source,
		normalizer:          params.Normalizer,
		recorder:            params.Recorder,
		metrics:             params.Metrics,
		compareDefaultCount: params.CompareDefaultCount,
	}
	if s.normalizer == nil {
		s.normalizer = workouts.NewNormalizer(workouts.Options{})
	}
	if s.recorder == nil {
		s.recorder = refreshlog.NopRepo{}
	}
	if s.compareDefaultCount <= 0 {
		s.compareDefaultCount = defaultCompareCount
	}
	return s
}

// Load fetches and normalizes the whole source. Every call is a fresh pass,
// nothing is cached between requests.
func (s *Service) Load(ctx context.Context) (_ *Dataset, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.dashboard.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sourceName := s.source.Name()
	span.SetAttributes(attribute.String("source", sourceName))
	start := time.Now()

	refresh := refreshlog.Refresh{
		Source:    sourceName,
		CreatedAt: start,
	}
	defer func() {
		refresh.DurationMs = time.Since(start).Milliseconds()
		if err != nil {
			refresh.Error = err.Error()
		}
		s.record(ctx, refresh, err)
	}()

	records, err := s.source.Fetch(ctx)
	if s.metrics != nil {
		s.metrics.HistFetchDuration.WithLabelValues(sourceName).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", ErrDataUnavailable, sourceName, err)
	}
	refresh.Fetched = len(records)

	result, err := s.normalizer.Normalize(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}

	refresh.Kept = len(result.Entries)
	refresh.Dropped = make(map[string]int)
	for reason, count := range result.DroppedByReason() {
		refresh.Dropped[string(reason)] = count
		if s.metrics != nil {
			s.metrics.CounterDroppedRows.WithLabelValues(string(reason)).Add(float64(count))
		}
	}
	for _, d := range result.Dropped {
		log.Debugf("dashboard: row %d dropped: %s %s=%q", d.Row, d.Reason, d.Column, d.Value)
	}

	span.SetAttributes(
		attribute.Int("records.fetched", len(records)),
		attribute.Int("records.kept", len(result.Entries)),
	)

	return &Dataset{
		Source:  sourceName,
		Fetched: len(records),
		Entries: result.Entries,
		Dropped: result.Dropped,
	}, nil
}

func (s *Service) record(ctx context.Context, refresh refreshlog.Refresh, loadErr error) {
	if s.metrics != nil {
		status := "ok"
		if loadErr != nil {
			status = "error"
		} else {
			s.metrics.GaugeLastEntries.Set(float64(refresh.Kept))
		}
		s.metrics.CounterDashboardRenders.WithLabelValues(refresh.Source, status).Inc()
	}

	// the refresh log is an audit trail, a failing insert must not fail the render
	if _, err := s.recorder.Add(context.WithoutCancel(ctx), refresh); err != nil {
		log.Errorf("dashboard: record refresh: %s", err)
	}
}

// Options lists the muscle groups and the exercises of muscleGroup, or of
// every group when muscleGroup is empty.
func (s *Service) Options(ctx context.Context, muscleGroup string) (*Options, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	groups := workouts.MuscleGroups(ds.Entries)
	if muscleGroup != "" && !contains(groups, muscleGroup) {
		return nil, fmt.Errorf("%w: muscle group %q", ErrNotFound, muscleGroup)
	}

	var exercises []string
	if muscleGroup == "" {
		exercises = workouts.Exercises(ds.Entries)
	} else {
		exercises = workouts.Exercises(ds.Entries, muscleGroup)
	}

	return &Options{
		MuscleGroups: groups,
		MuscleGroup:  muscleGroup,
		Exercises:    exercises,
		Entries:      len(ds.Entries),
		Dropped:      len(ds.Dropped),
	}, nil
}

// Exercise renders the single exercise view. An exercise given without a
// muscle group is selected on its name alone, entries with no muscle group
// included. Otherwise an empty muscle group or exercise defaults to the first
// one in sorted order.
func (s *Service) Exercise(ctx context.Context, q ExerciseQuery) (*ExerciseView, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	muscleGroup, exercise := q.MuscleGroup, q.Exercise
	switch {
	case muscleGroup == "" && exercise != "":
		for _, e := range ds.Entries {
			if e.Exercise == exercise {
				muscleGroup = e.MuscleGroup
				break
			}
		}
	case muscleGroup == "":
		groups := workouts.MuscleGroups(ds.Entries)
		if len(groups) == 0 {
			return nil, fmt.Errorf("%w: no muscle groups", ErrNotFound)
		}
		muscleGroup = groups[0]
	}

	if exercise == "" {
		exercises := workouts.Exercises(ds.Entries, muscleGroup)
		if len(exercises) == 0 {
			return nil, fmt.Errorf("%w: muscle group %q", ErrNotFound, muscleGroup)
		}
		exercise = exercises[0]
	}

	sel := workouts.Selection{Exercise: exercise}
	if q.MuscleGroup != "" || q.Exercise == "" {
		sel.MuscleGroup = muscleGroup
	}
	selected := workouts.Select(ds.Entries, sel)
	if len(selected) == 0 {
		if sel.MuscleGroup == "" {
			return nil, fmt.Errorf("%w: exercise %q", ErrNotFound, exercise)
		}
		return nil, fmt.Errorf("%w: exercise %q in %q", ErrNotFound, exercise, muscleGroup)
	}

	return &ExerciseView{
		MuscleGroup: muscleGroup,
		Exercise:    exercise,
		Summary:     workouts.Summarize(selected),
		Figure: charts.SingleExercise(exercise, selected, charts.SingleOptions{
			ConnectAll: q.ConnectAll,
			Camera:     q.Camera,
		}),
		Projections: charts.Projections(selected),
	}, nil
}

// Compare renders several exercises on one figure. With no exercise given
// it takes the first few of the selected muscle groups. Muscle groups only
// filter the entries when given explicitly.
func (s *Service) Compare(ctx context.Context, q CompareQuery) (*CompareView, error) {
	ds, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	available := workouts.Exercises(ds.Entries, q.MuscleGroups...)

	exercises := q.Exercises
	if len(exercises) == 0 {
		exercises = available[:min(len(available), s.compareDefaultCount)]
	}

	selected := workouts.SelectMany(ds.Entries, workouts.MultiSelection{
		MuscleGroups: q.MuscleGroups,
		Exercises:    exercises,
	})

	muscleGroups := q.MuscleGroups
	if len(muscleGroups) == 0 {
		muscleGroups = workouts.MuscleGroups(ds.Entries)
	}

	summaries := make(map[string]workouts.Summary, len(exercises))
	for _, g := range workouts.GroupByExercise(selected, exercises) {
		var entries []workouts.Entry
		for _, sg := range g.Series {
			entries = append(entries, sg.Entries...)
		}
		summaries[g.Exercise] = workouts.Summarize(entries)
	}

	return &CompareView{
		MuscleGroups: muscleGroups,
		Exercises:    exercises,
		Available:    available,
		Summaries:    summaries,
		Figure:       charts.Comparison(selected, exercises),
	}, nil
}

func (s *Service) Cameras() []charts.CameraPresetInfo {
	return charts.CameraPresets()
}

func (s *Service) Refreshes(ctx context.Context, limit int) ([]refreshlog.Refresh, error) {
	return s.recorder.List(ctx, limit)
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
