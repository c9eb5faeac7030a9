package dashboard

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/2beens/sportanalytics/internal/gymstats/charts"
	"github.com/2beens/sportanalytics/internal/gymstats/colors"
	"github.com/2beens/sportanalytics/internal/gymstats/refreshlog"
	"github.com/2beens/sportanalytics/internal/telemetry/metrics"
	"github.com/2beens/sportanalytics/internal/telemetry/tracing"
	"github.com/2beens/sportanalytics/pkg"

	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
	metrics *metrics.Manager
}

func NewHandler(service *Service, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metricsManager,
	}
}

type ColorAdjustment struct {
	Color    string  `json:"color"`
	Factor   float64 `json:"factor"`
	Adjusted string  `json:"adjusted"`
	Fallback bool    `json:"fallback"`
}

func (h *Handler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.options")
	defer span.End()

	options, err := h.service.Options(ctx, strings.TrimSpace(r.URL.Query().Get("muscle_group")))
	if err != nil {
		h.writeServiceError(w, "options", err)
		return
	}

	pkg.WriteJSON(w, options, http.StatusOK)
}

func (h *Handler) HandleExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.exercise")
	defer span.End()

	query := r.URL.Query()
	connectAll := false
	if connect := query.Get("connect"); connect != "" {
		var err error
		connectAll, err = strconv.ParseBool(connect)
		if err != nil {
			http.Error(w, "invalid connect param", http.StatusBadRequest)
			return
		}
	}

	camera, err := charts.ParseCameraPreset(query.Get("view"))
	if err != nil {
		http.Error(w, "invalid view param", http.StatusBadRequest)
		return
	}

	view, err := h.service.Exercise(ctx, ExerciseQuery{
		MuscleGroup: strings.TrimSpace(query.Get("muscle_group")),
		Exercise:    strings.TrimSpace(query.Get("exercise")),
		ConnectAll:  connectAll,
		Camera:      camera,
	})
	if err != nil {
		h.writeServiceError(w, "exercise", err)
		return
	}

	pkg.WriteJSON(w, view, http.StatusOK)
}

func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.compare")
	defer span.End()

	query := r.URL.Query()
	view, err := h.service.Compare(ctx, CompareQuery{
		MuscleGroups: multiParam(query["muscle_group"]),
		Exercises:    multiParam(query["exercise"]),
	})
	if err != nil {
		h.writeServiceError(w, "compare", err)
		return
	}

	pkg.WriteJSON(w, view, http.StatusOK)
}

func (h *Handler) HandleCameras(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, h.service.Cameras(), http.StatusOK)
}

// HandleAdjustColor exposes the color adjuster. An unparseable color is
// returned as is, with fallback set.
func (h *Handler) HandleAdjustColor(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	color := query.Get("color")
	if color == "" {
		http.Error(w, "missing color param", http.StatusBadRequest)
		return
	}

	factor := 1.0
	if factorParam := query.Get("factor"); factorParam != "" {
		var err error
		factor, err = strconv.ParseFloat(factorParam, 64)
		if err != nil {
			http.Error(w, "invalid factor param", http.StatusBadRequest)
			return
		}
	}

	adjustment := ColorAdjustment{
		Color:  color,
		Factor: factor,
	}
	adjusted, err := colors.TryAdjustLightness(color, factor)
	if err != nil {
		log.Debugf("adjust color %q by %v: %s", color, factor, err)
		adjustment.Adjusted = color
		adjustment.Fallback = true
		if h.metrics != nil {
			h.metrics.CounterColorFallbacks.Inc()
		}
	} else {
		adjustment.Adjusted = adjusted
	}

	// NaN and Inf cannot be encoded as JSON numbers
	if math.IsNaN(adjustment.Factor) || math.IsInf(adjustment.Factor, 0) {
		adjustment.Factor = 0
	}

	pkg.WriteJSON(w, adjustment, http.StatusOK)
}

func (h *Handler) HandleRefreshes(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.refreshes")
	defer span.End()

	limit := refreshlog.DefaultListLimit
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		var err error
		limit, err = strconv.Atoi(limitParam)
		if err != nil || limit <= 0 || limit > refreshlog.MaxListLimit {
			http.Error(w, "invalid limit param", http.StatusBadRequest)
			return
		}
	}

	refreshes, err := h.service.Refreshes(ctx, limit)
	if err != nil {
		log.Errorf("list refreshes: %s", err)
		http.Error(w, "failed to list refreshes", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, refreshes, http.StatusOK)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrDataUnavailable):
		log.Errorf("dashboard %s: %s", op, err)
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Errorf("dashboard %s: %s", op, err)
		http.Error(w, fmt.Sprintf("dashboard %s failed", op), http.StatusInternalServerError)
	}
}

// multiParam accepts both repeated params and comma separated values.
func multiParam(values []string) []string {
	var params []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				params = append(params, part)
			}
		}
	}
	return params
}
