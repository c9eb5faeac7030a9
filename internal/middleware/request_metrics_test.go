package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/sportanalytics/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRequestMetrics(t *testing.T) {
	metricsManager := metrics.NewTestManager()

	r := mux.NewRouter()
	r.HandleFunc("/dashboard/exercise", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	r.HandleFunc("/dashboard/options", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})
	r.Use(RequestMetrics(metricsManager))

	for _, path := range []string{"/dashboard/exercise", "/dashboard/options", "/dashboard/options"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterRequests.WithLabelValues("GET", "502")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metricsManager.CounterRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, 2, testutil.CollectAndCount(metricsManager.HistogramRequestDuration))
	assert.Equal(t, float64(0), testutil.ToFloat64(metricsManager.GaugeRequests))
}
