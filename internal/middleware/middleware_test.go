package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"dialogflow-relay/internal/infra/logger"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestMetricsRecordsRouteTemplate(t *testing.T) {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware(logger.NewNopLogger()))
	router.Use(Metrics)
	router.HandleFunc("/webhook", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}).Methods(http.MethodPost)

	before := counterValue(t, httpRequestsTotal.WithLabelValues(http.MethodPost, "/webhook", "500"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, before+1, counterValue(t, httpRequestsTotal.WithLabelValues(http.MethodPost, "/webhook", "500")))
}

func TestMetricsWithoutRoute(t *testing.T) {
	handler := Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	before := counterValue(t, httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "200"))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/anything/else", nil))

	assert.Equal(t, before+1, counterValue(t, httpRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "200")))
}
