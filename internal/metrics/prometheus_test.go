package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecorders(t *testing.T) {
	before := counterValue(t, alertsRaised.WithLabelValues("Fever detected"))
	RecordLogSubmitted([]string{"Fever detected"})
	RecordLogEdited([]string{"Fever detected"})
	assert.Equal(t, before+2, counterValue(t, alertsRaised.WithLabelValues("Fever detected")))

	beforeExport := counterValue(t, exportsGenerated.WithLabelValues("summary", "xlsx"))
	RecordExport("summary", "xlsx")
	assert.Equal(t, beforeExport+1, counterValue(t, exportsGenerated.WithLabelValues("summary", "xlsx")))
}

func TestMiddleware_RoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/patients/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := counterValue(t, httpRequestsTotal.WithLabelValues("GET", "/patients/{id}", "418"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients/9999999999", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, before+1, counterValue(t, httpRequestsTotal.WithLabelValues("GET", "/patients/{id}", "418")))
}
