package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsManager(t *testing.T) {
	m := NewMetricsManager("bookreview-service")
	m.ReviewsCreatedTotal.Inc()
	m.RatingRecomputesTotal.WithLabelValues("ok").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReviewsCreatedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RatingRecomputesTotal.WithLabelValues("ok")))

	// a second manager must not collide with the first
	require.NotPanics(t, func() { NewMetricsManager("bookreview-service") })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bookreview_service_reviews_created_total 1")
}
