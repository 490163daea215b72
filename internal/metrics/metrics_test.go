package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordProviderCall(t *testing.T) {
	before := testutil.ToFloat64(providerCalls.WithLabelValues("test-provider", "false"))
	RecordProviderCall("test-provider", 20*time.Millisecond, false)
	after := testutil.ToFloat64(providerCalls.WithLabelValues("test-provider", "false"))
	assert.Equal(t, before+1, after)
}

func TestRecordRateLookupsIgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(rateLookups.WithLabelValues("cache"))
	RecordRateLookups("cache", 0)
	RecordRateLookups("cache", 3)
	assert.Equal(t, before+3, testutil.ToFloat64(rateLookups.WithLabelValues("cache")))
}

func TestHandlerServesRegistry(t *testing.T) {
	RecordWorkerTask("ok")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sadaqah_box_worker_tasks_total")
}
