package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHealth(t *testing.T, h *HealthChecker) (int, HealthStatus) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var status HealthStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	return rec.Code, status
}

func TestHealthChecker_Healthy(t *testing.T) {
	h := NewHealthChecker()
	h.RunStarted()
	h.RunFinished(true)

	code, status := serveHealth(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", status.Status)
	assert.True(t, status.LastRunOK)
	assert.Equal(t, 1, status.RunsStarted)
}

func TestHealthChecker_DegradedAfterFailedRun(t *testing.T) {
	h := NewHealthChecker()
	h.RunStarted()
	h.RunFinished(false)

	code, status := serveHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", status.Status)
}

// TestHealthChecker_UnhealthyWritesSingleHeader tests the failed-run plus
// recorded-error case: one status code on the wire, the most severe one
func TestHealthChecker_UnhealthyWritesSingleHeader(t *testing.T) {
	h := NewHealthChecker()
	h.RunStarted()
	h.RunFinished(false)
	h.RecordError("feature file vanished mid-run")

	code, status := serveHealth(t, h)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "unhealthy", status.Status)
	require.Len(t, status.Errors, 1)
}
