package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker reports liveness of a long-running validation process. Runs
// are batch-shaped, so "healthy" means the process is up and the last run
// finished without a fatal error.
type HealthChecker struct {
	mu          sync.RWMutex
	lastRun     time.Time
	lastRunOK   bool
	runsStarted int
	errors      []string
}

type HealthStatus struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	LastRun     time.Time `json:"last_run,omitempty"`
	LastRunOK   bool      `json:"last_run_ok"`
	RunsStarted int       `json:"runs_started"`
	Uptime      string    `json:"uptime"`
	Errors      []string  `json:"errors,omitempty"`
}

func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		errors: make([]string, 0),
	}
}

// RunStarted marks the beginning of a walk-forward run
func (h *HealthChecker) RunStarted() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runsStarted++
}

// RunFinished records the outcome of the most recent run
func (h *HealthChecker) RunFinished(ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastRun = time.Now()
	h.lastRunOK = ok
}

// RecordError appends an error to the health report
func (h *HealthChecker) RecordError(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, msg)
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	code := http.StatusOK
	if !h.lastRun.IsZero() && !h.lastRunOK {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	if len(h.errors) > 0 {
		status = "unhealthy"
		code = http.StatusInternalServerError
	}

	health := HealthStatus{
		Status:      status,
		Timestamp:   time.Now(),
		LastRun:     h.lastRun,
		LastRunOK:   h.lastRunOK,
		RunsStarted: h.runsStarted,
		Uptime:      time.Since(startTime).String(),
		Errors:      h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(health)
}
