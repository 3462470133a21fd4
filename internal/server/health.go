package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Health status constants for health check responses.
const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
	healthStatusFailing      = "failing"
)

// HealthChecker tracks pass results for the health endpoints.
type HealthChecker struct {
	// ready is set once the first pass has finished
	ready        atomic.Bool
	shuttingDown atomic.Bool
	startTime    time.Time

	mu        sync.RWMutex
	passes    int
	lastPass  time.Time
	lastError string
}

// NewHealthChecker creates a new HealthChecker that is not ready yet.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{startTime: time.Now()}
}

// RecordPass stores the result of a finished pass and marks the checker ready.
func (h *HealthChecker) RecordPass(err error) {
	h.mu.Lock()
	h.passes++
	h.lastPass = time.Now()
	h.lastError = ""
	if err != nil {
		h.lastError = err.Error()
	}
	h.mu.Unlock()
	h.ready.Store(true)
}

// SetShuttingDown marks the process as shutting down.
func (h *HealthChecker) SetShuttingDown() {
	h.shuttingDown.Store(true)
}

// IsReady returns whether a pass has finished and shutdown has not begun.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load() && !h.shuttingDown.Load()
}

// HealthResponse represents the JSON response for health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse provides pass information.
type DetailedHealthResponse struct {
	Status     string `json:"status"`
	Uptime     string `json:"uptime"`
	Passes     int    `json:"passes"`
	LastPass   string `json:"last_pass,omitempty"`
	LastStatus string `json:"last_status,omitempty"`
	LastError  string `json:"last_error,omitempty"`
}

// LivenessHandler returns an HTTP handler for the /healthz endpoint.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler returns an HTTP handler for the /readyz endpoint.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		checks := make(map[string]string)
		allOk := true

		if !h.ready.Load() {
			checks["first_pass"] = healthStatusNotReady
			allOk = false
		} else {
			checks["first_pass"] = healthStatusOK
		}

		if h.shuttingDown.Load() {
			checks["shutdown"] = healthStatusShuttingDown
			allOk = false
		} else {
			checks["shutdown"] = healthStatusOK
		}

		h.mu.RLock()
		if h.lastError != "" {
			checks["last_pass"] = healthStatusFailing
		} else if h.passes > 0 {
			checks["last_pass"] = healthStatusOK
		}
		h.mu.RUnlock()

		response := HealthResponse{Checks: checks}
		if allOk {
			response.Status = healthStatusOK
			w.WriteHeader(http.StatusOK)
		} else {
			response.Status = healthStatusNotReady
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// DetailedHealthHandler returns an HTTP handler for the /healthz/detailed endpoint.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		h.mu.RLock()
		response := DetailedHealthResponse{
			Status:    healthStatusOK,
			Uptime:    time.Since(h.startTime).Truncate(time.Second).String(),
			Passes:    h.passes,
			LastError: h.lastError,
		}
		if h.passes > 0 {
			response.LastPass = h.lastPass.UTC().Format(time.RFC3339)
			response.LastStatus = healthStatusOK
			if h.lastError != "" {
				response.LastStatus = healthStatusFailing
			}
		}
		h.mu.RUnlock()

		switch {
		case h.shuttingDown.Load():
			response.Status = healthStatusShuttingDown
			w.WriteHeader(http.StatusServiceUnavailable)
		case !h.ready.Load():
			response.Status = healthStatusNotReady
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusOK)
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// RegisterHealthEndpoints registers health check endpoints on the given mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
