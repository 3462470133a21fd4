package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker()

	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestHealthChecker_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(h *HealthChecker)
		wantStatus int
		wantChecks map[string]string
	}{
		{
			name:       "before first pass",
			setup:      func(h *HealthChecker) {},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"first_pass": healthStatusNotReady, "shutdown": healthStatusOK},
		},
		{
			name:       "after successful pass",
			setup:      func(h *HealthChecker) { h.RecordPass(nil) },
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"first_pass": healthStatusOK, "shutdown": healthStatusOK, "last_pass": healthStatusOK},
		},
		{
			name:       "after failed pass",
			setup:      func(h *HealthChecker) { h.RecordPass(errors.New("token expired")) },
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"first_pass": healthStatusOK, "shutdown": healthStatusOK, "last_pass": healthStatusFailing},
		},
		{
			name: "shutting down",
			setup: func(h *HealthChecker) {
				h.RecordPass(nil)
				h.SetShuttingDown()
			},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"first_pass": healthStatusOK, "shutdown": healthStatusShuttingDown, "last_pass": healthStatusOK},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthChecker()
			tt.setup(h)

			rec := httptest.NewRecorder()
			h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			for k, want := range tt.wantChecks {
				if got := resp.Checks[k]; got != want {
					t.Errorf("check %q = %q, want %q", k, got, want)
				}
			}
		})
	}
}

func TestHealthChecker_Detailed(t *testing.T) {
	h := NewHealthChecker()
	h.RecordPass(nil)
	h.RecordPass(errors.New("list failed"))

	rec := httptest.NewRecorder()
	h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var resp DetailedHealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Passes != 2 {
		t.Errorf("passes = %d, want 2", resp.Passes)
	}
	if resp.LastStatus != healthStatusFailing {
		t.Errorf("last status = %q, want %q", resp.LastStatus, healthStatusFailing)
	}
	if resp.LastError != "list failed" {
		t.Errorf("last error = %q, want %q", resp.LastError, "list failed")
	}
	if resp.LastPass == "" {
		t.Error("last pass time should be set")
	}
}
