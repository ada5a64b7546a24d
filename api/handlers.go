// Package api is the dashboard backend: a small read-only HTTP surface
// over the trading engine's report and the risk manager's snapshot.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/rustyeddy/intraday/backtest"
	"github.com/rustyeddy/intraday/risk"
)

// ReportSource is anything that can snapshot run-to-date performance.
// Both the live agent and the backtest engine satisfy it.
type ReportSource interface {
	Report() *backtest.Report
	Positions() []backtest.Position
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	source ReportSource
	rm     *risk.Manager
}

// NewHandler creates a new Handler.
func NewHandler(source ReportSource, rm *risk.Manager) *Handler {
	return &Handler{source: source, rm: rm}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// GetReport handles GET /api/v1/report
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	if h.source == nil {
		http.Error(w, "no report source configured", http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, http.StatusOK, h.source.Report())
}

// GetPositions handles GET /api/v1/positions
func (h *Handler) GetPositions(w http.ResponseWriter, r *http.Request) {
	if h.source == nil {
		http.Error(w, "no report source configured", http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, http.StatusOK, h.source.Positions())
}

// GetRisk handles GET /api/v1/risk
func (h *Handler) GetRisk(w http.ResponseWriter, r *http.Request) {
	if h.rm == nil {
		http.Error(w, "no risk manager configured", http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, http.StatusOK, h.rm.RiskReport())
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
