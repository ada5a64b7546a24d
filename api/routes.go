package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/report", handler.GetReport).Methods("GET")
	api.HandleFunc("/positions", handler.GetPositions).Methods("GET")
	api.HandleFunc("/risk", handler.GetRisk).Methods("GET")

	return r
}
