// Package api provides the HTTP JSON server for messmate.
// It exposes the meal-system operations under /api/meals, mirroring the
// REST surface the frontend consumes.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/messmate/messmate/internal/models"
	"github.com/messmate/messmate/internal/service"
)

// Server is the messmate HTTP API server.
type Server struct {
	meals          *service.MealService
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(meals *service.MealService) *Server {
	return &Server{meals: meals}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Minute))
	r.Use(corsMiddleware)
	r.Use(requestLogger)
	r.Use(requestMetrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/meals", func(r chi.Router) {
		r.Post("/", s.handleCreateMealSystem)
		r.Get("/", s.handleListMealSystems)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetMealSystem)
			r.Delete("/", s.handleDeleteMealSystem)
			r.Put("/reactivate", s.handleReactivate)
			r.Put("/clear-history", s.handleClearHistory)
			r.Post("/person-record", s.handleLogMeal)
			r.Post("/bulk-add", s.handleBulkAdd)
			r.Post("/expenses", s.handleAddExpense)
			r.Post("/settlement", s.handleComputeSettlement)
			r.Post("/final-settlement", s.handleAddFinalSettlement)
		})

		r.Put("/records/{recordID}", s.handleEditRecord)
		r.Delete("/records/{recordID}", s.handleDeleteRecord)
		r.Put("/expenses/{expenseID}", s.handleEditExpense)
		r.Delete("/expenses/{expenseID}", s.handleDeleteExpense)
		r.Put("/final-settlement/{finalID}", s.handleEditFinalSettlement)
	})

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeServiceError maps a domain error kind to an HTTP status.
func writeServiceError(w http.ResponseWriter, err error) {
	switch models.KindOf(err) {
	case models.KindValidation:
		writeError(w, http.StatusBadRequest, err.Error())
	case models.KindNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case models.KindConflict:
		writeError(w, http.StatusConflict, err.Error())
	case models.KindZeroMeals:
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decode parses a JSON request body into v.
func decode(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
