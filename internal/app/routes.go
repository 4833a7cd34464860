package app

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	"service-gateway/internal/handlers"
	"service-gateway/internal/middleware"
)

var forwardedMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete,
	http.MethodPatch, http.MethodHead, http.MethodOptions,
}

// SetupRoutes configures all HTTP routes for the application. Fixed routes
// are registered before the execution catch-all so "health", "stream",
// "upload" and "async" are never taken for service names.
func SetupRoutes(router *mux.Router, h *handlers.Handlers, metricsHandler http.Handler, corsOrigins []string) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS(corsOrigins))

	// Observability (no auth required)
	if metricsHandler != nil {
		router.Handle("/metrics", metricsHandler).Methods("GET")
	}
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Performance endpoints
	perf := router.PathPrefix("/api/performance").Subrouter()
	perf.HandleFunc("/stats", h.GetStats).Methods("GET")
	perf.HandleFunc("/stats/reset", h.ResetStats).Methods("POST")
	perf.HandleFunc("/stats/service/{name}", h.GetServiceStats).Methods("GET")
	perf.HandleFunc("/circuit-breakers", h.GetCircuitBreakers).Methods("GET")
	perf.HandleFunc("/cache", h.GetCacheStats).Methods("GET")
	perf.HandleFunc("/health", h.GetHealth).Methods("GET")

	// Route administration
	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.HandleFunc("/routes", h.ListRoutes).Methods("GET")
	admin.HandleFunc("/routes/reload", h.ReloadRoutes).Methods("POST")

	// Execution endpoints
	exec := router.PathPrefix(handlers.ExecutionPrefix).Subrouter()
	exec.HandleFunc("/health", h.ExecutionHealth).Methods("GET")
	exec.HandleFunc("/stream/{service}/{path:.*}", h.Stream).Methods("GET")
	exec.HandleFunc("/upload/{service}/{path:.*}", h.Upload).Methods("POST", "PUT")
	exec.HandleFunc("/async/{service}/{path:.*}", h.Async).Methods(forwardedMethods...)
	exec.HandleFunc("/{service}/{path:.*}", h.Execute).Methods(forwardedMethods...)
	exec.HandleFunc("/{service}", h.Execute).Methods(forwardedMethods...)

	// CORS preflight for routes that do not accept OPTIONS themselves
	router.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}
