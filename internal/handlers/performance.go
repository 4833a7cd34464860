package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"service-gateway/internal/circuitbreaker"
	"service-gateway/internal/common/errors"
	"service-gateway/internal/forwarder"
	"service-gateway/internal/metrics"
	"service-gateway/internal/routing"
)

// StatsResponse is the body of the overall statistics endpoint
type StatsResponse struct {
	Overall         metrics.OverallStats   `json:"overall"`
	CircuitBreakers []circuitbreaker.Stats `json:"circuitBreakers"`
	CacheStats      routing.ResolverStats  `json:"cacheStats"`
	Async           *forwarder.AsyncStats  `json:"async,omitempty"`
}

// ServiceStatsResponse is the body of the per-service statistics endpoint
type ServiceStatsResponse struct {
	Service      string               `json:"service"`
	Metrics      metrics.ServiceStats `json:"metrics"`
	CircuitState circuitbreaker.State `json:"circuitState" swaggertype:"string" example:"CLOSED"`
}

// HealthResponse summarises gateway health
type HealthResponse struct {
	Status        string    `json:"status" example:"UP"`
	Timestamp     time.Time `json:"timestamp"`
	Uptime        string    `json:"uptime" example:"2h15m0s"`
	TotalRequests int64     `json:"totalRequests"`
	TotalErrors   int64     `json:"totalErrors"`
}

// GetStats returns gateway statistics
// @Summary Get gateway statistics
// @Description Returns totals, per-service metrics, breaker states, resolver cache and worker pool statistics
// @Tags performance
// @Produce json
// @Success 200 {object} StatsResponse "Gateway statistics"
// @Router /api/performance/stats [get]
func (h *Handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		Overall:         h.collector.Overall(),
		CircuitBreakers: h.breakers.Stats(),
		CacheStats:      h.resolver.Stats(),
	}
	if h.async != nil {
		stats := h.async.Stats()
		resp.Async = &stats
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetServiceStats returns statistics for one service
// @Summary Get service statistics
// @Tags performance
// @Produce json
// @Param name path string true "Service name"
// @Success 200 {object} ServiceStatsResponse "Service statistics"
// @Failure 404 {object} ErrorResponse "No traffic recorded for the service"
// @Router /api/performance/stats/service/{name} [get]
func (h *Handlers) GetServiceStats(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	stats, ok := h.collector.Service(name)
	if !ok {
		writeError(w, r, errors.NotFoundError("service stats").WithContext("service", name))
		return
	}
	writeJSON(w, http.StatusOK, ServiceStatsResponse{
		Service:      name,
		Metrics:      stats,
		CircuitState: h.breakers.State(name),
	})
}

// CircuitBreakersResponse lists tracked breakers. Overflow counts lookups
// for services that got no breaker because MaxBreakers was reached; those
// services run unguarded.
type CircuitBreakersResponse struct {
	Breakers    []circuitbreaker.Stats `json:"breakers"`
	Tracked     int                    `json:"tracked"`
	MaxBreakers int                    `json:"maxBreakers"`
	Overflow    uint64                 `json:"overflow"`
}

// GetCircuitBreakers lists every breaker
// @Summary List circuit breakers
// @Tags performance
// @Produce json
// @Success 200 {object} CircuitBreakersResponse "Breaker states"
// @Router /api/performance/circuit-breakers [get]
func (h *Handlers) GetCircuitBreakers(w http.ResponseWriter, r *http.Request) {
	breakers := h.breakers.Stats()
	writeJSON(w, http.StatusOK, CircuitBreakersResponse{
		Breakers:    breakers,
		Tracked:     len(breakers),
		MaxBreakers: h.breakers.Config().MaxBreakers,
		Overflow:    h.breakers.Overflow(),
	})
}

// GetCacheStats returns resolver cache statistics
// @Summary Get resolver cache statistics
// @Tags performance
// @Produce json
// @Success 200 {object} routing.ResolverStats "Cache statistics"
// @Router /api/performance/cache [get]
func (h *Handlers) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.resolver.Stats())
}

// GetHealth returns a health summary
// @Summary Performance health summary
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Gateway is up"
// @Router /api/performance/health [get]
func (h *Handlers) GetHealth(w http.ResponseWriter, r *http.Request) {
	overall := h.collector.Overall()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "UP",
		Timestamp:     time.Now().UTC(),
		Uptime:        (time.Duration(overall.UptimeMs) * time.Millisecond).String(),
		TotalRequests: overall.TotalRequests,
		TotalErrors:   overall.TotalErrors,
	})
}

// ResetStats clears the in-memory statistics
// @Summary Reset statistics
// @Description Clears per-service and global counters and restarts the uptime clock. Breaker state is kept.
// @Tags performance
// @Produce json
// @Success 200 {object} MessageResponse "Statistics reset"
// @Router /api/performance/stats/reset [post]
func (h *Handlers) ResetStats(w http.ResponseWriter, r *http.Request) {
	h.collector.Reset()
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Performance statistics reset"})
}
