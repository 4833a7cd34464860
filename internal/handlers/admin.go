package handlers

import (
	"net/http"

	"service-gateway/internal/common/errors"
	"service-gateway/internal/common/logging"
	"service-gateway/internal/routesource"
)

// RouteView is the listing form of a route entry
type RouteView struct {
	Name        string   `json:"name" example:"user-service"`
	BaseURL     string   `json:"baseUrl" example:"http://user-service:8080"`
	Endpoints   []string `json:"endpoints"`
	Enabled     bool     `json:"enabled"`
	Description string   `json:"description,omitempty"`
	Version     string   `json:"version,omitempty"`
}

// RoutesResponse lists the current route table
type RoutesResponse struct {
	Generation       uint64              `json:"generation"`
	WhitelistEnabled bool                `json:"whitelistEnabled"`
	Services         []RouteView         `json:"services"`
	Reload           *routesource.Status `json:"reload,omitempty"`
}

// ListRoutes returns the current route table
// @Summary List routes
// @Description Returns the route table currently in effect and the reload history
// @Tags admin
// @Produce json
// @Success 200 {object} RoutesResponse "Current routes"
// @Router /api/admin/routes [get]
func (h *Handlers) ListRoutes(w http.ResponseWriter, r *http.Request) {
	table := h.resolver.Table()
	resp := RoutesResponse{
		Generation:       table.Generation(),
		WhitelistEnabled: table.WhitelistEnabled(),
		Services:         make([]RouteView, 0, table.Len()),
	}
	for _, e := range table.Entries() {
		resp.Services = append(resp.Services, RouteView{
			Name:        e.ServiceName(),
			BaseURL:     e.BaseURL(),
			Endpoints:   e.EndpointPatterns(),
			Enabled:     e.Enabled(),
			Description: e.Description(),
			Version:     e.Version(),
		})
	}
	if h.reloader != nil {
		status := h.reloader.Status()
		resp.Reload = &status
	}
	writeJSON(w, http.StatusOK, resp)
}

// ReloadRoutes loads the route source and publishes a new table
// @Summary Reload routes
// @Description Reads the configured route source and swaps in a new table. A rejected document leaves the current table in place.
// @Tags admin
// @Produce json
// @Success 200 {object} MessageResponse "Routes reloaded"
// @Failure 422 {object} ErrorResponse "Route document rejected"
// @Failure 503 {object} ErrorResponse "Route source unreachable"
// @Router /api/admin/routes/reload [post]
func (h *Handlers) ReloadRoutes(w http.ResponseWriter, r *http.Request) {
	if h.reloader == nil {
		writeErrorStatus(w, r, http.StatusServiceUnavailable, errors.InternalError("route reloading is not configured", nil))
		return
	}

	table, err := h.reloader.Reload(r.Context())
	if err != nil {
		writeErrorStatus(w, r, reloadStatus(err), err)
		return
	}

	logging.WithContext(r.Context()).Info("Routes reloaded on request",
		logging.Int64("generation", int64(table.Generation())),
		logging.Int("services", table.Len()),
	)
	writeJSON(w, http.StatusOK, MessageResponse{
		Success: true,
		Message: "Routes reloaded",
		Data: map[string]interface{}{
			"generation": table.Generation(),
			"services":   table.ServiceNames(),
		},
	})
}

func reloadStatus(err error) int {
	switch errors.GetType(err) {
	case errors.ErrTypeConfig, errors.ErrTypeValidation:
		return http.StatusUnprocessableEntity
	case errors.ErrTypeConnection, errors.ErrTypeTimeout:
		return http.StatusServiceUnavailable
	case errors.ErrTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
