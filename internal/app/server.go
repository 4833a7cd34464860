package app

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"service-gateway/internal/handlers"
	"service-gateway/internal/server"
)

// Router builds the HTTP handler with every route configured
func (app *App) Router() http.Handler {
	h := handlers.New(handlers.Deps{
		Forwarder:    app.Forwarder,
		Async:        app.Async,
		Resolver:     app.Resolver,
		Breakers:     app.Breakers,
		Collector:    app.Collector,
		Reloader:     app.Reloader,
		AsyncTimeout: app.Config.RequestTimeout,
	})

	router := mux.NewRouter()
	SetupRoutes(router, h, app.Prometheus.Handler(), app.Config.CORSAllowedOrigins)
	return router
}

// NewServer creates the HTTP server for the application
func (app *App) NewServer() *server.Server {
	return server.New(app.Router(), server.Options{
		Port:         app.Config.Port,
		TLSCert:      app.Config.TLSCertFile,
		TLSKey:       app.Config.TLSKeyFile,
		WriteTimeout: app.Config.RequestTimeout + 30*time.Second,
	})
}
