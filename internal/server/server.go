package server

import (
	"context"
	"crypto/tls"
	stderrors "errors"
	"net/http"
	"time"
)

// Options configures the inbound HTTP server
type Options struct {
	Port    string
	TLSCert string
	TLSKey  string
	// WriteTimeout must exceed the outbound request timeout or slow
	// upstream responses are cut off
	WriteTimeout time.Duration
}

// Server represents an HTTP server
type Server struct {
	srv     *http.Server
	tlsCert string
	tlsKey  string
}

// New creates a new server instance
func New(handler http.Handler, opts Options) *Server {
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 60 * time.Second
	}
	return &Server{
		srv: &http.Server{
			Addr:              ":" + opts.Port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      opts.WriteTimeout,
			IdleTimeout:       120 * time.Second,
		},
		tlsCert: opts.TLSCert,
		tlsKey:  opts.TLSKey,
	}
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.srv.Addr
}

// ListenAndServe blocks until the server stops. A graceful Shutdown returns
// nil.
func (s *Server) ListenAndServe() error {
	var err error
	if s.tlsCert != "" && s.tlsKey != "" {
		s.srv.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		err = s.srv.ListenAndServeTLS(s.tlsCert, s.tlsKey)
	} else {
		err = s.srv.ListenAndServe()
	}
	if stderrors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
