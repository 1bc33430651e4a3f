// SPDX-FileCopyrightText: 2026 The NexGen-AI Authors
// SPDX-License-Identifier: Apache-2.0

// Package server hosts the HTTP endpoints of the model server behind the
// exporter-toolkit listener, so TLS and basic auth come from a web config file.
package server

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/exporter-toolkit/web"

	"github.com/nexgen-ai/socmodel/internal/service"
)

const shutdownTimeout = 5 * time.Second

// APIService is a service that other services register endpoints on
type APIService interface {
	service.Service
	Register(endpoint, summary, description string, handler http.Handler) error
}

type endpoint struct {
	path, summary, description string
}

// APIServer serves registered endpoints and an index page listing them
type APIServer struct {
	logger      *slog.Logger
	server      *http.Server
	mux         *http.ServeMux
	listenAddrs []string
	webConfig   string
	endpoints   []endpoint
}

var (
	_ APIService         = (*APIServer)(nil)
	_ service.Runner     = (*APIServer)(nil)
	_ service.Shutdowner = (*APIServer)(nil)
)

type Opts struct {
	logger      *slog.Logger
	listenAddrs []string
	webConfig   string
}

// OptionFn is a function sets one more more options in Opts struct
type OptionFn func(*Opts)

// WithLogger sets the logger for the APIServer
func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Opts) {
		o.logger = logger
	}
}

// WithListenAddress sets the addresses the server listens on
func WithListenAddress(addrs []string) OptionFn {
	return func(o *Opts) {
		o.listenAddrs = addrs
	}
}

// WithWebConfig sets the exporter-toolkit web config file (TLS, auth)
func WithWebConfig(path string) OptionFn {
	return func(o *Opts) {
		o.webConfig = path
	}
}

// DefaultOpts returns the default options
func DefaultOpts() Opts {
	return Opts{
		logger:      slog.Default(),
		listenAddrs: []string{":28283"},
	}
}

// NewAPIServer creates a new APIServer instance
func NewAPIServer(applyOpts ...OptionFn) *APIServer {
	opts := DefaultOpts()
	for _, apply := range applyOpts {
		apply(&opts)
	}

	mux := http.NewServeMux()
	return &APIServer{
		logger:      opts.logger.With("service", "api-server"),
		mux:         mux,
		server:      &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
		listenAddrs: opts.listenAddrs,
		webConfig:   opts.webConfig,
	}
}

func (s *APIServer) Name() string {
	return "api-server"
}

func (s *APIServer) Init() error {
	if len(s.listenAddrs) == 0 {
		return errors.New("no listening address provided")
	}
	s.mux.HandleFunc("/", s.index)
	return nil
}

func (s *APIServer) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	var items strings.Builder
	for _, e := range s.endpoints {
		fmt.Fprintf(&items, "<li><a href=%q>%s</a> %s</li>\n",
			e.path, html.EscapeString(e.summary), html.EscapeString(e.description))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := fmt.Fprintf(w, `<html>
<head><title>socmodel</title></head>
<body>
<h1>SoC Performance Model</h1>
<ul>
%s</ul>
</body>
</html>`, items.String())
	if err != nil {
		s.logger.Error("failed to write landing page", "error", err)
	}
}

func (s *APIServer) Run(ctx context.Context) error {
	s.logger.Info("Listening", "addresses", s.listenAddrs)
	flags := &web.FlagConfig{
		WebListenAddresses: &s.listenAddrs,
		WebConfigFile:      &s.webConfig,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- web.ListenAndServe(s.server, flags, s.logger)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		s.logger.Error("server returned an error", "error", err)
		return err
	}
}

func (s *APIServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Register adds handler at path and lists it on the index page
func (s *APIServer) Register(path, summary, description string, handler http.Handler) error {
	s.logger.Debug("Endpoint registered", "endpoint", path)
	s.mux.Handle(path, handler)
	s.endpoints = append(s.endpoints, endpoint{path, summary, description})
	return nil
}
