package http

import (
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pagedrop/app/internal/page"
)

// Options configures the HTTP server wiring.
type Options struct {
	PageService page.Service
	Database    *gorm.DB
	Logger      *logrus.Logger
	SentryHub   *sentry.Hub
	Version     string
}

// Server wires the HTTP transport layer via Huma and templ components.
type Server struct {
	api    huma.API
	mux    *stdhttp.ServeMux
	pages  page.Service
	logger *logrus.Logger
	sentry *sentry.Hub
	db     *gorm.DB
}

// NewServer constructs the HTTP server.
func NewServer(opts Options) (*Server, error) {
	if opts.PageService == nil {
		return nil, eris.New("page service is required")
	}
	if opts.Database == nil {
		return nil, eris.New("database is required")
	}

	version := opts.Version
	if version == "" {
		version = "1.0.0"
	}

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig("Pagedrop", version)
	config.Info.Description = "Publish Markdown pages without an account. The edit secret is the only credential."

	api := humago.New(mux, config)

	srv := &Server{
		api:    api,
		mux:    mux,
		pages:  opts.PageService,
		logger: opts.Logger,
		sentry: opts.SentryHub,
		db:     opts.Database,
	}

	srv.registerMiddlewares()
	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the underlying HTTP handler for wiring into the application.
func (s *Server) Handler() stdhttp.Handler {
	return s.mux
}

// API exposes the underlying Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.sentryMiddleware(),
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.loggingMiddleware(),
	)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /favicon.ico", faviconHandler)
	s.mux.Handle("GET /static/", staticHandler())

	s.registerAPIRoutes()
	s.registerViewRoutes()
	s.registerHealthRoute()
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.mux.ServeHTTP(w, r)
}
