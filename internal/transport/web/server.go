package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sandevgo/memybot/internal/config"
	"github.com/sandevgo/memybot/internal/core"
	"github.com/sandevgo/memybot/internal/observability"
	"github.com/sandevgo/memybot/pkg/log"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

//go:embed static/*
var embeddedStatic embed.FS

// Branding is what the left column of the page shows.
type Branding struct {
	Name  string
	Blurb string
}

type Server struct {
	cfg      *config.WebConfig
	chatter  core.Chatter
	branding Branding
	metrics  *observability.Metrics

	page    *template.Template
	static  http.Handler
	httpSrv *http.Server
}

func New(cfg *config.WebConfig, chatter core.Chatter, branding Branding, metrics *observability.Metrics) (*Server, error) {
	page, err := template.ParseFS(embeddedTemplates, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	return &Server{
		cfg:      cfg,
		chatter:  chatter,
		branding: branding,
		metrics:  metrics,
		page:     page,
		static:   http.FileServer(http.FS(sub)),
	}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestContext)

	r.Get("/", s.handleIndex)
	r.Handle("/static/*", http.StripPrefix("/static/", s.static))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Post("/api/chat", s.handleChat)

	return r
}

func (s *Server) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	s.httpSrv = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	logger.Info().Str("addr", s.cfg.Addr).Msg("starting web server")

	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	log.FromCtx(ctx).Info().Msg("stopping web server")
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Name      string
		Blurb     string
		FirstName string
	}{
		Name:      s.branding.Name,
		Blurb:     s.branding.Blurb,
		FirstName: firstName(s.branding.Name),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("failed to render page")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
	})
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return name
	}
	return fields[0]
}
