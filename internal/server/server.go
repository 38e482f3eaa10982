// Package server serves a built workspace over HTTP, read-only.
//
// Routes:
//
//	GET /healthz                 liveness
//	GET /workspace.json          the exported workspace document
//	GET /views                   view summaries
//	GET /views/{key}             one view as JSON
//	GET /views/{key}.{format}    one view rendered as svg, png, pdf or dot
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/archscape/pkg/errors"
	"github.com/matzehuels/archscape/pkg/io"
	"github.com/matzehuels/archscape/pkg/pipeline"
	"github.com/matzehuels/archscape/pkg/render"
	"github.com/matzehuels/archscape/pkg/workspace"
)

// Server holds the workspace and the runner that renders its views.
type Server struct {
	ws     *workspace.Workspace
	doc    io.Document
	json   []byte
	runner *pipeline.Runner
	render render.Options
	logger *log.Logger
}

// ViewSummary is an entry of GET /views.
type ViewSummary struct {
	Key           string   `json:"key"`
	Kind          string   `json:"kind"`
	Description   string   `json:"description,omitempty"`
	Elements      int      `json:"elements"`
	Relationships int      `json:"relationships"`
	Formats       []string `json:"formats"`
}

// New prepares a server for ws. The workspace document is encoded once.
func New(ws *workspace.Workspace, runner *pipeline.Runner, opts render.Options, logger *log.Logger) (*Server, error) {
	data, err := io.MarshalJSON(ws)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		ws:     ws,
		doc:    io.FromWorkspace(ws),
		json:   data,
		runner: runner,
		render: opts,
		logger: logger,
	}, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok\n"))
	})
	r.Get("/workspace.json", s.workspace)
	r.Route("/views", func(r chi.Router) {
		r.Get("/", s.views)
		r.Get("/{key}", s.view)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("serving workspace", "addr", addr, "views", len(s.ws.Views.Keys()))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) workspace(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(s.json)
}

func (s *Server) views(w http.ResponseWriter, _ *http.Request) {
	formats := make([]string, len(render.Formats))
	for i, f := range render.Formats {
		formats[i] = string(f)
	}
	out := make([]ViewSummary, 0, len(s.ws.Views.Keys()))
	for _, v := range s.ws.Views.All() {
		out = append(out, ViewSummary{
			Key:           v.Key(),
			Kind:          v.Kind().String(),
			Description:   v.Description(),
			Elements:      len(v.Elements()),
			Relationships: len(v.Relationships()) + len(v.ImpliedRelationships()),
			Formats:       formats,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// view serves /views/{key} and /views/{key}.{format}. View keys never
// contain dots, so the last dot separates the format.
func (s *Server) view(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		s.rendered(w, r, key[:i], key[i+1:])
		return
	}
	if doc, ok := s.viewDoc(key); ok {
		writeJSON(w, http.StatusOK, doc)
		return
	}
	s.fail(w, r, errors.New(errors.ErrCodeNotFound, "view %q", key))
}

func (s *Server) rendered(w http.ResponseWriter, r *http.Request, key, format string) {
	f, err := render.ParseFormat(format)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := s.runner.RenderView(r.Context(), s.ws, key, f, pipeline.Options{Render: s.render})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Write(data)
}

func (s *Server) viewDoc(key string) (io.ViewDoc, bool) {
	for _, list := range [][]io.ViewDoc{
		s.doc.Views.SystemLandscapeViews,
		s.doc.Views.ContainerViews,
		s.doc.Views.DeploymentViews,
	} {
		for _, v := range list {
			if v.Key == key {
				return v, true
			}
		}
	}
	return io.ViewDoc{}, false
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorBody{Code: string(code), Message: errors.UserMessage(err)})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
