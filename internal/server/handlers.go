package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/classview/pkg/buildinfo"
	apperrors "github.com/matzehuels/classview/pkg/errors"
	"github.com/matzehuels/classview/pkg/hierarchy"
	"github.com/matzehuels/classview/pkg/interact"
	"github.com/matzehuels/classview/pkg/pipeline"
	"github.com/matzehuels/classview/pkg/render"
	"github.com/matzehuels/classview/pkg/store"
	"github.com/matzehuels/classview/pkg/view"
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(s.logger),
		middleware.Recoverer,
	)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/load", s.handleLoad)
			r.Post("/build", s.handleBuild)
			r.Post("/pointer", s.handlePointer)
			r.Get("/pointer/ws", s.handlePointerWS)
			r.Get("/svg", s.handleSVG)
			r.Get("/export", s.handleExport)
		})
	})
	return r
}

// sessionResponse is the JSON view of a session.
type sessionResponse struct {
	ID     string       `json:"id"`
	File   string       `json:"file,omitempty"`
	State  view.State   `json:"state"`
	Error  string       `json:"error,omitempty"`
	Active string       `json:"active,omitempty"`
	Scene  render.Scene `json:"scene"`
}

func newSessionResponse(id string, st view.Status) sessionResponse {
	resp := sessionResponse{
		ID:     id,
		File:   st.File,
		State:  st.State,
		Active: st.Active,
		Scene:  render.NewScene(st.Graph, st.NodeSize),
	}
	if st.Err != nil {
		resp.Error = apperrors.UserMessage(st.Err)
	}
	return resp
}

type fileRequest struct {
	File string `json:"file"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req fileRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.File != "" {
		if err := apperrors.ValidateFileName(req.File); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	e := s.register(s.newEntry(store.NewID(), bearerToken(r)))
	if req.File != "" {
		s.load(e, req.File)
	}
	s.logger.Info("session created", "session", e.id, "file", req.File)
	writeJSON(w, http.StatusCreated, newSessionResponse(e.id, e.view.Status()))
}

// session resolves the {id} URL parameter, writing an error if it fails.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*entry, bool) {
	e, err := s.lookup(r.Context(), chi.URLParam(r, "id"), bearerToken(r))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return e, true
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(e.id, e.view.Status()))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	var req fileRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := apperrors.ValidateFileName(req.File); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.load(e, req.File)
	writeJSON(w, http.StatusAccepted, newSessionResponse(e.id, e.view.Status()))
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	m := hierarchy.NewMapping()
	if err := decodeJSON(r, m); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := e.view.Apply(r.Context(), m); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeSessionClosed, err, "session %s is closed", e.id))
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(e.id, e.view.Status()))
}

func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	var ev interact.PointerEvent
	if err := decodeJSON(r, &ev); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := e.view.Pointer(ev); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(e.id, e.view.Status()))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	s.export(w, r, pipeline.FormatSVG)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	s.export(w, r, format)
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) export(w http.ResponseWriter, r *http.Request, format string) {
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "unsupported export format %q", format))
		return
	}
	e, ok := s.session(w, r)
	if !ok {
		return
	}
	st := e.view.Status()
	artifacts, err := s.opts.Runner.Render(r.Context(), st.Graph, pipeline.Options{
		NodeSize: st.NodeSize,
		Formats:  []string{format},
		Detailed: r.URL.Query().Get("detailed") == "true",
	})
	if err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeInternal, err, "rendering %s", format))
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(artifacts[format])
}
