package server

import (
	"bytes"
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/matzehuels/graphtext/pkg/errors"
	"github.com/matzehuels/graphtext/pkg/graph"
	"github.com/matzehuels/graphtext/pkg/metrics"
	"github.com/matzehuels/graphtext/pkg/pipeline"
	"github.com/matzehuels/graphtext/pkg/render/d3"
	"github.com/matzehuels/graphtext/internal/server/ui"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, ui.Page{
		Directed:  s.opts.Defaults.Directed,
		IndexBase: int(s.opts.Defaults.IndexBase),
	})
}

func (s *Server) handleSnippetPage(w http.ResponseWriter, r *http.Request) {
	sn, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	metrics.ObserveSnippet("get", err)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(statusFor(err))
		_, _ = w.Write([]byte(apperrors.Display(err) + "\n"))
		return
	}
	s.renderPage(w, r, ui.Page{
		Text:      sn.Text,
		Directed:  sn.Directed,
		IndexBase: int(sn.IndexBase),
		SnippetID: sn.ID,
	})
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, p ui.Page) {
	var buf bytes.Buffer
	if err := ui.Render(&buf, p); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleParse parses the text and returns the graph with D3 simulation data.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req drawRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := req.options(s.opts.Defaults, pipeline.FormatJSON)

	var resp parseResponse
	_, err := pipeline.DrawLimited(r.Context(), req.input(), pipeline.RendererFunc(func(ctx context.Context, g *graph.Graph) error {
		resp = parseResponse{Graph: g, D3: d3.ToData(g, opts.Width, opts.Height)}
		return nil
	}), opts.MaxNodes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleRender returns one artifact. The format comes from ?format= and
// defaults to svg.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	var req drawRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), req.Text, req.options(s.opts.Defaults, format))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data := result.Artifacts[format]
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Graph-Hash", result.GraphHash)
	if result.CacheHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(data)
}

func (s *Server) handleCreateSnippet(w http.ResponseWriter, r *http.Request) {
	var req drawRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sn, err := s.store.Create(r.Context(), newSnippet(req))
	metrics.ObserveSnippet("create", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("stored snippet", "id", sn.ID, "bytes", len(sn.Text))
	w.Header().Set("Location", snippetURL(sn.ID))
	s.writeJSON(w, http.StatusCreated, snippetResponse{ID: sn.ID, URL: snippetURL(sn.ID)})
}

func (s *Server) handleGetSnippet(w http.ResponseWriter, r *http.Request) {
	sn, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	metrics.ObserveSnippet("get", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sn)
}
