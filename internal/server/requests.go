package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/matzehuels/graphtext/pkg/errors"
	"github.com/matzehuels/graphtext/pkg/graph"
	"github.com/matzehuels/graphtext/pkg/graphtext"
	"github.com/matzehuels/graphtext/pkg/pipeline"
	"github.com/matzehuels/graphtext/pkg/render/d3"
	"github.com/matzehuels/graphtext/pkg/snippet"
)

// drawRequest is the body of /api/parse, /api/render and /api/snippets.
type drawRequest struct {
	Text        string  `json:"text"`
	Directed    bool    `json:"directed"`
	IndexBase   *int    `json:"index_base" validate:"omitempty,oneof=0 1"`
	Engine      string  `json:"engine" validate:"omitempty,oneof=fdp neato sfdp dot circo"`
	Width       float64 `json:"width" validate:"gte=0,lte=10000"`
	Height      float64 `json:"height" validate:"gte=0,lte=10000"`
	Seed        int     `json:"seed"`
	HideWeights bool    `json:"hide_weights"`
	Title       string  `json:"title" validate:"max=200"`
}

func (d drawRequest) indexBase() graphtext.IndexBase {
	if d.IndexBase == nil {
		return graphtext.ZeroBased
	}
	return graphtext.IndexBase(*d.IndexBase)
}

// input adapts the request to pipeline.InputSource.
func (d drawRequest) input() pipeline.StaticInput {
	return pipeline.StaticInput{Source: d.Text, IsDirect: d.Directed, Base: d.indexBase()}
}

// options overlays the request on the server defaults.
func (d drawRequest) options(defaults pipeline.Options, format string) pipeline.Options {
	opts := defaults
	opts.Directed = d.Directed
	opts.IndexBase = d.indexBase()
	opts.Formats = []string{format}
	opts.HideWeights = d.HideWeights
	if d.Engine != "" {
		opts.Engine = d.Engine
	}
	if d.Width > 0 {
		opts.Width = d.Width
	}
	if d.Height > 0 {
		opts.Height = d.Height
	}
	if d.Seed != 0 {
		opts.Seed = d.Seed
	}
	if d.Title != "" {
		opts.Title = d.Title
	}
	return opts
}

type parseResponse struct {
	Graph *graph.Graph `json:"graph"`
	D3    d3.Data      `json:"d3"`
}

type snippetResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func snippetURL(id string) string { return "/s/" + id }

func newSnippet(d drawRequest) snippet.Snippet {
	return snippet.Snippet{Text: d.Text, Directed: d.Directed, IndexBase: d.indexBase()}
}

// decode reads a JSON body into v, validates it and checks the graph text
// for transport problems.
func (s *Server) decode(r *http.Request, v *drawRequest) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "request body too large (max %d bytes)", tooLarge.Limit)
		}
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	if err := s.validate.Struct(v); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid request: %s", describe(err))
	}
	return apperrors.ValidateGraphText(v.Text, int(s.opts.MaxBodyBytes))
}

// describe lists the offending JSON fields of a validation error.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = jsonName(fe.Field()) + " failed " + fe.Tag()
	}
	return strings.Join(fields, "; ")
}

var jsonNames = map[string]string{
	"IndexBase": "index_base",
	"Engine":    "engine",
	"Width":     "width",
	"Height":    "height",
	"Title":     "title",
}

func jsonName(field string) string {
	if n, ok := jsonNames[field]; ok {
		return n
	}
	return strings.ToLower(field)
}
