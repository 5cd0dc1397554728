// Package ui holds the drawing page served at "/".
package ui

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/matzehuels/graphtext/pkg/render/d3"
)

//go:embed static/*
var static embed.FS

//go:embed templates/index.html.tmpl
var indexSource string

var indexTmpl = template.Must(template.New("index").Parse(indexSource))

// Page is the data the drawing page is prefilled with.
type Page struct {
	Text      string
	Directed  bool
	IndexBase int
	SnippetID string
}

// Render writes the drawing page.
func Render(w io.Writer, p Page) error {
	return indexTmpl.Execute(w, struct {
		Page
		D3URL  string
		Script template.JS
	}{
		Page:   p,
		D3URL:  d3.D3URL,
		Script: template.JS(d3.Script()),
	})
}

// StaticHandler serves the page's script and stylesheet. Mount it with the
// "/static/" prefix stripped.
func StaticHandler() http.Handler {
	fsys, err := fs.Sub(static, "static")
	if err != nil {
		panic(err) // embed paths are fixed at build time
	}
	return http.FileServer(http.FS(fsys))
}
