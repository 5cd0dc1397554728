package d3

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/matzehuels/graphtext/pkg/graph"
)

//go:embed assets/graph.js
var script string

//go:embed assets/page.html.tmpl
var pageSource string

var pageTmpl = template.Must(template.New("page").Parse(pageSource))

// D3URL is the script the pages load D3 from.
const D3URL = "https://cdn.jsdelivr.net/npm/d3@7"

// Options configures the standalone page.
type Options struct {
	Title  string
	Width  float64
	Height float64
}

// Script returns the drawing script. It defines drawGraph(selector, data).
func Script() string { return script }

// RenderHTML writes a standalone page that draws g with D3.
func RenderHTML(g *graph.Graph, opts Options) ([]byte, error) {
	if opts.Title == "" {
		opts.Title = "graph"
	}
	data, err := json.Marshal(ToData(g, opts.Width, opts.Height))
	if err != nil {
		return nil, fmt.Errorf("encode graph data: %w", err)
	}

	var buf bytes.Buffer
	err = pageTmpl.Execute(&buf, struct {
		Title  string
		D3URL  string
		Script template.JS
		Data   template.JS
	}{
		Title:  opts.Title,
		D3URL:  D3URL,
		Script: template.JS(script),
		Data:   template.JS(data),
	})
	if err != nil {
		return nil, fmt.Errorf("execute page template: %w", err)
	}
	return buf.Bytes(), nil
}
