package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/graphtext/pkg/errors"
	"github.com/matzehuels/graphtext/pkg/graph"
	"github.com/matzehuels/graphtext/pkg/graphtext"
	"github.com/matzehuels/graphtext/pkg/pipeline"
)

// Editor styles
var (
	editorErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
	editorOKStyle    = lipgloss.NewStyle().Foreground(colorGreen)
	editorToggleOn   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editorToggleOff  = lipgloss.NewStyle().Foreground(colorDim)
	editorPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// previewEdges is how many edges the preview panel lists.
const previewEdges = 8

// editCommand creates the edit command.
func (c *CLI) editCommand() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit graph text with live validation",
		Long: `Edit opens graph text in a terminal editor. Every change is parsed
immediately; errors are shown as "Error: <message>" and the preview keeps the
last valid graph.

Keys:
  ctrl+t  toggle directed / undirected
  ctrl+b  toggle zero-based / one-based ids
  ctrl+s  save to the file
  esc     quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runEdit(cmd, path, &in)
		},
	}
	in.register(cmd)
	return cmd
}

func (c *CLI) runEdit(cmd *cobra.Command, path string, in *inputFlags) error {
	directed, base, err := in.resolve(cmd, c.settings())
	if err != nil {
		return err
	}

	text := ""
	if path != "" {
		text, err = readText(cmd.InOrStdin(), path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	m := newEditModel(cmd.Context(), path, text, directed, base)
	final, err := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}

	em := final.(editModel)
	if em.err != nil {
		printError("%s", apperrors.Display(em.err))
		return nil
	}
	if em.graph != nil {
		printSuccess("Valid graph")
		printStats(em.graph.NodesCount, len(em.graph.Edges), false)
	}
	return nil
}

// editModel is the bubbletea model for the editor. It is also the
// pipeline.InputSource the editor draws from.
type editModel struct {
	ctx      context.Context
	path     string
	area     textarea.Model
	directed bool
	base     graphtext.IndexBase

	graph  *graph.Graph // last valid graph
	err    error        // current parse error, nil when the text is valid
	status string
	width  int
}

var _ pipeline.InputSource = editModel{}

func newEditModel(ctx context.Context, path, text string, directed bool, base graphtext.IndexBase) editModel {
	area := textarea.New()
	area.Placeholder = "3 2\n0 1\n1 2"
	area.ShowLineNumbers = true
	area.CharLimit = apperrors.MaxTextBytes
	area.MaxHeight = 0
	area.SetWidth(40)
	area.SetHeight(16)
	area.SetValue(text)
	area.Focus()

	m := editModel{
		ctx:      ctx,
		path:     path,
		area:     area,
		directed: directed,
		base:     base,
		width:    80,
	}
	m.redraw()
	return m
}

func (m editModel) Text() string                   { return m.area.Value() }
func (m editModel) Directed() bool                 { return m.directed }
func (m editModel) IndexBase() graphtext.IndexBase { return m.base }

// redraw parses the current input. On failure the preview keeps the
// previous graph and only the error line changes.
func (m *editModel) redraw() {
	preview := pipeline.RendererFunc(func(_ context.Context, g *graph.Graph) error {
		m.graph = g
		return nil
	})
	_, m.err = pipeline.Draw(m.ctx, *m, preview)
}

func (m editModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "ctrl+t":
			m.directed = !m.directed
			m.status = ""
			m.redraw()
			return m, nil
		case "ctrl+b":
			m.base = 1 - m.base
			m.status = ""
			m.redraw()
			return m, nil
		case "ctrl+s":
			m.status = m.save()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.area.SetWidth(max(msg.Width/2-4, 20))
		m.area.SetHeight(max(msg.Height-8, 5))
	}

	before := m.area.Value()
	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	if m.area.Value() != before {
		m.status = ""
		m.redraw()
	}
	return m, cmd
}

// save writes the text to the file and returns the status line.
func (m editModel) save() string {
	if m.path == "" {
		return editorErrorStyle.Render("no file to save to; start with graphtext edit <file>")
	}
	if err := os.WriteFile(m.path, []byte(m.area.Value()), 0o644); err != nil {
		return editorErrorStyle.Render(err.Error())
	}
	return editorOKStyle.Render(iconSuccess + " saved " + m.path)
}

func (m editModel) View() string {
	var b strings.Builder

	title := "graphtext"
	if m.path != "" {
		title += " · " + m.path
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(toggle("directed", m.directed) + "  " + toggle("undirected", !m.directed) + "    ")
	b.WriteString(toggle("zero-based", m.base == graphtext.ZeroBased) + "  " + toggle("one-based", m.base == graphtext.OneBased))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.area.View(),
		" ",
		editorPanelStyle.Render(m.preview()),
	))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(editorErrorStyle.Render(apperrors.Display(m.err)))
	} else {
		b.WriteString(editorOKStyle.Render(iconSuccess + " valid"))
	}
	if m.status != "" {
		b.WriteString("  " + m.status)
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("ctrl+t directed  ctrl+b index base  ctrl+s save  esc quit"))
	return b.String()
}

// preview summarizes the last valid graph.
func (m editModel) preview() string {
	g := m.graph
	if g == nil {
		return StyleDim.Render("nothing drawn yet")
	}

	arrow := "—"
	if g.Directed {
		arrow = iconArrow
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s nodes · %s edges\n\n",
		StyleNumber.Render(fmt.Sprint(g.NodesCount)),
		StyleNumber.Render(fmt.Sprint(len(g.Edges))))
	for i, e := range g.Edges {
		if i == previewEdges {
			b.WriteString(StyleDim.Render(fmt.Sprintf("… %d more", len(g.Edges)-previewEdges)))
			break
		}
		fmt.Fprintf(&b, "%d %s %d", e.From, arrow, e.To)
		if e.Weight != 1 {
			b.WriteString(StyleDim.Render(fmt.Sprintf("  (%d)", e.Weight)))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func toggle(label string, on bool) string {
	if on {
		return editorToggleOn.Render("● " + label)
	}
	return editorToggleOff.Render("○ " + label)
}
