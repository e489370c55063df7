package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/cellbars/pkg/render/sink"
	"github.com/matzehuels/cellbars/pkg/table"
)

var (
	listDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	listSortStyle = StyleHighlight.Bold(true)
)

const (
	// previewChrome is the number of terminal lines used around the table:
	// title, hints, table borders and header, footer.
	previewChrome = 8
	minPageSize   = 3
)

// previewKeys are the preview's key bindings.
type previewKeys struct {
	Up, Down, PageUp, PageDown, Top, Bottom, Sort, Reverse, Quit key.Binding
}

func newPreviewKeys() previewKeys {
	return previewKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "f", " "), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Reverse:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reverse")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k previewKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.PageDown, k.Sort, k.Reverse, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k previewKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Top, k.Bottom, k.Sort, k.Reverse, k.Quit},
	}
}

// =============================================================================
// PreviewModel - Scrollable bar table
// =============================================================================

// PreviewModel is the bubbletea model for browsing a rendered table.
// Rows can be scrolled and sorted by any column.
type PreviewModel struct {
	Title    string
	Rendered sink.Table
	Source   *table.Table
	SinkOpts []sink.Option

	// Order maps display positions to source rows.
	Order   []int
	Offset  int
	Height  int
	SortCol int // -1 keeps input order
	Desc    bool

	keys previewKeys
	help help.Model
}

// NewPreviewModel creates a preview of rendered, whose rows come from src.
func NewPreviewModel(title string, rendered sink.Table, src *table.Table, opts ...sink.Option) PreviewModel {
	order := make([]int, rendered.Rows())
	for i := range order {
		order[i] = i
	}
	return PreviewModel{
		Title:    title,
		Rendered: rendered,
		Source:   src,
		SinkOpts: opts,
		Order:    order,
		Height:   15,
		SortCol:  -1,
		keys:     newPreviewKeys(),
		help:     help.New(),
	}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.Offset--
		case key.Matches(msg, m.keys.Down):
			m.Offset++
		case key.Matches(msg, m.keys.PageUp):
			m.Offset -= m.Height
		case key.Matches(msg, m.keys.PageDown):
			m.Offset += m.Height
		case key.Matches(msg, m.keys.Top):
			m.Offset = 0
		case key.Matches(msg, m.keys.Bottom):
			m.Offset = len(m.Order)
		case key.Matches(msg, m.keys.Sort):
			m.SortCol++
			if m.SortCol >= len(m.Rendered.Columns) {
				m.SortCol = -1
			}
			m.sort()
		case key.Matches(msg, m.keys.Reverse):
			m.Desc = !m.Desc
			m.sort()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-previewChrome, minPageSize)
		m.help.Width = msg.Width
	}
	m.clampOffset()
	return m, nil
}

func (m *PreviewModel) clampOffset() {
	m.Offset = min(m.Offset, len(m.Order)-m.Height)
	m.Offset = max(m.Offset, 0)
}

// sort reorders rows by the selected column. Numbers sort before text and
// missing values; ties keep input order.
func (m *PreviewModel) sort() {
	for i := range m.Order {
		m.Order[i] = i
	}
	if m.SortCol < 0 || m.Source == nil || m.SortCol >= len(m.Source.Columns) {
		return
	}
	col := m.Source.Columns[m.SortCol]
	less := func(a, b int) bool {
		fa, okA := col.Values[a].Float()
		fb, okB := col.Values[b].Float()
		switch {
		case okA && okB:
			if m.Desc {
				return fa > fb
			}
			return fa < fb
		case okA != okB:
			return okA
		}
		if m.Desc {
			return col.Raw[a] > col.Raw[b]
		}
		return col.Raw[a] < col.Raw[b]
	}
	sort.SliceStable(m.Order, func(i, j int) bool { return less(m.Order[i], m.Order[j]) })
}

// page returns the visible rows as a sink table.
func (m PreviewModel) page() sink.Table {
	end := min(m.Offset+m.Height, len(m.Order))
	rows := m.Order[m.Offset:end]

	out := sink.Table{Columns: make([]sink.Column, len(m.Rendered.Columns))}
	for j, c := range m.Rendered.Columns {
		pc := sink.Column{Name: c.Name}
		if m.SortCol == j {
			arrow := "↑"
			if m.Desc {
				arrow = "↓"
			}
			pc.Name = c.Name + " " + arrow
		}
		for _, r := range rows {
			if c.IsBar() {
				pc.Cells = append(pc.Cells, c.Cells[r])
			} else {
				pc.Text = append(pc.Text, c.Text[r])
			}
		}
		if c.IsBar() && pc.Cells == nil {
			pc.Cells = c.Cells[:0]
		}
		out.Columns[j] = pc
	}
	return out
}

func (m PreviewModel) View() string {
	var b strings.Builder

	title := m.Title
	if title == "" {
		title = "Preview"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")

	b.WriteString(sink.RenderTerminal(m.page(), m.SinkOpts...))
	b.WriteString("\n")

	end := min(m.Offset+m.Height, len(m.Order))
	footer := fmt.Sprintf("  [%d-%d/%d]", min(m.Offset+1, end), end, len(m.Order))
	b.WriteString(listDimStyle.Render(footer))
	if m.SortCol >= 0 && m.SortCol < len(m.Rendered.Columns) {
		b.WriteString(listDimStyle.Render("  sorted by "))
		b.WriteString(listSortStyle.Render(m.Rendered.Columns[m.SortCol].Name))
	}
	return b.String()
}
