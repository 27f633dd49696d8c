package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/leaderline/pkg/anneal"
	"github.com/matzehuels/leaderline/pkg/chart"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listOverlapStyle  = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Label rows
// =============================================================================

// labelRow is one label of a placement with its derived measures.
type labelRow struct {
	Index    int
	Name     string
	Anchor   anneal.Anchor
	Label    anneal.Label
	Quadrant anneal.Quadrant
	Leader   float64
	Overlap  float64
}

// labelRows derives the table rows of p in placement order.
func labelRows(p *chart.Placement) []labelRow {
	rows := make([]labelRow, len(p.Labels))
	for i, l := range p.Labels {
		rows[i] = labelRow{
			Index:    i,
			Name:     l.Name,
			Anchor:   l.Anchor,
			Label:    l.Label(),
			Quadrant: l.Quadrant(),
			Leader:   l.LeaderLength(),
			Overlap:  p.LabelOverlap(i),
		}
	}
	return rows
}

func (r labelRow) cells() []string {
	return []string{
		fmt.Sprintf("%d", r.Index),
		r.Name,
		fmt.Sprintf("%.1f, %.1f", r.Anchor.X, r.Anchor.Y),
		fmt.Sprintf("%.1f, %.1f", r.Label.X, r.Label.Y),
		r.Quadrant.String(),
		fmt.Sprintf("%.1f", r.Leader),
		fmt.Sprintf("%.1f", r.Overlap),
	}
}

var labelHeaders = []string{"#", "Label", "Anchor", "Position", "Side", "Leader", "Overlap"}

// labelSort orders the rows of the inspect table.
type labelSort int

const (
	sortByIndex labelSort = iota
	sortByOverlap
	sortByLeader
	numLabelSorts
)

func (s labelSort) String() string {
	switch s {
	case sortByOverlap:
		return "overlap"
	case sortByLeader:
		return "leader"
	default:
		return "index"
	}
}

// sortRows orders rows in place. Overlap and leader sort descending so the
// worst labels come first.
func sortRows(rows []labelRow, by labelSort) {
	slices.SortStableFunc(rows, func(a, b labelRow) int {
		switch by {
		case sortByOverlap:
			return cmp.Compare(b.Overlap, a.Overlap)
		case sortByLeader:
			return cmp.Compare(b.Leader, a.Leader)
		default:
			return cmp.Compare(a.Index, b.Index)
		}
	})
}

// renderLabelTable draws rows[offset:end] with the cursor row highlighted.
// A negative cursor highlights nothing.
func renderLabelTable(rows []labelRow, offset, end, cursor int) string {
	cells := make([][]string, 0, end-offset)
	for i := offset; i < end; i++ {
		cells = append(cells, rows[i].cells())
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(labelHeaders...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := offset + row
			if idx >= end {
				return lipgloss.NewStyle()
			}
			base := listNormalStyle
			if rows[idx].Overlap > 0 && col == len(labelHeaders)-1 {
				base = listOverlapStyle
			}
			if idx == cursor {
				return base.Foreground(colorCyan).Bold(true)
			}
			return base
		}).
		Render()
}

// =============================================================================
// LabelTableModel - Interactive label browser
// =============================================================================

// LabelTableModel is the bubbletea model for browsing the labels of a
// placement.
type LabelTableModel struct {
	Title  string
	Rows   []labelRow
	Cursor int
	Offset int
	Height int
	Sort   labelSort

	energy    float64
	overlap   float64
	crossings int
}

// NewLabelTableModel creates a label browser for p.
func NewLabelTableModel(p *chart.Placement) LabelTableModel {
	title := p.Title
	if title == "" {
		title = "Placement"
	}
	return LabelTableModel{
		Title:     title,
		Rows:      labelRows(p),
		Height:    15,
		energy:    p.Energy,
		overlap:   p.Overlap(),
		crossings: p.Crossings(),
	}
}

func (m LabelTableModel) Init() tea.Cmd {
	return nil
}

func (m LabelTableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = max(len(m.Rows)-1, 0)
		case "s":
			m.Sort = (m.Sort + 1) % numLabelSorts
			sortRows(m.Rows, m.Sort)
			m.Cursor = 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}
	m.scroll()
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *LabelTableModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m LabelTableModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("energy %.2f · overlap %.1f · %d crossings", m.energy, m.overlap, m.crossings)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  s sort (" + m.Sort.String() + ")  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  no labels"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	b.WriteString(renderLabelTable(m.Rows, m.Offset, end, m.Cursor))
	b.WriteString("\n")

	r := m.Rows[m.Cursor]
	b.WriteString(listSelectedStyle.Render("▸ " + r.Name))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  box %.1f×%.1f at (%.1f, %.1f), anchor r=%.1f",
		r.Label.Width, r.Label.Height, r.Label.X, r.Label.Y, r.Anchor.R)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}
