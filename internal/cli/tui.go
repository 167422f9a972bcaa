package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/mutdom/pkg/graph"
)

// List styles
var (
	listSelectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDominatorStyle = lipgloss.NewStyle().Foreground(colorGreen)
	listDimStyle       = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle    = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// maxKillSetWidth truncates long kill sets in table cells.
const maxKillSetWidth = 40

// =============================================================================
// Group Table
// =============================================================================

// groupTable renders the groups l.Nodes[offset:end] as a table. A cursor of
// -1 renders a static table without the selection column.
func groupTable(l graph.Layout, cursor, offset, end int) string {
	interactive := cursor >= 0
	headers := []string{"Group", "Level", "Mutants", "Tests", "Kill set", "Dominator"}
	if interactive {
		headers = append([]string{""}, headers...)
	}

	rows := make([][]string, 0, end-offset)
	for i := offset; i < end; i++ {
		n := l.Nodes[i]
		dom := ""
		if n.Dominator {
			dom = "✓"
		}
		row := []string{
			n.ID,
			strconv.Itoa(n.Level),
			strconv.Itoa(len(n.Mutants)),
			strconv.Itoa(len(n.KillSet)),
			truncate(formatKillSet(n.KillSet), maxKillSetWidth),
			dom,
		}
		if interactive {
			marker := "  "
			if i == cursor {
				marker = "▸ "
			}
			row = append([]string{marker}, row...)
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			idx := offset + row
			if idx >= end {
				return lipgloss.NewStyle()
			}
			n := l.Nodes[idx]
			style := lipgloss.NewStyle()
			switch {
			case interactive && idx == cursor:
				style = listSelectedStyle
			case n.Dominator:
				style = listDominatorStyle
			}
			// level, counts and kill set are secondary
			first := 1
			if interactive {
				first = 2
			}
			if col >= first && col <= first+3 && !(interactive && idx == cursor) {
				style = style.Foreground(colorGray)
			}
			return style
		})

	return t.Render()
}

func formatKillSet(tests []string) string {
	if len(tests) == 0 {
		return "∅"
	}
	return "{" + strings.Join(tests, ", ") + "}"
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

// =============================================================================
// GroupListModel - Interactive group browser
// =============================================================================

// GroupListModel is the bubbletea model for browsing kill-set groups.
// Enter toggles a detail pane for the group under the cursor.
type GroupListModel struct {
	Layout     graph.Layout
	Cursor     int
	Offset     int
	Height     int
	ShowDetail bool

	subsumes   map[string][]string
	subsumedBy map[string][]string
}

// NewGroupListModel creates a group browser for l.
func NewGroupListModel(l graph.Layout) GroupListModel {
	m := GroupListModel{
		Layout:     l,
		Height:     15,
		subsumes:   make(map[string][]string),
		subsumedBy: make(map[string][]string),
	}
	for _, e := range l.Edges {
		m.subsumes[e.From] = append(m.subsumes[e.From], e.To)
		m.subsumedBy[e.To] = append(m.subsumedBy[e.To], e.From)
	}
	return m
}

func (m GroupListModel) Init() tea.Cmd {
	return nil
}

func (m GroupListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Layout.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.Layout.Nodes); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		case "enter", " ":
			m.ShowDetail = !m.ShowDetail
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m GroupListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Kill-set groups"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render("dominators: " + strings.Join(m.Layout.Dominators, ", ")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Layout.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  no groups"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Layout.Nodes))
	b.WriteString(groupTable(m.Layout, m.Cursor, m.Offset, end))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Layout.Nodes))))

	if m.ShowDetail {
		b.WriteString("\n\n")
		b.WriteString(m.detail(m.Layout.Nodes[m.Cursor]))
	}
	return b.String()
}

// detail renders the full kill set and direct subsumption neighbours of n.
func (m GroupListModel) detail(n graph.Node) string {
	line := func(key, value string) string {
		return listDimStyle.Width(13).Render(key) + " " + StyleValue.Render(value) + "\n"
	}
	orNone := func(ids []string) string {
		if len(ids) == 0 {
			return "—"
		}
		return strings.Join(ids, "  ")
	}

	var b strings.Builder
	b.WriteString(line("Mutants", strings.Join(n.Mutants, ", ")))
	b.WriteString(line("Kill set", formatKillSet(n.KillSet)))
	b.WriteString(line("Level", strconv.Itoa(n.Level)))
	b.WriteString(line("Subsumes", orNone(m.subsumes[n.ID])))
	b.WriteString(line("Subsumed by", orNone(m.subsumedBy[n.ID])))
	return b.String()
}
