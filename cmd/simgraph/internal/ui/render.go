package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/simgraph/simgraph/pkg/graph"
)

// Style definitions
var (
	primaryColor = lipgloss.Color("#3b82f6")
	mutedColor   = lipgloss.Color("#94a3b8")
	errorColor   = lipgloss.Color("#ef4444")
	accentColor  = lipgloss.Color("#16a34a")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	accentStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)
)

// View renders the inspector.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("failed to load %s: %v", m.source, m.err)) + "\n"
	}

	switch m.pane {
	case PaneLoading:
		return fmt.Sprintf("\n  %s loading %s...\n", m.spinner.View(), m.source)
	case PaneMembers:
		return m.renderMembers()
	default:
		return m.renderClusters()
	}
}

func (m Model) renderClusters() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("simgraph inspect · " + m.source))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d documents, %d clusters, %d noise (%s)",
		m.meta.DocumentCount, m.meta.ClusterCount, m.meta.NoiseCount, m.meta.Algorithm)))
	b.WriteString("\n\n")

	for i, row := range m.clusters {
		cursor := "  "
		line := fmt.Sprintf("%-12s %4d docs", clusterTitle(row.Stat), row.Stat.Size)
		if row.Stat.DominantArea != "" {
			line += mutedStyle.Render("  " + row.Stat.DominantArea)
		}
		if i == m.selected {
			cursor = selectedStyle.Render("> ")
			line = selectedStyle.Render(line)
		} else {
			line = normalStyle.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}

	b.WriteString(m.renderFooter("↑/↓ select · enter open · q quit"))
	return b.String()
}

func (m Model) renderMembers() string {
	row := m.clusters[m.selected]
	var b strings.Builder

	header := fmt.Sprintf("%s · %d documents", clusterTitle(row.Stat), row.Stat.Size)
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	if len(row.Stat.AreaDistribution) > 0 {
		b.WriteString(mutedStyle.Render("areas: "+formatAreas(row.Stat.AreaDistribution)) + "\n")
	}
	b.WriteString("\n")

	visible := m.visibleMembers(row.Members)
	for i, mem := range row.Members {
		if i < visible.from || i >= visible.to {
			continue
		}
		cursor := "  "
		line := fmt.Sprintf("%-40.40s  %s",
			memberTitle(mem.Node),
			accentStyle.Render(fmt.Sprintf("%d links, Σsim %.2f", mem.Degree, mem.Strength)))
		if i == m.member {
			cursor = selectedStyle.Render("> ")
		}
		b.WriteString(cursor + line + "\n")
	}

	if len(row.Members) > 0 {
		b.WriteString("\n" + m.renderDetail(row.Members[m.member]))
	}
	b.WriteString(m.renderFooter("↑/↓ select · esc back · q quit"))
	return b.String()
}

// renderDetail shows the selected member's strongest neighbors, the same
// top-10 descending query the server answers on click.
func (m Model) renderDetail(mem MemberRow) string {
	var b strings.Builder
	b.WriteString(memberTitle(mem.Node))
	if mem.Node.CaseLabel != "" {
		b.WriteString(mutedStyle.Render("  " + mem.Node.CaseLabel))
	}
	b.WriteString("\n")
	if mem.Node.Raw.Snippet != "" {
		b.WriteString(mutedStyle.Render(truncate(mem.Node.Raw.Snippet, 78)) + "\n")
	}
	if len(mem.Neighbors) == 0 {
		b.WriteString(mutedStyle.Render("no edges") + "\n")
	}
	for _, nb := range mem.Neighbors {
		b.WriteString(fmt.Sprintf("  %.2f  %s\n", nb.Similarity, memberTitle(nb.Node)))
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

func (m Model) renderFooter(help string) string {
	return footerStyle.Render(help)
}

type window struct{ from, to int }

// visibleMembers keeps the cursor inside the member list when it is taller
// than the terminal.
func (m Model) visibleMembers(members []MemberRow) window {
	max := m.height - 18
	if max < 5 {
		max = 5
	}
	if len(members) <= max {
		return window{0, len(members)}
	}
	from := m.member - max/2
	if from < 0 {
		from = 0
	}
	if from+max > len(members) {
		from = len(members) - max
	}
	return window{from, from + max}
}

func memberTitle(n graph.Node) string {
	if n.Title != "" {
		return n.Title
	}
	return n.ID
}

func formatAreas(dist map[string]int) string {
	areas := make([]string, 0, len(dist))
	for area := range dist {
		areas = append(areas, area)
	}
	sort.Strings(areas)
	parts := make([]string, 0, len(areas))
	for _, area := range areas {
		parts = append(parts, fmt.Sprintf("%s (%d)", area, dist[area]))
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
