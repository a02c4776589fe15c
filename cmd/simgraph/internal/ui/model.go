// Package ui implements the terminal dataset inspector: a cluster list
// with a per-cluster member detail view, fed by the same snapshot the
// server renders.
package ui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simgraph/simgraph/pkg/graph"
)

// Pane identifies which panel has focus.
type Pane int

const (
	PaneLoading Pane = iota
	PaneClusters
	PaneMembers
)

// ClusterRow is one entry of the cluster list, precomputed at load.
type ClusterRow struct {
	Stat    graph.ClusterStat
	Members []MemberRow
}

// MemberRow is one document inside a cluster, ranked by how strongly it is
// tied to the rest of the cluster.
type MemberRow struct {
	Node      graph.Node
	Degree    int
	Strength  float64 // summed similarity of incident edges
	Neighbors []graph.Neighbor
}

// KeyMap defines the inspector's keyboard shortcuts.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Back  key.Binding
	Quit  key.Binding
}

var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open cluster"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
}

// datasetMsg delivers the loaded dataset to the model.
type datasetMsg struct {
	ds  *graph.Dataset
	err error
}

// Model is the inspector TUI state.
type Model struct {
	width  int
	height int

	pane    Pane
	spinner spinner.Model

	source string
	load   func() (*graph.Dataset, error)

	meta     graph.Metadata
	clusters []ClusterRow
	selected int // cluster list cursor
	member   int // member list cursor

	err      error
	quitting bool
}

// NewModel creates the inspector. load runs once, off the UI goroutine.
func NewModel(source string, load func() (*graph.Dataset, error)) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		pane:    PaneLoading,
		spinner: s,
		source:  source,
		load:    load,
	}
}

// Init starts the spinner and kicks off the dataset load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ds, err := m.load()
		return datasetMsg{ds: ds, err: err}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, DefaultKeyMap.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.pane {
		case PaneClusters:
			switch {
			case key.Matches(msg, DefaultKeyMap.Up):
				if m.selected > 0 {
					m.selected--
				}
			case key.Matches(msg, DefaultKeyMap.Down):
				if m.selected < len(m.clusters)-1 {
					m.selected++
				}
			case key.Matches(msg, DefaultKeyMap.Enter):
				if len(m.clusters) > 0 {
					m.pane = PaneMembers
					m.member = 0
				}
			}
		case PaneMembers:
			switch {
			case key.Matches(msg, DefaultKeyMap.Up):
				if m.member > 0 {
					m.member--
				}
			case key.Matches(msg, DefaultKeyMap.Down):
				if m.member < len(m.clusters[m.selected].Members)-1 {
					m.member++
				}
			case key.Matches(msg, DefaultKeyMap.Back):
				m.pane = PaneClusters
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case datasetMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.meta = msg.ds.Meta
		m.clusters = BuildClusterRows(msg.ds)
		m.pane = PaneClusters
		return m, nil
	}

	return m, nil
}

// Err reports the load error, if the inspector quit because of one.
func (m Model) Err() error {
	return m.err
}

// BuildClusterRows groups the dataset by cluster and ranks members by the
// summed similarity of their incident edges, so the most central
// documents list first. Noise nodes form a trailing pseudo-cluster.
func BuildClusterRows(ds *graph.Dataset) []ClusterRow {
	store := graph.NewStore()
	store.Replace(ds)

	strength := make(map[string]float64)
	degree := make(map[string]int)
	for _, e := range ds.Edges {
		strength[e.SourceID] += e.Similarity
		strength[e.TargetID] += e.Similarity
		degree[e.SourceID]++
		degree[e.TargetID]++
	}

	stats := ds.ClusterStats
	if len(stats) == 0 {
		stats = graph.ComputeClusterStats(ds.Nodes)
	}
	statByID := make(map[int]graph.ClusterStat, len(stats))
	for _, s := range stats {
		statByID[s.ClusterID] = s
	}

	byCluster := make(map[int][]MemberRow)
	for _, n := range ds.Nodes {
		byCluster[n.Cluster] = append(byCluster[n.Cluster], MemberRow{
			Node:      n,
			Degree:    degree[n.ID],
			Strength:  strength[n.ID],
			Neighbors: store.Neighbors(n.ID),
		})
	}

	ids := make([]int, 0, len(byCluster))
	for id := range byCluster {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	// Noise sorts first numerically; show it last.
	if len(ids) > 0 && ids[0] == graph.Noise {
		ids = append(ids[1:], graph.Noise)
	}

	rows := make([]ClusterRow, 0, len(ids))
	for _, id := range ids {
		members := byCluster[id]
		sort.Slice(members, func(a, b int) bool {
			if members[a].Strength != members[b].Strength {
				return members[a].Strength > members[b].Strength
			}
			return members[a].Node.ID < members[b].Node.ID
		})
		stat, ok := statByID[id]
		if !ok {
			stat = graph.ClusterStat{ClusterID: id, Size: len(members)}
		}
		rows = append(rows, ClusterRow{Stat: stat, Members: members})
	}
	return rows
}

func clusterTitle(stat graph.ClusterStat) string {
	if stat.ClusterID == graph.Noise {
		return "Noise"
	}
	return fmt.Sprintf("Cluster %d", stat.ClusterID)
}
