// Package browse implements an interactive terminal browser over
// pkg/graphstore's traversal results: a bubbletea program that lets a
// user step outward from a query's matches one hop at a time, instead
// of reading a single flattened list of nodes.
package browse

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amancerp/graphweave/pkg/graph"
	"github.com/amancerp/graphweave/pkg/graphstore"
)

// neighborK bounds how many neighbors are fetched per expansion step.
const neighborK = 10

// nodeItem adapts a graph.Node to bubbles/list's list.DefaultItem.
type nodeItem struct {
	node graph.Node
}

func (i nodeItem) Title() string {
	text := strings.ReplaceAll(i.node.Text, "\n", " ")
	if len(text) > 60 {
		text = text[:57] + "..."
	}
	return text
}

func (i nodeItem) Description() string {
	return fmt.Sprintf("id=%s  links=%d", i.node.ID, len(i.node.Links))
}

func (i nodeItem) FilterValue() string { return i.node.Text }

// level is one step of the browse history: the nodes shown and the
// list widget rendering them.
type level struct {
	nodes []graph.Node
	list  list.Model
	title string
}

// Model is the bubbletea model driving the browser.
type Model struct {
	store  *graphstore.GraphStore
	styles Styles

	stack    []level
	viewport viewport.Model

	width, height int
	quitting      bool
	loading       bool
	err           error
}

// New builds a Model whose initial level is root (typically the
// result of a similarity or traversal search), browsing outward from
// it through store.Neighbors.
func New(store *graphstore.GraphStore, root []graph.Node, styles Styles) Model {
	m := Model{
		store:    store,
		styles:   styles,
		viewport: viewport.New(40, 10),
	}
	m.stack = []level{newLevel("results", root)}
	m.syncViewport()
	return m
}

func newLevel(title string, nodes []graph.Node) level {
	items := make([]list.Item, len(nodes))
	for i, n := range nodes {
		items[i] = nodeItem{node: n}
	}
	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, 40, 10)
	l.Title = title
	l.SetShowHelp(false)
	return level{nodes: nodes, list: l, title: title}
}

func (m Model) Init() tea.Cmd {
	return nil
}

type neighborsLoadedMsg struct {
	nodes []graph.Node
	err   error
}

func (m Model) loadNeighbors(nodeID string) tea.Cmd {
	return func() tea.Msg {
		nodes, err := m.store.Neighbors(context.Background(), nodeID, neighborK)
		return neighborsLoadedMsg{nodes: nodes, err: err}
	}
}

func (m Model) current() *level {
	return &m.stack[len(m.stack)-1]
}

func (m *Model) syncViewport() {
	cur := m.current()
	if item, ok := cur.list.SelectedItem().(nodeItem); ok {
		m.viewport.SetContent(renderDetail(item.node, m.styles))
	} else {
		m.viewport.SetContent(m.styles.Dim.Render("no nodes at this depth"))
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		listWidth := m.width / 2
		if listWidth < 20 {
			listWidth = 20
		}
		for i := range m.stack {
			m.stack[i].list.SetSize(listWidth, m.height-6)
		}
		m.viewport.Width = m.width - listWidth - 4
		m.viewport.Height = m.height - 6
		m.syncViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			cur := m.current()
			item, ok := cur.list.SelectedItem().(nodeItem)
			if !ok {
				return m, nil
			}
			m.loading = true
			return m, m.loadNeighbors(item.node.ID)

		case "backspace", "esc", "left":
			if len(m.stack) > 1 {
				m.stack = m.stack[:len(m.stack)-1]
				m.syncViewport()
			}
			return m, nil
		}

	case neighborsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		depth := len(m.stack)
		m.stack = append(m.stack, newLevel(fmt.Sprintf("depth %d", depth), msg.nodes))
		m.syncViewport()
		return m, nil
	}

	cur := m.current()
	var cmd tea.Cmd
	cur.list, cmd = cur.list.Update(msg)
	m.syncViewport()
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	cur := m.current()
	breadcrumb := make([]string, len(m.stack))
	for i, lvl := range m.stack {
		breadcrumb[i] = lvl.title
	}
	header := m.styles.Header.Render("graphweave browse") + "  " +
		m.styles.Breadcrumb.Render(strings.Join(breadcrumb, " > "))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Panel.Render(cur.list.View()),
		m.styles.Panel.Render(m.viewport.View()),
	)

	footer := m.styles.Dim.Render("enter: expand   backspace: back   q: quit")
	if m.loading {
		footer = m.styles.Label.Render("loading neighbors...")
	}
	if m.err != nil {
		footer = m.styles.Error.Render("error: " + m.err.Error())
	}

	return strings.Join([]string{header, body, footer}, "\n")
}

func renderDetail(n graph.Node, styles Styles) string {
	var b strings.Builder
	b.WriteString(styles.Label.Render("id: ") + n.ID + "\n\n")
	b.WriteString(n.Text + "\n")
	if len(n.Links) > 0 {
		b.WriteString("\n" + styles.Label.Render("links:") + "\n")
		for _, l := range n.Links {
			fmt.Fprintf(&b, "  %s %s (%s)\n", l.Kind, l.Tag, l.Direction)
		}
	}
	return b.String()
}
