package browse

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/amancerp/graphweave/pkg/graph"
	"github.com/amancerp/graphweave/pkg/graphstore"
)

// Run starts an interactive browser seeded with root, letting the user
// step outward through store.Neighbors until they quit. It blocks
// until the program exits. Callers should check IsTTY first — Run
// itself doesn't fall back to a plain renderer, since there's nothing
// meaningful to print without a terminal to navigate in.
func Run(ctx context.Context, store *graphstore.GraphStore, root []graph.Node, noColor bool) error {
	model := New(store, root, GetStyles(noColor))

	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	return nil
}

// IsTTY reports whether w is a terminal the browser can run on.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
