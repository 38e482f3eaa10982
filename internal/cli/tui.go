package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archscape/pkg/model"
	"github.com/matzehuels/archscape/pkg/view"
	"github.com/matzehuels/archscape/pkg/workspace"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand opens an interactive view browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse views and their elements interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context())
		},
	}
}

func (c *CLI) runBrowse(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	ws, err := c.buildWorkspace(ctx, cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(NewViewListModel(ws), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// =============================================================================
// ViewListModel - Interactive view browser
// =============================================================================

// ViewListModel is the bubbletea model for browsing views. Enter opens the
// selected view's elements and relationships; esc goes back.
type ViewListModel struct {
	Model  *model.Model
	Views  []*view.View
	Cursor int
	// Open is the view being inspected, nil on the list.
	Open   *view.View
	Height int
	Offset int
}

// NewViewListModel creates a browser over the views of ws.
func NewViewListModel(ws *workspace.Workspace) ViewListModel {
	return ViewListModel{
		Model:  ws.Model,
		Views:  ws.Views.All(),
		Height: 15,
	}
}

func (m ViewListModel) Init() tea.Cmd {
	return nil
}

func (m ViewListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace":
			if m.Open == nil {
				return m, tea.Quit
			}
			m.Open = nil
		case "up", "k":
			if m.Open == nil && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Open == nil && m.Cursor < len(m.Views)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if m.Open == nil && len(m.Views) > 0 {
				m.Open = m.Views[m.Cursor]
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ViewListModel) View() string {
	if m.Open != nil {
		return m.detail(m.Open)
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Views"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Views))
	for i := m.Offset; i < end; i++ {
		v := m.Views[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-14s %-16s %s", cursor, v.Key(), v.Kind(), listDimStyle.Render(v.Description()))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Views))))
	return b.String()
}

// detail lists the elements, instances and relationships of v.
func (m ViewListModel) detail(v *view.View) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(v.Key()))
	b.WriteString(" " + listDimStyle.Render(v.Kind().String()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	b.WriteString(StyleHighlight.Render("Elements"))
	b.WriteString("\n")
	for _, e := range v.Elements() {
		line := "  " + e.Name()
		if tech := model.Technology(e); tech != "" {
			line += " " + listDimStyle.Render("["+tech+"]")
		}
		b.WriteString(listNormalStyle.Render(line))
		b.WriteString("\n")
	}
	for _, inst := range v.Instances() {
		b.WriteString(listNormalStyle.Render("  " + m.name(inst.ContainerID()) + " " + listDimStyle.Render("on "+m.name(inst.NodeID()))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleHighlight.Render("Relationships"))
	b.WriteString("\n")
	for _, r := range v.Relationships() {
		line := fmt.Sprintf("  %s %s %s", m.name(r.SourceID()), iconArrow, m.name(r.DestinationID()))
		if r.Description() != "" {
			line += " " + listDimStyle.Render(r.Description())
		}
		b.WriteString(listNormalStyle.Render(line))
		b.WriteString("\n")
	}
	for _, r := range v.ImpliedRelationships() {
		line := fmt.Sprintf("  %s %s %s", m.name(r.SourceID), iconArrow, m.name(r.DestinationID))
		b.WriteString(listNormalStyle.Render(line + " " + listDimStyle.Render("implied: "+r.Description())))
		b.WriteString("\n")
	}
	return b.String()
}

func (m ViewListModel) name(id string) string {
	if e, ok := m.Model.ElementByID(id); ok {
		return e.Name()
	}
	return id
}
