package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archscape/pkg/view"
	"github.com/matzehuels/archscape/pkg/workspace"
)

// viewsCommand lists the views of the workspace.
func (c *CLI) viewsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "List the views of the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runViews(cmd.Context())
		},
	}
}

func (c *CLI) runViews(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	ws, err := c.buildWorkspace(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Println(StyleTitle.Render(ws.Name))
	fmt.Println(viewsTable(ws).Render())
	return nil
}

// viewsTable renders one row per view in build order.
func viewsTable(ws *workspace.Workspace) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(ws.Views.Keys()))
	for _, v := range ws.Views.All() {
		rows = append(rows, []string{
			v.Key(),
			v.Kind().String(),
			scopeName(v),
			strconv.Itoa(len(v.Elements()) + len(v.Instances())),
			strconv.Itoa(len(v.Relationships()) + len(v.ImpliedRelationships())),
			v.Description(),
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Key", "Kind", "Scope", "Elements", "Relationships", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight
			case col == 3 || col == 4:
				return StyleNumber
			default:
				return StyleValue
			}
		})
}

func scopeName(v *view.View) string {
	scope := v.Scope()
	if scope == nil {
		return "-"
	}
	if env := v.Environment(); env != "" {
		return scope.Name() + " / " + env
	}
	return scope.Name()
}
