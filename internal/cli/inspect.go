package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/leaderline/pkg/chart"
)

// inspectCommand creates the inspect command for browsing a placement.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		plain  bool
		sortBy string
	)

	cmd := &cobra.Command{
		Use:   "inspect [placement.json]",
		Short: "Browse the labels of a placement",
		Long: `Browse the labels of a placement.

Shows every label with its anchor, position, side of the anchor, leader line
length and overlap with other labels. Press 's' to sort by overlap or leader
length. Use --plain to print the table without the interactive view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			by, err := parseLabelSort(sortBy)
			if err != nil {
				return err
			}
			p, err := chart.ReadPlacementFile(args[0])
			if err != nil {
				return fmt.Errorf("load placement %s: %w", args[0], err)
			}
			if plain {
				printPlacement(p, by)
				return nil
			}

			m := NewLabelTableModel(p)
			m.Sort = by
			sortRows(m.Rows, by)
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the table and exit")
	cmd.Flags().StringVar(&sortBy, "sort", "index", "row order: index, overlap, leader")

	return cmd
}

func parseLabelSort(s string) (labelSort, error) {
	for by := range numLabelSorts {
		if by.String() == s {
			return by, nil
		}
	}
	return sortByIndex, fmt.Errorf("invalid sort: %s (must be 'index', 'overlap' or 'leader')", s)
}

// printPlacement writes a summary and the full label table to stdout.
func printPlacement(p *chart.Placement, by labelSort) {
	rows := labelRows(p)
	sortRows(rows, by)

	if p.Title != "" {
		fmt.Println(StyleTitle.Render(p.Title))
	}
	printKeyValue("Viewport", fmt.Sprintf("%g × %g", p.Width, p.Height))
	printKeyValue("Labels", fmt.Sprintf("%d", len(p.Labels)))
	printKeyValue("Energy", fmt.Sprintf("%.2f", p.Energy))
	printKeyValue("Overlap", fmt.Sprintf("%.1f", p.Overlap()))
	printKeyValue("Crossings", fmt.Sprintf("%d", p.Crossings()))
	printKeyValue("Run", fmt.Sprintf("seed %d, %d sweeps, %.1f%% accepted", p.Seed, p.Sweeps, 100*p.Stats.AcceptanceRate()))
	if len(rows) > 0 {
		fmt.Println(renderLabelTable(rows, 0, len(rows), -1))
	}
}
