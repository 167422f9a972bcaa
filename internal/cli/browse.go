package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mutdom/pkg/graph"
	"github.com/matzehuels/mutdom/pkg/pipeline"
)

// browseCommand creates the interactive group browser.
func (c *CLI) browseCommand() *cobra.Command {
	var flags analysisFlags

	cmd := &cobra.Command{
		Use:   "browse [kills.csv | layout.json]",
		Short: "Interactively browse kill-set groups",
		Long: `Browse analyzes a kill matrix, or loads a saved layout or bare graph when
the argument ends in .json, and opens an interactive table of kill-set groups with their
level, size and dominator flag. Press enter to see a group's full kill set
and its direct subsumption neighbours.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles("csv", "json"),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.Config)
			if err != nil {
				return err
			}
			layout, err := c.browseLayout(cmd.Context(), args[0], opts, flags.noCache)
			if err != nil {
				return err
			}
			p := tea.NewProgram(NewGroupListModel(layout), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("browse: %w", err)
			}
			return nil
		},
	}

	flags.registerParse(cmd)
	flags.registerDisplay(cmd)
	flags.registerCache(cmd)

	return cmd
}

// browseLayout produces the layout to browse from either input kind.
func (c *CLI) browseLayout(ctx context.Context, input string, opts pipeline.Options, noCache bool) (graph.Layout, error) {
	if isLayoutFile(input) {
		l, err := graph.LoadFile(input)
		if err != nil {
			return graph.Layout{}, err
		}
		return pipeline.BuildLayout(l, opts)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return graph.Layout{}, err
	}
	defer runner.Close()

	km, err := c.loadKillMap(ctx, input, &opts)
	if err != nil {
		return graph.Layout{}, err
	}
	return runner.Analyze(ctx, km, opts)
}
