package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mutdom/pkg/graph"
	"github.com/matzehuels/mutdom/pkg/pipeline"
)

// renderCommand creates the render command for saved layouts.
func (c *CLI) renderCommand() *cobra.Command {
	var flags analysisFlags
	var output string

	cmd := &cobra.Command{
		Use:   "render [layout.json | graph.json]",
		Short: "Render a saved layout or graph",
		Long: `Render draws a layout previously written by "mutdom analyze -f json". The
layout keeps its visualization type unless --type is given, so a layered
analysis can be redrawn as a Graphviz node-link diagram without re-reading
the kill matrix.

A bare graph JSON with only "nodes" and "edges" is accepted too; its levels,
positions and dominators are computed from the edges.`,
		Example: `  mutdom render kills.json
  mutdom render kills.json -t nodelink --reduce -f svg,pdf`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles("json"),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.Config)
			if err != nil {
				return err
			}
			if err := validateOutput(output); err != nil {
				return err
			}
			opts.Formats = outputFormats(output, opts.Formats)
			return c.runRender(cmd.Context(), args[0], output, opts, flags.noCache)
		},
	}

	flags.registerDisplay(cmd)
	flags.registerRender(cmd, "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	flags.registerCache(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	layout, err := graph.LoadFile(input)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded layout", "path", input, "viz_type", layout.VizType, "groups", len(layout.Nodes))

	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	// Defaults are applied here so the written file names match the output.
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Rendering "+strings.Join(opts.Formats, ", ")+"...")
	spinner.Start()
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	// Keep the JSON output from overwriting its own input.
	if output == "" && isLayoutFile(input) {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "_render"
	}
	paths, err := writeArtifacts(artifacts, opts.Formats, output, input)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", filepath.Base(input))
	printStats(layout, hit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// isLayoutFile reports whether path names a saved layout rather than a CSV.
func isLayoutFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), "."+pipeline.FormatJSON)
}
