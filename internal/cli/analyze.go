package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/mutdom/pkg/errors"
	"github.com/matzehuels/mutdom/pkg/graph"
	"github.com/matzehuels/mutdom/pkg/killmap"
	"github.com/matzehuels/mutdom/pkg/pipeline"
)

// stdinArg reads the kill matrix from standard input.
const stdinArg = "-"

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var flags analysisFlags
	var output string

	cmd := &cobra.Command{
		Use:   "analyze [kills.csv]",
		Short: "Find dominator mutants in a kill matrix",
		Long: `Analyze reads a kill matrix CSV with the columns TestNo, MutantNo and
"[FAIL | TIME | EXC]" and prints the dominator mutants together with the
kill-set groups and their subsumption levels. Only FAIL rows count as kills.

Use "-" to read the matrix from standard input. With --format or --output the
computed layout is also written to disk.`,
		Example: `  # Print dominators
  mutdom analyze kills.csv

  # Save the layout and a layered drawing
  mutdom analyze kills.csv -f json,svg

  # Graphviz drawing of the Hasse diagram
  mutdom analyze kills.csv -t nodelink --reduce -o dmsg.png`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles("csv"),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd, c.Config)
			if err != nil {
				return err
			}
			if err := validateOutput(output); err != nil {
				return err
			}
			opts.Formats = outputFormats(output, opts.Formats)
			return c.runAnalyze(cmd.Context(), args[0], output, opts, flags.noCache)
		},
	}

	flags.registerParse(cmd)
	flags.registerDisplay(cmd)
	flags.registerRender(cmd, "output format(s): svg, png, pdf, json, dot (comma-separated)")
	flags.registerCache(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")

	return cmd
}

// runAnalyze parses input, computes the subsumption graph and prints the
// result. Artifacts are rendered only when formats were requested.
func (c *CLI) runAnalyze(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Parsing "+input+"...")
	spinner.Start()
	km, err := c.loadKillMap(ctx, input, &opts)
	if err != nil {
		spinner.StopWithError("Parse failed")
		return err
	}

	spinner.Update(fmt.Sprintf("Analyzing %d mutants...", km.Len()))
	_, layout, hit, err := runner.AnalyzeWithCacheInfo(ctx, km, opts)
	if err != nil {
		spinner.StopWithError("Analysis failed")
		return err
	}
	spinner.Stop()

	printAnalysis(layout, hit)

	if len(opts.Formats) == 0 {
		printNewline()
		printNextStep("Save the layout", fmt.Sprintf("%s analyze %s -f json,svg", appName, input))
		return nil
	}

	spinner = newSpinnerWithContext(ctx, "Rendering "+strings.Join(opts.Formats, ", ")+"...")
	spinner.Start()
	artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifacts, opts.Formats, output, input)
	if err != nil {
		return err
	}
	printNewline()
	printSuccess("Wrote %d file(s)", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	c.Logger.Debug("render finished", "formats", opts.Formats, "cached", renderHit)
	return nil
}

// loadKillMap reads and parses the kill matrix at input ("-" for stdin).
func (c *CLI) loadKillMap(ctx context.Context, input string, opts *pipeline.Options) (killmap.KillMap, error) {
	var r io.Reader = os.Stdin
	opts.Source = "stdin"
	if input != stdinArg {
		f, err := os.Open(input)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
		opts.Source = filepath.Base(input)
	}

	prog := newProgress(c.Logger)
	km, err := pipeline.Parse(ctx, r, *opts)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Parsed %s: %d mutants, %d tests", opts.Source, km.Len(), len(km.Tests())))
	return km, nil
}

// printAnalysis prints dominators, the group table and summary statistics.
func printAnalysis(l graph.Layout, cached bool) {
	fmt.Println(StyleTitle.Render("Dominator mutants"))
	if len(l.Dominators) == 0 {
		printInfo("No mutants to analyze")
	} else {
		fmt.Println("  " + StyleValue.Render(strings.Join(l.Dominators, ", ")))
	}
	printNewline()

	if len(l.Nodes) > 0 {
		fmt.Println(groupTable(l, -1, 0, len(l.Nodes)))
		printNewline()
	}

	printStats(l, cached)
}

// validateOutput checks the -o path. An empty path means the default.
func validateOutput(output string) error {
	if output == "" {
		return nil
	}
	return errs.ValidatePath(output)
}

// outputFormats resolves the formats to write. Explicit formats win; an
// output path alone implies its extension, or the layout JSON when the
// extension is unknown.
func outputFormats(output string, formats []string) []string {
	if len(formats) > 0 || output == "" {
		return formats
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] {
		return []string{ext}
	}
	return []string{pipeline.FormatJSON}
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input. If output carries
// a format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == stdinArg {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes each rendered format to disk and returns the paths in
// format order. A single format goes to output verbatim when output has an
// extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && filepath.Ext(output) != "" {
			path = output
		}
		if err := writeFile(path, artifacts[format]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeFile writes data to path, creating parent directories.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
