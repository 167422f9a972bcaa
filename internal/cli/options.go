package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mutdom/pkg/pipeline"
)

// analysisFlags holds the flags shared by analyze, browse and render.
// Values only take effect when the flag was set on the command line, so the
// config file keeps precedence over flag defaults.
type analysisFlags struct {
	includeSurvivors bool
	maxMutants       int
	maxGroups        int
	vizType          string
	reduce           bool
	detailed         bool
	formats          string
	scale            float64
	unitSize         float64
	noCache          bool
	refresh          bool
}

// registerParse adds the flags that control how a kill matrix is read.
func (f *analysisFlags) registerParse(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.includeSurvivors, "include-survivors", false, "include mutants no test killed (they subsume every group)")
	cmd.Flags().IntVar(&f.maxMutants, "max-mutants", pipeline.DefaultMaxMutants, "reject inputs with more mutants (negative disables)")
	cmd.Flags().IntVar(&f.maxGroups, "max-groups", pipeline.DefaultMaxGroups, "reject inputs with more kill-set groups (negative disables)")
}

// registerDisplay adds the flags that control the drawn layout.
func (f *analysisFlags) registerDisplay(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.vizType, "type", "t", "", "visualization type: layered (default), nodelink")
	cmd.Flags().BoolVar(&f.reduce, "reduce", false, "draw the transitive reduction only")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "show kill sets in node labels")
}

// registerRender adds the output format flags.
func (f *analysisFlags) registerRender(cmd *cobra.Command, formatHelp string) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", formatHelp)
	cmd.Flags().Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().Float64Var(&f.unitSize, "unit-size", pipeline.DefaultUnitSize, "pixels per layout unit in layered drawings")
}

// registerCache adds the cache control flags.
func (f *analysisFlags) registerCache(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when a cached result exists")
}

// options merges config file values and explicitly set flags.
func (f *analysisFlags) options(cmd *cobra.Command, cfg *Config) (pipeline.Options, error) {
	opts := cfg.pipelineOptions()
	fl := cmd.Flags()

	if fl.Changed("include-survivors") {
		opts.IncludeSurvivors = f.includeSurvivors
	}
	if fl.Changed("max-mutants") {
		opts.MaxMutants = f.maxMutants
	}
	if fl.Changed("max-groups") {
		opts.MaxGroups = f.maxGroups
	}
	if fl.Changed("type") {
		opts.VizType = f.vizType
	}
	if fl.Changed("reduce") {
		opts.Reduce = f.reduce
	}
	if fl.Changed("detailed") {
		opts.Detailed = f.detailed
	}
	if fl.Changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if fl.Changed("scale") {
		opts.Scale = f.scale
	}
	if fl.Changed("unit-size") {
		opts.UnitSize = f.unitSize
	}
	opts.Refresh = f.refresh

	if opts.VizType != "" {
		if err := pipeline.ValidateVizType(opts.VizType); err != nil {
			return opts, err
		}
	}
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return opts, err
	}
	return opts, nil
}
