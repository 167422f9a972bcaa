// Package pipeline runs the complete mutdom analysis.
//
// The same parse → analyze → render pipeline backs the CLI and the web
// service, so both produce identical dominators, layouts and images for the
// same kill matrix.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read the kill matrix CSV into a [killmap.KillMap]
//  2. Analyze: Group mutants, build the subsumption graph, find dominators
//     and compute the layered layout, exported as a [graph.Layout]
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Analyze and Render results are cached by content hash through a
// [cache.Cache].
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, csvReader, pipeline.Options{
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Layout.Dominators)
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mutdom/pkg/cache"
	errs "github.com/matzehuels/mutdom/pkg/errors"
	"github.com/matzehuels/mutdom/pkg/graph"
	"github.com/matzehuels/mutdom/pkg/render/layered"
	"github.com/matzehuels/mutdom/pkg/subsumption"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Web Service
// =============================================================================

const (
	// DefaultMaxMutants caps the number of mutants accepted for analysis.
	DefaultMaxMutants = 10000

	// DefaultMaxGroups caps the number of distinct kill sets. Graph
	// construction compares every pair of groups.
	DefaultMaxGroups = 2000

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultUnitSize is the number of pixels per layout unit in layered
	// drawings.
	DefaultUnitSize = layered.DefaultScale
)

// DefaultVizType is the default visualization type.
const DefaultVizType = graph.VizTypeLayered

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ContentTypes maps each output format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	graph.VizTypeLayered:  true,
	graph.VizTypeNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the analysis pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Source           string `json:"source,omitempty"` // input name for logs and metrics
	IncludeSurvivors bool   `json:"include_survivors,omitempty"`
	MaxMutants       int    `json:"max_mutants,omitempty"` // negative disables the limit
	MaxGroups        int    `json:"max_groups,omitempty"`  // negative disables the limit

	// Layout options
	VizType  string `json:"viz_type,omitempty"`
	Reduce   bool   `json:"reduce,omitempty"`   // draw the transitive reduction only
	Detailed bool   `json:"detailed,omitempty"` // show kill sets in node labels

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`     // PNG resolution multiplier
	UnitSize float64  `json:"unit_size,omitempty"` // pixels per layout unit in layered drawings

	Refresh bool `json:"refresh,omitempty"` // bypass cache reads

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Analysis is the in-memory analysis. It is nil when the layout was
	// served from the cache.
	Analysis *subsumption.Analysis

	// KillMapHash is the content hash of the parsed kill map.
	KillMapHash string

	// Layout is the serializable analysis: nodes with positions, edges,
	// levels, dominators and statistics.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	MutantCount int
	GroupCount  int
	EdgeCount   int
	ParseTime   time.Duration
	AnalyzeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	AnalyzeHit bool // Whether the layout came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errs.New(errs.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: layered, nodelink)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full
// pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetParseDefaults()
	if err := o.ValidateForAnalyze(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetParseDefaults sets the analysis ceilings.
func (o *Options) SetParseDefaults() {
	if o.MaxMutants == 0 {
		o.MaxMutants = DefaultMaxMutants
	}
	if o.MaxGroups == 0 {
		o.MaxGroups = DefaultMaxGroups
	}
	if o.Source == "" {
		o.Source = "stdin"
	}
	o.setLogger()
}

// ValidateForAnalyze validates and sets defaults for analysis.
func (o *Options) ValidateForAnalyze() error {
	o.SetParseDefaults()
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	return ValidateVizType(o.VizType)
}

// SetRenderDefaults sets default values for rendering. VizType is left
// alone: an empty VizType renders a layout with the type it was saved with.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.UnitSize <= 0 {
		o.UnitSize = DefaultUnitSize
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.VizType != "" {
		if err := ValidateVizType(o.VizType); err != nil {
			return err
		}
	}
	return ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == graph.VizTypeNodelink
}

// AnalysisKeyOpts returns cache key options for the analysis stage.
func (o *Options) AnalysisKeyOpts() cache.AnalysisKeyOpts {
	return cache.AnalysisKeyOpts{
		VizType:  o.VizType,
		Reduce:   o.Reduce,
		Detailed: o.Detailed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	if format != FormatJSON && format != FormatDOT {
		opts.UnitSize = o.UnitSize
	}
	return opts
}
