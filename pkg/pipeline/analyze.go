package pipeline

import (
	"fmt"

	errs "github.com/matzehuels/mutdom/pkg/errors"
	"github.com/matzehuels/mutdom/pkg/graph"
	"github.com/matzehuels/mutdom/pkg/killmap"
	"github.com/matzehuels/mutdom/pkg/render/nodelink"
	"github.com/matzehuels/mutdom/pkg/subsumption"
)

// Analyze runs the subsumption analysis on km without caching and exports
// the result as a layout of the requested visualization type.
func Analyze(km killmap.KillMap, opts Options) (*subsumption.Analysis, graph.Layout, error) {
	if err := opts.ValidateForAnalyze(); err != nil {
		return nil, graph.Layout{}, err
	}
	if err := checkCeilings(km, opts); err != nil {
		return nil, graph.Layout{}, err
	}

	a, err := subsumption.Analyze(km)
	if err != nil {
		return nil, graph.Layout{}, errs.Wrap(errs.ErrCodeInvalidGraph, err, "analyze")
	}

	l, err := BuildLayout(graph.FromAnalysis(a, opts.VizType), opts)
	if err != nil {
		return nil, graph.Layout{}, err
	}
	return a, l, nil
}

// checkCeilings rejects kill maps above the mutant or group limits in opts.
func checkCeilings(km killmap.KillMap, opts Options) error {
	if err := errs.ValidateMutantCount(km.Len(), opts.MaxMutants); err != nil {
		return err
	}
	return errs.ValidateGroupCount(countKillSets(km), opts.MaxGroups)
}

// BuildLayout applies the display options in opts to l: a different
// visualization type, the transitive reduction and detailed labels.
// Nodelink layouts get their DOT source regenerated. A zero-valued option
// keeps the setting l was saved with.
func BuildLayout(l graph.Layout, opts Options) (graph.Layout, error) {
	if opts.VizType != "" {
		l.VizType = opts.VizType
	}
	if opts.Reduce && !l.Reduced {
		reduced, err := graph.Reduce(l)
		if err != nil {
			return graph.Layout{}, errs.Wrap(errs.ErrCodeInvalidLayout, err, "reduce")
		}
		l = reduced
	}
	if opts.Detailed {
		l.Detailed = true
	}

	l.DOT = ""
	if l.IsNodelink() {
		l.DOT = nodelink.ToDOT(l, nodelink.Options{Detailed: l.Detailed})
	}
	if err := l.Validate(); err != nil {
		return graph.Layout{}, errs.Wrap(errs.ErrCodeInvalidLayout, err, "build layout")
	}
	return l, nil
}

func layoutSummary(l graph.Layout) string {
	return fmt.Sprintf("%d nodes, %d edges, %d levels", len(l.Nodes), len(l.Edges), len(l.Levels))
}
