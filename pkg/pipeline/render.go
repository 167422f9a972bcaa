package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mutdom/pkg/graph"
	"github.com/matzehuels/mutdom/pkg/render"
	"github.com/matzehuels/mutdom/pkg/render/layered"
	"github.com/matzehuels/mutdom/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats without
// caching. Formats are rendered concurrently; the first failure cancels the
// rest.
func Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	l, err := BuildLayout(l, opts)
	if err != nil {
		return nil, err
	}

	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := renderFormat(gctx, l, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, l graph.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graph.MarshalLayout(l)
	case FormatDOT:
		return []byte(dotSource(l)), nil
	}

	if l.IsNodelink() {
		switch format {
		case FormatSVG:
			return nodelink.RenderSVG(ctx, l.DOT)
		case FormatPNG:
			return nodelink.RenderPNG(ctx, l.DOT, opts.Scale)
		case FormatPDF:
			return nodelink.RenderPDF(ctx, l.DOT)
		}
		return nil, fmt.Errorf("unsupported nodelink format: %s", format)
	}

	svg := layered.RenderSVG(l, layered.WithScale(opts.UnitSize))
	switch format {
	case FormatSVG:
		return svg, nil
	case FormatPNG:
		return render.ToPNG(ctx, svg, opts.Scale)
	case FormatPDF:
		return render.ToPDF(ctx, svg)
	}
	return nil, fmt.Errorf("unsupported layered format: %s", format)
}

// dotSource returns the layout's DOT source, generating it for layered
// layouts, which do not carry one.
func dotSource(l graph.Layout) string {
	if l.DOT != "" {
		return l.DOT
	}
	return nodelink.ToDOT(l, nodelink.Options{Detailed: l.Detailed})
}
