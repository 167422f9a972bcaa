package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/matzehuels/mutdom/pkg/cache"
	errs "github.com/matzehuels/mutdom/pkg/errors"
	"github.com/matzehuels/mutdom/pkg/killmap"
	"github.com/matzehuels/mutdom/pkg/observability"
)

// Parse reads a kill matrix from r and enforces the mutant ceiling.
func Parse(ctx context.Context, r io.Reader, opts Options) (killmap.KillMap, error) {
	opts.SetParseDefaults()
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.Source)
	start := time.Now()

	km, err := killmap.ParseCSV(r, killmap.ParseOptions{IncludeSurvivors: opts.IncludeSurvivors})
	if err == nil {
		err = errs.ValidateMutantCount(km.Len(), opts.MaxMutants)
	}

	hooks.OnParseComplete(ctx, opts.Source, km.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return km, nil
}

// KillMapHash returns a content hash of km that does not depend on map
// iteration or the row order of the source file.
func KillMapHash(km killmap.KillMap) string {
	var b strings.Builder
	for _, m := range km.Mutants() {
		fmt.Fprintf(&b, "%d:%s=%s;", len(m), m, km[m].Key())
	}
	return cache.Hash([]byte(b.String()))
}

// countKillSets returns the number of distinct kill sets in km, which is the
// number of groups the analysis will produce.
func countKillSets(km killmap.KillMap) int {
	seen := make(map[string]struct{}, len(km))
	for _, ks := range km {
		seen[ks.Key()] = struct{}{}
	}
	return len(seen)
}
