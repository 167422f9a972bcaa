package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis instance.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "mutdom:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// AnalysisKey generates a prefixed key for analysis caching.
func (k *ScopedKeyer) AnalysisKey(killMapHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(killMapHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// ResultKey generates a prefixed key for stored request results.
func (k *ScopedKeyer) ResultKey(id, format string) string {
	return k.prefix + k.inner.ResultKey(id, format)
}
