package cache

import "fmt"

// Keyer generates cache keys. Keys hash every option that changes the
// cached value, so different options never collide.
type Keyer interface {
	// AnalysisKey keys an analysis of a kill map with the given content hash.
	AnalysisKey(killMapHash string, opts AnalysisKeyOpts) string

	// ArtifactKey keys one rendered format of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string

	// ResultKey keys the stored output of one service request.
	ResultKey(id, format string) string
}

// AnalysisKeyOpts are the options that influence an analysis.
type AnalysisKeyOpts struct {
	VizType  string `json:"viz_type"`
	Reduce   bool   `json:"reduce"`
	Detailed bool   `json:"detailed"`
}

// ArtifactKeyOpts are the options that influence a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Scale    float64 `json:"scale"`
	UnitSize float64 `json:"unit_size"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// AnalysisKey returns "analysis:<sha256>".
func (DefaultKeyer) AnalysisKey(killMapHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", killMapHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// ResultKey returns "result:<id>:<format>". IDs are generated by the
// service, so they are used verbatim.
func (DefaultKeyer) ResultKey(id, format string) string {
	return fmt.Sprintf("result:%s:%s", id, format)
}

var _ Keyer = DefaultKeyer{}
