// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "\
//	    -X github.com/matzehuels/mutdom/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/mutdom/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/mutdom/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/mutdom
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns the build information as reported by the health endpoint
// and logs.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s)", Version, Commit, Date, runtime.Version())
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt:  %s\ngo:     %s\n", Version, Commit, Date, runtime.Version())
}
