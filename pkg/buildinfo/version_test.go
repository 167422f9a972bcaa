package buildinfo

import (
	"strings"
	"testing"
)

func TestStamped(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })

	Version, Commit, Date = "v0.3.0", "abc1234", "2026-01-02T03:04:05Z"

	if got := String(); !strings.HasPrefix(got, "v0.3.0 (commit abc1234, built 2026-01-02T03:04:05Z") {
		t.Errorf("String() = %q", got)
	}
	tmpl := Template()
	for _, want := range []string{"{{.Name}} v0.3.0", "commit: abc1234", "built:  2026-01-02T03:04:05Z"} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("Template() = %q, missing %q", tmpl, want)
		}
	}
}
