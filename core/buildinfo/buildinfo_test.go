package buildinfo

import "testing"

func TestSummary(t *testing.T) {
	prevV, prevC, prevD := Version, Commit, Date
	defer func() { Version, Commit, Date = prevV, prevC, prevD }()

	Version, Commit, Date = "v1.0.0", "abc", ""
	if got := Summary(); got != "v1.0.0 (abc)" {
		t.Fatalf("summary without date: %q", got)
	}
	Date = "2026-01-02T00:00:00Z"
	if got := Summary(); got != "v1.0.0 (abc, 2026-01-02T00:00:00Z)" {
		t.Fatalf("summary with date: %q", got)
	}
}
