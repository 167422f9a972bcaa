package killmap

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// MutantID identifies a mutant. IDs are numeric tokens in practice and are
// ordered numerically by [CompareMutantIDs].
type MutantID string

// TestID identifies a test case.
type TestID string

// KillSet is an immutable, normalized set of tests that killed a mutant.
// The zero value is the empty set.
type KillSet struct {
	tests []TestID // sorted, unique
}

// NewKillSet builds a normalized kill set from tests in any order.
// Duplicates are collapsed.
func NewKillSet(tests ...TestID) KillSet {
	if len(tests) == 0 {
		return KillSet{}
	}
	sorted := slices.Clone(tests)
	slices.Sort(sorted)
	return KillSet{tests: slices.Compact(sorted)}
}

// Tests returns the tests in the set in ascending order.
// The returned slice is a copy.
func (s KillSet) Tests() []TestID { return slices.Clone(s.tests) }

// Len returns the number of tests in the set.
func (s KillSet) Len() int { return len(s.tests) }

// IsEmpty reports whether no test killed the mutant.
func (s KillSet) IsEmpty() bool { return len(s.tests) == 0 }

// Contains reports whether t is a member of the set.
func (s KillSet) Contains(t TestID) bool {
	_, ok := slices.BinarySearch(s.tests, t)
	return ok
}

// Key returns the canonical representation of the set. Two sets have the same
// key if and only if they contain the same tests. Each test ID is prefixed
// with its byte length, so IDs may contain any character.
func (s KillSet) Key() string {
	var b strings.Builder
	for _, t := range s.tests {
		b.WriteString(strconv.Itoa(len(t)))
		b.WriteByte(':')
		b.WriteString(string(t))
	}
	return b.String()
}

// Equal reports whether s and o contain the same tests.
func (s KillSet) Equal(o KillSet) bool { return slices.Equal(s.tests, o.tests) }

// IsSubsetOf reports whether every test in s is also in o.
func (s KillSet) IsSubsetOf(o KillSet) bool {
	if len(s.tests) > len(o.tests) {
		return false
	}
	j := 0
	for _, t := range s.tests {
		for j < len(o.tests) && o.tests[j] < t {
			j++
		}
		if j == len(o.tests) || o.tests[j] != t {
			return false
		}
		j++
	}
	return true
}

// IsStrictSubsetOf reports whether s is a proper subset of o: s ⊆ o and s ≠ o.
func (s KillSet) IsStrictSubsetOf(o KillSet) bool {
	return len(s.tests) < len(o.tests) && s.IsSubsetOf(o)
}

// String renders the set as {t1, t2}.
func (s KillSet) String() string {
	parts := make([]string, len(s.tests))
	for i, t := range s.tests {
		parts[i] = string(t)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// KillMap maps each mutant to the tests that killed it.
type KillMap map[MutantID]KillSet

// New returns an empty kill map.
func New() KillMap { return make(KillMap) }

// Add records that test killed mutant.
func (km KillMap) Add(mutant MutantID, test TestID) {
	cur := km[mutant]
	if cur.Contains(test) {
		return
	}
	km[mutant] = NewKillSet(append(cur.Tests(), test)...)
}

// Touch registers mutant with an empty kill set if it is not present yet.
func (km KillMap) Touch(mutant MutantID) {
	if _, ok := km[mutant]; !ok {
		km[mutant] = KillSet{}
	}
}

// Mutants returns all mutant IDs in numeric order.
func (km KillMap) Mutants() []MutantID {
	return SortMutantIDs(slices.Collect(maps.Keys(km)))
}

// Tests returns every test that killed at least one mutant, sorted.
func (km KillMap) Tests() []TestID {
	seen := make(map[TestID]struct{})
	for _, ks := range km {
		for _, t := range ks.tests {
			seen[t] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Len returns the number of mutants.
func (km KillMap) Len() int { return len(km) }

// CompareMutantIDs orders mutant IDs numerically. IDs that do not parse as
// integers sort after all numeric IDs and are compared lexically among
// themselves. Numerically equal IDs with different spellings ("7", "07") are
// ordered lexically so the order is total.
func CompareMutantIDs(a, b MutantID) int {
	na, errA := strconv.ParseInt(strings.TrimSpace(string(a)), 10, 64)
	nb, errB := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	switch {
	case errA == nil && errB == nil:
		if c := cmp.Compare(na, nb); c != 0 {
			return c
		}
		return strings.Compare(string(a), string(b))
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(string(a), string(b))
}

// SortMutantIDs sorts ids in place numerically and returns them.
func SortMutantIDs(ids []MutantID) []MutantID {
	slices.SortFunc(ids, CompareMutantIDs)
	return ids
}
