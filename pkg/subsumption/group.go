package subsumption

import (
	"strings"

	"github.com/matzehuels/mutdom/pkg/killmap"
)

// LabelSep joins mutant IDs in a node label.
const LabelSep = ", "

// Group is an equivalence class of mutants killed by exactly the same tests.
type Group struct {
	KillSet killmap.KillSet
	Mutants []killmap.MutantID // numeric order, never empty
}

// Label returns the group's mutant IDs joined with LabelSep.
func (g Group) Label() string {
	return JoinLabel(g.Mutants)
}

// Subsumes reports whether g strictly subsumes o, i.e. every test that kills
// g also kills o and o is killed by at least one more test.
func (g Group) Subsumes(o Group) bool {
	return g.KillSet.IsStrictSubsetOf(o.KillSet)
}

// GroupByKillSet partitions the mutants of km by kill set.
//
// Every mutant appears in exactly one group. Groups are ordered by their
// smallest mutant ID and the mutants inside a group are in numeric order.
// An empty kill map yields an empty (nil) slice. km is not modified.
func GroupByKillSet(km killmap.KillMap) []Group {
	var groups []Group
	index := make(map[string]int, len(km))

	// Mutants come back in numeric order, so the first mutant seen for a key
	// is the group's smallest and groups are created in the final order.
	for _, m := range km.Mutants() {
		ks := km[m]
		key := ks.Key()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{KillSet: ks})
		}
		groups[i].Mutants = append(groups[i].Mutants, m)
	}
	return groups
}

// JoinLabel joins mutant IDs into a node label. The IDs are used in the
// given order.
func JoinLabel(ids []killmap.MutantID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, LabelSep)
}

// SplitLabel splits a node label back into mutant IDs. Surrounding
// whitespace of each part is dropped, so both "1, 2" and "1,2" yield
// ["1" "2"]. An empty label yields nil.
func SplitLabel(label string) []killmap.MutantID {
	if strings.TrimSpace(label) == "" {
		return nil
	}
	parts := strings.Split(label, ",")
	ids := make([]killmap.MutantID, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, killmap.MutantID(p))
		}
	}
	return ids
}
