// Package killmap models mutation-testing kill results.
//
// A [KillMap] maps each mutant to the [KillSet] of tests that killed it. Kill
// sets are normalized on construction (sorted, deduplicated), so two kill
// sets are equal exactly when they contain the same tests, regardless of the
// order in which the kills were observed. [KillSet.Key] returns a canonical
// string usable as a map key for grouping.
//
// Mutant IDs are opaque tokens that are ordered numerically:
// "2" sorts before "10". Use [CompareMutantIDs] or [SortMutantIDs] wherever
// mutants are displayed or joined into labels.
//
// # CSV Input
//
// [ParseCSV] reads the kill matrix emitted by mutation tools, one row per
// (test, mutant) execution:
//
//	TestNo,MutantNo,[FAIL | TIME | EXC]
//	t1,1,FAIL
//	t2,1,TIME
//
// Only FAIL rows record a kill. TIME and EXC rows are accepted but ignored
// unless [ParseOptions.IncludeSurvivors] is set, in which case mutants seen
// only in such rows are kept with an empty kill set.
package killmap
