// Package pkg provides the core libraries for mutdom, a dominator mutant
// analysis for mutation testing.
//
// # Overview
//
// A kill matrix records which tests killed which mutants. Mutants killed by
// exactly the same tests are indistinguishable and form one group. Group A
// subsumes group B when every test that kills A also kills B and the kill
// sets differ: killing A then guarantees killing B. The groups that nothing
// subsumes are the dominators; a test suite that kills one mutant from each
// dominator group kills every mutant in the matrix.
//
// The pkg directory is organized as follows:
//
//  1. [killmap] - Kill sets, kill maps and the CSV reader
//  2. [subsumption] - Grouping, the subsumption graph, dominators and levels
//  3. [dag] - The directed acyclic graph the analysis is built on, with
//     [dag/transform] for leveling and transitive reduction
//  4. [graph] - JSON serialization of graphs and laid-out analyses
//  5. [render] - Layered SVG and Graphviz node-link drawings
//  6. [pipeline] - Orchestration (parse → analyze → render) with caching
//  7. [cache], [observability], [errors], [buildinfo] - Infrastructure
//
// # Data Flow
//
//	kill matrix CSV
//	     ↓
//	[killmap] package (mutant → kill set)
//	     ↓
//	[subsumption] package (groups, graph, dominators, levels)
//	     ↓
//	[graph] package (serializable layout)
//	     ↓
//	[render] package (SVG/PDF/PNG/DOT)
//
// # Quick Start
//
//	km, err := killmap.ReadCSVFile("kills.csv", killmap.ParseOptions{})
//	if err != nil {
//	    return err
//	}
//	a, err := subsumption.Analyze(km)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(a.Dominators)
//
//	l := graph.FromAnalysis(a, graph.VizTypeLayered)
//	svg := layered.RenderSVG(l)
//
// The [pipeline] package wraps the same steps with validation, size limits,
// caching and metrics hooks; it backs both the mutdom CLI and the web
// service.
//
// [killmap]: https://pkg.go.dev/github.com/matzehuels/mutdom/pkg/killmap
// [subsumption]: https://pkg.go.dev/github.com/matzehuels/mutdom/pkg/subsumption
// [dag]: https://pkg.go.dev/github.com/matzehuels/mutdom/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/mutdom/pkg/dag/transform
// [graph]: https://pkg.go.dev/github.com/matzehuels/mutdom/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/mutdom/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/mutdom/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/mutdom/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/mutdom/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/mutdom/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/mutdom/pkg/buildinfo
package pkg
