package workflow

import (
	"sort"

	"github.com/ajmazurie/spate/internal/spateerr"
)

// jobGraph is the job-level projection of the bipartite DAG (spec
// GLOSSARY): nodes are job identifiers, and an edge job1 -> job2 exists iff
// some output of job1 is an input of job2.
type jobGraph struct {
	nodes []string
	adj   map[string][]string
}

// topoSort performs a Kahn's-algorithm topological sort over g, breaking
// ties within a layer by (createdAt asc, id asc) per spec §4.1/§9. tiebreak
// is supplied by the caller (a lookup from job ID to its creation order)
// since jobGraph itself carries no job metadata.
//
// Adapted from the teacher's pkg/graph.Graph.TopologicalSort: same
// single-pass in-degree/adjacency construction, but with the ready queue
// kept as a sorted slice (insertSorted) instead of a ring buffer,
// generalized from edge-list input to an adjacency map keyed by job ID, and
// the orphan-ordering step is replaced by the (createdAt, id) comparator
// this domain requires instead of a plain ID sort.
func topoSort(g *jobGraph, tiebreak func(id string) int64) ([]string, error) {
	n := len(g.nodes)
	if n == 0 {
		return []string{}, nil
	}

	inDegree := make(map[string]int, n)
	for _, id := range g.nodes {
		inDegree[id] = 0
	}
	for _, targets := range g.adj {
		for _, t := range targets {
			inDegree[t]++
		}
	}

	less := func(a, b string) bool {
		ta, tb := tiebreak(a), tiebreak(b)
		if ta != tb {
			return ta < tb
		}
		return a < b
	}

	ready := make([]string, 0, n)
	for _, id := range g.nodes {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return less(ready[i], ready[j]) })

	order := make([]string, 0, n)
	for len(ready) > 0 {
		// Pop the smallest-ranked ready node, re-inserting any newly-ready
		// neighbors in sorted position so the layer-local tiebreak holds
		// even when several nodes become ready at different steps.
		current := ready[0]
		ready = ready[1:]
		order = append(order, current)

		neighbors := append([]string(nil), g.adj[current]...)
		sort.Slice(neighbors, func(i, j int) bool { return less(neighbors[i], neighbors[j]) })
		for _, nb := range neighbors {
			inDegree[nb]--
			if inDegree[nb] == 0 {
				ready = insertSorted(ready, nb, less)
			}
		}
	}

	if len(order) != n {
		return nil, spateerr.ErrCycle
	}
	return order, nil
}

func insertSorted(xs []string, v string, less func(a, b string) bool) []string {
	i := sort.Search(len(xs), func(i int) bool { return less(v, xs[i]) })
	xs = append(xs, "")
	copy(xs[i+1:], xs[i:])
	xs[i] = v
	return xs
}
