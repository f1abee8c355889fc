package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ajmazurie/spate/internal/workflow"
)

// Draw renders the plain edge-list description an external graph layout
// program consumes: one "producer -> consumer [path]" line per path linking
// a producing job to a consuming job (so two jobs sharing several paths get
// several lines), plus one "job" declaration line per job with no
// dependency edges at all (so isolated jobs still appear as nodes).
//
// This is the graph-description text named but never specified by §6's
// "draw" interface; cmd/spate pipes its output to an external layout
// command over stdin/stdout.
func Draw(w *workflow.Workflow) (string, error) {
	ids, err := w.TopoOrder()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	hasEdge := make(map[string]bool, len(ids))
	for _, id := range ids {
		edges := w.JobInputEdges(id)
		if len(edges) == 0 {
			continue
		}
		paths := make([]string, 0, len(edges))
		for p := range edges {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			producer := edges[p]
			fmt.Fprintf(&b, "%s -> %s [%s]\n", producer, id, p)
			hasEdge[producer] = true
			hasEdge[id] = true
		}
	}
	for _, id := range ids {
		if !hasEdge[id] {
			fmt.Fprintf(&b, "job %s\n", id)
		}
	}
	return b.String(), nil
}
