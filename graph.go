package flow

// SelectEdges returns the outgoing edges of fromNodeID whose conditions hold
// against nodes, in input order. Edges without conditions are always selected.
func SelectEdges(edges []Edge, fromNodeID string, nodes []Node) []Edge {
	selected := []Edge{}
	for _, e := range edges {
		if e.FromNodeID != fromNodeID {
			continue
		}
		if e.When == nil || e.When.Evaluate(nodes) {
			selected = append(selected, e)
		}
	}
	return selected
}

// ValidateAcyclic checks that the edges don't form a cycle using DFS.
func ValidateAcyclic(edges []Edge) error {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.FromNodeID] = append(adj[e.FromNodeID], e.ToNodeID)
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)

	// Edges are the only source of vertices here; iterate them in order so
	// the traversal is deterministic.
	state := make(map[string]int)
	var order []string
	for _, e := range edges {
		for _, id := range []string{e.FromNodeID, e.ToNodeID} {
			if _, ok := state[id]; !ok {
				state[id] = unvisited
				order = append(order, id)
			}
		}
	}

	var dfs func(id string) bool
	dfs = func(id string) bool {
		state[id] = visiting
		for _, next := range adj[id] {
			switch state[next] {
			case visiting:
				return true
			case unvisited:
				if dfs(next) {
					return true
				}
			}
		}
		state[id] = visited
		return false
	}

	for _, id := range order {
		if state[id] == unvisited {
			if dfs(id) {
				return ErrCycleDetected
			}
		}
	}

	return nil
}
