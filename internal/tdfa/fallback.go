package tdfa

// topoSort orders ops so that whenever one op reads a register another op
// in the same list writes, the write happens first. It reports ok=false if the
// dependency graph has a non-trivial cycle, which can only arise from an
// unsound bijection merge — the caller treats that as a rejected merge
// rather than emitting a broken program.
func topoSort(ops []RegisterOp) ([]RegisterOp, bool) {
	n := len(ops)
	writer := make(map[RegisterID]int, n)
	for i, op := range ops {
		writer[op.Dest] = i
	}

	deps := make([][]int, n) // deps[i] = indices that must run before i
	indeg := make([]int, n)
	for i, op := range ops {
		if src, ok := writer[op.Action.Source]; ok && src != i {
			deps[i] = append(deps[i], src)
			indeg[i]++
		}
	}

	var queue []int
	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			queue = append(queue, i)
		}
	}

	// successors[j] = nodes that depend on j
	successors := make([][]int, n)
	for i := 0; i < n; i++ {
		for _, j := range deps[i] {
			successors[j] = append(successors[j], i)
		}
	}

	var order []int
	for len(queue) > 0 {
		j := queue[0]
		queue = queue[1:]
		order = append(order, j)
		for _, i := range successors[j] {
			indeg[i]--
			if indeg[i] == 0 {
				queue = append(queue, i)
			}
		}
	}
	if len(order) != n {
		return nil, false
	}

	out := make([]RegisterOp, n)
	for k, idx := range order {
		out[k] = ops[idx]
	}
	return out, true
}

// ComputeClobberSets runs the fixed-point register-liveness analysis of
// Borsotti & Trofimovich's Algorithm 4: for each state, the set of
// registers some transition on a path to the nearest final state might
// overwrite before that final state's commit operations read them. Every
// register written on a transition is counted, so the sets are non-empty
// whenever transitions carry operations.
//
// Build does not call this analysis and inserts no fallback operations; the
// lexer applies a final state's commit operations to a register snapshot as
// soon as it enters that state, before any later transition can write to
// their source registers.
func ComputeClobberSets(t *TDFA) map[int]map[RegisterID]bool {
	clobber := make(map[int]map[RegisterID]bool, len(t.States))
	for i := range t.States {
		clobber[i] = make(map[RegisterID]bool)
	}

	changed := true
	for changed {
		changed = false
		for i, st := range t.States {
			for _, tr := range st.Transitions {
				written := make(map[RegisterID]bool)
				for _, op := range tr.Ops {
					written[op.Dest] = true
				}
				contribution := written
				if !t.States[tr.Target].IsFinal {
					for r := range clobber[tr.Target] {
						contribution[r] = true
					}
				}
				for r := range contribution {
					if !clobber[i][r] {
						clobber[i][r] = true
						changed = true
					}
				}
			}
		}
	}
	return clobber
}
