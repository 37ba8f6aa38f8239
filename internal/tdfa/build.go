package tdfa

import (
	"sort"

	"github.com/taglex/taglex/internal/ival"
	"github.com/taglex/taglex/internal/nfa"
	"github.com/taglex/taglex/internal/tracelog"
)

// pending is a not-yet-processed TDFA state: it has an index and a kernel
// but its outgoing transitions haven't been computed yet.
type pending struct {
	index  int
	kernel Kernel
}

// Build determinises n into a TDFA with tracing disabled.
func Build(n *nfa.NFA) (*TDFA, error) {
	return BuildWithLogger(n, tracelog.New(false))
}

// BuildWithLogger determinises n into a TDFA, narrating kernel creation and
// bijection hits to log when it is enabled. The start configuration uses
// working registers [0,NumTag) and final registers are [NumTag,2*NumTag);
// this function allocates every register beyond that reserved block.
func BuildWithLogger(n *nfa.NFA, log *tracelog.Logger) (*TDFA, error) {
	numTag := n.NumTag
	alloc := newRegisterAlloc(numTag)
	log.Section("tdfa determinisation")

	t := &TDFA{NumTag: numTag}

	byExact := make(map[string]int)
	byShape := make(map[string][]int)
	liveFinalSources := make(map[RegisterID]bool)

	initialRegs := make([]RegisterID, numTag)
	for i := range initialRegs {
		initialRegs[i] = RegisterID(i)
	}
	startKernel := closure(n, []seed{{state: n.Begin, registers: initialRegs}})
	t.InitialOps = resolveTagPaths(numTag, startKernel, alloc)

	startIdx := 0
	t.States = append(t.States, &State{ID: startIdx, Kernel: startKernel, Trans: ival.New[int](), FinalRule: -1})
	byExact[exactKey(startKernel)] = startIdx
	byShape[shapeKey(startKernel)] = []int{startIdx}
	t.Start = startIdx
	log.StateCreated(startIdx, len(startKernel), true)

	markFinal(t.States[startIdx], numTag, liveFinalSources)

	queue := []pending{{index: startIdx, kernel: startKernel}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		st := t.States[cur.index]

		for i := range st.ASCII {
			st.ASCII[i] = -1
		}

		boundaries := collectBoundaries(n, cur.kernel)
		for i := 0; i+1 < len(boundaries); i++ {
			a, b := boundaries[i], boundaries[i+1]-1
			if a > b {
				continue
			}

			seeds := stepSeeds(n, cur.kernel, a)
			if len(seeds) == 0 {
				continue
			}
			newKernel := closure(n, seeds)
			if len(newKernel) == 0 {
				continue
			}
			ops := resolveTagPaths(numTag, newKernel, alloc)

			target, ops := matchOrCreate(t, newKernel, ops, byExact, byShape, liveFinalSources, &queue, log)

			transIdx := len(st.Transitions)
			st.Transitions = append(st.Transitions, Transition{Target: target, Ops: ops})
			st.Trans.Insert(a, b, transIdx, func(existing, incoming int) int { return incoming })

			if a < 128 {
				hi := b
				if hi > 127 {
					hi = 127
				}
				for cp := a; cp <= hi; cp++ {
					st.ASCII[cp] = transIdx
				}
			}
		}
	}

	t.NumRegisters = int(alloc.next)
	return t, nil
}

// matchOrCreate finds the TDFA state for newKernel (exact, then bijection,
// then a fresh state) and returns its index together with the transition's
// final register-operation list, rewritten to target that state's own
// register numbering when a bijection match applied.
func matchOrCreate(t *TDFA, newKernel Kernel, ops []RegisterOp, byExact map[string]int, byShape map[string][]int, liveFinalSources map[RegisterID]bool, queue *[]pending, log *tracelog.Logger) (int, []RegisterOp) {
	ek := exactKey(newKernel)
	if idx, ok := byExact[ek]; ok {
		return idx, ops
	}

	sk := shapeKey(newKernel)
	for _, candIdx := range byShape[sk] {
		cand := t.States[candIdx]
		fwd, ok := tryBijection(newKernel, cand.Kernel, liveFinalSources)
		if !ok {
			continue
		}

		rewritten := make([]RegisterOp, len(ops))
		copy(rewritten, ops)
		destSet := make(map[RegisterID]bool, len(rewritten))
		for i := range rewritten {
			if mapped, has := fwd[rewritten[i].Dest]; has {
				rewritten[i].Dest = mapped
			}
			destSet[rewritten[i].Dest] = true
		}
		var extra []RegisterOp
		for a, c := range fwd {
			if !destSet[a] {
				extra = append(extra, RegisterOp{Dest: c, Action: Action{Kind: CopyFrom, Source: a}})
			}
		}
		if len(extra) == 0 {
			byExact[ek] = candIdx
			log.BijectionHit(candIdx, 0)
			return candIdx, rewritten
		}

		combined := append(extra, rewritten...)
		if sorted, ok := topoSort(combined); ok {
			byExact[ek] = candIdx
			log.BijectionHit(candIdx, len(extra))
			return candIdx, sorted
		}
		// A genuine dependency cycle among the proposed copies means this
		// bijection cannot be realised as a straight-line program; fall
		// through to the next candidate (or a fresh state) rather than
		// emit an unsound transition.
	}

	idx := len(t.States)
	st := &State{ID: idx, Kernel: newKernel, Trans: ival.New[int](), FinalRule: -1}
	t.States = append(t.States, st)
	byExact[ek] = idx
	byShape[sk] = append(byShape[sk], idx)
	markFinal(st, t.NumTag, liveFinalSources)
	log.StateCreated(idx, len(newKernel), false)
	*queue = append(*queue, pending{index: idx, kernel: newKernel})
	return idx, ops
}

func markFinal(st *State, numTag int, liveFinalSources map[RegisterID]bool) {
	bestRule := -1
	var bestCfg Configuration
	for _, cfg := range st.Kernel {
		if ruleIdx, ok := nfa.IsEndState(cfg.NFAState); ok {
			if bestRule == -1 || ruleIdx < bestRule {
				bestRule = ruleIdx
				bestCfg = cfg
			}
		}
	}
	if bestRule == -1 {
		return
	}
	st.IsFinal = true
	st.FinalRule = bestRule
	st.FinalOps = finalOpsFor(numTag, bestCfg)
	for _, op := range st.FinalOps {
		liveFinalSources[op.Action.Source] = true
	}
}

// collectBoundaries returns the sorted, deduplicated set of interval
// start/end+1 points across every non-end configuration's transitions in
// kernel, partitioning the code point space into maximal homogeneous runs.
func collectBoundaries(n *nfa.NFA, kernel Kernel) []int {
	set := map[int]bool{}
	for _, cfg := range kernel {
		if _, isEnd := nfa.IsEndState(cfg.NFAState); isEnd {
			continue
		}
		st, ok := n.State(cfg.NFAState)
		if !ok {
			continue
		}
		for _, e := range st.Trans.Entries() {
			set[e.Lo] = true
			set[e.Hi+1] = true
		}
	}
	if len(set) == 0 {
		return nil
	}
	points := make([]int, 0, len(set))
	for p := range set {
		points = append(points, p)
	}
	sort.Ints(points)
	return points
}

// stepSeeds gathers the raw (not yet ε-closed) successor configurations
// reached by consuming code point cp from kernel, preserving kernel's
// configuration order (and each config's target order) as closure priority.
func stepSeeds(n *nfa.NFA, kernel Kernel, cp int) []seed {
	var seeds []seed
	for _, cfg := range kernel {
		if _, isEnd := nfa.IsEndState(cfg.NFAState); isEnd {
			continue
		}
		st, ok := n.State(cfg.NFAState)
		if !ok {
			continue
		}
		targets, found := st.Trans.Lookup(cp)
		if !found {
			continue
		}
		for _, tgt := range targets {
			seeds = append(seeds, seed{state: tgt, registers: cloneRegs(cfg.Registers)})
		}
	}
	return seeds
}
