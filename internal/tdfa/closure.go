package tdfa

import "github.com/taglex/taglex/internal/nfa"

// seed is a configuration not yet ε-closed: an NFA state reached together
// with the register mapping and (possibly empty) tag path it carries in.
type seed struct {
	state     nfa.StateID
	registers []RegisterID
	path      []TagPathEntry
}

// closure computes the ε-closure of seeds against n, in priority order: each
// seed's entire reachable subtree is explored (depth first, following each
// state's Spontaneous list in order) before the next seed starts, and an NFA
// state already visited by an earlier seed or an earlier sibling branch is
// never revisited.
//
// Only states with outgoing character transitions, or end-of-rule sentinels,
// are kept as configurations in the result — purely spontaneous states are
// transparent hops, fully absorbed into the tag paths of whatever they lead
// to.
func closure(n *nfa.NFA, seeds []seed) Kernel {
	visited := make(map[nfa.StateID]bool)
	var result Kernel

	var dfs func(id nfa.StateID, regs []RegisterID, path []TagPathEntry)
	dfs = func(id nfa.StateID, regs []RegisterID, path []TagPathEntry) {
		if visited[id] {
			return
		}
		visited[id] = true

		if _, isEnd := nfa.IsEndState(id); isEnd {
			result = append(result, Configuration{
				NFAState:  id,
				Registers: cloneRegs(regs),
				TagPath:   clonePath(path),
			})
			return
		}

		st, ok := n.State(id)
		if !ok {
			return
		}
		if len(st.Trans.Entries()) > 0 {
			result = append(result, Configuration{
				NFAState:  id,
				Registers: cloneRegs(regs),
				TagPath:   clonePath(path),
			})
		}

		for _, sp := range st.Spontaneous {
			switch sp.Kind {
			case nfa.Epsilon:
				dfs(sp.Target, regs, path)
			case nfa.Positive:
				dfs(sp.Target, regs, appendEntry(path, TagPathEntry{Tag: sp.Tag, Mark: Current}))
			case nfa.Negative:
				dfs(sp.Target, regs, appendEntry(path, TagPathEntry{Tag: sp.Tag, Mark: NilMark}))
			}
		}
	}

	for _, s := range seeds {
		dfs(s.state, s.registers, s.path)
	}
	return result
}

func cloneRegs(r []RegisterID) []RegisterID {
	out := make([]RegisterID, len(r))
	copy(out, r)
	return out
}

func clonePath(p []TagPathEntry) []TagPathEntry {
	out := make([]TagPathEntry, len(p))
	copy(out, p)
	return out
}

// appendEntry appends to path without aliasing its backing array across
// sibling branches explored by separate dfs calls.
func appendEntry(path []TagPathEntry, e TagPathEntry) []TagPathEntry {
	out := make([]TagPathEntry, len(path), len(path)+1)
	copy(out, path)
	return append(out, e)
}
