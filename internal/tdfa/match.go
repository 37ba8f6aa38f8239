package tdfa

import (
	"fmt"
	"strings"
)

// exactKey canonicalises a kernel's (NFA state, register assignment) so two
// kernels that agree completely — modulo the transient ε-closure-local tag
// path — map to the same key.
func exactKey(k Kernel) string {
	var b strings.Builder
	for _, cfg := range k {
		fmt.Fprintf(&b, "%d:", cfg.NFAState)
		for _, r := range cfg.Registers {
			fmt.Fprintf(&b, "%d,", r)
		}
		b.WriteByte(';')
	}
	return b.String()
}

// shapeKey ignores register numbers, keeping only the ordered NFA state
// sequence, so states that may be bijection-compatible can be found as
// candidates.
func shapeKey(k Kernel) string {
	var b strings.Builder
	for _, cfg := range k {
		fmt.Fprintf(&b, "%d,", cfg.NFAState)
	}
	return b.String()
}

// tryBijection attempts to find a register renaming under which newK is
// identical to candidate's kernel. It fails (returns ok=false) if the
// correspondence is inconsistent, not injective, or would require aliasing
// a register that liveFinalSources records as still read by some already-
// built final state's commit program — the guard that keeps this
// determiniser's simplified register-lifetime story correct without a full
// fallback-operation rewrite (see fallback.go).
func tryBijection(newK, candidate Kernel, liveFinalSources map[RegisterID]bool) (map[RegisterID]RegisterID, bool) {
	if len(newK) != len(candidate) {
		return nil, false
	}
	fwd := make(map[RegisterID]RegisterID)
	rev := make(map[RegisterID]RegisterID)
	for i := range newK {
		if newK[i].NFAState != candidate[i].NFAState {
			return nil, false
		}
		if len(newK[i].Registers) != len(candidate[i].Registers) {
			return nil, false
		}
		for t := range newK[i].Registers {
			a, c := newK[i].Registers[t], candidate[i].Registers[t]
			if a == c {
				continue
			}
			if existing, ok := fwd[a]; ok {
				if existing != c {
					return nil, false
				}
				continue
			}
			if existing, ok := rev[c]; ok {
				if existing != a {
					return nil, false
				}
			}
			if liveFinalSources[c] {
				return nil, false
			}
			fwd[a] = c
			rev[c] = a
		}
	}
	return fwd, true
}
