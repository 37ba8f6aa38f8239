package tdfa

import (
	"fmt"
	"strings"
)

// registerAlloc hands out fresh register ids above the 2*NumTag reserved
// block, monotonically, for the lifetime of one determinisation run.
type registerAlloc struct {
	next RegisterID
}

func newRegisterAlloc(numTag int) *registerAlloc {
	return &registerAlloc{next: RegisterID(2 * numTag)}
}

func (a *registerAlloc) fresh() RegisterID {
	id := a.next
	a.next++
	return id
}

// opMemo dedupes identical (tag, source, history) proposals within a single
// transition so that configurations agreeing on an update share one
// register and one emitted op.
type opMemo struct {
	seen map[string]RegisterID
}

func newOpMemo() *opMemo { return &opMemo{seen: make(map[string]RegisterID)} }

func historyKey(t int, source RegisterID, hist []Mark) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%d|", t, source)
	for _, m := range hist {
		if m == Current {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// resolveTagPaths rewrites each configuration's carried-over register for
// every tag with a non-empty ε-closure-local TagPath into a freshly
// allocated (or memoised, if an identical proposal already exists within
// this transition) register, emitting the RegisterOp that produces it.
// Configurations for which a tag's TagPath is empty keep pointing at the
// register they already carried — no operation is needed since nothing
// changed.
func resolveTagPaths(numTag int, k Kernel, alloc *registerAlloc) []RegisterOp {
	memo := newOpMemo()
	var ops []RegisterOp
	for ci := range k {
		cfg := &k[ci]
		for t := 0; t < numTag; t++ {
			hist := tagHistory(cfg.TagPath, t)
			if len(hist) == 0 {
				continue
			}
			source := cfg.Registers[t]
			key := historyKey(t, source, hist)
			dest, ok := memo.seen[key]
			if !ok {
				dest = alloc.fresh()
				memo.seen[key] = dest
				ops = append(ops, RegisterOp{
					Dest:   dest,
					Action: Action{Kind: Append, Source: source, History: hist},
				})
			}
			cfg.Registers[t] = dest
		}
	}
	return ops
}

func tagHistory(path []TagPathEntry, tagIndex int) []Mark {
	var out []Mark
	for _, e := range path {
		if e.Tag.Index == tagIndex {
			out = append(out, e.Mark)
		}
	}
	return out
}

// finalOpsFor builds the commit-time register program for the configuration
// that decides a final state's match: every tag is
// either appended from its working register using the path accumulated to
// reach the accepting configuration, or copied straight through.
func finalOpsFor(numTag int, cfg Configuration) []RegisterOp {
	ops := make([]RegisterOp, 0, numTag)
	for t := 0; t < numTag; t++ {
		dest := RegisterID(numTag + t)
		hist := tagHistory(cfg.TagPath, t)
		if len(hist) == 0 {
			ops = append(ops, RegisterOp{Dest: dest, Action: Action{Kind: CopyFrom, Source: cfg.Registers[t]}})
		} else {
			ops = append(ops, RegisterOp{Dest: dest, Action: Action{Kind: Append, Source: cfg.Registers[t], History: hist}})
		}
	}
	return ops
}
