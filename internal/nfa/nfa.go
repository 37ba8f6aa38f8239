// Package nfa builds the tagged NFA (TNFA) that merges every schema rule
// into one automaton with tag-carrying spontaneous transitions. States are
// referenced by opaque ids in a flat graph with back-edges rather than
// owning pointers, so Kleene-closure cycles need no special-casing.
package nfa

import (
	"math"

	"github.com/taglex/taglex/internal/ival"
	"github.com/taglex/taglex/internal/tag"
)

// StateID is an opaque state reference. ID 0 is the single global begin
// state; for each rule r, MaxStateID-r is reserved as "end of rule r" so a
// simple comparison recovers the rule index without a live is_end bit.
type StateID uint32

const (
	BeginState StateID = 0
	maxStateID StateID = math.MaxUint32
)

// EndState returns the reserved end-state id for rule index r.
func EndState(ruleIndex int) StateID { return maxStateID - StateID(ruleIndex) }

// IsEndState reports whether id is a per-rule end state, and if so which
// rule it belongs to.
func IsEndState(id StateID) (ruleIndex int, ok bool) {
	if id == BeginState {
		return 0, false
	}
	// Any id large enough to only be reachable via maxStateID-r for a
	// plausible rule count is an end marker. Builders never allocate that
	// many real states, so the cutoff is unambiguous in practice.
	if id > maxStateID-(1<<20) {
		return int(maxStateID - id), true
	}
	return 0, false
}

// SpontaneousKind distinguishes epsilon, tag-positive and tag-negative
// spontaneous transitions.
type SpontaneousKind uint8

const (
	Epsilon SpontaneousKind = iota
	Positive
	Negative
)

// Spontaneous is one ε/tag transition out of a State.
type Spontaneous struct {
	Kind   SpontaneousKind
	Tag    tag.Tag
	Target StateID
}

// State is one TNFA state: a set of character-interval transitions plus an
// ordered list of spontaneous transitions. Spontaneous transitions are
// ordered by priority — earlier entries are preferred by the ε-closure DFS
// that the tdfa package performs.
type State struct {
	ID          StateID
	Trans       *ival.Tree[[]StateID]
	Spontaneous []Spontaneous
}

// NFA is the fully-built tagged automaton for one frozen schema.
type NFA struct {
	Begin  StateID
	States map[StateID]*State
	NumTag int

	// Captures maps ruleIndex -> captureID -> [startTag, stopTag], letting
	// downstream consumers (lexer, logtype) recover which two tag indices
	// bound a named capture without re-walking the rule's AST.
	Captures map[int]map[int][2]tag.Tag
}

// State looks up a state by id, reporting ok=false for an unknown id
// (including the reserved end-state sentinels, which have no State).
func (n *NFA) State(id StateID) (*State, bool) {
	s, ok := n.States[id]
	return s, ok
}
