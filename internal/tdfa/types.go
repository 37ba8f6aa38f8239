// Package tdfa determinises a tagged NFA into a tagged DFA by subset
// construction over tagged configurations, following Borsotti & Trofimovich,
// "A closer look at TDFA".
package tdfa

import (
	"github.com/taglex/taglex/internal/ival"
	"github.com/taglex/taglex/internal/nfa"
	"github.com/taglex/taglex/internal/tag"
)

// RegisterID numbers a register slot. Registers [0,NumTag) are the working
// registers; [NumTag,2*NumTag) are the final registers written at commit
// time; anything >= 2*NumTag was allocated during determinisation.
type RegisterID int

// Mark is the Current/Nil entry recorded in a tag path or a register
// operation's history.
type Mark uint8

const (
	Current Mark = iota
	NilMark
)

// TagPathEntry is one (tag, Current|Nil) step accumulated while ε-closing.
type TagPathEntry struct {
	Tag  tag.Tag
	Mark Mark
}

// Configuration is an NFA state augmented with a per-tag register mapping
// and the ε-closure-local tag path that reached it.
type Configuration struct {
	NFAState  nfa.StateID
	Registers []RegisterID // len == NumTag, indexed by tag.Index
	TagPath   []TagPathEntry
}

// Kernel is the ordered configuration list that identifies a TDFA state.
type Kernel []Configuration

// ActionKind distinguishes the two register-operation forms.
type ActionKind uint8

const (
	CopyFrom ActionKind = iota
	Append
)

// Action is CopyFrom{Source} or Append{Source,History}.
type Action struct {
	Kind    ActionKind
	Source  RegisterID
	History []Mark
}

// RegisterOp is "Dest <- Action", one step of a transition's or a final
// state's register-update program.
type RegisterOp struct {
	Dest   RegisterID
	Action Action
}

// Transition is one outgoing edge of a TDFA state.
type Transition struct {
	Target int
	Ops    []RegisterOp
}

// State is one TDFA state: its defining kernel, its transition table (an
// interval tree plus a flattened ASCII cache), and, if final, the rule it
// accepts and the operations to run at commit time.
type State struct {
	ID     int
	Kernel Kernel

	Trans       *ival.Tree[int] // code point interval -> index into Transitions
	Transitions []Transition
	ASCII       [128]int // index into Transitions, or -1

	IsFinal   bool
	FinalRule int
	FinalOps  []RegisterOp
}

// TDFA is the immutable, shareable matching table built once from a frozen
// schema's TNFA.
type TDFA struct {
	States []*State
	Start  int
	NumTag int

	// NumRegisters is the total register-file size a simulator must
	// allocate: [0,NumTag) working, [NumTag,2*NumTag) final, the rest
	// allocated during determinisation.
	NumRegisters int

	// InitialOps runs once, before the first input byte is read, to resolve
	// any tag that fires via a purely spontaneous path reachable from the
	// begin state (e.g. a capture wrapping the very start of a rule) —
	// there is no incoming transition to attach that program to.
	InitialOps []RegisterOp
}
