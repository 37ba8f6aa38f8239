package nfa

import (
	"errors"
	"fmt"

	"github.com/taglex/taglex/internal/ival"
	"github.com/taglex/taglex/internal/regexast"
	"github.com/taglex/taglex/internal/tag"
	"github.com/taglex/taglex/schema"
)

// maxCodePoint is the upper bound of a Unicode scalar value.
const maxCodePoint = 0x10FFFF

// ErrInvalidRange is returned when a Group node carries lo > hi, a build-time
// invariant violation.
var ErrInvalidRange = errors.New("nfa: invalid character range (lo > hi)")

// builder walks a schema's rule ASTs and emits one merged TNFA.
type builder struct {
	nfa     *NFA
	nextID  StateID
	nextTag int
	// tags maps ruleIndex -> captureID -> (start, stop), allocated once per
	// capture identity so that a capture revisited through a Kleene loop
	// back-edge or a desugared '+' shares one tag pair rather than minting a
	// fresh one per AST occurrence.
	tags map[int]map[int][2]tag.Tag
}

// Build constructs the TNFA for s. Each rule's AST contributes an entry
// reachable from the shared begin state in rule-index order.
func Build(s *schema.Schema) (*NFA, error) {
	b := &builder{
		nfa: &NFA{
			Begin:  BeginState,
			States: make(map[StateID]*State),
		},
		nextID: 1,
		tags:   make(map[int]map[int][2]tag.Tag),
	}
	begin := b.newState(BeginState)

	for _, rule := range s.Rules() {
		b.allocRuleTags(rule.Index, rule.AST)
		entry, _, err := b.build(rule.AST, rule.Index, EndState(rule.Index))
		if err != nil {
			return nil, fmt.Errorf("nfa: rule %q: %w", rule.Name, err)
		}
		begin.Spontaneous = append(begin.Spontaneous, Spontaneous{Kind: Epsilon, Target: entry})
	}

	b.nfa.NumTag = b.nextTag
	b.nfa.Captures = b.tags
	return b.nfa, nil
}

func (b *builder) newState(id StateID) *State {
	s := &State{ID: id, Trans: ival.New[[]StateID]()}
	b.nfa.States[id] = s
	return s
}

func (b *builder) fresh() *State {
	id := b.nextID
	b.nextID++
	return b.newState(id)
}

func mergeTargets(existing, incoming []StateID) []StateID {
	out := make([]StateID, 0, len(existing)+len(incoming))
	out = append(out, existing...)
	out = append(out, incoming...)
	return out
}

// build returns the entry state id of a fragment matching node that, on
// success, transitions to target, plus the set of tags the fragment may
// produce (used by Alternation and KleeneClosure to negate siblings'/skip
// tags).
func (b *builder) build(node regexast.Node, rule int, target StateID) (StateID, []tag.Tag, error) {
	switch n := node.(type) {
	case *regexast.Literal:
		s := b.fresh()
		s.Trans.Insert(int(n.Char), int(n.Char), []StateID{target}, mergeTargets)
		return s.ID, nil, nil

	case *regexast.AnyChar:
		s := b.fresh()
		s.Trans.Insert(0, maxCodePoint, []StateID{target}, mergeTargets)
		return s.ID, nil, nil

	case *regexast.Group:
		s := b.fresh()
		ranges := n.Ranges
		if n.Negated {
			var entries []ival.Entry[struct{}]
			for _, r := range ranges {
				if r.Lo > r.Hi {
					return 0, nil, ErrInvalidRange
				}
				entries = append(entries, ival.Entry[struct{}]{Lo: int(r.Lo), Hi: int(r.Hi)})
			}
			comp := ival.Complement(entries, 0, maxCodePoint)
			for _, e := range comp {
				s.Trans.Insert(e.Lo, e.Hi, []StateID{target}, mergeTargets)
			}
		} else {
			for _, r := range ranges {
				if r.Lo > r.Hi {
					return 0, nil, ErrInvalidRange
				}
				s.Trans.Insert(int(r.Lo), int(r.Hi), []StateID{target}, mergeTargets)
			}
		}
		return s.ID, nil, nil

	case *regexast.Sequence:
		cur := target
		var tags []tag.Tag
		for i := len(n.Items) - 1; i >= 0; i-- {
			entry, itemTags, err := b.build(n.Items[i], rule, cur)
			if err != nil {
				return 0, nil, err
			}
			tags = append(append([]tag.Tag{}, itemTags...), tags...)
			cur = entry
		}
		return cur, tags, nil

	case *regexast.Alternation:
		return b.buildAlternation(n, rule, target)

	case *regexast.KleeneClosure:
		return b.buildKleene(n, rule, target)

	case *regexast.BoundedRepetition:
		return b.buildBounded(n, rule, target)

	case *regexast.Capture:
		return b.buildCapture(n, rule, target)
	}
	return 0, nil, fmt.Errorf("nfa: unknown AST node %T", node)
}

func (b *builder) buildAlternation(n *regexast.Alternation, rule int, target StateID) (StateID, []tag.Tag, error) {
	entries := make([]StateID, len(n.Branches))
	exits := make([]StateID, len(n.Branches))
	branchTags := make([][]tag.Tag, len(n.Branches))

	for i, br := range n.Branches {
		exit := b.fresh()
		entry, tags, err := b.build(br, rule, exit.ID)
		if err != nil {
			return 0, nil, err
		}
		entries[i] = entry
		exits[i] = exit.ID
		branchTags[i] = tags
	}

	var allTags []tag.Tag
	for _, ts := range branchTags {
		allTags = append(allTags, ts...)
	}

	head := b.fresh()
	for _, e := range entries {
		head.Spontaneous = append(head.Spontaneous, Spontaneous{Kind: Epsilon, Target: e})
	}

	for i := range n.Branches {
		var others []tag.Tag
		for j, ts := range branchTags {
			if j != i {
				others = append(others, ts...)
			}
		}
		cur, _ := b.nfa.State(exits[i])
		for _, tg := range others {
			next := b.fresh()
			cur.Spontaneous = append(cur.Spontaneous, Spontaneous{Kind: Negative, Tag: tg, Target: next.ID})
			cur = next
		}
		cur.Spontaneous = append(cur.Spontaneous, Spontaneous{Kind: Epsilon, Target: target})
	}

	return head.ID, allTags, nil
}

func (b *builder) buildKleene(n *regexast.KleeneClosure, rule int, target StateID) (StateID, []tag.Tag, error) {
	loop := b.fresh()
	bodyEntry, tags, err := b.build(n.Inner, rule, loop.ID)
	if err != nil {
		return 0, nil, err
	}
	loop.Spontaneous = append(loop.Spontaneous, Spontaneous{Kind: Epsilon, Target: bodyEntry})

	cur := loop
	for _, tg := range tags {
		next := b.fresh()
		cur.Spontaneous = append(cur.Spontaneous, Spontaneous{Kind: Negative, Tag: tg, Target: next.ID})
		cur = next
	}
	cur.Spontaneous = append(cur.Spontaneous, Spontaneous{Kind: Epsilon, Target: target})

	return loop.ID, tags, nil
}

func (b *builder) buildBounded(n *regexast.BoundedRepetition, rule int, target StateID) (StateID, []tag.Tag, error) {
	optCount := n.Max - n.Min

	contEntry, tagsOfX, err := b.buildOptionalChain(n.Inner, rule, optCount, target)
	if err != nil {
		return 0, nil, err
	}

	cur := contEntry
	for k := 0; k < n.Min; k++ {
		entry, ts, err := b.build(n.Inner, rule, cur)
		if err != nil {
			return 0, nil, err
		}
		if tagsOfX == nil {
			tagsOfX = ts
		}
		cur = entry
	}
	return cur, tagsOfX, nil
}

// buildOptionalChain builds `remaining` nested optional copies of x ending
// at finalTarget: each copy may be taken (greedy) or the whole remaining
// chain skipped at once via a negative-tag bypass straight to finalTarget.
func (b *builder) buildOptionalChain(x regexast.Node, rule int, remaining int, finalTarget StateID) (StateID, []tag.Tag, error) {
	if remaining == 0 {
		return finalTarget, nil, nil
	}
	contEntry, _, err := b.buildOptionalChain(x, rule, remaining-1, finalTarget)
	if err != nil {
		return 0, nil, err
	}
	bodyEntry, tags, err := b.build(x, rule, contEntry)
	if err != nil {
		return 0, nil, err
	}

	choice := b.fresh()
	choice.Spontaneous = append(choice.Spontaneous, Spontaneous{Kind: Epsilon, Target: bodyEntry})
	cur := choice
	for _, tg := range tags {
		next := b.fresh()
		cur.Spontaneous = append(cur.Spontaneous, Spontaneous{Kind: Negative, Tag: tg, Target: next.ID})
		cur = next
	}
	cur.Spontaneous = append(cur.Spontaneous, Spontaneous{Kind: Epsilon, Target: finalTarget})

	return choice.ID, tags, nil
}

// allocRuleTags walks root's captures in pre-order and allocates one
// (start, stop) tag pair per distinct capture id, skipping ids already seen
// via a shared AST node (e.g. the '+' desugaring's repeated pointer).
func (b *builder) allocRuleTags(rule int, root regexast.Node) {
	table := make(map[int][2]tag.Tag)
	seen := make(map[int]bool)
	for _, c := range regexast.Captures(root) {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		capture := tag.Capture{RuleIndex: rule, ID: c.ID, Name: c.Name, ParentID: c.ParentID, DescendantCount: c.DescendantCount}
		start := tag.Tag{Capture: capture, Kind: tag.Start, Index: b.allocTagIndex()}
		stop := tag.Tag{Capture: capture, Kind: tag.Stop, Index: b.allocTagIndex()}
		table[c.ID] = [2]tag.Tag{start, stop}
	}
	b.tags[rule] = table
}

func (b *builder) buildCapture(n *regexast.Capture, rule int, target StateID) (StateID, []tag.Tag, error) {
	pair := b.tags[rule][n.ID]
	startTag, stopTag := pair[0], pair[1]

	stop := b.fresh()
	stop.Spontaneous = append(stop.Spontaneous, Spontaneous{Kind: Positive, Tag: stopTag, Target: target})

	innerEntry, innerTags, err := b.build(n.Inner, rule, stop.ID)
	if err != nil {
		return 0, nil, err
	}

	start := b.fresh()
	start.Spontaneous = append(start.Spontaneous, Spontaneous{Kind: Positive, Tag: startTag, Target: innerEntry})

	tags := append([]tag.Tag{startTag, stopTag}, innerTags...)
	return start.ID, tags, nil
}

func (b *builder) allocTagIndex() int {
	idx := b.nextTag
	b.nextTag++
	return idx
}
