package routetree

import "sort"

// node is one level of the prefix tree. Literal children are keyed by
// their exact segment text; the empty string is a legitimate key, kept
// distinct from "no entry" by the map itself. A node holds at most one
// wildcard child, and a node never holds both literal children and a
// wildcard child.
type node[V any] struct {
	value    *V
	children map[string]*node[V]
	wildcard *node[V]
	// capture is the parameter name bound when this node is entered
	// through a named-fixed or wildcard segment. Empty for plain
	// literal children.
	capture string
}

// child performs an exact structural lookup for a parsed segment
// descriptor. It is used only while walking the tree during
// registration, never during request resolution. A nil result with a
// nil error means the descriptor has no entry yet.
//
// Passing through an existing literal child via a named-fixed segment
// records the capture name on that child; two different non-empty
// names for the same slot are a configuration error.
func (n *node[V]) child(seg Segment) (*node[V], error) {
	if seg.Kind == KindWildcard {
		if n.wildcard == nil {
			return nil, nil
		}
		if n.wildcard.capture != seg.Name {
			return nil, NewConflictError("{"+seg.Name+"}", "{"+n.wildcard.capture+"}",
				"capture name differs at the same level")
		}
		return n.wildcard, nil
	}
	c, ok := n.children[seg.Text]
	if !ok {
		return nil, nil
	}
	if seg.Kind == KindNamedFixed {
		switch c.capture {
		case "":
			c.capture = seg.Name
		case seg.Name:
		default:
			return nil, NewConflictError("{"+seg.Name+":"+seg.Text+"}", "{"+c.capture+"}",
				"capture name differs at the same level")
		}
	}
	return c, nil
}

// graft attaches sub as the child for seg, enforcing the fan-out
// invariant: a level holds either literal children or a single
// wildcard child, never both.
func (n *node[V]) graft(seg Segment, sub *node[V]) error {
	sub.capture = seg.Name
	if seg.Kind == KindWildcard {
		if len(n.children) > 0 {
			return NewConflictError("{"+seg.Name+"}", "",
				"wildcard cannot join a level with literal children")
		}
		n.wildcard = sub
		return nil
	}
	if n.wildcard != nil {
		return NewConflictError(seg.Text, "{"+n.wildcard.capture+"}",
			"literal cannot join a level with a wildcard child")
	}
	if n.children == nil {
		n.children = make(map[string]*node[V])
	}
	n.children[seg.Text] = sub
	return nil
}

// add extends the tree below n along segs, storing value on the final
// node. It walks existing nodes as far as they go, then grafts a
// freshly built chain for the remaining suffix in a single step, so a
// failed registration leaves no partial branch behind. Re-adding an
// already-registered path overwrites the old value.
func (n *node[V]) add(segs []Segment, value V) error {
	cur := n
	for i, seg := range segs {
		next, err := cur.child(seg)
		if err != nil {
			return err
		}
		if next == nil {
			return cur.graft(seg, buildChain(segs[i+1:], value))
		}
		cur = next
	}
	cur.value = &value
	return nil
}

// buildChain builds a detached single-branch subtree for segs with
// value stored on its last node. The returned node is the child for
// the segment preceding segs; its capture name is set by graft.
func buildChain[V any](segs []Segment, value V) *node[V] {
	root := &node[V]{}
	cur := root
	for _, seg := range segs {
		next := &node[V]{capture: seg.Name}
		if seg.Kind == KindWildcard {
			cur.wildcard = next
		} else {
			cur.children = map[string]*node[V]{seg.Text: next}
		}
		cur = next
	}
	cur.value = &value
	return root
}

// remove clears the value registered for segs below n and prunes
// value-less, child-less nodes bottom-up. It reports whether a value
// was actually removed; pruning stops at any node still carrying a
// value or serving another branch.
func (n *node[V]) remove(segs []Segment) bool {
	if len(segs) == 0 {
		if n.value == nil {
			return false
		}
		n.value = nil
		return true
	}
	seg := segs[0]
	var child *node[V]
	if seg.Kind == KindWildcard {
		if n.wildcard == nil || n.wildcard.capture != seg.Name {
			return false
		}
		child = n.wildcard
	} else {
		child = n.children[seg.Text]
	}
	if child == nil || !child.remove(segs[1:]) {
		return false
	}
	if child.value == nil && !child.hasChildren() {
		if seg.Kind == KindWildcard {
			n.wildcard = nil
		} else {
			delete(n.children, seg.Text)
		}
	}
	return true
}

// match resolves one runtime path segment, binding captured parameters
// into params. An empty segment only ever matches an empty literal
// entry; the wildcard child is reserved for non-empty segments. A
// non-empty segment prefers its literal entry and falls back to the
// wildcard child. Returns nil when the segment is untraversable.
func (n *node[V]) match(seg string, params map[string]string) *node[V] {
	if c, ok := n.children[seg]; ok {
		if c.capture != "" {
			params[c.capture] = seg
		}
		return c
	}
	if seg == "" {
		return nil
	}
	if n.wildcard != nil {
		if n.wildcard.capture != "" {
			params[n.wildcard.capture] = seg
		}
		return n.wildcard
	}
	return nil
}

// hasChildren reports whether any literal or wildcard child exists.
func (n *node[V]) hasChildren() bool {
	return len(n.children) > 0 || n.wildcard != nil
}

// keys returns the sorted literal child keys. The empty-literal key is
// listed only when that child has children of its own, which keeps
// trailing-slash listings clean. A wildcard level has no meaningful
// listing and yields nil.
func (n *node[V]) keys() []string {
	if n.wildcard != nil || len(n.children) == 0 {
		return nil
	}
	ks := make([]string, 0, len(n.children))
	for k, c := range n.children {
		if k == "" && !c.hasChildren() {
			continue
		}
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
