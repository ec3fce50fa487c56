package routetree

import "sort"

// Spec is the unit of bulk registration: a mapping from path patterns
// to the opaque values served for them.
type Spec[V any] struct {
	Paths map[string]V
}

// Match is the result of a successful lookup.
//
// Value is nil for a listing-only match, where the query path ended in
// an empty segment and no value is registered for the trailing-slash
// form itself. Listing is non-nil only for trailing-slash queries and
// holds the sorted child segment names of the deepest matched level.
type Match[V any] struct {
	Value   *V
	Params  map[string]string
	Listing []string
}

// Tree resolves request paths to the values registered for the
// best-matching path patterns, extracting named parameters along the
// way.
//
// A Tree is not safe for concurrent mutation. The intended discipline
// is read-mostly: build the tree up front, then serve concurrent
// read-only Lookup calls. For live reconfiguration, build a fresh tree
// and publish it through a Swapper instead of mutating a tree that
// readers can see.
type Tree[V any] struct {
	root *node[V]
}

// New creates an empty tree.
func New[V any]() *Tree[V] {
	return &Tree[V]{root: &node[V]{}}
}

// AddSpec registers every path pattern in spec, with the optional
// prefix pattern prepended to each. Registration of a pattern is
// atomic: a configuration error leaves no partial branch for that
// pattern, though previously registered patterns of the same spec
// remain. Re-registering an identical pattern overwrites its value.
func (t *Tree[V]) AddSpec(spec *Spec[V], prefix string) error {
	patterns, pre, err := t.specPatterns(spec, prefix)
	if err != nil {
		return err
	}
	for _, pattern := range patterns {
		segs, err := ParsePattern(pattern)
		if err != nil {
			return err
		}
		if err := t.root.add(concat(pre, segs), spec.Paths[pattern]); err != nil {
			return NewSpecErrorWithCause("registering pattern "+pattern, err)
		}
		treeMetrics().patternsAdded.Inc()
	}
	return nil
}

// DelSpec removes every path pattern in spec, with the optional prefix
// pattern prepended to each, pruning subtrees left unreachable. A
// pattern that is not registered yields an error satisfying
// errors.Is(err, ErrPatternAbsent), so removal failure is never
// mistaken for success.
func (t *Tree[V]) DelSpec(spec *Spec[V], prefix string) error {
	patterns, pre, err := t.specPatterns(spec, prefix)
	if err != nil {
		return err
	}
	for _, pattern := range patterns {
		segs, err := ParsePattern(pattern)
		if err != nil {
			return err
		}
		if !t.root.remove(concat(pre, segs)) {
			return NewSpecErrorWithCause("removing pattern "+pattern, ErrPatternAbsent)
		}
		treeMetrics().patternsRemoved.Inc()
	}
	return nil
}

// specPatterns validates spec, parses the prefix, and returns the
// pattern keys in sorted order so registration is deterministic.
func (t *Tree[V]) specPatterns(spec *Spec[V], prefix string) ([]string, []Segment, error) {
	if spec == nil {
		return nil, nil, NewSpecError("spec is nil")
	}
	if len(spec.Paths) == 0 {
		return nil, nil, NewSpecError("spec has no path mapping")
	}
	var pre []Segment
	if prefix != "" {
		var err error
		if pre, err = ParsePattern(prefix); err != nil {
			return nil, nil, err
		}
	}
	patterns := make([]string, 0, len(spec.Paths))
	for pattern := range spec.Paths {
		patterns = append(patterns, pattern)
	}
	sort.Strings(patterns)
	return patterns, pre, nil
}

// Lookup resolves a `/`-delimited request path, normalized the same
// way patterns are. The boolean result distinguishes a match from the
// ordinary no-match outcome; no error is ever produced on this path.
func (t *Tree[V]) Lookup(path string) (Match[V], bool) {
	return t.LookupSegments(splitPath(path))
}

// LookupSegments resolves an already-split request path.
//
// When the final segment is the empty string (a trailing-slash query),
// the result carries the directory listing of the level reached by the
// preceding segments, plus the value registered for the trailing-slash
// form if there is one. Such a query matches only if at least one of
// the two exists; it never falls through to a wildcard.
func (t *Tree[V]) LookupSegments(segs []string) (Match[V], bool) {
	params := make(map[string]string)
	cur := t.root
	last := len(segs) - 1

	if last >= 0 && segs[last] == "" {
		for _, seg := range segs[:last] {
			if cur = cur.match(seg, params); cur == nil {
				return t.miss()
			}
		}
		listing := cur.keys()
		var value *V
		if empty, ok := cur.children[""]; ok {
			value = empty.value
		}
		if value == nil && len(listing) == 0 {
			return t.miss()
		}
		treeMetrics().lookupHits.Inc()
		return Match[V]{Value: value, Params: params, Listing: listing}, true
	}

	for _, seg := range segs {
		if cur = cur.match(seg, params); cur == nil {
			return t.miss()
		}
	}
	if cur.value == nil {
		return t.miss()
	}
	treeMetrics().lookupHits.Inc()
	return Match[V]{Value: cur.value, Params: params}, true
}

// miss records and returns the no-match outcome.
func (t *Tree[V]) miss() (Match[V], bool) {
	treeMetrics().lookupMisses.Inc()
	return Match[V]{}, false
}

// Len returns the number of values currently registered.
func (t *Tree[V]) Len() int {
	return countValues(t.root)
}

func countValues[V any](n *node[V]) int {
	total := 0
	if n.value != nil {
		total++
	}
	for _, c := range n.children {
		total += countValues(c)
	}
	if n.wildcard != nil {
		total += countValues(n.wildcard)
	}
	return total
}

// concat joins a parsed prefix and a parsed pattern without aliasing
// either slice.
func concat(pre, segs []Segment) []Segment {
	if len(pre) == 0 {
		return segs
	}
	joined := make([]Segment, 0, len(pre)+len(segs))
	joined = append(joined, pre...)
	return append(joined, segs...)
}
