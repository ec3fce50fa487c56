package routetree

import (
	"errors"
	"regexp"
	"strings"
)

// SegmentKind discriminates the segment descriptor variants.
type SegmentKind int

const (
	// KindLiteral matches exactly the segment text.
	KindLiteral SegmentKind = iota
	// KindNamedFixed matches exactly the segment text and binds the
	// capture name to the matched value.
	KindNamedFixed
	// KindWildcard matches any single non-empty segment and binds the
	// capture name to the matched value.
	KindWildcard
)

// Segment is one typed component of a parsed path pattern.
//
// Text holds the literal to match for KindLiteral and KindNamedFixed;
// it is unused for KindWildcard. Name holds the capture name for
// KindNamedFixed and KindWildcard.
type Segment struct {
	Kind SegmentKind
	Text string
	Name string
}

// captureRe recognizes the capture grammar: an optional modifier
// (`+` or `/`), a name, and an optional `:literal` fixed value.
var captureRe = regexp.MustCompile(`^\{([+/]?)(\w+)(?::(.+))?\}$`)

// ParsePattern parses a `/`-delimited path pattern into its segment
// descriptors. A single leading `/` is stripped first, so `/a/b` and
// `a/b` parse identically.
func ParsePattern(pattern string) ([]Segment, error) {
	trimmed := strings.TrimPrefix(pattern, "/")
	segs, err := ParseSegments(strings.Split(trimmed, "/"))
	if err != nil {
		var pe *PatternError
		if errors.As(err, &pe) && pe.Pattern == "" {
			pe.Pattern = pattern
		}
		return nil, err
	}
	return segs, nil
}

// ParseSegments parses an already-split sequence of raw pattern
// segments. Splitting on `/` can separate a capture's opening brace
// from its `}`-terminated body when a `/` modifier is present; an
// adjacent `{` segment and `}`-suffixed segment are rejoined before
// classification so the modifier form is recognized (and rejected)
// rather than mistaken for two literals.
func ParseSegments(raw []string) ([]Segment, error) {
	segs := make([]Segment, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		text := raw[i]
		if text == "{" && i+1 < len(raw) && strings.HasSuffix(raw[i+1], "}") {
			text = "{/" + raw[i+1]
			i++
		}
		seg, err := parseSegment(text)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

// parseSegment classifies a single raw segment.
func parseSegment(text string) (Segment, error) {
	if !strings.HasPrefix(text, "{") {
		return Segment{Kind: KindLiteral, Text: text}, nil
	}
	m := captureRe.FindStringSubmatch(text)
	if m == nil {
		return Segment{}, NewPatternError("", text, "malformed capture syntax")
	}
	modifier, name, fixed := m[1], m[2], m[3]
	if modifier != "" {
		return Segment{}, NewUnsupportedError(text, "modifier '"+modifier+"'")
	}
	if fixed != "" {
		return Segment{Kind: KindNamedFixed, Text: fixed, Name: name}, nil
	}
	return Segment{Kind: KindWildcard, Name: name}, nil
}

// splitPath normalizes a runtime request path into its segments using
// the same rule as pattern parsing: strip one leading `/`, split on `/`.
func splitPath(path string) []string {
	return strings.Split(strings.TrimPrefix(path, "/"), "/")
}
