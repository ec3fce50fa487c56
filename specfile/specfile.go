package specfile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vyrodovalexey/routetree"
)

// Target is the opaque value a resolved path maps to.
type Target struct {
	Backend  string            `yaml:"backend"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// RouteSpec groups path patterns under an optional shared prefix.
type RouteSpec struct {
	Name   string            `yaml:"name"`
	Prefix string            `yaml:"prefix,omitempty"`
	Paths  map[string]Target `yaml:"paths"`
}

// File is the root of a route-spec document.
type File struct {
	Version string      `yaml:"version,omitempty"`
	Specs   []RouteSpec `yaml:"specs"`
}

// ValidationError represents a spec document validation error.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// HasErrors returns true if there are validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validate checks a spec document for structural problems, collecting
// every error rather than stopping at the first.
func Validate(f *File) error {
	if f == nil {
		return ValidationErrors{{Message: "document is nil"}}
	}

	var errs ValidationErrors
	if len(f.Specs) == 0 {
		errs = append(errs, ValidationError{Path: "specs", Message: "at least one spec is required"})
	}

	for i, spec := range f.Specs {
		at := fmt.Sprintf("specs[%d]", i)
		if spec.Name == "" {
			errs = append(errs, ValidationError{Path: at + ".name", Message: "name is required"})
		}
		if spec.Prefix != "" {
			if _, err := routetree.ParsePattern(spec.Prefix); err != nil {
				errs = append(errs, ValidationError{Path: at + ".prefix", Message: err.Error()})
			}
		}
		if len(spec.Paths) == 0 {
			errs = append(errs, ValidationError{Path: at + ".paths", Message: "at least one path is required"})
			continue
		}
		patterns := make([]string, 0, len(spec.Paths))
		for pattern := range spec.Paths {
			patterns = append(patterns, pattern)
		}
		sort.Strings(patterns)
		for _, pattern := range patterns {
			target := spec.Paths[pattern]
			pat := fmt.Sprintf("%s.paths[%s]", at, pattern)
			if _, err := routetree.ParsePattern(pattern); err != nil {
				errs = append(errs, ValidationError{Path: pat, Message: err.Error()})
			}
			if target.Backend == "" {
				errs = append(errs, ValidationError{Path: pat + ".backend", Message: "backend is required"})
			}
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// Build constructs a tree from a validated spec document. Registration
// conflicts between patterns (capture-name disagreements, wildcard
// versus literal fan-out) surface here rather than in Validate, since
// they depend on the combination of patterns, not any single one.
func Build(f *File) (*routetree.Tree[Target], error) {
	tree := routetree.New[Target]()
	for _, spec := range f.Specs {
		rs := &routetree.Spec[Target]{Paths: spec.Paths}
		if err := tree.AddSpec(rs, spec.Prefix); err != nil {
			return nil, fmt.Errorf("spec %s: %w", spec.Name, err)
		}
	}
	return tree, nil
}
