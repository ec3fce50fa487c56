// Package routetree implements a compact path-matching engine: a
// shared prefix tree over URL-path patterns that resolves an incoming
// path to the value registered for the best-matching pattern,
// extracting named parameters along the way.
//
// This package owns the matching engine only. Transport, request
// parsing, and response generation belong to the calling framework;
// the engine consumes an already-parsed mapping of path pattern to
// opaque value and already-normalized request paths.
//
// # Features
//
//   - Literal, wildcard capture (`{name}`), and fixed-value capture
//     (`{name:literal}`) segments
//   - Structural prefix sharing across registrations
//   - Parameter extraction into a per-lookup map
//   - Directory listings for trailing-slash queries
//   - Pattern removal with bottom-up pruning
//   - Lock-free concurrent lookups via published snapshots
//
// The reserved multi-segment modifier forms `{/name}` and `{+name}`
// are recognized by the grammar and rejected at registration time.
//
// # Usage
//
// Build a tree and resolve paths:
//
//	tree := routetree.New[string]()
//	err := tree.AddSpec(&routetree.Spec[string]{
//	    Paths: map[string]string{
//	        "/users/{id}":      "user-handler",
//	        "/users/{id}/pets": "pet-handler",
//	    },
//	}, "/api/v1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m, ok := tree.Lookup("/api/v1/users/42")
//	if ok {
//	    // *m.Value == "user-handler", m.Params["id"] == "42"
//	}
//
// For live reconfiguration under concurrent lookups, publish trees
// through a Swapper: build a fresh tree, then Store it; readers always
// traverse a fully-built snapshot.
package routetree
