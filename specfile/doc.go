// Package specfile loads route-spec documents that feed the matching
// engine.
//
// A spec document is a YAML file declaring groups of path patterns and
// the targets they resolve to:
//
//	version: v1
//	specs:
//	  - name: users
//	    prefix: /api/v1
//	    paths:
//	      /users/{id}:
//	        backend: users-svc
//	      /users/{id}/pets:
//	        backend: pets-svc
//
// The package validates documents at load time (every pattern must
// parse, every target must name a backend), builds a routetree.Tree
// from them, and optionally watches the file for changes, publishing
// each successfully rebuilt tree through a routetree.Swapper so
// concurrent lookups always traverse a consistent snapshot.
package specfile
