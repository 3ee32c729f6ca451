// Package attach provides a live, path-addressable tree of attachment
// configurations.
//
// Each [Config] mirrors one attachment definition of a hierarchical YAML
// document:
//
//	type: EMPTY
//	attachments:
//	- type: ITEM
//	  item: apple
//	- type: MODEL
//	  modelName: wagon
//	  attachments:
//	  - type: SEAT
//
// The root is the document itself. The child at index i of a node lives at
// <node path>.attachments[i] in the document, so the SEAT above has path
// "attachments[1].attachments[0]".
//
// # Changes
//
// A tracker (see package tracker) owns the tree and emits a [Change] for each
// structural delta it applies: [Added], [Removed] and [Changed] events,
// followed by one [Synchronized] event once the tree is consistent again.
// Listeners receive changes through [Dispatch], which calls exactly one
// [Listener] method per change.
//
// # Paths
//
// [Config.Resolve] maps a path relative to a node onto the node it addresses.
// Paths that land inside a node's own payload (a property) resolve to that
// node; paths into the reserved attachments list of a node that has no such
// child resolve to nil.
//
// # Threading
//
// The tree and everything reachable from it belong to a single control
// goroutine. Nothing in this package locks.
package attach
