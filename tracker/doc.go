// Package tracker keeps an attachment tree in sync with successive revisions
// of its YAML document.
//
// Each call to [Tracker.Update] compares the tree with the new document and,
// for every structural delta, applies it to the tree and notifies the
// listeners right away, so a listener's mirror and the tree move in lock
// step. The batch ends with one Synchronized change for the root.
//
// Children are aligned by content: inserting or removing an attachment in
// the middle of a list yields a single Added or Removed change, and the
// siblings after it keep their identity.
//
// A [Loop] runs the tracker on a single control goroutine and [Watch]
// reloads a document file when it changes on disk.
package tracker
