// Package kpath provides root-relative paths into an attachment document.
//
// A path is an immutable sequence of segments. Each segment is either an
// object field or a list index:
//   - field - Object field access ("position", "attachments")
//   - [index] - List element access ("[0]")
//
// # Usage
//
//	// Parse a path
//	p, err := kpath.Parse("attachments[0].position.x")
//
//	// Build paths
//	child := kpath.Root.Field("attachments").Index(2)
//	abs := kpath.Join(child, kpath.MustParse("item"))
//
//	// Subtract a prefix
//	rel, ok := kpath.RelativeTo(child, abs) // "item", true
//
// # Path Examples
//
//	""                              // the root
//	"attachments[1]"                // second child attachment of the root
//	"attachments[1].attachments[0]" // its first child
//	"attachments[1].position.x"     // a property of the second child
//	"'odd key'.value"               // quoted field
package kpath
