package attach

import (
	"github.com/signadot/attachtree/attach/kpath"
	"github.com/signadot/attachtree/debug"
)

// Child returns the child at index i, or nil if there is none.
func (c *Config) Child(i int) *Config {
	if i < 0 || i >= len(c.children) {
		return nil
	}
	return c.children[i]
}

// ChildAt follows a root-to-leaf series of child indices starting at c.
// No indices return c; [1] returns the second child. It returns nil as soon
// as one step has no child.
func (c *Config) ChildAt(indices ...int) *Config {
	p := c
	for _, i := range indices {
		p = p.Child(i)
		if p == nil {
			return nil
		}
	}
	return p
}

// Resolve returns the attachment addressed by the path rel, relative to c.
// A path addressing a property of an attachment's payload returns that
// attachment. A path into the attachments list of a node lacking the
// addressed child returns nil.
//
// Examples, relative to the root:
//   - "" → the root
//   - "attachments[0]" → the first child
//   - "attachments[0].position.x" → the first child
//   - "attachments[7]" → nil when there are fewer than 8 children
//   - "name" → the root
func (c *Config) Resolve(rel kpath.Path) *Config {
	if rel.IsRoot() {
		return c
	}
	target := kpath.Join(c.Path(), rel)
	cur := c
	rest := rel
	for {
		next, remainder, ok := cur.descend(target)
		if !ok {
			break
		}
		cur, rest = next, remainder
	}
	if debug.Resolve() {
		debug.Logf("resolve %q from %q: at %q rest %q\n", rel, c.Path(), cur.Path(), rest)
	}
	if rest.IsRoot() {
		return cur
	}
	if name, ok := rest.First().FieldName(); ok && name == c.tree.schema.AttachmentsKey {
		return nil
	}
	return cur
}

// descend finds the child of c whose path is a prefix of target.
func (c *Config) descend(target kpath.Path) (*Config, kpath.Path, bool) {
	for _, child := range c.children {
		if rel, ok := kpath.RelativeTo(child.Path(), target); ok {
			return child, rel, true
		}
	}
	return nil, kpath.Root, false
}

// ResolveString parses s and resolves it relative to c. The error is only
// non-nil for malformed paths; a missing attachment is a nil Config.
func (c *Config) ResolveString(s string) (*Config, error) {
	p, err := kpath.Parse(s)
	if err != nil {
		return nil, err
	}
	return c.Resolve(p), nil
}
