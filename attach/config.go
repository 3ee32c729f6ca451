package attach

import (
	"fmt"

	"github.com/signadot/attachtree/attach/kpath"

	"gopkg.in/yaml.v3"
)

// Kind distinguishes plain attachments from model attachments.
// It is a closed set: consumers handle exactly KindPlain and KindModel.
type Kind int

const (
	KindPlain Kind = iota
	KindModel
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindModel:
		return "model"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Config is the configuration of a single attachment and its position in
// the attachment hierarchy.
//
// Children are owned by their parent. The parent link is only used for
// upward navigation.
type Config struct {
	tree     *Tree
	parent   *Config
	children []*Config
	index    int

	typeID    string
	modelName string
	payload   *yaml.Node
	removed   bool
}

// Model is a Config whose model name is non-empty. The name never changes:
// a rename replaces the node.
type Model struct {
	*Config
}

// ModelName returns the name of the model. It is never empty.
func (m Model) ModelName() string {
	return m.modelName
}

// Parent returns the parent attachment, nil for the root.
func (c *Config) Parent() *Config {
	return c.parent
}

// Children returns the child attachments. After removal it still returns
// the removed subtree. The slice must not be modified.
func (c *Config) Children() []*Config {
	return c.children
}

// ChildIndex returns the index of c within its parent. While handling
// Removed it is the index c was removed from, while handling Added the index
// it was inserted at.
func (c *Config) ChildIndex() int {
	return c.index
}

// ChildPath returns the child indices leading from the root to c. The root
// has an empty child path.
func (c *Config) ChildPath() []int {
	depth := 0
	for a := c; a.parent != nil; a = a.parent {
		depth++
	}
	res := make([]int, depth)
	for a := c; a.parent != nil; a = a.parent {
		depth--
		res[depth] = a.index
	}
	return res
}

// Path returns the root-relative document path of c. It is recomputed on
// every call and is only meaningful while c is not removed.
func (c *Config) Path() kpath.Path {
	key := c.tree.schema.AttachmentsKey
	indices := c.ChildPath()
	segs := make([]kpath.Segment, 0, 2*len(indices))
	for _, i := range indices {
		segs = append(segs, kpath.Field(key), kpath.Index(i))
	}
	return kpath.New(segs...)
}

// TypeID returns the attachment type identifier. While handling Removed it
// is the type that was removed.
func (c *Config) TypeID() string {
	return c.typeID
}

// Kind reports whether c is a plain or a model attachment.
func (c *Config) Kind() Kind {
	if c.modelName != "" {
		return KindModel
	}
	return KindPlain
}

// AsModel returns c as a Model if it is one.
func (c *Config) AsModel() (Model, bool) {
	if c.modelName == "" {
		return Model{}, false
	}
	return Model{Config: c}, true
}

// Payload returns the document node holding this attachment's own
// configuration. It is stale once c is removed and must not be used to
// inspect parents or children.
func (c *Config) Payload() *yaml.Node {
	return c.payload
}

// IsRemoved reports whether c was removed from the tree.
func (c *Config) IsRemoved() bool {
	return c.removed
}

// Tree returns the tree c belongs to.
func (c *Config) Tree() *Tree {
	return c.tree
}

// Depth returns the number of ancestors of c.
func (c *Config) Depth() int {
	n := 0
	for a := c.parent; a != nil; a = a.parent {
		n++
	}
	return n
}

// Walk calls fn for c and every descendant in pre-order. Returning false
// from fn skips the node's children.
func (c *Config) Walk(fn func(*Config) bool) {
	if !fn(c) {
		return
	}
	for _, child := range c.children {
		child.Walk(fn)
	}
}

func (c *Config) String() string {
	if c.modelName != "" {
		return fmt.Sprintf("{%s(%s) %s}", c.typeID, c.modelName, c.Path())
	}
	return fmt.Sprintf("{%s %s}", c.typeID, c.Path())
}
