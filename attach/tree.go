package attach

import (
	"fmt"
	"log/slog"
	"slices"

	"gopkg.in/yaml.v3"
)

// Tree holds the root of an attachment hierarchy and the settings shared by
// all its nodes.
//
// The mutating methods (Insert, Remove, SetPayload) are meant for the
// owner of the tree, normally a tracker, which emits the matching Change
// after each call.
type Tree struct {
	schema Schema
	log    *slog.Logger
	finder LiveFinder
	root   *Config
}

// TreeOption configures a Tree.
type TreeOption func(*Tree)

// TreeSchema sets the schema. Empty names fall back to DefaultSchema.
func TreeSchema(s Schema) TreeOption {
	return func(t *Tree) { t.schema = s.WithDefaults() }
}

// TreeLogger sets the logger used to report action failures.
func TreeLogger(l *slog.Logger) TreeOption {
	return func(t *Tree) { t.log = l }
}

// TreeLiveFinder sets the finder used by Config.RunAction.
func TreeLiveFinder(f LiveFinder) TreeOption {
	return func(t *Tree) { t.finder = f }
}

// NewTree builds a tree from a document. Children are created from the
// reserved attachments lists, recursively.
func NewTree(doc *yaml.Node, opts ...TreeOption) (*Tree, error) {
	t := &Tree{schema: DefaultSchema}
	for _, o := range opts {
		o(t)
	}
	if t.log == nil {
		t.log = slog.Default()
	}
	doc = Unwrap(doc)
	if doc == nil {
		doc = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("attachment document: expected mapping, got %s", kindName(doc.Kind))
	}
	t.root = t.Build(doc)
	t.root.modelName = ""
	return t, nil
}

// Root returns the root configuration.
func (t *Tree) Root() *Config {
	return t.root
}

// Schema returns the schema of the tree.
func (t *Tree) Schema() Schema {
	return t.schema
}

// Logger returns the tree's logger.
func (t *Tree) Logger() *slog.Logger {
	return t.log
}

// SetLiveFinder replaces the finder used by Config.RunAction.
func (t *Tree) SetLiveFinder(f LiveFinder) {
	t.finder = f
}

// Build creates a detached configuration for payload and its children. The
// result belongs to t but is not linked into it until Insert.
func (t *Tree) Build(payload *yaml.Node) *Config {
	payload = Unwrap(payload)
	c := &Config{
		tree:      t,
		typeID:    t.schema.TypeID(payload),
		modelName: t.schema.ModelName(payload),
		payload:   payload,
	}
	kids, ok := t.schema.Children(payload)
	if !ok {
		t.log.Warn("ignoring non-list attachments", "type", c.typeID, "key", t.schema.AttachmentsKey)
	}
	c.children = make([]*Config, 0, len(kids))
	for i, kid := range kids {
		child := t.Build(kid)
		child.parent = c
		child.index = i
		c.children = append(c.children, child)
	}
	return c
}

// Insert links the detached c as the i'th child of parent. Following
// siblings shift up by one.
func (t *Tree) Insert(parent *Config, i int, c *Config) {
	if i < 0 || i > len(parent.children) {
		panic(fmt.Sprintf("attach: insert index %d out of range [0,%d]", i, len(parent.children)))
	}
	c.parent = parent
	parent.children = slices.Insert(parent.children, i, c)
	reindex(parent.children, i)
}

// Remove unlinks c from its parent and marks c and its subtree removed.
// c keeps its child index and parent link for diagnostics.
func (t *Tree) Remove(c *Config) {
	if p := c.parent; p != nil && !c.removed {
		i := c.index
		if i < len(p.children) && p.children[i] == c {
			p.children = slices.Delete(p.children, i, i+1)
			reindex(p.children, i)
		}
	}
	c.Walk(func(x *Config) bool {
		x.removed = true
		return true
	})
}

// SetPayload replaces the payload of c. The caller guarantees that type
// and model name are unchanged, except for the root: it is always plain and
// takes the type of its new payload.
func (t *Tree) SetPayload(c *Config, payload *yaml.Node) {
	c.payload = Unwrap(payload)
	if c == t.root {
		c.typeID = t.schema.TypeID(c.payload)
	}
}

func reindex(kids []*Config, from int) {
	for j := from; j < len(kids); j++ {
		kids[j].index = j
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return fmt.Sprintf("kind(%d)", k)
}
