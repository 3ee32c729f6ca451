package tracker

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/signadot/attachtree/attach"
	"github.com/signadot/attachtree/debug"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotMapping is returned for documents whose top level is not a
	// mapping.
	ErrNotMapping = errors.New("attachment document is not a mapping")

	// ErrBusy is returned by Update when called from a listener.
	ErrBusy = errors.New("tracker is already updating")

	// ErrCyclic is returned for documents holding an alias to one of its
	// own ancestors.
	ErrCyclic = errors.New("attachment document contains a cyclic alias")
)

// Tracker owns an attachment tree and the document it mirrors.
//
// All methods must be called from the goroutine owning the tree, see Loop.
type Tracker struct {
	tree      *attach.Tree
	doc       *yaml.Node
	listeners attach.Listeners
	log       *slog.Logger
	revision  int64
	updating  bool
}

// Option configures a Tracker.
type Option func(*options)

type options struct {
	schema attach.Schema
	log    *slog.Logger
	finder attach.LiveFinder
}

// WithSchema sets the document schema.
func WithSchema(s attach.Schema) Option {
	return func(o *options) { o.schema = s }
}

// WithLogger sets the logger of the tracker and its tree.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithLiveFinder sets the finder used by Config.RunAction on the tree.
func WithLiveFinder(f attach.LiveFinder) Option {
	return func(o *options) { o.finder = f }
}

// Parse decodes a YAML document. Empty input is an empty mapping.
func Parse(data []byte) (*yaml.Node, error) {
	n := &yaml.Node{}
	if err := yaml.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("parse attachment document: %w", err)
	}
	if n.Kind == 0 {
		return emptyMapping(), nil
	}
	return n, nil
}

func emptyMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// New returns a tracker for doc. A nil doc is an empty mapping.
func New(doc *yaml.Node, opts ...Option) (*Tracker, error) {
	o := &options{schema: attach.DefaultSchema}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	doc, err := topLevel(doc)
	if err != nil {
		return nil, err
	}
	tree, err := attach.NewTree(doc,
		attach.TreeSchema(o.schema),
		attach.TreeLogger(o.log),
		attach.TreeLiveFinder(o.finder))
	if err != nil {
		return nil, err
	}
	return &Tracker{tree: tree, doc: doc, log: o.log}, nil
}

// NewFromBytes parses data and returns a tracker for it.
func NewFromBytes(data []byte, opts ...Option) (*Tracker, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return New(doc, opts...)
}

func topLevel(doc *yaml.Node) (*yaml.Node, error) {
	doc = attach.Unwrap(doc)
	if doc == nil {
		return emptyMapping(), nil
	}
	if doc.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	if err := acyclic(doc, map[*yaml.Node]bool{}); err != nil {
		return nil, err
	}
	return doc, nil
}

// acyclic checks that no alias below n refers to a node on its own path.
// state holds true for nodes on the current path and false for nodes
// already found acyclic, so shared anchors are walked once.
func acyclic(n *yaml.Node, state map[*yaml.Node]bool) error {
	if n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n == nil {
		return nil
	}
	onPath, seen := state[n]
	if onPath {
		return fmt.Errorf("%w: line %d", ErrCyclic, n.Line)
	}
	if seen {
		return nil
	}
	state[n] = true
	for _, k := range n.Content {
		if err := acyclic(k, state); err != nil {
			return err
		}
	}
	state[n] = false
	return nil
}

// StartTracking registers l and returns the live root. l receives the
// changes of every later Update.
func (t *Tracker) StartTracking(l attach.Listener) *attach.Config {
	root, _ := t.Track(l)
	return root
}

// Track is StartTracking returning also a function unregistering l.
func (t *Tracker) Track(l attach.Listener) (root *attach.Config, stop func()) {
	stop = t.listeners.Add(l)
	return t.tree.Root(), stop
}

// Root returns the live root configuration.
func (t *Tracker) Root() *attach.Config {
	return t.tree.Root()
}

// Tree returns the tracked tree.
func (t *Tracker) Tree() *attach.Tree {
	return t.tree
}

// Document returns the current document mapping. It must not be modified.
func (t *Tracker) Document() *yaml.Node {
	return t.doc
}

// Revision returns the number of completed updates.
func (t *Tracker) Revision() int64 {
	return t.revision
}

// SetLiveFinder sets the finder used by Config.RunAction on the tree.
func (t *Tracker) SetLiveFinder(f attach.LiveFinder) {
	t.tree.SetLiveFinder(f)
}

// Load parses data and applies it with Update.
func (t *Tracker) Load(data []byte) error {
	doc, err := Parse(data)
	if err != nil {
		return err
	}
	return t.Update(doc)
}

// Update makes the tree mirror doc. Each delta is applied and announced in
// turn; the batch ends with Synchronized for the root, also when nothing
// changed. The document must not be modified afterwards.
func (t *Tracker) Update(doc *yaml.Node) error {
	if t.updating {
		return ErrBusy
	}
	doc, err := topLevel(doc)
	if err != nil {
		return err
	}
	t.updating = true
	defer func() { t.updating = false }()

	t.syncNode(t.tree.Root(), doc)
	t.doc = doc
	t.revision++
	t.emit(attach.Synchronized, t.tree.Root())
	return nil
}

func (t *Tracker) emit(ct attach.ChangeType, c *attach.Config) {
	ch := attach.Change{Type: ct, Config: c}
	if debug.Track() {
		debug.Logf("tracker: %s\n", ch)
	}
	t.listeners.Emit(ch)
}

// syncNode brings c, whose identity matches payload, up to date.
func (t *Tracker) syncNode(c *attach.Config, payload *yaml.Node) {
	s := t.tree.Schema()
	changed := hashNode(c.Payload(), s.AttachmentsKey) != hashNode(payload, s.AttachmentsKey)
	_, wasList := s.Children(c.Payload())
	t.tree.SetPayload(c, payload)
	if changed {
		t.emit(attach.Changed, c)
	}
	kids, ok := s.Children(payload)
	if !ok && wasList {
		t.log.Warn("ignoring non-list attachments", "path", c.Path().String())
	}
	t.syncChildren(c, kids)
}

func (t *Tracker) syncChildren(parent *attach.Config, to []*yaml.Node) {
	old := append([]*attach.Config(nil), parent.Children()...)
	from := make([]*yaml.Node, len(old))
	for i, c := range old {
		from[i] = c.Payload()
	}
	fi, ti, cur := 0, 0, 0
	for _, op := range alignChildren(from, to) {
		for k := 0; k < op.n; k++ {
			switch op.kind {
			case opKeep:
				t.syncNode(old[fi], to[ti])
				fi, ti, cur = fi+1, ti+1, cur+1
			case opUpdate:
				if t.sameIdentity(old[fi], to[ti]) {
					t.syncNode(old[fi], to[ti])
				} else {
					t.remove(old[fi])
					t.add(parent, cur, to[ti])
				}
				fi, ti, cur = fi+1, ti+1, cur+1
			case opRemove:
				t.remove(old[fi])
				fi++
			case opInsert:
				t.add(parent, cur, to[ti])
				ti, cur = ti+1, cur+1
			}
		}
	}
}

// sameIdentity reports whether payload can update c in place: same type
// and, for models, the same model name.
func (t *Tracker) sameIdentity(c *attach.Config, payload *yaml.Node) bool {
	s := t.tree.Schema()
	if c.TypeID() != s.TypeID(payload) {
		return false
	}
	name := ""
	if m, ok := c.AsModel(); ok {
		name = m.ModelName()
	}
	return name == s.ModelName(payload)
}

func (t *Tracker) remove(c *attach.Config) {
	t.tree.Remove(c)
	t.emit(attach.Removed, c)
}

func (t *Tracker) add(parent *attach.Config, i int, payload *yaml.Node) {
	c := t.tree.Build(payload)
	t.tree.Insert(parent, i, c)
	t.emit(attach.Added, c)
}
