package live

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/signadot/attachtree/attach"
	"github.com/signadot/attachtree/debug"
)

// Registry owns runtime hierarchies and the model library they mix in.
type Registry struct {
	log         *slog.Logger
	models      map[string]*attach.Config
	hierarchies []*Hierarchy
	byConfig    map[*attach.Config][]*Attachment
	batches     int
}

// Hierarchy is one independent tree of runtime attachments.
type Hierarchy struct {
	reg     *Registry
	name    string
	root    *Attachment
	batches int
}

// NewRegistry returns an empty registry. A nil logger means slog.Default.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		log:      log,
		models:   map[string]*attach.Config{},
		byConfig: map[*attach.Config][]*Attachment{},
	}
}

// Spawn instantiates the subtree at root as a new hierarchy.
func (r *Registry) Spawn(name string, root *attach.Config) (*Hierarchy, error) {
	if root.IsRemoved() {
		return nil, fmt.Errorf("spawn %s at %s: %w", name, root.Path(), attach.ErrRemoved)
	}
	h := &Hierarchy{reg: r, name: name}
	h.root = r.instantiate(h, nil, root, "")
	r.hierarchies = append(r.hierarchies, h)
	r.log.Debug("spawned hierarchy", "name", name, "root", root.Path().String())
	return h, nil
}

// Despawn destroys every attachment of h.
func (r *Registry) Despawn(h *Hierarchy) {
	i := slices.Index(r.hierarchies, h)
	if i < 0 {
		return
	}
	r.hierarchies = slices.Delete(r.hierarchies, i, i+1)
	r.destroy(h.root)
	r.log.Debug("despawned hierarchy", "name", h.name)
}

// Hierarchies returns the spawned hierarchies in spawn order.
func (r *Registry) Hierarchies() []*Hierarchy {
	return slices.Clone(r.hierarchies)
}

// Batches counts the synchronized batches seen by Listener.
func (r *Registry) Batches() int {
	return r.batches
}

// AddModel adds root to the model library under name, replacing any model
// of that name. Model attachments named name in every hierarchy get an
// instance of it.
func (r *Registry) AddModel(name string, root *attach.Config) {
	if _, ok := r.models[name]; ok {
		r.RemoveModel(name)
	}
	r.models[name] = root
	for _, a := range r.modelUsers(name) {
		r.mixIn(a, name)
	}
}

// RemoveModel removes a model from the library and destroys its instances.
func (r *Registry) RemoveModel(name string) {
	if _, ok := r.models[name]; !ok {
		return
	}
	delete(r.models, name)
	for _, a := range r.modelUsers(name) {
		if a.model != nil {
			m := a.model
			a.model = nil
			r.destroy(m)
		}
	}
}

// Models returns the names in the model library.
func (r *Registry) Models() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LiveAttachments implements attach.LiveFinder.
func (r *Registry) LiveAttachments(c *attach.Config) []attach.Live {
	as := r.byConfig[c]
	res := make([]attach.Live, len(as))
	for i, a := range as {
		res[i] = a
	}
	return res
}

// Instances returns the attachments created from c.
func (r *Registry) Instances(c *attach.Config) []*Attachment {
	return slices.Clone(r.byConfig[c])
}

func (r *Registry) modelUsers(name string) []*Attachment {
	var res []*Attachment
	for c, as := range r.byConfig {
		if m, ok := c.AsModel(); ok && m.ModelName() == name {
			res = append(res, as...)
		}
	}
	return res
}

func (r *Registry) instantiate(h *Hierarchy, parent *Attachment, c *attach.Config, mixin string) *Attachment {
	a := &Attachment{cfg: c, h: h, parent: parent, mixin: mixin, typeID: c.TypeID()}
	r.byConfig[c] = append(r.byConfig[c], a)
	if debug.Live() {
		debug.Logf("live: create %s\n", a)
	}
	for _, kid := range c.Children() {
		a.kids = append(a.kids, r.instantiate(h, a, kid, ""))
	}
	if m, ok := c.AsModel(); ok {
		if _, ok := r.models[m.ModelName()]; ok {
			r.mixIn(a, m.ModelName())
		}
	}
	return a
}

func (r *Registry) mixIn(a *Attachment, name string) {
	if a.model != nil || a.dead {
		return
	}
	if a.mixing(name) {
		r.log.Warn("model mixes itself in", "model", name, "hierarchy", a.h.name, "path", a.cfg.Path().String())
		return
	}
	root := r.models[name]
	if root.IsRemoved() {
		return
	}
	a.model = r.instantiate(a.h, a, root, name)
}

func (r *Registry) destroy(a *Attachment) {
	for _, k := range a.kids {
		r.destroy(k)
	}
	if a.model != nil {
		r.destroy(a.model)
	}
	a.dead = true
	as := r.byConfig[a.cfg]
	if i := slices.Index(as, a); i >= 0 {
		as = slices.Delete(as, i, i+1)
	}
	if len(as) == 0 {
		delete(r.byConfig, a.cfg)
	} else {
		r.byConfig[a.cfg] = as
	}
	if debug.Live() {
		debug.Logf("live: destroy %s\n", a)
	}
}

// Name returns the name given to Spawn.
func (h *Hierarchy) Name() string {
	return h.name
}

// Root returns the root attachment.
func (h *Hierarchy) Root() *Attachment {
	return h.root
}

// Batches counts the synchronized batches of the tree h was spawned from.
func (h *Hierarchy) Batches() int {
	return h.batches
}

// Walk calls fn for every attachment of h in pre-order, mixed in models
// after the child attachments.
func (h *Hierarchy) Walk(fn func(*Attachment)) {
	var walk func(a *Attachment)
	walk = func(a *Attachment) {
		fn(a)
		for _, k := range a.Children() {
			walk(k)
		}
	}
	if h.root != nil && !h.root.dead {
		walk(h.root)
	}
}
