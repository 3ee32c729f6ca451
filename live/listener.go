package live

import (
	"slices"

	"github.com/signadot/attachtree/attach"
)

// Listener returns a listener applying tracker changes to every attachment
// created from the changed configurations. Register it with each tracker
// whose trees back the registry's hierarchies or models.
func (r *Registry) Listener() attach.Listener {
	return (*mirror)(r)
}

type mirror Registry

func (m *mirror) reg() *Registry { return (*Registry)(m) }

func (m *mirror) OnAttachmentAdded(c *attach.Config) {
	r := m.reg()
	p := c.Parent()
	if p == nil {
		return
	}
	for _, pa := range slices.Clone(r.byConfig[p]) {
		i := c.ChildIndex()
		if i > len(pa.kids) {
			r.log.Error("live attachment out of step", "hierarchy", pa.h.name, "path", c.Path().String(), "index", i, "children", len(pa.kids))
			continue
		}
		pa.kids = slices.Insert(pa.kids, i, r.instantiate(pa.h, pa, c, ""))
	}
}

func (m *mirror) OnAttachmentRemoved(c *attach.Config) {
	r := m.reg()
	for _, a := range slices.Clone(r.byConfig[c]) {
		if pa := a.parent; pa != nil {
			if i := slices.Index(pa.kids, a); i >= 0 {
				pa.kids = slices.Delete(pa.kids, i, i+1)
			} else if pa.model == a {
				pa.model = nil
			}
		} else {
			r.despawnRoot(a.h)
		}
		r.destroy(a)
	}
	for name, root := range r.models {
		if root == c {
			delete(r.models, name)
		}
	}
}

func (m *mirror) OnAttachmentChanged(c *attach.Config) {
	for _, a := range m.reg().byConfig[c] {
		a.reload()
	}
}

func (m *mirror) OnSynchronized(c *attach.Config) {
	r := m.reg()
	r.batches++
	for _, h := range r.hierarchies {
		if h.root.cfg.Tree() == c.Tree() {
			h.batches++
		}
	}
}

func (r *Registry) despawnRoot(h *Hierarchy) {
	if i := slices.Index(r.hierarchies, h); i >= 0 {
		r.hierarchies = slices.Delete(r.hierarchies, i, i+1)
		r.log.Info("hierarchy root removed", "name", h.name)
	}
}
