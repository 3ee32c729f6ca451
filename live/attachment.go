package live

import (
	"fmt"
	"slices"

	"github.com/signadot/attachtree/attach"
)

// Attachment is a runtime instance of an attachment configuration.
type Attachment struct {
	cfg      *attach.Config
	h        *Hierarchy
	parent   *Attachment
	kids     []*Attachment
	model    *Attachment
	mixin    string
	typeID   string
	revision int
	dead     bool
}

// Config returns the configuration the attachment was created from.
func (a *Attachment) Config() *attach.Config {
	return a.cfg
}

// Hierarchy returns the hierarchy owning a.
func (a *Attachment) Hierarchy() *Hierarchy {
	return a.h
}

// Parent returns the enclosing attachment, nil for a hierarchy root.
func (a *Attachment) Parent() *Attachment {
	return a.parent
}

// Children returns the attachments created from the child configurations,
// followed by the mixed in model, if any.
func (a *Attachment) Children() []*Attachment {
	res := slices.Clone(a.kids)
	if a.model != nil {
		res = append(res, a.model)
	}
	return res
}

// Model returns the library model mixed in below a, or nil.
func (a *Attachment) Model() *Attachment {
	return a.model
}

// MixedIn returns the library name when a is the root of a mixed in model.
func (a *Attachment) MixedIn() string {
	return a.mixin
}

// Revision counts the configuration reloads of a.
func (a *Attachment) Revision() int {
	return a.revision
}

// TypeID returns the type identifier seen at the last (re)load.
func (a *Attachment) TypeID() string {
	return a.typeID
}

// IsDestroyed reports whether a was torn down.
func (a *Attachment) IsDestroyed() bool {
	return a.dead
}

func (a *Attachment) String() string {
	return fmt.Sprintf("%s:%s", a.h.name, a.cfg)
}

func (a *Attachment) reload() {
	a.revision++
	a.typeID = a.cfg.TypeID()
}

// mixing reports whether a model named name is already mixed in at or
// above a.
func (a *Attachment) mixing(name string) bool {
	for x := a; x != nil; x = x.parent {
		if x.mixin == name {
			return true
		}
	}
	return false
}
