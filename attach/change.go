package attach

import (
	"fmt"

	"github.com/signadot/attachtree/attach/kpath"
)

// ChangeType is the kind of change that occurred to an attachment.
type ChangeType int

const (
	// Added means the attachment and all its children were added.
	Added ChangeType = iota + 1
	// Removed means the attachment and all its children were removed.
	Removed
	// Changed means the attachment's own configuration changed and needs to
	// be reloaded. The Config is the same one seen in previous events.
	Changed
	// Synchronized means all attachments have been synchronized and the
	// attachment, normally the root, is an up to date representation of
	// the document.
	Synchronized
)

func (t ChangeType) String() string {
	switch t {
	case Added:
		return "ADDED"
	case Removed:
		return "REMOVED"
	case Changed:
		return "CHANGED"
	case Synchronized:
		return "SYNCHRONIZED"
	default:
		return fmt.Sprintf("ChangeType(%d)", int(t))
	}
}

// Change is a single attachment change notification.
type Change struct {
	Type   ChangeType
	Config *Config
}

func (ch Change) String() string {
	return "{" + ch.Type.String() + " " + ch.Config.Path().String() + "}"
}

// Listener receives attachment changes. Use Config.ChildIndex to locate the
// attachment in the listener's own representation.
type Listener interface {
	OnAttachmentAdded(c *Config)
	OnAttachmentRemoved(c *Config)
	OnAttachmentChanged(c *Config)
	OnSynchronized(c *Config)
}

// Dispatch calls the one method of l matching ch.Type.
func Dispatch(l Listener, ch Change) {
	switch ch.Type {
	case Added:
		l.OnAttachmentAdded(ch.Config)
	case Removed:
		l.OnAttachmentRemoved(ch.Config)
	case Changed:
		l.OnAttachmentChanged(ch.Config)
	case Synchronized:
		l.OnSynchronized(ch.Config)
	default:
		panic(fmt.Sprintf("attach: dispatch of %s", ch.Type))
	}
}

// ListenerFuncs is a Listener made of optional functions.
type ListenerFuncs struct {
	Added        func(*Config)
	Removed      func(*Config)
	Changed      func(*Config)
	Synchronized func(*Config)
}

func (f ListenerFuncs) OnAttachmentAdded(c *Config) {
	if f.Added != nil {
		f.Added(c)
	}
}

func (f ListenerFuncs) OnAttachmentRemoved(c *Config) {
	if f.Removed != nil {
		f.Removed(c)
	}
}

func (f ListenerFuncs) OnAttachmentChanged(c *Config) {
	if f.Changed != nil {
		f.Changed(c)
	}
}

func (f ListenerFuncs) OnSynchronized(c *Config) {
	if f.Synchronized != nil {
		f.Synchronized(c)
	}
}

// ChangeFunc adapts a function over Change values to a Listener.
type ChangeFunc func(Change)

func (f ChangeFunc) OnAttachmentAdded(c *Config)   { f(Change{Type: Added, Config: c}) }
func (f ChangeFunc) OnAttachmentRemoved(c *Config) { f(Change{Type: Removed, Config: c}) }
func (f ChangeFunc) OnAttachmentChanged(c *Config) { f(Change{Type: Changed, Config: c}) }
func (f ChangeFunc) OnSynchronized(c *Config)      { f(Change{Type: Synchronized, Config: c}) }

// Listeners delivers every change to each listener, in registration order.
// The zero value is ready to use.
type Listeners struct {
	next int
	ls   []listenerEntry
}

type listenerEntry struct {
	id int
	l  Listener
}

// Add registers l and returns a function unregistering it.
func (s *Listeners) Add(l Listener) (remove func()) {
	s.next++
	id := s.next
	s.ls = append(s.ls, listenerEntry{id: id, l: l})
	return func() {
		for i, e := range s.ls {
			if e.id == id {
				s.ls = append(s.ls[:i:i], s.ls[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of registered listeners.
func (s *Listeners) Len() int {
	return len(s.ls)
}

// Emit dispatches ch to every listener.
func (s *Listeners) Emit(ch Change) {
	for _, e := range s.ls {
		Dispatch(e.l, ch)
	}
}

// Filter returns a Listener forwarding to l only changes of attachments
// related to prefix: at prefix, below it, or above it (an ancestor change
// affects the subtree). Synchronized is always forwarded.
func Filter(prefix kpath.Path, l Listener) Listener {
	return ChangeFunc(func(ch Change) {
		if ch.Type != Synchronized && !related(prefix, ch.Config.Path()) {
			return
		}
		Dispatch(l, ch)
	})
}

func related(watch, p kpath.Path) bool {
	return p.HasPrefix(watch) || watch.HasPrefix(p)
}
