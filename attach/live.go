package attach

import (
	"fmt"
)

// Live is a runtime object instantiated from a Config.
type Live interface {
	Config() *Config
}

// LiveFinder locates the live objects currently instantiated from a Config.
// A model configuration referenced by several runtime hierarchies yields one
// object per hierarchy.
type LiveFinder interface {
	LiveAttachments(c *Config) []Live
}

// RunAction runs action for every live object using this configuration.
// It must be called from the goroutine owning the tree.
//
// An error or panic from action is logged and does not stop delivery to the
// remaining objects; it is never returned. The only error is ErrRemoved.
func (c *Config) RunAction(action func(Live) error) error {
	if c.removed {
		return fmt.Errorf("%w: %s", ErrRemoved, c.Path())
	}
	f := c.tree.finder
	if f == nil {
		return nil
	}
	for _, l := range f.LiveAttachments(c) {
		if err := runIsolated(action, l); err != nil {
			c.tree.log.Error("attachment action failed", "path", c.Path().String(), "type", c.typeID, "error", err)
		}
	}
	return nil
}

func runIsolated(action func(Live) error, l Live) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return action(l)
}

// LiveAttachments returns the live objects using this configuration. The
// result is a snapshot: poll again to stay up to date.
func (c *Config) LiveAttachments() ([]Live, error) {
	res := []Live{}
	err := c.RunAction(func(l Live) error {
		res = append(res, l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
